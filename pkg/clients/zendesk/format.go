package zendesk

import (
	"fmt"
	"strings"

	"github.com/aminekone/ticketbridge/internal/domain/models"
)

const analysisHeader = "🤖 **AI Analysis Report**"

var sentimentEmoji = map[string]string{
	"Positive": "😊",
	"Neutral":  "😐",
	"Negative": "😞",
}

var satisfactionEmoji = map[string]string{
	"High":   "✅",
	"Medium": "⚠️",
	"Low":    "❌",
}

// FormatAnalysisComment renders a CommentAnalysis into the human-readable
// comment body posted on the ticket. Every field is optional; an empty
// analysis still produces the header.
func FormatAnalysisComment(analysis models.CommentAnalysis) string {
	parts := []string{analysisHeader, ""}

	if analysis.Summary != "" {
		parts = append(parts, fmt.Sprintf("**Summary:** %s", analysis.Summary), "")
	}

	if analysis.Sentiment != "" {
		emoji, ok := sentimentEmoji[analysis.Sentiment]
		if !ok {
			emoji = "❓"
		}
		parts = append(parts, fmt.Sprintf("**Sentiment:** %s %s", emoji, analysis.Sentiment))
	}

	if analysis.SatisfactionLikelihood != "" {
		emoji, ok := satisfactionEmoji[analysis.SatisfactionLikelihood]
		if !ok {
			emoji = "❓"
		}
		parts = append(parts, fmt.Sprintf("**Satisfaction Likelihood:** %s %s", emoji, analysis.SatisfactionLikelihood))
	}

	if analysis.AgentEmpathyScore != 0 {
		parts = append(parts, fmt.Sprintf("**Agent Empathy Score:** %d/5", analysis.AgentEmpathyScore))
	}

	if analysis.ClarityScore != 0 {
		parts = append(parts, fmt.Sprintf("**Clarity Score:** %d/5", analysis.ClarityScore))
	}

	parts = appendBulletSection(parts, "**Pain Points:**", analysis.PainPoints)
	parts = appendBulletSection(parts, "**Frustration Signals:**", analysis.FrustrationSignals)
	parts = appendBulletSection(parts, "**Action Recommendations:**", analysis.ActionRecommendations)

	if analysis.ResolutionConfidence != "" {
		parts = append(parts, "", fmt.Sprintf("**Resolution Confidence:** %s", analysis.ResolutionConfidence))
	}

	return strings.Join(parts, "\n")
}

func appendBulletSection(parts []string, title string, items []string) []string {
	if len(items) == 0 {
		return parts
	}
	parts = append(parts, "", title)
	for _, item := range items {
		parts = append(parts, "• "+item)
	}
	return parts
}
