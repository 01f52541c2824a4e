package zendesk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aminekone/ticketbridge/internal/domain/models"
)

func TestFormatAnalysisComment_EmptyAnalysisStillEmitsHeader(t *testing.T) {
	body := FormatAnalysisComment(models.CommentAnalysis{})
	assert.True(t, strings.HasPrefix(body, analysisHeader))
}

func TestFormatAnalysisComment_FullAnalysis(t *testing.T) {
	body := FormatAnalysisComment(models.CommentAnalysis{
		Summary:                "Customer could not log in; agent reset the session.",
		Sentiment:              "Negative",
		SatisfactionLikelihood: "Medium",
		PainPoints:             []string{"repeated login failures"},
		AgentEmpathyScore:      4,
		ClarityScore:           5,
		ResolutionConfidence:   "High",
		FrustrationSignals:     []string{"multiple follow-ups"},
		ActionRecommendations:  []string{"add a session-expiry warning"},
	})

	assert.Contains(t, body, analysisHeader)
	assert.Contains(t, body, "**Summary:** Customer could not log in; agent reset the session.")
	assert.Contains(t, body, "😞 Negative")
	assert.Contains(t, body, "⚠️ Medium")
	assert.Contains(t, body, "**Agent Empathy Score:** 4/5")
	assert.Contains(t, body, "**Clarity Score:** 5/5")
	assert.Contains(t, body, "• repeated login failures")
	assert.Contains(t, body, "• multiple follow-ups")
	assert.Contains(t, body, "• add a session-expiry warning")
	assert.Contains(t, body, "**Resolution Confidence:** High")
}

func TestFormatAnalysisComment_UnknownSentimentFallsBack(t *testing.T) {
	body := FormatAnalysisComment(models.CommentAnalysis{Sentiment: "Mixed"})
	assert.Contains(t, body, "❓ Mixed")
}
