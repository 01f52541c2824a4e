// Package inference wraps the external text-classification and
// comment-analysis backends behind small interfaces. Which classifier backend
// runs is a deployment decision made at startup, not per request.
package inference

import (
	"context"
	"strings"

	"github.com/aminekone/ticketbridge/internal/domain/models"
)

// Classifier assigns a category to ticket text.
type Classifier interface {
	Classify(ctx context.Context, subject, description string) models.ClassificationResult
}

// Analyzer produces a support-quality report from a ticket's public comments.
type Analyzer interface {
	AnalyzeComments(ctx context.Context, comments []models.PublicComment) models.AnalyzerResult
}

// stripJSONFences removes markdown code fences some models wrap around JSON
// output before strict parsing.
func stripJSONFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
