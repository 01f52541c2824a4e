package intake

import (
	"regexp"
	"strings"
)

// greetingPatterns match throwaway openers that carry no ticket-worthy
// content, anchored at the start of the message.
var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^hi\b`),
	regexp.MustCompile(`^hello\b`),
	regexp.MustCompile(`^hey\b`),
	regexp.MustCompile(`^good\s*(morning|afternoon|evening)\b`),
	regexp.MustCompile(`^thanks?\b`),
	regexp.MustCompile(`^thank\s*you\b`),
	regexp.MustCompile(`^ok\b`),
	regexp.MustCompile(`^okay\b`),
	regexp.MustCompile(`^yes\b`),
	regexp.MustCompile(`^no\b`),
	regexp.MustCompile(`^help\b`),
	regexp.MustCompile(`^support\b`),
}

// issueKeywords signal an actionable request; short messages without any of
// them are rejected with guidance.
var issueKeywords = []string{
	"problem", "issue", "error", "bug", "broken", "not working", "can't", "cannot",
	"failed", "failure", "trouble", "difficulty", "question", "inquiry", "request",
	"need", "want", "looking for", "searching for", "trying to", "attempting to",
}

const moreDetailsGuidance = "Please provide more details about your issue."

const describeIssueGuidance = "Please describe your issue or request. For example: 'I can't log into my account' or 'Need help with billing'"

// ValidateContent decides whether a WhatsApp message carries enough substance
// to open a ticket. The second return value is the rejection guidance sent
// back to the customer, or a confirmation when valid.
func ValidateContent(messageBody string) (bool, string) {
	clean := strings.TrimSpace(messageBody)
	if clean == "" {
		return false, "Message is empty"
	}

	if len(clean) < 10 {
		return false, moreDetailsGuidance
	}

	lower := strings.ToLower(clean)
	for _, pattern := range greetingPatterns {
		if pattern.MatchString(lower) {
			return false, moreDetailsGuidance
		}
	}

	hasIssueKeyword := false
	for _, keyword := range issueKeywords {
		if strings.Contains(lower, keyword) {
			hasIssueKeyword = true
			break
		}
	}

	if !hasIssueKeyword && len(clean) < 20 {
		return false, describeIssueGuidance
	}

	return true, "Content is valid"
}
