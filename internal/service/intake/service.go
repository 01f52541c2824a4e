// Package intake turns inbound WhatsApp messages into Zendesk tickets.
package intake

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/domain/models"
	"github.com/aminekone/ticketbridge/pkg/clients/zendesk"
)

// Service creates tickets from validated WhatsApp content.
type Service struct {
	zendesk zendesk.Client
	logger  *zap.Logger
}

// NewService wires the intake service. A nil Zendesk client disables ticket
// creation (the pathway reports an error result instead).
func NewService(zd zendesk.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{zendesk: zd, logger: logger}
}

// ProcessMessage validates the message content and, when actionable, creates
// a Zendesk ticket on behalf of the sender.
func (s *Service) ProcessMessage(ctx context.Context, msg models.WhatsAppMessage, requestID string) models.IntakeResult {
	valid, guidance := ValidateContent(msg.Body)
	if !valid {
		s.logger.Info("whatsapp content validation failed",
			zap.String("request_id", requestID),
			zap.String("reason", guidance))
		return models.IntakeResult{
			Status:  models.IntakeValidationFailed,
			Message: guidance,
		}
	}

	if s.zendesk == nil {
		return models.IntakeResult{
			Status:  models.IntakeError,
			Message: "Failed to create ticket. Please try again later.",
		}
	}

	draft := BuildTicketDraft(msg.FromNumber, msg.Body)

	s.logger.Info("creating zendesk ticket from whatsapp",
		zap.String("request_id", requestID),
		zap.String("from", msg.FromNumber),
		zap.String("subject", draft.Subject),
		zap.String("priority", draft.Priority))

	created := s.zendesk.CreateTicket(ctx, draft)
	if created.Status != models.StatusSuccess {
		s.logger.Error("ticket creation failed",
			zap.String("request_id", requestID),
			zap.String("reason", created.Message))
		return models.IntakeResult{
			Status:  models.IntakeError,
			Message: "Failed to create ticket. Please try again later.",
		}
	}

	return models.IntakeResult{
		Status:   models.IntakeCreated,
		TicketID: created.TicketID,
		Subject:  draft.Subject,
		Message:  fmt.Sprintf("Ticket #%s created successfully", created.TicketID),
	}
}

// BuildTicketDraft derives the ticket shape from the sender and message: a
// subject from the first sentence, a keyword-based priority, and a synthetic
// requester identity built from the phone number.
func BuildTicketDraft(phoneNumber, messageBody string) models.TicketDraft {
	clean := strings.TrimSpace(messageBody)

	return models.TicketDraft{
		Subject:     DeriveSubject(clean),
		Description: clean,
		Requester: models.Requester{
			Name:  fmt.Sprintf("WhatsApp User (%s)", phoneNumber),
			Email: fmt.Sprintf("%s@whatsapp.zendesk.com", phoneNumber),
		},
		Tags:     []string{"whatsapp", "auto-created"},
		Priority: DeterminePriority(clean),
		Type:     "incident",
	}
}

// DeriveSubject takes the first sentence, capped at 50 characters with an
// ellipsis, falling back to a generic subject for degenerate input.
func DeriveSubject(message string) string {
	firstSentence := strings.TrimSpace(strings.SplitN(message, ".", 2)[0])
	if runes := []rune(firstSentence); len(runes) > 50 {
		firstSentence = string(runes[:47]) + "..."
	}
	if firstSentence == "" {
		return "WhatsApp Support Request"
	}
	return firstSentence
}

var urgentKeywords = []string{"urgent", "emergency", "critical", "broken", "down", "outage"}

var highKeywords = []string{"important", "issue", "problem", "error", "failed", "not working"}

// DeterminePriority maps message keywords onto a ticket priority.
func DeterminePriority(message string) string {
	lower := strings.ToLower(message)

	for _, keyword := range urgentKeywords {
		if strings.Contains(lower, keyword) {
			return "urgent"
		}
	}
	for _, keyword := range highKeywords {
		if strings.Contains(lower, keyword) {
			return "high"
		}
	}
	return "normal"
}
