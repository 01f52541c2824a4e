package tickets

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/audit"
	"github.com/aminekone/ticketbridge/internal/domain/models"
	"github.com/aminekone/ticketbridge/pkg/clients/inference"
	"github.com/aminekone/ticketbridge/pkg/clients/zendesk"
)

// Service orchestrates the Zendesk webhook pathways: classification on ticket
// creation, support-quality analysis on resolution. Vendor clients may be nil
// when their credentials are absent; the affected step then degrades instead
// of failing the webhook.
type Service struct {
	classifier inference.Classifier
	analyzer   inference.Analyzer
	zendesk    zendesk.Client
	journal    *audit.Journal
	logger     *zap.Logger
}

// NewService wires a new orchestration service.
func NewService(classifier inference.Classifier, analyzer inference.Analyzer, zd zendesk.Client, journal *audit.Journal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		classifier: classifier,
		analyzer:   analyzer,
		zendesk:    zd,
		journal:    journal,
		logger:     logger,
	}
}

// parsedBody is the outcome of the lenient body parse: JSON when possible,
// otherwise the body is carried as opaque text.
type parsedBody struct {
	DataType string
	Event    models.IncomingTicketEvent
	IsJSON   bool
}

// parseEventBody never fails: malformed JSON degrades to treating the body as
// text with empty event fields.
func parseEventBody(body []byte) parsedBody {
	var envelope models.TicketEventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return parsedBody{DataType: "TEXT"}
	}

	parsed := parsedBody{DataType: "JSON", IsJSON: true}

	if envelope.Event != nil {
		parsed.Event.CurrentStatus = envelope.Event.Current
	}
	if envelope.Detail != nil {
		parsed.Event.TicketID = string(envelope.Detail.ID)
		parsed.Event.Subject = envelope.Detail.Subject
		parsed.Event.Description = envelope.Detail.Description
		parsed.Event.EventType = envelope.Detail.Status
	}

	return parsed
}

// ProcessTicketCreated handles a ticket-created webhook: extract the ticket
// fields, classify, and write tags/comment back when a ticket id is present.
// Sub-failures degrade the outcome; they never fail the webhook.
func (s *Service) ProcessTicketCreated(ctx context.Context, requestID string, body []byte) models.Outcome {
	outcome := models.Outcome{Kind: models.OutcomeOk, Message: "Webhook logged successfully"}

	parsed := parseEventBody(body)
	outcome.Set("data_type", parsed.DataType)

	event := parsed.Event
	if parsed.IsJSON {
		s.logger.Info("ticket event parsed",
			zap.String("request_id", requestID),
			zap.String("ticket_id", event.TicketID),
			zap.String("subject", truncate(event.Subject, 50)))
	} else {
		s.logger.Info("body treated as text", zap.String("request_id", requestID))
	}

	var classification models.ClassificationResult
	if s.classifier == nil {
		classification = models.ClassificationResult{
			Status:  models.StatusError,
			Message: "Failed to categorize ticket: no classifier backend configured",
		}
		outcome.Degrade("classifier not configured")
	} else {
		classification = s.classifier.Classify(ctx, event.Subject, event.Description)
		if classification.Status != models.StatusSuccess {
			outcome.Degrade("classification failed: " + classification.Message)
		}
	}
	s.journal.RecordVendor(requestID, "classifier", classification)
	outcome.Set("categorization_response", classification)

	// The update field is always present in the envelope; skipped updates
	// report it as null.
	if event.TicketID == "" {
		s.logger.Warn("no ticket id found, skipping zendesk update", zap.String("request_id", requestID))
		outcome.Set("zendesk_update_result", nil)
		return outcome
	}

	if s.zendesk == nil {
		outcome.Degrade("zendesk client not configured")
		outcome.Set("zendesk_update_result", nil)
		return outcome
	}

	updateResult := s.zendesk.UpdateTicketTags(ctx, classification, event.TicketID)
	s.journal.RecordVendor(requestID, "zendesk", updateResult)
	outcome.Set("zendesk_update_result", updateResult)
	if updateResult.Status != models.StatusSuccess {
		outcome.Degrade("zendesk update failed: " + updateResult.Message)
	}

	return outcome
}

// ProcessStatusChanged handles a status-change webhook. Only the
// SOLVED/SOLVED combination triggers the analysis pathway; anything else is
// acknowledged without side effects.
func (s *Service) ProcessStatusChanged(ctx context.Context, requestID string, body []byte) models.Outcome {
	parsed := parseEventBody(body)
	if !parsed.IsJSON {
		return models.Outcome{Kind: models.OutcomeFailed, Message: "Invalid data format"}
	}

	event := parsed.Event
	outcome := models.Outcome{Kind: models.OutcomeOk}
	outcome.Set("ticket_id", event.TicketID)
	outcome.Set("current_status", event.CurrentStatus)
	outcome.Set("ticket_status", event.EventType)

	if event.CurrentStatus != "SOLVED" || event.EventType != "SOLVED" {
		s.logger.Info("ticket status is not SOLVED",
			zap.String("request_id", requestID),
			zap.String("current", event.CurrentStatus),
			zap.String("ticket", event.EventType))
		outcome.Message = "Ticket status changed but not to SOLVED"
		return outcome
	}

	outcome.Message = "Ticket status changed to SOLVED"
	s.logger.Info("ticket solved", zap.String("request_id", requestID), zap.String("ticket_id", event.TicketID))

	if event.TicketID == "" {
		s.logger.Warn("no ticket id found, skipping summary update", zap.String("request_id", requestID))
		outcome.Degrade("no ticket id in event")
		return outcome
	}

	if s.zendesk == nil || s.analyzer == nil {
		outcome.Degrade("analysis pathway not configured")
		return outcome
	}

	comments, err := s.zendesk.ExtractTicketComments(ctx, event.TicketID)
	if err != nil {
		s.logger.Error("failed fetching ticket comments", zap.String("request_id", requestID), zap.Error(err))
		outcome.Degrade("failed to fetch comments: " + err.Error())
		return outcome
	}

	if len(comments) == 0 {
		s.logger.Warn("no public comments found", zap.String("request_id", requestID), zap.String("ticket_id", event.TicketID))
		return outcome
	}

	analyzerResult := s.analyzer.AnalyzeComments(ctx, comments)
	s.journal.RecordVendor(requestID, "analyzer", analyzerResult)
	outcome.Set("llm_response", analyzerResult)
	if analyzerResult.Status != models.StatusSuccess {
		outcome.Degrade("analysis failed: " + analyzerResult.Message)
		return outcome
	}

	var analysis models.CommentAnalysis
	if err := json.Unmarshal([]byte(analyzerResult.GeneratedContent), &analysis); err != nil {
		s.logger.Error("failed parsing analysis content", zap.String("request_id", requestID), zap.Error(err))
		outcome.Degrade("failed to parse analysis content")
		return outcome
	}

	updateResult := s.zendesk.UpdateTicketWithAnalysis(ctx, analysis, event.TicketID)
	s.journal.RecordVendor(requestID, "zendesk", updateResult)
	outcome.Set("analysis_update_result", updateResult)
	if updateResult.Status != models.StatusSuccess {
		outcome.Degrade("zendesk update failed: " + updateResult.Message)
	}

	return outcome
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
