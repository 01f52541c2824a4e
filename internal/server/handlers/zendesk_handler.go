package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/audit"
	"github.com/aminekone/ticketbridge/internal/domain/models"
	"github.com/aminekone/ticketbridge/internal/service/tickets"
)

// ZendeskWebhookHandler exposes the Zendesk ticket-event endpoints. Both
// endpoints always acknowledge the webhook with HTTP 200; sub-failures are
// embedded in the response envelope, not surfaced as transport errors.
type ZendeskWebhookHandler struct {
	svc     *tickets.Service
	journal *audit.Journal
	logger  *zap.Logger
}

// NewZendeskWebhookHandler constructs the HTTP handler adapter.
func NewZendeskWebhookHandler(svc *tickets.Service, journal *audit.Journal, logger *zap.Logger) *ZendeskWebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZendeskWebhookHandler{svc: svc, journal: journal, logger: logger}
}

// TicketCreated ingests ticket-created events: classify, then write tags and
// a private comment back to the ticket.
func (h *ZendeskWebhookHandler) TicketCreated(c *gin.Context) {
	requestID := uuid.NewString()
	h.logger.Info("ticketCreatedWebhook called", zap.String("request_id", requestID))

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.respond(c, requestID, models.Outcome{Kind: models.OutcomeFailed, Message: err.Error()})
		return
	}
	h.journal.RecordRequest(requestID, "/ticketCreatedWebhook", string(body))

	outcome := h.svc.ProcessTicketCreated(c.Request.Context(), requestID, body)
	h.respond(c, requestID, outcome)
}

// TicketStatusChanged ingests status-change events and runs the analysis
// pathway when the ticket transitioned to SOLVED.
func (h *ZendeskWebhookHandler) TicketStatusChanged(c *gin.Context) {
	requestID := uuid.NewString()
	h.logger.Info("ticketStatusChangedWebhook called", zap.String("request_id", requestID))

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.respond(c, requestID, models.Outcome{Kind: models.OutcomeFailed, Message: err.Error()})
		return
	}
	h.journal.RecordRequest(requestID, "/ticketStatusChangedWebhook", string(body))

	outcome := h.svc.ProcessStatusChanged(c.Request.Context(), requestID, body)
	h.respond(c, requestID, outcome)
}

// respond writes the uniform envelope. The webhook delivery contract is
// always-acknowledge: HTTP 200 regardless of embedded sub-failures.
func (h *ZendeskWebhookHandler) respond(c *gin.Context, requestID string, outcome models.Outcome) {
	status := models.StatusSuccess
	if outcome.Kind == models.OutcomeFailed {
		status = models.StatusError
	}

	envelope := gin.H{
		"status":     status,
		"message":    outcome.Message,
		"request_id": requestID,
		"timestamp":  time.Now().Format(time.RFC3339),
	}
	for key, value := range outcome.Fields {
		envelope[key] = value
	}
	if len(outcome.PartialFailures) > 0 {
		envelope["partial_failures"] = outcome.PartialFailures
	}

	c.JSON(http.StatusOK, envelope)
}
