package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/audit"
	"github.com/aminekone/ticketbridge/internal/domain/models"
	"github.com/aminekone/ticketbridge/internal/service/intake"
	twilioclient "github.com/aminekone/ticketbridge/pkg/clients/twilio"
)

// WhatsAppHandler handles inbound Twilio WhatsApp webhooks: validate the
// signature, create a ticket from actionable content, and reply to the
// customer. The HTTP response is always a TwiML document.
type WhatsAppHandler struct {
	svc           *intake.Service
	messenger     twilioclient.Messenger
	allowUnsigned bool
	journal       *audit.Journal
	logger        *zap.Logger
}

// NewWhatsAppHandler constructs the HTTP handler adapter. A nil messenger
// disables outbound replies; requests are then accepted without signature
// validation only when allowUnsigned is set.
func NewWhatsAppHandler(svc *intake.Service, messenger twilioclient.Messenger, allowUnsigned bool, journal *audit.Journal, logger *zap.Logger) *WhatsAppHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppHandler{svc: svc, messenger: messenger, allowUnsigned: allowUnsigned, journal: journal, logger: logger}
}

// Receive ingests a Twilio WhatsApp webhook POST (form-encoded).
func (h *WhatsAppHandler) Receive(c *gin.Context) {
	requestID := uuid.NewString()
	h.logger.Info("twilio whatsapp webhook called", zap.String("request_id", requestID))

	if err := c.Request.ParseForm(); err != nil {
		h.logger.Error("failed parsing form body", zap.String("request_id", requestID), zap.Error(err))
		c.Data(http.StatusOK, "application/xml", []byte(twilioclient.ErrorTwiML()))
		return
	}

	form := c.Request.PostForm
	h.journal.RecordRequest(requestID, "/twilio/whatsapp", form.Encode())

	if h.messenger != nil {
		params := make(map[string]string, len(form))
		for key := range form {
			params[key] = form.Get(key)
		}
		signature := c.GetHeader("X-Twilio-Signature")
		if err := h.messenger.VerifySignature(requestURL(c), params, signature); err != nil {
			h.logger.Warn("webhook signature rejected", zap.String("request_id", requestID), zap.Error(err))
			c.Data(http.StatusForbidden, "application/xml", []byte(twilioclient.ErrorTwiML()))
			return
		}
	} else if h.allowUnsigned {
		h.logger.Warn("twilio client not configured, skipping signature validation", zap.String("request_id", requestID))
	} else {
		h.logger.Warn("twilio client not configured and unsigned requests not allowed", zap.String("request_id", requestID))
		c.Data(http.StatusForbidden, "application/xml", []byte(twilioclient.ErrorTwiML()))
		return
	}

	msg := models.WhatsAppMessage{
		FromNumber: strings.TrimPrefix(form.Get("From"), "whatsapp:"),
		ToNumber:   strings.TrimPrefix(form.Get("To"), "whatsapp:"),
		Body:       form.Get("Body"),
		MessageSid: form.Get("MessageSid"),
	}

	h.logger.Info("whatsapp message received",
		zap.String("request_id", requestID),
		zap.String("from", msg.FromNumber),
		zap.String("to", msg.ToNumber),
		zap.String("message_sid", msg.MessageSid))

	result := h.svc.ProcessMessage(c.Request.Context(), msg, requestID)
	h.journal.RecordVendor(requestID, "intake", result)

	var reply string
	switch result.Status {
	case models.IntakeCreated:
		reply = "Ticket #" + result.TicketID + " created: '" + result.Subject + "'. We'll get back to you soon."
	case models.IntakeValidationFailed:
		reply = result.Message
	default:
		reply = "Sorry, we couldn't create your ticket right now. Please try again later or contact support directly."
	}

	if h.messenger != nil {
		sendResult := h.messenger.SendWhatsApp(msg.FromNumber, reply, requestID, result.TicketID)
		h.journal.RecordVendor(requestID, "twilio", sendResult)
		if sendResult.Status != models.StatusSuccess {
			h.logger.Error("failed sending whatsapp reply",
				zap.String("request_id", requestID),
				zap.String("reason", sendResult.Message))
		}
	}

	c.Data(http.StatusOK, "application/xml", []byte(twilioclient.EmptyTwiML()))
}

// requestURL reconstructs the externally-visible URL Twilio signed, honoring
// the forwarded protocol when the service sits behind a proxy.
func requestURL(c *gin.Context) string {
	scheme := c.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
