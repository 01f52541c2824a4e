package twilio

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	twiliosdk "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/config"
	"github.com/aminekone/ticketbridge/internal/domain/models"
)

const requestTimeout = 30 * time.Second

// templateVariableLimit caps the message text injected into a content
// template variable.
const templateVariableLimit = 50

// Messenger exposes the Twilio operations used by the WhatsApp pathway.
type Messenger interface {
	VerifySignature(url string, params map[string]string, signature string) error
	SendWhatsApp(toNumber, message, requestID, ticketID string) SendResult
}

// APIClient wraps the vendor SDK for WhatsApp messaging and webhook
// signature validation.
type APIClient struct {
	rest           *twiliosdk.RestClient
	validator      *twilioclient.RequestValidator
	whatsappNumber string
	contentSID     string
	allowUnsigned  bool
	logger         *zap.Logger
}

// NewClient builds a Twilio client. Construction fails when account SID,
// auth token, or the WhatsApp sender number is missing. A missing webhook
// secret does not fail construction; it only changes the signature policy.
func NewClient(cfg config.TwilioConfig, logger *zap.Logger) (*APIClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
	}
	base.SetTimeout(requestTimeout)

	rest := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
		Client:   base,
	})

	c := &APIClient{
		rest:           rest,
		whatsappNumber: cfg.WhatsAppNumber,
		contentSID:     cfg.ContentTemplateSID,
		allowUnsigned:  cfg.AllowUnsigned,
		logger:         logger,
	}

	if cfg.WebhookSecret != "" {
		validator := twilioclient.NewRequestValidator(cfg.WebhookSecret)
		c.validator = &validator
	} else {
		logger.Warn("no twilio webhook secret configured, signature validation unavailable",
			zap.Bool("allow_unsigned", cfg.AllowUnsigned))
	}

	logger.Info("twilio client initialized", zap.String("account_sid", cfg.AccountSID[:min(8, len(cfg.AccountSID))]+"..."))

	return c, nil
}

// VerifySignature applies the webhook authenticity policy. With a secret
// configured, an invalid signature rejects the request. Without one, requests
// pass only when the operator opted in via TWILIO_ALLOW_UNSIGNED.
func (c *APIClient) VerifySignature(url string, params map[string]string, signature string) error {
	if c.validator == nil {
		if c.allowUnsigned {
			c.logger.Warn("skipping webhook signature validation, unsigned requests explicitly allowed")
			return nil
		}
		return errors.New("webhook secret not configured and unsigned requests not allowed")
	}

	if !c.validator.Validate(url, params, signature) {
		return errors.New("invalid webhook signature")
	}
	return nil
}

// SendResult reports an outbound WhatsApp send attempt.
type SendResult struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	MessageSid   string `json:"message_sid,omitempty"`
	ToNumber     string `json:"to_number,omitempty"`
	UsedTemplate bool   `json:"used_template"`
}

// SendWhatsApp delivers a message to the customer. When a content template is
// configured the message text (truncated) and ticket id become template
// variables; otherwise the text is sent as a plain body.
func (c *APIClient) SendWhatsApp(toNumber, message, requestID, ticketID string) SendResult {
	formatted := FormatWhatsAppNumber(toNumber)

	params := &openapi.CreateMessageParams{}
	params.SetTo(formatted)
	params.SetFrom("whatsapp:" + c.whatsappNumber)

	usedTemplate := c.contentSID != ""
	if usedTemplate {
		variables, err := json.Marshal(contentVariables(message, ticketID))
		if err != nil {
			return SendResult{Status: models.StatusError, Message: fmt.Sprintf("Failed to encode template variables: %v", err)}
		}
		params.SetContentSid(c.contentSID)
		params.SetContentVariables(string(variables))
	} else {
		params.SetBody(message)
	}

	resp, err := c.rest.Api.CreateMessage(params)
	if err != nil {
		c.logger.Error("whatsapp send failed",
			zap.String("request_id", requestID),
			zap.String("to", formatted),
			zap.Error(err))
		return SendResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Failed to send WhatsApp message: %v", err),
		}
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}

	c.logger.Info("whatsapp message sent",
		zap.String("request_id", requestID),
		zap.String("to", formatted),
		zap.String("message_sid", sid),
		zap.Bool("used_template", usedTemplate))

	return SendResult{
		Status:       models.StatusSuccess,
		MessageSid:   sid,
		ToNumber:     formatted,
		UsedTemplate: usedTemplate,
	}
}

// contentVariables builds the template variable map: slot 1 is the truncated
// message text, slot 2 the ticket id (or N/A). Twilio expects string values.
func contentVariables(message, ticketID string) map[string]string {
	truncated := message
	if runes := []rune(truncated); len(runes) > templateVariableLimit {
		truncated = string(runes[:templateVariableLimit]) + "..."
	}

	ticketRef := "N/A"
	if ticketID != "" {
		ticketRef = ticketID
	}

	return map[string]string{
		"1": truncated,
		"2": ticketRef,
	}
}
