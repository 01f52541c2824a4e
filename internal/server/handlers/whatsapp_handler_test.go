package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminekone/ticketbridge/internal/domain/models"
	"github.com/aminekone/ticketbridge/internal/service/intake"
	twilioclient "github.com/aminekone/ticketbridge/pkg/clients/twilio"
)

type stubMessenger struct {
	verifyErr  error
	sentTo     string
	sentBody   string
	sentTicket string
}

func (s *stubMessenger) VerifySignature(_ string, _ map[string]string, _ string) error {
	return s.verifyErr
}

func (s *stubMessenger) SendWhatsApp(toNumber, message, _ string, ticketID string) twilioclient.SendResult {
	s.sentTo = toNumber
	s.sentBody = message
	s.sentTicket = ticketID
	return twilioclient.SendResult{Status: models.StatusSuccess, MessageSid: "SM123"}
}

func newWhatsAppTestRouter(t *testing.T, messenger twilioclient.Messenger, allowUnsigned bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := intake.NewService(&stubZendesk{}, nil)
	h := NewWhatsAppHandler(svc, messenger, allowUnsigned, newTestJournal(t), nil)
	r := gin.New()
	r.POST("/twilio/whatsapp", h.Receive)
	return r
}

func postForm(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/twilio/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestWhatsAppReceive_CreatesTicketAndConfirms(t *testing.T) {
	messenger := &stubMessenger{}
	r := newWhatsAppTestRouter(t, messenger, false)

	w := postForm(r, url.Values{
		"From":       {"whatsapp:+15551234567"},
		"To":         {"whatsapp:+15557654321"},
		"Body":       {"I can't log into my account, error 404"},
		"MessageSid": {"SMxxxx"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<Response>")

	assert.Equal(t, "+15551234567", messenger.sentTo)
	assert.Contains(t, messenger.sentBody, "Ticket #12345 created:")
	assert.Contains(t, messenger.sentBody, "We'll get back to you soon.")
	assert.Equal(t, "12345", messenger.sentTicket)
}

func TestWhatsAppReceive_InvalidContentSendsGuidance(t *testing.T) {
	messenger := &stubMessenger{}
	r := newWhatsAppTestRouter(t, messenger, false)

	w := postForm(r, url.Values{
		"From":       {"whatsapp:+15551234567"},
		"To":         {"whatsapp:+15557654321"},
		"Body":       {"hello"},
		"MessageSid": {"SMxxxx"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Please provide more details about your issue.", messenger.sentBody)
	assert.Empty(t, messenger.sentTicket)
}

func TestWhatsAppReceive_InvalidSignatureRejected(t *testing.T) {
	messenger := &stubMessenger{verifyErr: errors.New("invalid webhook signature")}
	r := newWhatsAppTestRouter(t, messenger, false)

	w := postForm(r, url.Values{
		"From": {"whatsapp:+15551234567"},
		"Body": {"I can't log into my account, error 404"},
	})

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "<Message>")
	assert.Empty(t, messenger.sentBody)
}

func TestWhatsAppReceive_NoMessengerRejectedByDefault(t *testing.T) {
	r := newWhatsAppTestRouter(t, nil, false)

	w := postForm(r, url.Values{
		"From": {"whatsapp:+15551234567"},
		"Body": {"I can't log into my account, error 404"},
	})

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "<Message>")
}

func TestWhatsAppReceive_NoMessengerAcceptedWhenUnsignedAllowed(t *testing.T) {
	r := newWhatsAppTestRouter(t, nil, true)

	w := postForm(r, url.Values{
		"From": {"whatsapp:+15551234567"},
		"Body": {"I can't log into my account, error 404"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<Response>")
}
