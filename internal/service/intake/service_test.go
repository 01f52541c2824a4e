package intake

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminekone/ticketbridge/internal/domain/models"
	"github.com/aminekone/ticketbridge/pkg/clients/zendesk"
)

type fakeZendesk struct {
	createdDraft *models.TicketDraft
	createResult zendesk.CreateResult
}

func (f *fakeZendesk) UpdateTicket(_ context.Context, _ string, _ zendesk.TicketUpdate, _ string) zendesk.UpdateResult {
	return zendesk.UpdateResult{Status: models.StatusSuccess}
}

func (f *fakeZendesk) UpdateTicketTags(_ context.Context, _ models.ClassificationResult, _ string) zendesk.UpdateResult {
	return zendesk.UpdateResult{Status: models.StatusSuccess}
}

func (f *fakeZendesk) UpdateTicketWithAnalysis(_ context.Context, _ models.CommentAnalysis, _ string) zendesk.UpdateResult {
	return zendesk.UpdateResult{Status: models.StatusSuccess}
}

func (f *fakeZendesk) CreateTicket(_ context.Context, draft models.TicketDraft) zendesk.CreateResult {
	f.createdDraft = &draft
	return f.createResult
}

func (f *fakeZendesk) ExtractTicketComments(_ context.Context, _ string) ([]models.PublicComment, error) {
	return nil, nil
}

func TestDeriveSubject(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"I can't log into my account. It started yesterday.", "I can't log into my account"},
		{strings.Repeat("x", 60), strings.Repeat("x", 47) + "..."},
		{strings.Repeat("é", 60), strings.Repeat("é", 47) + "..."},
		{".", "WhatsApp Support Request"},
		{"Need help with billing", "Need help with billing"},
	}

	for _, tc := range cases {
		got := DeriveSubject(tc.message)
		assert.Equal(t, tc.want, got, "message %q", tc.message)
		assert.True(t, utf8.ValidString(got), "message %q", tc.message)
	}
}

func TestDeterminePriority(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"URGENT: the whole site is down", "urgent"},
		{"production outage since 9am", "urgent"},
		{"there is an error in my invoice", "high"},
		{"question about my subscription plan", "normal"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DeterminePriority(tc.message), "message %q", tc.message)
	}
}

func TestBuildTicketDraft(t *testing.T) {
	draft := BuildTicketDraft("15551234567", "  I can't log into my account, error 404  ")

	assert.Equal(t, "I can't log into my account, error 404", draft.Description)
	assert.Equal(t, "WhatsApp User (15551234567)", draft.Requester.Name)
	assert.Equal(t, "15551234567@whatsapp.zendesk.com", draft.Requester.Email)
	assert.Equal(t, []string{"whatsapp", "auto-created"}, draft.Tags)
	assert.Equal(t, "incident", draft.Type)
	assert.Equal(t, "high", draft.Priority)
}

func TestProcessMessage_CreatesTicketForValidContent(t *testing.T) {
	zd := &fakeZendesk{createResult: zendesk.CreateResult{Status: models.StatusSuccess, TicketID: "12345"}}
	svc := NewService(zd, nil)

	result := svc.ProcessMessage(context.Background(), models.WhatsAppMessage{
		FromNumber: "15551234567",
		Body:       "I can't log into my account, error 404",
	}, "req-1")

	require.Equal(t, models.IntakeCreated, result.Status)
	assert.Equal(t, "12345", result.TicketID)
	assert.Equal(t, "I can't log into my account, error 404", result.Subject)
	require.NotNil(t, zd.createdDraft)
	assert.Equal(t, []string{"whatsapp", "auto-created"}, zd.createdDraft.Tags)
}

func TestProcessMessage_ValidationFailureSkipsCreation(t *testing.T) {
	zd := &fakeZendesk{createResult: zendesk.CreateResult{Status: models.StatusSuccess, TicketID: "12345"}}
	svc := NewService(zd, nil)

	result := svc.ProcessMessage(context.Background(), models.WhatsAppMessage{
		FromNumber: "15551234567",
		Body:       "hello there",
	}, "req-2")

	assert.Equal(t, models.IntakeValidationFailed, result.Status)
	assert.Nil(t, zd.createdDraft)
}

func TestProcessMessage_ZendeskFailureReportsError(t *testing.T) {
	zd := &fakeZendesk{createResult: zendesk.CreateResult{Status: models.StatusError, Message: "boom"}}
	svc := NewService(zd, nil)

	result := svc.ProcessMessage(context.Background(), models.WhatsAppMessage{
		FromNumber: "15551234567",
		Body:       "I can't log into my account, error 404",
	}, "req-3")

	assert.Equal(t, models.IntakeError, result.Status)
}
