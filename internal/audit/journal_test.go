package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminekone/ticketbridge/internal/config"
)

func newTempJournal(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webhook_requests.log")
	return NewJournal(config.AuditConfig{
		FilePath:   path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}), path
}

func TestJournal_RecordsRequestVerbatim(t *testing.T) {
	journal, path := newTempJournal(t)

	journal.RecordRequest("req-1", "/ticketCreatedWebhook", `{"detail":{"id":"42"}}`)
	journal.RecordVendor("req-1", "classifier", map[string]any{"status": "success"})
	require.NoError(t, journal.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "inbound_request")
	assert.Contains(t, content, `{\"detail\":{\"id\":\"42\"}}`)
	assert.Contains(t, content, "vendor_response")
	assert.Contains(t, content, "req-1")
}

func TestJournal_DrainCountersResets(t *testing.T) {
	journal, _ := newTempJournal(t)

	journal.RecordRequest("a", "/ticketCreatedWebhook", "{}")
	journal.RecordRequest("b", "/ticketCreatedWebhook", "{}")
	journal.RecordRequest("c", "/twilio/whatsapp", "")

	counters := journal.DrainCounters()
	assert.Equal(t, 2, counters["/ticketCreatedWebhook"])
	assert.Equal(t, 1, counters["/twilio/whatsapp"])

	assert.Empty(t, journal.DrainCounters())
}

func TestJournal_NilIsSafe(t *testing.T) {
	var journal *Journal
	journal.RecordRequest("req", "/health", "")
	journal.RecordVendor("req", "zendesk", nil)
	assert.NoError(t, journal.Sync())
}
