package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminekone/ticketbridge/internal/config"
	"github.com/aminekone/ticketbridge/internal/domain/models"
)

func TestHuggingFaceClassify_MapsTopLabel(t *testing.T) {
	var gotRequest zeroShotRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &gotRequest))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"labels":["it_support","engineering"],"scores":[0.91,0.05]}`))
	}))
	defer srv.Close()

	client, err := NewHuggingFaceClient(config.HuggingFaceConfig{APIKey: "hf-key"}, nil)
	require.NoError(t, err)
	client.apiURL = srv.URL

	result := client.Classify(context.Background(), "laptop broken", "my work laptop will not boot")

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, "it_support", result.Category)
	assert.InDelta(t, 0.91, result.Confidence, 1e-9)
	assert.Equal(t, huggingFaceModel, result.ModelUsed)
	assert.Equal(t, models.CategoryLabels, gotRequest.Parameters.CandidateLabels)
	assert.Contains(t, gotRequest.Inputs, "laptop broken")
}

func TestHuggingFaceClassify_VendorErrorIsErrorResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model loading"}`))
	}))
	defer srv.Close()

	client, err := NewHuggingFaceClient(config.HuggingFaceConfig{APIKey: "hf-key"}, nil)
	require.NoError(t, err)
	client.apiURL = srv.URL

	result := client.Classify(context.Background(), "subject", "description")
	assert.Equal(t, models.StatusError, result.Status)
}

func TestNewHuggingFaceClient_RequiresKey(t *testing.T) {
	_, err := NewHuggingFaceClient(config.HuggingFaceConfig{}, nil)
	require.Error(t, err)
}
