package inference

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/config"
	"github.com/aminekone/ticketbridge/internal/domain/models"
)

const (
	huggingFaceAPIURL = "https://api-inference.huggingface.co/models/facebook/bart-large-mnli"
	huggingFaceModel  = "facebook/bart-large-mnli"
)

// HuggingFaceClient classifies ticket text with a hosted zero-shot model.
type HuggingFaceClient struct {
	httpClient *resty.Client
	apiURL     string
	logger     *zap.Logger
}

// NewHuggingFaceClient builds the zero-shot classifier client.
func NewHuggingFaceClient(cfg config.HuggingFaceConfig, logger *zap.Logger) (*HuggingFaceClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New().
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(requestTimeout)

	return &HuggingFaceClient{httpClient: restyClient, apiURL: huggingFaceAPIURL, logger: logger}, nil
}

type zeroShotRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		CandidateLabels []string `json:"candidate_labels"`
	} `json:"parameters"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify runs zero-shot classification over the twelve fixed labels and
// maps the top label/score to the normalized result shape.
func (c *HuggingFaceClient) Classify(ctx context.Context, subject, description string) models.ClassificationResult {
	req := zeroShotRequest{
		Inputs: fmt.Sprintf("Subject: %s\n\nDescription: %s", subject, description),
	}
	req.Parameters.CandidateLabels = models.CategoryLabels

	respBody := new(zeroShotResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(respBody).
		Post(c.apiURL)
	if err != nil {
		c.logger.Error("huggingface call failed", zap.Error(err))
		return models.ClassificationResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Failed to categorize ticket: %v", err),
		}
	}

	if resp.IsError() {
		c.logger.Error("huggingface error response", zap.Int("status_code", resp.StatusCode()), zap.String("body", resp.String()))
		return models.ClassificationResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Failed to categorize ticket: %d: %s", resp.StatusCode(), resp.String()),
		}
	}

	if len(respBody.Labels) == 0 || len(respBody.Scores) == 0 {
		return models.ClassificationResult{
			Status:  models.StatusError,
			Message: "Failed to parse categorization response",
		}
	}

	return models.ClassificationResult{
		Status:     models.StatusSuccess,
		Category:   respBody.Labels[0],
		Confidence: respBody.Scores[0],
		ModelUsed:  huggingFaceModel,
	}
}
