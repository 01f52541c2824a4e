package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/config"
	"github.com/aminekone/ticketbridge/internal/domain/models"
)

const (
	requestTimeout = 30 * time.Second

	categorizeTemperature = 0.3
	categorizeMaxTokens   = 500

	analyzeTemperature = 0.7
	analyzeMaxTokens   = 8192
	analyzeTopP        = 0.95
)

const analyzeSystemPrompt = "You are a support quality analyst AI. You will be given a list of Zendesk ticket comments, each with plain_body, created_at, and author_id.\n\n" +
	"There are two participants: a Requester (customer) and a Support Engineer (agent). You must:\n" +
	"1. Identify the role of each participant (Requester or Engineer) based on tone and context.\n" +
	"2. Group and label messages by author.\n" +
	"3. Analyze the customer experience and return a structured JSON response.\n\n" +
	"Your output should include:\n- summary\n- sentiment (Positive, Neutral, Negative)\n- satisfaction_likelihood (High, Medium, Low)\n- pain_points\n- agent_empathy_score (1-5)\n- clarity_score (1-5)\n- resolution_confidence\n- frustration_signals\n- action_recommendations"

// AzureOpenAIClient calls an Azure OpenAI chat-completion deployment. It
// serves both as a ticket classifier and as the comment analyzer.
type AzureOpenAIClient struct {
	httpClient *resty.Client
	deployment string
	logger     *zap.Logger
}

// NewAzureOpenAIClient builds a client for the configured deployment.
// Construction fails when the API key, endpoint, or deployment is missing.
func NewAzureOpenAIClient(cfg config.AzureOpenAIConfig, logger *zap.Logger) (*AzureOpenAIClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimSuffix(cfg.Endpoint, "/")

	restyClient := resty.New().
		SetBaseURL(fmt.Sprintf("%s/openai/deployments/%s", base, cfg.Deployment)).
		SetQueryParam("api-version", cfg.APIVersion).
		SetHeader("api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(requestTimeout)

	return &AzureOpenAIClient{
		httpClient: restyClient,
		deployment: cfg.Deployment,
		logger:     logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p,omitempty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *AzureOpenAIClient) chat(ctx context.Context, req chatRequest) (*chatResponse, error) {
	respBody := new(chatResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(respBody).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("azure openai call: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("azure openai error: %d: %s", resp.StatusCode(), resp.String())
	}
	if len(respBody.Choices) == 0 {
		return nil, fmt.Errorf("azure openai returned no choices")
	}

	return respBody, nil
}

// Classify asks the deployment to categorize the ticket against the twelve
// fixed labels and strictly parses the returned JSON. Parse failures produce
// an error result; there is no retry.
func (c *AzureOpenAIClient) Classify(ctx context.Context, subject, description string) models.ClassificationResult {
	systemPrompt := fmt.Sprintf(
		"You are a ticket categorization assistant. Categorize the support ticket into exactly one of these categories: %s.\n"+
			"Respond with ONLY a JSON object of the form {\"category\": \"<label>\", \"confidence\": <0.0-1.0>, \"reasoning\": \"<one sentence>\"}.",
		strings.Join(models.CategoryLabels, ", "))

	userPrompt := fmt.Sprintf("Subject: %s\n\nDescription: %s", subject, description)

	resp, err := c.chat(ctx, chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   categorizeMaxTokens,
		Temperature: categorizeTemperature,
	})
	if err != nil {
		c.logger.Error("categorization call failed", zap.Error(err))
		return models.ClassificationResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Failed to categorize ticket: %v", err),
		}
	}

	content := stripJSONFences(resp.Choices[0].Message.Content)

	var parsed struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		c.logger.Error("categorization response unparseable", zap.Error(err), zap.String("content", content))
		return models.ClassificationResult{
			Status:  models.StatusError,
			Message: "Failed to parse categorization response",
		}
	}

	return models.ClassificationResult{
		Status:     models.StatusSuccess,
		Category:   parsed.Category,
		Confidence: parsed.Confidence,
		Reasoning:  parsed.Reasoning,
		ModelUsed:  resp.Model,
	}
}

// AnalyzeComments sends the public comment list to the deployment with the
// support-quality prompt and returns the raw generated content. The caller
// owns parsing it into a CommentAnalysis.
func (c *AzureOpenAIClient) AnalyzeComments(ctx context.Context, comments []models.PublicComment) models.AnalyzerResult {
	commentsJSON, err := json.MarshalIndent(comments, "", "  ")
	if err != nil {
		return models.AnalyzerResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Failed to serialize comments: %v", err),
		}
	}

	resp, err := c.chat(ctx, chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: analyzeSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Here is the conversation data in json %s", commentsJSON)},
		},
		MaxTokens:   analyzeMaxTokens,
		Temperature: analyzeTemperature,
		TopP:        analyzeTopP,
	})
	if err != nil {
		c.logger.Error("analysis call failed", zap.Error(err))
		return models.AnalyzerResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Failed to analyze ticket comments: %v", err),
		}
	}

	c.logger.Info("analysis generated", zap.String("model", resp.Model), zap.Int("comments", len(comments)))

	return models.AnalyzerResult{
		Status:           models.StatusSuccess,
		Message:          "Successfully generated insights from ticket comments",
		ModelUsed:        resp.Model,
		GeneratedContent: stripJSONFences(resp.Choices[0].Message.Content),
		CommentsAnalyzed: len(comments),
	}
}
