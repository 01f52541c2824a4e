package zendesk

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/aminekone/ticketbridge/internal/config"
	"github.com/aminekone/ticketbridge/internal/domain/models"
)

// requestTimeout applies to every Zendesk call.
const requestTimeout = 30 * time.Second

// Client exposes the Zendesk REST operations used by the application.
type Client interface {
	UpdateTicket(ctx context.Context, ticketID string, update TicketUpdate, operation string) UpdateResult
	UpdateTicketTags(ctx context.Context, classification models.ClassificationResult, ticketID string) UpdateResult
	UpdateTicketWithAnalysis(ctx context.Context, analysis models.CommentAnalysis, ticketID string) UpdateResult
	CreateTicket(ctx context.Context, draft models.TicketDraft) CreateResult
	ExtractTicketComments(ctx context.Context, ticketID string) ([]models.PublicComment, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds a Zendesk API client. Construction fails when any of
// domain/email/token is missing, before any network call can be attempted.
func NewClient(cfg config.ZendeskConfig, logger *zap.Logger) (*APIClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	auth := base64.StdEncoding.EncodeToString([]byte(cfg.Email + "/token:" + cfg.APIToken))

	restyClient := resty.New().
		SetBaseURL(fmt.Sprintf("https://%s/api/v2", cfg.Domain)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Basic "+auth).
		SetTimeout(requestTimeout)

	logger.Info("zendesk client initialized", zap.String("domain", cfg.Domain), zap.String("email", cfg.Email))

	return &APIClient{httpClient: restyClient, logger: logger}, nil
}

// TicketUpdate is the PUT body for a ticket resource.
type TicketUpdate struct {
	Ticket TicketPatch `json:"ticket"`
}

// TicketPatch carries the mutable ticket fields this service writes.
type TicketPatch struct {
	Tags    []string `json:"tags,omitempty"`
	Comment *Comment `json:"comment,omitempty"`
}

// Comment is a ticket comment; Public false makes it an internal note.
type Comment struct {
	Body   string `json:"body"`
	Public bool   `json:"public"`
}

// UpdateResult reports a ticket update attempt. Vendor failures are encoded
// here rather than returned as errors so the webhook response can embed them.
type UpdateResult struct {
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	ZendeskResponse any     `json:"zendesk_response,omitempty"`
	Category        string  `json:"category,omitempty"`
	Confidence      float64 `json:"confidence,omitempty"`
}

// CreateResult reports a ticket creation attempt.
type CreateResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	TicketID string `json:"ticket_id,omitempty"`
}

// UpdateTicket PUTs an arbitrary patch to the ticket resource. Success is
// strictly HTTP 200; everything else carries the raw response for diagnostics.
// Never retried.
func (c *APIClient) UpdateTicket(ctx context.Context, ticketID string, update TicketUpdate, operation string) UpdateResult {
	var parsed map[string]any

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(update).
		SetResult(&parsed).
		Put(fmt.Sprintf("/tickets/%s.json", ticketID))
	if err != nil {
		c.logger.Error("zendesk update failed", zap.String("ticket_id", ticketID), zap.String("operation", operation), zap.Error(err))
		return UpdateResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Exception occurred while %s ticket: %v", operation, err),
		}
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error("zendesk update rejected",
			zap.String("ticket_id", ticketID),
			zap.String("operation", operation),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()))
		return UpdateResult{
			Status:          models.StatusError,
			Message:         fmt.Sprintf("Failed to %s Zendesk ticket: %d", operation, resp.StatusCode()),
			ZendeskResponse: resp.String(),
		}
	}

	c.logger.Info("zendesk ticket updated", zap.String("ticket_id", ticketID), zap.String("operation", operation))
	return UpdateResult{
		Status:          models.StatusSuccess,
		Message:         fmt.Sprintf("Ticket %s %s successfully", ticketID, operation),
		ZendeskResponse: parsed,
	}
}

// UpdateTicketTags writes the classifier verdict back to the ticket: a single
// auto_categorized_<category> tag plus a private comment with the confidence
// as a two-decimal percentage.
func (c *APIClient) UpdateTicketTags(ctx context.Context, classification models.ClassificationResult, ticketID string) UpdateResult {
	if classification.Status != models.StatusSuccess {
		c.logger.Error("classification response unusable", zap.Any("classification", classification))
		return UpdateResult{
			Status:  models.StatusError,
			Message: "Invalid classification response",
		}
	}

	category := classification.Category
	if category == "" {
		category = "unknown"
	}

	update := TicketUpdate{Ticket: TicketPatch{
		Tags: []string{"auto_categorized_" + category},
		Comment: &Comment{
			Body:   fmt.Sprintf("Ticket automatically categorized as '%s' with %.2f%%.", category, classification.Confidence*100),
			Public: false,
		},
	}}

	result := c.UpdateTicket(ctx, ticketID, update, "categorized")
	if result.Status == models.StatusSuccess {
		result.Category = category
		result.Confidence = classification.Confidence
	}
	return result
}

// UpdateTicketWithAnalysis posts the formatted support-quality report as a
// private comment on the ticket.
func (c *APIClient) UpdateTicketWithAnalysis(ctx context.Context, analysis models.CommentAnalysis, ticketID string) UpdateResult {
	update := TicketUpdate{Ticket: TicketPatch{
		Comment: &Comment{
			Body:   FormatAnalysisComment(analysis),
			Public: false,
		},
	}}

	return c.UpdateTicket(ctx, ticketID, update, "analyzed")
}

// CreateTicket creates a new ticket from a draft. Success is HTTP 201.
func (c *APIClient) CreateTicket(ctx context.Context, draft models.TicketDraft) CreateResult {
	payload := map[string]models.TicketDraft{"ticket": draft}

	var created struct {
		Ticket struct {
			ID json.Number `json:"id"`
		} `json:"ticket"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&created).
		Post("/tickets.json")
	if err != nil {
		c.logger.Error("zendesk create failed", zap.Error(err))
		return CreateResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Exception occurred while creating ticket: %v", err),
		}
	}

	if resp.StatusCode() != http.StatusCreated {
		c.logger.Error("zendesk create rejected", zap.Int("status_code", resp.StatusCode()), zap.String("body", resp.String()))
		return CreateResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Failed to create Zendesk ticket: %d", resp.StatusCode()),
		}
	}

	ticketID := created.Ticket.ID.String()
	c.logger.Info("zendesk ticket created", zap.String("ticket_id", ticketID))
	return CreateResult{
		Status:   models.StatusSuccess,
		Message:  fmt.Sprintf("Ticket %s created successfully", ticketID),
		TicketID: ticketID,
	}
}

// rawComment is the subset of a Zendesk comment needed for filtering and
// projection; all other fields are dropped to minimize analyzer input size.
type rawComment struct {
	Public    bool   `json:"public"`
	PlainBody string `json:"plain_body"`
	CreatedAt string `json:"created_at"`
	AuthorID  any    `json:"author_id"`
}

// ExtractTicketComments fetches a ticket's comments and keeps only the public
// ones, projected down to plain_body/created_at/author_id.
func (c *APIClient) ExtractTicketComments(ctx context.Context, ticketID string) ([]models.PublicComment, error) {
	var listing struct {
		Comments []rawComment `json:"comments"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&listing).
		Get(fmt.Sprintf("/tickets/%s/comments.json", ticketID))
	if err != nil {
		return nil, fmt.Errorf("fetch ticket comments: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch ticket comments: status %d: %s", resp.StatusCode(), resp.String())
	}

	public := filterPublicComments(listing.Comments)

	c.logger.Info("ticket comments fetched",
		zap.String("ticket_id", ticketID),
		zap.Int("public", len(public)),
		zap.Int("total", len(listing.Comments)))

	return public, nil
}

func filterPublicComments(comments []rawComment) []models.PublicComment {
	public := make([]models.PublicComment, 0, len(comments))
	for _, comment := range comments {
		if !comment.Public {
			continue
		}
		public = append(public, models.PublicComment{
			PlainBody: comment.PlainBody,
			CreatedAt: comment.CreatedAt,
			AuthorID:  comment.AuthorID,
		})
	}
	return public
}
