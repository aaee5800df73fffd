// Package colpali provides the document retrieval backend client.
package colpali

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
)

// Client queries the ColPali retrieval backend, which answers a question
// against the indexed document corpus and returns the supporting passages.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// Config holds the retrieval backend settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// historyTurn is one prior conversation turn sent for query rewriting.
type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// queryRequest is the retrieval request body.
type queryRequest struct {
	QueryText   string        `json:"query_text"`
	ChatHistory []historyTurn `json:"chat_history"`
}

// queryResponse is the retrieval response body.
type queryResponse struct {
	Answer    string `json:"answer"`
	Retrieved []struct {
		Content    string  `json:"content"`
		Score      float64 `json:"score"`
		PageNumber int     `json:"page_number"`
		Citation   int     `json:"citation"`
		Excerpt    string  `json:"excerpt"`
		Thumbnail  string  `json:"thumbnail"`
	} `json:"retrieved"`
}

// NewClient creates a retrieval backend client.
func NewClient(cfg *Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{http: httpClient, logger: cfg.Logger}
}

// Query sends the question and recent history to the retrieval backend.
// All failures wrap domain.ErrRetrievalFailed, except deadline expiry
// which wraps domain.ErrUpstreamTimeout.
func (c *Client) Query(ctx context.Context, queryText string, history []domain.ChatTurn) (domain.RetrievalResult, error) {
	turns := make([]historyTurn, 0, len(history))
	for _, t := range history {
		turns = append(turns, historyTurn{Role: t.Role, Content: t.Content})
	}

	var result queryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(queryRequest{QueryText: queryText, ChatHistory: turns}).
		SetResult(&result).
		Post("/query")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return domain.RetrievalResult{}, fmt.Errorf("retrieval query: %w", domain.ErrUpstreamTimeout)
		}
		return domain.RetrievalResult{}, fmt.Errorf("retrieval request: %w", domain.ErrRetrievalFailed)
	}
	if resp.IsError() {
		return domain.RetrievalResult{}, fmt.Errorf("retrieval status %d: %w", resp.StatusCode(), domain.ErrRetrievalFailed)
	}

	passages := make([]domain.Passage, 0, len(result.Retrieved))
	for _, d := range result.Retrieved {
		passages = append(passages, domain.NewPassage(
			d.Content, d.Score, d.PageNumber, d.Citation, d.Excerpt, d.Thumbnail,
		))
	}

	return domain.RetrievalResult{Answer: result.Answer, Passages: passages}, nil
}

// HealthCheck verifies the retrieval backend is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("retrieval backend unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("retrieval backend status %d", resp.StatusCode())
	}
	return nil
}
