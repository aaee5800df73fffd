// Package tavily provides the web fallback search client.
package tavily

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
)

// Client searches the web via the Tavily API.
type Client struct {
	http       *resty.Client
	apiKey     string
	maxResults int
	logger     *zap.Logger
}

// Config holds the web search settings.
type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
	Logger     *zap.Logger
}

// searchRequest is the Tavily search request body.
type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth,omitempty"`
	IncludeAnswer bool   `json:"include_answer,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
}

// searchResponse is the Tavily search response body.
type searchResponse struct {
	Answer  string `json:"answer,omitempty"`
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// NewClient creates a Tavily search client.
func NewClient(cfg *Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:       httpClient,
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		logger:     cfg.Logger,
	}
}

// Search runs a web search and returns the result contents joined into a
// single context block, best match first. All failures wrap
// domain.ErrWebSearchFailed.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	var result searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(searchRequest{
			APIKey:        c.apiKey,
			Query:         query,
			SearchDepth:   "basic",
			IncludeAnswer: true,
			MaxResults:    c.maxResults,
		}).
		SetResult(&result).
		Post("/search")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", fmt.Errorf("web search: %w", domain.ErrUpstreamTimeout)
		}
		return "", fmt.Errorf("web search request: %w", domain.ErrWebSearchFailed)
	}
	if resp.IsError() {
		return "", fmt.Errorf("web search status %d: %w", resp.StatusCode(), domain.ErrWebSearchFailed)
	}

	parts := make([]string, 0, len(result.Results)+1)
	if result.Answer != "" {
		parts = append(parts, result.Answer)
	}
	for _, r := range result.Results {
		if r.Content == "" {
			continue
		}
		parts = append(parts, r.Content)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no web results for query: %w", domain.ErrWebSearchFailed)
	}

	return strings.Join(parts, "\n\n"), nil
}
