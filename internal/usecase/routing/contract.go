package routing

import "context"

// Judge evaluates whether the internal answer addresses the query.
type Judge interface {
	JudgeAnswer(ctx context.Context, query, answer string) (bool, error)
}

// WebSearcher retrieves aggregated web context for a query.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}
