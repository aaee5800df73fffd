package answer

import (
	"context"

	"github.com/askora-cloud/askora/internal/domain"
	domhist "github.com/askora-cloud/askora/internal/domain/history"
	domroute "github.com/askora-cloud/askora/internal/domain/routing"
)

// Retriever answers a query against the indexed document corpus.
type Retriever interface {
	Query(ctx context.Context, queryText string, history []domain.ChatTurn) (domain.RetrievalResult, error)
}

// Router decides the answer source for a query.
type Router interface {
	Route(ctx context.Context, query string, passages []domain.Passage, internalAnswer string) (domroute.Decision, error)
}

// Generator produces the final answer text.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error)
}

// HistoryRepo persists the per-session conversation log.
type HistoryRepo interface {
	Append(ctx context.Context, sessionID string, msgs ...domhist.Message) error
	Recent(ctx context.Context, sessionID string, limit int) ([]domhist.Message, error)
}
