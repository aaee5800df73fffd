package answer

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
	domhist "github.com/askora-cloud/askora/internal/domain/history"
	domroute "github.com/askora-cloud/askora/internal/domain/routing"
)

type mockRetriever struct {
	queryFn func(ctx context.Context, queryText string, history []domain.ChatTurn) (domain.RetrievalResult, error)
}

func (m *mockRetriever) Query(ctx context.Context, queryText string, history []domain.ChatTurn) (domain.RetrievalResult, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, queryText, history)
	}
	return domain.RetrievalResult{
		Answer:   "internal draft",
		Passages: []domain.Passage{domain.NewPassage("some content", 0.9, 1, 1, "", "")},
	}, nil
}

type mockRouter struct {
	routeFn func(ctx context.Context, query string, passages []domain.Passage, internalAnswer string) (domroute.Decision, error)
}

func (m *mockRouter) Route(ctx context.Context, query string, passages []domain.Passage, internalAnswer string) (domroute.Decision, error) {
	if m.routeFn != nil {
		return m.routeFn(ctx, query, passages, internalAnswer)
	}
	return domroute.NewDecision(domroute.ModeInternal, "some content", internalAnswer, domroute.TriggerAccepted), nil
}

type mockGenerator struct {
	generateFn func(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, prompt, opts)
	}
	return "final answer [1]", nil
}

type mockHistory struct {
	appendFn func(ctx context.Context, sessionID string, msgs ...domhist.Message) error
	recentFn func(ctx context.Context, sessionID string, limit int) ([]domhist.Message, error)
}

func (m *mockHistory) Append(ctx context.Context, sessionID string, msgs ...domhist.Message) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, sessionID, msgs...)
	}
	return nil
}

func (m *mockHistory) Recent(ctx context.Context, sessionID string, limit int) ([]domhist.Message, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, sessionID, limit)
	}
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *mockRetriever, *mockRouter, *mockGenerator, *mockHistory) {
	t.Helper()
	retriever := &mockRetriever{}
	router := &mockRouter{}
	gen := &mockGenerator{}
	hist := &mockHistory{}
	svc := New(retriever, router, gen, hist, 4, zap.NewNop())
	return svc, retriever, router, gen, hist
}
