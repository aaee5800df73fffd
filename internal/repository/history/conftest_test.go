package history

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	rpushFn  func(ctx context.Context, key string, values ...[]byte) error
	lrangeFn func(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	ltrimFn  func(ctx context.Context, key string, start, stop int64) error
	llenFn   func(ctx context.Context, key string) (int64, error)
}

func (m *mockStore) RPush(ctx context.Context, key string, values ...[]byte) error {
	if m.rpushFn != nil {
		return m.rpushFn(ctx, key, values...)
	}
	return nil
}

func (m *mockStore) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	if m.lrangeFn != nil {
		return m.lrangeFn(ctx, key, start, stop)
	}
	return nil, nil
}

func (m *mockStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	if m.ltrimFn != nil {
		return m.ltrimFn(ctx, key, start, stop)
	}
	return nil
}

func (m *mockStore) LLen(ctx context.Context, key string) (int64, error) {
	if m.llenFn != nil {
		return m.llenFn(ctx, key)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "askora:", 10)
	return repo, ms
}
