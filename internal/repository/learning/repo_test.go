package learning

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/askora-cloud/askora/internal/db"
	"github.com/askora-cloud/askora/internal/domain"
	domlearn "github.com/askora-cloud/askora/internal/domain/learning"
)

type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func TestSave_WritesKeyedJSON(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "askora:")

	var gotKey string
	var gotValue []byte
	ms.setFn = func(_ context.Context, key string, value []byte) error {
		gotKey = key
		gotValue = value
		return nil
	}

	res := domlearn.NewResult(
		"visual",
		map[string]int{"visual": 5, "auditory": 2, "kinesthetic": 1},
		[]int{0, 1, 0, 0, 2, 0, 1, 0},
		1700000000000,
	)
	if err := repo.Save(context.Background(), "sess-1", res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "askora:learning-style:sess-1" {
		t.Errorf("unexpected key %q", gotKey)
	}

	var dto resultDTO
	if err := json.Unmarshal(gotValue, &dto); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if dto.DominantStyle != "visual" || dto.Scores["visual"] != 5 {
		t.Errorf("unexpected stored result: %+v", dto)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "askora:")

	stored, _ := json.Marshal(resultDTO{
		DominantStyle: "auditory",
		Scores:        map[string]int{"auditory": 4},
		Answers:       []int{1, 1, 1, 1},
		TakenAt:       42,
	})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return stored, nil
	}

	res, err := repo.Load(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DominantStyle() != "auditory" || res.TakenAt() != 42 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestLoad_NotFound(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "askora:")

	_, err := repo.Load(context.Background(), "sess-missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected domain.ErrNotFound, got %v", err)
	}
}
