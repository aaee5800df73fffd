package learning

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
	domlearn "github.com/askora-cloud/askora/internal/domain/learning"
	"github.com/askora-cloud/askora/internal/domain/modality"
)

type mockRepo struct {
	saveFn func(ctx context.Context, sessionID string, res domlearn.Result) error
	loadFn func(ctx context.Context, sessionID string) (domlearn.Result, error)
}

func (m *mockRepo) Save(ctx context.Context, sessionID string, res domlearn.Result) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, sessionID, res)
	}
	return nil
}

func (m *mockRepo) Load(ctx context.Context, sessionID string) (domlearn.Result, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx, sessionID)
	}
	return domlearn.Result{}, domain.ErrNotFound
}

func TestSubmit_TalliesAndSaves(t *testing.T) {
	repo := &mockRepo{}
	var saved domlearn.Result
	repo.saveFn = func(_ context.Context, sessionID string, res domlearn.Result) error {
		if sessionID != "sess-1" {
			t.Errorf("unexpected session: %q", sessionID)
		}
		saved = res
		return nil
	}
	svc := New(repo, zap.NewNop())

	// All questions list an audio option at index 1.
	answers := []int{1, 1, 1, 1, 1}
	res, err := svc.Submit(context.Background(), "sess-1", answers)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if res.DominantStyle() != "audio" {
		t.Errorf("dominant = %q, expected audio", res.DominantStyle())
	}
	if res.Scores()["audio"] != 5 {
		t.Errorf("audio score = %d, expected 5", res.Scores()["audio"])
	}
	if saved.DominantStyle() != "audio" {
		t.Error("result not persisted")
	}
}

func TestSubmit_TieBreaksByDefinitionOrder(t *testing.T) {
	svc := New(&mockRepo{}, zap.NewNop())

	// Three text picks and two audio picks leave text dominant; a full
	// tie must also resolve to the earlier style in the fixed order.
	answers := []int{0, 0, 1, 1, 0}
	res, err := svc.Submit(context.Background(), "sess-1", answers)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.DominantStyle() != "text" {
		t.Errorf("dominant = %q, expected text", res.DominantStyle())
	}
}

func TestSubmit_WrongAnswerCount(t *testing.T) {
	svc := New(&mockRepo{}, zap.NewNop())

	_, err := svc.Submit(context.Background(), "sess-1", []int{0, 1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected domain.ErrInvalidInput, got %v", err)
	}
}

func TestSubmit_AnswerOutOfRange(t *testing.T) {
	svc := New(&mockRepo{}, zap.NewNop())

	_, err := svc.Submit(context.Background(), "sess-1", []int{0, 0, 9, 0, 0})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected domain.ErrInvalidInput, got %v", err)
	}
}

func TestPreferred_FromSavedResult(t *testing.T) {
	repo := &mockRepo{
		loadFn: func(_ context.Context, _ string) (domlearn.Result, error) {
			return domlearn.NewResult("video", map[string]int{"video": 4}, nil, 1), nil
		},
	}
	svc := New(repo, zap.NewNop())

	if got := svc.Preferred(context.Background(), "sess-1"); got != modality.StyleVideo {
		t.Errorf("Preferred = %s, expected video", got)
	}
}

func TestPreferred_DefaultsToText(t *testing.T) {
	svc := New(&mockRepo{}, zap.NewNop())

	if got := svc.Preferred(context.Background(), "sess-untested"); got != modality.StyleText {
		t.Errorf("Preferred = %s, expected text", got)
	}
}

func TestQuestionsDefinition(t *testing.T) {
	if len(Questions) == 0 {
		t.Fatal("empty test definition")
	}
	for i, q := range Questions {
		if len(q.Options) < 2 {
			t.Errorf("question %d has too few options", i)
		}
		for j, opt := range q.Options {
			valid := false
			for _, s := range styleOrder {
				if opt.Style == s {
					valid = true
				}
			}
			if !valid {
				t.Errorf("question %d option %d has unknown style %q", i, j, opt.Style)
			}
		}
	}
}
