// Package learning persists learning-style test results.
package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/askora-cloud/askora/internal/db"
	"github.com/askora-cloud/askora/internal/domain"
	domlearn "github.com/askora-cloud/askora/internal/domain/learning"
)

// store is the consumer interface for learning-style persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// resultDTO is the storage representation of a learning-style result.
type resultDTO struct {
	DominantStyle string         `json:"dominant_style"`
	Scores        map[string]int `json:"scores"`
	Answers       []int          `json:"answers"`
	TakenAt       int64          `json:"taken_at"`
}

// Repo stores the learning-style record per session, overwritten on each
// completed test.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a learning-style repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key(sessionID string) string {
	return r.keyPrefix + "learning-style:" + sessionID
}

// Save overwrites the session's learning-style result.
func (r *Repo) Save(ctx context.Context, sessionID string, res domlearn.Result) error {
	dto := resultDTO{
		DominantStyle: res.DominantStyle(),
		Scores:        res.Scores(),
		Answers:       res.Answers(),
		TakenAt:       res.TakenAt(),
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal learning result: %w", err)
	}
	if err := r.store.Set(ctx, r.key(sessionID), data); err != nil {
		return fmt.Errorf("save learning result: %w", err)
	}
	return nil
}

// Load returns the session's saved result, or domain.ErrNotFound when the
// test was never taken.
func (r *Repo) Load(ctx context.Context, sessionID string) (domlearn.Result, error) {
	data, err := r.store.Get(ctx, r.key(sessionID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domlearn.Result{}, domain.ErrNotFound
		}
		return domlearn.Result{}, fmt.Errorf("load learning result: %w", err)
	}

	var dto resultDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domlearn.Result{}, fmt.Errorf("decode learning result: %w", err)
	}
	return domlearn.NewResult(dto.DominantStyle, dto.Scores, dto.Answers, dto.TakenAt), nil
}
