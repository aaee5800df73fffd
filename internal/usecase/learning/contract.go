package learning

import (
	"context"

	domlearn "github.com/askora-cloud/askora/internal/domain/learning"
)

// Repository persists learning-style results per session.
type Repository interface {
	Save(ctx context.Context, sessionID string, res domlearn.Result) error
	Load(ctx context.Context, sessionID string) (domlearn.Result, error)
}
