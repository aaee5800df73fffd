package studyaids

import (
	"context"

	"github.com/askora-cloud/askora/internal/domain"
)

// Generator produces JSON-mode completions for structure extraction.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error)
}
