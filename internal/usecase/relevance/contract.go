package relevance

import (
	"context"

	"github.com/askora-cloud/askora/internal/domain"
)

// Generator produces text completions for the judge prompts.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error)
}
