// Package relevance judges whether an internally generated answer
// actually addresses the user's query.
package relevance

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
	"github.com/askora-cloud/askora/internal/metrics"
)

const answerPrompt = `You are a critical evaluator. Your task is to judge whether the following answer
actually provides information that addresses the user query.

Query:
%s

Answer:
%s

Answer only with "YES" if the answer addresses the question meaningfully,
or "NO" if the answer is irrelevant, vague, or fails to provide the requested information.`

// Service evaluates answer relevance via an LLM verdict.
type Service struct {
	gen    Generator
	model  string
	logger *zap.Logger
}

// New creates a relevance judge. model may be empty to use the
// generator's default.
func New(gen Generator, model string, logger *zap.Logger) *Service {
	return &Service{gen: gen, model: model, logger: logger}
}

// JudgeAnswer reports whether the answer meaningfully addresses the
// query. Generation failures wrap domain.ErrJudgeUnavailable so the
// caller can apply its fallback policy.
func (s *Service) JudgeAnswer(ctx context.Context, query, answer string) (bool, error) {
	return s.judge(ctx, fmt.Sprintf(answerPrompt, query, answer))
}

func (s *Service) judge(ctx context.Context, prompt string) (bool, error) {
	out, err := s.gen.Generate(ctx, prompt, domain.GenerateOptions{
		Model:       s.model,
		Temperature: 0.1,
		MaxTokens:   8,
	})
	if err != nil {
		metrics.JudgeVerdictsTotal.WithLabelValues("unavailable").Inc()
		return false, fmt.Errorf("judge verdict: %w: %w", domain.ErrJudgeUnavailable, err)
	}

	relevant := parseVerdict(out)
	if relevant {
		metrics.JudgeVerdictsTotal.WithLabelValues("relevant").Inc()
	} else {
		metrics.JudgeVerdictsTotal.WithLabelValues("irrelevant").Inc()
	}
	s.logger.Debug("relevance verdict",
		zap.String("raw", out),
		zap.Bool("relevant", relevant),
	)
	return relevant, nil
}

// parseVerdict interprets a YES/NO verdict. The parse is deliberately
// conservative: only output whose trimmed, lower-cased text begins with
// "y" counts as affirmative. Anything ambiguous is not relevant.
func parseVerdict(out string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(out)), "y")
}
