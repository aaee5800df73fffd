// Package routing decides whether a query is answered from internal
// document retrieval or from live web search.
package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/config"
	"github.com/askora-cloud/askora/internal/domain"
	domroute "github.com/askora-cloud/askora/internal/domain/routing"
	"github.com/askora-cloud/askora/internal/metrics"
)

// Service is the answer router. It runs a cheap score gate in front of
// the expensive LLM relevance judgment, falling back to web search when
// either rejects the internal result.
type Service struct {
	judge       Judge
	web         WebSearcher
	threshold   float64
	judgePolicy string
	logger      *zap.Logger
}

// New creates an answer router.
func New(judge Judge, web WebSearcher, cfg config.RoutingConfig, logger *zap.Logger) *Service {
	return &Service{
		judge:       judge,
		web:         web,
		threshold:   cfg.MinScoreThreshold,
		judgePolicy: cfg.JudgeFailurePolicy,
		logger:      logger,
	}
}

// Route runs the state machine for one query: ScoreCheck, then
// RelevanceCheck, then either Accepted or WebFallback. Passages must be
// ordered by descending relevance score.
func (s *Service) Route(
	ctx context.Context, query string, passages []domain.Passage, internalAnswer string,
) (domroute.Decision, error) {
	pass, err := Gate(passages, s.threshold)
	if err != nil {
		return domroute.Decision{}, fmt.Errorf("score gate: %w", err)
	}

	if !pass {
		// Skip internal answer generation entirely: the retrieval
		// signal is already known to be weak.
		s.logger.Info("low retrieval score, routing to web",
			zap.Float64("top_score", passages[0].Score()),
			zap.Float64("threshold", s.threshold),
		)
		return s.webFallback(ctx, query, "", domroute.TriggerLowScore), nil
	}

	relevant, err := s.judge.JudgeAnswer(ctx, query, internalAnswer)
	if err != nil {
		if !errors.Is(err, domain.ErrJudgeUnavailable) {
			return domroute.Decision{}, fmt.Errorf("relevance check: %w", err)
		}
		s.logger.Warn("relevance judge unavailable",
			zap.String("policy", s.judgePolicy),
			zap.Error(err),
		)
		relevant = s.judgePolicy == config.JudgePolicyInternal
	}

	if relevant {
		decision := domroute.NewDecision(
			domroute.ModeInternal,
			joinContents(passages),
			internalAnswer,
			domroute.TriggerAccepted,
		)
		metrics.RoutingDecisionsTotal.WithLabelValues(
			string(domroute.ModeInternal), string(domroute.TriggerAccepted),
		).Inc()
		return decision, nil
	}

	s.logger.Info("internal answer judged irrelevant, routing to web")
	return s.webFallback(ctx, query, internalAnswer, domroute.TriggerJudgedIrrelevant), nil
}

// webFallback queries the web searcher and finalizes a web-mode
// decision. A search failure collapses to empty context here, at the
// router boundary, so telemetry still sees the distinction between "no
// results" and "search failed".
func (s *Service) webFallback(
	ctx context.Context, query, internalAnswer string, trigger domroute.Trigger,
) domroute.Decision {
	webContext, err := s.web.Search(ctx, query)
	if err != nil {
		metrics.WebSearchFailuresTotal.Inc()
		s.logger.Warn("web search failed, proceeding with empty context",
			zap.String("query", query),
			zap.Error(err),
		)
		webContext = ""
	}

	metrics.RoutingDecisionsTotal.WithLabelValues(
		string(domroute.ModeWeb), string(trigger),
	).Inc()
	return domroute.NewDecision(domroute.ModeWeb, webContext, internalAnswer, trigger)
}

// joinContents aggregates passage contents with blank-line separators,
// order preserved.
func joinContents(passages []domain.Passage) string {
	parts := make([]string, 0, len(passages))
	for i := range passages {
		parts = append(parts, passages[i].Content())
	}
	return strings.Join(parts, "\n\n")
}
