// Package answer orchestrates one question turn: retrieval, routing,
// grounded answer generation, and history logging.
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
	domhist "github.com/askora-cloud/askora/internal/domain/history"
	"github.com/askora-cloud/askora/internal/domain/modality"
	domroute "github.com/askora-cloud/askora/internal/domain/routing"
)

// Service answers user questions end to end, up to (but not including)
// modality packaging.
type Service struct {
	retriever     Retriever
	router        Router
	gen           Generator
	history       HistoryRepo
	contextWindow int
	logger        *zap.Logger
}

// New creates an answer service. contextWindow bounds how many recent
// history messages are sent to the retrieval backend.
func New(
	retriever Retriever, router Router, gen Generator,
	history HistoryRepo, contextWindow int, logger *zap.Logger,
) *Service {
	return &Service{
		retriever:     retriever,
		router:        router,
		gen:           gen,
		history:       history,
		contextWindow: contextWindow,
		logger:        logger,
	}
}

// Result is one answered turn.
type Result struct {
	Text     string
	Language string
	Style    modality.Style
	Decision domroute.Decision
}

// Ask answers a query for a session in the requested style.
func (s *Service) Ask(ctx context.Context, sessionID, query string, style modality.Style) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	recent, err := s.history.Recent(ctx, sessionID, s.contextWindow)
	if err != nil {
		// Retrieval can proceed without history context.
		s.logger.Warn("history read failed", zap.String("session_id", sessionID), zap.Error(err))
		recent = nil
	}

	retrieved, err := s.retriever.Query(ctx, query, toChatTurns(recent))
	if err != nil {
		return Result{}, fmt.Errorf("retrieve: %w", err)
	}

	decision, err := s.router.Route(ctx, query, retrieved.Passages, retrieved.Answer)
	if err != nil {
		return Result{}, fmt.Errorf("route: %w", err)
	}

	lang := detectLanguage(query)
	prompt := buildPrompt(query, decision.Context(), style, lang, decision.Mode() == domroute.ModeWeb)

	text, err := s.gen.Generate(ctx, prompt, domain.GenerateOptions{})
	if err != nil {
		return Result{}, fmt.Errorf("generate answer: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("model returned no text: %w", domain.ErrNoAnswer)
	}

	s.logger.Info("answered query",
		zap.String("session_id", sessionID),
		zap.String("mode", string(decision.Mode())),
		zap.String("trigger", string(decision.Trigger())),
		zap.String("style", string(style)),
		zap.String("language", lang),
	)

	now := time.Now().UnixMilli()
	if err := s.history.Append(ctx, sessionID,
		domhist.NewMessage(uuid.NewString(), domhist.RoleUser, query, "", lang, now),
		domhist.NewMessage(uuid.NewString(), domhist.RoleAssistant, text, string(style), lang, now),
	); err != nil {
		// The answer is already produced; a history write failure must
		// not fail the turn.
		s.logger.Warn("history append failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	return Result{Text: text, Language: lang, Style: style, Decision: decision}, nil
}

func toChatTurns(msgs []domhist.Message) []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(msgs))
	for i := range msgs {
		turns = append(turns, domain.ChatTurn{
			Role:    string(msgs[i].Role()),
			Content: msgs[i].Content(),
		})
	}
	return turns
}
