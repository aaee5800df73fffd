// Package learning scores the learning-style test and keeps the
// per-session preferred delivery modality.
package learning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
	domlearn "github.com/askora-cloud/askora/internal/domain/learning"
	"github.com/askora-cloud/askora/internal/domain/modality"
)

// Question is one test question; each option is tagged with the
// learning style it votes for.
type Question struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Option is one selectable answer.
type Option struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// styleOrder fixes the tally iteration and tie-break order.
var styleOrder = []string{"text", "audio", "video", "visual", "byquestion"}

// Questions is the built-in learning-style test definition.
var Questions = []Question{
	{
		Text: "When studying a new chapter, what helps you most first?",
		Options: []Option{
			{Text: "Reading a clear written summary", Style: "text"},
			{Text: "Listening to someone talk it through", Style: "audio"},
			{Text: "Watching a short explainer video", Style: "video"},
			{Text: "Looking at a diagram of the ideas", Style: "visual"},
		},
	},
	{
		Text: "How do you prefer to review before an exam?",
		Options: []Option{
			{Text: "Re-reading my notes", Style: "text"},
			{Text: "Explaining the topic out loud", Style: "audio"},
			{Text: "Replaying recorded lessons", Style: "video"},
			{Text: "Answering practice questions", Style: "byquestion"},
		},
	},
	{
		Text: "A topic finally makes sense when...",
		Options: []Option{
			{Text: "I write it in my own words", Style: "text"},
			{Text: "I hear a good analogy", Style: "audio"},
			{Text: "I see it demonstrated", Style: "video"},
			{Text: "I sketch how the parts connect", Style: "visual"},
		},
	},
	{
		Text: "Which kind of help do you ask for most often?",
		Options: []Option{
			{Text: "A written step-by-step guide", Style: "text"},
			{Text: "A quick verbal walkthrough", Style: "audio"},
			{Text: "A narrated demonstration", Style: "video"},
			{Text: "Questions that lead me to the answer", Style: "byquestion"},
		},
	},
	{
		Text: "What do you remember best from a lecture?",
		Options: []Option{
			{Text: "The handout text", Style: "text"},
			{Text: "The lecturer's voice and stories", Style: "audio"},
			{Text: "The slides and animations", Style: "video"},
			{Text: "The whiteboard sketches", Style: "visual"},
		},
	},
}

// Service scores submitted tests and resolves the preferred style.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a learning-style service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Submit scores the submitted answers against the test definition and
// persists the result. answers holds the selected option index per
// question, in question order.
func (s *Service) Submit(ctx context.Context, sessionID string, answers []int) (domlearn.Result, error) {
	if len(answers) != len(Questions) {
		return domlearn.Result{}, fmt.Errorf(
			"expected %d answers, got %d: %w", len(Questions), len(answers), domain.ErrInvalidInput)
	}

	scores := make(map[string]int, len(styleOrder))
	for _, style := range styleOrder {
		scores[style] = 0
	}
	for i, sel := range answers {
		opts := Questions[i].Options
		if sel < 0 || sel >= len(opts) {
			return domlearn.Result{}, fmt.Errorf(
				"answer %d out of range: %w", i, domain.ErrInvalidInput)
		}
		scores[opts[sel].Style]++
	}

	dominant := styleOrder[0]
	for _, style := range styleOrder {
		if scores[style] > scores[dominant] {
			dominant = style
		}
	}

	result := domlearn.NewResult(dominant, scores, answers, time.Now().UnixMilli())
	if err := s.repo.Save(ctx, sessionID, result); err != nil {
		return domlearn.Result{}, fmt.Errorf("save learning result: %w", err)
	}

	s.logger.Info("learning style test scored",
		zap.String("session_id", sessionID),
		zap.String("dominant_style", dominant),
	)
	return result, nil
}

// Result returns the session's saved test result.
func (s *Service) Result(ctx context.Context, sessionID string) (domlearn.Result, error) {
	return s.repo.Load(ctx, sessionID)
}

// Preferred resolves the session's preferred delivery style. Sessions
// that never took the test default to text.
func (s *Service) Preferred(ctx context.Context, sessionID string) modality.Style {
	res, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("learning result read failed",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return modality.StyleText
	}
	return modality.ParseStyle(res.DominantStyle())
}
