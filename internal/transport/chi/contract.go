package chi

import (
	"context"

	domhist "github.com/askora-cloud/askora/internal/domain/history"
	domlearn "github.com/askora-cloud/askora/internal/domain/learning"
	"github.com/askora-cloud/askora/internal/domain/modality"
	answeruc "github.com/askora-cloud/askora/internal/usecase/answer"
	healthuc "github.com/askora-cloud/askora/internal/usecase/health"
	studyuc "github.com/askora-cloud/askora/internal/usecase/studyaids"
)

// Answerer answers one question turn.
type Answerer interface {
	Ask(ctx context.Context, sessionID, query string, style modality.Style) (answeruc.Result, error)
}

// Dispatcher packages an answer into its delivery modality.
type Dispatcher interface {
	Dispatch(ctx context.Context, style modality.Style, text string) (modality.Payload, error)
}

// HistoryReader reads a session's stored chat history.
type HistoryReader interface {
	All(ctx context.Context, sessionID string) ([]domhist.Message, error)
}

// LearningStyles scores and resolves learning-style test results.
type LearningStyles interface {
	Submit(ctx context.Context, sessionID string, answers []int) (domlearn.Result, error)
	Result(ctx context.Context, sessionID string) (domlearn.Result, error)
	Preferred(ctx context.Context, sessionID string) modality.Style
}

// StudyAids generates study material from document text.
type StudyAids interface {
	MindMap(ctx context.Context, text string) (studyuc.MindMap, error)
	FlashCards(ctx context.Context, text string, n int) ([]studyuc.FlashCard, error)
	Quiz(ctx context.Context, text string, n int, lang string) ([]studyuc.QuizQuestion, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
