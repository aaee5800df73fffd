// Package chi exposes the HTTP API: question answering, chat history,
// learning-style tests, and study aid generation.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
	domhist "github.com/askora-cloud/askora/internal/domain/history"
	domlearn "github.com/askora-cloud/askora/internal/domain/learning"
	"github.com/askora-cloud/askora/internal/domain/modality"
	healthuc "github.com/askora-cloud/askora/internal/usecase/health"
	learninguc "github.com/askora-cloud/askora/internal/usecase/learning"
)

// Defaults applied when a study request omits the count or language.
const (
	defaultFlashCards    = 8
	defaultQuizQuestions = 5
	defaultQuizLanguage  = "en"
)

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeUpstreamTimeout  = "upstream_timeout"
	codeUpstreamError    = "upstream_error"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the use case services.
type Server struct {
	answers       Answerer
	dispatch      Dispatcher
	history       HistoryReader
	learning      LearningStyles
	study         StudyAids
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	answers Answerer,
	dispatch Dispatcher,
	history HistoryReader,
	learning LearningStyles,
	study StudyAids,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		answers:  answers,
		dispatch: dispatch,
		history:  history,
		learning: learning,
		study:    study,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrUpstreamTimeout, http.StatusGatewayTimeout, codeUpstreamTimeout),
		sentinelHandler(domain.ErrNoAnswer, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrRetrievalFailed, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrWebSearchFailed, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrJudgeUnavailable, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrSynthesis, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrVideoGeneration, http.StatusBadGateway, codeUpstreamError),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ask", s.Ask)
		r.Get("/history/{session}", s.History)
		r.Get("/learning-style/questions", s.LearningQuestions)
		r.Post("/learning-style", s.SubmitLearningStyle)
		r.Get("/learning-style/{session}", s.GetLearningStyle)
		r.Post("/study/mindmap", s.MindMap)
		r.Post("/study/flashcards", s.FlashCards)
		r.Post("/study/quiz", s.Quiz)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type askRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	Style     string `json:"style,omitempty"`
}

type askResponse struct {
	Answer      string `json:"answer"`
	Language    string `json:"language"`
	Style       string `json:"style"`
	PayloadType string `json:"payload_type"`
	Mode        string `json:"mode"`
	Trigger     string `json:"trigger"`
	VideoPath   string `json:"video_path,omitempty"`
}

// Ask handles POST /api/v1/ask. The response shape depends on the
// resolved modality: JSON for textual payloads and video metadata, raw
// WAV bytes for audio.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "session_id is required")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	// An omitted style resolves to the session's learning-style preference.
	style := modality.ParseStyle(req.Style)
	if strings.TrimSpace(req.Style) == "" {
		style = s.learning.Preferred(r.Context(), req.SessionID)
	}

	result, err := s.answers.Ask(r.Context(), req.SessionID, req.Query, style)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	payload, err := s.dispatch.Dispatch(r.Context(), result.Style, result.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	switch payload.Type() {
	case modality.PayloadAudio:
		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("X-Answer-Language", result.Language)
		w.Header().Set("X-Answer-Style", string(result.Style))
		w.Header().Set("X-Route-Mode", string(result.Decision.Mode()))
		if payload.Degraded() {
			w.Header().Set("X-Degraded", "true")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload.Content())
	case modality.PayloadVideo:
		writeJSON(w, http.StatusOK, askResponse{
			Answer:      result.Text,
			Language:    result.Language,
			Style:       string(result.Style),
			PayloadType: string(payload.Type()),
			Mode:        string(result.Decision.Mode()),
			Trigger:     string(result.Decision.Trigger()),
			VideoPath:   payload.VideoPath(),
		})
	default:
		writeJSON(w, http.StatusOK, askResponse{
			Answer:      payload.Text(),
			Language:    result.Language,
			Style:       string(result.Style),
			PayloadType: string(payload.Type()),
			Mode:        string(result.Decision.Mode()),
			Trigger:     string(result.Decision.Trigger()),
		})
	}
}

type messageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Modality  string `json:"modality,omitempty"`
	Language  string `json:"language,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type historyResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []messageResponse `json:"messages"`
}

// History handles GET /api/v1/history/{session}.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session")

	msgs, err := s.history.All(r.Context(), sessionID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		SessionID: sessionID,
		Messages:  messagesToResponse(msgs),
	})
}

func messagesToResponse(msgs []domhist.Message) []messageResponse {
	out := make([]messageResponse, len(msgs))
	for i := range msgs {
		out[i] = messageResponse{
			ID:        msgs[i].ID(),
			Role:      string(msgs[i].Role()),
			Content:   msgs[i].Content(),
			Modality:  msgs[i].Modality(),
			Language:  msgs[i].Language(),
			CreatedAt: msgs[i].CreatedAt(),
		}
	}
	return out
}

// LearningQuestions handles GET /api/v1/learning-style/questions.
func (s *Server) LearningQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": learninguc.Questions,
	})
}

type learningSubmitRequest struct {
	SessionID string `json:"session_id"`
	Answers   []int  `json:"answers"`
}

type learningResultResponse struct {
	SessionID     string         `json:"session_id"`
	DominantStyle string         `json:"dominant_style"`
	Scores        map[string]int `json:"scores"`
	TakenAt       int64          `json:"taken_at"`
}

// SubmitLearningStyle handles POST /api/v1/learning-style.
func (s *Server) SubmitLearningStyle(w http.ResponseWriter, r *http.Request) {
	var req learningSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "session_id is required")
		return
	}

	res, err := s.learning.Submit(r.Context(), req.SessionID, req.Answers)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, learningResultToResponse(req.SessionID, res))
}

// GetLearningStyle handles GET /api/v1/learning-style/{session}.
func (s *Server) GetLearningStyle(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session")

	res, err := s.learning.Result(r.Context(), sessionID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, learningResultToResponse(sessionID, res))
}

func learningResultToResponse(sessionID string, res domlearn.Result) learningResultResponse {
	return learningResultResponse{
		SessionID:     sessionID,
		DominantStyle: res.DominantStyle(),
		Scores:        res.Scores(),
		TakenAt:       res.TakenAt(),
	}
}

type studyRequest struct {
	Text     string `json:"text"`
	Count    int    `json:"count,omitempty"`
	Language string `json:"language,omitempty"`
}

// MindMap handles POST /api/v1/study/mindmap.
func (s *Server) MindMap(w http.ResponseWriter, r *http.Request) {
	var req studyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	m, err := s.study.MindMap(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// FlashCards handles POST /api/v1/study/flashcards.
func (s *Server) FlashCards(w http.ResponseWriter, r *http.Request) {
	var req studyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Count == 0 {
		req.Count = defaultFlashCards
	}

	cards, err := s.study.FlashCards(r.Context(), req.Text, req.Count)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

// Quiz handles POST /api/v1/study/quiz.
func (s *Server) Quiz(w http.ResponseWriter, r *http.Request) {
	var req studyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Count == 0 {
		req.Count = defaultQuizQuestions
	}
	if req.Language == "" {
		req.Language = defaultQuizLanguage
	}

	questions, err := s.study.Quiz(r.Context(), req.Text, req.Count, req.Language)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrNotFound,
		domain.ErrUpstreamTimeout,
		domain.ErrNoAnswer,
		domain.ErrGenerationFailed,
		domain.ErrRetrievalFailed,
		domain.ErrWebSearchFailed,
		domain.ErrJudgeUnavailable,
		domain.ErrSynthesis,
		domain.ErrVideoGeneration,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
