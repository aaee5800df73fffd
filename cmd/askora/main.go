package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/audio"
	"github.com/askora-cloud/askora/internal/config"
	"github.com/askora-cloud/askora/internal/db"
	dbRedis "github.com/askora-cloud/askora/internal/db/redis"
	dbValkey "github.com/askora-cloud/askora/internal/db/valkey"
	logpkg "github.com/askora-cloud/askora/internal/logger"
	"github.com/askora-cloud/askora/internal/metrics"
	historyrepo "github.com/askora-cloud/askora/internal/repository/history"
	learningrepo "github.com/askora-cloud/askora/internal/repository/learning"
	chiTransport "github.com/askora-cloud/askora/internal/transport/chi"
	"github.com/askora-cloud/askora/internal/transport/colpali"
	"github.com/askora-cloud/askora/internal/transport/lipsync"
	openaiLLM "github.com/askora-cloud/askora/internal/transport/openai"
	"github.com/askora-cloud/askora/internal/transport/tavily"
	answeruc "github.com/askora-cloud/askora/internal/usecase/answer"
	dispatchuc "github.com/askora-cloud/askora/internal/usecase/dispatch"
	healthuc "github.com/askora-cloud/askora/internal/usecase/health"
	learninguc "github.com/askora-cloud/askora/internal/usecase/learning"
	relevanceuc "github.com/askora-cloud/askora/internal/usecase/relevance"
	routinguc "github.com/askora-cloud/askora/internal/usecase/routing"
	studyuc "github.com/askora-cloud/askora/internal/usecase/studyaids"
	"github.com/askora-cloud/askora/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting askora API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "valkey":
		store, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register routing metrics explicitly (no init())
	metrics.RegisterRoutingMetrics()

	// Outbound clients — composition root
	generator := openaiLLM.NewGenerator(&openaiLLM.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:      logger,
	})
	speech := openaiLLM.NewSpeech(&openaiLLM.SpeechConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.Speech.Model,
		Voice:       cfg.Speech.Voice,
		SecondVoice: cfg.Speech.SecondVoice,
		Timeout:     time.Duration(cfg.Speech.TimeoutSec) * time.Second,
		Logger:      logger,
	})
	webSearch := tavily.NewClient(&tavily.Config{
		APIKey:     cfg.Search.APIKey,
		BaseURL:    cfg.Search.BaseURL,
		MaxResults: cfg.Search.MaxResults,
		Timeout:    time.Duration(cfg.Search.TimeoutSec) * time.Second,
		Logger:     logger,
	})
	retriever := colpali.NewClient(&colpali.Config{
		BaseURL: cfg.Retrieval.BaseURL,
		Timeout: time.Duration(cfg.Retrieval.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	lipSync := lipsync.NewClient(&lipsync.Config{
		BaseURL:   cfg.LipSync.BaseURL,
		BaseVideo: cfg.LipSync.BaseVideo,
		OutputDir: cfg.LipSync.OutputDir,
		Timeout:   time.Duration(cfg.LipSync.TimeoutSec) * time.Second,
		Logger:    logger,
	})
	logger.Info("Outbound clients created",
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("judge_model", cfg.LLM.JudgeModel),
		zap.String("speech_model", cfg.Speech.Model),
		zap.String("retrieval_url", cfg.Retrieval.BaseURL),
	)

	// Create repositories (domain-native, no adapters)
	historyRepo := historyrepo.New(store, cfg.Storage.KeyPrefix, cfg.History.MaxTurns)
	learningRepo := learningrepo.New(store, cfg.Storage.KeyPrefix)

	// Create use case services
	judge := relevanceuc.New(generator, cfg.LLM.JudgeModel, logger)
	router := routinguc.New(judge, webSearch, cfg.Routing, logger)
	answerSvc := answeruc.New(retriever, router, generator, historyRepo, cfg.History.ContextWindow, logger)
	dispatchSvc := dispatchuc.New(speech, lipSync, audio.Format{
		SampleRate:    cfg.Speech.SampleRate,
		Channels:      cfg.Speech.Channels,
		BitsPerSample: cfg.Speech.BitsPerSample,
	}, cfg.Dispatch.AudioFallbackEnabled(), logger)
	studySvc := studyuc.New(generator, logger)
	learningSvc := learninguc.New(learningRepo, logger)

	// Health service
	healthSvc := healthuc.New(store, generator, retriever)

	// Create chi server
	server := chiTransport.NewServer(
		answerSvc, dispatchSvc, historyRepo, learningSvc, studySvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
