package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
	"github.com/askora-cloud/askora/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterRoutingMetrics()
	os.Exit(m.Run())
}

// chatCompletionResponse mirrors the OpenAI-compatible chat completion response.
type chatCompletionResponse struct {
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func completionServer(t *testing.T, content string, check func(r *http.Request, body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if check != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode request body: %v", err)
			}
			check(r, body)
		}

		resp := chatCompletionResponse{Object: "chat.completion", Model: "test-model"}
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{
			Message: struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			}{Role: "assistant", Content: content},
			FinishReason: "stop",
		})
		resp.Usage.PromptTokens = 12
		resp.Usage.CompletionTokens = 8
		resp.Usage.TotalTokens = 20

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerator_Generate(t *testing.T) {
	server := completionServer(t, "photosynthesis converts light into energy", func(r *http.Request, body map[string]any) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if body["model"] != "test-model" {
			t.Errorf("unexpected model: %v", body["model"])
		}
	})
	defer server.Close()

	gen := NewGenerator(&Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "test-model",
		Temperature: 0.2,
		MaxTokens:   256,
		Logger:      zap.NewNop(),
	})

	out, err := gen.Generate(context.Background(), "what is photosynthesis?", domain.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "photosynthesis converts light into energy" {
		t.Errorf("unexpected completion: %q", out)
	}
}

func TestGenerator_Generate_OverridesAndJSONMode(t *testing.T) {
	server := completionServer(t, `{"ok":true}`, func(_ *http.Request, body map[string]any) {
		if body["model"] != "judge-model" {
			t.Errorf("unexpected model: %v", body["model"])
		}
		rf, ok := body["response_format"].(map[string]any)
		if !ok || rf["type"] != "json_object" {
			t.Errorf("expected json_object response format, got %v", body["response_format"])
		}
		msgs, ok := body["messages"].([]any)
		if !ok || len(msgs) != 2 {
			t.Fatalf("expected system+user messages, got %v", body["messages"])
		}
		first, _ := msgs[0].(map[string]any)
		if first["role"] != "system" {
			t.Errorf("expected first message to be system, got %v", first["role"])
		}
	})
	defer server.Close()

	gen := NewGenerator(&Config{
		APIKey: "test-key", BaseURL: server.URL, Model: "test-model",
		Temperature: 0.2, MaxTokens: 256, Logger: zap.NewNop(),
	})

	out, err := gen.Generate(context.Background(), "extract key points", domain.GenerateOptions{
		Model:       "judge-model",
		System:      "Answer strictly in JSON.",
		Temperature: 0.1,
		JSONMode:    true,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != `{"ok":true}` {
		t.Errorf("unexpected completion: %q", out)
	}
}

func TestGenerator_Generate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletionResponse{Object: "chat.completion"})
	}))
	defer server.Close()

	gen := NewGenerator(&Config{
		APIKey: "test-key", BaseURL: server.URL, Model: "test-model", Logger: zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), "hello", domain.GenerateOptions{})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected domain.ErrGenerationFailed, got %v", err)
	}
}

func TestGenerator_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&Config{
		APIKey: "test-key", BaseURL: server.URL, Model: "test-model", Logger: zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), "hello", domain.GenerateOptions{})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected domain.ErrGenerationFailed, got %v", err)
	}
}

func TestGenerator_Generate_ContextCancelled(t *testing.T) {
	server := completionServer(t, "late", nil)
	defer server.Close()

	gen := NewGenerator(&Config{
		APIKey: "test-key", BaseURL: server.URL, Model: "test-model", Logger: zap.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, "hello", domain.GenerateOptions{})
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("expected domain.ErrUpstreamTimeout, got %v", err)
	}
}

func TestGenerator_Generate_SlowUpstreamTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletionResponse{Object: "chat.completion"})
	}))
	defer server.Close()
	defer close(release)

	gen := NewGenerator(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Timeout: 50 * time.Millisecond,
		Logger:  zap.NewNop(),
	})

	start := time.Now()
	_, err := gen.Generate(context.Background(), "hello", domain.GenerateOptions{})
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("expected domain.ErrUpstreamTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("request was not bounded by the configured timeout, took %v", elapsed)
	}
}
