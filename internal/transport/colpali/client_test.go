package colpali

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&Config{
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
		Logger:  zap.NewNop(),
	})
}

func TestQuery_DecodesPassages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.QueryText != "what is mitosis?" {
			t.Errorf("unexpected query_text: %q", req.QueryText)
		}
		if len(req.ChatHistory) != 1 || req.ChatHistory[0].Role != "user" {
			t.Errorf("unexpected chat_history: %+v", req.ChatHistory)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"answer": "mitosis is cell division [1]",
			"retrieved": []map[string]any{
				{
					"content": "cells divide through mitosis", "score": 0.82,
					"page_number": 14, "citation": 1,
					"excerpt": "cells divide", "thumbnail": "aGVsbG8=",
				},
				{
					"content": "prophase begins the process", "score": 0.61,
					"page_number": 15, "citation": 2,
				},
			},
		})
	}))
	defer server.Close()

	res, err := newTestClient(server.URL).Query(context.Background(), "what is mitosis?",
		[]domain.ChatTurn{{Role: "user", Content: "chapter 3 please"}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if res.Answer != "mitosis is cell division [1]" {
		t.Errorf("unexpected answer: %q", res.Answer)
	}
	if len(res.Passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(res.Passages))
	}

	first := res.Passages[0]
	if first.Content() != "cells divide through mitosis" || first.Score() != 0.82 {
		t.Errorf("unexpected first passage: content=%q score=%v", first.Content(), first.Score())
	}
	if first.PageNumber() != 14 || first.Citation() != 1 || first.Thumbnail() != "aGVsbG8=" {
		t.Errorf("unexpected first passage metadata")
	}
}

func TestQuery_SendsEmptyHistoryArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if string(raw["chat_history"]) != "[]" {
			t.Errorf("expected empty array chat_history, got %s", raw["chat_history"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"answer": "a", "retrieved": []any{}})
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Query(context.Background(), "q", nil); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
}

func TestQuery_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Query(context.Background(), "q", nil)
	if !errors.Is(err, domain.ErrRetrievalFailed) {
		t.Fatalf("expected domain.ErrRetrievalFailed, got %v", err)
	}
}

func TestQuery_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Query(ctx, "q", nil)
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("expected domain.ErrUpstreamTimeout, got %v", err)
	}
}
