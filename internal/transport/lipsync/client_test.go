package lipsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(&Config{
		BaseURL:   serverURL,
		BaseVideo: "presenter.mp4",
		OutputDir: t.TempDir(),
		Timeout:   5 * time.Second,
		Logger:    zap.NewNop(),
	})
}

func TestSync_WritesVideoFile(t *testing.T) {
	video := []byte("fake-mp4-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sync" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("base_video") != "presenter.mp4" {
			t.Errorf("unexpected base_video: %q", r.FormValue("base_video"))
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Errorf("expected audio file part: %v", err)
		}
		w.Write(video)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	path, err := c.Sync(context.Background(), []byte("RIFF...wav"))
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if filepath.Ext(path) != ".mp4" {
		t.Errorf("expected .mp4 path, got %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output video: %v", err)
	}
	if string(got) != string(video) {
		t.Errorf("unexpected video contents")
	}
}

func TestSync_EmptyAudio(t *testing.T) {
	c := newTestClient(t, "http://unused")

	_, err := c.Sync(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected domain.ErrInvalidInput, got %v", err)
	}
}

func TestSync_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Sync(context.Background(), []byte("wav"))
	if !errors.Is(err, domain.ErrVideoGeneration) {
		t.Fatalf("expected domain.ErrVideoGeneration, got %v", err)
	}
}

func TestSync_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Sync(context.Background(), []byte("wav"))
	if !errors.Is(err, domain.ErrVideoGeneration) {
		t.Fatalf("expected domain.ErrVideoGeneration, got %v", err)
	}
}

func TestSync_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Sync(ctx, []byte("wav"))
	if !errors.Is(err, domain.ErrUpstreamTimeout) {
		t.Fatalf("expected domain.ErrUpstreamTimeout, got %v", err)
	}
}
