// Package lipsync provides the lip-sync video generation client. The
// backend runs a Wav2Lip model and merges synthesized speech onto a base
// presenter video.
package lipsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
)

// Client generates lip-synced videos from speech audio.
type Client struct {
	http      *resty.Client
	baseVideo string
	outputDir string
	logger    *zap.Logger
}

// Config holds the lip-sync backend settings.
type Config struct {
	BaseURL   string
	BaseVideo string
	OutputDir string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewClient creates a lip-sync backend client.
func NewClient(cfg *Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:      httpClient,
		baseVideo: cfg.BaseVideo,
		outputDir: cfg.OutputDir,
		logger:    cfg.Logger,
	}
}

// Sync sends WAV audio to the backend and writes the returned video to
// the output directory. Returns the written file path. All failures wrap
// domain.ErrVideoGeneration, except deadline expiry which wraps
// domain.ErrUpstreamTimeout.
func (c *Client) Sync(ctx context.Context, audioWAV []byte) (string, error) {
	if len(audioWAV) == 0 {
		return "", fmt.Errorf("empty audio: %w", domain.ErrInvalidInput)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("audio", "speech.wav", bytes.NewReader(audioWAV)).
		SetFormData(map[string]string{"base_video": c.baseVideo}).
		Post("/sync")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", fmt.Errorf("lip-sync: %w", domain.ErrUpstreamTimeout)
		}
		return "", fmt.Errorf("lip-sync request: %w", domain.ErrVideoGeneration)
	}
	if resp.IsError() {
		return "", fmt.Errorf("lip-sync status %d: %w", resp.StatusCode(), domain.ErrVideoGeneration)
	}

	video := resp.Body()
	if len(video) == 0 {
		return "", fmt.Errorf("empty lip-sync response: %w", domain.ErrVideoGeneration)
	}

	if err := os.MkdirAll(c.outputDir, 0o750); err != nil {
		return "", fmt.Errorf("create output dir: %w", domain.ErrVideoGeneration)
	}
	path := filepath.Join(c.outputDir, uuid.NewString()+".mp4")
	if err := os.WriteFile(path, video, 0o640); err != nil {
		return "", fmt.Errorf("write video: %w", domain.ErrVideoGeneration)
	}

	return path, nil
}
