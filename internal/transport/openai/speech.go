package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/domain"
	"github.com/askora-cloud/askora/internal/metrics"
)

// Speech is a speech synthesis provider using the OpenAI-compatible API.
// With the PCM response format the API returns raw 24 kHz 16-bit mono
// samples, which the caller wraps into a playable container.
type Speech struct {
	client      *openai.Client
	model       string
	voice       string
	secondVoice string
	logger      *zap.Logger
}

// SpeechConfig holds the speech provider settings.
type SpeechConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Voice       string
	SecondVoice string
	Timeout     time.Duration // bounds each API call; 0 disables the client-side bound
	Logger      *zap.Logger
}

// NewSpeech creates an OpenAI-compatible speech synthesis provider.
func NewSpeech(cfg *SpeechConfig) *Speech {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Speech{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		voice:       cfg.Voice,
		secondVoice: cfg.SecondVoice,
		logger:      cfg.Logger,
	}
}

// Synthesize converts text to raw PCM samples using the primary voice.
func (s *Speech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return s.synthesize(ctx, text, s.voice)
}

// SynthesizeDialogue converts alternating dialogue turns to a single PCM
// stream, switching between the primary and second voice per turn. Turns
// are synthesized sequentially and concatenated, which is valid for raw
// PCM of identical layout.
func (s *Speech) SynthesizeDialogue(ctx context.Context, turns []string) ([]byte, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("no dialogue turns: %w", domain.ErrInvalidInput)
	}

	voices := []string{s.voice, s.secondVoice}
	if s.secondVoice == "" {
		voices[1] = s.voice
	}

	var pcm []byte
	for i, turn := range turns {
		if turn == "" {
			continue
		}
		chunk, err := s.synthesize(ctx, turn, voices[i%2])
		if err != nil {
			return nil, err
		}
		pcm = append(pcm, chunk...)
	}

	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty dialogue synthesis: %w", domain.ErrSynthesis)
	}
	return pcm, nil
}

func (s *Speech) synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	}

	start := time.Now()

	resp, err := s.client.CreateSpeech(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SpeechRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return nil, parseSpeechError(ctx, err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		metrics.SpeechRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return nil, fmt.Errorf("read speech response: %w", domain.ErrSynthesis)
	}
	if len(pcm) == 0 {
		metrics.SpeechRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return nil, fmt.Errorf("empty speech response: %w", domain.ErrSynthesis)
	}

	metrics.SpeechRequestsTotal.WithLabelValues(s.model, "success").Inc()
	metrics.SpeechRequestDuration.WithLabelValues(s.model).Observe(duration.Seconds())

	return pcm, nil
}

func parseSpeechError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("speech request: %w", domain.ErrUpstreamTimeout)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("speech API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrSynthesis)
	}

	return fmt.Errorf("speech request failed: %w", domain.ErrSynthesis)
}
