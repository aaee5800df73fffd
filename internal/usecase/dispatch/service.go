// Package dispatch packages a finalized answer into its delivery
// modality: plain text, synthesized speech, or lip-synced video.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askora-cloud/askora/internal/audio"
	"github.com/askora-cloud/askora/internal/domain"
	"github.com/askora-cloud/askora/internal/domain/modality"
	"github.com/askora-cloud/askora/internal/metrics"
)

// Service renders modality payloads. Routing decisions and answer
// phrasing are upstream concerns; only packaging happens here.
type Service struct {
	speech        SpeechSynthesizer
	video         VideoSyncer
	wavFormat     audio.Format
	audioFallback bool
	logger        *zap.Logger
}

// New creates a modality dispatcher. audioFallback degrades a failed
// video pipeline to the already-synthesized audio instead of discarding it.
func New(
	speech SpeechSynthesizer, video VideoSyncer,
	wavFormat audio.Format, audioFallback bool, logger *zap.Logger,
) *Service {
	return &Service{
		speech:        speech,
		video:         video,
		wavFormat:     wavFormat,
		audioFallback: audioFallback,
		logger:        logger,
	}
}

// Dispatch packages the answer text for the requested style. Unknown
// styles fall back to plain text.
func (s *Service) Dispatch(ctx context.Context, style modality.Style, text string) (modality.Payload, error) {
	switch style {
	case modality.StyleAudio:
		return s.dispatchAudio(ctx, text)
	case modality.StyleVideo:
		return s.dispatchVideo(ctx, text)
	case modality.StyleVisual:
		return modality.NewTextPayload(modality.PayloadSVG, text), nil
	case modality.StyleByQuestion:
		return modality.NewTextPayload(modality.PayloadQuestions, text), nil
	default:
		return modality.NewTextPayload(modality.PayloadText, text), nil
	}
}

func (s *Service) dispatchAudio(ctx context.Context, text string) (modality.Payload, error) {
	pcm, err := s.speech.SynthesizeDialogue(ctx, splitDialogue(text))
	if err != nil {
		return modality.Payload{}, fmt.Errorf("dialogue synthesis: %w", err)
	}

	wav, err := audio.EncodeWAV(pcm, s.wavFormat)
	if err != nil {
		return modality.Payload{}, fmt.Errorf("package audio: %w: %w", domain.ErrSynthesis, err)
	}
	return modality.NewAudioPayload(wav), nil
}

func (s *Service) dispatchVideo(ctx context.Context, text string) (modality.Payload, error) {
	pcm, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		return modality.Payload{}, fmt.Errorf("narration synthesis: %w", err)
	}

	wav, err := audio.EncodeWAV(pcm, s.wavFormat)
	if err != nil {
		return modality.Payload{}, fmt.Errorf("package narration: %w: %w", domain.ErrSynthesis, err)
	}

	videoPath, err := s.video.Sync(ctx, wav)
	if err != nil {
		if s.audioFallback {
			metrics.DispatchFallbacksTotal.Inc()
			s.logger.Warn("lip-sync failed, degrading to audio", zap.Error(err))
			return modality.NewVideoPayload(wav, "").Degrade(), nil
		}
		return modality.Payload{}, fmt.Errorf("lip-sync: %w", err)
	}

	return modality.NewVideoPayload(wav, videoPath), nil
}

// splitDialogue turns "Speaker: line" markup into per-turn strings,
// stripping the speaker labels. Text without markup is a single turn.
func splitDialogue(text string) []string {
	var turns []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if name, rest, ok := strings.Cut(line, ":"); ok && isSpeakerLabel(name) {
			line = strings.TrimSpace(rest)
			if line == "" {
				continue
			}
		}
		turns = append(turns, line)
	}
	if len(turns) == 0 && strings.TrimSpace(text) != "" {
		turns = []string{strings.TrimSpace(text)}
	}
	return turns
}

// isSpeakerLabel accepts short single-word names like "Joe" or "Jane".
func isSpeakerLabel(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", r) {
			return false
		}
	}
	return true
}
