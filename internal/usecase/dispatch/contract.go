package dispatch

import "context"

// SpeechSynthesizer converts text to raw PCM samples.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	SynthesizeDialogue(ctx context.Context, turns []string) ([]byte, error)
}

// VideoSyncer produces a lip-synced video from narration audio and
// returns the artifact path.
type VideoSyncer interface {
	Sync(ctx context.Context, audioWAV []byte) (string, error)
}
