package modality

// PayloadType tags the rendered payload handed to the presentation layer.
type PayloadType string

const (
	// PayloadText is plain text content.
	PayloadText PayloadType = "text"
	// PayloadAudio is WAV audio bytes.
	PayloadAudio PayloadType = "audio"
	// PayloadVideo is narration audio plus a produced video file.
	PayloadVideo PayloadType = "video"
	// PayloadSVG is visual-friendly text for diagram rendering.
	PayloadSVG PayloadType = "svg"
	// PayloadQuestions is Socratic guiding-question text.
	PayloadQuestions PayloadType = "questions"
)

// SubtypeSpeech marks synthesized speech content.
const SubtypeSpeech = "speech"

// Payload is one rendered response. Lifetime is a single request.
type Payload struct {
	payloadType PayloadType
	content     []byte
	subtype     string
	videoPath   string
	degraded    bool
}

// NewTextPayload creates a textual payload of the given type.
func NewTextPayload(t PayloadType, text string) Payload {
	return Payload{payloadType: t, content: []byte(text)}
}

// NewAudioPayload creates a synthesized speech payload with WAV content.
func NewAudioPayload(wav []byte) Payload {
	return Payload{payloadType: PayloadAudio, content: wav, subtype: SubtypeSpeech}
}

// NewVideoPayload creates a video payload carrying the narration WAV and
// the path of the produced video artifact.
func NewVideoPayload(wav []byte, videoPath string) Payload {
	return Payload{
		payloadType: PayloadVideo, content: wav,
		subtype: SubtypeSpeech, videoPath: videoPath,
	}
}

// Degrade marks the payload as a partial success (audio salvaged from a
// failed video pipeline) and retags it as audio.
func (p Payload) Degrade() Payload {
	p.payloadType = PayloadAudio
	p.videoPath = ""
	p.degraded = true
	return p
}

// Type returns the payload type tag.
func (p *Payload) Type() PayloadType { return p.payloadType }

// Content returns the payload bytes (UTF-8 text or WAV audio).
func (p *Payload) Content() []byte { return p.content }

// Text returns the payload content as a string.
func (p *Payload) Text() string { return string(p.content) }

// Subtype returns the optional qualifier, e.g. "speech".
func (p *Payload) Subtype() string { return p.subtype }

// VideoPath returns the produced video file path, empty for non-video payloads.
func (p *Payload) VideoPath() string { return p.videoPath }

// Degraded reports whether the payload is a salvaged partial artifact.
func (p *Payload) Degraded() bool { return p.degraded }
