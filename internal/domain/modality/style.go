// Package modality holds answer delivery styles and rendered payloads.
package modality

import "strings"

// Style is the requested delivery form of an answer.
type Style string

const (
	// StyleText is plain written text with citations.
	StyleText Style = "text"
	// StyleAudio is a synthesized two-voice audio conversation.
	StyleAudio Style = "audio"
	// StyleVideo is a lip-synced narrated video.
	StyleVideo Style = "video"
	// StyleVisual is diagram-friendly phrasing for visual rendering.
	StyleVisual Style = "visual"
	// StyleByQuestion is Socratic guiding-question form.
	StyleByQuestion Style = "byquestion"
)

// ParseStyle maps a raw style string to a Style. Unknown or empty values
// default to StyleText.
func ParseStyle(raw string) Style {
	switch Style(strings.ToLower(strings.TrimSpace(raw))) {
	case StyleAudio:
		return StyleAudio
	case StyleVideo:
		return StyleVideo
	case StyleVisual:
		return StyleVisual
	case StyleByQuestion:
		return StyleByQuestion
	default:
		return StyleText
	}
}
