// Package audio packages raw PCM speech into a standard WAV container.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/askora-cloud/askora/internal/domain"
)

// Format describes the PCM layout emitted by the speech backend.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat matches the speech backend output: 16-bit, 24kHz, mono.
func DefaultFormat() Format {
	return Format{SampleRate: 24000, Channels: 1, BitsPerSample: 16}
}

const (
	riffHeaderSize = 44
	pcmFormatTag   = 1
)

// EncodeWAV wraps raw PCM bytes in a RIFF/WAVE header. The PCM data is
// copied verbatim; only the container is added.
func EncodeWAV(pcm []byte, f Format) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty pcm data: %w", domain.ErrInvalidInput)
	}
	if f.SampleRate <= 0 || f.Channels <= 0 || f.BitsPerSample <= 0 {
		return nil, fmt.Errorf("invalid audio format %+v: %w", f, domain.ErrInvalidInput)
	}

	blockAlign := f.Channels * f.BitsPerSample / 8
	byteRate := f.SampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, riffHeaderSize+len(pcm)))
	buf.WriteString("RIFF")
	le(buf, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	le(buf, uint32(16))
	le(buf, uint16(pcmFormatTag))
	le(buf, uint16(f.Channels))
	le(buf, uint32(f.SampleRate))
	le(buf, uint32(byteRate))
	le(buf, uint16(blockAlign))
	le(buf, uint16(f.BitsPerSample))

	buf.WriteString("data")
	le(buf, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes(), nil
}

func le(buf *bytes.Buffer, v any) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}
