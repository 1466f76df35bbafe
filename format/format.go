// Package format models the encodings the backend reports for a video and
// normalizes the different shapes those reports come in.
package format

import (
	"strings"

	"github.com/samber/mo"
)

// None is the codec value meaning "no such stream".
const None = "none"

// Format is one selectable encoding of a video.
type Format struct {
	ID         string
	Ext        string
	Resolution mo.Option[string]
	FPS        mo.Option[float64]
	Channels   mo.Option[float64]
	// FileSize is in bytes, possibly approximate.
	FileSize mo.Option[uint64]
	// TBR, VBR and ABR are in kbit/s.
	TBR      mo.Option[float64]
	Protocol mo.Option[string]
	VCodec   mo.Option[string]
	VBR      mo.Option[float64]
	ACodec   mo.Option[string]
	ABR      mo.Option[float64]
	// ASR is the audio sample rate in Hz.
	ASR      mo.Option[float64]
	MoreInfo mo.Option[string]
}

func hasStream(codec mo.Option[string]) bool {
	c, ok := codec.Get()
	return ok && c != "" && !strings.EqualFold(c, None)
}

func (f Format) HasVideo() bool {
	return hasStream(f.VCodec)
}

func (f Format) HasAudio() bool {
	return hasStream(f.ACodec)
}

// IsCombined reports whether f carries both streams.
func (f Format) IsCombined() bool {
	return f.HasVideo() && f.HasAudio()
}

func (f Format) IsVideoOnly() bool {
	return f.HasVideo() && !f.HasAudio()
}

func (f Format) IsAudioOnly() bool {
	return f.HasAudio() && !f.HasVideo()
}

// Usable reports whether f carries at least one real stream.
func (f Format) Usable() bool {
	return f.HasVideo() || f.HasAudio()
}
