package format

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/mo"
)

// Kind selects which columns a label shows.
type Kind int

const (
	KindCombined Kind = iota
	KindVideo
	KindAudio
)

const placeholder = "-"

func orDash(o mo.Option[string]) string {
	return o.OrElse(placeholder)
}

func num(o mo.Option[float64], suffix string) string {
	v, ok := o.Get()
	if !ok {
		return placeholder
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + suffix
}

// Size renders the file size in binary units, or "-" when unknown.
func (f Format) Size() string {
	size, ok := f.FileSize.Get()
	if !ok {
		return placeholder
	}
	return humanize.IBytes(size)
}

// Label renders a one-line description of f for a picker of the given kind.
func Label(f Format, kind Kind) string {
	var cols []string

	switch kind {
	case KindVideo:
		cols = []string{f.ID, f.Ext, orDash(f.Resolution), num(f.FPS, "fps"), f.Size()}
		if _, ok := f.TBR.Get(); ok {
			cols = append(cols, num(f.TBR, " kbps"))
		}
		cols = append(cols, orDash(f.VCodec))
	case KindAudio:
		cols = []string{f.ID, f.Ext, orDash(f.ACodec), num(f.ABR, " kbps"), f.Size(), orDash(f.MoreInfo)}
	default:
		cols = []string{
			f.ID,
			f.Ext,
			orDash(f.Resolution),
			num(f.FPS, "fps"),
			num(f.Channels, "ch"),
			f.Size(),
			num(f.TBR, "kbps"),
			orDash(f.Protocol),
			orDash(f.VCodec),
			num(f.VBR, ""),
			orDash(f.ACodec),
			num(f.ABR, ""),
			num(f.ASR, ""),
			orDash(f.MoreInfo),
		}
	}

	return strings.Join(cols, " | ")
}

// Title is the short headline used by list items: id, extension and resolution or codec.
func Title(f Format) string {
	detail := f.Resolution.OrElse("")
	if detail == "" || detail == "audio only" {
		detail = f.ACodec.OrElse(placeholder)
	}
	return f.ID + " " + f.Ext + " " + detail
}
