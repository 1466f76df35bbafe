package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytgrab-cli/ytgrab/fetcher"
	"github.com/ytgrab-cli/ytgrab/format"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/submit"
	"github.com/ytgrab-cli/ytgrab/util"
)

// Client is everything inline mode asks of the download service.
type Client interface {
	fetcher.Lister
	submit.Client
	jobs.Client
}

// FormatPicker chooses one entry of a format list.
type FormatPicker func([]format.Format) mo.Option[format.Format]

type Options struct {
	Out      io.Writer
	Client   Client
	Location *time.Location
	Json     bool

	URL string
	// Kind limits a format listing; absent lists every usable format.
	Kind mo.Option[format.Kind]

	Format mo.Option[FormatPicker]
	Video  mo.Option[FormatPicker]
	Audio  mo.Option[FormatPicker]
	Best   bool

	Date, Time string

	Tab jobs.Tab
}

// ParseFormatPicker understands first, last, a zero based index in square
// brackets and, failing those, an exact format id.
func ParseFormatPicker(value string) (FormatPicker, error) {
	value = strings.TrimSpace(value)

	switch {
	case value == "":
		return nil, fmt.Errorf("empty format selector")
	case value == "first":
		return func(formats []format.Format) mo.Option[format.Format] {
			if len(formats) == 0 {
				return mo.None[format.Format]()
			}
			return mo.Some(formats[0])
		}, nil
	case value == "last":
		return func(formats []format.Format) mo.Option[format.Format] {
			if len(formats) == 0 {
				return mo.None[format.Format]()
			}
			return mo.Some(formats[len(formats)-1])
		}, nil
	case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
		idx, err := strconv.ParseUint(value[1:len(value)-1], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(formats []format.Format) mo.Option[format.Format] {
			if len(formats) == 0 {
				return mo.None[format.Format]()
			}
			return mo.Some(formats[util.Min(idx, uint64(len(formats)-1))])
		}, nil
	default:
		return func(formats []format.Format) mo.Option[format.Format] {
			f, ok := lo.Find(formats, func(f format.Format) bool { return f.ID == value })
			if !ok {
				return mo.None[format.Format]()
			}
			return mo.Some(f)
		}, nil
	}
}

// ParseKind reads a format listing filter.
func ParseKind(value string) (mo.Option[format.Kind], error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return mo.None[format.Kind](), nil
	case "combined":
		return mo.Some(format.KindCombined), nil
	case "video":
		return mo.Some(format.KindVideo), nil
	case "audio":
		return mo.Some(format.KindAudio), nil
	default:
		return mo.None[format.Kind](), fmt.Errorf("unknown format kind: %s", value)
	}
}

// ParseTab reads a job list filter.
func ParseTab(value string) (jobs.Tab, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return jobs.TabAll, nil
	case "completed":
		return jobs.TabCompleted, nil
	case "scheduled":
		return jobs.TabScheduled, nil
	default:
		return jobs.TabAll, fmt.Errorf("unknown tab: %s", value)
	}
}
