package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytgrab-cli/ytgrab/log"
	"golang.org/x/exp/slices"
)

// ErrMissingID is returned for entries without an identifier.
var ErrMissingID = errors.New("format entry has no id")

// aliases maps every accepted key, lower-cased with spaces and dashes
// turned into underscores, to its canonical name. Earlier aliases win.
var aliases = [][2]string{
	{"id", "id"},
	{"format_id", "id"},
	{"ext", "ext"},
	{"resolution", "resolution"},
	{"fps", "fps"},
	{"ch", "channels"},
	{"channels", "channels"},
	{"audio_channels", "channels"},
	{"filesize", "filesize"},
	{"filesize_approx", "filesize"},
	{"tbr", "tbr"},
	{"proto", "protocol"},
	{"protocol", "protocol"},
	{"vcodec", "vcodec"},
	{"vbr", "vbr"},
	{"acodec", "acodec"},
	{"abr", "abr"},
	{"asr", "asr"},
	{"more_info", "more_info"},
	{"format_note", "more_info"},
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

type fields map[string]json.RawMessage

func canonicalKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

// Normalize turns one backend entry into a Format. Upper-case and lower-case
// field names are both accepted, as are numbers printed as text ("12.34MiB", "1234k").
func Normalize(raw json.RawMessage) (Format, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Format{}, fmt.Errorf("decode format entry: %w", err)
	}

	// "id" beats "ID"; other spellings are taken in sorted order.
	keys := lo.Keys(obj)
	slices.Sort(keys)
	byKey := make(map[string]json.RawMessage, len(obj))
	for _, k := range keys {
		c := canonicalKey(k)
		if _, taken := byKey[c]; taken && k != c {
			continue
		}
		byKey[c] = obj[k]
	}

	f := make(fields, len(aliases))
	for _, alias := range aliases {
		if _, done := f[alias[1]]; done {
			continue
		}
		if v, ok := byKey[alias[0]]; ok && !isNull(v) {
			f[alias[1]] = v
		}
	}

	id, ok := f.text("id").Get()
	if !ok {
		return Format{}, ErrMissingID
	}

	return Format{
		ID:         id,
		Ext:        f.text("ext").OrEmpty(),
		Resolution: f.text("resolution"),
		FPS:        f.number("fps"),
		Channels:   f.number("channels"),
		FileSize:   f.size("filesize"),
		TBR:        f.number("tbr"),
		Protocol:   f.text("protocol"),
		VCodec:     codec(f.text("vcodec"), "audio only"),
		VBR:        f.number("vbr"),
		ACodec:     codec(f.text("acodec"), "video only"),
		ABR:        f.number("abr"),
		ASR:        f.number("asr"),
		MoreInfo:   f.text("more_info"),
	}, nil
}

// NormalizeAll normalizes a whole response. Entries that cannot be read are
// logged and skipped, and only the first entry of a repeated id is kept.
func NormalizeAll(url string, raws []json.RawMessage) Catalog {
	catalog := Catalog{URL: url, Formats: make([]Format, 0, len(raws))}
	seen := make(map[string]bool, len(raws))

	for i, raw := range raws {
		f, err := Normalize(raw)
		if err != nil {
			log.With(log.Fields{"url": url, "index": i}).Warnf("skipping format entry: %s", err)
			continue
		}
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		catalog.Formats = append(catalog.Formats, f)
	}

	return catalog
}

// codec maps the table placeholder for a missing stream to None.
func codec(value mo.Option[string], placeholder string) mo.Option[string] {
	v, ok := value.Get()
	if !ok {
		return value
	}
	if strings.EqualFold(v, placeholder) {
		return mo.Some(None)
	}
	return value
}

func isNull(v json.RawMessage) bool {
	return string(v) == "null"
}

func (f fields) text(key string) mo.Option[string] {
	v, ok := f[key]
	if !ok {
		return mo.None[string]()
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return mo.None[string]()
		}
		s = n.String()
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}

func (f fields) number(key string) mo.Option[float64] {
	v, ok := f[key]
	if !ok {
		return mo.None[float64]()
	}

	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return mo.Some(n)
	}

	s, ok := f.text(key).Get()
	if !ok {
		return mo.None[float64]()
	}
	return parseNumber(s)
}

func (f fields) size(key string) mo.Option[uint64] {
	v, ok := f[key]
	if !ok {
		return mo.None[uint64]()
	}

	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		if n < 0 {
			return mo.None[uint64]()
		}
		return mo.Some(uint64(n))
	}

	s, ok := f.text(key).Get()
	if !ok {
		return mo.None[uint64]()
	}
	return parseSize(s)
}

// trimApprox strips the "~" and "≈" markers the prober puts in front of estimates.
func trimApprox(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "~≈"))
}

func parseNumber(s string) mo.Option[float64] {
	match := leadingNumber.FindString(trimApprox(s))
	if match == "" {
		return mo.None[float64]()
	}

	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return mo.None[float64]()
	}
	return mo.Some(n)
}

func parseSize(s string) mo.Option[uint64] {
	n, err := humanize.ParseBytes(trimApprox(s))
	if err != nil {
		return mo.None[uint64]()
	}
	return mo.Some(n)
}
