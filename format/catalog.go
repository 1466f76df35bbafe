package format

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Catalog is the ordered list of formats returned for one URL.
// Subsets are derived on every call and never cached.
type Catalog struct {
	URL     string
	Formats []Format
}

func (c Catalog) Len() int {
	return len(c.Formats)
}

func (c Catalog) IsEmpty() bool {
	return len(c.Formats) == 0
}

func (c Catalog) Combined() []Format {
	return lo.Filter(c.Formats, func(f Format, _ int) bool { return f.IsCombined() })
}

func (c Catalog) VideoOnly() []Format {
	return lo.Filter(c.Formats, func(f Format, _ int) bool { return f.IsVideoOnly() })
}

func (c Catalog) AudioOnly() []Format {
	return lo.Filter(c.Formats, func(f Format, _ int) bool { return f.IsAudioOnly() })
}

// Usable drops the entries without any real stream.
func (c Catalog) Usable() []Format {
	return lo.Filter(c.Formats, func(f Format, _ int) bool { return f.Usable() })
}

func (c Catalog) Lookup(id string) mo.Option[Format] {
	f, ok := lo.Find(c.Formats, func(f Format) bool { return f.ID == id })
	if !ok {
		return mo.None[Format]()
	}
	return mo.Some(f)
}
