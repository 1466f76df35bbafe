// Package selection decides between the combined and the separate format
// pickers and tracks what the user picked in each.
package selection

import "github.com/ytgrab-cli/ytgrab/format"

// Mode is the active picker layout.
type Mode int

const (
	// Combined offers one list of formats carrying both streams.
	Combined Mode = iota
	// Separate offers a video list and an audio list.
	Separate
)

func (m Mode) String() string {
	switch m {
	case Combined:
		return "combined"
	case Separate:
		return "separate"
	default:
		return "unknown"
	}
}

// Choice is the selection that matters for the active mode.
type Choice struct {
	Mode Mode
	// Format is the combined pick; empty in separate mode.
	Format string
	// Video and Audio are the separate picks; empty in combined mode.
	Video string
	Audio string
	// Best asks for the best streams instead of catalog entries.
	Best bool
}

// Resolver holds the catalog and the picks made for it.
// Picks survive mode switches and are dropped when a new catalog arrives.
type Resolver struct {
	catalog format.Catalog
	mode    Mode

	format string
	video  string
	audio  string
	best   bool
}

// Load replaces the catalog, clears every pick and chooses the default mode.
func (r *Resolver) Load(catalog format.Catalog) {
	r.Reset()
	r.catalog = catalog
	if len(catalog.Combined()) > 0 {
		r.mode = Combined
	} else {
		r.mode = Separate
	}
}

// Reset forgets the catalog and every pick.
func (r *Resolver) Reset() {
	*r = Resolver{}
}

func (r *Resolver) Catalog() format.Catalog {
	return r.catalog
}

func (r *Resolver) Mode() Mode {
	return r.mode
}

// CanToggle reports whether both layouts have something to offer.
func (r *Resolver) CanToggle() bool {
	if len(r.catalog.Combined()) == 0 {
		return false
	}
	return len(r.catalog.VideoOnly()) > 0 || len(r.catalog.AudioOnly()) > 0
}

// Toggle switches layouts when CanToggle allows it. Picks are kept.
func (r *Resolver) Toggle() bool {
	if !r.CanToggle() {
		return false
	}
	if r.mode == Combined {
		r.mode = Separate
	} else {
		r.mode = Combined
	}
	return true
}

// Options lists the formats offered for kind.
func (r *Resolver) Options(kind format.Kind) []format.Format {
	switch kind {
	case format.KindVideo:
		return r.catalog.VideoOnly()
	case format.KindAudio:
		return r.catalog.AudioOnly()
	default:
		return r.catalog.Combined()
	}
}

// SetFormat records the combined pick and leaves best-quality mode.
func (r *Resolver) SetFormat(id string) {
	r.format = id
	r.best = false
}

func (r *Resolver) SetVideo(id string) {
	r.video = id
	r.best = false
}

func (r *Resolver) SetAudio(id string) {
	r.audio = id
	r.best = false
}

// UseBest asks for the best streams regardless of the picks.
func (r *Resolver) UseBest(best bool) {
	r.best = best
}

// Resolve returns the picks relevant to the active mode.
func (r *Resolver) Resolve() Choice {
	c := Choice{Mode: r.mode, Best: r.best}
	if r.mode == Combined {
		c.Format = r.format
	} else {
		c.Video = r.video
		c.Audio = r.audio
	}
	return c
}
