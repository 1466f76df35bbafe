// Package fetcher looks up the format catalog of a URL.
//
// Each lookup is tagged with a generation. Starting a new lookup supersedes
// every earlier one: their results are dropped whenever they arrive.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/format"
	"github.com/ytgrab-cli/ytgrab/log"
)

// ErrEmptyURL blocks a lookup before any call is made.
var ErrEmptyURL = errors.New("empty URL")

const (
	FailedMessage   = "Failed to fetch qualities"
	EmptyURLMessage = "Please enter a video URL"
)

// Lister is the part of the service client the fetcher needs.
type Lister interface {
	ListFormats(ctx context.Context, link string) ([]json.RawMessage, error)
}

// Ticket identifies one lookup.
type Ticket struct {
	URL        string
	Generation uint64
}

// Result is the outcome of one lookup, ready to be applied with Complete.
type Result struct {
	Ticket  Ticket
	Catalog format.Catalog
	Err     error
}

// Fetcher holds the state of the current lookup. It is not safe for
// concurrent use: Begin and Complete belong on the single UI update path,
// only Run may execute elsewhere.
type Fetcher struct {
	client Lister

	generation uint64

	URL     string
	Catalog format.Catalog
	Loading bool
	// Fetched is set once a lookup succeeded, even when the catalog is empty.
	Fetched bool
	Err     error
}

func New(client Lister) *Fetcher {
	return &Fetcher{client: client}
}

// Begin starts a lookup for url, clearing the previous catalog and error.
func (f *Fetcher) Begin(url string) (Ticket, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Ticket{}, ErrEmptyURL
	}

	f.generation++
	f.URL = url
	f.Catalog = format.Catalog{URL: url}
	f.Loading = true
	f.Fetched = false
	f.Err = nil

	return Ticket{URL: url, Generation: f.generation}, nil
}

// Run performs the lookup for t. It does not touch the fetcher's state.
func (f *Fetcher) Run(ctx context.Context, t Ticket) Result {
	raws, err := f.client.ListFormats(ctx, t.URL)
	if err != nil {
		log.With(log.Fields{"url": t.URL, "generation": t.Generation}).Errorf("list formats: %s", err)
		return Result{Ticket: t, Catalog: format.Catalog{URL: t.URL}, Err: err}
	}

	catalog := format.NormalizeAll(t.URL, raws)
	log.With(log.Fields{"url": t.URL, "generation": t.Generation, "formats": catalog.Len()}).Info("formats listed")
	return Result{Ticket: t, Catalog: catalog}
}

// Current reports whether t belongs to the latest lookup.
func (f *Fetcher) Current(t Ticket) bool {
	return t.Generation == f.generation
}

// Complete applies r unless a newer lookup has started since; it reports whether r was applied.
func (f *Fetcher) Complete(r Result) bool {
	if !f.Current(r.Ticket) {
		log.Debugf("dropping stale lookup %d for %s", r.Ticket.Generation, r.Ticket.URL)
		return false
	}

	f.Loading = false
	if r.Err != nil {
		f.Catalog = format.Catalog{URL: r.Ticket.URL}
		f.Fetched = false
		f.Err = r.Err
		return true
	}

	f.Catalog = r.Catalog
	f.Fetched = true
	f.Err = nil
	return true
}

// Cancel abandons the lookup in flight. Its result will be dropped.
func (f *Fetcher) Cancel() {
	f.generation++
	f.Loading = false
}

// Message is the user-facing text of the last error, or "".
func (f *Fetcher) Message() string {
	return Message(f.Err)
}

// Message converts a lookup error into the text shown to the user.
func Message(err error) string {
	if errors.Is(err, ErrEmptyURL) {
		return EmptyURLMessage
	}
	return api.Message(err, FailedMessage)
}

// Lookup runs a whole lookup synchronously.
func (f *Fetcher) Lookup(ctx context.Context, url string) (format.Catalog, error) {
	t, err := f.Begin(url)
	if err != nil {
		return format.Catalog{}, err
	}

	r := f.Run(ctx, t)
	f.Complete(r)
	return r.Catalog, r.Err
}
