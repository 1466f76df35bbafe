// Package query remembers looked up video URLs and offers them back as suggestions.
package query

import (
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/ytgrab-cli/ytgrab/filesystem"
	"github.com/ytgrab-cli/ytgrab/key"
	"github.com/ytgrab-cli/ytgrab/where"
	"golang.org/x/exp/slices"
)

type urlRecord struct {
	Rank     int       `json:"rank"`
	URL      string    `json:"url"`
	LastUsed time.Time `json:"last_used"`
}

var cacher = gache.New[map[string]*urlRecord](
	&gache.Options{
		Path:       where.URLHistory(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var suggestionCache = make(map[string][]string)

// Remember records a looked up URL, raising its rank if it was seen before.
func Remember(url string) error {
	url = sanitize(url)
	if url == "" {
		return nil
	}

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*urlRecord)
	}

	if record, ok := cached[url]; ok {
		record.Rank++
		record.LastUsed = time.Now()
	} else {
		cached[url] = &urlRecord{Rank: 1, URL: url, LastUsed: time.Now()}
	}

	clear(suggestionCache)
	return cacher.Set(cached)
}

// Suggest returns the best remembered URL for a partial input.
func Suggest(partial string) mo.Option[string] {
	suggestions := SuggestMany(partial)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany lists remembered URLs fuzzily matching partial, most used first.
// Exact matches are not suggested back.
func SuggestMany(partial string) []string {
	if !viper.GetBool(key.SearchShowURLSuggestions) {
		return nil
	}

	partial = sanitize(partial)
	if partial == "" {
		return nil
	}

	if prev, ok := suggestionCache[partial]; ok {
		return prev
	}

	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	records := lo.Filter(lo.Values(cached), func(r *urlRecord, _ int) bool {
		return r.URL != partial && fuzzy.MatchFold(partial, r.URL)
	})

	slices.SortFunc(records, func(a, b *urlRecord) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return b.LastUsed.Compare(a.LastUsed)
	})

	urls := lo.Map(records, func(r *urlRecord, _ int) string { return r.URL })
	suggestionCache[partial] = urls
	return urls
}

// Forget drops the whole URL history.
func Forget() error {
	clear(suggestionCache)
	return cacher.Set(make(map[string]*urlRecord))
}

// Video ids are case sensitive, so only surrounding space is trimmed.
func sanitize(url string) string {
	return strings.TrimSpace(url)
}
