package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/config"
)

// FoundDoc is one candidate source document returned by a search provider.
type FoundDoc struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
}

// SearchProvider is one external news-search backend.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]FoundDoc, error)
}

// ExcludeSet filters out documents whose URL (or domain) was already used.
type ExcludeSet struct {
	URLs    map[string]struct{}
	Domains map[string]struct{}
}

// NewExcludeSet builds an exclusion set from previously used source URLs.
// When excludeDomains is true the whole host of each URL is banned too.
func NewExcludeSet(usedURLs []string, excludeDomains bool) ExcludeSet {
	set := ExcludeSet{URLs: map[string]struct{}{}, Domains: map[string]struct{}{}}
	for _, raw := range usedURLs {
		set.URLs[raw] = struct{}{}
		if !excludeDomains {
			continue
		}
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			set.Domains[strings.TrimPrefix(u.Host, "www.")] = struct{}{}
		}
	}
	return set
}

func (e ExcludeSet) blocks(docURL string) bool {
	if _, ok := e.URLs[docURL]; ok {
		return true
	}
	if len(e.Domains) == 0 {
		return false
	}
	u, err := url.Parse(docURL)
	if err != nil {
		return false
	}
	_, ok := e.Domains[strings.TrimPrefix(u.Host, "www.")]
	return ok
}

// NewsSearch fans a query out over the configured providers in preference
// order. A provider that errors or returns nothing simply hands over to the
// next one; an empty result set is not a failure.
type NewsSearch struct {
	providers []SearchProvider
	logger    zerolog.Logger
}

// NewNewsSearch wires providers from config. SEARCH_PROVIDER names the
// preferred one; the others follow in a fixed order, skipping any without
// credentials.
func NewNewsSearch(cfg map[string]string) *NewsSearch {
	var all []SearchProvider
	if key := config.GetString(cfg, "TAVILY_API_KEY", ""); key != "" {
		all = append(all, newTavilyProvider(key))
	}
	if key := config.GetString(cfg, "SERPER_API_KEY", ""); key != "" {
		all = append(all, newSerperProvider(key))
	}
	if key := config.GetString(cfg, "NEWSAPI_KEY", ""); key != "" {
		all = append(all, newNewsAPIProvider(key))
	}

	preferred := strings.ToLower(config.GetString(cfg, "SEARCH_PROVIDER", ""))
	ordered := make([]SearchProvider, 0, len(all))
	for _, p := range all {
		if p.Name() == preferred {
			ordered = append(ordered, p)
		}
	}
	for _, p := range all {
		if p.Name() != preferred {
			ordered = append(ordered, p)
		}
	}

	return &NewsSearch{
		providers: ordered,
		logger:    log.With().Str("service", "newsSearch").Logger(),
	}
}

// newNewsSearchWith is the injection point for tests.
func newNewsSearchWith(providers ...SearchProvider) *NewsSearch {
	return &NewsSearch{providers: providers, logger: log.With().Str("service", "newsSearch").Logger()}
}

// Search accumulates up to limit documents across providers, deduplicated
// by URL and filtered through the exclusion set.
func (s *NewsSearch) Search(ctx context.Context, query string, limit int, exclude ExcludeSet) []FoundDoc {
	seen := make(map[string]struct{}, limit)
	var docs []FoundDoc

	for _, provider := range s.providers {
		if len(docs) >= limit {
			break
		}
		results, err := provider.Search(ctx, query, limit)
		if err != nil {
			s.logger.Warn().Err(err).Str("provider", provider.Name()).Msg("search provider failed, trying next")
			continue
		}
		for _, doc := range results {
			if len(docs) >= limit {
				break
			}
			if doc.URL == "" {
				continue
			}
			if _, dup := seen[doc.URL]; dup {
				continue
			}
			if exclude.blocks(doc.URL) {
				continue
			}
			seen[doc.URL] = struct{}{}
			docs = append(docs, doc)
		}
	}

	return docs
}

var urlDatePattern = regexp.MustCompile(`/(20\d{2})/(\d{1,2})(?:/(\d{1,2}))?/`)

var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// ExtractPublishedAt best-effort parses a publication date from a provider
// date string or from a date-shaped URL path segment. Returns nil when
// nothing parseable is found.
func ExtractPublishedAt(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if m := urlDatePattern.FindStringSubmatch(s); m != nil {
		year := m[1]
		month := pad2(m[2])
		day := "01"
		if m[3] != "" {
			day = pad2(m[3])
		}
		if t, err := time.Parse("2006-01-02", year+"-"+month+"-"+day); err == nil {
			return &t
		}
	}
	return nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
