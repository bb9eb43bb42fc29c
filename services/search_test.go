package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name string
	docs []FoundDoc
	err  error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(_ context.Context, _ string, _ int) ([]FoundDoc, error) {
	return s.docs, s.err
}

func TestNewsSearch_FallsBackOnProviderError(t *testing.T) {
	broken := &stubProvider{name: "broken", err: errors.New("boom")}
	working := &stubProvider{name: "working", docs: []FoundDoc{
		{Title: "One", URL: "https://example.com/1"},
	}}

	docs := newNewsSearchWith(broken, working).Search(context.Background(), "q", 5, ExcludeSet{})
	require.Len(t, docs, 1)
	assert.Equal(t, "https://example.com/1", docs[0].URL)
}

func TestNewsSearch_DedupesAcrossProviders(t *testing.T) {
	first := &stubProvider{name: "first", docs: []FoundDoc{
		{Title: "One", URL: "https://example.com/1"},
		{Title: "Two", URL: "https://example.com/2"},
	}}
	second := &stubProvider{name: "second", docs: []FoundDoc{
		{Title: "One again", URL: "https://example.com/1"},
		{Title: "Three", URL: "https://example.com/3"},
	}}

	docs := newNewsSearchWith(first, second).Search(context.Background(), "q", 10, ExcludeSet{})
	urls := make([]string, 0, len(docs))
	for _, d := range docs {
		urls = append(urls, d.URL)
	}
	assert.Equal(t, []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}, urls)
}

func TestNewsSearch_StopsAtLimit(t *testing.T) {
	provider := &stubProvider{name: "p", docs: []FoundDoc{
		{URL: "https://example.com/1"},
		{URL: "https://example.com/2"},
		{URL: "https://example.com/3"},
	}}

	docs := newNewsSearchWith(provider).Search(context.Background(), "q", 2, ExcludeSet{})
	assert.Len(t, docs, 2)
}

func TestNewsSearch_ExcludesUsedURLsAndDomains(t *testing.T) {
	provider := &stubProvider{name: "p", docs: []FoundDoc{
		{URL: "https://used.example/article"},
		{URL: "https://used.example/other-article"},
		{URL: "https://fresh.example/article"},
	}}

	t.Run("url only", func(t *testing.T) {
		exclude := NewExcludeSet([]string{"https://used.example/article"}, false)
		docs := newNewsSearchWith(provider).Search(context.Background(), "q", 10, exclude)
		require.Len(t, docs, 2)
	})

	t.Run("whole domain", func(t *testing.T) {
		exclude := NewExcludeSet([]string{"https://used.example/article"}, true)
		docs := newNewsSearchWith(provider).Search(context.Background(), "q", 10, exclude)
		require.Len(t, docs, 1)
		assert.Equal(t, "https://fresh.example/article", docs[0].URL)
	})
}

func TestExtractPublishedAt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{"rfc3339", "2026-08-12T09:30:00Z", timePtr(2026, 8, 12)},
		{"date only", "2026-08-12", timePtr(2026, 8, 12)},
		{"url with date path", "https://news.example/2026/08/12/big-launch", timePtr(2026, 8, 12)},
		{"url with year and month only", "https://news.example/2026/8/big-launch", timePtr(2026, 8, 1)},
		{"empty", "", nil},
		{"garbage", "yesterday-ish", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractPublishedAt(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.want.Format("2006-01-02"), got.Format("2006-01-02"))
		})
	}
}

func timePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
