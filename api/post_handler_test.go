package api

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionlabs/aion-admin/models"
)

func TestParsePostFilter_StatusForms(t *testing.T) {
	want := []models.PostStatus{models.StatusDraft, models.StatusPublished}

	t.Run("comma-separated", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/posts?status=DRAFT,PUBLISHED", nil)
		filter, err := parsePostFilter(r)
		require.NoError(t, err)
		assert.Equal(t, want, filter.Statuses)
	})

	t.Run("json array", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/posts?status="+url.QueryEscape(`["DRAFT","PUBLISHED"]`), nil)
		filter, err := parsePostFilter(r)
		require.NoError(t, err)
		assert.Equal(t, want, filter.Statuses)
	})

	t.Run("unknown status rejected in either form", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/posts?status=BOGUS", nil)
		_, err := parsePostFilter(r)
		require.Error(t, err)

		r = httptest.NewRequest("GET", "/posts?status="+url.QueryEscape(`["BOGUS"]`), nil)
		_, err = parsePostFilter(r)
		require.Error(t, err)
	})

	t.Run("malformed json array rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/posts?status="+url.QueryEscape(`["DRAFT"`), nil)
		_, err := parsePostFilter(r)
		require.Error(t, err)
	})
}

func TestParsePostFilter_PillarIDForms(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("comma-separated", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/posts?pillarId="+a.String()+","+b.String(), nil)
		filter, err := parsePostFilter(r)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a, b}, filter.PillarIDs)
	})

	t.Run("json array", func(t *testing.T) {
		raw := url.QueryEscape(`["` + a.String() + `","` + b.String() + `"]`)
		r := httptest.NewRequest("GET", "/posts?pillarId="+raw, nil)
		filter, err := parsePostFilter(r)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a, b}, filter.PillarIDs)
	})

	t.Run("invalid uuid rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/posts?pillarId=not-a-uuid", nil)
		_, err := parsePostFilter(r)
		require.Error(t, err)
	})
}

func TestSplitListParam(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single value", "DRAFT", []string{"DRAFT"}},
		{"comma-separated with spaces", "DRAFT, PUBLISHED", []string{"DRAFT", "PUBLISHED"}},
		{"json array", `["DRAFT","PUBLISHED"]`, []string{"DRAFT", "PUBLISHED"}},
		{"blank elements dropped", "DRAFT,,", []string{"DRAFT"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := splitListParam(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
