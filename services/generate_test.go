package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/models"
)

const sampleItemsJSON = `[{"title":"Acme Corp Launches AI Tool","script":"A long enough script body.","sources":["https://example.com/a"],"confidence":0.9}]`

func TestParseGeneratedItems_FallbackChain(t *testing.T) {
	variants := map[string]string{
		"raw json":     sampleItemsJSON,
		"fenced block": "Here you go:\n```json\n" + sampleItemsJSON + "\n```\nLet me know!",
		"leading and trailing prose": "Sure! The items are: " + sampleItemsJSON + " Hope that helps.",
	}

	var want []GeneratedItem
	require.NoError(t, json.Unmarshal([]byte(sampleItemsJSON), &want))

	for name, raw := range variants {
		t.Run(name, func(t *testing.T) {
			items, err := parseGeneratedItems(raw)
			require.NoError(t, err)
			assert.Equal(t, want, items)
		})
	}
}

func TestParseGeneratedItems_ObjectWrapper(t *testing.T) {
	items, err := parseGeneratedItems(`{"items":` + sampleItemsJSON + `}`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme Corp Launches AI Tool", items[0].Title)
}

func TestParseGeneratedItems_NotJSON(t *testing.T) {
	_, err := parseGeneratedItems("I could not produce any items today, sorry.")
	require.Error(t, err)
}

func TestScriptText_Coercion(t *testing.T) {
	type payload struct {
		Script ScriptText `json:"script"`
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `{"script":"one paragraph"}`, "one paragraph"},
		{"array joins paragraphs", `{"script":["first","second"]}`, "first\n\nsecond"},
		{"object joins by sorted key", `{"script":{"b_outro":"bye","a_intro":"hi"}}`, "hi\n\nbye"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tc.in), &p))
			assert.Equal(t, tc.want, string(p.Script))
		})
	}
}

func TestVerifiedSources_NeverInventsURLs(t *testing.T) {
	docURLs := map[string]struct{}{
		"https://real.example/one": {},
		"https://real.example/two": {},
	}
	ordered := []string{"https://real.example/one", "https://real.example/two"}

	got := verifiedSources([]string{"https://invented.example/x", "https://real.example/two"}, docURLs, ordered)
	assert.Equal(t, []string{"https://real.example/two"}, got)

	// all invented: fall back to the provider's own documents
	got = verifiedSources([]string{"https://invented.example/x"}, docURLs, ordered)
	assert.Equal(t, ordered, got)

	// no search documents: no sources at all
	got = verifiedSources([]string{"https://invented.example/x"}, nil, nil)
	assert.Nil(t, got)
}

func TestVerifiedSources_CapsAtMax(t *testing.T) {
	ordered := []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example"}
	docURLs := make(map[string]struct{}, len(ordered))
	for _, u := range ordered {
		docURLs[u] = struct{}{}
	}

	got := verifiedSources(nil, docURLs, ordered)
	assert.Len(t, got, models.MaxStorySources)
}

func TestResolvePromptsFrom_Priority(t *testing.T) {
	pillarID := uuid.New()
	settings := map[string]string{
		models.SettingPrompt:              "global prompt",
		models.SettingSearchQuery:         "global query",
		models.PillarPromptKey(pillarID):  "pillar prompt",
		models.PillarSearchKey(pillarID):  "pillar query",
		models.PillarContextKey(pillarID): "pillar context",
	}

	t.Run("request override wins", func(t *testing.T) {
		got := resolvePromptsFrom(GenerateRequest{Prompt: "override", PillarID: &pillarID}, settings, pageOverrides{})
		assert.Equal(t, "override", got.task)
	})

	t.Run("pillar setting beats global", func(t *testing.T) {
		got := resolvePromptsFrom(GenerateRequest{PillarID: &pillarID}, settings, pageOverrides{})
		assert.Equal(t, "pillar prompt", got.task)
		assert.Equal(t, "pillar query", got.searchQuery)
		assert.Equal(t, "pillar context", got.context)
	})

	t.Run("page row beats global", func(t *testing.T) {
		page := pageOverrides{prompt: "page prompt", searchQuery: "page query"}
		got := resolvePromptsFrom(GenerateRequest{}, settings, page)
		assert.Equal(t, "page prompt", got.task)
		assert.Equal(t, "page query", got.searchQuery)
	})

	t.Run("pillar setting beats page row", func(t *testing.T) {
		page := pageOverrides{prompt: "page prompt"}
		got := resolvePromptsFrom(GenerateRequest{PillarID: &pillarID}, settings, page)
		assert.Equal(t, "pillar prompt", got.task)
	})

	t.Run("request override beats page row", func(t *testing.T) {
		page := pageOverrides{prompt: "page prompt"}
		got := resolvePromptsFrom(GenerateRequest{Prompt: "override"}, settings, page)
		assert.Equal(t, "override", got.task)
	})

	t.Run("global without pillar", func(t *testing.T) {
		got := resolvePromptsFrom(GenerateRequest{}, settings, pageOverrides{})
		assert.Equal(t, "global prompt", got.task)
		assert.Equal(t, "global query", got.searchQuery)
	})

	t.Run("built-in default when nothing set", func(t *testing.T) {
		got := resolvePromptsFrom(GenerateRequest{}, map[string]string{}, pageOverrides{})
		assert.Equal(t, defaultTaskPrompt, got.task)
		assert.Empty(t, got.searchQuery)
	})
}

func TestResolveCount(t *testing.T) {
	tests := []struct {
		name       string
		requested  int
		configured int
		want       int
	}{
		{"explicit request wins", 4, 7, 4},
		{"zero falls back to configured", 0, 7, 7},
		{"negative falls back to configured", -1, 7, 7},
		{"unconfigured falls back to built-in default", 0, 0, defaultGenerateCount},
		{"capped at ceiling", 50, 7, maxGenerateCount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolveCount(tc.requested, tc.configured))
		})
	}
}

func TestNewGenerator_ConfigKnobs(t *testing.T) {
	g := NewGenerator(database.Database{}, nil, nil, map[string]string{
		"GENERATE_N":         "7",
		"EXCLUDE_REJECTED":   "true",
		"MAX_CONTEXT_TITLES": "50",
	})
	assert.Equal(t, 7, g.defaultCount)
	assert.True(t, g.excludeRejected)
	assert.Equal(t, 50, g.maxContextTitles)

	g = NewGenerator(database.Database{}, nil, nil, map[string]string{})
	assert.Equal(t, defaultGenerateCount, g.defaultCount)
	assert.False(t, g.excludeRejected)
	assert.Equal(t, defaultMaxContextTitles, g.maxContextTitles)
}

func TestBanlistStatuses(t *testing.T) {
	assert.Equal(t, []models.StoryStatus{models.StoryPublished}, banlistStatuses(false))
	assert.Equal(t, []models.StoryStatus{models.StoryPublished, models.StoryRejected}, banlistStatuses(true))
}

func TestCapBanlist(t *testing.T) {
	entries := make([]database.BanlistEntry, 10)
	for i := range entries {
		entries[i] = database.BanlistEntry{Title: strings.Repeat("t", i+1)}
	}

	assert.Len(t, capBanlist(entries, 4), 4)
	assert.Equal(t, entries, capBanlist(entries, 200))
	assert.Equal(t, entries, capBanlist(entries, 0))
}

func TestAcceptItems_DedupesWithinBatch(t *testing.T) {
	g := NewGenerator(database.Database{}, nil, nil, nil)
	script := ScriptText(strings.Repeat("A paragraph about the launch. ", 10))

	parsed := []GeneratedItem{
		{Title: "Acme Corp Launches AI Tool", Script: script},
		{Title: "ACME Corp launches AI tool!", Script: script}, // same slug
		{Title: "Borealis Opens a Quantum Lab", Script: script},
	}

	items := g.acceptItems(parsed, nil, nil, "", 5)
	require.Len(t, items, 2)
	assert.Equal(t, "Acme Corp Launches AI Tool", items[0].Title)
	assert.Equal(t, "Borealis Opens a Quantum Lab", items[1].Title)
}

func TestAcceptItems_FiltersBanlistAndStops(t *testing.T) {
	g := NewGenerator(database.Database{}, nil, nil, nil)
	script := ScriptText(strings.Repeat("A paragraph about the launch. ", 10))

	banlist := []database.BanlistEntry{{Title: "Acme Corp Launches AI Tool", TitleSlug: "acme-corp-launches-ai-tool"}}
	parsed := []GeneratedItem{
		{Title: "Acme Corp Launches AI Tool", Script: script},
		{Title: "Borealis Opens a Quantum Lab", Script: script},
		{Title: "Cirrus Ships Edge Inference", Script: script},
	}

	items := g.acceptItems(parsed, banlist, nil, "", 1)
	require.Len(t, items, 1)
	assert.Equal(t, "Borealis Opens a Quantum Lab", items[0].Title)
}

func TestAssemblePrompt_Sections(t *testing.T) {
	prompts := resolvedPrompts{
		task:        "write things",
		searchQuery: "ai news",
		context:     "we are acme",
		toneOfVoice: "casual",
	}
	docs := []FoundDoc{{Title: "Doc One", URL: "https://example.com/doc-one"}}

	prompt := assemblePrompt(prompts, docs, nil, 2)
	assert.Contains(t, prompt, "# CONTEXT\nwe are acme")
	assert.Contains(t, prompt, "# TONE OF VOICE\ncasual")
	assert.Contains(t, prompt, "# TASK\nwrite things")
	assert.Contains(t, prompt, "- Doc One — https://example.com/doc-one")
	assert.Contains(t, prompt, "array of exactly 2 objects")
}
