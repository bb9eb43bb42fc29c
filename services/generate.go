package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aionlabs/aion-admin/config"
	"github.com/aionlabs/aion-admin/database"
	"github.com/aionlabs/aion-admin/errs"
	"github.com/aionlabs/aion-admin/models"
)

const defaultTaskPrompt = "You are a content writer for a technology company. " +
	"Write short, engaging posts about recent industry news. Each post needs a punchy title " +
	"and a script of at least a few paragraphs that a reader with no prior context can follow."

const (
	defaultGenerateCount    = 5
	maxGenerateCount        = 10
	defaultMaxContextTitles = 200
)

// NewsSearcher is the search fan-out the pipeline depends on.
type NewsSearcher interface {
	Search(ctx context.Context, query string, limit int, exclude ExcludeSet) []FoundDoc
}

// GenerateRequest carries the caller's overrides. Empty fields fall back to
// page/pillar-scoped settings, then global settings, then built-in defaults.
type GenerateRequest struct {
	Count              int
	Prompt             string
	SearchQuery        string
	ContextPrompt      string
	ToneOfVoicePrompt  string
	Company            string
	PillarID           *uuid.UUID
	PageID             *uuid.UUID
	NoSearch           bool
	ExcludeUsedDomains bool
}

// ScriptText tolerates the shapes models actually emit for a "script"
// field: a plain string, an array of paragraphs, or an object of named
// sections. Arrays join in order; object values join by sorted key.
type ScriptText string

func (s *ScriptText) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = ScriptText(str)
		return nil
	}

	var parts []string
	if err := json.Unmarshal(data, &parts); err == nil {
		*s = ScriptText(strings.Join(parts, "\n\n"))
		return nil
	}

	var sections map[string]string
	if err := json.Unmarshal(data, &sections); err == nil {
		keys := make([]string, 0, len(sections))
		for k := range sections {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		joined := make([]string, 0, len(keys))
		for _, k := range keys {
			joined = append(joined, sections[k])
		}
		*s = ScriptText(strings.Join(joined, "\n\n"))
		return nil
	}

	return fmt.Errorf("script: unsupported JSON shape")
}

// GeneratedItem is one validated item out of the model.
type GeneratedItem struct {
	Title       string     `json:"title" validate:"required,min=10"`
	Script      ScriptText `json:"script" validate:"required,min=200"`
	Company     *string    `json:"company,omitempty"`
	Sources     []string   `json:"sources,omitempty"`
	NoveltyNote *string    `json:"noveltyNote,omitempty"`
	Confidence  *float64   `json:"confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// GenerateResult is the pipeline output: accepted items plus the raw
// search documents for downstream date extraction and URL matching.
type GenerateResult struct {
	Items []GeneratedItem `json:"items"`
	Docs  []FoundDoc      `json:"docs"`
}

// Generator orchestrates search grounding, prompt assembly, the LLM call,
// parsing, validation and dedupe.
type Generator struct {
	db               database.Database
	llm              TextGenerator
	search           NewsSearcher
	validate         *validator.Validate
	threshold        float64
	defaultCount     int
	excludeRejected  bool
	maxContextTitles int
	logger           zerolog.Logger
}

func NewGenerator(db database.Database, llm TextGenerator, search NewsSearcher, cfg map[string]string) *Generator {
	return &Generator{
		db:               db,
		llm:              llm,
		search:           search,
		validate:         validator.New(),
		threshold:        config.GetFloat(cfg, "SIMILARITY_THRESHOLD", DefaultSimilarityThreshold),
		defaultCount:     config.GetInt(cfg, "GENERATE_N", defaultGenerateCount),
		excludeRejected:  config.GetBool(cfg, "EXCLUDE_REJECTED", false),
		maxContextTitles: config.GetInt(cfg, "MAX_CONTEXT_TITLES", defaultMaxContextTitles),
		logger:           log.With().Str("service", "generator").Logger(),
	}
}

func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	n := resolveCount(req.Count, g.defaultCount)

	prompts, err := g.resolvePrompts(req)
	if err != nil {
		return nil, err
	}

	banlist, err := g.loadBanlist()
	if err != nil {
		return nil, err
	}

	docs := g.searchDocs(ctx, req, prompts.searchQuery, n)

	fullPrompt := assemblePrompt(prompts, docs, banlist, n)

	raw, err := g.llm.Generate(ctx, fullPrompt)
	if err != nil {
		return nil, errs.NewInternalError(fmt.Sprintf("llm generate: %v", err))
	}

	parsed, err := parseGeneratedItems(raw)
	if err != nil {
		return nil, err
	}

	items := g.acceptItems(parsed, banlist, docs, req.Company, n)

	return &GenerateResult{Items: items, Docs: docs}, nil
}

// resolveCount applies the configured default and the hard ceiling.
func resolveCount(requested, configured int) int {
	n := requested
	if n <= 0 {
		n = configured
	}
	if n <= 0 {
		n = defaultGenerateCount
	}
	if n > maxGenerateCount {
		n = maxGenerateCount
	}
	return n
}

// acceptItems validates parsed items and filters duplicates against the
// banlist and against items already accepted in this batch, up to n.
func (g *Generator) acceptItems(parsed []GeneratedItem, banlist []database.BanlistEntry, docs []FoundDoc, company string, n int) []GeneratedItem {
	docURLs := make(map[string]struct{}, len(docs))
	orderedDocURLs := make([]string, 0, len(docs))
	for _, doc := range docs {
		if _, ok := docURLs[doc.URL]; !ok {
			docURLs[doc.URL] = struct{}{}
			orderedDocURLs = append(orderedDocURLs, doc.URL)
		}
	}

	existingTitles := make([]string, 0, len(banlist))
	existingSlugs := make(map[string]struct{}, len(banlist))
	for _, entry := range banlist {
		existingTitles = append(existingTitles, entry.Title)
		slug := entry.TitleSlug
		if slug == "" {
			slug = Slugify(entry.Title)
		}
		if slug != "" {
			existingSlugs[slug] = struct{}{}
		}
	}

	items := make([]GeneratedItem, 0, len(parsed))
	for _, item := range parsed {
		if err := g.validate.Struct(item); err != nil {
			g.logger.Warn().Err(err).Str("title", item.Title).Msg("dropping item that failed validation")
			continue
		}

		slug := Slugify(item.Title)
		if _, taken := existingSlugs[slug]; slug != "" && taken {
			g.logger.Debug().Str("title", item.Title).Msg("dropping slug-collision duplicate")
			continue
		}
		if IsDuplicate(item.Title, existingTitles, g.threshold) {
			g.logger.Debug().Str("title", item.Title).Msg("dropping fuzzy duplicate")
			continue
		}

		item.Sources = verifiedSources(item.Sources, docURLs, orderedDocURLs)
		if item.Company == nil && company != "" {
			c := company
			item.Company = &c
		}

		items = append(items, item)
		existingTitles = append(existingTitles, item.Title)
		if slug != "" {
			existingSlugs[slug] = struct{}{}
		}
		if len(items) >= n {
			break
		}
	}

	return items
}

type resolvedPrompts struct {
	task        string
	searchQuery string
	context     string
	toneOfVoice string
}

// pageOverrides are the Page row's own generation columns.
type pageOverrides struct {
	prompt      string
	searchQuery string
}

func (g *Generator) resolvePrompts(req GenerateRequest) (resolvedPrompts, error) {
	keys := []string{
		models.SettingPrompt,
		models.SettingSearchQuery,
		models.SettingContext,
		models.SettingToneOfVoice,
	}
	if req.PillarID != nil {
		keys = append(keys,
			models.PillarPromptKey(*req.PillarID),
			models.PillarSearchKey(*req.PillarID),
			models.PillarContextKey(*req.PillarID),
			models.PillarToneOfVoiceKey(*req.PillarID),
		)
	}

	settings, err := g.db.SettingRepo().GetMany(keys)
	if err != nil {
		return resolvedPrompts{}, err
	}

	var page pageOverrides
	if req.PageID != nil {
		row, err := g.db.PageRepo().FindByID(*req.PageID)
		if err != nil {
			return resolvedPrompts{}, err
		}
		if row.Prompt != nil {
			page.prompt = *row.Prompt
		}
		if row.SearchQuery != nil {
			page.searchQuery = *row.SearchQuery
		}
	}

	return resolvePromptsFrom(req, settings, page), nil
}

// resolvePromptsFrom applies the override chain: request field, then the
// pillar-scoped setting, then the Page row's own columns, then the global
// setting, then the built-in default.
func resolvePromptsFrom(req GenerateRequest, settings map[string]string, page pageOverrides) resolvedPrompts {
	pick := func(override string, scopedKey, pageValue, globalKey, fallback string) string {
		if override != "" {
			return override
		}
		if scopedKey != "" {
			if v := settings[scopedKey]; v != "" {
				return v
			}
		}
		if pageValue != "" {
			return pageValue
		}
		if v := settings[globalKey]; v != "" {
			return v
		}
		return fallback
	}

	var promptKey, searchKey, contextKey, tovKey string
	if req.PillarID != nil {
		promptKey = models.PillarPromptKey(*req.PillarID)
		searchKey = models.PillarSearchKey(*req.PillarID)
		contextKey = models.PillarContextKey(*req.PillarID)
		tovKey = models.PillarToneOfVoiceKey(*req.PillarID)
	}

	return resolvedPrompts{
		task:        pick(req.Prompt, promptKey, page.prompt, models.SettingPrompt, defaultTaskPrompt),
		searchQuery: pick(req.SearchQuery, searchKey, page.searchQuery, models.SettingSearchQuery, ""),
		context:     pick(req.ContextPrompt, contextKey, "", models.SettingContext, ""),
		toneOfVoice: pick(req.ToneOfVoicePrompt, tovKey, "", models.SettingToneOfVoice, ""),
	}
}

// banlistStatuses selects which story statuses feed the banlist:
// published always, rejected only when the operator opted in.
func banlistStatuses(excludeRejected bool) []models.StoryStatus {
	statuses := []models.StoryStatus{models.StoryPublished}
	if excludeRejected {
		statuses = append(statuses, models.StoryRejected)
	}
	return statuses
}

func (g *Generator) loadBanlist() ([]database.BanlistEntry, error) {
	entries, err := g.db.StoryRepo().FindBanlist(banlistStatuses(g.excludeRejected))
	if err != nil {
		return nil, err
	}

	posts, err := g.db.PostRepo().AllTitles()
	if err != nil {
		return nil, err
	}
	for _, title := range posts {
		entries = append(entries, database.BanlistEntry{Title: title})
	}

	return capBanlist(entries, g.maxContextTitles), nil
}

// capBanlist bounds the titles fed into the prompt so the banlist block
// cannot grow without limit as content accumulates.
func capBanlist(entries []database.BanlistEntry, max int) []database.BanlistEntry {
	if max > 0 && len(entries) > max {
		return entries[:max]
	}
	return entries
}

func (g *Generator) searchDocs(ctx context.Context, req GenerateRequest, query string, n int) []FoundDoc {
	if query == "" || req.NoSearch || g.search == nil {
		return nil
	}

	limit := n * 6
	if limit < 5 {
		limit = 5
	}
	if limit > 30 {
		limit = 30
	}

	used, err := g.db.PostRepo().AllSourceURLs()
	if err != nil {
		g.logger.Warn().Err(err).Msg("could not load used source urls, searching without exclusions")
		used = nil
	}

	return g.search.Search(ctx, query, limit, NewExcludeSet(used, req.ExcludeUsedDomains))
}

func assemblePrompt(prompts resolvedPrompts, docs []FoundDoc, banlist []database.BanlistEntry, n int) string {
	var sections []string

	if prompts.context != "" {
		sections = append(sections, "# CONTEXT\n"+prompts.context)
	}
	if prompts.toneOfVoice != "" {
		sections = append(sections, "# TONE OF VOICE\n"+prompts.toneOfVoice)
	}
	sections = append(sections, "# TASK\n"+prompts.task)

	if prompts.searchQuery != "" {
		sections = append(sections, "Search topic: "+prompts.searchQuery)
	}

	if len(docs) > 0 {
		lines := make([]string, 0, len(docs)+1)
		lines = append(lines, "Candidate sources, ground every item in one or more of these:")
		for _, doc := range docs {
			lines = append(lines, fmt.Sprintf("- %s — %s", doc.Title, doc.URL))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(banlist) > 0 {
		lines := make([]string, 0, len(banlist)+1)
		lines = append(lines, "Do not repeat or rephrase any of these existing titles:")
		for _, entry := range banlist {
			lines = append(lines, "- "+entry.Title)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	sections = append(sections, fmt.Sprintf(
		"Return ONLY valid JSON: an array of exactly %d objects, each with fields "+
			`"title" (string), "script" (string), "company" (string, optional), `+
			`"sources" (array of URLs from the candidate sources, max 3), `+
			`"noveltyNote" (string, optional) and "confidence" (number between 0 and 1, optional). `+
			"No markdown fences, no commentary.", n))

	return strings.Join(sections, "\n\n")
}

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// parseGeneratedItems coerces a model response into items, trying a direct
// parse, then a fenced code block, then the largest brace- or
// bracket-delimited substring.
func parseGeneratedItems(raw string) ([]GeneratedItem, error) {
	trimmed := strings.TrimSpace(raw)

	if items, err := decodeItems(trimmed); err == nil {
		return items, nil
	}

	if m := fencedBlockPattern.FindStringSubmatch(trimmed); m != nil {
		if items, err := decodeItems(strings.TrimSpace(m[1])); err == nil {
			return items, nil
		}
	}

	if candidate := largestDelimitedSubstring(trimmed); candidate != "" {
		if items, err := decodeItems(candidate); err == nil {
			return items, nil
		}
	}

	return nil, errs.NewLLMOutputError(errors.New("response is not valid JSON after all parse strategies"))
}

// decodeItems accepts either a bare array or an object wrapping one under
// an "items" key.
func decodeItems(s string) ([]GeneratedItem, error) {
	var items []GeneratedItem
	if err := json.Unmarshal([]byte(s), &items); err == nil {
		return items, nil
	}

	var wrapper struct {
		Items []GeneratedItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(s), &wrapper); err == nil && wrapper.Items != nil {
		return wrapper.Items, nil
	}

	var single GeneratedItem
	if err := json.Unmarshal([]byte(s), &single); err == nil && single.Title != "" {
		return []GeneratedItem{single}, nil
	}

	return nil, errors.New("not decodable as items")
}

// largestDelimitedSubstring returns the longest substring spanning from
// the first [ or { to the matching last ] or }.
func largestDelimitedSubstring(s string) string {
	best := ""
	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(s, pair[0])
		end := strings.LastIndex(s, pair[1])
		if start >= 0 && end > start {
			candidate := s[start : end+1]
			if len(candidate) > len(best) {
				best = candidate
			}
		}
	}
	return best
}

// verifiedSources keeps only model-cited URLs that the search provider
// actually returned; when the model invented all of them, the first
// provider documents stand in. No search means no sources.
func verifiedSources(cited []string, docURLs map[string]struct{}, ordered []string) []string {
	if len(docURLs) == 0 {
		return nil
	}

	verified := make([]string, 0, models.MaxStorySources)
	for _, u := range cited {
		if _, ok := docURLs[u]; ok {
			verified = append(verified, u)
			if len(verified) >= models.MaxStorySources {
				return verified
			}
		}
	}
	if len(verified) > 0 {
		return verified
	}

	for _, u := range ordered {
		verified = append(verified, u)
		if len(verified) >= models.MaxStorySources {
			break
		}
	}
	return verified
}
