package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aionlabs/aion-admin/errs"
)

const tavilyEndpoint = "https://api.tavily.com/search"

type tavilyProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func newTavilyProvider(apiKey string) *tavilyProvider {
	return &tavilyProvider{
		apiKey:   apiKey,
		endpoint: tavilyEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *tavilyProvider) Name() string { return "tavily" }

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	Topic       string `json:"topic"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"published_date"`
	} `json:"results"`
}

func (p *tavilyProvider) Search(ctx context.Context, query string, limit int) ([]FoundDoc, error) {
	if limit > 20 {
		limit = 20
	}
	payload, err := json.Marshal(tavilyRequest{
		APIKey:      p.apiKey,
		Query:       query,
		Topic:       "news",
		SearchDepth: "basic",
		MaxResults:  limit,
	})
	if err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.NewSearchProviderError(p.Name(), fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}

	docs := make([]FoundDoc, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		publishedAt := r.PublishedDate
		if publishedAt == "" {
			if t := ExtractPublishedAt(r.URL); t != nil {
				publishedAt = t.Format("2006-01-02")
			}
		}
		docs = append(docs, FoundDoc{
			Title:       r.Title,
			URL:         r.URL,
			Source:      p.Name(),
			PublishedAt: publishedAt,
			Snippet:     r.Content,
		})
	}
	return docs, nil
}
