package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aionlabs/aion-admin/errs"
)

const newsAPIEndpoint = "https://newsapi.org/v2/everything"

type newsAPIProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func newNewsAPIProvider(apiKey string) *newsAPIProvider {
	return &newsAPIProvider{
		apiKey:   apiKey,
		endpoint: newsAPIEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *newsAPIProvider) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
		Description string `json:"description"`
	} `json:"articles"`
}

func (p *newsAPIProvider) Search(ctx context.Context, query string, limit int) ([]FoundDoc, error) {
	if limit > 100 {
		limit = 100
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.NewSearchProviderError(p.Name(), fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}
	if parsed.Status != "ok" {
		return nil, errs.NewSearchProviderError(p.Name(), fmt.Errorf("response status %q", parsed.Status))
	}

	docs := make([]FoundDoc, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		docs = append(docs, FoundDoc{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Snippet:     a.Description,
		})
	}
	return docs, nil
}
