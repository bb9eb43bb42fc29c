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

const serperEndpoint = "https://google.serper.dev/news"

type serperProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func newSerperProvider(apiKey string) *serperProvider {
	return &serperProvider{
		apiKey:   apiKey,
		endpoint: serperEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *serperProvider) Name() string { return "serper" }

type serperResponse struct {
	News []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Source  string `json:"source"`
		Date    string `json:"date"`
		Snippet string `json:"snippet"`
	} `json:"news"`
}

func (p *serperProvider) Search(ctx context.Context, query string, limit int) ([]FoundDoc, error) {
	payload, err := json.Marshal(map[string]any{"q": query, "num": limit})
	if err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.NewSearchProviderError(p.Name(), fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errs.NewSearchProviderError(p.Name(), err)
	}

	docs := make([]FoundDoc, 0, len(parsed.News))
	for _, r := range parsed.News {
		docs = append(docs, FoundDoc{
			Title:       r.Title,
			URL:         r.Link,
			Source:      r.Source,
			PublishedAt: r.Date,
			Snippet:     r.Snippet,
		})
	}
	return docs, nil
}
