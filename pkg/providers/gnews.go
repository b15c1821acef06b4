package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
)

// gnewsFetcher reads the GNews v4 top-headlines/search response shape.
type gnewsFetcher struct {
	client HTTPClient
}

// NewGNewsFetcher builds a fetcher for GNews-compatible endpoints.
func NewGNewsFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &gnewsFetcher{client: client}
}

func (f *gnewsFetcher) Type() string { return ProviderTypeGNews }

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

func (f *gnewsFetcher) Fetch(ctx context.Context, cfg Provider, q Query) ([]domain.Article, error) {
	if !strings.EqualFold(cfg.Type, ProviderTypeGNews) {
		return nil, fmt.Errorf("gnews fetcher received incompatible provider type %q", cfg.Type)
	}

	requestURL, err := buildRequestURL(cfg, q, "apikey", map[string]string{
		"lang": ConfigString(cfg, ConfigLanguageKey, ""),
	})
	if err != nil {
		return nil, err
	}

	body, err := fetchJSON(ctx, f.client, requestURL, cfg)
	if err != nil {
		return nil, err
	}

	var payload gnewsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", cfg.ID, err)
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		link := strings.TrimSpace(item.URL)
		if link == "" {
			continue
		}
		articles = append(articles, domain.Article{
			ID:          HashURL(link),
			ProviderID:  cfg.ID,
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			URL:         link,
			ImageURL:    strings.TrimSpace(item.Image),
			SourceName:  strings.TrimSpace(item.Source.Name),
			PublishedAt: parsePublishedAt(item.PublishedAt),
		})
	}
	return articles, nil
}
