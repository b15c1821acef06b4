package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
)

// newsAPIFetcher reads the NewsAPI.org v2 response shape, where the image lives in urlToImage.
type newsAPIFetcher struct {
	client HTTPClient
}

// NewNewsAPIFetcher builds a fetcher for NewsAPI-compatible endpoints.
func NewNewsAPIFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &newsAPIFetcher{client: client}
}

func (f *newsAPIFetcher) Type() string { return ProviderTypeNewsAPI }

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

func (f *newsAPIFetcher) Fetch(ctx context.Context, cfg Provider, q Query) ([]domain.Article, error) {
	if !strings.EqualFold(cfg.Type, ProviderTypeNewsAPI) {
		return nil, fmt.Errorf("newsapi fetcher received incompatible provider type %q", cfg.Type)
	}

	requestURL, err := buildRequestURL(cfg, q, "apiKey", nil)
	if err != nil {
		return nil, err
	}

	body, err := fetchJSON(ctx, f.client, requestURL, cfg)
	if err != nil {
		return nil, err
	}

	var payload newsAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", cfg.ID, err)
	}
	if strings.EqualFold(payload.Status, "error") {
		return nil, fmt.Errorf("%s returned error %s: %s", cfg.ID, payload.Code, payload.Message)
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
			ImageURL:    strings.TrimSpace(item.URLToImage),
			SourceName:  strings.TrimSpace(item.Source.Name),
			PublishedAt: parsePublishedAt(item.PublishedAt),
		})
	}
	return articles, nil
}
