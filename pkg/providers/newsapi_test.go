package providers

import (
	"context"
	"net/url"
	"strings"
	"testing"
)

func TestNewsAPIFetcherReadsURLToImage(t *testing.T) {
	client := &mockHTTPClient{body: `{
  "status": "ok",
  "totalResults": 1,
  "articles": [{
    "source": {"id": "cnn", "name": "CNN"},
    "title": "Markets rally",
    "description": "Stocks up",
    "url": "https://cnn.example/markets",
    "urlToImage": "https://cnn.example/markets.jpg",
    "publishedAt": "2025-11-17T10:00:00Z"
  }]
}`}

	articles, err := NewNewsAPIFetcher(client).Fetch(context.Background(), Provider{
		ID:        "newsapi-us",
		Type:      ProviderTypeNewsAPI,
		SourceURL: "https://newsapi.org/v2/top-headlines",
		Country:   "us",
	}, Query{APIKey: "k"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	parsed, _ := url.Parse(client.gotURL)
	if parsed.Query().Get("apiKey") != "k" || parsed.Query().Get("country") != "us" {
		t.Fatalf("unexpected query %v", parsed.Query())
	}
	if parsed.Query().Has("from") {
		t.Fatalf("from must be omitted when Since is zero")
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].ImageURL != "https://cnn.example/markets.jpg" || articles[0].SourceName != "CNN" {
		t.Fatalf("unexpected article %+v", articles[0])
	}
}

func TestNewsAPIFetcherSurfacesErrorPayload(t *testing.T) {
	client := &mockHTTPClient{body: `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`}
	_, err := NewNewsAPIFetcher(client).Fetch(context.Background(), Provider{
		ID:        "newsapi-us",
		Type:      ProviderTypeNewsAPI,
		SourceURL: "https://newsapi.org/v2/top-headlines",
	}, Query{})
	if err == nil || !strings.Contains(err.Error(), "apiKeyInvalid") {
		t.Fatalf("expected error payload in error, got %v", err)
	}
}

func TestBuildRequestURLHonoursKeyParamOverride(t *testing.T) {
	got, err := buildRequestURL(Provider{
		ID:        "p",
		SourceURL: "https://example.com/api?category=general",
		Config:    map[string]any{ConfigAPIKeyParamKey: "token"},
	}, Query{APIKey: "abc"}, "apikey", nil)
	if err != nil {
		t.Fatalf("buildRequestURL: %v", err)
	}
	parsed, _ := url.Parse(got)
	if parsed.Query().Get("token") != "abc" || parsed.Query().Get("category") != "general" {
		t.Fatalf("unexpected url %s", got)
	}
}
