package providers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-headline-relay/pkg/httpclient"
)

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

// mockHTTPClient records the last GET and returns a canned response.
type mockHTTPClient struct {
	status  int
	body    string
	gotURL  string
	headers map[string]string
}

func (m *mockHTTPClient) Get(_ context.Context, u string, headers map[string]string) (httpclient.Response, error) {
	m.gotURL = u
	m.headers = headers
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	return mockResponse{body: []byte(m.body), statusCode: status}, nil
}

func (m *mockHTTPClient) Post(context.Context, string, map[string]string, any) (httpclient.Response, error) {
	panic("unexpected POST from provider fetcher")
}

func (m *mockHTTPClient) PostMultipart(context.Context, string, map[string]string, map[string]string, []httpclient.FormFile) (httpclient.Response, error) {
	panic("unexpected multipart POST from provider fetcher")
}

const gnewsBody = `{
  "totalArticles": 2,
  "articles": [
    {
      "title": "Headline A",
      "description": "Body A",
      "url": "https://news.example/a",
      "image": "https://img.example/a.jpg",
      "publishedAt": "2025-11-17T10:00:00Z",
      "source": {"name": "NHK", "url": "https://www3.nhk.or.jp"}
    },
    {
      "title": "Headline B",
      "description": "",
      "url": "https://news.example/b",
      "image": null,
      "publishedAt": "not-a-date",
      "source": {"name": "Asahi"}
    },
    {"title": "no url", "url": "  "}
  ]
}`

func TestGNewsFetcherBuildsQueryAndNormalises(t *testing.T) {
	client := &mockHTTPClient{body: gnewsBody}
	fetcher := NewGNewsFetcher(client)

	since := time.Date(2025, time.November, 17, 9, 0, 0, 123, time.FixedZone("JST", 9*3600))
	articles, err := fetcher.Fetch(context.Background(), Provider{
		ID:        "gnews-jp",
		Type:      ProviderTypeGNews,
		SourceURL: "https://gnews.io/api/v4/top-headlines",
		Country:   "jp",
		Config:    map[string]any{ConfigLanguageKey: "ja"},
	}, Query{APIKey: "secret", Since: since})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	parsed, err := url.Parse(client.gotURL)
	if err != nil {
		t.Fatalf("parse request url: %v", err)
	}
	q := parsed.Query()
	if q.Get("country") != "jp" || q.Get("apikey") != "secret" || q.Get("lang") != "ja" {
		t.Fatalf("unexpected query %v", q)
	}
	if q.Get("from") != "2025-11-17T00:00:00Z" {
		t.Fatalf("from = %q", q.Get("from"))
	}
	if client.headers["Accept"] != "application/json" {
		t.Fatalf("missing Accept header: %#v", client.headers)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (blank url dropped), got %d", len(articles))
	}
	a := articles[0]
	if a.Title != "Headline A" || a.ImageURL != "https://img.example/a.jpg" || a.SourceName != "NHK" {
		t.Fatalf("unexpected article %+v", a)
	}
	if !a.PublishedAt.Equal(time.Date(2025, time.November, 17, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("PublishedAt = %v", a.PublishedAt)
	}
	if a.ID != HashURL("https://news.example/a") || a.ProviderID != "gnews-jp" {
		t.Fatalf("unexpected id/provider %q/%q", a.ID, a.ProviderID)
	}
	if articles[1].ImageURL != "" || !articles[1].PublishedAt.IsZero() {
		t.Fatalf("expected no image and zero time, got %+v", articles[1])
	}
}

func TestGNewsFetcherFailsOnNon2xx(t *testing.T) {
	client := &mockHTTPClient{status: http.StatusForbidden, body: `{"errors":["quota"]}`}
	_, err := NewGNewsFetcher(client).Fetch(context.Background(), Provider{
		ID:        "gnews-jp",
		Type:      ProviderTypeGNews,
		SourceURL: "https://gnews.io/api/v4/top-headlines",
	}, Query{APIKey: "secret"})
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("expected status error, got %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestGNewsFetcherRejectsIncompatibleType(t *testing.T) {
	_, err := NewGNewsFetcher(&mockHTTPClient{}).Fetch(context.Background(), Provider{ID: "x", Type: ProviderTypeNewsAPI}, Query{})
	if err == nil {
		t.Fatal("expected error for mismatched provider type")
	}
}

func TestParsePublishedAt(t *testing.T) {
	if got := parsePublishedAt("2024-01-01T09:00:00+09:00"); !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("offset timestamp parsed as %v", got)
	}
	if got := parsePublishedAt("garbage"); !got.IsZero() {
		t.Errorf("expected zero time on invalid input, got %v", got)
	}
	if resp := responseSnippet(make([]byte, 600)); len(resp) == 0 {
		t.Errorf("expected truncated response snippet")
	}
}
