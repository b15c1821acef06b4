package providers

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
	"github.com/samvad-hq/samvad-headline-relay/pkg/httpclient"
)

// Query carries the per-invocation inputs of a provider request.
type Query struct {
	APIKey string
	// Since, when non-zero, is sent as the provider's "from" filter.
	Since time.Time
}

// Fetcher retrieves the ordered candidate list for a provider and normalises it.
type Fetcher interface {
	Type() string
	Fetch(ctx context.Context, cfg Provider, q Query) ([]domain.Article, error)
}

// FetcherRegistry resolves the fetcher implementation for a given provider config.
type FetcherRegistry interface {
	FetcherFor(cfg Provider) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within providers.
type HTTPClient = httpclient.Client
