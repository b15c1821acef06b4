package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
)

// Select reduces a provider's ordered result to at most one candidate according to its
// selection policy.
func Select(cfg Provider, articles []domain.Article) (domain.Article, bool) {
	for _, art := range articles {
		switch cfg.Selection {
		case SelectSource:
			if strings.TrimSpace(art.SourceName) == cfg.SourceName {
				return art, true
			}
		default:
			return art, true
		}
	}
	return domain.Article{}, false
}

// Source binds a provider, its fetcher and credentials into the article source used by one
// relay invocation.
type Source struct {
	provider Provider
	fetcher  Fetcher
	apiKey   string
}

// NewSource resolves the fetcher for p and returns a ready Source.
func NewSource(p Provider, reg FetcherRegistry, apiKey string) (*Source, error) {
	if reg == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	fetcher, err := reg.FetcherFor(p)
	if err != nil {
		return nil, err
	}
	return &Source{provider: p, fetcher: fetcher, apiKey: apiKey}, nil
}

// ProviderID returns the id of the bound provider.
func (s *Source) ProviderID() string { return s.provider.ID }

// Latest fetches candidates published after since and returns the selected one, if any.
func (s *Source) Latest(ctx context.Context, since time.Time) (domain.Article, bool, error) {
	articles, err := s.fetcher.Fetch(ctx, s.provider, Query{APIKey: s.apiKey, Since: since})
	if err != nil {
		return domain.Article{}, false, err
	}
	art, ok := Select(s.provider, articles)
	return art, ok, nil
}
