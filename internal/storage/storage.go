package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which articles were already posted so overlapping or repeated
// invocations don't publish the same headline twice.

// Store tracks posted article IDs and the primary post each one produced.
type Store interface {
	Close() error
	SeenArticle(id string) (bool, error)
	MarkArticle(id, postID string) error
	// PostFor returns the primary post id recorded for an article, if any.
	PostFor(id string) (string, bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ArticleTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultArticleTTL      = 48 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ArticleTTL <= 0 {
		opts.ArticleTTL = defaultArticleTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                         { return nil }
func (noopStore) SeenArticle(string) (bool, error)     { return false, nil }
func (noopStore) MarkArticle(string, string) error     { return nil }
func (noopStore) PostFor(string) (string, bool, error) { return "", false, nil }
