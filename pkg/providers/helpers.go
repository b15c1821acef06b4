package providers

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-headline-relay/pkg/httpclient"
)

// fromLayout is the "from" filter format: seconds precision, UTC, literal Z.
const fromLayout = "2006-01-02T15:04:05Z"

// HashURL derives a stable article id from its URL.
func HashURL(u string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(u)))
	return hex.EncodeToString(sum[:])
}

// FormatSince renders t the way provider "from" filters expect it.
func FormatSince(t time.Time) string {
	return t.UTC().Format(fromLayout)
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// parsePublishedAt returns the zero time on malformed input, which the freshness gate rejects.
func parsePublishedAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// buildRequestURL adds the common query parameters to the provider's source URL.
func buildRequestURL(cfg Provider, q Query, keyParam string, extra map[string]string) (string, error) {
	parsed, err := url.Parse(cfg.SourceURL)
	if err != nil {
		return "", fmt.Errorf("parse %s source_url: %w", cfg.ID, err)
	}

	values := parsed.Query()
	if cfg.Country != "" {
		values.Set("country", cfg.Country)
	}
	if !q.Since.IsZero() {
		values.Set("from", FormatSince(q.Since))
	}
	if q.APIKey != "" {
		values.Set(ConfigString(cfg, ConfigAPIKeyParamKey, keyParam), q.APIKey)
	}
	for k, v := range extra {
		if v != "" {
			values.Set(k, v)
		}
	}
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

// fetchJSON performs the provider GET and fails loudly on a non-2xx status. The request URL
// carries the API key, so only the provider id is used in error messages.
func fetchJSON(ctx context.Context, client httpclient.Client, requestURL string, cfg Provider) ([]byte, error) {
	resp, err := client.Get(ctx, requestURL, Headers(cfg))
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("fetch %s articles: %w", cfg.ID, err)
	}

	body := resp.Body()
	if !httpclient.IsSuccess(resp) {
		return nil, fmt.Errorf("%s returned status %d body: %s", cfg.ID, resp.StatusCode(), responseSnippet(body))
	}
	return body, nil
}
