package providers

import "strings"

// ConfigString returns the trimmed string value for key from provider.Config or a fallback.
func ConfigString(cfg Provider, key, fallback string) string {
	if cfg.Config != nil {
		if raw, ok := cfg.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptLanguageKey = "accept_language"
	// ConfigAPIKeyParamKey overrides the query parameter carrying the API key.
	ConfigAPIKeyParamKey = "api_key_param"
	// ConfigLanguageKey adds a "lang"/"language" filter where the provider supports it.
	ConfigLanguageKey = "language"

	defaultUserAgent = "samvad-headline-relay/1.0"
)

// Headers builds the request headers for a provider call (skips empty values).
func Headers(cfg Provider) map[string]string {
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": ConfigString(cfg, ConfigUserAgentKey, defaultUserAgent),
	}
	if v := ConfigString(cfg, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}
	return headers
}
