package relay

import "time"

// FreshnessGate accepts articles published strictly after now minus Window.
type FreshnessGate struct {
	Window time.Duration
}

// Cutoff returns the oldest instant an article may not be published at.
func (g FreshnessGate) Cutoff(now time.Time) time.Time {
	return now.Add(-g.Window)
}

// Fresh reports whether publishedAt is newer than the cutoff. Equality is stale.
func (g FreshnessGate) Fresh(publishedAt, now time.Time) bool {
	return publishedAt.After(g.Cutoff(now))
}
