package domain

import "time"

// Article is a single headline candidate normalised from a provider response.
type Article struct {
	ID          string
	ProviderID  string
	Title       string
	Description string
	URL         string
	ImageURL    string
	SourceName  string
	PublishedAt time.Time
}

// HasImage reports whether the article carries an image worth relaying.
func (a Article) HasImage() bool { return a.ImageURL != "" }

// Post is a post created on the destination application.
type Post struct {
	ID        string
	Text      string
	Assets    []string
	ReplyToID string
}
