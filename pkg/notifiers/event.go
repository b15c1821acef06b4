package notifiers

import (
	"time"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
)

// Event is the outcome record sent to every configured sink.
type Event struct {
	ProviderID   string    `json:"provider_id"`
	Status       string    `json:"status"`
	StatusCode   int       `json:"status_code"`
	Reason       string    `json:"reason,omitempty"`
	Stage        string    `json:"stage,omitempty"`
	ArticleID    string    `json:"article_id,omitempty"`
	ArticleURL   string    `json:"article_url,omitempty"`
	ArticleTitle string    `json:"article_title,omitempty"`
	AssetID      string    `json:"asset_id,omitempty"`
	PostID       string    `json:"post_id,omitempty"`
	ReplyID      string    `json:"reply_id,omitempty"`
	Orphaned     bool      `json:"orphaned"`
	Error        string    `json:"error,omitempty"`
	ElapsedMs    int64     `json:"elapsed_ms"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewEvent flattens an outcome into an Event.
func NewEvent(out domain.Outcome) Event {
	evt := Event{
		ProviderID: out.ProviderID,
		Status:     string(out.Status),
		StatusCode: out.StatusCode(),
		Reason:     out.Reason,
		Stage:      out.Stage,
		AssetID:    out.AssetID,
		Orphaned:   out.Orphaned,
		ElapsedMs:  out.Elapsed.Milliseconds(),
		OccurredAt: time.Now().UTC(),
	}
	if out.Article != nil {
		evt.ArticleID = out.Article.ID
		evt.ArticleURL = out.Article.URL
		evt.ArticleTitle = out.Article.Title
	}
	if out.Primary != nil {
		evt.PostID = out.Primary.ID
	}
	if out.Reply != nil {
		evt.ReplyID = out.Reply.ID
	}
	if out.Err != nil && out.Status == domain.OutcomeFailed {
		evt.Error = out.Err.Error()
	}
	return evt
}
