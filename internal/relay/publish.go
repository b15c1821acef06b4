package relay

import (
	"context"
	"errors"
	"strings"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
)

// Poster creates posts on the destination application.
type Poster interface {
	CreatePost(ctx context.Context, text string, assets []string) (string, error)
	CreateReply(ctx context.Context, text, replyToID string) (string, error)
}

// Publisher runs the two-step publish: the headline post, then a reply carrying the link.
type Publisher struct {
	poster   Poster
	maxChars int
}

// NewPublisher returns a Publisher truncating post text to maxChars runes.
func NewPublisher(poster Poster, maxChars int) (*Publisher, error) {
	if poster == nil {
		return nil, errors.New("publisher poster is nil")
	}
	if maxChars <= 0 {
		maxChars = DefaultPostMaxChars
	}
	return &Publisher{poster: poster, maxChars: maxChars}, nil
}

// Publish creates the primary post and its link reply. The reply is only attempted once
// the primary post id is known. When the reply fails the primary post is still returned so
// callers can report the orphan.
func (p *Publisher) Publish(ctx context.Context, art domain.Article, assetID string) (*domain.Post, *domain.Post, error) {
	assets := []string{}
	if assetID != "" {
		assets = append(assets, assetID)
	}

	text := ComposeText(PlainText(art.Title), PlainText(art.Description), p.maxChars)
	primaryID, err := p.poster.CreatePost(ctx, text, assets)
	if err != nil {
		return nil, nil, stageErr(StagePrimaryPost, err)
	}
	primary := &domain.Post{ID: primaryID, Text: text, Assets: assets}

	link := strings.TrimSpace(art.URL)
	replyID, err := p.poster.CreateReply(ctx, link, primaryID)
	if err != nil {
		return primary, nil, stageErr(StageReplyPost, err)
	}
	reply := &domain.Post{ID: replyID, Text: link, ReplyToID: primaryID}

	return primary, reply, nil
}
