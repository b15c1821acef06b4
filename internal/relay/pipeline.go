package relay

import (
	"context"
	"errors"
	"time"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
	"github.com/samvad-hq/samvad-headline-relay/internal/logger"
)

// ArticleSource yields at most one selected candidate published after since.
type ArticleSource interface {
	ProviderID() string
	Latest(ctx context.Context, since time.Time) (domain.Article, bool, error)
}

// ImageStage turns an article image into an asset id.
type ImageStage interface {
	Relay(ctx context.Context, art domain.Article) (string, error)
}

// Deduper remembers articles that already have a primary post.
type Deduper interface {
	SeenArticle(id string) (bool, error)
	MarkArticle(id, postID string) error
}

// Pipeline runs one invocation: fetch, gate, image, publish.
type Pipeline struct {
	source    ArticleSource
	gate      FreshnessGate
	images    ImageStage
	publisher *Publisher
	dedupe    Deduper
	log       logger.Logger
	now       func() time.Time
}

// PipelineOption tweaks a Pipeline.
type PipelineOption func(*Pipeline)

// WithDeduper enables the duplicate-post guard.
func WithDeduper(d Deduper) PipelineOption {
	return func(p *Pipeline) { p.dedupe = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(log logger.Logger) PipelineOption {
	return func(p *Pipeline) { p.log = logger.Ensure(log) }
}

// NewPipeline wires the stages. images may be nil to always post text only.
func NewPipeline(source ArticleSource, gate FreshnessGate, images ImageStage, publisher *Publisher, opts ...PipelineOption) (*Pipeline, error) {
	if source == nil {
		return nil, errors.New("pipeline source is nil")
	}
	if publisher == nil {
		return nil, errors.New("pipeline publisher is nil")
	}
	if gate.Window <= 0 {
		return nil, errors.New("freshness window must be positive")
	}
	p := &Pipeline{
		source:    source,
		gate:      gate,
		images:    images,
		publisher: publisher,
		log:       logger.NopLogger{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes a single invocation and returns its outcome. It never retries.
func (p *Pipeline) Run(ctx context.Context) domain.Outcome {
	started := p.now()
	out := p.run(ctx, started)
	out.Elapsed = p.now().Sub(started)
	return out
}

func (p *Pipeline) run(ctx context.Context, started time.Time) domain.Outcome {
	out := domain.Outcome{ProviderID: p.source.ProviderID(), StartedAt: started}

	cutoff := p.gate.Cutoff(started)
	art, ok, err := p.source.Latest(ctx, cutoff)
	if err != nil {
		return p.fail(out, stageErr(StageSourceFetch, err))
	}
	if !ok {
		return skip(out, domain.ReasonNoCandidate, ErrNoCandidate)
	}
	out.Article = &art

	if !p.gate.Fresh(art.PublishedAt, started) {
		p.log.DebugObj("candidate is stale", "relay_stale", map[string]any{
			"provider_id":  out.ProviderID,
			"published_at": art.PublishedAt,
			"cutoff":       cutoff,
		})
		return skip(out, domain.ReasonStale, ErrStale)
	}

	if p.dedupe != nil {
		seen, err := p.dedupe.SeenArticle(art.ID)
		if err != nil {
			p.log.WarnObj("dedupe lookup failed, continuing", "relay_dedupe_error", map[string]any{
				"provider_id": out.ProviderID,
				"article_id":  art.ID,
				"error":       err.Error(),
			})
		} else if seen {
			p.logDuplicate(out.ProviderID, art.ID)
			return skip(out, domain.ReasonDuplicate, ErrDuplicate)
		}
	}

	if p.images != nil {
		assetID, err := p.images.Relay(ctx, art)
		if err != nil {
			return p.fail(out, stageErr(StageImageUpload, err))
		}
		out.AssetID = assetID
	}

	primary, reply, err := p.publisher.Publish(ctx, art, out.AssetID)
	out.Primary = primary
	out.Reply = reply
	if primary != nil {
		p.mark(art.ID, primary.ID)
	}
	if err != nil {
		if primary != nil {
			out.Orphaned = true
		}
		return p.fail(out, err)
	}

	out.Status = domain.OutcomePosted
	return out
}

func (p *Pipeline) logDuplicate(providerID, articleID string) {
	fields := map[string]any{
		"provider_id": providerID,
		"article_id":  articleID,
	}
	if lookup, ok := p.dedupe.(interface {
		PostFor(id string) (string, bool, error)
	}); ok {
		if postID, found, err := lookup.PostFor(articleID); err == nil && found {
			fields["post_id"] = postID
		}
	}
	p.log.InfoObj("candidate already posted", "relay_duplicate", fields)
}

func (p *Pipeline) mark(articleID, postID string) {
	if p.dedupe == nil {
		return
	}
	if err := p.dedupe.MarkArticle(articleID, postID); err != nil {
		p.log.WarnObj("dedupe mark failed", "relay_dedupe_error", map[string]any{
			"article_id": articleID,
			"post_id":    postID,
			"error":      err.Error(),
		})
	}
}

func (p *Pipeline) fail(out domain.Outcome, err error) domain.Outcome {
	out.Status = domain.OutcomeFailed
	out.Err = err
	if stage, ok := StageOf(err); ok {
		out.Stage = string(stage)
	}
	return out
}

func skip(out domain.Outcome, reason string, err error) domain.Outcome {
	out.Status = domain.OutcomeSkipped
	out.Reason = reason
	out.Err = err
	return out
}
