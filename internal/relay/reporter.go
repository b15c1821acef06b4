package relay

import (
	"context"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
	"github.com/samvad-hq/samvad-headline-relay/internal/logger"
	"github.com/samvad-hq/samvad-headline-relay/internal/metrics"
	"github.com/samvad-hq/samvad-headline-relay/pkg/notifiers"
)

// EventNotifier forwards outcome events to external sinks.
type EventNotifier interface {
	Notify(ctx context.Context, evt notifiers.Event) (int, error)
}

// Reporter makes an outcome observable: one log line, metrics and notifier events.
type Reporter struct {
	log      logger.Logger
	notifier EventNotifier
}

// NewReporter returns a Reporter. notifier may be nil.
func NewReporter(log logger.Logger, notifier EventNotifier) *Reporter {
	return &Reporter{log: logger.Ensure(log), notifier: notifier}
}

// Report records out. Notifier failures are logged and never change the outcome.
func (r *Reporter) Report(ctx context.Context, out domain.Outcome) {
	metrics.RecordRun(out.ProviderID, string(out.Status), out.Reason, out.Elapsed.Seconds())

	fields := map[string]any{
		"provider_id": out.ProviderID,
		"status":      string(out.Status),
		"status_code": out.StatusCode(),
		"elapsed_ms":  out.Elapsed.Milliseconds(),
	}
	if out.Article != nil {
		fields["article_id"] = out.Article.ID
		fields["article_url"] = out.Article.URL
	}

	switch out.Status {
	case domain.OutcomePosted:
		fields["post_id"] = out.Primary.ID
		fields["reply_id"] = out.Reply.ID
		fields["asset_id"] = out.AssetID
		r.log.InfoObj("headline posted", "relay_outcome", fields)
	case domain.OutcomeSkipped:
		fields["reason"] = out.Reason
		r.log.InfoObj("run skipped", "relay_outcome", fields)
	default:
		fields["stage"] = out.Stage
		if out.Err != nil {
			fields["error"] = out.Err.Error()
		}
		if out.Stage != "" {
			metrics.RecordStageFailure(out.ProviderID, out.Stage)
		}
		if out.Orphaned {
			fields["orphaned"] = true
			fields["post_id"] = out.Primary.ID
			metrics.RecordOrphanPost(out.ProviderID)
			r.log.ErrorObj("reply failed, primary post left without link", "relay_orphan_post", fields)
		} else {
			r.log.ErrorObj("run failed", "relay_outcome", fields)
		}
	}

	if r.notifier == nil {
		return
	}
	if _, err := r.notifier.Notify(ctx, notifiers.NewEvent(out)); err != nil {
		r.log.WarnObj("outcome notification failed", "relay_notify_error", map[string]any{
			"provider_id": out.ProviderID,
			"error":       err.Error(),
		})
	}
}
