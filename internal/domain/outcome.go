package domain

import (
	"net/http"
	"time"
)

// OutcomeStatus is the terminal state of one relay invocation.
type OutcomeStatus string

const (
	OutcomePosted  OutcomeStatus = "posted"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Skip and failure reasons recorded on an Outcome.
const (
	ReasonNoCandidate = "no_candidate"
	ReasonStale       = "stale"
	ReasonDuplicate   = "duplicate"
)

// Outcome describes what a single invocation did.
type Outcome struct {
	Status OutcomeStatus
	Reason string
	// Stage names the pipeline step that failed.
	Stage      string
	ProviderID string
	Article    *Article
	AssetID    string
	Primary    *Post
	Reply      *Post
	// Orphaned is set when the primary post exists downstream without its link reply.
	Orphaned  bool
	Err       error
	StartedAt time.Time
	Elapsed   time.Duration
}

// StatusCode maps the outcome to the HTTP-style status returned to the trigger.
func (o Outcome) StatusCode() int {
	switch o.Status {
	case OutcomePosted:
		return http.StatusCreated
	case OutcomeSkipped:
		return http.StatusNoContent
	default:
		return http.StatusInternalServerError
	}
}

// Message is the body returned to the trigger alongside StatusCode.
func (o Outcome) Message() string {
	switch o.Status {
	case OutcomePosted:
		return "Top article posted successfully."
	case OutcomeSkipped:
		return "Skipped: " + o.Reason
	default:
		return "Internal server error."
	}
}
