package relay

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline step a fatal error came from.
type Stage string

const (
	StageSourceFetch Stage = "source_fetch"
	StageImageUpload Stage = "image_upload"
	StagePrimaryPost Stage = "primary_post"
	StageReplyPost   Stage = "reply_post"
)

var (
	// ErrNoCandidate means the provider returned nothing matching the selection policy.
	ErrNoCandidate = errors.New("no candidate article")
	// ErrStale means the selected candidate did not pass the freshness gate.
	ErrStale = errors.New("candidate is stale")
	// ErrDuplicate means the candidate was already posted by an earlier run.
	ErrDuplicate = errors.New("candidate already posted")
)

// StageError wraps a fatal error with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage recorded on err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
