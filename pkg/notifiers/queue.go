package notifiers

import (
	"context"
	"encoding/json"
	"fmt"
)

// queueSender is the transport half of a queue-backed notifier.
type queueSender interface {
	Send(ctx context.Context, evt Event) error
}

// queueNotifier adapts a queueSender to the Notifier interface.
type queueNotifier struct {
	id     string
	typ    string
	sender queueSender
}

func (q *queueNotifier) ID() string   { return q.id }
func (q *queueNotifier) Type() string { return q.typ }

func (q *queueNotifier) Notify(ctx context.Context, evt Event) error {
	if q.sender == nil {
		return fmt.Errorf("notifier %q has no sender", q.id)
	}
	return q.sender.Send(ctx, evt)
}

// Close releases the sender when it holds a connection.
func (q *queueNotifier) Close() error {
	if c, ok := q.sender.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func marshalEvent(evt Event) (string, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(payload), nil
}
