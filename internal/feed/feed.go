// Package feed is the change-notification side of the store contract: every
// committed insert/update to the jobs collection is published, and every
// subscriber reacts by re-fetching the full collection. Payloads carry the
// job id for logging only; subscribers must not use them to diff.
package feed

import "context"

// EventKind distinguishes inserts from updates. Subscribers treat both the
// same way (full re-list); the kind exists for logs and the SSE stream.
type EventKind string

const (
	JobCreated EventKind = "job-created"
	JobUpdated EventKind = "job-updated"
)

// Event signals that the remote job collection changed.
type Event struct {
	Kind  EventKind `json:"kind"`
	JobID string    `json:"job_id"`
}

// Feed is the publish/subscribe contract for change events.
type Feed interface {
	Publish(ctx context.Context, ev Event) error

	// Subscribe registers onEvent and starts forwarding in the background
	// until ctx is cancelled.
	Subscribe(ctx context.Context, onEvent func(Event)) error

	Close() error
}
