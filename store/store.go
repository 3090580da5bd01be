// store/store.go
package store

import (
	"context"
	"time"

	"github.com/doorward-io/doorward/model"
)

// EventStore holds AccessEvents keyed by event id. Implementations must make
// Transition an atomic per-key compare-and-swap so that concurrent writers
// (actuator callback vs. timeout sweep) resolve to exactly one winner; the
// loser receives ErrEventStateConflict. A single-process deployment uses the
// memory backend, a scaled-out one the redis backend.
type EventStore interface {
	// Create stores a new event. ErrEventExists if the id is taken.
	Create(ctx context.Context, event model.AccessEvent) error

	// Get returns the event or ErrUnknownEvent.
	Get(ctx context.Context, eventID string) (model.AccessEvent, error)

	// Transition atomically moves the event from state `from` to state `to`,
	// appending reasons and stamping ResolvedAt (terminal targets) or
	// DispatchedAt (approval). Returns the updated event, or
	// ErrEventStateConflict when the current state is not `from`.
	Transition(ctx context.Context, eventID string, from, to model.EventState, reasons []string, at time.Time) (model.AccessEvent, error)

	// AwaitingBefore lists events still in ApprovedAwaitingActuator whose
	// dispatch happened before the cutoff. Used by the timeout sweep.
	AwaitingBefore(ctx context.Context, cutoff time.Time) ([]model.AccessEvent, error)

	// EvictTerminalBefore removes terminal events resolved before the cutoff
	// and reports how many were evicted. Retention is bounded so late polls
	// inside the window still get an answer.
	EvictTerminalBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// GuardStore is the duplicate-suppression window: a short-lived per-user
// marker. TryAcquire must be atomic check-and-set — under concurrent requests
// from the same user exactly one caller wins. The TTL bounds worst-case
// lockout even if a Release is lost.
type GuardStore interface {
	TryAcquire(ctx context.Context, subjectUserID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, subjectUserID string) error
}
