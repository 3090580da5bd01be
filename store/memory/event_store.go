// store/memory/event_store.go
package memory

import (
	"context"
	"sync"
	"time"

	doorward_errors "github.com/doorward-io/doorward/errors"
	"github.com/doorward-io/doorward/model"
)

// EventStore is the in-memory AccessEvent store for single-process
// deployments and tests. A single mutex serializes writers; transitions are
// compare-and-swap on the stored state so a late callback and the timeout
// sweep can never both win.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]model.AccessEvent
}

func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string]model.AccessEvent),
	}
}

func (s *EventStore) Create(_ context.Context, event model.AccessEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[event.EventID]; exists {
		return doorward_errors.ErrEventExists
	}
	s.events[event.EventID] = event
	return nil
}

func (s *EventStore) Get(_ context.Context, eventID string) (model.AccessEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[eventID]
	if !ok {
		return model.AccessEvent{}, doorward_errors.ErrUnknownEvent
	}
	return event, nil
}

func (s *EventStore) Transition(_ context.Context, eventID string, from, to model.EventState, reasons []string, at time.Time) (model.AccessEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[eventID]
	if !ok {
		return model.AccessEvent{}, doorward_errors.ErrUnknownEvent
	}
	if event.State != from {
		return event, doorward_errors.ErrEventStateConflict
	}

	event.State = to
	event.DecisionReasons = append(event.DecisionReasons, reasons...)
	if to == model.StateApprovedAwaitingActuator {
		t := at
		event.DispatchedAt = &t
	}
	if to.Terminal() {
		t := at
		event.ResolvedAt = &t
	}
	s.events[eventID] = event
	return event, nil
}

func (s *EventStore) AwaitingBefore(_ context.Context, cutoff time.Time) ([]model.AccessEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var overdue []model.AccessEvent
	for _, event := range s.events {
		if event.State != model.StateApprovedAwaitingActuator {
			continue
		}
		if event.DispatchedAt != nil && event.DispatchedAt.Before(cutoff) {
			overdue = append(overdue, event)
		}
	}
	return overdue, nil
}

func (s *EventStore) EvictTerminalBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, event := range s.events {
		if !event.Terminal() {
			continue
		}
		if event.ResolvedAt != nil && event.ResolvedAt.Before(cutoff) {
			delete(s.events, id)
			evicted++
		}
	}
	return evicted, nil
}
