// store/redisstore/event_store.go
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	doorward_errors "github.com/doorward-io/doorward/errors"
	"github.com/doorward-io/doorward/model"
)

const (
	eventKeyPrefix  = "doorward:event:"
	awaitingZSetKey = "doorward:events:awaiting"
)

// EventStore keeps AccessEvents in Redis so multiple engine instances can
// share one correlation state. Transitions run under WATCH so the
// first-writer-wins guarantee holds across processes; the loser sees the key
// change and gets a state conflict. Terminal events are expired by key TTL
// instead of an explicit eviction scan, with the awaiting index kept in a
// sorted set scored by dispatch time.
type EventStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewEventStore(client *redis.Client, retention time.Duration) *EventStore {
	return &EventStore{client: client, retention: retention}
}

func eventKey(eventID string) string {
	return eventKeyPrefix + eventID
}

func (s *EventStore) Create(ctx context.Context, event model.AccessEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal access event: %w", err)
	}

	// Non-terminal events get a safety TTL too: if the process dies between
	// Create and the approve transition, the orphaned key must not leak
	// forever. The window is generous enough that no live event ever expires
	// under it.
	ttl := s.retention
	if !event.Terminal() {
		ttl = 2 * s.retention
	}
	ok, err := s.client.SetNX(ctx, eventKey(event.EventID), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store access event: %w", err)
	}
	if !ok {
		return doorward_errors.ErrEventExists
	}
	return nil
}

func (s *EventStore) Get(ctx context.Context, eventID string) (model.AccessEvent, error) {
	data, err := s.client.Get(ctx, eventKey(eventID)).Bytes()
	if err == redis.Nil {
		return model.AccessEvent{}, doorward_errors.ErrUnknownEvent
	} else if err != nil {
		return model.AccessEvent{}, fmt.Errorf("failed to load access event: %w", err)
	}

	var event model.AccessEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return model.AccessEvent{}, fmt.Errorf("failed to unmarshal access event: %w", err)
	}
	return event, nil
}

func (s *EventStore) Transition(ctx context.Context, eventID string, from, to model.EventState, reasons []string, at time.Time) (model.AccessEvent, error) {
	key := eventKey(eventID)
	var updated model.AccessEvent

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return doorward_errors.ErrUnknownEvent
		} else if err != nil {
			return err
		}

		var event model.AccessEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return err
		}
		if event.State != from {
			updated = event
			return doorward_errors.ErrEventStateConflict
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

		next, err := json.Marshal(event)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if to.Terminal() {
				pipe.Set(ctx, key, next, s.retention)
				pipe.ZRem(ctx, awaitingZSetKey, eventID)
			} else {
				pipe.Set(ctx, key, next, 2*s.retention)
				if to == model.StateApprovedAwaitingActuator {
					pipe.ZAdd(ctx, awaitingZSetKey, redis.Z{
						Score:  float64(at.UnixMilli()),
						Member: eventID,
					})
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = event
		return nil
	}

	err := s.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Another writer got there first; the caller loses the race.
		current, getErr := s.Get(ctx, eventID)
		if getErr != nil {
			return model.AccessEvent{}, getErr
		}
		return current, doorward_errors.ErrEventStateConflict
	}
	if err != nil {
		return updated, err
	}
	return updated, nil
}

func (s *EventStore) AwaitingBefore(ctx context.Context, cutoff time.Time) ([]model.AccessEvent, error) {
	ids, err := s.client.ZRangeByScore(ctx, awaitingZSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list awaiting events: %w", err)
	}

	var overdue []model.AccessEvent
	for _, id := range ids {
		event, err := s.Get(ctx, id)
		if errors.Is(err, doorward_errors.ErrUnknownEvent) {
			// Index entry outlived its event; drop it.
			s.client.ZRem(ctx, awaitingZSetKey, id)
			continue
		} else if err != nil {
			return nil, err
		}
		if event.State == model.StateApprovedAwaitingActuator {
			overdue = append(overdue, event)
		}
	}
	return overdue, nil
}

// EvictTerminalBefore is a no-op for the Redis backend: terminal events carry
// a key TTL equal to the retention window and expire on their own.
func (s *EventStore) EvictTerminalBefore(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
