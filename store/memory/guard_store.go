// store/memory/guard_store.go
package memory

import (
	"context"
	"sync"
	"time"
)

// GuardStore is the in-memory duplicate-suppression window. Expired guards
// are reaped lazily on the next TryAcquire for the same user, so no
// background timer is needed.
type GuardStore struct {
	mu     sync.Mutex
	guards map[string]time.Time // subject user id -> expiry
}

func NewGuardStore() *GuardStore {
	return &GuardStore{
		guards: make(map[string]time.Time),
	}
}

func (s *GuardStore) TryAcquire(_ context.Context, subjectUserID string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.guards[subjectUserID]; ok && now.Before(expiry) {
		return false, nil
	}
	s.guards[subjectUserID] = now.Add(ttl)
	return true, nil
}

func (s *GuardStore) Release(_ context.Context, subjectUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.guards, subjectUserID)
	return nil
}
