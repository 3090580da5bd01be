// store/redisstore/guard_store.go
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardKeyPrefix = "doorward:guard:"

// GuardStore backs the duplicate-suppression window with Redis. SET NX PX is
// the atomic check-and-set the window needs, and it stays correct when the
// engine is scaled out: exactly one instance wins the key.
type GuardStore struct {
	client *redis.Client
}

func NewGuardStore(client *redis.Client) *GuardStore {
	return &GuardStore{client: client}
}

func (s *GuardStore) TryAcquire(ctx context.Context, subjectUserID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, guardKeyPrefix+subjectUserID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire duplicate guard: %w", err)
	}
	return ok, nil
}

func (s *GuardStore) Release(ctx context.Context, subjectUserID string) error {
	if err := s.client.Del(ctx, guardKeyPrefix+subjectUserID).Err(); err != nil {
		return fmt.Errorf("failed to release duplicate guard: %w", err)
	}
	return nil
}
