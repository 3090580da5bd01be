// store/memory/guard_store_test.go
package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/doorward-io/doorward/store/memory"
)

func TestGuardStore(t *testing.T) {
	ctx := context.Background()

	t.Run("SecondAcquireWithinTTL_Blocked", func(t *testing.T) {
		guards := memory.NewGuardStore()

		acquired, err := guards.TryAcquire(ctx, "user-1", time.Minute)
		assert.NoError(t, err)
		assert.True(t, acquired)

		acquired, err = guards.TryAcquire(ctx, "user-1", time.Minute)
		assert.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("GuardsArePerUser", func(t *testing.T) {
		guards := memory.NewGuardStore()

		acquired, _ := guards.TryAcquire(ctx, "user-1", time.Minute)
		assert.True(t, acquired)

		acquired, _ = guards.TryAcquire(ctx, "user-2", time.Minute)
		assert.True(t, acquired)
	})

	t.Run("Release_AllowsImmediateReacquire", func(t *testing.T) {
		guards := memory.NewGuardStore()

		acquired, _ := guards.TryAcquire(ctx, "user-1", time.Minute)
		assert.True(t, acquired)

		assert.NoError(t, guards.Release(ctx, "user-1"))

		acquired, _ = guards.TryAcquire(ctx, "user-1", time.Minute)
		assert.True(t, acquired)
	})

	t.Run("ExpiredGuard_ReapedOnNextAcquire", func(t *testing.T) {
		guards := memory.NewGuardStore()

		acquired, _ := guards.TryAcquire(ctx, "user-1", 10*time.Millisecond)
		assert.True(t, acquired)

		time.Sleep(20 * time.Millisecond)

		acquired, _ = guards.TryAcquire(ctx, "user-1", time.Minute)
		assert.True(t, acquired)
	})

	t.Run("ConcurrentAcquires_ExactlyOneWinner", func(t *testing.T) {
		guards := memory.NewGuardStore()

		const attempts = 32
		var wg sync.WaitGroup
		var winners int64

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				acquired, err := guards.TryAcquire(ctx, "user-1", time.Minute)
				assert.NoError(t, err)
				if acquired {
					atomic.AddInt64(&winners, 1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), winners)
	})
}
