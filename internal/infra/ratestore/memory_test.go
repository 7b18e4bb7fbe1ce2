package ratestore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStoreWindowResets(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := newMemoryStore(15*time.Minute, clock.Now)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		w, err := store.Increment(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.Equal(t, i, w.Count)
		require.Equal(t, clock.Now().Add(15*time.Minute), w.ResetAt)
	}

	clock.Advance(15*time.Minute - time.Second)
	w, err := store.Increment(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.Equal(t, int64(4), w.Count)

	clock.Advance(time.Second)
	w, err = store.Increment(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.Equal(t, int64(1), w.Count)
	require.Equal(t, clock.Now().Add(15*time.Minute), w.ResetAt)
}

func TestMemoryStoreReset(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	_, _ = store.Increment(ctx, "a")
	_, _ = store.Increment(ctx, "a")
	require.NoError(t, store.Reset(ctx, "a"))

	w, err := store.Increment(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, int64(1), w.Count)
}

func TestMemoryStoreSweepsExpiredWindows(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := newMemoryStore(time.Minute, clock.Now)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_, _ = store.Increment(ctx, key)
	}
	require.Equal(t, 3, store.Len())

	clock.Advance(2 * time.Minute)
	_, _ = store.Increment(ctx, "d")
	require.Equal(t, 1, store.Len())
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	const workers, perWorker = 16, 50
	var (
		wg      sync.WaitGroup
		firsts  atomic.Int64
		maximum atomic.Int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				w, err := store.Increment(ctx, "shared")
				if err != nil {
					return
				}
				if w.Count == 1 {
					firsts.Add(1)
				}
				for {
					cur := maximum.Load()
					if w.Count <= cur || maximum.CompareAndSwap(cur, w.Count) {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), firsts.Load())
	require.Equal(t, int64(workers*perWorker), maximum.Load())
}
