package ratestore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/transcript-summarizer/internal/domain/ratelimit"
)

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps fixed windows in process memory. Expired windows are
// swept at most once per window length.
type MemoryStore struct {
	mu        sync.Mutex
	window    time.Duration
	windows   map[string]*memoryWindow
	nextSweep time.Time
	now       func() time.Time
}

// NewMemoryStore constructs a store whose windows last window.
func NewMemoryStore(window time.Duration) *MemoryStore {
	return newMemoryStore(window, time.Now)
}

func newMemoryStore(window time.Duration, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		window:  window,
		windows: make(map[string]*memoryWindow),
		now:     now,
	}
}

// Increment implements ratelimit.Store.
func (s *MemoryStore) Increment(_ context.Context, key string) (ratelimit.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(s.window)}
		s.windows[key] = w
	}
	w.count++
	return ratelimit.Window{Count: w.count, ResetAt: w.resetAt}, nil
}

// Reset implements ratelimit.Store.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.windows, key)
	s.mu.Unlock()
	return nil
}

// Len reports how many windows are tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
	s.nextSweep = now.Add(s.window)
}

var _ ratelimit.Store = (*MemoryStore)(nil)
