package ratelimit

import (
	"context"
	"time"
)

// Window is the state of one client's fixed window after an increment.
type Window struct {
	Count   int64
	ResetAt time.Time
}

// Store holds per-key fixed-window counters. Increment must be atomic: the
// first hit of an expired window starts a new one with Count == 1.
type Store interface {
	Increment(ctx context.Context, key string) (Window, error)
	Reset(ctx context.Context, key string) error
}
