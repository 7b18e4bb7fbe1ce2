package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Config controls the limiter.
type Config struct {
	Max  int64
	Skip []string
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Skipped   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// Limiter gates requests with a fixed-window counter per client key.
type Limiter struct {
	store  Store
	max    int64
	skip   map[string]struct{}
	logger *slog.Logger
}

// NewLimiter builds a limiter over store.
func NewLimiter(cfg Config, store Store, logger *slog.Logger) *Limiter {
	skip := make(map[string]struct{}, len(cfg.Skip))
	for _, key := range cfg.Skip {
		skip[key] = struct{}{}
	}
	return &Limiter{
		store:  store,
		max:    cfg.Max,
		skip:   skip,
		logger: logger.With("component", "ratelimit.limiter"),
	}
}

// Allow counts one request for key. Store failures let the request through.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	if _, ok := l.skip[key]; ok || key == "" {
		return Decision{Allowed: true, Skipped: true, Limit: l.max, Remaining: l.max}
	}

	window, err := l.store.Increment(ctx, key)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, allowing request", "key", key, "error", err)
		return Decision{Allowed: true, Skipped: true, Limit: l.max, Remaining: l.max}
	}

	remaining := l.max - window.Count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   window.Count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   window.ResetAt,
	}
}

// Reset clears the window of key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}
