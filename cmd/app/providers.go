package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/transcript-summarizer/internal/domain/ratelimit"
	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
	"github.com/yanqian/transcript-summarizer/internal/infra/config"
	"github.com/yanqian/transcript-summarizer/internal/infra/llm/chatgpt"
	"github.com/yanqian/transcript-summarizer/internal/infra/llm/huggingface"
	"github.com/yanqian/transcript-summarizer/internal/infra/ratestore"
	"github.com/yanqian/transcript-summarizer/pkg/metrics"
)

func provideSummaryConfig(cfg *config.Config) summarizer.Config {
	return summarizer.Config{
		MinInputLen: cfg.Summary.MinInputLen,
		MaxInputLen: cfg.Summary.MaxInputLen,
		Timeout:     cfg.ProviderTimeout(),
	}
}

// provideProvider selects the summarization backend. A missing credential
// aborts startup.
func provideProvider(cfg *config.Config) (summarizer.Provider, error) {
	switch cfg.Mode() {
	case summarizer.ModeGenerative:
		client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
		if err != nil {
			return nil, fmt.Errorf("generative provider: %w", err)
		}
		return client, nil
	default:
		client, err := huggingface.NewClient(cfg.HuggingFace.APIKey, cfg.HuggingFace.BaseURL, cfg.HuggingFace.Model, cfg.HuggingFace.Timeout)
		if err != nil {
			return nil, fmt.Errorf("extractive provider: %w", err)
		}
		return client, nil
	}
}

func provideRecorder(cfg *config.Config) *metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.NewRecorder(cfg.Metrics.Namespace)
}

// provideRateLimitStore falls back to the in-process store when a shared
// backend is unreachable.
func provideRateLimitStore(cfg *config.Config, logger *slog.Logger) (ratelimit.Store, func()) {
	rl := cfg.HTTP.RateLimit
	fallback := ratestore.NewMemoryStore(rl.Window)
	if !rl.Enabled {
		return fallback, func() {}
	}

	switch rl.Store {
	case config.StoreValkey:
		opt, err := buildValkeyOptions(rl.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return fallback, func() {}
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return fallback, func() {}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
			return fallback, func() {}
		}
		logger.Info("rate limit valkey store enabled", "addr", rl.Valkey.Addr)
		return ratestore.NewValkeyStore(client, rl.Valkey.Prefix, rl.Window), client.Close
	case config.StorePostgres:
		pool, err := openPostgresPool(rl.Postgres)
		if err != nil {
			logger.Error("postgres unavailable, falling back to memory store", "error", err)
			return fallback, func() {}
		}
		store := ratestore.NewPostgresStore(pool, rl.Window)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("rate window schema setup failed, falling back to memory store", "error", err)
			pool.Close()
			return fallback, func() {}
		}
		logger.Info("rate limit postgres store enabled")
		return store, pool.Close
	default:
		return fallback, func() {}
	}
}

func provideLimiter(cfg *config.Config, store ratelimit.Store, logger *slog.Logger) *ratelimit.Limiter {
	rl := cfg.HTTP.RateLimit
	if !rl.Enabled {
		logger.Info("rate limiting disabled")
		return nil
	}
	return ratelimit.NewLimiter(ratelimit.Config{Max: rl.Max, Skip: rl.Skip}, store, logger)
}

func openPostgresPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn not set")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return valkey.ClientOption{}, fmt.Errorf("valkey addr not set")
	}
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
