package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
)

// Rate limit store backends.
const (
	StoreMemory   = "memory"
	StoreValkey   = "valkey"
	StorePostgres = "postgres"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	Environment string            `yaml:"environment" env:"APP_ENV"`
	HTTP        HTTPConfig        `yaml:"http"`
	Summary     SummaryConfig     `yaml:"summary"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	LLM         LLMConfig         `yaml:"llm"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS"`
	// Port is the legacy listen port; it only applies when HTTP_ADDRESS is unset.
	Port           string        `yaml:"-" env:"PORT"`
	ReadTimeout    time.Duration `yaml:"readTimeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"writeTimeout" env:"HTTP_WRITE_TIMEOUT"`
	BodyLimit      int64         `yaml:"bodyLimit" env:"HTTP_BODY_LIMIT"`
	AllowedOrigins []string      `yaml:"allowedOrigins" env:"HTTP_ALLOWED_ORIGINS"`
	// TrustedProxies may set X-Forwarded-For; an empty list uses the socket address.
	TrustedProxies []string        `yaml:"trustedProxies" env:"HTTP_TRUSTED_PROXIES"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the fixed-window limiter on the summarize route.
type RateLimitConfig struct {
	Enabled  bool           `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	Max      int64          `yaml:"max" env:"RATE_LIMIT_MAX"`
	Window   time.Duration  `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	Skip     []string       `yaml:"skip" env:"RATE_LIMIT_SKIP"`
	Store    string         `yaml:"store" env:"RATE_LIMIT_STORE"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for the shared counter store.
type ValkeyConfig struct {
	Addr   string `yaml:"addr" env:"RATE_LIMIT_VALKEY_ADDR"`
	Prefix string `yaml:"prefix" env:"RATE_LIMIT_VALKEY_PREFIX"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn" env:"RATE_LIMIT_POSTGRES_DSN"`
	MaxConns int32  `yaml:"maxConns" env:"RATE_LIMIT_POSTGRES_MAX_CONNS"`
	MinConns int32  `yaml:"minConns" env:"RATE_LIMIT_POSTGRES_MIN_CONNS"`
}

// SummaryConfig selects the provider mode and transcript bounds.
type SummaryConfig struct {
	Mode        string `yaml:"mode" env:"SUMMARIZER_MODE"`
	MinInputLen int    `yaml:"minInputLen" env:"SUMMARY_MIN_INPUT_LEN"`
	MaxInputLen int    `yaml:"maxInputLen" env:"SUMMARY_MAX_INPUT_LEN"`
}

// HuggingFaceConfig configures the extractive provider.
type HuggingFaceConfig struct {
	APIKey  string        `yaml:"apiKey" env:"HUGGINGFACE_API_KEY"`
	BaseURL string        `yaml:"baseUrl" env:"HUGGINGFACE_BASE_URL"`
	Model   string        `yaml:"model" env:"HUGGINGFACE_MODEL"`
	Timeout time.Duration `yaml:"timeout" env:"HUGGINGFACE_TIMEOUT"`
}

// LLMConfig contains ChatGPT/OpenAI settings for the generative provider.
type LLMConfig struct {
	APIKey  string        `yaml:"apiKey" env:"LLM_API_KEY"`
	BaseURL string        `yaml:"baseUrl" env:"LLM_BASE_URL"`
	Model   string        `yaml:"model" env:"LLM_MODEL"`
	Timeout time.Duration `yaml:"timeout" env:"LLM_TIMEOUT"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path      string `yaml:"path" env:"METRICS_PATH"`
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if cfg.HTTP.Port != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + strings.TrimPrefix(cfg.HTTP.Port, ":")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Environment: "development",
		HTTP: HTTPConfig{
			Address:      ":3000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 45 * time.Second,
			BodyLimit:    64 << 10,
			RateLimit: RateLimitConfig{
				Enabled: true,
				Max:     150,
				Window:  15 * time.Minute,
				Skip:    []string{"::1"},
				Store:   StoreMemory,
				Valkey: ValkeyConfig{
					Prefix: "summarizer:ratelimit",
				},
				Postgres: PostgresConfig{
					MaxConns: 4,
				},
			},
		},
		Summary: SummaryConfig{
			Mode:        string(summarizer.ModeExtractive),
			MinInputLen: summarizer.DefaultMinInputLen,
			MaxInputLen: summarizer.DefaultMaxInputLen,
		},
		HuggingFace: HuggingFaceConfig{
			BaseURL: "https://api-inference.huggingface.co/models",
			Model:   "facebook/bart-large-cnn",
			Timeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "summarizer",
		},
	}
}

// Mode returns the parsed provider mode. Validate guarantees it is known.
func (c *Config) Mode() summarizer.Mode {
	mode, _ := summarizer.ParseMode(c.Summary.Mode)
	return mode
}

// ProviderTimeout is the call budget of the active provider.
func (c *Config) ProviderTimeout() time.Duration {
	if c.Mode() == summarizer.ModeGenerative {
		return c.LLM.Timeout
	}
	return c.HuggingFace.Timeout
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.BodyLimit <= 0 {
		return errors.New("http.bodyLimit must be positive")
	}
	if _, ok := summarizer.ParseMode(c.Summary.Mode); !ok {
		return fmt.Errorf("summary.mode must be %q or %q, got %q", summarizer.ModeExtractive, summarizer.ModeGenerative, c.Summary.Mode)
	}
	if c.Summary.MinInputLen <= 0 {
		return errors.New("summary.minInputLen must be positive")
	}
	if c.Summary.MaxInputLen < c.Summary.MinInputLen {
		return errors.New("summary.maxInputLen cannot be below summary.minInputLen")
	}
	if c.ProviderTimeout() <= 0 {
		return errors.New("provider timeout must be positive")
	}
	// The server must outlive the provider call or the timeout reply is never written.
	if c.HTTP.WriteTimeout > 0 && c.HTTP.WriteTimeout <= c.ProviderTimeout() {
		return fmt.Errorf("http.writeTimeout (%s) must exceed the provider timeout (%s)", c.HTTP.WriteTimeout, c.ProviderTimeout())
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	rl := c.HTTP.RateLimit
	if rl.Enabled {
		if rl.Max <= 0 {
			return errors.New("http.rateLimit.max must be positive")
		}
		if rl.Window <= 0 {
			return errors.New("http.rateLimit.window must be positive")
		}
		switch rl.Store {
		case StoreMemory:
		case StoreValkey:
			if strings.TrimSpace(rl.Valkey.Addr) == "" {
				return errors.New("http.rateLimit.valkey.addr cannot be empty when the valkey store is selected")
			}
		case StorePostgres:
			if strings.TrimSpace(rl.Postgres.DSN) == "" {
				return errors.New("http.rateLimit.postgres.dsn cannot be empty when the postgres store is selected")
			}
		default:
			return fmt.Errorf("http.rateLimit.store %q is not supported", rl.Store)
		}
	}
	return nil
}
