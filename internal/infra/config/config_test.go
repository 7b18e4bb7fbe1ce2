package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":3000", cfg.HTTP.Address)
	require.Equal(t, summarizer.ModeExtractive, cfg.Mode())
	require.Equal(t, 30*time.Second, cfg.ProviderTimeout())
	require.Equal(t, int64(150), cfg.HTTP.RateLimit.Max)
	require.Equal(t, 15*time.Minute, cfg.HTTP.RateLimit.Window)
	require.Equal(t, []string{"::1"}, cfg.HTTP.RateLimit.Skip)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
summary:
  mode: generative
llm:
  model: file-model
  timeout: 12s
http:
  rateLimit:
    max: 10
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("RATE_LIMIT_SKIP", "::1,127.0.0.1")
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, summarizer.ModeGenerative, cfg.Mode())
	require.Equal(t, "env-model", cfg.LLM.Model)
	require.Equal(t, 12*time.Second, cfg.ProviderTimeout())
	require.Equal(t, int64(10), cfg.HTTP.RateLimit.Max)
	require.Equal(t, []string{"::1", "127.0.0.1"}, cfg.HTTP.RateLimit.Skip)
	require.Equal(t, ":8081", cfg.HTTP.Address)
}

func TestLoadHTTPAddressWinsOverPort(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "8081")
	t.Setenv("HTTP_ADDRESS", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.HTTP.Address)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("HUGGINGFACE_API_KEY", "")
	require.NoError(t, os.Unsetenv("HUGGINGFACE_API_KEY"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HUGGINGFACE_API_KEY=hf-from-dotenv\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "hf-from-dotenv", cfg.HuggingFace.APIKey)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SUMMARIZER_MODE", "abstractive")

	_, err := Load()
	require.ErrorContains(t, err, "summary.mode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults valid", mutate: func(*Config) {}},
		{
			name:    "bounds inverted",
			mutate:  func(c *Config) { c.Summary.MaxInputLen = 10 },
			wantErr: "summary.maxInputLen cannot be below summary.minInputLen",
		},
		{
			name:    "valkey without addr",
			mutate:  func(c *Config) { c.HTTP.RateLimit.Store = StoreValkey },
			wantErr: "http.rateLimit.valkey.addr cannot be empty when the valkey store is selected",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.HTTP.RateLimit.Store = StorePostgres },
			wantErr: "http.rateLimit.postgres.dsn cannot be empty when the postgres store is selected",
		},
		{
			name:    "unknown store",
			mutate:  func(c *Config) { c.HTTP.RateLimit.Store = "etcd" },
			wantErr: `http.rateLimit.store "etcd" is not supported`,
		},
		{
			name: "disabled limiter skips store checks",
			mutate: func(c *Config) {
				c.HTTP.RateLimit.Enabled = false
				c.HTTP.RateLimit.Store = "etcd"
			},
		},
		{
			name:    "write timeout below provider timeout",
			mutate:  func(c *Config) { c.HTTP.WriteTimeout = 20 * time.Second },
			wantErr: "http.writeTimeout (20s) must exceed the provider timeout (30s)",
		},
		{
			name: "write timeout equal to generative timeout",
			mutate: func(c *Config) {
				c.Summary.Mode = "generative"
				c.LLM.Timeout = time.Minute
				c.HTTP.WriteTimeout = time.Minute
			},
			wantErr: "http.writeTimeout (1m0s) must exceed the provider timeout (1m0s)",
		},
		{
			name:   "no write timeout",
			mutate: func(c *Config) { c.HTTP.WriteTimeout = 0 },
		},
		{
			name:    "zero window",
			mutate:  func(c *Config) { c.HTTP.RateLimit.Window = 0 },
			wantErr: "http.rateLimit.window must be positive",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for older toolchains).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}
