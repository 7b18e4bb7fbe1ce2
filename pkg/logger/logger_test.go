package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, parseLevel(in).Level(), in)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newLogger(&buf, "info", "", "production")

	log.Debug("hidden")
	log.Info("started", "api_key", "sk-secret", "port", 3000)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "started", entry["msg"])
	require.Equal(t, serviceName, entry["service"])
	require.Equal(t, "production", entry["env"])
	require.Equal(t, "[redacted]", entry["api_key"])
	require.NotContains(t, entry, "source")
}

func TestNewLoggerTextWithSourceOnDebug(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newLogger(&buf, "debug", "TEXT", "")

	log.Debug("dialing")
	out := buf.String()
	require.Contains(t, out, "msg=dialing")
	require.Contains(t, out, "source=")
	require.Contains(t, out, "service="+serviceName)
	require.NotContains(t, out, "env=")
}
