package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "transcript-summarizer"

// New builds the process logger from LOG_LEVEL, LOG_FORMAT and APP_ENV.
// Output is JSON on stdout unless LOG_FORMAT=text.
func New() *slog.Logger {
	return newLogger(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Getenv("APP_ENV"))
}

func newLogger(w io.Writer, level, format, environment string) *slog.Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl.Level() == slog.LevelDebug,
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler).With("service", serviceName)
	if environment != "" {
		logger = logger.With("env", environment)
	}
	return logger
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redact masks credentials that end up in attributes.
func redact(_ []string, attr slog.Attr) slog.Attr {
	switch strings.ToLower(attr.Key) {
	case "api_key", "authorization", "dsn":
		return slog.String(attr.Key, "[redacted]")
	}
	return attr
}
