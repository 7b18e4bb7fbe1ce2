package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"github.com/yanqian/transcript-summarizer/internal/domain/ratelimit"
	"github.com/yanqian/transcript-summarizer/internal/infra/config"
	"github.com/yanqian/transcript-summarizer/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
// A nil limiter disables rate limiting; a nil recorder hides the metrics route.
func NewRouter(cfg *config.Config, handler *Handler, limiter *ratelimit.Limiter, recorder *metrics.Recorder, logger *slog.Logger) (*http.Server, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(
		requestIDMiddleware(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
		recoveryMiddleware(logger),
		securityHeaders(),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
	)

	router.GET("/", handler.Root)
	router.POST("/summarize",
		bodyLimitMiddleware(cfg.HTTP.BodyLimit),
		rateLimitMiddleware(limiter, recorder, logger),
		handler.Summarize,
	)
	router.GET("/health", handler.Health)
	if cfg.Metrics.Enabled && recorder != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(recorder.Handler()))
	}
	router.NoRoute(handler.NotFound)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        gzhttp.GzipHandler(router),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}, nil
}
