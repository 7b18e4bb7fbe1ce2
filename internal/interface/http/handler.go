package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
	"github.com/yanqian/transcript-summarizer/internal/infra/config"
	apperrors "github.com/yanqian/transcript-summarizer/pkg/errors"
	"github.com/yanqian/transcript-summarizer/pkg/util"
)

// apiVersion is the contract version advertised by the root endpoint.
const apiVersion = "1.0.0"

// Handler wires the HTTP transport to the summarizer service.
type Handler struct {
	svc         summarizer.Service
	environment string
	metricsPath string
	startedAt   time.Time
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, svc summarizer.Service, logger *slog.Logger) *Handler {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return &Handler{
		svc:         svc,
		environment: cfg.Environment,
		metricsPath: metricsPath,
		startedAt:   time.Now(),
		logger:      logger.With("component", "http.handler"),
	}
}

// Root describes the service and its endpoints.
func (h *Handler) Root(c *gin.Context) {
	desc := h.svc.Describe()
	styles := desc.Styles.Names()

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Video transcript summarization API",
		"version": apiVersion,
		"mode":    desc.Mode,
		"model":   desc.Model,
		"endpoints": gin.H{
			"POST /summarize": gin.H{
				"description": "Summarize a video transcript",
				"parameters": gin.H{
					"videoTranscript": fmt.Sprintf("string, required, %d to %d characters", desc.MinInputLen, desc.MaxInputLen),
					"summaryType":     fmt.Sprintf("string, optional, one of %v, defaults to %q", styles, desc.Styles.Default),
				},
			},
			"GET /health": gin.H{"description": "Service health and uptime"},
		},
	})
}

// Summarize handles the summarization endpoint.
func (h *Handler) Summarize(c *gin.Context) {
	var raw summarizer.RawRequest
	if err := c.ShouldBindJSON(&raw); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, apperrors.CodeBodyTooLarge, "Request body too large", err))
			return
		}
		httpErr := NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "Validation failed", err)
		httpErr.Violations = summarizer.Violations{{Param: "body", Message: "Request body must be a valid JSON object"}}
		abortWithError(c, httpErr)
		return
	}

	resp, err := h.svc.Summarize(c.Request.Context(), raw)
	if err != nil {
		abortWithError(c, httpErrorFromDomain(err))
		return
	}

	c.JSON(http.StatusOK, newSummaryBody(resp))
}

// Health reports liveness with process statistics.
func (h *Handler) Health(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   util.NowUTC().Format(time.RFC3339),
		"uptime":      time.Since(h.startedAt).Seconds(),
		"memoryUsage": fmt.Sprintf("%.2f MB", float64(mem.HeapAlloc)/1024/1024),
		"environment": h.environment,
		"mode":        h.svc.Describe().Mode,
	})
}

// NotFound lists the routes callers can use.
func (h *Handler) NotFound(c *gin.Context) {
	endpoints := []string{"GET /", "POST /summarize", "GET /health"}
	if h.metricsPath != "" {
		endpoints = append(endpoints, "GET "+h.metricsPath)
	}
	c.JSON(http.StatusNotFound, errorBody{
		Status:             "error",
		Code:               apperrors.CodeNotFound,
		Message:            "Endpoint not found",
		AvailableEndpoints: endpoints,
	})
}
