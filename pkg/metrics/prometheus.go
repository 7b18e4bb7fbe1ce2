package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exports summarizer metrics in Prometheus format.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	summaries       *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	tokens          *prometheus.CounterVec
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder(namespace string) *Recorder {
	if namespace == "" {
		namespace = "summarizer"
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: registry,
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summarization requests by mode, style and outcome.",
		}, []string{"mode", "style", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Latency of the outbound provider call.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"mode", "outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens reported by the provider.",
		}, []string{"kind"}),
	}
	registry.MustRegister(r.summaries, r.providerLatency, r.rateLimited, r.tokens)
	return r
}

// ObserveSummary records one provider round trip.
func (r *Recorder) ObserveSummary(mode, style, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.summaries.WithLabelValues(mode, style, outcome).Inc()
	r.providerLatency.WithLabelValues(mode, outcome).Observe(elapsed.Seconds())
}

// ObserveTokens adds provider reported token usage.
func (r *Recorder) ObserveTokens(usage *TokenUsage) {
	if r == nil || usage == nil || usage.IsZero() {
		return
	}
	r.tokens.WithLabelValues("prompt").Add(float64(usage.PromptTokens))
	r.tokens.WithLabelValues("completion").Add(float64(usage.CompletionTokens))
}

// RateLimited counts a rejected request.
func (r *Recorder) RateLimited() {
	if r == nil {
		return
	}
	r.rateLimited.Inc()
}

// Handler serves the exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
