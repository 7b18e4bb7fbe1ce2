package summarizer

import (
	"context"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	apperrors "github.com/yanqian/transcript-summarizer/pkg/errors"
	"github.com/yanqian/transcript-summarizer/pkg/metrics"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 30 * time.Second

// Service exposes summarization capabilities.
type Service interface {
	Summarize(ctx context.Context, raw RawRequest) (Response, error)
	Describe() Description
}

// Provider is the inference backend strategy selected at startup.
type Provider interface {
	// Name identifies the model used, echoed back to callers.
	Name() string
	Mode() Mode
	Summarize(ctx context.Context, transcript string, spec GenerationSpec) (Completion, error)
}

type service struct {
	cfg      Config
	provider Provider
	styles   StyleSet
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// NewService is a wire provider for the summarizer domain.
func NewService(cfg Config, provider Provider, recorder *metrics.Recorder, logger *slog.Logger) Service {
	if cfg.MinInputLen <= 0 {
		cfg.MinInputLen = DefaultMinInputLen
	}
	if cfg.MaxInputLen <= 0 {
		cfg.MaxInputLen = DefaultMaxInputLen
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &service{
		cfg:      cfg,
		provider: provider,
		styles:   StylesFor(provider.Mode()),
		recorder: recorder,
		logger:   logger.With("component", "summarizer.service", "mode", provider.Mode()),
	}
}

func (s *service) Describe() Description {
	return Description{
		Mode:        s.provider.Mode(),
		Model:       s.provider.Name(),
		Styles:      s.styles,
		MinInputLen: s.cfg.MinInputLen,
		MaxInputLen: s.cfg.MaxInputLen,
	}
}

func (s *service) Summarize(ctx context.Context, raw RawRequest) (Response, error) {
	req, violations := Validate(raw, s.styles, Limits{Min: s.cfg.MinInputLen, Max: s.cfg.MaxInputLen})
	if err := violations.Err(); err != nil {
		return Response{}, err
	}

	spec := BuildSpec(s.provider.Mode(), req.Style)
	completion, elapsed, err := s.dispatch(ctx, req.Transcript, spec)
	if err != nil {
		s.recorder.ObserveSummary(string(spec.Mode), string(spec.Style), apperrors.CodeOf(err), elapsed)
		return Response{}, err
	}
	s.recorder.ObserveSummary(string(spec.Mode), string(spec.Style), "success", elapsed)
	s.recorder.ObserveTokens(completion.Usage)

	model := completion.Model
	if model == "" {
		model = s.provider.Name()
	}
	originalLen := utf8.RuneCountInString(req.Transcript)
	summaryLen := utf8.RuneCountInString(completion.Text)

	return Response{
		Summary:          completion.Text,
		Style:            spec.Style,
		OriginalLength:   originalLen,
		SummaryLength:    summaryLen,
		ReductionPercent: reductionPercent(originalLen, summaryLen),
		Elapsed:          elapsed,
		Model:            model,
		Usage:            completion.Usage,
	}, nil
}

// reductionPercent is round((1 - summary/original) * 100).
func reductionPercent(original, summary int) int {
	if original <= 0 {
		return 0
	}
	return int(math.Round((1 - float64(summary)/float64(original)) * 100))
}
