package summarizer

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/yanqian/transcript-summarizer/pkg/errors"
)

// dispatch performs exactly one provider call. The call is detached from the
// caller's cancellation but never outlives cfg.Timeout.
func (s *service) dispatch(ctx context.Context, transcript string, spec GenerationSpec) (Completion, time.Duration, error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	completion, err := s.provider.Summarize(callCtx, transcript, spec)
	elapsed := time.Since(start)

	if err != nil {
		err = classify(callCtx, err, s.cfg.Timeout)
		appErr, _ := apperrors.As(err)
		s.logger.Error("provider call failed",
			"code", appErr.Code,
			"style", spec.Style,
			"elapsed_ms", elapsed.Milliseconds(),
			"upstream_status", appErr.Status,
			"detail", appErr.Detail,
			"error", err,
		)
		return Completion{}, elapsed, err
	}

	completion.Text = strings.TrimSpace(completion.Text)
	if completion.Text == "" {
		err := apperrors.New(apperrors.CodeProviderError, "invalid response from provider", nil).
			WithDetail(0, "provider returned an empty summary")
		s.logger.Error("provider returned empty summary", "style", spec.Style, "elapsed_ms", elapsed.Milliseconds())
		return Completion{}, elapsed, err
	}

	s.logger.Debug("provider call succeeded", "style", spec.Style, "elapsed_ms", elapsed.Milliseconds())
	return completion, elapsed, nil
}

// classify guarantees the returned error is an AppError with a provider code.
func classify(callCtx context.Context, err error, timeout time.Duration) error {
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Code {
		case apperrors.CodeTimeout, apperrors.CodeModelLoading, apperrors.CodeProviderError:
			return err
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return apperrors.New(apperrors.CodeTimeout, "provider request timed out", err).
			WithDetail(0, "timeout of "+timeout.String()+" exceeded")
	}
	return apperrors.New(apperrors.CodeProviderError, "provider request failed", err).
		WithDetail(apperrors.UpstreamStatus(err), err.Error())
}
