package http

import (
	"fmt"
	"net/http"

	"github.com/yanqian/transcript-summarizer/internal/domain/summarizer"
	apperrors "github.com/yanqian/transcript-summarizer/pkg/errors"
	"github.com/yanqian/transcript-summarizer/pkg/metrics"
	"github.com/yanqian/transcript-summarizer/pkg/util"
)

const providerSolution = "Try reducing the input length or try again later"

type summaryBody struct {
	Status      string          `json:"status"`
	Data        summaryData     `json:"data"`
	Performance performanceData `json:"performance"`
}

type summaryData struct {
	Summary     string     `json:"summary"`
	SummaryType string     `json:"summaryType"`
	Length      lengthData `json:"length"`
}

type lengthData struct {
	Original         int    `json:"original"`
	Summary          int    `json:"summary"`
	Ratio            string `json:"ratio"`
	ReductionPercent int    `json:"reductionPercent"`
}

type performanceData struct {
	ProcessingTimeMs int64               `json:"processingTimeMs"`
	Model            string              `json:"model"`
	TokenUsage       *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

type errorBody struct {
	Status             string   `json:"status"`
	Code               string   `json:"code"`
	Message            string   `json:"message"`
	Errors             any      `json:"errors,omitempty"`
	Details            any      `json:"details,omitempty"`
	Solution           string   `json:"solution,omitempty"`
	ErrorID            string   `json:"errorId,omitempty"`
	AvailableEndpoints []string `json:"availableEndpoints,omitempty"`
}

func newSummaryBody(resp summarizer.Response) summaryBody {
	return summaryBody{
		Status: "success",
		Data: summaryData{
			Summary:     resp.Summary,
			SummaryType: string(resp.Style),
			Length: lengthData{
				Original:         resp.OriginalLength,
				Summary:          resp.SummaryLength,
				Ratio:            fmt.Sprintf("%d%% reduction", resp.ReductionPercent),
				ReductionPercent: resp.ReductionPercent,
			},
		},
		Performance: performanceData{
			ProcessingTimeMs: util.Milliseconds(resp.Elapsed),
			Model:            resp.Model,
			TokenUsage:       resp.Usage,
		},
	}
}

// httpErrorFromDomain maps every service error code onto its HTTP form.
func httpErrorFromDomain(err error) *HTTPError {
	appErr, ok := apperrors.As(err)
	if !ok {
		return internalError(err)
	}
	switch appErr.Code {
	case apperrors.CodeInvalidInput:
		return &HTTPError{
			Status:     http.StatusBadRequest,
			Code:       appErr.Code,
			Message:    "Validation failed",
			Err:        err,
			Violations: appErr.Detail,
		}
	case apperrors.CodeTimeout:
		return &HTTPError{
			Status:   http.StatusGatewayTimeout,
			Code:     appErr.Code,
			Message:  "Request timeout. The model might be processing a large input.",
			Err:      err,
			Details:  appErr.Detail,
			Solution: providerSolution,
		}
	case apperrors.CodeModelLoading:
		return &HTTPError{
			Status:   http.StatusServiceUnavailable,
			Code:     appErr.Code,
			Message:  "Model is currently loading. Please try again in a few seconds.",
			Err:      err,
			Details:  appErr.Detail,
			Solution: providerSolution,
		}
	case apperrors.CodeProviderError:
		return &HTTPError{
			Status:   http.StatusInternalServerError,
			Code:     appErr.Code,
			Message:  "Summarization failed",
			Err:      err,
			Details:  appErr.Detail,
			Solution: providerSolution,
		}
	default:
		return internalError(err)
	}
}

func newErrorBody(httpErr *HTTPError, requestID string) errorBody {
	body := errorBody{
		Status:   "error",
		Code:     httpErr.Code,
		Message:  httpErr.Message,
		Errors:   httpErr.Violations,
		Details:  httpErr.Details,
		Solution: httpErr.Solution,
	}
	if body.Code == "" {
		body.Code = apperrors.CodeInternal
	}
	if body.Message == "" {
		body.Message = http.StatusText(httpErr.Status)
	}
	if httpErr.Code == apperrors.CodeInternal {
		body.ErrorID = requestID
	}
	return body
}
