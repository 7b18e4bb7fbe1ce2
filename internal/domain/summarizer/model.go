package summarizer

import (
	"time"

	"github.com/yanqian/transcript-summarizer/pkg/metrics"
)

// Config configures validation bounds and the provider call budget.
type Config struct {
	MinInputLen int
	MaxInputLen int
	Timeout     time.Duration
}

// RawRequest is the undecoded summarization payload. Fields stay untyped so
// the validator can report type mismatches instead of failing the decode.
type RawRequest struct {
	VideoTranscript any `json:"videoTranscript"`
	SummaryType     any `json:"summaryType"`
}

// Request is a validated, normalized summarization request.
type Request struct {
	Transcript string
	Style      Style
}

// Completion is what a provider returns on success.
type Completion struct {
	Text  string
	Model string
	Usage *metrics.TokenUsage
}

// Response is the outcome of a successful summarization.
type Response struct {
	Summary          string
	Style            Style
	OriginalLength   int
	SummaryLength    int
	ReductionPercent int
	Elapsed          time.Duration
	Model            string
	Usage            *metrics.TokenUsage
}

// Description advertises the active pipeline to API callers.
type Description struct {
	Mode        Mode
	Model       string
	Styles      StyleSet
	MinInputLen int
	MaxInputLen int
}
