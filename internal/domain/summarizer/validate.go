package summarizer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/yanqian/transcript-summarizer/pkg/errors"
)

const (
	// DefaultMinInputLen and DefaultMaxInputLen bound the transcript, in characters.
	DefaultMinInputLen = 50
	DefaultMaxInputLen = 15000

	ParamTranscript  = "videoTranscript"
	ParamSummaryType = "summaryType"
)

// Violation is one failed field rule.
type Violation struct {
	Param   string `json:"param"`
	Message string `json:"message"`
}

// Violations accumulates every failed rule of a request.
type Violations []Violation

// Err wraps the violations as an invalid_input error, or returns nil.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperrors.New(apperrors.CodeInvalidInput, "validation failed", nil).WithDetail(0, v)
}

// Limits are the inclusive transcript length bounds.
type Limits struct {
	Min int
	Max int
}

// Validate checks raw against the style vocabulary and length limits. All
// violations are reported, not only the first.
func Validate(raw RawRequest, styles StyleSet, limits Limits) (Request, Violations) {
	var (
		req        Request
		violations Violations
	)

	transcript, ok := raw.VideoTranscript.(string)
	if !ok {
		violations = append(violations, Violation{Param: ParamTranscript, Message: "Transcript must be a string"})
		transcript = coerceString(raw.VideoTranscript)
	}
	// The length rule runs on the coerced value too, so a wrong type reports both.
	transcript = strings.TrimSpace(transcript)
	if n := utf8.RuneCountInString(transcript); n < limits.Min || n > limits.Max {
		violations = append(violations, Violation{
			Param:   ParamTranscript,
			Message: fmt.Sprintf("Transcript must be between %d and %d characters", limits.Min, limits.Max),
		})
	}
	req.Transcript = transcript

	req.Style = styles.Default
	if raw.SummaryType != nil {
		style, isString := raw.SummaryType.(string)
		if !isString || !styles.Contains(Style(style)) {
			violations = append(violations, Violation{
				Param:   ParamSummaryType,
				Message: "Invalid summary type. Supported types: " + strings.Join(styles.Names(), ", "),
			})
		} else {
			req.Style = Style(style)
		}
	}

	if len(violations) > 0 {
		return Request{}, violations
	}
	return req, nil
}

// coerceString renders a decoded JSON scalar as text. Objects, arrays and
// null have no text form and count as empty.
func coerceString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}
