package errors

import (
	"errors"
	"net/http"
)

// Codes shared between the domain and transport layers.
const (
	CodeInvalidInput  = "invalid_input"
	CodeBodyTooLarge  = "body_too_large"
	CodeRateLimited   = "rate_limited"
	CodeTimeout       = "timeout"
	CodeModelLoading  = "model_loading"
	CodeProviderError = "provider_error"
	CodeNotFound      = "not_found"
	CodeInternal      = "internal_error"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
	// Status is the upstream HTTP status when the failure came from a remote call.
	Status int
	// Detail carries a diagnostic payload safe to echo to clients.
	Detail any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches the upstream status and diagnostic payload.
func (e *AppError) WithDetail(status int, detail any) *AppError {
	e.Status = status
	e.Detail = detail
	return e
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	return New(code, message, err)
}

// New is Wrap returning the concrete type so callers can chain WithDetail.
func New(code, message string, err error) *AppError {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost AppError, or CodeInternal.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// As unwraps err into an AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// UpstreamStatus reports the upstream status of err, or 0.
func UpstreamStatus(err error) int {
	if appErr, ok := As(err); ok && appErr.Status >= http.StatusContinue {
		return appErr.Status
	}
	return 0
}
