package models

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a local input error. It never reaches an upstream
// provider and maps to HTTP 400.
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
	}
	return e.Reason
}

// NewMissingFieldsError builds a ValidationError listing the absent fields.
func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{Missing: fields}
}

// NewValidationError builds a ValidationError for a semantic violation.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// UpstreamError is a non-2xx or transport failure from a provider. The raw
// provider body is kept for diagnosis; handlers decide how much of it the
// client gets to see.
type UpstreamError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure is worth retrying: network errors
// and 5xx responses are, provider 4xx rejections are not.
func (e *UpstreamError) Transient() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode >= 500
}

// AsValidationError unwraps err into a *ValidationError if possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsUpstreamError unwraps err into a *UpstreamError if possible.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
