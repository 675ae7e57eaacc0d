package pipeline

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed client input. It maps to HTTP 400 and
// is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// FetchError reports a remote image that could not be used.
type FetchError struct {
	URL    string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CompositionError reports a failure after all inputs were valid. It maps
// to HTTP 500.
type CompositionError struct {
	Step string
	Err  error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// AsComposition wraps err in a CompositionError unless it is already a
// ValidationError or CompositionError.
func AsComposition(step string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	var ce *CompositionError
	if errors.As(err, &ce) {
		return err
	}
	return &CompositionError{Step: step, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
