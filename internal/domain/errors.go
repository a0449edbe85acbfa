package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrFormat       = errors.New("unrecognized dataset format")
	ErrEmptyDataset = errors.New("no valid rows in dataset")
	ErrTransport    = errors.New("dataset transport failed")
	ErrCorruptState = errors.New("persisted state corrupt")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// FormatError reports a dataset whose shape cannot be parsed at all:
// too few lines, or a header matching no known schema.
type FormatError struct {
	Header []string
	Reason string
}

func (e *FormatError) Error() string {
	if len(e.Header) == 0 {
		return fmt.Sprintf("dataset format: %s", e.Reason)
	}
	return fmt.Sprintf("dataset format: %s (header: %s)", e.Reason, strings.Join(e.Header, ","))
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// EmptyDatasetError reports a dataset where every data row was skipped.
type EmptyDatasetError struct {
	Skipped int
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("dataset empty: %d rows skipped, none valid", e.Skipped)
}

func (e *EmptyDatasetError) Unwrap() error { return ErrEmptyDataset }

// TransportError reports a failed fetch of the dataset. Status is zero when
// no HTTP response was received.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: failed", e.URL)
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// IsLoadFailure reports whether err is one of the dataset load failures that
// trigger the sample-data fallback.
func IsLoadFailure(err error) bool {
	return errors.Is(err, ErrFormat) || errors.Is(err, ErrEmptyDataset) || errors.Is(err, ErrTransport)
}
