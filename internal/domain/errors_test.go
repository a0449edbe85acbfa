package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("rating", "required")

	if got := err.Error(); got != "validation: rating: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "policy", Message: "unknown"},
		{Field: "top_n", Message: "must be positive"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	all := []error{ErrNotFound, ErrValidation, ErrConflict, ErrFormat, ErrEmptyDataset, ErrTransport, ErrCorruptState}
	for i := range all {
		for j := range all {
			if i != j && errors.Is(all[i], all[j]) {
				t.Errorf("%v should not match %v", all[i], all[j])
			}
		}
	}
}

func TestFormatError_UnwrapsToErrFormat(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load: %w", &FormatError{Header: []string{"a", "b"}, Reason: "unknown header"})

	if !errors.Is(err, ErrFormat) {
		t.Fatal("errors.Is(err, ErrFormat) = false")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatal("errors.As(*FormatError) = false")
	}
	if got := fe.Error(); got != "dataset format: unknown header (header: a,b)" {
		t.Errorf("unexpected Error(): %q", got)
	}
}

func TestTransportError_UnwrapsBoth(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &TransportError{URL: "http://x/vocab.csv", Err: cause}

	if !errors.Is(err, ErrTransport) {
		t.Error("errors.Is(err, ErrTransport) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}

	status := &TransportError{URL: "http://x/vocab.csv", Status: 404}
	if got := status.Error(); got != "fetch http://x/vocab.csv: unexpected status 404" {
		t.Errorf("unexpected Error(): %q", got)
	}
}

func TestIsLoadFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"format", &FormatError{Reason: "x"}, true},
		{"empty", &EmptyDatasetError{Skipped: 3}, true},
		{"transport", &TransportError{URL: "u", Status: 500}, true},
		{"wrapped", fmt.Errorf("ctx: %w", ErrEmptyDataset), true},
		{"not found", ErrNotFound, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsLoadFailure(tt.err); got != tt.want {
				t.Errorf("IsLoadFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
