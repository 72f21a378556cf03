package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Fold construction errors
	ErrShapeMismatch = errors.New("field lengths do not match")
	ErrNotNumeric    = errors.New("field contains non-numeric values")

	// Collection construction errors
	ErrEmptyCollection       = errors.New("collection needs at least two folds")
	ErrKeyMismatch           = errors.New("fold keys do not match")
	ErrFieldPresenceMismatch = errors.New("optional field present on some folds only")
	ErrColumnMismatch        = errors.New("feature columns do not match")

	// Metric computation errors
	ErrInsufficientSamples = errors.New("metric needs more than one sample")

	// Adapter errors
	ErrMissingColumn     = errors.New("required column missing")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Error constructors with context
func NewShapeMismatchError(field string, got int, reference string, want int) error {
	return fmt.Errorf("%w: %s has length %d whereas %s has length %d",
		ErrShapeMismatch, field, got, reference, want)
}

func NewNotNumericError(field string, index int) error {
	return fmt.Errorf("%w: %s at index %d", ErrNotNumeric, field, index)
}

func NewKeyMismatchError(got, want string) error {
	return fmt.Errorf("%w: got %q, want %q", ErrKeyMismatch, got, want)
}

func NewFieldPresenceMismatchError(field string) error {
	return fmt.Errorf("%w: either all or none of the folds may carry %s",
		ErrFieldPresenceMismatch, field)
}

// Error checking helpers
func IsConstructionError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrEmptyCollection) ||
		errors.Is(err, ErrKeyMismatch) ||
		errors.Is(err, ErrFieldPresenceMismatch) ||
		errors.Is(err, ErrColumnMismatch)
}

func IsMetricError(err error) bool {
	return errors.Is(err, ErrInsufficientSamples)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}
