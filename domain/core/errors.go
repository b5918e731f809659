package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidArgument covers bad enum values, shape/length mismatches,
	// out-of-range or duplicated axes, below-minimum sample sizes, and
	// exact-method requests that the input cannot satisfy.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidInput is returned when nan_policy is "raise" and an input
	// contains NaN. Detected before any statistic computation begins.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by repositories for missing records.
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)
)

// Error constructors with context
func NewInvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func NewInvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
