package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInsufficientData means a detector or metric cannot run on the given
	// series length. The affected computation returns a not-computable
	// sentinel while the rest of the pipeline proceeds.
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// ErrInvalidConfig is raised by eager config validation before any
	// computation starts.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotComputable marks a metric whose mathematical preconditions do
	// not hold for the input (degenerate variance, no template matches).
	ErrNotComputable = errors.New("metric not computable")

	// ErrNonMonotonicTime means the input series timestamps decrease.
	ErrNonMonotonicTime = errors.New("series timestamps must be non-decreasing")
)

// Error constructors with context
func NewInsufficientDataError(what string, need, got int) error {
	return fmt.Errorf("%w: %s needs at least %d samples, got %d", ErrInsufficientData, what, need, got)
}

func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

func NewNotComputableError(metric string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrNotComputable, metric, reason)
}

// Error checking helpers
func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

func IsNotComputableError(err error) bool {
	return errors.Is(err, ErrNotComputable)
}
