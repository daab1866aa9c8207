package calculator

import "errors"

var (
	// ErrInsufficientData is returned when a series is shorter than the window.
	ErrInsufficientData = errors.New("not enough data")
	// ErrInvalidPeriod is returned for non-positive or inconsistent periods.
	ErrInvalidPeriod = errors.New("period must be positive")
)
