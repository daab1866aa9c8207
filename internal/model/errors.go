package model

import "errors"

// Error kinds shared across the pipeline. Wrap with fmt.Errorf("...: %w")
// and classify with errors.Is.
var (
	// ErrDataUnavailable: the fetch failed or returned too few candles.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientHistory: an indicator window exceeds the series length.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrComputation: an indicator produced NaN or Inf.
	ErrComputation = errors.New("computation error")
	// ErrConfiguration: invalid or missing configuration. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")
)
