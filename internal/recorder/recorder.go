package recorder

import (
	"time"

	"SignalSentinel/internal/model"
)

// CycleSummary aggregates the outcomes of one analysis cycle.
type CycleSummary struct {
	ID         string
	StartedAt  time.Time
	Duration   time.Duration
	Trigger    string // "schedule", "manual" or "startup"
	Symbols    int
	Signals    int
	Holds      int
	Duplicates int
	Suppressed int
	NoData     int
}

// Recorder persists an audit trail of accepted signals and cycles.
type Recorder interface {
	RecordSignal(sig *model.Signal) error
	RecordCycle(c *CycleSummary) error
	Close() error
}
