package signalstore

import (
	"time"

	"SignalSentinel/internal/model"
)

// DefaultCooldown is the minimum gap before an identical signal is re-emitted.
const DefaultCooldown = 60 * time.Minute

// Outcome is the result of offering a candidate to the store.
type Outcome string

const (
	Accepted  Outcome = "accepted"
	Duplicate Outcome = "duplicate"
	Rejected  Outcome = "rejected"
)

// IsDuplicate reports whether candidate repeats prev within the cooldown.
func IsDuplicate(prev, candidate *model.Signal, cooldown time.Duration) bool {
	if prev == nil || candidate == nil {
		return false
	}
	if prev.Symbol != candidate.Symbol || prev.Direction != candidate.Direction {
		return false
	}
	return candidate.Timestamp.Sub(prev.Timestamp) < cooldown
}
