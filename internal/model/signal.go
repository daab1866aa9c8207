package model

import "time"

// Direction is the recommendation of one analysis cycle.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionHold Direction = "HOLD"
)

// Tier buckets the confidence percentage.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// FactorScore is one confidence factor's contribution.
type FactorScore struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Credit   float64 `json:"credit"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason,omitempty"`
}

// Signal is an accepted BUY or SELL recommendation. HOLD is never stored.
type Signal struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`
	Profile   string    `json:"profile"`
	Timestamp time.Time `json:"timestamp"`

	EntryPrice     float64 `json:"entry_price"`
	StopLoss       float64 `json:"stop_loss"`
	TakeProfit     float64 `json:"take_profit"`
	StopDistance   float64 `json:"stop_distance"`
	TargetDistance float64 `json:"target_distance"`
	Pips           float64 `json:"pips"`

	ConfidencePercent float64       `json:"confidence_percent"`
	ConfidenceTier    Tier          `json:"confidence_tier"`
	Factors           []FactorScore `json:"factors,omitempty"`

	BullishCount   int      `json:"bullish_count"`
	BearishCount   int      `json:"bearish_count"`
	ConditionTotal int      `json:"condition_total"`
	Reasons        []string `json:"reasons,omitempty"`
}

// StatusState is the per-symbol outcome shown to presentation collaborators.
type StatusState string

const (
	StatusAnalyzing  StatusState = "analyzing"
	StatusSignal     StatusState = "signal"
	StatusHold       StatusState = "hold"
	StatusDuplicate  StatusState = "duplicate"
	StatusSuppressed StatusState = "suppressed"
	StatusNoData     StatusState = "no_data"
)

// Status reports where a symbol's pipeline currently stands.
type Status struct {
	Symbol    string      `json:"symbol"`
	State     StatusState `json:"state"`
	Message   string      `json:"message,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}
