// Package risk sizes stop-loss and take-profit levels per instrument.
package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"SignalSentinel/internal/model"
)

// VolatilitySource selects which snapshot reading drives the stop distance.
type VolatilitySource string

const (
	// VolatilityATR uses the absolute average true range.
	VolatilityATR VolatilitySource = "atr"
	// VolatilityRange uses the normalized high-low range scaled by entry.
	VolatilityRange VolatilitySource = "range"
)

// DefaultRewardRatio is the target/stop ratio when a policy leaves it unset.
const DefaultRewardRatio = 2.0

// Policy is a profile's stop sizing rule. The stop distance is the largest
// of the pip floor, the percent floor and volatility times Multiplier.
type Policy struct {
	Volatility     VolatilitySource `yaml:"volatility" json:"volatility"`
	Multiplier     float64          `yaml:"multiplier" json:"multiplier"`
	RewardRatio    float64          `yaml:"reward_ratio" json:"reward_ratio"`
	MinStopPips    float64          `yaml:"min_stop_pips" json:"min_stop_pips"`
	MinStopPercent float64          `yaml:"min_stop_percent" json:"min_stop_percent"`
}

// Validate checks the policy values.
func (p Policy) Validate() error {
	switch p.Volatility {
	case VolatilityATR, VolatilityRange:
	default:
		return fmt.Errorf("risk.volatility must be %q or %q, got %q", VolatilityATR, VolatilityRange, p.Volatility)
	}
	if p.Multiplier < 0 || p.MinStopPips < 0 || p.MinStopPercent < 0 || p.RewardRatio < 0 {
		return errors.New("risk values must not be negative")
	}
	if p.Multiplier == 0 && p.MinStopPips == 0 && p.MinStopPercent == 0 {
		return errors.New("risk policy yields a zero stop distance")
	}
	return nil
}

// Estimate returns the absolute volatility the policy sizes against.
func (p Policy) Estimate(snap *model.IndicatorSnapshot) float64 {
	if p.Volatility == VolatilityRange {
		return snap.RangeVolatility * snap.Price
	}
	return snap.ATR
}

// Levels is the sized trade plan.
type Levels struct {
	Entry          float64
	StopLoss       float64
	TakeProfit     float64
	StopDistance   float64
	TargetDistance float64
	Pips           float64
}

// Manager sizes levels for symbols resolved through its registry.
type Manager struct {
	Instruments *Registry
}

// NewManager creates a Manager.
func NewManager(reg *Registry) *Manager {
	if reg == nil {
		reg = NewRegistry(nil)
	}
	return &Manager{Instruments: reg}
}

// SizeFor looks up the instrument and sizes levels for it.
func (m *Manager) SizeFor(symbol string, entry float64, dir model.Direction, volatility float64, p Policy) Levels {
	return Size(entry, dir, m.Instruments.Lookup(symbol), volatility, p)
}

// Size computes stop and target around entry. HOLD leaves both at entry.
// All prices are quantized to the instrument precision.
func Size(entry float64, dir model.Direction, inst Instrument, volatility float64, p Policy) Levels {
	q := func(v float64) float64 { return quantize(v, inst.Precision) }
	lv := Levels{Entry: q(entry), StopLoss: q(entry), TakeProfit: q(entry)}
	if dir != model.DirectionBuy && dir != model.DirectionSell {
		return lv
	}

	ratio := p.RewardRatio
	if ratio == 0 {
		ratio = DefaultRewardRatio
	}
	floor := math.Max(p.MinStopPips*inst.PipSize, entry*p.MinStopPercent/100)
	stop := math.Max(floor, volatility*p.Multiplier)
	target := stop * ratio

	lv.StopDistance = q(stop)
	lv.TargetDistance = q(target)
	if inst.PipSize > 0 {
		lv.Pips = quantize(stop/inst.PipSize, 1)
	}
	if dir == model.DirectionBuy {
		lv.StopLoss = q(entry - stop)
		lv.TakeProfit = q(entry + target)
	} else {
		lv.StopLoss = q(entry + stop)
		lv.TakeProfit = q(entry - target)
	}
	return lv
}

func quantize(v float64, precision int) float64 {
	f, _ := decimal.NewFromFloat(v).Round(int32(precision)).Float64()
	return f
}
