// Package pattern detects short-term price action on the newest candles.
package pattern

import (
	"math"

	"SignalSentinel/internal/model"
)

// DefaultPinBarBodyRatio is the maximum body/range ratio of a pin bar.
const DefaultPinBarBodyRatio = 0.3

// Result is the outcome of price-action detection.
type Result struct {
	Label        model.PriceAction
	HasPinBar    bool
	PinDirection model.PriceAction
}

// ClassifyCloses labels the newest three closes. Two rises out of the two
// consecutive pairs is bullish, two falls bearish; anything else, or fewer
// than three closes, is neutral.
func ClassifyCloses(closes []float64) model.PriceAction {
	if len(closes) < 3 {
		return model.PriceActionNeutral
	}
	last := closes[len(closes)-3:]
	up, down := 0, 0
	for i := 1; i < len(last); i++ {
		switch {
		case last[i] > last[i-1]:
			up++
		case last[i] < last[i-1]:
			down++
		}
	}
	switch {
	case up >= 2:
		return model.PriceActionBullish
	case down >= 2:
		return model.PriceActionBearish
	default:
		return model.PriceActionNeutral
	}
}

// IsPinBar reports whether the body is smaller than bodyRatio of the range.
// A zero-range candle is never a pin bar.
func IsPinBar(c model.Candle, bodyRatio float64) bool {
	rng := c.High - c.Low
	if rng <= 0 {
		return false
	}
	return math.Abs(c.Close-c.Open) < bodyRatio*rng
}

// CandleDirection is bullish for a green body, bearish for red.
func CandleDirection(c model.Candle) model.PriceAction {
	switch {
	case c.Close > c.Open:
		return model.PriceActionBullish
	case c.Close < c.Open:
		return model.PriceActionBearish
	default:
		return model.PriceActionNeutral
	}
}

// Detect runs both detectors over an oldest-first candle slice. When
// pinOverridesLabel is set, a directional pin bar replaces a neutral label.
func Detect(candles []model.Candle, bodyRatio float64, pinOverridesLabel bool) Result {
	if bodyRatio <= 0 {
		bodyRatio = DefaultPinBarBodyRatio
	}
	closes := make([]float64, 0, 3)
	for _, c := range tail(candles, 3) {
		closes = append(closes, c.Close)
	}
	res := Result{Label: ClassifyCloses(closes), PinDirection: model.PriceActionNeutral}
	if len(candles) == 0 {
		return res
	}

	last := candles[len(candles)-1]
	if IsPinBar(last, bodyRatio) {
		res.HasPinBar = true
		res.PinDirection = CandleDirection(last)
		if pinOverridesLabel && res.Label == model.PriceActionNeutral && res.PinDirection != model.PriceActionNeutral {
			res.Label = res.PinDirection
		}
	}
	return res
}

func tail(candles []model.Candle, n int) []model.Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}
