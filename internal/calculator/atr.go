package calculator

import (
	"fmt"
	"math"
)

// TrueRange returns the true range of candle i against the previous close.
func TrueRange(high, low, prevClose float64) float64 {
	return math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
}

// CalculateATR computes the Wilder-smoothed average true range.
// Needs period+1 candles because the first true range uses the previous close.
func CalculateATR(highs, lows, closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	n := len(closes)
	if len(highs) != n || len(lows) != n {
		return 0, fmt.Errorf("atr: mismatched input lengths %d/%d/%d", len(highs), len(lows), n)
	}
	if n < period+1 {
		return 0, fmt.Errorf("atr(%d) over %d candles: %w", period, n, ErrInsufficientData)
	}

	atr := 0.0
	for i := 1; i <= period; i++ {
		atr += TrueRange(highs[i], lows[i], closes[i-1])
	}
	atr /= float64(period)
	for i := period + 1; i < n; i++ {
		tr := TrueRange(highs[i], lows[i], closes[i-1])
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr, nil
}
