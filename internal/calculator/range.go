package calculator

import (
	"errors"
	"fmt"
	"math"
)

// CalculateHighLow scans the newest n candles and returns the high and low.
func CalculateHighLow(highs, lows []float64, n int) (high, low float64, err error) {
	if len(highs) == 0 || len(highs) != len(lows) {
		return 0, 0, errors.New("no bars provided")
	}
	if n <= 0 {
		return 0, 0, ErrInvalidPeriod
	}
	start := len(highs) - n
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(highs); i++ {
		if highs[i] > high {
			high = highs[i]
		}
		if lows[i] < low {
			low = lows[i]
		}
	}
	return high, low, nil
}

// CalculateRangeVolatility returns (highest high - lowest low) over the newest
// `period` candles, normalized by price.
func CalculateRangeVolatility(highs, lows []float64, price float64, period int) (float64, error) {
	if len(highs) < period {
		return 0, fmt.Errorf("range(%d) over %d candles: %w", period, len(highs), ErrInsufficientData)
	}
	if price <= 0 {
		return 0, errors.New("price must be positive")
	}
	high, low, err := CalculateHighLow(highs, lows, period)
	if err != nil {
		return 0, err
	}
	return (high - low) / price, nil
}

// CalculateRangePosition returns where price sits within [low, high] (0.0~1.0).
func CalculateRangePosition(price, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (price - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
