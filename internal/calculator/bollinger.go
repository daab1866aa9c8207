package calculator

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"
)

// CalculateBollinger computes bands of k population standard deviations
// around the SMA of the newest `period` prices. PrevWidth is the width one
// candle earlier, 0 when the series is exactly `period` long.
func CalculateBollinger(prices []float64, period int, k float64) (model.BollingerValue, error) {
	if period <= 0 {
		return model.BollingerValue{}, ErrInvalidPeriod
	}
	if len(prices) < period {
		return model.BollingerValue{}, fmt.Errorf("bollinger(%d) over %d prices: %w", period, len(prices), ErrInsufficientData)
	}

	middle, sd := meanStdDev(prices[len(prices)-period:])
	b := model.BollingerValue{
		Middle: middle,
		Upper:  middle + k*sd,
		Lower:  middle - k*sd,
	}
	b.Width = b.Upper - b.Lower
	if len(prices) > period {
		_, prevSD := meanStdDev(prices[len(prices)-period-1 : len(prices)-1])
		b.PrevWidth = 2 * k * prevSD
	}

	price := prices[len(prices)-1]
	if b.Width == 0 {
		b.PercentB = 0.5
	} else {
		b.PercentB = (price - b.Lower) / b.Width
	}
	return b, nil
}

func meanStdDev(window []float64) (mean, sd float64) {
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	variance := 0.0
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(window))
	return mean, math.Sqrt(variance)
}
