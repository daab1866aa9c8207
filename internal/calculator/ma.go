package calculator

import "fmt"

// CalculateSMA computes the simple moving average of the newest `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(prices) < period {
		return 0, fmt.Errorf("sma(%d) over %d prices: %w", period, len(prices), ErrInsufficientData)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateEMASeries returns the exponential moving average for every index
// from period-1 to the end. The seed is the SMA of the oldest `period` prices.
func CalculateEMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(prices) < period {
		return nil, fmt.Errorf("ema(%d) over %d prices: %w", period, len(prices), ErrInsufficientData)
	}
	k := 2.0 / float64(period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += prices[i]
	}
	out := make([]float64, 0, len(prices)-period+1)
	ema := seed / float64(period)
	out = append(out, ema)
	for i := period; i < len(prices); i++ {
		ema = prices[i]*k + ema*(1-k)
		out = append(out, ema)
	}
	return out, nil
}

// CalculateEMA returns the newest value of CalculateEMASeries.
func CalculateEMA(prices []float64, period int) (float64, error) {
	series, err := CalculateEMASeries(prices, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// CalculateMA dispatches on the moving average kind ("sma" or "ema").
func CalculateMA(kind string, prices []float64, period int) (float64, error) {
	switch kind {
	case "ema":
		return CalculateEMA(prices, period)
	case "sma", "":
		return CalculateSMA(prices, period)
	default:
		return 0, fmt.Errorf("unknown moving average %q", kind)
	}
}
