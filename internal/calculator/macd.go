package calculator

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// CalculateMACD returns the newest MACD line, signal line and histogram along
// with the previous histogram value. Needs at least slow+signal prices.
func CalculateMACD(prices []float64, fast, slow, signal int) (model.MACDValue, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return model.MACDValue{}, ErrInvalidPeriod
	}
	if fast >= slow {
		return model.MACDValue{}, fmt.Errorf("macd fast (%d) must be below slow (%d): %w", fast, slow, ErrInvalidPeriod)
	}
	if len(prices) < slow+signal {
		return model.MACDValue{}, fmt.Errorf("macd(%d,%d,%d) over %d prices: %w", fast, slow, signal, len(prices), ErrInsufficientData)
	}

	fastEMA, err := CalculateEMASeries(prices, fast)
	if err != nil {
		return model.MACDValue{}, err
	}
	slowEMA, err := CalculateEMASeries(prices, slow)
	if err != nil {
		return model.MACDValue{}, err
	}

	// Both series end at the newest price; fastEMA is longer by slow-fast.
	offset := slow - fast
	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine, err := CalculateEMASeries(line, signal)
	if err != nil {
		return model.MACDValue{}, err
	}

	n, m := len(line), len(signalLine)
	out := model.MACDValue{
		MACD:      line[n-1],
		Signal:    signalLine[m-1],
		Histogram: line[n-1] - signalLine[m-1],
	}
	if m >= 2 {
		out.PrevHistogram = line[n-2] - signalLine[m-2]
	}
	return out, nil
}
