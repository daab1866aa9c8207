package calculator

import "fmt"

// CalculateRSISeries computes the Wilder-smoothed RSI for every close from
// index `period` onward. The first averages are the simple means of the first
// `period` changes.
func CalculateRSISeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(closes) < period+1 {
		return nil, fmt.Errorf("rsi(%d) over %d closes: %w", period, len(closes), ErrInsufficientData)
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := make([]float64, 0, len(closes)-period)
	out = append(out, rsiFromAverages(avgGain, avgLoss))
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out = append(out, rsiFromAverages(avgGain, avgLoss))
	}
	return out, nil
}

// CalculateRSI returns the newest RSI value.
// Requires at least period+1 closes. Returns 50.0 if data is insufficient.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(closes) < period+1 {
		return 50.0, nil
	}
	series, err := CalculateRSISeries(closes, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// CalculateSmoothedRSI returns EMA(smoothing) of the RSI series.
func CalculateSmoothedRSI(closes []float64, period, smoothing int) (float64, error) {
	series, err := CalculateRSISeries(closes, period)
	if err != nil {
		return 0, err
	}
	return CalculateEMA(series, smoothing)
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0 // flat
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
