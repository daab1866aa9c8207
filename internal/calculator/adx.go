package calculator

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"
)

// CalculateADX computes Wilder's ADX with +DI and -DI. Needs 2*period candles.
// Zero true range yields zero DI, and zero DI sum yields zero DX.
func CalculateADX(highs, lows, closes []float64, period int) (model.ADXValue, error) {
	if period <= 0 {
		return model.ADXValue{}, ErrInvalidPeriod
	}
	n := len(closes)
	if len(highs) != n || len(lows) != n {
		return model.ADXValue{}, fmt.Errorf("adx: mismatched input lengths %d/%d/%d", len(highs), len(lows), n)
	}
	if n < 2*period {
		return model.ADXValue{}, fmt.Errorf("adx(%d) over %d candles: %w", period, n, ErrInsufficientData)
	}

	p := float64(period)
	var smTR, smPlus, smMinus float64
	var plusDI, minusDI, adx float64
	dxSum := 0.0
	dxCount := 0

	for i := 1; i < n; i++ {
		tr := TrueRange(highs[i], lows[i], closes[i-1])
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		plusDM, minusDM := 0.0, 0.0
		if up > down && up > 0 {
			plusDM = up
		}
		if down > up && down > 0 {
			minusDM = down
		}

		if i <= period {
			smTR += tr
			smPlus += plusDM
			smMinus += minusDM
			if i < period {
				continue
			}
		} else {
			smTR = smTR - smTR/p + tr
			smPlus = smPlus - smPlus/p + plusDM
			smMinus = smMinus - smMinus/p + minusDM
		}

		plusDI, minusDI = 0, 0
		if smTR > 0 {
			plusDI = 100 * smPlus / smTR
			minusDI = 100 * smMinus / smTR
		}
		dx := 0.0
		if sum := plusDI + minusDI; sum > 0 {
			dx = 100 * math.Abs(plusDI-minusDI) / sum
		}

		if dxCount < period {
			dxSum += dx
			dxCount++
			if dxCount == period {
				adx = dxSum / p
			}
			continue
		}
		adx = (adx*(p-1) + dx) / p
	}
	return model.ADXValue{ADX: adx, PlusDI: plusDI, MinusDI: minusDI}, nil
}
