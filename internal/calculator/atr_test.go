package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bandAround(closes []float64, half float64) (highs, lows []float64) {
	highs = make([]float64, len(closes))
	lows = make([]float64, len(closes))
	for i, c := range closes {
		highs[i] = c + half
		lows[i] = c - half
	}
	return highs, lows
}

func TestTrueRange(t *testing.T) {
	assert.Equal(t, 2.0, TrueRange(11, 9, 10))
	assert.Equal(t, 5.0, TrueRange(11, 9, 4), "gap up uses prior close")
	assert.Equal(t, 6.0, TrueRange(11, 9, 15), "gap down uses prior close")
}

func TestCalculateATR(t *testing.T) {
	highs, lows := bandAround(wilderCloses, 0.5)
	atr, err := CalculateATR(highs, lows, wilderCloses, 14)
	require.NoError(t, err)
	assert.InDelta(t, 1.026918, atr, 1e-5)

	flat := []float64{5, 5, 5, 5, 5}
	atr, err = CalculateATR(flat, flat, flat, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, atr)

	_, err = CalculateATR(highs[:5], lows[:5], wilderCloses[:5], 14)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateATR(highs[:4], lows, wilderCloses, 3)
	assert.Error(t, err)
}

func TestCalculateADX(t *testing.T) {
	highs, lows := bandAround(wilderCloses, 0.5)
	adx, err := CalculateADX(highs, lows, wilderCloses, 5)
	require.NoError(t, err)
	assert.InDelta(t, 28.763851, adx.ADX, 1e-4)
	assert.InDelta(t, 11.928754, adx.PlusDI, 1e-4)
	assert.InDelta(t, 19.373334, adx.MinusDI, 1e-4)

	_, err = CalculateADX(highs[:9], lows[:9], wilderCloses[:9], 5)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateADX_Flat(t *testing.T) {
	flat := make([]float64, 60)
	for i := range flat {
		flat[i] = 2.5
	}
	adx, err := CalculateADX(flat, flat, flat, 14)
	require.NoError(t, err)
	assert.Equal(t, 0.0, adx.ADX)
	assert.Equal(t, 0.0, adx.PlusDI)
	assert.Equal(t, 0.0, adx.MinusDI)
}

func TestCalculateADX_StrongTrend(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	highs, lows := bandAround(closes, 0.5)
	adx, err := CalculateADX(highs, lows, closes, 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, adx.ADX, 1e-9)
	assert.Greater(t, adx.PlusDI, adx.MinusDI)
}
