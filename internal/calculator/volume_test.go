package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateVolumeRatio(t *testing.T) {
	ratio, err := CalculateVolumeRatio([]float64{100, 100, 100, 50}, 4)
	require.NoError(t, err)
	assert.InDelta(t, 50.0/87.5, ratio, 1e-12)
	assert.True(t, IsLowVolume(ratio, 0.7))

	ratio, err = CalculateVolumeRatio([]float64{0, 0, 0, 0}, 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ratio)
	assert.False(t, IsLowVolume(ratio, 0.7), "missing volume never counts as low")

	_, err = CalculateVolumeRatio([]float64{1}, 4)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestRangeHelpers(t *testing.T) {
	highs := []float64{10, 12, 11, 13, 12}
	lows := []float64{9, 10, 8, 11, 11}

	h, l, err := CalculateHighLow(highs, lows, 3)
	require.NoError(t, err)
	assert.Equal(t, 13.0, h)
	assert.Equal(t, 8.0, l)

	vol, err := CalculateRangeVolatility(highs, lows, 10, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, vol, 1e-12)

	_, err = CalculateRangeVolatility(highs, lows, 10, 14)
	assert.ErrorIs(t, err, ErrInsufficientData)

	pos, err := CalculateRangePosition(10.5, 13, 8)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pos, 1e-12)

	pos, err = CalculateRangePosition(5, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	_, err = CalculateRangePosition(5, 4, 6)
	assert.Error(t, err)
}
