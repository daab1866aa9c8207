package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

var swingCloses = []float64{10, 11, 12, 11, 10, 9, 10, 11, 12.01, 11, 10, 9.01, 10, 11, 11.5, 11, 10}

func TestFindSupportResistance(t *testing.T) {
	sup, res, err := FindSupportResistance(swingCloses, 2, 0.002, 5)
	require.NoError(t, err)

	require.Len(t, sup, 1)
	assert.InDelta(t, 9.005, sup[0].Price, 1e-9)
	assert.Equal(t, 2, sup[0].Strength)

	require.Len(t, res, 2)
	assert.InDelta(t, 12.005, res[0].Price, 1e-9)
	assert.Equal(t, 2, res[0].Strength)
	assert.InDelta(t, 11.5, res[1].Price, 1e-9)
	assert.Equal(t, 1, res[1].Strength)
}

func TestFindSupportResistance_TopK(t *testing.T) {
	_, res, err := FindSupportResistance(swingCloses, 2, 0.002, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 2, res[0].Strength)
}

func TestFindSupportResistance_Errors(t *testing.T) {
	_, _, err := FindSupportResistance([]float64{1, 2, 3}, 2, 0.002, 5)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, _, err = FindSupportResistance(swingCloses, 0, 0.002, 5)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestNearestLevels(t *testing.T) {
	levels := []model.Level{{Price: 9.0}, {Price: 9.8}, {Price: 11.5}, {Price: 12.0}}

	s, ok := NearestSupport(levels, 10)
	require.True(t, ok)
	assert.Equal(t, 9.8, s.Price)

	r, ok := NearestResistance(levels, 11.7)
	require.True(t, ok)
	assert.Equal(t, 12.0, r.Price)

	_, ok = NearestSupport(levels, 8)
	assert.False(t, ok)
	_, ok = NearestResistance(levels, 13)
	assert.False(t, ok)
}
