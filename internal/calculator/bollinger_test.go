package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBollinger_Reference(t *testing.T) {
	// Population std-dev of this window is exactly 2.
	b, err := CalculateBollinger([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8, 2)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, b.Middle, 1e-12)
	assert.InDelta(t, 9.0, b.Upper, 1e-12)
	assert.InDelta(t, 1.0, b.Lower, 1e-12)
	assert.InDelta(t, 8.0, b.Width, 1e-12)
	assert.Equal(t, 0.0, b.PrevWidth)
	assert.InDelta(t, 1.0, b.PercentB, 1e-12)
}

func TestCalculateBollinger_Flat(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 1.1
	}
	b, err := CalculateBollinger(prices, 20, 2)
	require.NoError(t, err)
	assert.Equal(t, b.Middle, b.Upper)
	assert.Equal(t, b.Middle, b.Lower)
	assert.Equal(t, 0.5, b.PercentB)
	assert.False(t, b.Widening())
}

func TestCalculateBollinger_Ordering(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	closes := randomWalk(rng, 300, 50)
	for end := 20; end <= len(closes); end++ {
		b, err := CalculateBollinger(closes[:end], 20, 2)
		require.NoError(t, err)
		if !(b.Upper >= b.Middle && b.Middle >= b.Lower) {
			t.Fatalf("bands out of order at %d: %+v", end, b)
		}
	}
}

func TestCalculateBollinger_InsufficientData(t *testing.T) {
	_, err := CalculateBollinger([]float64{1, 2, 3}, 20, 2)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
