package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalSentinel/internal/model"
)

func TestClassifyCloses(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   model.PriceAction
	}{
		{"two rises", []float64{1, 2, 3}, model.PriceActionBullish},
		{"two falls", []float64{3, 2, 1}, model.PriceActionBearish},
		{"mixed", []float64{1, 3, 2}, model.PriceActionNeutral},
		{"flat", []float64{2, 2, 2}, model.PriceActionNeutral},
		{"only newest three count", []float64{9, 8, 7, 1, 2, 3}, model.PriceActionBullish},
		{"too short", []float64{1, 2}, model.PriceActionNeutral},
		{"empty", nil, model.PriceActionNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCloses(tt.closes))
		})
	}
}

func TestIsPinBar(t *testing.T) {
	assert.True(t, IsPinBar(model.Candle{Open: 10, Close: 10.2, High: 11, Low: 9}, 0.3))
	assert.False(t, IsPinBar(model.Candle{Open: 9.2, Close: 10.8, High: 11, Low: 9}, 0.3))
	assert.False(t, IsPinBar(model.Candle{Open: 10, Close: 10, High: 10, Low: 10}, 0.3), "zero range")
}

func TestDetect(t *testing.T) {
	candles := []model.Candle{
		{Open: 10, High: 10.5, Low: 9.5, Close: 10.2},
		{Open: 10.2, High: 10.6, Low: 9.9, Close: 10.1},
		// Green pin bar with a long lower wick.
		{Open: 10.1, High: 10.3, Low: 9.0, Close: 10.2},
	}

	res := Detect(candles, 0.3, false)
	assert.Equal(t, model.PriceActionNeutral, res.Label)
	assert.True(t, res.HasPinBar)
	assert.Equal(t, model.PriceActionBullish, res.PinDirection)

	res = Detect(candles, 0.3, true)
	assert.Equal(t, model.PriceActionBullish, res.Label, "pin bar overrides neutral label")

	res = Detect(nil, 0, true)
	assert.Equal(t, model.PriceActionNeutral, res.Label)
	assert.False(t, res.HasPinBar)
}
