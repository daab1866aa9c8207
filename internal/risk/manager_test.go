package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func TestSize_FortyPipStop(t *testing.T) {
	inst := Classify("EUR/USD")
	require.Equal(t, ClassFX, inst.Class)

	p := Policy{Volatility: VolatilityATR, Multiplier: 1.5, RewardRatio: 2, MinStopPips: 40}
	lv := Size(1.2000, model.DirectionBuy, inst, 0.0001, p)
	assert.Equal(t, 1.196, lv.StopLoss)
	assert.Equal(t, 1.208, lv.TakeProfit)
	assert.Equal(t, 0.004, lv.StopDistance)
	assert.Equal(t, 0.008, lv.TargetDistance)
	assert.Equal(t, 40.0, lv.Pips)

	lv = Size(1.2000, model.DirectionSell, inst, 0.0001, p)
	assert.Equal(t, 1.204, lv.StopLoss)
	assert.Equal(t, 1.192, lv.TakeProfit)
}

func TestSize_USDQuotedMajor(t *testing.T) {
	inst := Classify("USD/CAD")
	require.Equal(t, ClassFX, inst.Class)

	p := Policy{Volatility: VolatilityATR, MinStopPips: 40, RewardRatio: 2}
	lv := Size(1.3500, model.DirectionBuy, inst, 0, p)
	assert.Equal(t, 1.346, lv.StopLoss)
	assert.Equal(t, 1.358, lv.TakeProfit)
	assert.Equal(t, 40.0, lv.Pips)
}

func TestSize_VolatilityBeatsFloor(t *testing.T) {
	inst := Classify("EURUSD")
	p := Policy{Volatility: VolatilityATR, Multiplier: 1.5, MinStopPips: 40}
	lv := Size(1.2000, model.DirectionBuy, inst, 0.004, p)
	assert.Equal(t, 0.006, lv.StopDistance)
	assert.Equal(t, 1.194, lv.StopLoss)
	assert.Equal(t, 1.212, lv.TakeProfit, "reward ratio defaults to 2")
}

func TestSize_PercentFloor(t *testing.T) {
	inst := Classify("BTC/USDT")
	require.Equal(t, ClassCrypto, inst.Class)
	p := Policy{Volatility: VolatilityRange, Multiplier: 1.5, RewardRatio: 2, MinStopPercent: 1.5}
	lv := Size(60000, model.DirectionBuy, inst, 300, p)
	assert.Equal(t, 900.0, lv.StopDistance)
	assert.Equal(t, 59100.0, lv.StopLoss)
	assert.Equal(t, 61800.0, lv.TakeProfit)
}

func TestSize_Hold(t *testing.T) {
	lv := Size(1.23456789, model.DirectionHold, Classify("EURUSD"), 0.01, Policy{Multiplier: 1})
	assert.Equal(t, 1.23457, lv.StopLoss)
	assert.Equal(t, 1.23457, lv.TakeProfit)
	assert.Equal(t, lv.Entry, lv.StopLoss)
	assert.Zero(t, lv.StopDistance)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		symbol string
		class  Class
		pip    float64
		prec   int
	}{
		{"EUR/USD", ClassFX, 0.0001, 5},
		{"GBP/JPY", ClassFXJPY, 0.01, 3},
		{"USDJPY", ClassFXJPY, 0.01, 3},
		{"XAU/USD", ClassMetal, 0.1, 2},
		{"BTC/USDT", ClassCrypto, 0.001, 5},
		{"eth-usd", ClassCrypto, 0.001, 5},
		{"USD/CAD", ClassFX, 0.0001, 5},
		{"USD/CHF", ClassFX, 0.0001, 5},
		{"USDCAD", ClassFX, 0.0001, 5},
		{"XAUUSD", ClassMetal, 0.1, 2},
		{"BTCUSDT", ClassCrypto, 0.001, 5},
		{"ETHBTC", ClassCrypto, 0.001, 5},
		{"USDC/USDT", ClassCrypto, 0.001, 5},
		{"US30", ClassFX, 0.0001, 5},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			inst := Classify(tt.symbol)
			assert.Equal(t, tt.class, inst.Class)
			assert.Equal(t, tt.pip, inst.PipSize)
			assert.Equal(t, tt.prec, inst.Precision)
			assert.Equal(t, tt.symbol, inst.Symbol)
		})
	}
}

func TestRegistry_Overrides(t *testing.T) {
	reg := NewRegistry(map[string]Instrument{
		"US30":    {Class: ClassFX, PipSize: 1, Precision: 1},
		"XAG/USD": {Class: ClassMetal, PipSize: 0.01},
	})
	assert.Equal(t, 1.0, reg.Lookup("US30").PipSize)
	silver := reg.Lookup("XAGUSD")
	assert.Equal(t, 0.01, silver.PipSize)
	assert.Equal(t, 2, silver.Precision, "precision inherits the class default")
	assert.Equal(t, ClassFX, reg.Lookup("AUD/CAD").Class)

	m := NewManager(reg)
	lv := m.SizeFor("US30", 40000, model.DirectionBuy, 0, Policy{MinStopPips: 40})
	assert.Equal(t, 39960.0, lv.StopLoss)
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, Policy{Volatility: VolatilityATR, Multiplier: 1.5}.Validate())
	assert.Error(t, Policy{Volatility: "stddev", Multiplier: 1}.Validate())
	assert.Error(t, Policy{Volatility: VolatilityATR}.Validate())
	assert.Error(t, Policy{Volatility: VolatilityRange, Multiplier: -1}.Validate())
}

func TestPolicy_Estimate(t *testing.T) {
	snap := &model.IndicatorSnapshot{Price: 200, ATR: 3, RangeVolatility: 0.02}
	assert.Equal(t, 3.0, Policy{Volatility: VolatilityATR}.Estimate(snap))
	assert.Equal(t, 4.0, Policy{Volatility: VolatilityRange}.Estimate(snap))
}
