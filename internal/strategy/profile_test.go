package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfilesValidate(t *testing.T) {
	assert.Equal(t, []string{ProfileIntraday, ProfileMomentum, ProfileSwing}, BuiltinNames())
	for _, name := range BuiltinNames() {
		p, err := Builtin(name)
		require.NoError(t, err)
		assert.NoError(t, p.Validate(), name)
		assert.Equal(t, 100.0, p.MaxScore(), name)
	}
	_, err := Builtin("scalper")
	assert.Error(t, err)
}

func TestBuiltinReturnsCopies(t *testing.T) {
	a, _ := Builtin(ProfileIntraday)
	a.Conditions[0].Threshold = 99
	b, _ := Builtin(ProfileIntraday)
	assert.Zero(t, b.Conditions[0].Threshold)
}

func TestRequiredCandles(t *testing.T) {
	p := Intraday()
	assert.Equal(t, 200, p.RequiredCandles())

	p.Indicators.LongMA.Period = 100
	assert.Equal(t, 100, p.RequiredCandles())

	s := Swing()
	s.Indicators.LongMA.Period = 60
	assert.Equal(t, 101, s.RequiredCandles())
}

func TestProfileValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Profile)
		errMsg string
	}{
		{"threshold too high", func(p *Profile) { p.Threshold = 6 }, "threshold"},
		{"threshold zero", func(p *Profile) { p.Threshold = 0 }, "threshold"},
		{"unknown kind", func(p *Profile) { p.Conditions[0].Kind = "moon_phase" }, "unknown kind"},
		{"unknown gate", func(p *Profile) { p.Gates = []Condition{{Name: "g", Kind: "x"}} }, "unknown kind"},
		{"credit above one", func(p *Profile) { p.Factors[0].Grades[0].Credit = 1.5 }, "credit"},
		{"tiers inverted", func(p *Profile) { p.Tiers = Tiers{High: 40, Medium: 60} }, "tiers"},
		{"macd order", func(p *Profile) { p.Indicators.MACDFast = 30 }, "macd_fast"},
		{"bad ma kind", func(p *Profile) { p.Indicators.ShortMA.Kind = "wma" }, "kind"},
		{"min candles", func(p *Profile) { p.MinCandles = 100 }, "min_candles"},
		{"no factors", func(p *Profile) { p.Factors = nil }, "factors"},
		{"bad risk", func(p *Profile) { p.Risk.Volatility = "vix" }, "risk.volatility"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Intraday()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
