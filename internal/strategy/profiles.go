package strategy

import (
	"fmt"
	"sort"

	"SignalSentinel/internal/risk"
)

// Built-in profile names.
const (
	ProfileIntraday = "intraday"
	ProfileMomentum = "momentum"
	ProfileSwing    = "swing"
)

var builtin = map[string]func() Profile{
	ProfileIntraday: Intraday,
	ProfileMomentum: Momentum,
	ProfileSwing:    Swing,
}

// Builtin returns a fresh copy of a built-in profile.
func Builtin(name string) (Profile, error) {
	mk, ok := builtin[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (known: %v)", name, BuiltinNames())
	}
	return mk(), nil
}

// BuiltinNames lists the built-in profiles in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func baseIndicators() Indicators {
	return Indicators{
		ShortMA:         MASpec{Kind: "ema", Period: 20},
		MediumMA:        MASpec{Kind: "sma", Period: 50},
		LongMA:          MASpec{Kind: "sma", Period: 200},
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerK:      2,
		ATRPeriod:       14,
		ADXPeriod:       14,
		RangePeriod:     14,
		VolumeWindow:    50,
		LowVolumeRatio:  0.7,
		PinBarBodyRatio: 0.3,
	}
}

// Intraday is the default 15-minute policy: five conditions, two needed.
func Intraday() Profile {
	return Profile{
		Name:       ProfileIntraday,
		MinCandles: 200,
		Indicators: baseIndicators(),
		Threshold:  2,
		Conditions: []Condition{
			{Name: "ema_trend", Kind: KindTrendShort},
			{Name: "bollinger", Kind: KindBand, Threshold: 0},
			{Name: "rsi", Kind: KindRSI, Threshold: 40},
			{Name: "macd", Kind: KindMACD, Threshold: -0.001},
			{Name: "price_action", Kind: KindPriceAction},
		},
		Factors: []Factor{
			{Name: "trend", Weight: 25, Grades: []Grade{
				{Kind: KindTrendAligned, Credit: 1},
				{Kind: KindTrendShort, Credit: 0.7},
			}},
			{Name: "oscillator", Weight: 20, Grades: []Grade{
				{Kind: KindRSI, Threshold: 30, Credit: 1},
				{Kind: KindRSI, Threshold: 40, Credit: 0.8},
				{Kind: KindRSI, Threshold: 45, Credit: 0.5},
			}},
			{Name: "volatility", Weight: 20, Grades: []Grade{
				{Kind: KindBand, Threshold: 0, Credit: 1},
				{Kind: KindBand, Threshold: 0.01, Credit: 0.7},
			}},
			{Name: "momentum", Weight: 20, Grades: []Grade{
				{Kind: KindMACDCross, Credit: 1},
				{Kind: KindMACD, Threshold: 0, Credit: 0.8},
			}},
			{Name: "price_action", Weight: 15, Grades: []Grade{
				{Kind: KindPinBar, Credit: 1},
				{Kind: KindPriceAction, Credit: 0.7},
			}},
		},
		Tiers: Tiers{High: 70, Medium: 50},
		Risk: risk.Policy{
			Volatility:  risk.VolatilityATR,
			Multiplier:  1.5,
			RewardRatio: 2,
			MinStopPips: 40,
		},
	}
}

// Momentum is the stricter six-condition crypto policy with a smoothed RSI,
// slower MACD and a low-volume gate.
func Momentum() Profile {
	ind := baseIndicators()
	ind.RSISmoothing = 5
	ind.MACDFast, ind.MACDSlow, ind.MACDSignal = 16, 32, 9
	ind.PinBarOverridesLabel = true
	return Profile{
		Name:       ProfileMomentum,
		MinCandles: 200,
		Indicators: ind,
		Threshold:  1,
		Conditions: []Condition{
			{Name: "trend_aligned", Kind: KindTrendAligned},
			{Name: "band_or_pin_bar", Kind: KindBandOrPinBar, Threshold: 0},
			{Name: "smoothed_rsi", Kind: KindRSISmoothed, Threshold: 35},
			{Name: "strong_macd", Kind: KindMACD, Threshold: 0.3},
			{Name: "price_action", Kind: KindPriceAction},
			{Name: "price_vs_ema", Kind: KindPriceVsMA},
		},
		Gates: []Condition{
			{Name: "volume", Kind: KindVolume},
		},
		Factors: []Factor{
			{Name: "trend", Weight: 25, Grades: []Grade{
				{Kind: KindTrendAligned, Credit: 1},
				{Kind: KindTrendShort, Credit: 0.7},
			}},
			{Name: "oscillator", Weight: 20, Grades: []Grade{
				{Kind: KindRSISmoothed, Threshold: 30, Credit: 1},
				{Kind: KindRSISmoothed, Threshold: 35, Credit: 0.8},
			}},
			{Name: "volatility", Weight: 20, Grades: []Grade{
				{Kind: KindBand, Threshold: 0, Credit: 1},
				{Kind: KindBand, Threshold: 0.01, Credit: 0.7},
			}},
			{Name: "momentum", Weight: 20, Grades: []Grade{
				{Kind: KindMACD, Threshold: 0.5, Credit: 1},
				{Kind: KindMACD, Threshold: 0.3, Credit: 0.7},
			}},
			{Name: "price_action", Weight: 15, Grades: []Grade{
				{Kind: KindPinBar, Credit: 1},
				{Kind: KindPriceAction, Credit: 0.7},
			}},
		},
		Tiers: Tiers{High: 75, Medium: 55},
		Risk: risk.Policy{
			Volatility:     risk.VolatilityRange,
			Multiplier:     1.5,
			RewardRatio:    2,
			MinStopPercent: 1.5,
		},
	}
}

// Swing is the multi-factor policy with ADX, support/resistance and volume.
func Swing() Profile {
	ind := baseIndicators()
	ind.MediumMA = MASpec{Kind: "ema", Period: 50}
	ind.LongMA = MASpec{Kind: "ema", Period: 200}
	ind.LevelWindow = 50
	ind.LevelTolerance = 0.002
	ind.LevelTopK = 5
	return Profile{
		Name:       ProfileSwing,
		MinCandles: 200,
		Indicators: ind,
		Threshold:  4,
		Conditions: []Condition{
			{Name: "trend", Kind: KindTrendLong},
			{Name: "strong_trend", Kind: KindADX, Threshold: 25},
			{Name: "rsi", Kind: KindRSI, Threshold: 35},
			{Name: "band_position", Kind: KindBandPosition, Threshold: 0.2},
			{Name: "macd_direction", Kind: KindMACDHistogram, Threshold: 0},
			{Name: "near_level", Kind: KindNearLevel, Threshold: 0.005},
			{Name: "volume_surge", Kind: KindVolumeSurge, Threshold: 1.5},
		},
		Factors: []Factor{
			{Name: "trend", Weight: 20, Grades: []Grade{{Kind: KindTrendLong, Credit: 1}}},
			{Name: "trend_strength", Weight: 15, Grades: []Grade{{Kind: KindADX, Threshold: 25, Credit: 1}}},
			{Name: "oscillator", Weight: 15, Grades: []Grade{{Kind: KindRSI, Threshold: 35, Credit: 1}}},
			{Name: "volatility", Weight: 10, Grades: []Grade{{Kind: KindBandPosition, Threshold: 0.2, Credit: 1}}},
			{Name: "momentum", Weight: 10, Grades: []Grade{{Kind: KindMACDHistogram, Threshold: 0, Credit: 1}}},
			{Name: "level", Weight: 15, Grades: []Grade{{Kind: KindNearLevel, Threshold: 0.005, Credit: 1}}},
			{Name: "volume", Weight: 15, Grades: []Grade{{Kind: KindVolumeSurge, Threshold: 1.5, Credit: 1}}},
		},
		Tiers: Tiers{High: 65, Medium: 50},
		Risk: risk.Policy{
			Volatility:  risk.VolatilityATR,
			Multiplier:  1.5,
			RewardRatio: 2,
			MinStopPips: 20,
		},
	}
}
