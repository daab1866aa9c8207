package strategy

import (
	"fmt"

	"SignalSentinel/internal/risk"
)

// MASpec selects a moving average kind ("sma" or "ema") and period.
type MASpec struct {
	Kind   string `yaml:"kind" json:"kind"`
	Period int    `yaml:"period" json:"period"`
}

// Indicators holds every indicator period a profile needs. A zero
// ADXPeriod, LevelWindow or VolumeWindow disables that indicator.
type Indicators struct {
	ShortMA  MASpec `yaml:"short_ma" json:"short_ma"`
	MediumMA MASpec `yaml:"medium_ma" json:"medium_ma"`
	LongMA   MASpec `yaml:"long_ma" json:"long_ma"`

	RSIPeriod    int `yaml:"rsi_period" json:"rsi_period"`
	RSISmoothing int `yaml:"rsi_smoothing" json:"rsi_smoothing"`

	MACDFast   int `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow   int `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal int `yaml:"macd_signal" json:"macd_signal"`

	BollingerPeriod int     `yaml:"bollinger_period" json:"bollinger_period"`
	BollingerK      float64 `yaml:"bollinger_k" json:"bollinger_k"`

	ATRPeriod   int `yaml:"atr_period" json:"atr_period"`
	ADXPeriod   int `yaml:"adx_period" json:"adx_period"`
	RangePeriod int `yaml:"range_period" json:"range_period"`

	LevelWindow    int     `yaml:"level_window" json:"level_window"`
	LevelTolerance float64 `yaml:"level_tolerance" json:"level_tolerance"`
	LevelTopK      int     `yaml:"level_top_k" json:"level_top_k"`

	VolumeWindow   int     `yaml:"volume_window" json:"volume_window"`
	LowVolumeRatio float64 `yaml:"low_volume_ratio" json:"low_volume_ratio"`

	PinBarBodyRatio      float64 `yaml:"pin_bar_body_ratio" json:"pin_bar_body_ratio"`
	PinBarOverridesLabel bool    `yaml:"pin_bar_overrides_label" json:"pin_bar_overrides_label"`
}

// Condition is one named predicate in the classifier table.
type Condition struct {
	Name      string  `yaml:"name" json:"name"`
	Kind      Kind    `yaml:"kind" json:"kind"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// Grade awards Credit (0..1] of a factor's weight when its predicate holds.
type Grade struct {
	Kind      Kind    `yaml:"kind" json:"kind"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Credit    float64 `yaml:"credit" json:"credit"`
}

// Factor is one confidence component. Grades run strictest first; the first
// satisfied grade wins.
type Factor struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
	Grades []Grade `yaml:"grades" json:"grades"`
}

// Tiers holds the confidence cut-offs in percent.
type Tiers struct {
	High   float64 `yaml:"high" json:"high"`
	Medium float64 `yaml:"medium" json:"medium"`
}

// Profile is a complete named policy: indicator periods, classifier table,
// threshold, confidence factors, tier cut-offs and risk policy.
type Profile struct {
	Name       string      `yaml:"name" json:"name"`
	MinCandles int         `yaml:"min_candles" json:"min_candles"`
	Indicators Indicators  `yaml:"indicators" json:"indicators"`
	Threshold  int         `yaml:"threshold" json:"threshold"`
	Conditions []Condition `yaml:"conditions" json:"conditions"`
	Gates      []Condition `yaml:"gates" json:"gates"`
	Factors    []Factor    `yaml:"factors" json:"factors"`
	Tiers      Tiers       `yaml:"tiers" json:"tiers"`
	Risk       risk.Policy `yaml:"risk" json:"risk"`
}

// RequiredCandles is the longest window any configured indicator needs.
func (p *Profile) RequiredCandles() int {
	ind := p.Indicators
	need := []int{
		ind.ShortMA.Period, ind.MediumMA.Period, ind.LongMA.Period,
		ind.RSIPeriod + 1,
		ind.MACDSlow + ind.MACDSignal,
		ind.BollingerPeriod + 1,
		ind.ATRPeriod + 1,
		ind.RangePeriod,
	}
	if ind.RSISmoothing > 0 {
		need = append(need, ind.RSIPeriod+ind.RSISmoothing)
	}
	if ind.ADXPeriod > 0 {
		need = append(need, 2*ind.ADXPeriod)
	}
	if ind.LevelWindow > 0 {
		need = append(need, 2*ind.LevelWindow+1)
	}
	if ind.VolumeWindow > 0 {
		need = append(need, ind.VolumeWindow)
	}
	longest := 0
	for _, n := range need {
		if n > longest {
			longest = n
		}
	}
	return longest
}

// MaxScore is the sum of factor weights.
func (p *Profile) MaxScore() float64 {
	sum := 0.0
	for _, f := range p.Factors {
		sum += f.Weight
	}
	return sum
}

// Validate checks periods, kinds, weights and cut-offs.
func (p *Profile) Validate() error {
	ind := p.Indicators
	for name, ma := range map[string]MASpec{"short_ma": ind.ShortMA, "medium_ma": ind.MediumMA, "long_ma": ind.LongMA} {
		if ma.Period <= 0 {
			return fmt.Errorf("profile %s: %s.period must be positive", p.Name, name)
		}
		if ma.Kind != "sma" && ma.Kind != "ema" {
			return fmt.Errorf("profile %s: %s.kind must be sma or ema, got %q", p.Name, name, ma.Kind)
		}
	}
	positive := map[string]int{
		"rsi_period":       ind.RSIPeriod,
		"macd_fast":        ind.MACDFast,
		"macd_slow":        ind.MACDSlow,
		"macd_signal":      ind.MACDSignal,
		"bollinger_period": ind.BollingerPeriod,
		"atr_period":       ind.ATRPeriod,
		"range_period":     ind.RangePeriod,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("profile %s: %s must be positive", p.Name, name)
		}
	}
	if ind.MACDFast >= ind.MACDSlow {
		return fmt.Errorf("profile %s: macd_fast must be below macd_slow", p.Name)
	}
	if ind.BollingerK <= 0 {
		return fmt.Errorf("profile %s: bollinger_k must be positive", p.Name)
	}
	if ind.RSISmoothing < 0 || ind.ADXPeriod < 0 || ind.LevelWindow < 0 || ind.VolumeWindow < 0 {
		return fmt.Errorf("profile %s: optional periods must not be negative", p.Name)
	}
	if ind.LevelWindow > 0 && (ind.LevelTopK <= 0 || ind.LevelTolerance <= 0) {
		return fmt.Errorf("profile %s: level_top_k and level_tolerance are required with level_window", p.Name)
	}

	if len(p.Conditions) == 0 {
		return fmt.Errorf("profile %s: no conditions", p.Name)
	}
	if p.Threshold < 1 || p.Threshold > len(p.Conditions) {
		return fmt.Errorf("profile %s: threshold %d outside 1..%d", p.Name, p.Threshold, len(p.Conditions))
	}
	for _, c := range append(append([]Condition{}, p.Conditions...), p.Gates...) {
		if !c.Kind.Valid() {
			return fmt.Errorf("profile %s: condition %q has unknown kind %q", p.Name, c.Name, c.Kind)
		}
	}

	if len(p.Factors) == 0 {
		return fmt.Errorf("profile %s: no confidence factors", p.Name)
	}
	for _, f := range p.Factors {
		if f.Weight < 0 {
			return fmt.Errorf("profile %s: factor %q has negative weight", p.Name, f.Name)
		}
		for _, g := range f.Grades {
			if !g.Kind.Valid() {
				return fmt.Errorf("profile %s: factor %q has unknown kind %q", p.Name, f.Name, g.Kind)
			}
			if g.Credit <= 0 || g.Credit > 1 {
				return fmt.Errorf("profile %s: factor %q credit %.2f outside (0,1]", p.Name, f.Name, g.Credit)
			}
		}
	}
	if p.MaxScore() <= 0 {
		return fmt.Errorf("profile %s: factor weights sum to zero", p.Name)
	}
	if p.Tiers.Medium <= 0 || p.Tiers.High < p.Tiers.Medium || p.Tiers.High > 100 {
		return fmt.Errorf("profile %s: tiers must satisfy 0 < medium <= high <= 100", p.Name)
	}
	if p.MinCandles < p.RequiredCandles() {
		return fmt.Errorf("profile %s: min_candles %d below required %d", p.Name, p.MinCandles, p.RequiredCandles())
	}
	if err := p.Risk.Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return nil
}
