package model

import "time"

// MACDValue is the latest MACD triple plus the previous histogram value.
type MACDValue struct {
	MACD          float64 `json:"macd"`
	Signal        float64 `json:"signal"`
	Histogram     float64 `json:"histogram"`
	PrevHistogram float64 `json:"prev_histogram"`
}

// BollingerValue holds the latest bands. PercentB is 0.5 when the bands collapse.
type BollingerValue struct {
	Upper     float64 `json:"upper"`
	Middle    float64 `json:"middle"`
	Lower     float64 `json:"lower"`
	Width     float64 `json:"width"`
	PrevWidth float64 `json:"prev_width"`
	PercentB  float64 `json:"percent_b"`
}

// Widening reports whether the band width grew over the last candle.
func (b BollingerValue) Widening() bool { return b.Width > b.PrevWidth }

// ADXValue holds directional movement readings.
type ADXValue struct {
	ADX     float64 `json:"adx"`
	PlusDI  float64 `json:"plus_di"`
	MinusDI float64 `json:"minus_di"`
}

// Level is a clustered support or resistance price.
type Level struct {
	Price    float64 `json:"price"`
	Strength int     `json:"strength"`
}

// PriceAction labels the short-term close sequence.
type PriceAction string

const (
	PriceActionBullish PriceAction = "bullish"
	PriceActionBearish PriceAction = "bearish"
	PriceActionNeutral PriceAction = "neutral"
)

// IndicatorSnapshot is every derived value for one symbol at one candle.
// Built once per cycle and read-only afterwards.
type IndicatorSnapshot struct {
	Symbol   string    `json:"symbol"`
	Interval string    `json:"interval"`
	Time     time.Time `json:"time"`
	Price    float64   `json:"price"`
	Last     Candle    `json:"last"`

	ShortMA  float64 `json:"short_ma"`
	MediumMA float64 `json:"medium_ma"`
	LongMA   float64 `json:"long_ma"`

	RSI         float64 `json:"rsi"`
	SmoothedRSI float64 `json:"smoothed_rsi"`

	MACD      MACDValue      `json:"macd"`
	Bollinger BollingerValue `json:"bollinger"`
	ADX       ADXValue       `json:"adx"`

	ATR             float64 `json:"atr"`
	RangeVolatility float64 `json:"range_volatility"`
	RangePosition   float64 `json:"range_position"` // 0.0 ~ 1.0 within the fetched history

	Supports    []Level `json:"supports,omitempty"`
	Resistances []Level `json:"resistances,omitempty"`

	VolumeRatio float64 `json:"volume_ratio"`
	LowVolume   bool    `json:"low_volume"`

	PriceAction     PriceAction `json:"price_action"`
	HasPinBar       bool        `json:"has_pin_bar"`
	PinBarDirection PriceAction `json:"pin_bar_direction"`
}
