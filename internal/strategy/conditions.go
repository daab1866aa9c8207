package strategy

import (
	"fmt"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// Side selects which half of a ConditionSet a predicate is evaluated for.
type Side int

const (
	Bullish Side = iota
	Bearish
)

func (s Side) String() string {
	if s == Bullish {
		return "bullish"
	}
	return "bearish"
}

// SideOf maps a direction to the side that supports it.
func SideOf(d model.Direction) (Side, bool) {
	switch d {
	case model.DirectionBuy:
		return Bullish, true
	case model.DirectionSell:
		return Bearish, true
	default:
		return 0, false
	}
}

// Kind names a predicate over an IndicatorSnapshot. Every kind is
// evaluated symmetrically for the bullish and bearish side.
type Kind string

const (
	KindTrendShort    Kind = "trend_short"
	KindTrendLong     Kind = "trend_long"
	KindTrendAligned  Kind = "trend_aligned"
	KindPriceVsMA     Kind = "price_vs_ma"
	KindRSI           Kind = "rsi"
	KindRSISmoothed   Kind = "rsi_smoothed"
	KindBand          Kind = "band"
	KindBandPosition  Kind = "band_position"
	KindBandOrPinBar  Kind = "band_or_pin_bar"
	KindMACD          Kind = "macd"
	KindMACDHistogram Kind = "macd_histogram"
	KindMACDCross     Kind = "macd_cross"
	KindPriceAction   Kind = "price_action"
	KindPinBar        Kind = "pin_bar"
	KindADX           Kind = "adx"
	KindNearLevel     Kind = "near_level"
	KindVolume        Kind = "volume"
	KindVolumeSurge   Kind = "volume_surge"
)

type predicate func(s *model.IndicatorSnapshot, side Side, t float64) bool

var predicates = map[Kind]predicate{
	KindTrendShort: func(s *model.IndicatorSnapshot, side Side, _ float64) bool {
		if side == Bullish {
			return s.ShortMA > s.MediumMA
		}
		return s.ShortMA < s.MediumMA
	},
	KindTrendLong: func(s *model.IndicatorSnapshot, side Side, _ float64) bool {
		if side == Bullish {
			return s.MediumMA > s.LongMA
		}
		return s.MediumMA < s.LongMA
	},
	KindTrendAligned: func(s *model.IndicatorSnapshot, side Side, _ float64) bool {
		if side == Bullish {
			return s.ShortMA > s.MediumMA && s.MediumMA > s.LongMA
		}
		return s.ShortMA < s.MediumMA && s.MediumMA < s.LongMA
	},
	KindPriceVsMA: func(s *model.IndicatorSnapshot, side Side, _ float64) bool {
		if side == Bullish {
			return s.Price > s.ShortMA
		}
		return s.Price < s.ShortMA
	},
	KindRSI: func(s *model.IndicatorSnapshot, side Side, t float64) bool {
		return oscillatorExtreme(s.RSI, side, t)
	},
	KindRSISmoothed: func(s *model.IndicatorSnapshot, side Side, t float64) bool {
		return oscillatorExtreme(s.SmoothedRSI, side, t)
	},
	KindBand: nearBand,
	KindBandPosition: func(s *model.IndicatorSnapshot, side Side, t float64) bool {
		if side == Bullish {
			return s.Bollinger.PercentB < t
		}
		return s.Bollinger.PercentB > 1-t
	},
	KindBandOrPinBar: func(s *model.IndicatorSnapshot, side Side, t float64) bool {
		return nearBand(s, side, t) || confirmedPinBar(s, side, t)
	},
	KindMACD: func(s *model.IndicatorSnapshot, side Side, t float64) bool {
		m := s.MACD
		if side == Bullish {
			return m.MACD > m.Signal && m.Histogram > t
		}
		return m.MACD < m.Signal && m.Histogram < -t
	},
	KindMACDHistogram: func(s *model.IndicatorSnapshot, side Side, t float64) bool {
		if side == Bullish {
			return s.MACD.Histogram > t
		}
		return s.MACD.Histogram < -t
	},
	KindMACDCross: func(s *model.IndicatorSnapshot, side Side, _ float64) bool {
		m := s.MACD
		if side == Bullish {
			return m.PrevHistogram <= 0 && m.Histogram > 0
		}
		return m.PrevHistogram >= 0 && m.Histogram < 0
	},
	KindPriceAction: func(s *model.IndicatorSnapshot, side Side, _ float64) bool {
		return s.PriceAction == sideAction(side)
	},
	KindPinBar: confirmedPinBar,
	KindADX: func(s *model.IndicatorSnapshot, side Side, t float64) bool {
		a := s.ADX
		if a.ADX <= t {
			return false
		}
		if side == Bullish {
			return a.PlusDI > a.MinusDI
		}
		return a.MinusDI > a.PlusDI
	},
	KindNearLevel: func(s *model.IndicatorSnapshot, side Side, t float64) bool {
		if side == Bullish {
			l, ok := calculator.NearestSupport(s.Supports, s.Price)
			return ok && s.Price <= l.Price*(1+t)
		}
		l, ok := calculator.NearestResistance(s.Resistances, s.Price)
		return ok && s.Price >= l.Price*(1-t)
	},
	KindVolume: func(s *model.IndicatorSnapshot, _ Side, _ float64) bool {
		return !s.LowVolume
	},
	KindVolumeSurge: func(s *model.IndicatorSnapshot, _ Side, t float64) bool {
		return s.VolumeRatio > t
	},
}

// Valid reports whether the kind is known.
func (k Kind) Valid() bool {
	_, ok := predicates[k]
	return ok
}

// Eval evaluates the predicate for one side. Unknown kinds are never satisfied.
func (k Kind) Eval(s *model.IndicatorSnapshot, side Side, threshold float64) bool {
	p, ok := predicates[k]
	if !ok {
		return false
	}
	return p(s, side, threshold)
}

// Describe renders the reading behind a satisfied predicate.
func (k Kind) Describe(s *model.IndicatorSnapshot, side Side, threshold float64) string {
	switch k {
	case KindTrendShort, KindTrendLong, KindTrendAligned:
		return fmt.Sprintf("%s trend (MA %.5g / %.5g / %.5g)", side, s.ShortMA, s.MediumMA, s.LongMA)
	case KindPriceVsMA:
		return fmt.Sprintf("price %.5g vs MA %.5g", s.Price, s.ShortMA)
	case KindRSI:
		return fmt.Sprintf("RSI %.1f (%s)", s.RSI, bandLabel(side, threshold))
	case KindRSISmoothed:
		return fmt.Sprintf("smoothed RSI %.1f (%s)", s.SmoothedRSI, bandLabel(side, threshold))
	case KindBand, KindBandOrPinBar:
		if side == Bullish {
			return fmt.Sprintf("price %.5g near lower band %.5g", s.Price, s.Bollinger.Lower)
		}
		return fmt.Sprintf("price %.5g near upper band %.5g", s.Price, s.Bollinger.Upper)
	case KindBandPosition:
		return fmt.Sprintf("%%B %.2f", s.Bollinger.PercentB)
	case KindMACD, KindMACDHistogram, KindMACDCross:
		return fmt.Sprintf("MACD %.5g / signal %.5g (hist %.5g)", s.MACD.MACD, s.MACD.Signal, s.MACD.Histogram)
	case KindPriceAction:
		return fmt.Sprintf("price action %s", s.PriceAction)
	case KindPinBar:
		return fmt.Sprintf("%s pin bar", s.PinBarDirection)
	case KindADX:
		return fmt.Sprintf("ADX %.1f (+DI %.1f / -DI %.1f)", s.ADX.ADX, s.ADX.PlusDI, s.ADX.MinusDI)
	case KindNearLevel:
		if side == Bullish {
			return "price near support"
		}
		return "price near resistance"
	case KindVolume, KindVolumeSurge:
		return fmt.Sprintf("volume ratio %.2f", s.VolumeRatio)
	default:
		return string(k)
	}
}

func nearBand(s *model.IndicatorSnapshot, side Side, t float64) bool {
	if side == Bullish {
		return s.Price < s.Bollinger.Lower*(1+t)
	}
	return s.Price > s.Bollinger.Upper*(1-t)
}

// confirmedPinBar requires the pin bar and the close sequence to agree.
func confirmedPinBar(s *model.IndicatorSnapshot, side Side, _ float64) bool {
	want := sideAction(side)
	return s.HasPinBar && s.PinBarDirection == want && s.PriceAction == want
}

// oscillatorExtreme: bullish below t, bearish above 100-t.
func oscillatorExtreme(v float64, side Side, t float64) bool {
	if side == Bullish {
		return v < t
	}
	return v > 100-t
}

func bandLabel(side Side, t float64) string {
	if side == Bullish {
		return fmt.Sprintf("< %.0f", t)
	}
	return fmt.Sprintf("> %.0f", 100-t)
}

func sideAction(side Side) model.PriceAction {
	if side == Bullish {
		return model.PriceActionBullish
	}
	return model.PriceActionBearish
}
