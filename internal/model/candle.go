package model

import (
	"sort"
	"time"
)

// Candle represents a single OHLCV bar. Volume is 0 when the source has none.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

func (c Candle) isEmpty() bool {
	return c.Open == 0 && c.High == 0 && c.Low == 0 && c.Close == 0
}

// CandleSeries holds candles for one symbol, oldest first.
type CandleSeries struct {
	Symbol   string
	Interval string
	Candles  []Candle
}

// NewCandleSeries normalizes raw provider bars into an oldest-first series.
// Empty bars are dropped and duplicate timestamps keep the last occurrence.
func NewCandleSeries(symbol, interval string, raw []Candle) *CandleSeries {
	candles := make([]Candle, 0, len(raw))
	for _, c := range raw {
		if c.isEmpty() {
			continue
		}
		candles = append(candles, c)
	}
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

	out := candles[:0]
	for _, c := range candles {
		if n := len(out); n > 0 && out[n-1].Time.Equal(c.Time) {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return &CandleSeries{Symbol: symbol, Interval: interval, Candles: out}
}

func (s *CandleSeries) Len() int { return len(s.Candles) }

// Last returns the newest candle. Callers must check Len first.
func (s *CandleSeries) Last() Candle { return s.Candles[len(s.Candles)-1] }

// Tail returns the newest n candles (or all of them when fewer exist).
func (s *CandleSeries) Tail(n int) []Candle {
	if n >= len(s.Candles) {
		return s.Candles
	}
	return s.Candles[len(s.Candles)-n:]
}

func (s *CandleSeries) Opens() []float64  { return s.extract(func(c Candle) float64 { return c.Open }) }
func (s *CandleSeries) Highs() []float64  { return s.extract(func(c Candle) float64 { return c.High }) }
func (s *CandleSeries) Lows() []float64   { return s.extract(func(c Candle) float64 { return c.Low }) }
func (s *CandleSeries) Closes() []float64 { return s.extract(func(c Candle) float64 { return c.Close }) }
func (s *CandleSeries) Volumes() []float64 {
	return s.extract(func(c Candle) float64 { return c.Volume })
}

func (s *CandleSeries) extract(field func(Candle) float64) []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = field(c)
	}
	return out
}
