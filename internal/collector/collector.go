package collector

import (
	"context"
	"errors"
	"fmt"
	"math"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pattern"
	"SignalSentinel/internal/strategy"
)

// DefaultMinFillRatio is the share of the requested lookback a fetch must return.
const DefaultMinFillRatio = 0.8

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher      Fetcher
	Profile      *strategy.Profile
	Interval     string
	Lookback     int
	MinFillRatio float64
}

// NewCollector creates a new Collector. A lookback below the profile's
// minimum is raised to it.
func NewCollector(fetcher Fetcher, profile *strategy.Profile, interval string, lookback int) *Collector {
	if lookback < profile.MinCandles {
		lookback = profile.MinCandles
	}
	return &Collector{
		Fetcher:      fetcher,
		Profile:      profile,
		Interval:     interval,
		Lookback:     lookback,
		MinFillRatio: DefaultMinFillRatio,
	}
}

// Collect fetches candles for one symbol and computes its snapshot.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.IndicatorSnapshot, error) {
	series, err := c.Fetcher.FetchCandles(ctx, symbol, c.Interval, c.Lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", symbol, model.ErrDataUnavailable, err)
	}
	if series == nil {
		return nil, fmt.Errorf("fetch %s: %w: empty response", symbol, model.ErrDataUnavailable)
	}
	if series.Len() < c.Profile.MinCandles {
		return nil, fmt.Errorf("%s: %w: got %d candles, need %d",
			symbol, model.ErrDataUnavailable, series.Len(), c.Profile.MinCandles)
	}
	if minFill := int(math.Ceil(float64(c.Lookback) * c.MinFillRatio)); series.Len() < minFill {
		return nil, fmt.Errorf("%s: %w: got %d of %d requested candles",
			symbol, model.ErrDataUnavailable, series.Len(), c.Lookback)
	}
	return BuildSnapshot(series, c.Profile)
}

// BuildSnapshot computes every indicator the profile needs from an
// oldest-first series.
func BuildSnapshot(series *model.CandleSeries, p *strategy.Profile) (*model.IndicatorSnapshot, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("%s: %w: no candles", series.Symbol, model.ErrDataUnavailable)
	}
	ind := p.Indicators
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	last := series.Last()

	snap := &model.IndicatorSnapshot{
		Symbol:   series.Symbol,
		Interval: series.Interval,
		Time:     last.Time,
		Price:    last.Close,
		Last:     last,
	}

	var err error
	fail := func(name string, e error) error {
		kind := model.ErrComputation
		if errors.Is(e, calculator.ErrInsufficientData) {
			kind = model.ErrInsufficientHistory
		}
		return fmt.Errorf("%s %s: %w: %w", series.Symbol, name, kind, e)
	}

	if snap.ShortMA, err = calculator.CalculateMA(ind.ShortMA.Kind, closes, ind.ShortMA.Period); err != nil {
		return nil, fail("short ma", err)
	}
	if snap.MediumMA, err = calculator.CalculateMA(ind.MediumMA.Kind, closes, ind.MediumMA.Period); err != nil {
		return nil, fail("medium ma", err)
	}
	if snap.LongMA, err = calculator.CalculateMA(ind.LongMA.Kind, closes, ind.LongMA.Period); err != nil {
		return nil, fail("long ma", err)
	}
	if snap.RSI, err = calculator.CalculateRSI(closes, ind.RSIPeriod); err != nil {
		return nil, fail("rsi", err)
	}
	snap.SmoothedRSI = snap.RSI
	if ind.RSISmoothing > 0 {
		if snap.SmoothedRSI, err = calculator.CalculateSmoothedRSI(closes, ind.RSIPeriod, ind.RSISmoothing); err != nil {
			return nil, fail("smoothed rsi", err)
		}
	}
	if snap.MACD, err = calculator.CalculateMACD(closes, ind.MACDFast, ind.MACDSlow, ind.MACDSignal); err != nil {
		return nil, fail("macd", err)
	}
	if snap.Bollinger, err = calculator.CalculateBollinger(closes, ind.BollingerPeriod, ind.BollingerK); err != nil {
		return nil, fail("bollinger", err)
	}
	if snap.ATR, err = calculator.CalculateATR(highs, lows, closes, ind.ATRPeriod); err != nil {
		return nil, fail("atr", err)
	}
	if ind.ADXPeriod > 0 {
		if snap.ADX, err = calculator.CalculateADX(highs, lows, closes, ind.ADXPeriod); err != nil {
			return nil, fail("adx", err)
		}
	}
	if snap.RangeVolatility, err = calculator.CalculateRangeVolatility(highs, lows, snap.Price, ind.RangePeriod); err != nil {
		return nil, fail("range volatility", err)
	}
	hi, lo, err := calculator.CalculateHighLow(highs, lows, len(highs))
	if err != nil {
		return nil, fail("high/low", err)
	}
	if snap.RangePosition, err = calculator.CalculateRangePosition(snap.Price, hi, lo); err != nil {
		return nil, fail("range position", err)
	}
	if ind.LevelWindow > 0 {
		snap.Supports, snap.Resistances, err = calculator.FindSupportResistance(closes, ind.LevelWindow, ind.LevelTolerance, ind.LevelTopK)
		if err != nil {
			return nil, fail("levels", err)
		}
	}
	if ind.VolumeWindow > 0 {
		if snap.VolumeRatio, err = calculator.CalculateVolumeRatio(series.Volumes(), ind.VolumeWindow); err != nil {
			return nil, fail("volume", err)
		}
		snap.LowVolume = calculator.IsLowVolume(snap.VolumeRatio, ind.LowVolumeRatio)
	}

	pa := pattern.Detect(series.Candles, ind.PinBarBodyRatio, ind.PinBarOverridesLabel)
	snap.PriceAction = pa.Label
	snap.HasPinBar = pa.HasPinBar
	snap.PinBarDirection = pa.PinDirection

	if name, ok := firstNonFinite(snap); !ok {
		return nil, fmt.Errorf("%s %s: %w: non-finite value", series.Symbol, name, model.ErrComputation)
	}
	return snap, nil
}

func firstNonFinite(s *model.IndicatorSnapshot) (string, bool) {
	values := []struct {
		name string
		v    float64
	}{
		{"price", s.Price},
		{"short ma", s.ShortMA}, {"medium ma", s.MediumMA}, {"long ma", s.LongMA},
		{"rsi", s.RSI}, {"smoothed rsi", s.SmoothedRSI},
		{"macd", s.MACD.MACD}, {"macd signal", s.MACD.Signal}, {"macd histogram", s.MACD.Histogram},
		{"bollinger upper", s.Bollinger.Upper}, {"bollinger lower", s.Bollinger.Lower}, {"percent b", s.Bollinger.PercentB},
		{"atr", s.ATR}, {"adx", s.ADX.ADX},
		{"range volatility", s.RangeVolatility}, {"volume ratio", s.VolumeRatio},
	}
	for _, x := range values {
		if math.IsNaN(x.v) || math.IsInf(x.v, 0) {
			return x.name, false
		}
	}
	return "", true
}
