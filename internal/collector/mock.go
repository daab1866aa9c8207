package collector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without fixed candles get a generated gentle uptrend around Price.
type MockFetcher struct {
	Price   float64
	Candles map[string][]model.Candle
	Errors  map[string]error
	Delay   time.Duration

	mu    sync.Mutex
	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchCandles ran.
func (m *MockFetcher) Calls() int64 { return m.calls.Load() }

// SetCandles replaces the fixed candles for one symbol.
func (m *MockFetcher) SetCandles(symbol string, candles []model.Candle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Candles == nil {
		m.Candles = make(map[string][]model.Candle)
	}
	m.Candles[symbol] = candles
}

func (m *MockFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) (*model.CandleSeries, error) {
	m.calls.Add(1)
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}

	m.mu.Lock()
	err := m.Errors[symbol]
	fixed, ok := m.Candles[symbol]
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("mock fetch %s: %w", symbol, err)
	}
	if !ok {
		price := m.Price
		if price <= 0 {
			price = 100
		}
		fixed = generateMockCandles(price, limit, intervalDuration(interval))
	}
	series := model.NewCandleSeries(symbol, interval, fixed)
	series.Candles = series.Tail(limit)
	return series, nil
}

func generateMockCandles(basePrice float64, count int, step time.Duration) []model.Candle {
	end := time.Now().UTC().Truncate(step)
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		candles[i] = model.Candle{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return candles
}

// intervalDuration parses provider interval names such as "15min" or "1day".
func intervalDuration(interval string) time.Duration {
	switch interval {
	case "1min":
		return time.Minute
	case "5min":
		return 5 * time.Minute
	case "15min":
		return 15 * time.Minute
	case "30min":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "2h":
		return 2 * time.Hour
	case "4h":
		return 4 * time.Hour
	case "1day":
		return 24 * time.Hour
	case "1week":
		return 7 * 24 * time.Hour
	}
	if d, err := time.ParseDuration(interval); err == nil && d > 0 {
		return d
	}
	return 15 * time.Minute
}
