package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"SignalSentinel/internal/model"
)

const (
	defaultBinanceURL = "https://api.binance.com"
	binanceMaxLimit   = 1000
)

var binanceIntervals = map[string]string{
	"1min": "1m", "5min": "5m", "15min": "15m", "30min": "30m",
	"1h": "1h", "2h": "2h", "4h": "4h", "1day": "1d", "1week": "1w",
}

// BinanceFetcher implements Fetcher using the Binance spot klines API.
type BinanceFetcher struct {
	BaseURL    string
	MaxRetries int
	Client     *http.Client
}

// NewBinanceFetcher creates a new fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string) *BinanceFetcher {
	if baseURL == "" {
		baseURL = defaultBinanceURL
	}
	return &BinanceFetcher{
		BaseURL:    baseURL,
		MaxRetries: defaultRetries,
		Client:     newHTTPClient(proxyURL),
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// binanceSymbol maps "BTC/USDT" to "BTCUSDT".
func binanceSymbol(symbol string) string {
	return strings.ToUpper(strings.NewReplacer("/", "", "-", "").Replace(symbol))
}

func (f *BinanceFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) (*model.CandleSeries, error) {
	iv, ok := binanceIntervals[interval]
	if !ok {
		return nil, fmt.Errorf("binance: unsupported interval %q", interval)
	}
	if limit > binanceMaxLimit {
		limit = binanceMaxLimit
	}
	endpoint := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d", f.BaseURL, binanceSymbol(symbol), iv, limit)

	body, err := getWithRetry(ctx, f.Client, endpoint, nil, f.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("binance fetch %s: %w", symbol, err)
	}
	candles, err := parseBinanceKlines(body)
	if err != nil {
		return nil, fmt.Errorf("binance %s: %w", symbol, err)
	}
	return model.NewCandleSeries(symbol, interval, candles), nil
}

// parseBinanceKlines decodes rows of
// [openTime, "open", "high", "low", "close", "volume", closeTime, ...].
func parseBinanceKlines(body []byte) ([]model.Candle, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json")
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, fmt.Errorf("api error %d: %s", res.Get("code").Int(), res.Get("msg").String())
	}
	rows := res.Array()
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data returned")
	}
	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		cols := row.Array()
		if len(cols) < 6 {
			return nil, fmt.Errorf("kline %d: expected at least 6 columns, got %d", i, len(cols))
		}
		candles = append(candles, model.Candle{
			Time:   time.UnixMilli(cols[0].Int()).UTC(),
			Open:   cols[1].Float(),
			High:   cols[2].Float(),
			Low:    cols[3].Float(),
			Close:  cols[4].Float(),
			Volume: cols[5].Float(),
		})
	}
	return candles, nil
}
