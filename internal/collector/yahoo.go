package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"SignalSentinel/internal/model"
)

const defaultYahooURL = "https://query1.finance.yahoo.com"

var yahooIntervals = map[string]string{
	"1min": "1m", "5min": "5m", "15min": "15m", "30min": "30m",
	"1h": "60m", "1day": "1d", "1week": "1wk",
}

// YahooFetcher implements Fetcher using Yahoo Finance public chart API.
// It is the fallback source when no API key is configured.
type YahooFetcher struct {
	BaseURL    string
	MaxRetries int
	Client     *http.Client
	SymbolMap  map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	if baseURL == "" {
		baseURL = defaultYahooURL
	}
	return &YahooFetcher{
		BaseURL:    baseURL,
		MaxRetries: defaultRetries,
		Client:     newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"EUR/USD":  "EURUSD=X",
			"GBP/USD":  "GBPUSD=X",
			"USD/JPY":  "JPY=X",
			"XAU/USD":  "GC=F",
			"BTC/USDT": "BTC-USD",
			"ETH/USDT": "ETH-USD",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooRange picks the shortest range that covers limit bars. Yahoo caps
// intraday history, so the ranges are clamped per interval.
func yahooRange(interval string, limit int) string {
	var span time.Duration
	switch interval {
	case "1min":
		return "5d"
	case "5min", "15min", "30min":
		return "1mo"
	case "1h":
		span = time.Duration(limit) * time.Hour
		if span <= 30*24*time.Hour {
			return "1mo"
		}
		return "3mo"
	case "1week":
		return "5y"
	}
	days := limit
	switch {
	case days <= 30:
		return "3mo"
	case days <= 180:
		return "1y"
	default:
		return "2y"
	}
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}

func (f *YahooFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) (*model.CandleSeries, error) {
	iv, ok := yahooIntervals[interval]
	if !ok {
		return nil, fmt.Errorf("yahoo: unsupported interval %q", interval)
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), iv, yahooRange(interval, limit))

	header := http.Header{}
	header.Set("User-Agent", "Mozilla/5.0")
	body, err := getWithRetry(ctx, f.Client, endpoint, header, f.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	candles, err := parseYahooChart(body)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	series := model.NewCandleSeries(symbol, interval, candles)
	series.Candles = series.Tail(limit)
	return series, nil
}

func parseYahooChart(body []byte) ([]model.Candle, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	candles := make([]model.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// null bars (holidays, halted sessions) decode to zero and are dropped by NewCandleSeries
		candles = append(candles, model.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  at(quote.Close, i),
			Volume: at(quote.Volume, i),
		})
	}
	return candles, nil
}
