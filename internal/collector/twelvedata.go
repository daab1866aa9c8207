package collector

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"SignalSentinel/internal/model"
)

const defaultTwelveDataURL = "https://api.twelvedata.com"

// TwelveDataFetcher implements Fetcher using the Twelve Data time_series API.
type TwelveDataFetcher struct {
	BaseURL    string
	APIKey     string
	MaxRetries int
	Client     *http.Client
}

// NewTwelveDataFetcher creates a new fetcher with optional proxy support.
func NewTwelveDataFetcher(baseURL, apiKey, proxyURL string) *TwelveDataFetcher {
	if baseURL == "" {
		baseURL = defaultTwelveDataURL
	}
	return &TwelveDataFetcher{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		MaxRetries: defaultRetries,
		Client:     newHTTPClient(proxyURL),
	}
}

func (f *TwelveDataFetcher) Name() string { return "twelvedata" }

func (f *TwelveDataFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) (*model.CandleSeries, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(limit))
	q.Set("timezone", "UTC")
	if f.APIKey != "" {
		q.Set("apikey", f.APIKey)
	}
	endpoint := fmt.Sprintf("%s/time_series?%s", f.BaseURL, q.Encode())

	body, err := getWithRetry(ctx, f.Client, endpoint, nil, f.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("twelvedata fetch %s: %w", symbol, err)
	}
	candles, err := parseTwelveData(body)
	if err != nil {
		return nil, fmt.Errorf("twelvedata %s: %w", symbol, err)
	}
	return model.NewCandleSeries(symbol, interval, candles), nil
}

// parseTwelveData decodes a time_series body. Values arrive newest first
// with every number encoded as a string.
func parseTwelveData(body []byte) ([]model.Candle, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json")
	}
	res := gjson.ParseBytes(body)
	if res.Get("status").String() == "error" {
		return nil, fmt.Errorf("api error %d: %s", res.Get("code").Int(), res.Get("message").String())
	}
	values := res.Get("values").Array()
	if len(values) == 0 {
		return nil, fmt.Errorf("no data returned")
	}

	candles := make([]model.Candle, 0, len(values))
	for i, v := range values {
		ts, err := parseTwelveDataTime(v.Get("datetime").String())
		if err != nil {
			return nil, err
		}
		c := model.Candle{Time: ts}
		for _, f := range []struct {
			name     string
			dst      *float64
			required bool
		}{
			{"open", &c.Open, true},
			{"high", &c.High, true},
			{"low", &c.Low, true},
			{"close", &c.Close, true},
			{"volume", &c.Volume, false},
		} {
			if *f.dst, err = twelveDataNumber(v.Get(f.name), f.required); err != nil {
				return nil, fmt.Errorf("values[%d].%s: %w", i, f.name, err)
			}
		}
		candles = append(candles, c)
	}
	return candles, nil
}

// twelveDataNumber reads a string- or number-encoded value. FX series carry
// no volume, so an absent optional field reads as zero.
func twelveDataNumber(r gjson.Result, required bool) (float64, error) {
	if !r.Exists() {
		if required {
			return 0, fmt.Errorf("missing")
		}
		return 0, nil
	}
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		var err error
		if f, err = strconv.ParseFloat(r.Str, 64); err != nil {
			return 0, fmt.Errorf("malformed number %q", r.Str)
		}
	default:
		return 0, fmt.Errorf("unexpected %s value", r.Type)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number %q", r.Raw)
	}
	return f, nil
}

func parseTwelveDataTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable datetime %q", s)
}
