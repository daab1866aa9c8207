package collector

import (
	"context"
	"fmt"

	"SignalSentinel/internal/model"
)

// Fetcher retrieves candle history from a market-data provider. Returned
// series are normalized oldest first through model.NewCandleSeries.
type Fetcher interface {
	FetchCandles(ctx context.Context, symbol, interval string, limit int) (*model.CandleSeries, error)
	Name() string
}

// MaxLookback returns the most candles provider serves per request, or 0
// when the provider has no fixed cap.
func MaxLookback(provider string) int {
	if provider == "binance" {
		return binanceMaxLimit
	}
	return 0
}

// NewFetcher builds the fetcher for a provider name. An empty base URL
// selects the provider's public endpoint.
func NewFetcher(provider, baseURL, apiKey, proxyURL string) (Fetcher, error) {
	switch provider {
	case "twelvedata", "":
		return NewTwelveDataFetcher(baseURL, apiKey, proxyURL), nil
	case "binance":
		return NewBinanceFetcher(baseURL, proxyURL), nil
	case "yahoo":
		return NewYahooFetcher(baseURL, proxyURL), nil
	case "mock":
		return &MockFetcher{}, nil
	}
	return nil, fmt.Errorf("%w: unknown data provider %q", model.ErrConfiguration, provider)
}
