package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultRetries = 2

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d, body: %s", e.Code, e.Body)
}

func retryable(err error) bool {
	se, ok := err.(*statusError)
	if !ok {
		return true // transport error
	}
	return se.Code == http.StatusTooManyRequests || se.Code >= 500
}

// getWithRetry performs a GET with exponential backoff on transport errors,
// 429 and 5xx. The context bounds all attempts.
func getWithRetry(ctx context.Context, client *http.Client, endpoint string, header http.Header, maxRetries int) ([]byte, error) {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		body, err := get(ctx, client, endpoint, header)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) || i == maxRetries {
			break
		}
		backoff := time.Duration(1<<uint(i)) * time.Second
		log.Warn().Err(err).Int("attempt", i+1).Dur("backoff", backoff).Msg("fetch failed, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

func get(ctx context.Context, client *http.Client, endpoint string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
