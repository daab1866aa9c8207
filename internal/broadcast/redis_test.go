package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
)

func TestEncodeSignalEvent(t *testing.T) {
	sig := model.Signal{ID: "s1", Symbol: "XAU/USD", Direction: model.DirectionSell, ConfidencePercent: 72}
	b, err := encode(notifier.SignalEvent(sig))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "signal", got["type"])
	assert.NotContains(t, got, "status")
	assert.Equal(t, "XAU/USD", got["signal"].(map[string]any)["symbol"])
}

func TestEncodeDismissEvent(t *testing.T) {
	b, err := encode(notifier.DismissEvent("s1"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"dismiss"`)
	assert.Contains(t, string(b), `"id":"s1"`)
	assert.NotContains(t, string(b), `"signal"`)
}

func TestStoredID(t *testing.T) {
	assert.Equal(t, "abc", storedID([]byte(`{"id":"abc","symbol":"EUR/USD"}`)))
	assert.Equal(t, "", storedID([]byte(`garbage`)))
}

func TestTrackKeepsLatestPerSymbol(t *testing.T) {
	p := &RedisPublisher{latest: make(map[string]string)}
	for i := 0; i < 50; i++ {
		p.track("EUR/USD", fmt.Sprintf("eur-%d", i))
		p.track("XAU/USD", fmt.Sprintf("xau-%d", i))
	}
	assert.Len(t, p.latest, 2)

	_, ok := p.untrack("eur-3")
	assert.False(t, ok, "superseded id")

	symbol, ok := p.untrack("eur-49")
	require.True(t, ok)
	assert.Equal(t, "EUR/USD", symbol)
	assert.Len(t, p.latest, 1)

	_, ok = p.untrack("eur-49")
	assert.False(t, ok)
}

func TestNewRedisPublisherUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisPublisher(ctx, Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
