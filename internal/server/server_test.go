package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/risk"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/signalstore"
	"SignalSentinel/internal/strategy"
)

func init() { gin.SetMode(gin.TestMode) }

var start = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func sellOff() []model.Candle {
	closes := make([]float64, 0, 200)
	for i := 0; i < 196; i++ {
		closes = append(closes, 100-0.1*float64(i))
	}
	for i := 0; i < 3; i++ {
		closes = append(closes, closes[len(closes)-1]+0.5/3)
	}
	closes = append(closes, closes[len(closes)-1]-1)

	candles := make([]model.Candle, len(closes))
	prev := closes[0]
	for i, c := range closes {
		candles[i] = model.Candle{
			Time: start.Add(time.Duration(i) * 15 * time.Minute),
			Open: prev, High: max(prev, c) + 0.05, Low: min(prev, c) - 0.05, Close: c,
			Volume: 1000,
		}
		prev = c
	}
	return candles
}

func flat() []model.Candle {
	candles := make([]model.Candle, 220)
	for i := range candles {
		candles[i] = model.Candle{
			Time: start.Add(time.Duration(i) * 15 * time.Minute),
			Open: 1.25, High: 1.25, Low: 1.25, Close: 1.25,
		}
	}
	return candles
}

type env struct {
	srv *Server
	sch *scheduler.Scheduler
	hub *Hub
	m   *metrics.Metrics
}

func newEnv(t *testing.T) *env {
	t.Helper()
	fetcher := &collector.MockFetcher{Errors: map[string]error{"XAU/USD": errors.New("boom")}}
	fetcher.SetCandles("EUR/USD", sellOff())
	fetcher.SetCandles("GBP/USD", flat())

	p, err := strategy.Builtin(strategy.ProfileIntraday)
	require.NoError(t, err)
	col := collector.NewCollector(fetcher, &p, "15min", 200)
	store := signalstore.New([]string{"EUR/USD", "GBP/USD", "XAU/USD"}, 0)
	m := metrics.New()

	e := &env{m: m}
	e.hub = NewHub(func() Snapshot {
		return Snapshot{Type: EventSnapshot, Signals: e.sch.Store.All(), Statuses: e.sch.Store.Statuses()}
	})
	e.hub.OnClients = func(n int) { m.WSClients.Set(float64(n)) }
	e.sch = scheduler.NewScheduler(context.Background(), col, store, risk.NewManager(nil),
		notifier.Multi{e.hub, notifier.LogPublisher{}}, nil, m)
	e.srv = New("", e.sch, e.hub, m)

	ctx, cancel := context.WithCancel(context.Background())
	go e.hub.Run(ctx)
	t.Cleanup(func() {
		e.sch.Stop()
		cancel()
	})
	return e
}

func (e *env) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 3.0, body["symbols"])
	assert.Equal(t, "intraday", body["profile"])
	assert.Equal(t, 0.0, body["connections"])
}

func TestSignalsEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/signals")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	e.sch.RunCycle(scheduler.TriggerManual)

	rec = e.do(t, http.MethodGet, "/api/v1/signals")
	var signals []model.Signal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signals))
	require.Len(t, signals, 1)
	assert.Equal(t, "EUR/USD", signals[0].Symbol)
	assert.Equal(t, model.DirectionBuy, signals[0].Direction)

	for _, path := range []string{"/api/v1/signals/EUR-USD", "/api/v1/signals/eur_usd", "/api/v1/signals/EURUSD"} {
		rec = e.do(t, http.MethodGet, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		var body struct {
			Symbol string        `json:"symbol"`
			Signal *model.Signal `json:"signal"`
			Status model.Status  `json:"status"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "EUR/USD", body.Symbol)
		require.NotNil(t, body.Signal)
		assert.Equal(t, signals[0].ID, body.Signal.ID)
		assert.Equal(t, model.StatusSignal, body.Status.State)
	}

	rec = e.do(t, http.MethodGet, "/api/v1/signals/GBP-USD")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"signal":null`)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/signals/DOGE").Code)
}

func TestDismissEndpoint(t *testing.T) {
	e := newEnv(t)
	e.sch.RunCycle(scheduler.TriggerManual)
	sig, ok := e.sch.Store.Get("EUR/USD")
	require.True(t, ok)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodDelete, "/api/v1/signals/nope").Code)

	rec := e.do(t, http.MethodDelete, "/api/v1/signals/"+sig.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dismissed":"`+sig.ID+`","symbol":"EUR/USD"}`, rec.Body.String())
	_, ok = e.sch.Store.Get("EUR/USD")
	assert.False(t, ok)
}

func TestStatusEndpoint(t *testing.T) {
	e := newEnv(t)
	e.sch.RunCycle(scheduler.TriggerManual)

	rec := e.do(t, http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var statuses []model.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	require.Len(t, statuses, 3)
	assert.Equal(t, model.StatusSignal, statuses[0].State)
	assert.Equal(t, model.StatusHold, statuses[1].State)
	assert.Equal(t, model.StatusNoData, statuses[2].State)
}

func TestRefreshEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/refresh/gbp-usd")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"hold"`)

	rec = e.do(t, http.MethodPost, "/api/v1/refresh/XAU-USD")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"no_data"`)
	assert.Contains(t, rec.Body.String(), "boom")

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodPost, "/api/v1/refresh/DOGE").Code)

	rec = e.do(t, http.MethodPost, "/api/v1/refresh")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Eventually(t, func() bool {
		_, ok := e.sch.Store.Get("EUR/USD")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	e.sch.RunCycle(scheduler.TriggerSchedule)

	rec := e.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sentinel_cycles_total{trigger="schedule"} 1`)
	assert.Contains(t, rec.Body.String(), `sentinel_signals_total{direction="BUY",symbol="EUR/USD",tier="MEDIUM"} 1`)
}

func TestWebSocketSnapshotAndEvents(t *testing.T) {
	e := newEnv(t)
	e.sch.RunCycle(scheduler.TriggerManual)
	assert.Eventually(t, func() bool { return len(e.hub.broadcast) == 0 }, time.Second, 5*time.Millisecond)

	ts := httptest.NewServer(e.srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snap Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, EventSnapshot, snap.Type)
	require.Len(t, snap.Signals, 1)
	assert.Len(t, snap.Statuses, 3)

	assert.Eventually(t, func() bool { return e.hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, e.do(t, http.MethodGet, "/metrics").Body.String(), "sentinel_ws_clients 1")

	require.NoError(t, e.hub.PublishDismiss(context.Background(), snap.Signals[0].ID))
	var ev notifier.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notifier.EventDismiss, ev.Type)
	assert.Equal(t, snap.Signals[0].ID, ev.ID)
}

func TestHubStopsClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "got %v", err)
	assert.Zero(t, hub.Clients())
}

func TestHubQueueFull(t *testing.T) {
	hub := NewHub(nil)
	for i := 0; i < cap(hub.broadcast); i++ {
		require.NoError(t, hub.PublishStatus(context.Background(), model.Status{Symbol: "EUR/USD"}))
	}
	assert.ErrorIs(t, hub.PublishStatus(context.Background(), model.Status{Symbol: "EUR/USD"}), ErrQueueFull)
}
