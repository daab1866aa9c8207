package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordSignal(t *testing.T) {
	r := openTemp(t)
	sig := &model.Signal{
		ID:                "a1",
		Symbol:            "EUR/USD",
		Direction:         model.DirectionBuy,
		Profile:           "intraday",
		Timestamp:         time.Unix(1709547300, 0),
		EntryPrice:        1.2,
		StopLoss:          1.196,
		TakeProfit:        1.208,
		ConfidencePercent: 56,
		ConfidenceTier:    model.TierMedium,
		Reasons:           []string{"rsi: RSI 25.0 (< 40)"},
		Factors:           []model.FactorScore{{Name: "oscillator", Weight: 20, Credit: 1, Weighted: 20}},
	}
	require.NoError(t, r.RecordSignal(sig))

	var (
		symbol, direction, reasons string
		stop                       float64
		ts                         int64
	)
	err := r.db.QueryRow(`SELECT symbol, direction, stop_loss, timestamp, reasons FROM signals WHERE id = ?`, "a1").
		Scan(&symbol, &direction, &stop, &ts, &reasons)
	require.NoError(t, err)
	assert.Equal(t, "EUR/USD", symbol)
	assert.Equal(t, "BUY", direction)
	assert.Equal(t, 1.196, stop)
	assert.Equal(t, int64(1709547300), ts)
	assert.Equal(t, `["rsi: RSI 25.0 (< 40)"]`, reasons)

	assert.Error(t, r.RecordSignal(sig), "duplicate id")
}

func TestRecordCycle(t *testing.T) {
	r := openTemp(t)
	require.NoError(t, r.RecordCycle(&CycleSummary{
		ID: "c1", StartedAt: time.Now(), Duration: 1500 * time.Millisecond,
		Trigger: "schedule", Symbols: 3, Signals: 1, Holds: 1, Suppressed: 1,
	}))

	var dur int64
	var signals int
	require.NoError(t, r.db.QueryRow(`SELECT duration_ms, signals FROM cycles WHERE id = 'c1'`).Scan(&dur, &signals))
	assert.Equal(t, int64(1500), dur)
	assert.Equal(t, 1, signals)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	r1, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r1.Close())

	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	assert.NoError(t, r2.Close())
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordSignal(&model.Signal{}))
	assert.NoError(t, r.RecordCycle(&CycleSummary{}))
	assert.NoError(t, r.Close())
}
