package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"SignalSentinel/internal/model"
)

// SQLiteRecorder persists the journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while the engine writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id                 TEXT PRIMARY KEY,
			timestamp          INTEGER NOT NULL,
			symbol             TEXT NOT NULL,
			direction          TEXT NOT NULL,
			profile            TEXT,
			entry_price        REAL,
			stop_loss          REAL,
			take_profit        REAL,
			stop_distance      REAL,
			target_distance    REAL,
			pips               REAL,
			confidence_percent REAL,
			confidence_tier    TEXT,
			bullish_count      INTEGER,
			bearish_count      INTEGER,
			condition_total    INTEGER,
			reasons            TEXT,
			factors            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol_ts ON signals(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS cycles (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			duration_ms INTEGER,
			source      TEXT,
			symbols     INTEGER,
			signals     INTEGER,
			holds       INTEGER,
			duplicates  INTEGER,
			suppressed  INTEGER,
			no_data     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON cycles(started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(sig *model.Signal) error {
	reasons, err := json.Marshal(sig.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}
	factors, err := json.Marshal(sig.Factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO signals
		(id, timestamp, symbol, direction, profile,
		 entry_price, stop_loss, take_profit, stop_distance, target_distance, pips,
		 confidence_percent, confidence_tier,
		 bullish_count, bearish_count, condition_total, reasons, factors)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sig.ID, sig.Timestamp.Unix(), sig.Symbol, string(sig.Direction), sig.Profile,
		sig.EntryPrice, sig.StopLoss, sig.TakeProfit, sig.StopDistance, sig.TargetDistance, sig.Pips,
		sig.ConfidencePercent, string(sig.ConfidenceTier),
		sig.BullishCount, sig.BearishCount, sig.ConditionTotal, string(reasons), string(factors),
	)
	if err != nil {
		return fmt.Errorf("insert signal %s: %w", sig.ID, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordCycle(c *CycleSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycles
		(id, started_at, duration_ms, source, symbols, signals, holds, duplicates, suppressed, no_data)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.StartedAt.Unix(), c.Duration.Milliseconds(), c.Trigger,
		c.Symbols, c.Signals, c.Holds, c.Duplicates, c.Suppressed, c.NoData,
	)
	if err != nil {
		return fmt.Errorf("insert cycle %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
