// Package scheduler runs the per-symbol analysis pipeline on a cron cadence.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/newsfilter"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/risk"
	"SignalSentinel/internal/signalstore"
	"SignalSentinel/internal/strategy"
)

const (
	DefaultCron         = "@every 15m"
	DefaultConcurrency  = 4
	DefaultFetchTimeout = 20 * time.Second
)

// Cycle triggers.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerStartup  = "startup"
)

// ErrUnknownSymbol is returned for refreshes of unconfigured symbols.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Result is the outcome of one symbol's pipeline.
type Result struct {
	Symbol string
	State  model.StatusState
	Signal *model.Signal
	Err    error
}

// Scheduler owns the cron loop and the per-symbol pipelines.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Profile   *strategy.Profile
	News      *newsfilter.Filter // nil disables news suppression
	Store     *signalstore.Store
	Risk      *risk.Manager
	Publisher notifier.Publisher
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics

	Concurrency  int
	FetchTimeout time.Duration
	Now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	flight singleflight.Group
	wg     sync.WaitGroup
}

// NewScheduler creates a new Scheduler. The parent context bounds every
// pipeline; Stop cancels it.
func NewScheduler(ctx context.Context, col *collector.Collector, store *signalstore.Store, rm *risk.Manager,
	pub notifier.Publisher, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if pub == nil {
		pub = notifier.LogPublisher{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Scheduler{
		Cron:         cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{}))),
		Collector:    col,
		Profile:      col.Profile,
		Store:        store,
		Risk:         rm,
		Publisher:    pub,
		Recorder:     rec,
		Metrics:      m,
		Concurrency:  DefaultConcurrency,
		FetchTimeout: DefaultFetchTimeout,
		Now:          time.Now,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Register adds the analysis cycle on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if spec == "" {
		spec = DefaultCron
	}
	if _, err := s.Cron.AddFunc(spec, func() { s.RunCycle(TriggerSchedule) }); err != nil {
		return fmt.Errorf("register cycle %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler, optionally running one cycle immediately.
func (s *Scheduler) Start(runOnStart bool) {
	s.Cron.Start()
	log.Info().Strs("symbols", s.Store.Symbols()).Str("profile", s.Profile.Name).Msg("scheduler started")
	if runOnStart {
		s.RunAsync(TriggerStartup)
	}
}

// Stop cancels in-flight pipelines and waits for running cycles to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Info().Msg("scheduler stopped")
}

// RunAsync starts a cycle in the background.
func (s *Scheduler) RunAsync(trigger string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunCycle(trigger)
	}()
}

// RunCycle analyzes every symbol with bounded concurrency. A failing symbol
// never cancels the others.
func (s *Scheduler) RunCycle(trigger string) *recorder.CycleSummary {
	started := s.Now()
	symbols := s.Store.Symbols()
	summary := &recorder.CycleSummary{ID: uuid.NewString(), StartedAt: started, Trigger: trigger, Symbols: len(symbols)}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.concurrency())
	for _, sym := range symbols {
		g.Go(func() error {
			res := s.refresh(sym)
			mu.Lock()
			defer mu.Unlock()
			switch res.State {
			case model.StatusSignal:
				summary.Signals++
			case model.StatusHold:
				summary.Holds++
			case model.StatusDuplicate:
				summary.Duplicates++
			case model.StatusSuppressed:
				summary.Suppressed++
			case model.StatusNoData:
				summary.NoData++
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.Duration = s.Now().Sub(started)
	s.Metrics.CyclesTotal.WithLabelValues(trigger).Inc()
	s.Metrics.CycleDuration.Observe(summary.Duration.Seconds())
	if err := s.Recorder.RecordCycle(summary); err != nil {
		log.Error().Err(err).Msg("record cycle")
	}
	log.Info().
		Str("trigger", trigger).
		Int("signals", summary.Signals).
		Int("holds", summary.Holds).
		Int("duplicates", summary.Duplicates).
		Int("suppressed", summary.Suppressed).
		Int("no_data", summary.NoData).
		Dur("took", summary.Duration).
		Msg("cycle complete")
	return summary
}

// RefreshSymbol analyzes one symbol now. A refresh that overlaps an
// in-flight analysis of the same symbol joins it.
func (s *Scheduler) RefreshSymbol(ctx context.Context, symbol string) (Result, error) {
	if !s.Store.Has(symbol) {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	ch := s.flight.DoChan(symbol, func() (interface{}, error) {
		return s.analyze(s.ctx, symbol), nil
	})
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		return r.Val.(Result), nil
	}
}

func (s *Scheduler) refresh(symbol string) Result {
	v, _, _ := s.flight.Do(symbol, func() (interface{}, error) {
		return s.analyze(s.ctx, symbol), nil
	})
	return v.(Result)
}

func (s *Scheduler) concurrency() int {
	if s.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return s.Concurrency
}

// analyze runs the stages for one symbol strictly in order: news check,
// fetch, snapshot, classify, score, risk, dedupe, publish, record.
func (s *Scheduler) analyze(ctx context.Context, symbol string) Result {
	now := s.Now()
	logger := log.With().Str("symbol", symbol).Str("profile", s.Profile.Name).Logger()

	if s.News != nil {
		if hit, ev := s.News.Check(now); hit {
			logger.Info().Str("event", ev.Label).Msg("news blackout, skipping analysis")
			s.Metrics.SuppressedTotal.Inc()
			s.outcome(symbol, model.StatusSuppressed)
			s.publishStatus(ctx, model.Status{Symbol: symbol, State: model.StatusSuppressed, Message: ev.Label, UpdatedAt: now}, false)
			return Result{Symbol: symbol, State: model.StatusSuppressed}
		}
	}

	s.publishStatus(ctx, model.Status{Symbol: symbol, State: model.StatusAnalyzing, UpdatedAt: now}, true)

	snap, err := s.collect(ctx, symbol)
	if err != nil {
		if ctx.Err() != nil {
			logger.Debug().Err(err).Msg("analysis cancelled")
			return Result{Symbol: symbol, Err: ctx.Err()}
		}
		logger.Warn().Err(err).Msg("analysis failed")
		s.outcome(symbol, model.StatusNoData)
		s.publishStatus(ctx, model.Status{Symbol: symbol, State: model.StatusNoData, Message: err.Error(), UpdatedAt: s.Now()}, true)
		return Result{Symbol: symbol, State: model.StatusNoData, Err: err}
	}

	ev := strategy.Evaluate(snap, s.Profile)
	dir := ev.Direction()
	if dir == model.DirectionHold {
		msg := fmt.Sprintf("%d bullish / %d bearish", ev.Decision.Bullish, ev.Decision.Bearish)
		if ev.Decision.GatedBy != "" {
			msg += ", gated by " + ev.Decision.GatedBy
		}
		logger.Debug().Str("direction", string(dir)).Msg(msg)
		s.outcome(symbol, model.StatusHold)
		s.publishStatus(ctx, model.Status{Symbol: symbol, State: model.StatusHold, Message: msg, UpdatedAt: s.Now()}, true)
		return Result{Symbol: symbol, State: model.StatusHold}
	}

	lv := s.Risk.SizeFor(symbol, snap.Price, dir, s.Profile.Risk.Estimate(snap), s.Profile.Risk)
	sig := &model.Signal{
		ID:                uuid.NewString(),
		Symbol:            symbol,
		Direction:         dir,
		Profile:           s.Profile.Name,
		Timestamp:         now,
		EntryPrice:        lv.Entry,
		StopLoss:          lv.StopLoss,
		TakeProfit:        lv.TakeProfit,
		StopDistance:      lv.StopDistance,
		TargetDistance:    lv.TargetDistance,
		Pips:              lv.Pips,
		ConfidencePercent: ev.Confidence.Percent,
		ConfidenceTier:    ev.Confidence.Tier,
		Factors:           ev.Confidence.Factors,
		BullishCount:      ev.Decision.Bullish,
		BearishCount:      ev.Decision.Bearish,
		ConditionTotal:    ev.Decision.Total,
		Reasons:           ev.Reasons,
	}

	if ctx.Err() != nil {
		return Result{Symbol: symbol, Err: ctx.Err()}
	}
	if s.Store.Accept(sig) == signalstore.Duplicate {
		logger.Debug().Str("direction", string(dir)).Msg("duplicate signal within cooldown")
		s.outcome(symbol, model.StatusDuplicate)
		s.publishStatus(ctx, model.Status{Symbol: symbol, State: model.StatusDuplicate, Message: string(dir), UpdatedAt: s.Now()}, true)
		return Result{Symbol: symbol, State: model.StatusDuplicate}
	}

	logger.Info().
		Str("direction", string(dir)).
		Float64("confidence", sig.ConfidencePercent).
		Str("tier", string(sig.ConfidenceTier)).
		Float64("entry", sig.EntryPrice).
		Msg("signal accepted")
	s.outcome(symbol, model.StatusSignal)
	s.Metrics.SignalsTotal.WithLabelValues(symbol, string(dir), string(sig.ConfidenceTier)).Inc()
	s.Metrics.LastConfidence.WithLabelValues(symbol).Set(sig.ConfidencePercent)

	if err := s.Publisher.PublishSignal(ctx, *sig); err != nil {
		s.Metrics.PublishErrors.Inc()
		logger.Error().Err(err).Msg("publish signal")
	}
	s.publishStatus(ctx, model.Status{Symbol: symbol, State: model.StatusSignal, Message: string(dir), UpdatedAt: s.Now()}, true)
	if err := s.Recorder.RecordSignal(sig); err != nil {
		logger.Error().Err(err).Msg("record signal")
	}
	return Result{Symbol: symbol, State: model.StatusSignal, Signal: sig}
}

func (s *Scheduler) collect(ctx context.Context, symbol string) (*model.IndicatorSnapshot, error) {
	fctx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
	defer cancel()

	source := s.Collector.Fetcher.Name()
	start := time.Now()
	snap, err := s.Collector.Collect(fctx, symbol)
	s.Metrics.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil && errors.Is(err, model.ErrDataUnavailable) {
		s.Metrics.FetchErrors.WithLabelValues(source).Inc()
	}
	return snap, err
}

func (s *Scheduler) outcome(symbol string, state model.StatusState) {
	s.Metrics.OutcomesTotal.WithLabelValues(symbol, string(state)).Inc()
}

// publishStatus reports a status. Only store=true statuses touch SymbolState.
func (s *Scheduler) publishStatus(ctx context.Context, st model.Status, store bool) {
	if store {
		s.Store.SetStatus(st)
	}
	if err := s.Publisher.PublishStatus(ctx, st); err != nil {
		s.Metrics.PublishErrors.Inc()
		log.Warn().Err(err).Str("symbol", st.Symbol).Msg("publish status")
	}
}

// Dismiss removes a stored signal and notifies publishers.
func (s *Scheduler) Dismiss(ctx context.Context, id string) (string, bool) {
	symbol, ok := s.Store.Dismiss(id)
	if !ok {
		return "", false
	}
	if err := s.Publisher.PublishDismiss(ctx, id); err != nil {
		s.Metrics.PublishErrors.Inc()
		log.Warn().Err(err).Str("id", id).Msg("publish dismiss")
	}
	return symbol, true
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}

var _ cron.Logger = cronLogger{}
