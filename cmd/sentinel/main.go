package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/broadcast"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/risk"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/server"
	"SignalSentinel/internal/signalstore"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Msg("SignalSentinel starting")

	profile, err := cfg.ResolveProfile()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve profile")
	}
	instruments, err := cfg.InstrumentOverrides()
	if err != nil {
		log.Fatal().Err(err).Msg("instrument overrides")
	}
	news, err := cfg.NewsFilter()
	if err != nil {
		log.Fatal().Err(err).Msg("news filter")
	}

	fetcher, err := collector.NewFetcher(cfg.DataSource.Provider, cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	if err != nil {
		log.Fatal().Err(err).Msg("init fetcher")
	}
	log.Info().Str("source", fetcher.Name()).Str("interval", cfg.Interval).Msg("data source ready")

	col := collector.NewCollector(fetcher, profile, cfg.Interval, cfg.Lookback)
	store := signalstore.New(cfg.Symbols, cfg.Strategy.Cooldown)
	rm := risk.NewManager(risk.NewRegistry(instruments))
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub(func() server.Snapshot {
		return server.Snapshot{Type: server.EventSnapshot, Signals: store.All(), Statuses: store.Statuses()}
	})
	hub.OnClients = func(n int) { m.WSClients.Set(float64(n)) }
	pubs := notifier.Multi{notifier.LogPublisher{}, hub}

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		pubs = append(pubs, tn)
	} else {
		log.Warn().Msg("telegram not configured, signals are only logged and served over HTTP")
	}

	if cfg.Redis.Addr != "" {
		rp, err := broadcast.NewRedisPublisher(ctx, broadcast.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis broadcast disabled")
		} else {
			pubs = append(pubs, rp)
			defer rp.Close()
		}
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	sched := scheduler.NewScheduler(ctx, col, store, rm, pubs, rec, m)
	sched.News = news
	sched.Concurrency = cfg.Schedule.Concurrency
	sched.FetchTimeout = cfg.Schedule.FetchTimeout
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cycle")
	}

	go hub.Run(ctx)
	srv := server.New(cfg.HTTP.Addr, sched, hub, m)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	sched.Start(cfg.Schedule.RunOnStart)

	if tn != nil && cfg.Telegram.Polling {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	log.Info().Strs("symbols", cfg.Symbols).Str("cron", cfg.Schedule.Cron).Msg("SignalSentinel is running, press Ctrl+C to stop")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	sched.Stop()
	log.Info().Msg("SignalSentinel stopped")
}
