package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"DailySignal/internal/collector"
	"DailySignal/internal/config"
	"DailySignal/internal/metrics"
	"DailySignal/internal/notifier"
	"DailySignal/internal/recorder"
	"DailySignal/internal/scanner"
	"DailySignal/internal/scheduler"
	"DailySignal/internal/util"
)

func main() {
	boot := util.NewLogger(os.Getenv("LOG_LEVEL"))
	boot.Info().Msg("DailySignal starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		boot.Fatal().Err(err).Msg("config validation")
	}
	hour, minute, _ := cfg.Schedule.Clock()

	log := util.NewLogger(cfg.Log.Level)

	// Init fetcher
	fetcher := collector.NewBybitFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Category,
		cfg.DataSource.QuoteCoin, cfg.Proxy, cfg.HTTP.Timeout)
	log.Info().Str("source", fetcher.Name()).Str("base_url", cfg.DataSource.BaseURL).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.Scan.TopN, cfg.Scan.CandleLimit, cfg.DataSource.FallbackSymbols)

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BaseURL, cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, cfg.HTTP.Timeout)

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
			defer sr.Close()
		}
	}

	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr)
		defer srv.Close()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics up")
	}

	sc := scanner.New(col, tn, rec, log, scanner.Options{
		NotifyNoSignal: cfg.Scan.NotifyNoSignal,
		Now:            func() time.Time { return time.Now().UTC() },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, sc, tn, log)
	if err := sched.RegisterDaily(hour, minute); err != nil {
		log.Fatal().Err(err).Msg("register daily scan")
	}
	sched.Start()
	defer sched.Stop()
	log.Info().Time("next", sched.Next()).Msg("DailySignal is running. Press Ctrl+C to stop.")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, scanning now")
		sched.RunNow()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	log.Info().Msg("DailySignal stopped")
}
