package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"BreakoutRadar/internal/backtest"
	"BreakoutRadar/internal/cache"
	"BreakoutRadar/internal/config"
	"BreakoutRadar/internal/provider"
	"BreakoutRadar/internal/recorder"
	"BreakoutRadar/internal/scanner"
	"BreakoutRadar/internal/scheduler"
	sig "BreakoutRadar/internal/signal"
	"BreakoutRadar/internal/sink"
)

var (
	cfgPath string
	runID   string
)

func main() {
	root := &cobra.Command{
		Use:           "radar",
		Short:         "Multi-timeframe breakout detection and walk-forward evaluation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "configs/config.yaml", "path to config file")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan over the configured universe",
		RunE:  runScan,
	}

	backtestCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run (or resume) a walk-forward backtest",
		RunE:  runBacktest,
	}
	backtestCmd.Flags().StringVar(&runID, "run-id", "", "run id; reuse to resume a checkpointed run")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run scheduled scans until interrupted",
		RunE:  runMonitor,
	}

	root.AddCommand(scanCmd, backtestCmd, monitorCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	provider provider.PriceSeriesProvider
	rec      recorder.Recorder
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	p := provider.NewHTTPProvider(provider.HTTPConfig{
		BaseURL:        cfg.Provider.BaseURL,
		APIKey:         cfg.Provider.APIKey,
		Proxy:          cfg.Proxy,
		RequestsPerSec: cfg.Provider.RequestsPerSec,
	}, log)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("sqlite recorder unavailable, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	return &app{cfg: cfg, log: log, provider: p, rec: rec}, nil
}

func (a *app) close() {
	if err := a.rec.Close(); err != nil {
		a.log.Warn().Err(err).Msg("recorder close failed")
	}
}

func (a *app) buildScanner() (*scanner.Scanner, error) {
	gen, err := sig.NewGenerator(
		a.provider,
		a.cfg.Provider.Benchmark,
		a.cfg.AnalyzerConfig(),
		cache.NewTTLCache(512, 15*time.Minute),
		a.cfg.Signal,
		a.log,
	)
	if err != nil {
		return nil, err
	}

	var snk sink.SignalSink = sink.NewLogSink(a.log)
	if a.cfg.Telegram.BotToken != "" && a.cfg.Telegram.ChatID != "" {
		snk = sink.NewMultiSink(snk,
			sink.NewTelegramSink(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log))
	}
	return scanner.New(gen, snk, a.rec, a.cfg.Scanner.Workers, a.log), nil
}

func runScan(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sc, err := a.buildScanner()
	if err != nil {
		return err
	}

	ctx, cancel := notifyContext()
	defer cancel()

	sum, err := sc.Scan(ctx, a.cfg.Universe.Symbols, time.Now().UTC())
	if err != nil {
		return err
	}
	a.log.Info().Int("signals", sum.Signals).Msg("scan finished")
	return nil
}

func runBacktest(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	store, err := backtest.NewFileStore(a.cfg.Database.CheckpointDir, a.log)
	if err != nil {
		return err
	}

	sim, err := backtest.NewSimulator(
		a.provider,
		a.cfg.Provider.Benchmark,
		store,
		a.rec,
		a.cfg.AnalyzerConfig(),
		a.cfg.Signal,
		a.cfg.Backtest,
		a.log,
	)
	if err != nil {
		return err
	}

	ctx, cancel := notifyContext()
	defer cancel()

	state, err := sim.Run(ctx, runID, a.cfg.Universe.Symbols)
	if state != nil {
		fmt.Println(sink.FormatBacktestSummary(state, a.cfg.Backtest.InitialCapital))
	}
	return err
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sc, err := a.buildScanner()
	if err != nil {
		return err
	}

	ctx, cancel := notifyContext()
	defer cancel()

	sched := scheduler.New(ctx, sc, a.cfg.Universe.Symbols, a.log)
	if err := sched.Register(a.cfg.Schedule.ScanCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		a.log.Info().Msg("RUN_ON_START enabled, scanning now")
		go sched.RunNow()
	}

	a.log.Info().Str("cron", a.cfg.Schedule.ScanCron).Msg("monitor running, Ctrl+C to stop")
	<-ctx.Done()
	a.log.Info().Msg("shutdown signal received, stopping")
	return nil
}

func notifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
