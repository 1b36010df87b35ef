package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"

	"github.com/itervo/librecur/internal/config"
	"github.com/itervo/librecur/reminder"
	"github.com/itervo/librecur/schedule"
	"github.com/itervo/librecur/server"
	"github.com/itervo/librecur/storage"
	"github.com/itervo/librecur/storage/memory"
	"github.com/itervo/librecur/storage/sqlite"
)

// flagConfig holds CLI flag values that override the config file.
type flagConfig struct {
	configPath string
	listen     string
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "librecurd.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")

	flag.Parse()

	return cfg
}

func main() {
	flags := parseFlags()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", flags.configPath, err)
		os.Exit(1)
	}

	// CLI --listen overrides the config file listen address if provided.
	if flags.listen != "" {
		cfg.Listen = flags.listen
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	if err := run(logger, cfg); err != nil {
		logger.Error("librecurd failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config) error {
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: cfg.SampleRate,
			SampleRate:       cfg.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("failed to init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	store, closeStore, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cacheTTL, err := cfg.CacheTTLDuration()
	if err != nil {
		return err
	}
	engineCfg := schedule.DefaultEngineConfig
	engineCfg.Cache.TTL = cacheTTL
	engine := schedule.NewEngineWithConfig(engineCfg)
	defer engine.Close()

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithEngine(engine),
	}
	if !*cfg.FeedEnabled {
		opts = append(opts, server.WithFeedDisabled())
	}
	if cfg.SentryDSN != "" {
		opts = append(opts, server.WithSentry())
	}
	srv, err := server.New(store, opts...)
	if err != nil {
		return err
	}
	defer srv.Close()

	horizon, err := cfg.ReminderHorizonDuration()
	if err != nil {
		return err
	}
	scanner, err := reminder.New(store, engine,
		reminder.WithLogger(logger),
		reminder.WithHorizon(horizon),
	)
	if err != nil {
		return err
	}

	jobs := cron.New()
	_, err = jobs.AddFunc(cfg.ReminderCron, func() {
		if _, err := scanner.ScanOnce(context.Background(), time.Now()); err != nil {
			logger.Error("reminder scan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder_cron %q: %w", cfg.ReminderCron, err)
	}
	_, err = jobs.AddFunc("@hourly", func() {
		stats := engine.CacheStats()
		logger.Debug("occurrence cache stats",
			"total", stats.TotalEntries,
			"active", stats.ActiveEntries,
			"expired", stats.ExpiredEntries,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cache stats job: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("librecurd listening",
			"addr", cfg.Listen,
			"storage", cfg.Storage.Driver,
			"feed_enabled", *cfg.FeedEnabled,
			"reminder_cron", cfg.ReminderCron,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("signal received, shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	return nil
}

// openStorage builds the backend named by the config. The cleanup func
// releases whatever the backend holds open.
func openStorage(cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		st, err := sqlite.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite storage %q: %w", cfg.Storage.DSN, err)
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return memory.New(), func() {}, nil
	}
}
