package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gopkg.in/natefinch/lumberjack.v2"

	"episode_syncer/internal/api"
	"episode_syncer/internal/config"
	"episode_syncer/internal/library/jellyfin"
	"episode_syncer/internal/publisher"
	"episode_syncer/internal/scheduler"
	"episode_syncer/internal/service"
	"episode_syncer/internal/source/tvdb"
	"episode_syncer/internal/storage/bolt"
	"episode_syncer/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info", "")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel, cfg.LogFile)

	syncState, closeStore, err := openSyncStateStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open sync state store", "store", cfg.Sync.Store, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// The publisher is optional; without it reports are only logged.
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	catalog := tvdb.New(tvdb.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		Language:          cfg.Catalog.Language,
		Timeout:           cfg.Catalog.Timeout,
		ScratchDir:        cfg.Catalog.ScratchDir,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		MaxAttempts:       cfg.Catalog.Retry.MaxAttempts,
		InitialBackoff:    cfg.Catalog.Retry.InitialBackoff,
		MaxBackoff:        cfg.Catalog.Retry.MaxBackoff,
		FailureThreshold:  cfg.Catalog.Breaker.FailureThreshold,
		OpenTimeout:       cfg.Catalog.Breaker.OpenTimeout,
	}, logger)

	library := jellyfin.NewClient(jellyfin.Config{
		BaseURL:  cfg.Library.BaseURL,
		Token:    cfg.Library.Token,
		UserID:   cfg.Library.UserID,
		PageSize: cfg.Library.PageSize,
		Provider: cfg.Library.Provider,
	}, logger)

	syncService := service.NewSyncService(
		catalog,
		library,
		syncState,
		pub,
		logger,
		cfg.Sync,
		cfg.Catalog.Language,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := syncService.Prime(ctx); err != nil {
		logger.Error("failed to load sync state", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(api.NewHandler(ctx, syncService, cfg.Sync.Timeout, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, cfg.Sync.Timeout, logger)

	logger.Info("starting episode syncer",
		"source", catalog.Name(),
		"store", cfg.Sync.Store,
		"interval", cfg.Sync.Interval,
		"workers", cfg.Sync.Workers,
	)

	err = sched.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if serr := server.Shutdown(shutdownCtx); serr != nil {
		logger.Error("http server shutdown failed", "error", serr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func openSyncStateStore(cfg *config.Config, logger *slog.Logger) (service.SyncStateStore, func(), error) {
	switch cfg.Sync.Store {
	case config.StoreBolt:
		store, err := bolt.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("opened bolt store", "path", cfg.Bolt.Path)
		return store, func() { _ = store.Close() }, nil

	case config.StorePostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("connected to database")
		return postgres.NewSyncStateStore(db, postgres.NewTransactionManager(db)), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Sync.Store)
	}
}

func setupLogger(level, file string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(out, opts)
	return slog.New(handler)
}
