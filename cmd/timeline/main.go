package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alexanderramin/timeline/internal/cli"
	"github.com/alexanderramin/timeline/internal/config"
	"github.com/alexanderramin/timeline/internal/db"
	"github.com/alexanderramin/timeline/internal/repository"
	"github.com/alexanderramin/timeline/internal/service"
	"github.com/alexanderramin/timeline/internal/telemetry"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(os.Environ())
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	logger := slog.New(slog.DiscardHandler)
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	metrics, err := telemetry.New(ctx, telemetry.Config{Endpoint: cfg.OTLPEndpoint, Insecure: cfg.OTLPInsecure})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry_shutdown_failed", "error", err)
		}
	}()

	entities := service.NewEntityService(
		repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteTaskRepo(database),
		db.NewSQLiteUnitOfWork(database),
		observers...,
	)

	app := &cli.App{
		Entities: entities,
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
	}

	root := cli.NewRootCmd(app)
	// A bare invocation on a terminal opens the interactive timeline.
	if len(os.Args) == 1 && isatty.IsTerminal(os.Stdout.Fd()) {
		root.SetArgs([]string{"tui"})
	}
	return root.ExecuteContext(ctx)
}
