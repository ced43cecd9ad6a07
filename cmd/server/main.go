package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/wtusfo/song-and-singer/internal/auth"
	"github.com/wtusfo/song-and-singer/internal/config"
	"github.com/wtusfo/song-and-singer/internal/database"
	"github.com/wtusfo/song-and-singer/internal/events"
	"github.com/wtusfo/song-and-singer/internal/handlers"
	"github.com/wtusfo/song-and-singer/internal/identity"
	"github.com/wtusfo/song-and-singer/internal/logger"
	"github.com/wtusfo/song-and-singer/internal/metrics"
	"github.com/wtusfo/song-and-singer/internal/review"
	"github.com/wtusfo/song-and-singer/internal/typesense"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logr := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, logr); err != nil {
		logr.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logr *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		logr.Info("database schema applied")
	}

	bus := events.NewBus()
	m := metrics.New()

	deps := handlers.Deps{
		DB:       db,
		Bus:      bus,
		Identity: identity.New(&identity.Config{URL: cfg.IdentityURL, AnonKey: cfg.IdentityAnonKey, ServiceKey: cfg.IdentityServiceKey}),
		Verifier: auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		Metrics:  m,
		Config:   cfg,
		Log:      logr,
	}

	if cfg.DisableTypesense {
		logr.Warn("typesense is disabled, search falls back to the database")
	} else {
		ts, err := typesense.New(cfg.TypesenseAPIKey, cfg.TypesenseHost, logr)
		if err != nil {
			return fmt.Errorf("initialize typesense: %w", err)
		}
		unsubscribe := typesense.NewIndexer(ts, m, logr).Subscribe(bus)
		defer unsubscribe()
		deps.Search = ts
		logr.Info("typesense client initialized", "host", cfg.TypesenseHost)
	}

	deps.Review = review.NewService(db, bus, logr, review.WithMetrics(m))

	app := handlers.NewApp(handlers.New(deps))

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", "port", cfg.Port, "driver", cfg.DatabaseDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
