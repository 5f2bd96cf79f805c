package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vitaehq/vitae-api/internal/config"
	"github.com/vitaehq/vitae-api/internal/extract"
	"github.com/vitaehq/vitae-api/internal/notify"
	"github.com/vitaehq/vitae-api/internal/platform/gemini"
	"github.com/vitaehq/vitae-api/internal/platform/logger"
	"github.com/vitaehq/vitae-api/internal/platform/postgres"
	"github.com/vitaehq/vitae-api/internal/service"
	"github.com/vitaehq/vitae-api/internal/task"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set environment variables directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("starting server",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if err := postgres.MigrateUp(db); err != nil {
		return err
	}
	log.Info("database migrations applied")

	ctx := context.Background()

	generator, err := gemini.NewGeminiGenerator(ctx, log, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create Gemini generator: %w", err)
	}

	stores := service.PipelineStores{
		Statuses:   postgres.NewPostgresStatusStore(db),
		Documents:  postgres.NewPostgresDocumentStore(db),
		Entries:    postgres.NewPostgresFreeformStore(db),
		Education:  postgres.NewPostgresEducationStore(db),
		Employment: postgres.NewPostgresEmploymentStore(db),
		Skills:     postgres.NewPostgresSkillStore(db),
		Listings:   postgres.NewPostgresListingStore(db),
		Resumes:    postgres.NewPostgresResumeStore(db),
	}

	statusService := service.NewStatusService(stores.Statuses, log)
	skillService := service.NewSkillService(stores.Skills, log)

	hub := notify.NewHub(
		time.Duration(cfg.Notify.SubscriptionIdleMinutes)*time.Minute,
		log,
	)

	runner := task.NewRunner(statusService, hub, task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, log)
	runner.Start()
	defer runner.Stop()

	pipeline, err := service.NewPipelineService(
		db,
		stores,
		statusService,
		skillService,
		extract.NewExtractor(),
		generator,
		generator,
		runner,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline service: %w", err)
	}

	app := &application{
		logger:        log,
		pipeline:      pipeline,
		statusService: statusService,
		hub:           hub,
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// openDatabase opens and verifies the PostgreSQL connection pool.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
