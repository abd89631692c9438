package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/premdoors/qc-tracker/internal/annotate"
	"github.com/premdoors/qc-tracker/internal/annotate/openai"
	"github.com/premdoors/qc-tracker/internal/attachments"
	"github.com/premdoors/qc-tracker/internal/blob"
	"github.com/premdoors/qc-tracker/internal/checklist"
	"github.com/premdoors/qc-tracker/internal/common"
	"github.com/premdoors/qc-tracker/internal/export"
	"github.com/premdoors/qc-tracker/internal/feed"
	qchttp "github.com/premdoors/qc-tracker/internal/http"
	"github.com/premdoors/qc-tracker/internal/http/handlers"
	"github.com/premdoors/qc-tracker/internal/jobs"
	"github.com/premdoors/qc-tracker/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	template, err := checklist.Load()
	if err != nil {
		logger.Error("failed to load checklist template", "error", err)
		os.Exit(1)
	}

	// Record store: postgres when DB_URL is set, sqlite otherwise.
	var repo repository.JobRepository
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)

		if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
			logger.Error("database health check failed", "error", err)
			os.Exit(1)
		}

		repo, err = repository.NewPostgresJobRepository(ctx, pool, logger)
		if err != nil {
			logger.Error("failed to initialize jobs repository", "error", err)
			os.Exit(1)
		}
	} else {
		sqliteRepo, err := repository.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = sqliteRepo.Close() }()
		repo = sqliteRepo
	}

	// Change feed: redis for multi-instance convergence, in-process without.
	var fd feed.Feed
	if cfg.Feed.RedisAddr != "" {
		fd, err = feed.NewRedisFeed(cfg.Feed, logger)
		if err != nil {
			logger.Error("failed to connect change feed", "error", err)
			os.Exit(1)
		}
		defer func() { _ = fd.Close() }()
	} else {
		logger.Warn("REDIS_ADDR not set; change feed is in-process only")
		fd = feed.NewMemoryFeed()
	}

	store, err := blob.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to initialize blob store", "error", err)
		os.Exit(1)
	}

	var annotator annotate.Provider = annotate.Disabled{}
	if cfg.Annotation.APIKey != "" {
		annotator = openai.NewClient(cfg.Annotation, logger)
	} else {
		logger.Info("annotation provider disabled (no OPENAI_API_KEY)")
	}

	jobSvc := jobs.NewService(repo, fd, template, logger)
	cache := jobs.NewCache(repo, logger)
	if err := cache.Start(ctx, fd); err != nil {
		logger.Error("initial job list failed", "error", err)
		os.Exit(1)
	}

	mgr := attachments.NewManager(store, jobSvc, annotator, logger)
	exportSvc := export.NewService(repo, logger)

	router := qchttp.NewRouter(qchttp.RouterConfig{
		JobHandler:        handlers.NewJobHandler(jobSvc, cache, logger),
		AttachmentHandler: handlers.NewAttachmentHandler(mgr, logger),
		ExportHandler:     handlers.NewExportHandler(exportSvc, logger),
		RealtimeHandler:   handlers.NewRealtimeHandler(cache, logger),
		HealthHandler:     handlers.NewHealthHandler(),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
