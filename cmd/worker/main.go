// Command worker consumes file:extract tasks off Redis and runs the same
// per-file pipeline the batch CLI uses inline.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/calebds/pagetext/internal/config"
	"github.com/calebds/pagetext/internal/database"
	"github.com/calebds/pagetext/internal/extract"
	"github.com/calebds/pagetext/internal/logging"
	"github.com/calebds/pagetext/internal/pipeline"
	"github.com/calebds/pagetext/internal/publish"
	"github.com/calebds/pagetext/internal/queue"
	"github.com/calebds/pagetext/internal/queue/workers"
	"github.com/calebds/pagetext/internal/repository"
	"github.com/calebds/pagetext/internal/storage"
	"github.com/calebds/pagetext/internal/textract"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLogs := logging.Setup(cfg.Logging)
	slog.SetDefault(logger)

	runErr := run(cfg)
	closeLogs()
	if runErr != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("redis unavailable", "addr", cfg.Redis.Addr, "error", err)
		return err
	}
	rdb.Close()

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("connect database", "error", err)
		return err
	}
	defer pool.Close()
	repo := repository.NewFileRepository(pool)

	store, err := storage.NewS3Store(cfg.AWS, cfg.Storage)
	if err != nil {
		slog.Error("init storage", "error", err)
		return err
	}
	analyzer := textract.NewClient(cfg.OCR.Endpoint, cfg.OCR.APIKey)
	driver := extract.NewDriver(analyzer, cfg.Extract.PollInterval, cfg.Extract.PollTimeout)
	publisher := publish.NewPublisher(store)
	proc := pipeline.NewProcessor(driver, publisher, repo)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Extract.Workers,
		},
	)

	registry := queue.NewHandlersRegistry()
	extractWorker := workers.NewExtractWorker(repo, proc)
	registry.Register(queue.TypeFileExtract, asynq.HandlerFunc(extractWorker.ProcessTask))

	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()

	slog.Info("starting worker", "concurrency", cfg.Extract.Workers)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		return err
	}
	return nil
}
