// Command pagetext runs one extraction batch: every file in the configured
// folder without recorded page content is pushed through the OCR pipeline.
// Per-file failures are logged and skipped; only batch-level failures exit
// nonzero.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/calebds/pagetext/internal/config"
	"github.com/calebds/pagetext/internal/database"
	"github.com/calebds/pagetext/internal/extract"
	"github.com/calebds/pagetext/internal/logging"
	"github.com/calebds/pagetext/internal/pipeline"
	"github.com/calebds/pagetext/internal/publish"
	"github.com/calebds/pagetext/internal/queue"
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

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("connect database", "error", err)
		return err
	}
	defer pool.Close()
	repo := repository.NewFileRepository(pool)

	if cfg.Extract.Dispatch == config.DispatchQueue {
		return enqueueAll(ctx, cfg, repo)
	}

	store, err := storage.NewS3Store(cfg.AWS, cfg.Storage)
	if err != nil {
		slog.Error("init storage", "error", err)
		return err
	}
	analyzer := textract.NewClient(cfg.OCR.Endpoint, cfg.OCR.APIKey)
	driver := extract.NewDriver(analyzer, cfg.Extract.PollInterval, cfg.Extract.PollTimeout)
	publisher := publish.NewPublisher(store)

	proc := pipeline.NewProcessor(driver, publisher, repo)
	orch := pipeline.NewOrchestrator(repo, proc, cfg.Extract.FolderID, cfg.Extract.Workers)

	if _, err := orch.Run(ctx); err != nil {
		slog.Error("batch run failed", "error", err)
		return err
	}
	return nil
}

// enqueueAll hands the eligible files to the worker fleet instead of
// processing them in-process.
func enqueueAll(ctx context.Context, cfg *config.Config, repo *repository.FileRepository) error {
	files, err := repo.ListUnprocessed(ctx, cfg.Extract.FolderID)
	if err != nil {
		slog.Error("select eligible files", "error", err)
		return err
	}
	slog.Info("enqueueing files for extraction", "count", len(files))

	client := queue.NewClient(cfg.Redis)
	defer client.Close()

	enqueued := 0
	for _, file := range files {
		if err := client.EnqueueFileExtract(queue.FileExtractPayload{FileID: file.ID}); err != nil {
			slog.Error("enqueue file", "file_id", file.ID, "error", err)
			continue
		}
		enqueued++
	}
	slog.Info("enqueue complete", "enqueued", enqueued, "total", len(files))
	return nil
}
