package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/calebds/pagetext/internal/models"
	"github.com/calebds/pagetext/internal/pipeline"
	"github.com/calebds/pagetext/internal/queue"
)

// FileGetter loads one file row by id.
type FileGetter interface {
	Get(ctx context.Context, id string) (*models.FileRecord, error)
}

// ExtractWorker consumes file:extract tasks and runs the same per-file
// pipeline the inline batch uses.
type ExtractWorker struct {
	files FileGetter
	proc  pipeline.FileProcessor
}

func NewExtractWorker(files FileGetter, proc pipeline.FileProcessor) *ExtractWorker {
	return &ExtractWorker{files: files, proc: proc}
}

func (w *ExtractWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.FileExtractPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if _, err := uuid.Parse(payload.FileID); err != nil {
		return fmt.Errorf("parse file ID %q: %w", payload.FileID, err)
	}

	file, err := w.files.Get(ctx, payload.FileID)
	if err != nil {
		return fmt.Errorf("load file: %w", err)
	}
	if file.Processed() {
		slog.Info("file already processed, skipping", "file_id", file.ID)
		return nil
	}

	return w.proc.Process(ctx, *file)
}
