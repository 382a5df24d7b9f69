package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/calebds/pagetext/internal/models"
)

// FileLister selects the files still awaiting extraction.
type FileLister interface {
	ListUnprocessed(ctx context.Context, folderID string) ([]models.FileRecord, error)
}

// FileProcessor handles one file end to end.
type FileProcessor interface {
	Process(ctx context.Context, file models.FileRecord) error
}

// Summary is the aggregate outcome of one batch run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Orchestrator selects eligible files once up front and dispatches each to
// the processor, at most workers at a time. A unit's failure is logged and
// counted, never propagated, so one broken file cannot stop the batch.
type Orchestrator struct {
	files    FileLister
	proc     FileProcessor
	folderID string
	workers  int
}

func NewOrchestrator(files FileLister, proc FileProcessor, folderID string, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		files:    files,
		proc:     proc,
		folderID: folderID,
		workers:  workers,
	}
}

func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	files, err := o.files.ListUnprocessed(ctx, o.folderID)
	if err != nil {
		return nil, fmt.Errorf("select eligible files: %w", err)
	}
	slog.Info("found files to process", "count", len(files), "folder_id", o.folderID)

	var failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(o.workers)
	for _, file := range files {
		g.Go(func() error {
			if err := o.proc.Process(ctx, file); err != nil {
				failed.Add(1)
				slog.Error("file processing failed", "file_id", file.ID, "error", err)
			}
			return nil
		})
	}
	// Units never return errors, so Wait only joins.
	_ = g.Wait()

	s := &Summary{
		Total:  len(files),
		Failed: int(failed.Load()),
	}
	s.Succeeded = s.Total - s.Failed
	slog.Info("processing complete", "total", s.Total, "succeeded", s.Succeeded, "failed", s.Failed)
	return s, nil
}
