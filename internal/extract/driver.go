// Package extract drives a single document through the asynchronous
// text-detection service: submit, poll to a terminal status, assemble the
// paginated result into one plain-text body.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/calebds/pagetext/internal/textract"
)

var (
	// ErrJobFailed means the service reported a terminal FAILED status,
	// usually a broken or unreadable source document.
	ErrJobFailed = errors.New("text detection job failed")
	// ErrPollTimeout means the job stayed IN_PROGRESS past the configured
	// maximum wait.
	ErrPollTimeout = errors.New("text detection job timed out")
)

// Analyzer is the slice of the detection service the driver uses.
type Analyzer interface {
	StartTextDetection(ctx context.Context, bucket, key string) (string, error)
	GetTextDetection(ctx context.Context, jobID, nextToken string) (*textract.Detection, error)
}

// Driver runs one detection job to completion. It is stateless between calls
// and safe to share across workers.
type Driver struct {
	analyzer     Analyzer
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewDriver(analyzer Analyzer, pollInterval, pollTimeout time.Duration) *Driver {
	return &Driver{
		analyzer:     analyzer,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

// Run submits the document at (bucket, key), polls until the job leaves
// IN_PROGRESS and returns the assembled text. Submission errors propagate
// unretried; a FAILED status maps to ErrJobFailed and exceeding the maximum
// wait maps to ErrPollTimeout.
func (d *Driver) Run(ctx context.Context, bucket, key string) (string, error) {
	jobID, err := d.analyzer.StartTextDetection(ctx, bucket, key)
	if err != nil {
		return "", fmt.Errorf("start text detection: %w", err)
	}
	slog.Info("started text detection job", "job_id", jobID, "key", key)

	deadline := time.Now().Add(d.pollTimeout)
	for {
		if err := sleep(ctx, d.pollInterval); err != nil {
			return "", err
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("job %s still in progress after %s: %w", jobID, d.pollTimeout, ErrPollTimeout)
		}

		det, err := d.analyzer.GetTextDetection(ctx, jobID, "")
		if err != nil {
			return "", fmt.Errorf("poll job %s: %w", jobID, err)
		}
		slog.Info("text detection job status", "job_id", jobID, "status", det.JobStatus)

		switch det.JobStatus {
		case textract.StatusInProgress:
			continue
		case textract.StatusFailed:
			return "", fmt.Errorf("job %s: %w", jobID, ErrJobFailed)
		case textract.StatusSucceeded:
			return d.assemble(ctx, jobID, det)
		default:
			return "", fmt.Errorf("job %s: unknown status %q", jobID, det.JobStatus)
		}
	}
}

// assemble concatenates the LINE blocks of every result page, pages joined
// by a newline. Continuation pages are fetched sequentially; the token chain
// is the service's, not ours, so order is preserved as returned.
func (d *Driver) assemble(ctx context.Context, jobID string, first *textract.Detection) (string, error) {
	pages := []string{joinLines(first.Blocks)}
	token := first.NextToken
	for token != "" {
		det, err := d.analyzer.GetTextDetection(ctx, jobID, token)
		if err != nil {
			return "", fmt.Errorf("fetch result page for job %s: %w", jobID, err)
		}
		pages = append(pages, joinLines(det.Blocks))
		token = det.NextToken
	}
	return strings.Join(pages, "\n"), nil
}

func joinLines(blocks []textract.Block) string {
	var lines []string
	for _, b := range blocks {
		if b.BlockType == textract.BlockTypeLine {
			lines = append(lines, b.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
