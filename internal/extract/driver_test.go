package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calebds/pagetext/internal/textract"
)

type fakeAnalyzer struct {
	startErr error
	statuses []*textract.Detection
	pages    map[string]*textract.Detection
	polls    int
}

func (f *fakeAnalyzer) StartTextDetection(ctx context.Context, bucket, key string) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	return "job-1", nil
}

func (f *fakeAnalyzer) GetTextDetection(ctx context.Context, jobID, nextToken string) (*textract.Detection, error) {
	if nextToken != "" {
		det, ok := f.pages[nextToken]
		if !ok {
			return nil, errors.New("unknown continuation token")
		}
		return det, nil
	}
	det := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	f.polls++
	return det, nil
}

func newDriver(a Analyzer) *Driver {
	return NewDriver(a, time.Millisecond, time.Second)
}

func TestRunAssemblesPaginatedLines(t *testing.T) {
	analyzer := &fakeAnalyzer{
		statuses: []*textract.Detection{
			{JobStatus: textract.StatusInProgress},
			{
				JobStatus: textract.StatusSucceeded,
				Blocks: []textract.Block{
					{BlockType: textract.BlockTypePage},
					{BlockType: textract.BlockTypeLine, Text: "first line"},
					{BlockType: textract.BlockTypeWord, Text: "first"},
					{BlockType: textract.BlockTypeLine, Text: "second line"},
				},
				NextToken: "t1",
			},
		},
		pages: map[string]*textract.Detection{
			"t1": {
				JobStatus: textract.StatusSucceeded,
				Blocks: []textract.Block{
					{BlockType: textract.BlockTypeLine, Text: "third line"},
					{BlockType: textract.BlockTypeWord, Text: "third"},
				},
			},
		},
	}

	content, err := newDriver(analyzer).Run(context.Background(), "b", "k")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "first line\nsecond line\nthird line"
	if content != want {
		t.Errorf("content = %q, want %q", content, want)
	}
	if analyzer.polls < 2 {
		t.Errorf("expected at least 2 status polls, got %d", analyzer.polls)
	}
}

func TestRunFailedJob(t *testing.T) {
	analyzer := &fakeAnalyzer{
		statuses: []*textract.Detection{{JobStatus: textract.StatusFailed}},
	}
	_, err := newDriver(analyzer).Run(context.Background(), "b", "k")
	if !errors.Is(err, ErrJobFailed) {
		t.Fatalf("err = %v, want ErrJobFailed", err)
	}
}

func TestRunPollTimeout(t *testing.T) {
	analyzer := &fakeAnalyzer{
		statuses: []*textract.Detection{{JobStatus: textract.StatusInProgress}},
	}
	d := NewDriver(analyzer, time.Millisecond, 10*time.Millisecond)
	_, err := d.Run(context.Background(), "b", "k")
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("err = %v, want ErrPollTimeout", err)
	}
}

func TestRunSubmissionError(t *testing.T) {
	boom := errors.New("no such object")
	analyzer := &fakeAnalyzer{startErr: boom}
	_, err := newDriver(analyzer).Run(context.Background(), "b", "k")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped submission error", err)
	}
}

func TestRunCancelledDuringPoll(t *testing.T) {
	analyzer := &fakeAnalyzer{
		statuses: []*textract.Detection{{JobStatus: textract.StatusInProgress}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewDriver(analyzer, time.Hour, time.Hour)
	_, err := d.Run(ctx, "b", "k")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
