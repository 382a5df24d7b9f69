package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/calebds/pagetext/internal/models"
	"github.com/calebds/pagetext/internal/publish"
)

type fakeExtractor struct {
	bucket, key string
	content     string
	err         error
}

func (f *fakeExtractor) Run(ctx context.Context, bucket, key string) (string, error) {
	f.bucket, f.key = bucket, key
	return f.content, f.err
}

type fakePublisher struct {
	sourceKey string
	res       *publish.Result
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, sourceKey, content string) (*publish.Result, error) {
	f.sourceKey = sourceKey
	return f.res, f.err
}

type fakeRecords struct {
	id    string
	url   string
	words int
	toks  int
	err   error
	calls int
}

func (f *fakeRecords) RecordExtraction(ctx context.Context, id, pageContentURL string, wordCount, tokenCountEstimate int) error {
	f.calls++
	f.id, f.url, f.words, f.toks = id, pageContentURL, wordCount, tokenCountEstimate
	return f.err
}

var testFile = models.FileRecord{
	ID:    "f-1",
	Title: "quarterly report",
	URL:   "s3://docs-bucket/uploads/report.pdf",
}

func TestProcessHappyPath(t *testing.T) {
	ext := &fakeExtractor{content: "line one\nline two"}
	pub := &fakePublisher{res: &publish.Result{
		PageContentURL:     "https://b.s3.us-east-1.amazonaws.com/pageContents/report.txt",
		WordCount:          4,
		TokenCountEstimate: 4,
	}}
	rec := &fakeRecords{}

	if err := NewProcessor(ext, pub, rec).Process(context.Background(), testFile); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if ext.bucket != "docs-bucket" || ext.key != "uploads/report.pdf" {
		t.Errorf("extractor got (%q, %q)", ext.bucket, ext.key)
	}
	if pub.sourceKey != "uploads/report.pdf" {
		t.Errorf("publisher source key = %q", pub.sourceKey)
	}
	if rec.id != "f-1" || rec.words != 4 || rec.toks != 4 {
		t.Errorf("recorded (%q, %d, %d)", rec.id, rec.words, rec.toks)
	}
}

func TestProcessExtractionFailureSkipsRecord(t *testing.T) {
	boom := errors.New("detection failed")
	ext := &fakeExtractor{err: boom}
	rec := &fakeRecords{}

	err := NewProcessor(ext, &fakePublisher{}, rec).Process(context.Background(), testFile)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped extraction error", err)
	}
	if rec.calls != 0 {
		t.Errorf("record updated after failed extraction")
	}
}

func TestProcessPublishFailureSkipsRecord(t *testing.T) {
	boom := errors.New("upload refused")
	rec := &fakeRecords{}

	err := NewProcessor(&fakeExtractor{content: "x"}, &fakePublisher{err: boom}, rec).Process(context.Background(), testFile)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped publish error", err)
	}
	if rec.calls != 0 {
		t.Errorf("record updated after failed publish")
	}
}

func TestProcessRecordFailurePropagates(t *testing.T) {
	boom := errors.New("commit failed")
	pub := &fakePublisher{res: &publish.Result{PageContentURL: "u"}}
	rec := &fakeRecords{err: boom}

	err := NewProcessor(&fakeExtractor{content: "x"}, pub, rec).Process(context.Background(), testFile)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped record error", err)
	}
}
