// Package pipeline runs the per-file extraction workflow and fans it out
// across eligible files.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calebds/pagetext/internal/models"
	"github.com/calebds/pagetext/internal/publish"
	"github.com/calebds/pagetext/internal/storage"
)

// TextExtractor runs one detection job to completion and returns the
// assembled text.
type TextExtractor interface {
	Run(ctx context.Context, bucket, key string) (string, error)
}

// ResultPublisher uploads extracted text and derives metrics.
type ResultPublisher interface {
	Publish(ctx context.Context, sourceKey, content string) (*publish.Result, error)
}

// RecordStore commits extraction output onto the file row.
type RecordStore interface {
	RecordExtraction(ctx context.Context, id, pageContentURL string, wordCount, tokenCountEstimate int) error
}

// Processor is one file's unit of work: locate, extract, publish, record.
// Any failure aborts only this file's attempt and leaves its row untouched,
// keeping the file eligible for a future run.
type Processor struct {
	extractor TextExtractor
	publisher ResultPublisher
	records   RecordStore
}

func NewProcessor(extractor TextExtractor, publisher ResultPublisher, records RecordStore) *Processor {
	return &Processor{
		extractor: extractor,
		publisher: publisher,
		records:   records,
	}
}

func (p *Processor) Process(ctx context.Context, file models.FileRecord) error {
	slog.Info("processing file", "file_id", file.ID, "title", file.Title, "url", file.URL)

	bucket, key, err := storage.ParseObjectURL(file.URL)
	if err != nil {
		return fmt.Errorf("locate source object: %w", err)
	}

	content, err := p.extractor.Run(ctx, bucket, key)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	res, err := p.publisher.Publish(ctx, key, content)
	if err != nil {
		return fmt.Errorf("publish page content: %w", err)
	}
	slog.Info("uploaded page content", "file_id", file.ID, "url", res.PageContentURL)

	if err := p.records.RecordExtraction(ctx, file.ID, res.PageContentURL, res.WordCount, res.TokenCountEstimate); err != nil {
		return fmt.Errorf("record extraction: %w", err)
	}

	slog.Info("file processed", "file_id", file.ID, "word_count", res.WordCount)
	return nil
}
