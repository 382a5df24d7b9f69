// Package repository wraps all SQL against the upstream "file" table.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calebds/pagetext/internal/models"
)

// fileColumns keeps select lists in one place. Column identifiers are the
// upstream app's camelCase names and must stay quoted.
const fileColumns = `id, COALESCE("storageKey",''), COALESCE(url,''), "pageContentUrl",
	COALESCE(title,''), COALESCE("docAuthor",''), COALESCE(description,''),
	COALESCE("docSource",''), COALESCE("chunkSource",''), published,
	"wordCount", "tokenCountEstimate", COALESCE("folderId",''), "createdAt", "updatedAt"`

type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

// ListUnprocessed returns every file in the folder that has no recorded page
// content yet. The read runs in its own short-lived read-only transaction so
// it never shares a connection with the per-file update transactions.
func (r *FileRepository) ListUnprocessed(ctx context.Context, folderID string) ([]models.FileRecord, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin eligibility read: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT `+fileColumns+`
		FROM "file"
		WHERE "pageContentUrl" IS NULL AND "folderId" = $1`, folderID)
	if err != nil {
		return nil, fmt.Errorf("select unprocessed files: %w", err)
	}
	defer rows.Close()

	var files []models.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read unprocessed files: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit eligibility read: %w", err)
	}
	return files, nil
}

// Get returns a single file by id.
func (r *FileRepository) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM "file" WHERE id = $1`, id)
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("file %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("select file %s: %w", id, err)
	}
	return f, nil
}

// RecordExtraction commits the extraction output onto the file row. Each
// call runs in its own transaction on its own pooled connection; the
// deferred rollback releases it on every exit path and is a no-op after a
// successful commit.
func (r *FileRepository) RecordExtraction(ctx context.Context, id, pageContentURL string, wordCount, tokenCountEstimate int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin extraction update: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `UPDATE "file"
		SET "pageContentUrl" = $1, "wordCount" = $2, "tokenCountEstimate" = $3
		WHERE id = $4`,
		pageContentURL, wordCount, tokenCountEstimate, id)
	if err != nil {
		return fmt.Errorf("update file %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("update file %s: no such row", id)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit extraction update: %w", err)
	}
	return nil
}

func scanFile(row pgx.Row) (*models.FileRecord, error) {
	var f models.FileRecord
	err := row.Scan(&f.ID, &f.StorageKey, &f.URL, &f.PageContentURL,
		&f.Title, &f.DocAuthor, &f.Description,
		&f.DocSource, &f.ChunkSource, &f.Published,
		&f.WordCount, &f.TokenCountEstimate, &f.FolderID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
