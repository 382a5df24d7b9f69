package models

import "time"

// FileRecord mirrors a row of the "file" table. The table is owned by the
// ingestion app upstream of this pipeline; column names are its camelCase
// identifiers. Only PageContentURL, WordCount and TokenCountEstimate are
// ever written here, the rest is read-only context.
type FileRecord struct {
	ID                 string     `json:"id" db:"id"`
	StorageKey         string     `json:"storage_key" db:"storageKey"`
	URL                string     `json:"url" db:"url"`
	PageContentURL     *string    `json:"page_content_url,omitempty" db:"pageContentUrl"`
	Title              string     `json:"title" db:"title"`
	DocAuthor          string     `json:"doc_author,omitempty" db:"docAuthor"`
	Description        string     `json:"description,omitempty" db:"description"`
	DocSource          string     `json:"doc_source,omitempty" db:"docSource"`
	ChunkSource        string     `json:"chunk_source,omitempty" db:"chunkSource"`
	Published          *time.Time `json:"published,omitempty" db:"published"`
	WordCount          *int       `json:"word_count,omitempty" db:"wordCount"`
	TokenCountEstimate *int       `json:"token_count_estimate,omitempty" db:"tokenCountEstimate"`
	FolderID           string     `json:"folder_id" db:"folderId"`
	CreatedAt          time.Time  `json:"created_at" db:"createdAt"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updatedAt"`
}

// Processed reports whether extraction output was already recorded for the
// file. Such records are skipped by eligibility selection.
func (f *FileRecord) Processed() bool {
	return f.PageContentURL != nil
}
