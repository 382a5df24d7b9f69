package queue

const (
	TypeFileExtract = "file:extract"
)

type FileExtractPayload struct {
	FileID string `json:"file_id"`
}
