package model

import "time"

// BatchStatus is the lifecycle state of an uploaded file batch.
type BatchStatus string

const (
	StatusUploaded  BatchStatus = "uploaded"
	StatusCleaned   BatchStatus = "cleaned"
	StatusProcessed BatchStatus = "processed"
	StatusError     BatchStatus = "error"
)

// RowError describes a single source row the cleaner could not normalize.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// FileBatch is a named, typed collection of SourceRecords plus lifecycle
// status. Batches move uploaded -> cleaned -> processed; transitions are
// expressed as whole-value snapshots, never in-place mutation, so a report
// produced from a batch is not invalidated by later changes or deletion.
type FileBatch struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	OriginalName string         `json:"original_name"`
	Family       FileFamily     `json:"family"`
	Size         int64          `json:"size"`
	ContentType  string         `json:"content_type"`
	StoragePath  string         `json:"storage_path"`
	UploadedAt   time.Time      `json:"uploaded_at"`
	Status       BatchStatus    `json:"status"`
	CleanedName  string         `json:"cleaned_name,omitempty"`
	RecordCount  int            `json:"record_count"`
	RowErrors    []RowError     `json:"row_errors,omitempty"`
	Records      []SourceRecord `json:"-"`
}
