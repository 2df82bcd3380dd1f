package documents

import "time"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document is one uploaded document. The binary payload is discarded once
// extraction completes; only the text is retained.
type Document struct {
	ID            string
	FileName      string
	ExtractedText string
	UploadedAt    time.Time
	JobID         string
	Status        string
}
