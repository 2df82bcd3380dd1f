package documents

import "time"

// DocumentResponse is the listing shape. Extracted text is deliberately
// omitted; listings stay cheap even when documents carry large text bodies.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
	Status     string    `json:"status"`
}

// DocumentDetailResponse is the single-document shape.
type DocumentDetailResponse struct {
	DocumentID    string    `json:"documentId"`
	FileName      string    `json:"fileName"`
	UploadedAt    time.Time `json:"uploadedAt"`
	Status        string    `json:"status"`
	JobID         string    `json:"jobId,omitempty"`
	ExtractedText string    `json:"extractedText"`
}

// SearchResultResponse is one ranked search hit.
type SearchResultResponse struct {
	DocumentID   string    `json:"documentId"`
	FileName     string    `json:"fileName"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Status       string    `json:"status"`
	MatchPreview string    `json:"matchPreview"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		UploadedAt: doc.UploadedAt,
		Status:     doc.Status,
	}
}

func toDetailResponse(doc Document) DocumentDetailResponse {
	return DocumentDetailResponse{
		DocumentID:    doc.ID,
		FileName:      doc.FileName,
		UploadedAt:    doc.UploadedAt,
		Status:        doc.Status,
		JobID:         doc.JobID,
		ExtractedText: doc.ExtractedText,
	}
}

func toSearchResponse(res SearchResult) SearchResultResponse {
	return SearchResultResponse{
		DocumentID:   res.ID,
		FileName:     res.FileName,
		UploadedAt:   res.UploadedAt,
		Status:       res.Status,
		MatchPreview: res.MatchPreview,
	}
}
