package search

import (
	"context"
	"time"
)

// Document is the indexed projection of a completed document.
type Document struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	Text       string    `json:"text"`
	UploadedAt time.Time `json:"uploadedAt"`
	Status     string    `json:"status"`
}

// Index is a secondary full-text index over completed documents. The
// metadata store stays authoritative; index failures are non-fatal and
// search falls back to the store's own matching tiers.
type Index interface {
	Index(ctx context.Context, doc Document) error
	Search(ctx context.Context, query string) ([]Document, error)
}
