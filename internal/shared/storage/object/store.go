package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for holding temporary binary payloads.
// Payloads live only until extraction finishes; Delete is invoked best-effort
// once a document reaches a terminal state.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
