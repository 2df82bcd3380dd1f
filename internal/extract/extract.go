package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"docsearch-backend/internal/shared/storage/object"
)

// TextLayer reads a stored PDF and returns its embedded text layer, if any.
// Scanned PDFs typically yield an empty string; callers fall back to remote
// OCR in that case.
func TextLayer(ctx context.Context, store object.ObjectStore, storageKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("text layer key=%s: %w", storageKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("text layer key=%s: read: %w", storageKey, err)
	}

	text, err := FromBytes(raw)
	if err != nil {
		return "", fmt.Errorf("text layer key=%s: %w", storageKey, err)
	}
	return text, nil
}

// FromBytes extracts the text layer from an in-memory PDF payload.
func FromBytes(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
