package local

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

type failingReader struct {
	data []byte
	err  error
	off  int
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.off >= len(f.data) {
		return 0, f.err
	}
	n := copy(p, f.data[f.off:])
	f.off += n
	return n, nil
}

func TestSaveOpenDeleteRoundTrip(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mimeType, err := store.Save(ctx, "report.pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("%PDF-1.4 body")) {
		t.Fatalf("size = %d", size)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("mimeType = %q", mimeType)
	}

	body, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(body)
	_ = body.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("content = %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Fatalf("expected Open to fail after Delete")
	}
	// Deleting again stays a no-op.
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestSaveRemovesPartialFileOnWriteError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := New(dir)

	// Enough bytes to get past the sniff buffer, then a read failure mid-body.
	r := &failingReader{
		data: append([]byte("%PDF-1.4 "), make([]byte, 600)...),
		err:  errors.New("read interrupted"),
	}

	if _, _, _, err := store.Save(context.Background(), "broken.pdf", r); err == nil {
		t.Fatalf("expected Save to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, found %d", len(entries))
	}
}

func TestSaveRejectsTraversalName(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())

	if _, _, _, err := store.Save(context.Background(), "../escape.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal name to be rejected")
	}
}
