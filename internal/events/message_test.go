package events

import (
	"strings"
	"testing"
)

func TestEncodeMessageOmitsEmptyOptionalFields(t *testing.T) {
	t.Parallel()

	payload, err := EncodeMessage(Message{
		DocumentID: "doc-1",
		Status:     "failed",
		OccurredAt: "2025-06-01T12:00:00Z",
		Version:    1,
	})
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}

	s := string(payload)
	if strings.Contains(s, "jobId") || strings.Contains(s, "requestId") {
		t.Fatalf("expected optional fields omitted, got %s", s)
	}
	if !strings.Contains(s, `"documentId":"doc-1"`) {
		t.Fatalf("missing documentId: %s", s)
	}
}

func TestDecodeMessageRoundTrip(t *testing.T) {
	t.Parallel()

	in := Message{
		DocumentID: "doc-1",
		JobID:      "job-1",
		Status:     "completed",
		RequestID:  "req-1",
		OccurredAt: "2025-06-01T12:00:00Z",
		Version:    1,
	}
	payload, err := EncodeMessage(in)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}

	out, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}

	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
