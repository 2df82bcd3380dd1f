package documents

import (
	"strings"
	"testing"
	"time"
)

func TestMatchPreviewClampsToBounds(t *testing.T) {
	t.Parallel()

	if got := MatchPreview("hello world", "world"); got != "hello world" {
		t.Fatalf("MatchPreview = %q, want full text", got)
	}
}

func TestMatchPreviewWindowsLongText(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 200) + "NEEDLE" + strings.Repeat("b", 200)
	got := MatchPreview(text, "needle")

	want := strings.Repeat("a", 50) + "NEEDLE" + strings.Repeat("b", 50)
	if got != want {
		t.Fatalf("MatchPreview = %q, want %q", got, want)
	}
}

func TestMatchPreviewCaseInsensitive(t *testing.T) {
	t.Parallel()

	if got := MatchPreview("The Quick Brown Fox", "qUiCk"); got == "" {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestMatchPreviewNoOccurrence(t *testing.T) {
	t.Parallel()

	if got := MatchPreview("alpha beta", "gamma"); got != "" {
		t.Fatalf("MatchPreview = %q, want empty", got)
	}
}

func TestRankResultsPreviewMatchesFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "token-only", ExtractedText: "reports quarterly", UploadedAt: base.Add(2 * time.Hour)},
		{ID: "older", ExtractedText: "the report is here", UploadedAt: base},
		{ID: "newer", ExtractedText: "another report body", UploadedAt: base.Add(time.Hour)},
	}

	// "report " matches the two literal texts but not the plural-only one, so
	// the literal hits rank ahead, newest first.
	results := rankResults(docs, "report ")
	want := []string{"newer", "older", "token-only"}
	for i, id := range want {
		if results[i].ID != id {
			t.Fatalf("results[%d].ID = %q, want %q", i, results[i].ID, id)
		}
	}
	if results[2].MatchPreview != "" {
		t.Fatalf("expected empty preview for token-only hit, got %q", results[2].MatchPreview)
	}
}
