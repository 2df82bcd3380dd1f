package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"docsearch-backend/internal/ocr"
)

type pollStep struct {
	res ocr.PollResult
	err error
}

type fakeOCR struct {
	jobID    string
	startErr error

	steps []pollStep
	calls int
}

func (f *fakeOCR) Start(ctx context.Context, handle string) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	return f.jobID, nil
}

func (f *fakeOCR) Poll(ctx context.Context, jobID, nextToken string) (ocr.PollResult, error) {
	if f.calls >= len(f.steps) {
		return ocr.PollResult{Status: ocr.StatusInProgress}, nil
	}
	step := f.steps[f.calls]
	f.calls++
	return step.res, step.err
}

func newTestOrchestrator(client ocr.Client, policy Policy) (*Orchestrator, *time.Time) {
	o := New(client, policy)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return clock }
	o.sleep = func(ctx context.Context, d time.Duration) error {
		clock = clock.Add(d)
		return nil
	}
	return o, &clock
}

func TestProcessSucceedsAfterPolling(t *testing.T) {
	client := &fakeOCR{
		jobID: "job-1",
		steps: []pollStep{
			{res: ocr.PollResult{Status: ocr.StatusInProgress}},
			{res: ocr.PollResult{Status: ocr.StatusInProgress}},
			{res: ocr.PollResult{Status: ocr.StatusSucceeded, Fragments: []ocr.Fragment{
				{Kind: ocr.FragmentLine, Text: "Hello"},
				{Kind: ocr.FragmentWord, Text: "Hello"},
				{Kind: ocr.FragmentLine, Text: "World"},
			}}},
		},
	}
	o, _ := newTestOrchestrator(client, DefaultPolicy())

	res, err := o.Process(context.Background(), "key.pdf")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.JobID != "job-1" {
		t.Fatalf("JobID = %q, want job-1", res.JobID)
	}
	if res.Text != "Hello\nWorld" {
		t.Fatalf("Text = %q, want Hello\\nWorld", res.Text)
	}
}

func TestProcessDrainsContinuationPages(t *testing.T) {
	client := &fakeOCR{
		jobID: "job-2",
		steps: []pollStep{
			{res: ocr.PollResult{
				Status:    ocr.StatusSucceeded,
				Fragments: []ocr.Fragment{{Kind: ocr.FragmentLine, Text: "Hello"}},
				NextToken: "page-2",
			}},
			{res: ocr.PollResult{
				Status:    ocr.StatusSucceeded,
				Fragments: []ocr.Fragment{{Kind: ocr.FragmentLine, Text: "World"}},
			}},
		},
	}
	o, _ := newTestOrchestrator(client, DefaultPolicy())

	res, err := o.Process(context.Background(), "key.pdf")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Text != "Hello\nWorld" {
		t.Fatalf("Text = %q, want Hello\\nWorld", res.Text)
	}
	if client.calls != 2 {
		t.Fatalf("poll calls = %d, want 2", client.calls)
	}
}

func TestProcessRemoteFailure(t *testing.T) {
	client := &fakeOCR{
		jobID: "job-3",
		steps: []pollStep{
			{res: ocr.PollResult{Status: ocr.StatusFailed}},
		},
	}
	o, _ := newTestOrchestrator(client, DefaultPolicy())

	res, err := o.Process(context.Background(), "key.pdf")
	if !errors.Is(err, ErrRemoteFailed) {
		t.Fatalf("expected ErrRemoteFailed, got %v", err)
	}
	if res.JobID != "job-3" {
		t.Fatalf("JobID = %q, want job-3", res.JobID)
	}
	if res.Text != "" {
		t.Fatalf("expected no text on failure, got %q", res.Text)
	}
}

func TestProcessPollErrorIsRemoteFailure(t *testing.T) {
	client := &fakeOCR{
		jobID: "job-4",
		steps: []pollStep{
			{err: errors.New("connection reset")},
		},
	}
	o, _ := newTestOrchestrator(client, DefaultPolicy())

	_, err := o.Process(context.Background(), "key.pdf")
	if !errors.Is(err, ErrRemoteFailed) {
		t.Fatalf("expected ErrRemoteFailed, got %v", err)
	}
}

func TestProcessSubmissionErrorPassesThrough(t *testing.T) {
	client := &fakeOCR{
		startErr: &ocr.SubmissionError{Kind: ocr.SubmissionDocumentTooLarge, Err: errors.New("too big")},
	}
	o, _ := newTestOrchestrator(client, DefaultPolicy())

	_, err := o.Process(context.Background(), "key.pdf")
	var subErr *ocr.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected *ocr.SubmissionError, got %v", err)
	}
	if subErr.Kind != ocr.SubmissionDocumentTooLarge {
		t.Fatalf("Kind = %q, want %q", subErr.Kind, ocr.SubmissionDocumentTooLarge)
	}
}

func TestProcessTimesOutAndDiscardsPartialText(t *testing.T) {
	client := &fakeOCR{jobID: "job-5"}
	policy := DefaultPolicy()
	policy.Timeout = 10 * time.Second
	o, _ := newTestOrchestrator(client, policy)

	res, err := o.Process(context.Background(), "key.pdf")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if res.JobID != "job-5" {
		t.Fatalf("JobID = %q, want job-5", res.JobID)
	}
	if res.Text != "" {
		t.Fatalf("expected empty text on timeout, got %q", res.Text)
	}
}

func TestProcessCancelledContext(t *testing.T) {
	client := &fakeOCR{jobID: "job-6"}
	o := New(client, DefaultPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Process(ctx, "key.pdf")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
