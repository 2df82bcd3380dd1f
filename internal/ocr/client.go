package ocr

import "context"

// JobStatus is the remote job state reported by a poll.
type JobStatus string

const (
	StatusInProgress JobStatus = "in_progress"
	StatusSucceeded  JobStatus = "succeeded"
	StatusFailed     JobStatus = "failed"
)

// FragmentKind classifies one unit of recognized content.
type FragmentKind string

const (
	FragmentLine   FragmentKind = "line"
	FragmentWord   FragmentKind = "word"
	FragmentLayout FragmentKind = "layout"
)

// Fragment is one unit of recognized text returned by the remote service.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// PollResult is one page of a job status check. NextToken is non-empty when
// more result pages remain for the same check.
type PollResult struct {
	Status    JobStatus
	Fragments []Fragment
	NextToken string
}

// Client submits stored documents to a remote OCR service and polls for
// results.
type Client interface {
	Start(ctx context.Context, handle string) (jobID string, err error)
	Poll(ctx context.Context, jobID, nextToken string) (PollResult, error)
}
