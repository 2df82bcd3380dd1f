package ocr

import (
	"context"
	"errors"
)

var errNotConfigured = errors.New("ocr client not configured")

// PlaceholderClient stands in when no OCR provider is configured. Every
// submission is rejected, which surfaces as a failed extraction.
type PlaceholderClient struct{}

func (PlaceholderClient) Start(ctx context.Context, handle string) (string, error) {
	_ = ctx
	_ = handle
	return "", &SubmissionError{Kind: SubmissionRejected, Err: errNotConfigured}
}

func (PlaceholderClient) Poll(ctx context.Context, jobID, nextToken string) (PollResult, error) {
	_ = ctx
	_ = jobID
	_ = nextToken
	return PollResult{}, errNotConfigured
}

var _ Client = PlaceholderClient{}
