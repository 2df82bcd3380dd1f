package ocr

import "fmt"

// SubmissionKind narrows why the remote service refused a job.
type SubmissionKind string

const (
	SubmissionThrottled        SubmissionKind = "throttled"
	SubmissionDocumentTooLarge SubmissionKind = "document_too_large"
	SubmissionInvalidReference SubmissionKind = "invalid_reference"
	SubmissionUnsupported      SubmissionKind = "unsupported_document"
	SubmissionRejected         SubmissionKind = "rejected"
)

// SubmissionError reports that the remote service did not accept a job.
// Submission failures are terminal; callers do not retry them.
type SubmissionError struct {
	Kind SubmissionKind
	Err  error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ocr submission rejected: %s", e.Kind)
	}
	return fmt.Sprintf("ocr submission rejected: %s: %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
