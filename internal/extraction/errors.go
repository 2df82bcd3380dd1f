package extraction

import "errors"

var (
	// ErrRemoteFailed indicates the remote service accepted the job but
	// reported a terminal processing failure.
	ErrRemoteFailed = errors.New("remote extraction failed")

	// ErrTimeout indicates the local wall-clock ceiling elapsed while the
	// job was still in progress.
	ErrTimeout = errors.New("extraction timed out")
)
