package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docsearch-backend/internal/ocr"
	"docsearch-backend/internal/shared/telemetry"
)

// Policy controls the poll loop of one extraction.
type Policy struct {
	PollBase   time.Duration
	PollFactor float64
	PollCap    time.Duration
	Timeout    time.Duration
}

// DefaultPolicy returns the production poll policy.
func DefaultPolicy() Policy {
	return Policy{
		PollBase:   2 * time.Second,
		PollFactor: 1.5,
		PollCap:    30 * time.Second,
		Timeout:    5 * time.Minute,
	}
}

func normalizePolicy(p Policy) Policy {
	def := DefaultPolicy()
	if p.PollBase <= 0 {
		p.PollBase = def.PollBase
	}
	if p.PollFactor <= 1 {
		p.PollFactor = def.PollFactor
	}
	if p.PollCap <= 0 {
		p.PollCap = def.PollCap
	}
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	return p
}

// Orchestrator drives one remote OCR job to a terminal outcome. It holds no
// state between calls and never touches the metadata or object stores;
// callers own all persistence side effects.
type Orchestrator struct {
	client ocr.Client
	policy Policy

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New constructs an Orchestrator around the given OCR client.
func New(client ocr.Client, policy Policy) *Orchestrator {
	return &Orchestrator{
		client: client,
		policy: normalizePolicy(policy),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Result is the terminal outcome of one extraction. JobID is set as soon as
// the remote service accepted the submission, including on failed outcomes.
type Result struct {
	Text  string
	JobID string
}

// Process submits the stored payload and polls the remote job until it
// succeeds, fails remotely, or the wall-clock ceiling elapses. Exactly one
// terminal outcome is returned: the assembled text, a *ocr.SubmissionError,
// ErrRemoteFailed, or ErrTimeout. On timeout any accumulated partial text is
// discarded.
func (o *Orchestrator) Process(ctx context.Context, handle string) (Result, error) {
	jobID, err := o.client.Start(ctx, handle)
	if err != nil {
		return Result{}, err
	}
	res := Result{JobID: jobID}

	deadline := o.now().Add(o.policy.Timeout)
	wait := newBackoff(o.policy.PollBase, o.policy.PollFactor, o.policy.PollCap)
	var fragments []ocr.Fragment

	for {
		if err := o.sleep(ctx, wait.Next()); err != nil {
			return res, err
		}
		if o.now().After(deadline) {
			// The remote job keeps running; Textract text detection has no
			// cancel call, so the abandonment is logged for operational
			// visibility.
			telemetry.Error("extraction.abandoned", map[string]any{
				"job_id":  jobID,
				"timeout": o.policy.Timeout.String(),
			})
			return res, fmt.Errorf("job %s exceeded %s: %w", jobID, o.policy.Timeout, ErrTimeout)
		}

		page, err := o.client.Poll(ctx, jobID, "")
		if err != nil {
			return res, fmt.Errorf("%w: poll job %s: %v", ErrRemoteFailed, jobID, err)
		}
		fragments = append(fragments, page.Fragments...)

		// Remaining pages of the same status check are drained without
		// backoff delay.
		for token := page.NextToken; token != ""; {
			next, err := o.client.Poll(ctx, jobID, token)
			if err != nil {
				return res, fmt.Errorf("%w: poll job %s page: %v", ErrRemoteFailed, jobID, err)
			}
			fragments = append(fragments, next.Fragments...)
			token = next.NextToken
		}

		switch page.Status {
		case ocr.StatusSucceeded:
			res.Text = assemble(fragments)
			return res, nil
		case ocr.StatusFailed:
			return res, fmt.Errorf("%w: job %s", ErrRemoteFailed, jobID)
		}
	}
}

// assemble joins line fragments in arrival order. Word and layout fragments
// are structural duplicates of line content and are dropped.
func assemble(fragments []ocr.Fragment) string {
	var lines []string
	for _, f := range fragments {
		if f.Kind != ocr.FragmentLine {
			continue
		}
		lines = append(lines, f.Text)
	}
	return strings.Join(lines, "\n")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
