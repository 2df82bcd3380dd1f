package extraction

import "time"

// backoff yields the deterministic capped poll intervals: the first call
// returns the base, each later call the previous interval multiplied by the
// growth factor, never exceeding the ceiling. No jitter.
type backoff struct {
	next    time.Duration
	factor  float64
	ceiling time.Duration
}

func newBackoff(base time.Duration, factor float64, ceiling time.Duration) *backoff {
	if base > ceiling {
		base = ceiling
	}
	return &backoff{next: base, factor: factor, ceiling: ceiling}
}

func (b *backoff) Next() time.Duration {
	d := b.next
	grown := time.Duration(float64(b.next) * b.factor)
	if grown > b.ceiling {
		grown = b.ceiling
	}
	b.next = grown
	return d
}
