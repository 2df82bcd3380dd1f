package extraction

import (
	"testing"
	"time"
)

func TestBackoffGrowsToCeiling(t *testing.T) {
	t.Parallel()

	wait := newBackoff(2*time.Second, 1.5, 30*time.Second)

	want := []time.Duration{
		2 * time.Second,
		3 * time.Second,
		4500 * time.Millisecond,
		6750 * time.Millisecond,
	}
	for i, expected := range want {
		if got := wait.Next(); got != expected {
			t.Fatalf("Next() call %d = %s, want %s", i, got, expected)
		}
	}
}

func TestBackoffCaps(t *testing.T) {
	t.Parallel()

	wait := newBackoff(20*time.Second, 2, 30*time.Second)

	if got := wait.Next(); got != 20*time.Second {
		t.Fatalf("first Next() = %s, want 20s", got)
	}
	for i := 0; i < 5; i++ {
		if got := wait.Next(); got != 30*time.Second {
			t.Fatalf("capped Next() = %s, want 30s", got)
		}
	}
}

func TestBackoffClampsBaseAboveCeiling(t *testing.T) {
	t.Parallel()

	wait := newBackoff(40*time.Second, 2, 30*time.Second)

	if got := wait.Next(); got != 30*time.Second {
		t.Fatalf("Next() = %s, want 30s", got)
	}
}
