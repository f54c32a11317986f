package backoff

import (
	"testing"
	"time"
)

func TestNextDoublesUntilCap(t *testing.T) {
	b := New(time.Second, 4*time.Second)

	got := []time.Duration{b.Next(), b.Next(), b.Next(), b.Next()}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Next()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResetRestoresInitial(t *testing.T) {
	b := New(time.Second, 8*time.Second)
	b.Next()
	b.Next()
	b.Reset()
	if got := b.Next(); got != time.Second {
		t.Fatalf("Next() after Reset = %v, want %v", got, time.Second)
	}
}
