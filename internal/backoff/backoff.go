// Package backoff implements the exponential backoff shared by the server
// listener and client connector (spec component C9): doubling delay from an
// initial value up to a configured ceiling.
package backoff

import "time"

// Backoff tracks a doubling delay capped at max. Zero value is invalid; use
// New.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

// New creates a Backoff starting at initial and doubling up to max.
func New(initial, max time.Duration) *Backoff {
	if initial <= 0 {
		initial = time.Second
	}
	if max < initial {
		max = initial
	}
	return &Backoff{initial: initial, max: max, current: initial}
}

// Next returns the delay to wait before the next attempt, then doubles it
// (capped at max) for the following call.
func (b *Backoff) Next() time.Duration {
	d := b.current
	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

// Reset restores the delay to its initial value, used once a connection
// attempt succeeds.
func (b *Backoff) Reset() {
	b.current = b.initial
}
