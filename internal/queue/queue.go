package queue

import (
	"sync"
	"time"

	"github.com/relaymesh/etherrelay/internal/syncutil"
)

// Infinite is the sentinel timeout_ms value accepted by Push/Pop meaning
// "block forever". Socket waits elsewhere in the runtime do not accept this
// sentinel (they clamp instead), per spec.md §5.
const Infinite = -1

// Queue is a fixed-capacity ring buffer of Message values with level
// triggered not-empty/not-full signalling, matching spec component C3. The
// MessageQueue type in spec.md §3 names these `not_empty_event`/
// `not_full_event` directly; this realizes them as the C2 manual-reset
// events in internal/syncutil rather than a second, hand-rolled wait
// primitive.
type Queue struct {
	mu       sync.Mutex
	notEmpty *syncutil.ManualResetEvent
	notFull  *syncutil.ManualResetEvent

	ring     []Message
	head     int
	tail     int
	size     int
	capacity int

	ownerLabel string
}

// New creates a queue of the given capacity (must be >= 2, since the ring
// always reserves one slot so that head==tail is unambiguously "empty").
func New(capacity int, ownerLabel string) (*Queue, error) {
	if capacity < 2 {
		return nil, ErrInvalidCapacity
	}
	q := &Queue{
		ring:       make([]Message, capacity),
		capacity:   capacity,
		ownerLabel: ownerLabel,
		notEmpty:   syncutil.NewManualResetEvent(),
		notFull:    syncutil.NewManualResetEvent(),
	}
	q.notFull.Set() // an empty ring always has room
	return q, nil
}

// OwnerLabel returns the label of the thread that owns this queue.
func (q *Queue) OwnerLabel() string { return q.ownerLabel }

// Capacity returns the configured ring capacity.
func (q *Queue) Capacity() int { return q.capacity }

// Len returns the current number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// full reports whether the ring has no room for another message, matching the
// (tail+1) mod capacity == head invariant from spec.md §3.
func (q *Queue) full() bool { return q.size == q.capacity-1 || q.size == q.capacity }

// syncEventsLocked re-latches notEmpty/notFull to match the current size,
// per spec.md §3: `not_empty_event` set iff size>0; `not_full_event` set iff
// size<capacity-1. Caller must hold q.mu.
func (q *Queue) syncEventsLocked() {
	if q.size > 0 {
		q.notEmpty.Set()
	} else {
		q.notEmpty.Reset()
	}
	if q.size < q.capacity-1 {
		q.notFull.Set()
	} else {
		q.notFull.Reset()
	}
}

// Push enqueues msg, waiting up to timeoutMs for room. timeoutMs == 0 is
// non-blocking; timeoutMs == Infinite blocks forever.
func (q *Queue) Push(msg Message, timeoutMs int) error {
	deadline, infinite, immediate := deadlineFor(timeoutMs)
	for {
		q.mu.Lock()
		if !q.full() {
			q.ring[q.tail] = msg
			q.tail = (q.tail + 1) % q.capacity
			q.size++
			q.syncEventsLocked()
			q.mu.Unlock()
			return nil
		}
		q.mu.Unlock()

		if immediate {
			return ErrQueueFull
		}
		waitMs, expired := remainingWait(deadline, infinite)
		if expired {
			return ErrQueueFull
		}
		if !q.notFull.Wait(waitMs) {
			return ErrQueueFull
		}
	}
}

// Pop dequeues the oldest message, waiting up to timeoutMs for one to
// arrive. timeoutMs == 0 is non-blocking; timeoutMs == Infinite blocks
// forever.
func (q *Queue) Pop(timeoutMs int) (Message, error) {
	deadline, infinite, immediate := deadlineFor(timeoutMs)
	for {
		q.mu.Lock()
		if q.size > 0 {
			msg := q.ring[q.head]
			q.head = (q.head + 1) % q.capacity
			q.size--
			q.syncEventsLocked()
			q.mu.Unlock()
			return msg, nil
		}
		q.mu.Unlock()

		if immediate {
			return Message{}, ErrQueueEmpty
		}
		waitMs, expired := remainingWait(deadline, infinite)
		if expired {
			return Message{}, ErrQueueEmpty
		}
		if !q.notEmpty.Wait(waitMs) {
			return Message{}, ErrQueueEmpty
		}
	}
}

// deadlineFor translates a Push/Pop timeoutMs argument into a deadline to
// recompute the remaining wait against on every retry of the predicate
// loop, so a contended queue still honors the caller's original budget.
func deadlineFor(timeoutMs int) (deadline time.Time, infinite, immediate bool) {
	switch {
	case timeoutMs == Infinite:
		return time.Time{}, true, false
	case timeoutMs == 0:
		return time.Time{}, false, true
	default:
		return time.Now().Add(time.Duration(timeoutMs) * time.Millisecond), false, false
	}
}

// remainingWait computes the event.Wait argument for the time left before
// deadline. expired is true once the deadline has already passed.
func remainingWait(deadline time.Time, infinite bool) (waitMs int, expired bool) {
	if infinite {
		return Infinite, false
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0, true
	}
	if ms := remaining.Milliseconds(); ms > 0 {
		return int(ms), false
	}
	return 1, false
}
