package syncutil

import "time"

// AutoResetEvent wakes exactly one waiter per Set call, then automatically
// reverts to unset. The queues in this module do not use it; their
// not-empty/not-full signals are ManualResetEvents.
type AutoResetEvent struct {
	ch chan struct{}
}

// NewAutoResetEvent creates an auto-reset event, initially unset.
func NewAutoResetEvent() *AutoResetEvent {
	return &AutoResetEvent{ch: make(chan struct{}, 1)}
}

// Set wakes one waiter (or leaves the event signalled for the next Wait if
// nobody is currently waiting).
func (e *AutoResetEvent) Set() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until Set is called or timeoutMs elapses.
func (e *AutoResetEvent) Wait(timeoutMs int) bool {
	if timeoutMs == 0 {
		select {
		case <-e.ch:
			return true
		default:
			return false
		}
	}
	if timeoutMs < 0 {
		<-e.ch
		return true
	}
	select {
	case <-e.ch:
		return true
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return false
	}
}
