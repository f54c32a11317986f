// Package syncutil provides the event and timed-wait primitives used by
// the rest of the runtime (spec component C2: "manual-reset and auto-reset
// events; recursive-capable mutexes with timed condition variables"). In Go
// these are small wrappers over sync.Mutex/channels rather than a
// reimplementation of OS primitives, matching how the spec treats mutexes
// and condition variables as platform-supplied.
package syncutil

import (
	"sync"
	"time"
)

// ManualResetEvent stays set once Set is called, until Reset is called.
// Any number of waiters observe the same Set.
type ManualResetEvent struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewManualResetEvent creates an event, initially unset.
func NewManualResetEvent() *ManualResetEvent {
	return &ManualResetEvent{ch: make(chan struct{})}
}

// Set latches the event; all current and future Wait calls return true
// until Reset is called.
func (e *ManualResetEvent) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.ch:
		// already set
	default:
		close(e.ch)
	}
}

// Reset clears the event.
func (e *ManualResetEvent) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.ch:
		e.ch = make(chan struct{})
	default:
	}
}

// IsSet reports whether the event is currently set.
func (e *ManualResetEvent) IsSet() bool {
	e.mu.Lock()
	ch := e.ch
	e.mu.Unlock()
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the event is set or timeoutMs elapses (Infinite blocks
// forever; 0 polls once).
func (e *ManualResetEvent) Wait(timeoutMs int) bool {
	e.mu.Lock()
	ch := e.ch
	e.mu.Unlock()

	if timeoutMs == 0 {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}
	if timeoutMs < 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return false
	}
}
