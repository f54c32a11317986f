package queue

import "errors"

var (
	// ErrQueueFull is returned by Push when timeout_ms elapses before a slot
	// frees up.
	ErrQueueFull = errors.New("queue: full")
	// ErrQueueEmpty is returned by Pop when timeout_ms elapses before a
	// message arrives.
	ErrQueueEmpty = errors.New("queue: empty")
	// ErrBufferOverflow is returned when a payload exceeds MaxPayload bytes.
	ErrBufferOverflow = errors.New("queue: payload exceeds buffer")
	// ErrInvalidCapacity is returned by New when capacity < 2.
	ErrInvalidCapacity = errors.New("queue: capacity must be >= 2")
)
