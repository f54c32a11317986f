package registry

import "errors"

var (
	ErrNotFound                = errors.New("registry: not found")
	ErrDuplicateLabel          = errors.New("registry: duplicate label")
	ErrAllocationFailed        = errors.New("registry: allocation failed")
	ErrInvalidTransition       = errors.New("registry: invalid state transition")
	ErrUnauthorized            = errors.New("registry: unauthorized")
	ErrQueueNotInitialized     = errors.New("registry: queue not initialized")
	ErrInvalidArgs             = errors.New("registry: invalid arguments")
	ErrTimeout                 = errors.New("registry: timeout")
)
