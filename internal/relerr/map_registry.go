package relerr

import (
	"errors"

	"github.com/relaymesh/etherrelay/internal/registry"
)

// MapRegistryErr classifies a registry sentinel error into a Registry Code,
// the mapping get_message(DomainRegistry, code) is built on.
func MapRegistryErr(err error) Code {
	switch {
	case err == nil:
		return RegistrySuccess
	case errors.Is(err, registry.ErrNotFound):
		return RegistryNotFound
	case errors.Is(err, registry.ErrDuplicateLabel):
		return RegistryDuplicate
	case errors.Is(err, registry.ErrAllocationFailed):
		return RegistryAllocationFailed
	case errors.Is(err, registry.ErrInvalidTransition):
		return RegistryInvalidStateTransition
	case errors.Is(err, registry.ErrUnauthorized):
		return RegistryUnauthorized
	case errors.Is(err, registry.ErrQueueNotInitialized):
		return RegistryNotInitialized
	case errors.Is(err, registry.ErrInvalidArgs):
		return RegistryInvalidArgs
	case errors.Is(err, registry.ErrTimeout):
		return RegistryTimeout
	default:
		return RegistryRegistrationFailed
	}
}
