package relerr

// Registry codes, per spec.md §7 ("ThreadRegistry" taxonomy).
const (
	RegistrySuccess Code = iota
	RegistryNotInitialized
	RegistryInvalidArgs
	RegistryLockError
	RegistryWaitError
	RegistryTimeout
	RegistryDuplicate
	RegistryCreationFailed
	RegistryNotFound
	RegistryInvalidStateTransition
	RegistryRegistrationFailed
	RegistryQueueFull
	RegistryQueueEmpty
	RegistryCleanupError
	RegistryUnauthorized
	RegistryAllocationFailed
	RegistryStatusCheckFailed
)

var registryMessages = map[Code]string{
	RegistrySuccess:                 "success",
	RegistryNotInitialized:          "registry not initialized",
	RegistryInvalidArgs:             "invalid arguments",
	RegistryLockError:               "lock error",
	RegistryWaitError:               "wait error",
	RegistryTimeout:                 "timeout",
	RegistryDuplicate:               "duplicate label",
	RegistryCreationFailed:          "creation failed",
	RegistryNotFound:                "not found",
	RegistryInvalidStateTransition:  "invalid state transition",
	RegistryRegistrationFailed:      "registration failed",
	RegistryQueueFull:               "queue full",
	RegistryQueueEmpty:              "queue empty",
	RegistryCleanupError:            "cleanup error",
	RegistryUnauthorized:            "unauthorized",
	RegistryAllocationFailed:        "allocation failed",
	RegistryStatusCheckFailed:       "status check failed",
}
