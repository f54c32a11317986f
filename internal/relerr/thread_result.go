package relerr

// ThreadResult codes, per spec.md §7.
const (
	ThreadSuccess Code = iota
	ThreadInitFailed
	ThreadLoggerTimeout
	ThreadMutexError
	ThreadConfigError
	ThreadQueueError
	ThreadInvalidArgs
	ThreadAlreadyExists
	ThreadCreateFailed
	ThreadRegistrationFailed
	ThreadFileOpenError
	ThreadFileReadError
	ThreadOutOfMemory
	ThreadQueueFull
	ThreadBufferOverflow
	ThreadRunFailed
)

var threadResultMessages = map[Code]string{
	ThreadSuccess:             "success",
	ThreadInitFailed:          "init failed",
	ThreadLoggerTimeout:       "timed out waiting for logger",
	ThreadMutexError:          "mutex error",
	ThreadConfigError:         "configuration error",
	ThreadQueueError:          "queue error",
	ThreadInvalidArgs:         "invalid arguments",
	ThreadAlreadyExists:       "already exists",
	ThreadCreateFailed:        "create failed",
	ThreadRegistrationFailed:  "registration failed",
	ThreadFileOpenError:       "file open error",
	ThreadFileReadError:       "file read error",
	ThreadOutOfMemory:         "out of memory",
	ThreadQueueFull:           "queue full",
	ThreadBufferOverflow:      "buffer overflow",
	ThreadRunFailed:           "run failed",
}
