package relerr

// Platform codes, per spec.md §7. Go's net/os/syscall packages already are
// the platform layer (see SPEC_FULL.md); these codes are the stable,
// cross-boundary vocabulary that duplex/listener/connector map net/os
// errors onto so callers never need to switch on *net.OpError directly.
const (
	PlatformSuccess Code = iota
	PlatformSocketCreate
	PlatformBind
	PlatformListen
	PlatformAccept
	PlatformConnect
	PlatformSend
	PlatformReceive
	PlatformClosed
	PlatformResolve
	PlatformOption
	PlatformSelect
	PlatformHostNotFound
	PlatformNetworkDown
	PlatformNetworkUnreachable
	PlatformConnectionRefused
	PlatformPeerShutdown
	PlatformTimeout
	PlatformWouldBlock
	PlatformGeneric
)

var platformMessages = map[Code]string{
	PlatformSuccess:            "success",
	PlatformSocketCreate:       "socket create failed",
	PlatformBind:               "bind failed",
	PlatformListen:             "listen failed",
	PlatformAccept:             "accept failed",
	PlatformConnect:            "connect failed",
	PlatformSend:               "send failed",
	PlatformReceive:            "receive failed",
	PlatformClosed:             "connection closed",
	PlatformResolve:            "resolve failed",
	PlatformOption:             "socket option failed",
	PlatformSelect:             "select/wait failed",
	PlatformHostNotFound:       "host not found",
	PlatformNetworkDown:        "network down",
	PlatformNetworkUnreachable: "network unreachable",
	PlatformConnectionRefused:  "connection refused",
	PlatformPeerShutdown:       "peer shutdown",
	PlatformTimeout:            "timeout",
	PlatformWouldBlock:         "would block",
	PlatformGeneric:            "system error",
}

// Message is the single get_message(domain, code) string table required by
// spec.md §7.
func Message(domain Domain, code Code) string {
	var table map[Code]string
	switch domain {
	case DomainThreadResult:
		table = threadResultMessages
	case DomainRegistry:
		table = registryMessages
	case DomainPlatform:
		table = platformMessages
	default:
		return "unknown domain"
	}
	if msg, ok := table[code]; ok {
		return msg
	}
	return "unrecognized error code"
}
