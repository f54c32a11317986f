// Package duplex implements the per-connection send/receive worker pair
// (spec component C8): two goroutines sharing one socket and one
// connection_closed latch, shutting down atomically.
package duplex

import (
	"net"
	"sync/atomic"
)

// Context is the Go realization of CommContext (spec.md §3). Every field
// other than closed is immutable after NewContext returns; closed is the
// single-writer-first-wins latch both workers observe.
type Context struct {
	Conn           net.Conn
	IsTCP          bool
	RelayEnabled   bool
	MaxMessageSize int
	TimeoutMs      int
	PeerQueueLabel string

	closed atomic.Bool
}

// NewContext builds a Context over an already-accepted/connected conn.
func NewContext(conn net.Conn, isTCP, relayEnabled bool, peerQueueLabel string, timeoutMs int) *Context {
	return &Context{
		Conn:           conn,
		IsTCP:          isTCP,
		RelayEnabled:   relayEnabled,
		MaxMessageSize: 1024,
		TimeoutMs:      timeoutMs,
		PeerQueueLabel: peerQueueLabel,
	}
}

// Close latches connection_closed. A monotonic one-way transition: once
// true, it is never observed false again (spec.md §3, §8).
func (c *Context) Close() {
	c.closed.Store(true)
}

// Closed reports the current value of the connection_closed latch.
func (c *Context) Closed() bool {
	return c.closed.Load()
}
