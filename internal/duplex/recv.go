package duplex

import (
	"context"
	"time"

	"github.com/relaymesh/etherrelay/internal/hexdump"
	"github.com/relaymesh/etherrelay/internal/queue"
	"github.com/relaymesh/etherrelay/internal/registry"
	"github.com/relaymesh/etherrelay/internal/relerr"
	"github.com/relaymesh/etherrelay/internal/supervisor"
)

const (
	recvBufferSize  = 2048
	relayPushTimeMs = 5000
)

// RecvHooks is the supervisor.Hooks implementation for a connection's
// receive worker, per spec.md §4.4: read into a bounded buffer, hex-dump to
// the log, optionally relay into a peer's queue, latch connection_closed on
// orderly shutdown or any non-timeout error.
type RecvHooks struct {
	supervisor.BaseHooks
	Comm *Context
	Reg  *registry.Registry
	Log  Logger
	Dump *hexdump.Dumper
}

func (h *RecvHooks) OnRun(ctx context.Context, _ *supervisor.Config) error {
	buf := make([]byte, recvBufferSize)
	for {
		if h.Comm.Closed() {
			h.flushDump()
			return nil
		}
		select {
		case <-ctx.Done():
			h.flushDump()
			return nil
		default:
		}

		if err := h.Comm.Conn.SetReadDeadline(time.Now().Add(time.Duration(h.Comm.TimeoutMs) * time.Millisecond)); err != nil {
			h.Comm.Close()
			return relerr.Wrap(relerr.DomainPlatform, relerr.PlatformOption, "set_read_deadline", err)
		}

		n, err := h.Comm.Conn.Read(buf)
		if n > 0 {
			h.handleData(buf[:n])
		}
		if err != nil {
			code := relerr.MapNetErr(err)
			if code == relerr.PlatformTimeout {
				continue
			}
			h.Comm.Close()
			h.flushDump()
			if code == relerr.PlatformPeerShutdown {
				return nil
			}
			return relerr.Wrap(relerr.DomainPlatform, code, "receive", err)
		}
		if n == 0 {
			h.Comm.Close()
			h.flushDump()
			return nil
		}
	}
}

func (h *RecvHooks) handleData(data []byte) {
	for _, line := range h.Dump.Feed(data) {
		h.Log.Infof("%s", line)
	}

	if !h.Comm.RelayEnabled || h.Comm.PeerQueueLabel == "" {
		return
	}

	msg, err := queue.NewMessage(queue.TypeRelay, data)
	if err != nil {
		h.Log.Errorf("relay: payload too large (%d bytes): %v", len(data), err)
		return
	}
	if err := h.Reg.PushMessage(h.Comm.PeerQueueLabel, msg, relayPushTimeMs); err != nil {
		h.Log.Warnf("relay: push to %s failed: %v", h.Comm.PeerQueueLabel, err)
	}
}

func (h *RecvHooks) flushDump() {
	if line := h.Dump.Flush(); line != "" {
		h.Log.Infof("%s", line)
	}
}
