package duplex

import (
	"context"
	"errors"
	"time"

	"github.com/relaymesh/etherrelay/internal/queue"
	"github.com/relaymesh/etherrelay/internal/registry"
	"github.com/relaymesh/etherrelay/internal/relerr"
	"github.com/relaymesh/etherrelay/internal/supervisor"
)

// Logger is the minimal logging surface send/recv workers need.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

const sendQueuePollMs = 200

// SendHooks is the supervisor.Hooks implementation for a connection's send
// worker, per spec.md §4.4: pop the next payload from SourceLabel's owned
// queue, write it to the socket, latch connection_closed on any error other
// than timeout.
type SendHooks struct {
	supervisor.BaseHooks
	Comm        *Context
	Reg         *registry.Registry
	Log         Logger
	SourceLabel string // queue to poll: own queue, or the fileseed thread's
}

func (h *SendHooks) OnRun(ctx context.Context, _ *supervisor.Config) error {
	for {
		if h.Comm.Closed() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// PopMessage gates ownership by requiring callerLabel == label; the
		// send worker asserts SourceLabel as its own identity here, which is
		// how the file-seeded case (spec.md §4.4) lets it drain the
		// fileseed thread's queue as that queue's sole designated consumer.
		msg, err := h.Reg.PopMessage(h.SourceLabel, h.SourceLabel, sendQueuePollMs)
		if err != nil {
			if errors.Is(err, queue.ErrQueueEmpty) || errors.Is(err, registry.ErrTimeout) {
				continue
			}
			h.Log.Errorf("send worker: pop failed: %v", err)
			continue
		}

		if err := h.Comm.Conn.SetWriteDeadline(time.Now().Add(time.Duration(h.Comm.TimeoutMs) * time.Millisecond)); err != nil {
			h.Comm.Close()
			return relerr.Wrap(relerr.DomainPlatform, relerr.PlatformOption, "set_write_deadline", err)
		}

		if _, err := h.Comm.Conn.Write(msg.Payload()); err != nil {
			code := relerr.MapNetErr(err)
			if code == relerr.PlatformTimeout {
				continue
			}
			h.Comm.Close()
			return relerr.Wrap(relerr.DomainPlatform, code, "send", err)
		}
	}
}
