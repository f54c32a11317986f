// Package listener implements the server side of spec component C9: an
// exponential-backoff bind/listen/accept state machine that instantiates a
// Connection Duplex per accepted socket.
package listener

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/relaymesh/etherrelay/internal/backoff"
	"github.com/relaymesh/etherrelay/internal/duplex"
	"github.com/relaymesh/etherrelay/internal/fileseed"
	"github.com/relaymesh/etherrelay/internal/relerr"
	"github.com/relaymesh/etherrelay/internal/supervisor"
)

const (
	acceptRetryDelay = time.Second
	connectTimeoutMs = 5000
)

// Config configures the server listener, sourced from network.server.*
// (spec.md §6).
type Config struct {
	Port              uint16
	Protocol          string // "tcp" or "udp"
	BackoffMaxSeconds int
	RetryLimit        uint32 // 0 = unlimited
	ThreadWaitMs      int
	RelayEnabled      bool
	PeerQueueLabel    string

	// SeedFromFile is set when server.send_file is configured: every
	// accepted connection's send worker polls the FILESEED queue instead of
	// its own, per spec.md §4.4.
	SeedFromFile bool
}

// Logger is the minimal logging surface the listener needs.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Hooks is the supervisor.Hooks implementation that runs the SERVER thread.
type Hooks struct {
	supervisor.BaseHooks
	Sup      *supervisor.Supervisor
	Log      Logger
	Cfg      Config
	connSeq  atomic.Uint64
	ready    chan struct{}
	readyOne sync.Once
	listener net.Listener
	packet   net.PacketConn
}

// New builds listener Hooks ready to run as the SERVER thread.
func New(sup *supervisor.Supervisor, log Logger, cfg Config) *Hooks {
	return &Hooks{Sup: sup, Log: log, Cfg: cfg, ready: make(chan struct{})}
}

// Addr blocks until the listener is bound (or ctx is done) and returns its
// address; used by callers and tests that need the OS-assigned port when
// Cfg.Port is 0.
func (h *Hooks) Addr(ctx context.Context) (net.Addr, bool) {
	if h.ready == nil {
		return nil, false
	}
	select {
	case <-h.ready:
		if h.packet != nil {
			return h.packet.LocalAddr(), true
		}
		return h.listener.Addr(), true
	case <-ctx.Done():
		return nil, false
	}
}

func listenConfig() net.ListenConfig {
	return net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
}

// OnRun implements the bind/listen state machine with exponential backoff,
// then the accept loop, per spec.md §4.5. Go's net package binds and
// listens in a single call, so CreateSocket/Bind/Listen collapse into one
// retried step; TCP listen backlog is left at the OS default since net.Listen
// does not expose the backlog argument (documented in DESIGN.md).
func (h *Hooks) OnRun(ctx context.Context, _ *supervisor.Config) error {
	addr := fmt.Sprintf(":%d", h.Cfg.Port)
	network := h.Cfg.Protocol
	if network == "" {
		network = "tcp"
	}

	bo := backoff.New(time.Second, time.Duration(h.Cfg.BackoffMaxSeconds)*time.Second)
	var attempts uint32
	for {
		lc := listenConfig()
		var bindErr error
		if network == "udp" {
			pc, err := lc.ListenPacket(ctx, network, addr)
			if err == nil {
				h.packet = pc
			}
			bindErr = err
		} else {
			ln, err := lc.Listen(ctx, network, addr)
			if err == nil {
				h.listener = ln
			}
			bindErr = err
		}
		if bindErr == nil {
			break
		}
		attempts++
		h.Log.Warnf("listen %s %s failed (attempt %d): %v", network, addr, attempts, bindErr)
		if h.Cfg.RetryLimit != 0 && attempts >= h.Cfg.RetryLimit {
			return relerr.Wrap(relerr.DomainPlatform, relerr.MapNetErr(bindErr), "listen", bindErr)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(bo.Next()):
		}
	}
	h.Log.Infof("listening on %s %s", network, addr)
	if h.ready != nil {
		h.readyOne.Do(func() { close(h.ready) })
	}

	if network == "udp" {
		return h.runUDP(ctx)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		tcpLn, ok := h.listener.(*net.TCPListener)
		if ok {
			_ = tcpLn.SetDeadline(time.Now().Add(acceptRetryDelay))
		}
		conn, err := h.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			h.Log.Warnf("accept failed: %v", err)
			time.Sleep(acceptRetryDelay)
			continue
		}

		seq := h.connSeq.Add(1)
		baseLabel := fmt.Sprintf("SERVER.CONN%d", seq)
		comm := duplex.NewContext(conn, true, h.Cfg.RelayEnabled, h.Cfg.PeerQueueLabel, connectTimeoutMs)
		go func() {
			if err := duplex.Run(ctx, h.Sup, h.Log, comm, h.duplexOptions(baseLabel, true)); err != nil {
				h.Log.Errorf("duplex %s ended: %v", baseLabel, err)
			}
		}()
	}
}

// runUDP waits for the first inbound datagram to learn the peer address,
// then spawns a single duplex pair bound to that address. One server process
// handles one UDP peer at a time, matching the single-connection topology
// assumed elsewhere for the client side (see DESIGN.md).
func (h *Hooks) runUDP(ctx context.Context) error {
	buf := make([]byte, 64*1024)
	for {
		if ctx.Err() != nil {
			return nil
		}
		_ = h.packet.SetReadDeadline(time.Now().Add(acceptRetryDelay))
		n, remote, err := h.packet.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			h.Log.Warnf("udp read failed: %v", err)
			time.Sleep(acceptRetryDelay)
			continue
		}

		adapter := newPacketConnAdapter(h.packet, remote)
		adapter.prime(buf[:n])
		comm := duplex.NewContext(adapter, false, h.Cfg.RelayEnabled, h.Cfg.PeerQueueLabel, connectTimeoutMs)

		baseLabel := fmt.Sprintf("SERVER.CONN%d", h.connSeq.Add(1))
		if err := duplex.Run(ctx, h.Sup, h.Log, comm, h.duplexOptions(baseLabel, false)); err != nil {
			h.Log.Errorf("duplex %s ended: %v", baseLabel, err)
		}
		// Run blocks for this peer's lifetime (UDP has no EOF), so the next
		// ReadFrom here only resumes once that peer's duplex has ended.
	}
}

// duplexOptions builds the per-connection duplex.Options, wiring the send
// worker to FILESEED's queue when server.send_file is configured.
func (h *Hooks) duplexOptions(baseLabel string, isTCP bool) duplex.Options {
	opts := duplex.Options{
		BaseLabel:      baseLabel,
		IsTCP:          isTCP,
		RelayEnabled:   h.Cfg.RelayEnabled,
		PeerQueueLabel: h.Cfg.PeerQueueLabel,
		TimeoutMs:      connectTimeoutMs,
		WaitTimeoutMs:  h.Cfg.ThreadWaitMs,
	}
	if h.Cfg.SeedFromFile {
		opts.SourceLabel = fileseed.DefaultLabel
	}
	return opts
}

func (h *Hooks) OnExit(context.Context, *supervisor.Config) {
	if h.listener != nil {
		h.listener.Close()
	}
	if h.packet != nil {
		h.packet.Close()
	}
}
