// Package connector implements the client side of spec component C9: an
// exponential-backoff connect loop that instantiates one Connection Duplex
// per successful connection and reconnects 200ms after it ends.
package connector

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/relaymesh/etherrelay/internal/backoff"
	"github.com/relaymesh/etherrelay/internal/duplex"
	"github.com/relaymesh/etherrelay/internal/fileseed"
	"github.com/relaymesh/etherrelay/internal/relerr"
	"github.com/relaymesh/etherrelay/internal/supervisor"
)

const (
	reconnectPause   = 200 * time.Millisecond
	dialTimeout      = 5 * time.Second
	connDuplexTimeMs = 5000
)

// Config configures the client connector, sourced from network.client.*
// (spec.md §6).
type Config struct {
	Hostname         string
	Port             uint16
	BackoffInitialMs int
	BackoffMaxMs     int
	RetryLimit       uint32 // 0 = unlimited
	ThreadWaitMs     int
	RelayEnabled     bool
	PeerQueueLabel   string

	// SeedFromFile is set when server.send_file is configured: the send
	// worker polls the FILESEED queue instead of its own, per spec.md §4.4.
	SeedFromFile bool
}

// Logger is the minimal logging surface the connector needs.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Hooks is the supervisor.Hooks implementation that runs the CLIENT thread.
type Hooks struct {
	supervisor.BaseHooks
	Sup *supervisor.Supervisor
	Log Logger
	Cfg Config
}

// OnRun implements the connect-with-backoff loop, per spec.md §4.5: a
// successful connection runs its duplex pair to completion, then the
// connector pauses 200ms and reconnects with backoff reset.
func (h *Hooks) OnRun(ctx context.Context, _ *supervisor.Config) error {
	addr := fmt.Sprintf("%s:%d", h.Cfg.Hostname, h.Cfg.Port)
	initial := time.Duration(h.Cfg.BackoffInitialMs) * time.Millisecond
	max := time.Duration(h.Cfg.BackoffMaxMs) * time.Millisecond
	bo := backoff.New(initial, max)

	var attempts uint32
	for ctx.Err() == nil {
		dialer := net.Dialer{Timeout: dialTimeout}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			attempts++
			h.Log.Warnf("connect to %s failed (attempt %d): %v", addr, attempts, err)
			if h.Cfg.RetryLimit != 0 && attempts >= h.Cfg.RetryLimit {
				return relerr.Wrap(relerr.DomainPlatform, relerr.MapNetErr(err), "connect", err)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(bo.Next()):
			}
			continue
		}

		bo.Reset()
		attempts = 0
		comm := duplex.NewContext(conn, true, h.Cfg.RelayEnabled, h.Cfg.PeerQueueLabel, connDuplexTimeMs)

		if err := duplex.Run(ctx, h.Sup, h.Log, comm, h.duplexOptions()); err != nil {
			h.Log.Errorf("duplex CLIENT ended: %v", err)
		}

		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectPause):
		}
	}
	return nil
}

// duplexOptions builds the duplex.Options for the CLIENT connection,
// wiring the send worker to FILESEED's queue when server.send_file is
// configured.
func (h *Hooks) duplexOptions() duplex.Options {
	opts := duplex.Options{
		BaseLabel:      "CLIENT",
		IsTCP:          true,
		RelayEnabled:   h.Cfg.RelayEnabled,
		PeerQueueLabel: h.Cfg.PeerQueueLabel,
		TimeoutMs:      connDuplexTimeMs,
		WaitTimeoutMs:  h.Cfg.ThreadWaitMs,
	}
	if h.Cfg.SeedFromFile {
		opts.SourceLabel = fileseed.DefaultLabel
	}
	return opts
}
