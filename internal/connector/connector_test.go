package connector

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/relaymesh/etherrelay/internal/registry"
	"github.com/relaymesh/etherrelay/internal/supervisor"
	"github.com/stretchr/testify/require"
)

type quietLogger struct{}

func (quietLogger) Infof(string, ...any)  {}
func (quietLogger) Warnf(string, ...any)  {}
func (quietLogger) Errorf(string, ...any) {}
func (quietLogger) Debugf(string, ...any) {}

func TestConnectorDialsServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	_ = portStr

	reg := registry.New()
	sup := supervisor.New(reg, nil)
	require.NoError(t, reg.Register(stubConfig(supervisor.LoggerLabel), true))
	require.NoError(t, reg.UpdateState(supervisor.LoggerLabel, registry.StateRunning))

	tcpAddr := ln.Addr().(*net.TCPAddr)
	hooks := &Hooks{
		Sup: sup,
		Log: quietLogger{},
		Cfg: Config{
			Hostname:         host,
			Port:             uint16(tcpAddr.Port),
			BackoffInitialMs: 50,
			BackoffMaxMs:     200,
			RetryLimit:       5,
			ThreadWaitMs:     2000,
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- hooks.OnRun(ctx, nil) }()

	select {
	case conn := <-accepted:
		conn.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted a connection from the connector")
	}
	ln.Close() // further connects get refused, so the retry loop reacts to cancel quickly

	cancel()
	select {
	case <-runDone:
	case <-time.After(3 * time.Second):
		t.Fatal("OnRun did not return after cancellation")
	}
}

func TestDuplexOptionsSeedsFromFileseedWhenConfigured(t *testing.T) {
	plain := (&Hooks{Cfg: Config{}}).duplexOptions()
	require.Empty(t, plain.SourceLabel)

	seeded := (&Hooks{Cfg: Config{SeedFromFile: true}}).duplexOptions()
	require.Equal(t, "FILESEED", seeded.SourceLabel)
}

type stubConfig string

func (c stubConfig) Label() string { return string(c) }
