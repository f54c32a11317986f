package listener

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

func TestListenerAcceptsConnection(t *testing.T) {
	reg := registry.New()
	sup := supervisor.New(reg, nil)
	require.NoError(t, reg.Register(stubConfig(supervisor.LoggerLabel), true))
	require.NoError(t, reg.UpdateState(supervisor.LoggerLabel, registry.StateRunning))

	hooks := New(sup, quietLogger{}, Config{
		Protocol:          "tcp",
		BackoffMaxSeconds: 1,
		RetryLimit:        1,
		ThreadWaitMs:      2000,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- hooks.OnRun(ctx, nil) }()

	addr, ok := hooks.Addr(ctx)
	require.True(t, ok)

	conn, err := net.DialTimeout("tcp", addr.String(), 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("hi"))
	require.NoError(t, err)

	cancel()
	hooks.OnExit(context.Background(), nil)

	select {
	case <-runDone:
	case <-time.After(3 * time.Second):
		t.Fatal("OnRun did not return after cancellation")
	}
}

func TestDuplexOptionsSeedsFromFileseedWhenConfigured(t *testing.T) {
	plain := (&Hooks{Cfg: Config{}}).duplexOptions("SERVER.CONN1", true)
	require.Empty(t, plain.SourceLabel)

	seeded := (&Hooks{Cfg: Config{SeedFromFile: true}}).duplexOptions("SERVER.CONN1", true)
	require.Equal(t, "FILESEED", seeded.SourceLabel)
}

type stubConfig string

func (c stubConfig) Label() string { return string(c) }
