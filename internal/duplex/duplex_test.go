package duplex

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/relaymesh/etherrelay/internal/queue"
	"github.com/relaymesh/etherrelay/internal/registry"
	"github.com/relaymesh/etherrelay/internal/supervisor"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	lines chan string
}

func newCaptureLogger() *captureLogger { return &captureLogger{lines: make(chan string, 64)} }

func (c *captureLogger) Infof(format string, args ...any)  { c.push(format, args) }
func (c *captureLogger) Warnf(format string, args ...any)  { c.push(format, args) }
func (c *captureLogger) Errorf(format string, args ...any) { c.push(format, args) }
func (c *captureLogger) Debugf(format string, args ...any) { c.push(format, args) }

func (c *captureLogger) push(format string, args []any) {
	select {
	case c.lines <- format:
	default:
	}
	_ = args
}

func TestRecvWorkerRelaysAndClosesOnEOF(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	reg := registry.New()
	sup := supervisor.New(reg, nil)

	require.NoError(t, reg.Register(stubConfig(supervisor.LoggerLabel), true))
	require.NoError(t, reg.UpdateState(supervisor.LoggerLabel, registry.StateRunning))

	peerCfg := struct{ label string }{label: "PEER"}
	require.NoError(t, reg.Register(stubConfig(peerCfg.label), true))
	require.NoError(t, reg.InitQueue("PEER", 4))

	comm := NewContext(serverConn, true, true, "PEER", 200)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, sup, newCaptureLogger(), comm, Options{
			BaseLabel:     "SERVER.CONN1",
			IsTCP:         true,
			RelayEnabled:  true,
			TimeoutMs:     200,
			WaitTimeoutMs: 2000,
		})
	}()

	_, err := clientConn.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)

	msg, err := reg.PopMessage("PEER", "PEER", 3000)
	require.NoError(t, err)
	require.Equal(t, queue.TypeRelay, msg.MType)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, msg.Payload())

	clientConn.Close()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after peer closed the connection")
	}
	require.True(t, comm.Closed())
}

type stubConfig string

func (c stubConfig) Label() string { return string(c) }
