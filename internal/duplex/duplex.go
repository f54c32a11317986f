package duplex

import (
	"context"
	"time"

	"github.com/relaymesh/etherrelay/internal/hexdump"
	"github.com/relaymesh/etherrelay/internal/supervisor"
)

const superviseSampleMs = 100

// Options configures a single accepted/connected socket's duplex pair.
type Options struct {
	BaseLabel      string // e.g. "SERVER.CONN1" or "CLIENT"; workers get ".SEND"/".RECEIVE" suffixes
	IsTCP          bool
	RelayEnabled   bool
	PeerQueueLabel string
	TimeoutMs      int
	SourceLabel    string // queue the send worker polls; defaults to the send worker's own label
	QueueCapacity  int
	WaitTimeoutMs  int
}

// Run implements spec.md §4.4 end to end for one socket: given the
// caller-built Context, spawn send/recv workers, supervise at a 100ms sample interval
// until shutdown or closure, then wait for both workers and close the
// socket. Run blocks until the connection's lifetime ends.
func Run(ctx context.Context, sup *supervisor.Supervisor, log Logger, comm *Context, opts Options) error {
	sendLabel := opts.BaseLabel + ".SEND"
	recvLabel := opts.BaseLabel + ".RECEIVE"
	sourceLabel := opts.SourceLabel
	if sourceLabel == "" {
		sourceLabel = sendLabel
	}

	sendCfg := supervisor.NewConfig(sendLabel, &SendHooks{
		Comm:        comm,
		Reg:         sup.Registry(),
		Log:         log,
		SourceLabel: sourceLabel,
	})
	recvCfg := supervisor.NewConfig(recvLabel, &RecvHooks{
		Comm: comm,
		Reg:  sup.Registry(),
		Log:  log,
		Dump: hexdump.New(),
	})
	if opts.QueueCapacity > 0 {
		sendCfg.QueueCapacity = opts.QueueCapacity
		recvCfg.QueueCapacity = opts.QueueCapacity
	}

	if err := sup.CreateThread(ctx, sendCfg); err != nil {
		return err
	}
	if err := sup.CreateThread(ctx, recvCfg); err != nil {
		return err
	}

	ticker := time.NewTicker(superviseSampleMs * time.Millisecond)
	defer ticker.Stop()
	for ctx.Err() == nil && !comm.Closed() {
		<-ticker.C
	}

	waitTimeout := opts.WaitTimeoutMs
	if waitTimeout <= 0 {
		waitTimeout = 5000
	}
	if err := sup.Registry().WaitList([]string{sendLabel, recvLabel}, waitTimeout); err != nil {
		log.Warnf("duplex %s: workers did not terminate within %dms: %v", opts.BaseLabel, waitTimeout, err)
	}

	comm.Close()
	return comm.Conn.Close()
}
