package logging

import (
	"context"

	"github.com/relaymesh/etherrelay/internal/supervisor"
)

const drainPollMs = 200

// Worker adapts Logger to supervisor.Hooks so it can run as the LOGGER
// thread itself: opens sinks on init, drains the queue until shutdown,
// flushes and closes sinks on exit.
type Worker struct {
	supervisor.BaseHooks
	Log *Logger
}

func (w *Worker) OnInit(context.Context, *supervisor.Config) error {
	return w.Log.Init()
}

func (w *Worker) OnRun(ctx context.Context, _ *supervisor.Config) error {
	for {
		select {
		case <-ctx.Done():
			w.drainRemaining()
			return nil
		default:
			w.Log.drainOnce(drainPollMs)
		}
	}
}

// drainRemaining flushes whatever is left in the queue once shutdown is
// signalled, without blocking indefinitely.
func (w *Worker) drainRemaining() {
	for w.Log.drainOnce(0) {
	}
}

func (w *Worker) OnExit(context.Context, *supervisor.Config) {
	w.Log.Close()
}
