// Package watchdog implements spec component C6: a periodic health sweep
// of registered threads plus a self-liveness heartbeat the main thread
// reads to detect the watchdog itself hanging and respawn it.
package watchdog

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/relaymesh/etherrelay/internal/clock"
	"github.com/relaymesh/etherrelay/internal/registry"
	"github.com/relaymesh/etherrelay/internal/supervisor"
)

const (
	sweepInterval     = time.Second
	mainCheckInterval = 5 * time.Second
	hangThresholdMs   = 10_000
)

// Logger is the minimal logging surface the watchdog needs.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Impulse is the shared WatchdogImpulse (spec.md §3): a single atomic
// holding the last heartbeat timestamp in milliseconds, single-writer
// (the watchdog thread) and many-reader (the main thread's CheckWatchdog).
type Impulse struct {
	lastMs atomic.Int64
}

// NewImpulse creates an Impulse seeded with the current time so a freshly
// spawned watchdog is never immediately considered hung.
func NewImpulse() *Impulse {
	i := &Impulse{}
	i.lastMs.Store(clock.NowMillis())
	return i
}

func (i *Impulse) beat() { i.lastMs.Store(clock.NowMillis()) }

// SinceLastMs returns how many milliseconds have elapsed since the last
// recorded heartbeat.
func (i *Impulse) SinceLastMs() int64 { return clock.SinceMillis(i.lastMs.Load()) }

// Hooks is the supervisor.Hooks implementation that runs the WATCHDOG
// thread: every second, beat the impulse and run a registry health sweep.
type Hooks struct {
	supervisor.BaseHooks
	Reg     *registry.Registry
	Log     Logger
	Impulse *Impulse
}

func (h *Hooks) OnRun(ctx context.Context, _ *supervisor.Config) error {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Impulse.beat()
			if failed := h.Reg.CheckAllThreads(); len(failed) > 0 {
				for _, label := range failed {
					h.Log.Errorf("thread %s detected dead while Running; marked Failed", label)
				}
			}
		}
	}
}

// CheckWatchdog is the main thread's periodic sweep (spec.md §4.7): if the
// impulse has gone stale beyond the hang threshold, it deregisters the
// hung watchdog and spawns a fresh one under the same label.
func CheckWatchdog(ctx context.Context, sup *supervisor.Supervisor, log Logger, impulse *Impulse, label string) *Impulse {
	if impulse.SinceLastMs() <= hangThresholdMs {
		return impulse
	}

	log.Warnf("watchdog heartbeat stale by %dms; respawning", impulse.SinceLastMs())
	_ = sup.Registry().Deregister(label)
	sup.Registry().MarkDead(label)

	fresh := NewImpulse()
	cfg := supervisor.NewConfig(label, &Hooks{Reg: sup.Registry(), Log: log, Impulse: fresh})
	if err := sup.CreateThread(ctx, cfg); err != nil {
		log.Errorf("failed to respawn watchdog: %v", err)
		return impulse
	}
	return fresh
}

// RunMainLoop blocks, calling CheckWatchdog every 5s, until ctx is done.
// impulse is replaced in place via the returned pointer each call.
func RunMainLoop(ctx context.Context, sup *supervisor.Supervisor, log Logger, impulse *Impulse, label string) {
	ticker := time.NewTicker(mainCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			impulse = CheckWatchdog(ctx, sup, log, impulse, label)
		}
	}
}
