package watchdog

import (
	"context"
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

func TestNewImpulseStartsFresh(t *testing.T) {
	i := NewImpulse()
	require.Less(t, i.SinceLastMs(), int64(100))
}

func TestCheckWatchdogNoopWhenFresh(t *testing.T) {
	reg := registry.New()
	sup := supervisor.New(reg, nil)
	i := NewImpulse()

	got := CheckWatchdog(context.Background(), sup, quietLogger{}, i, "WATCHDOG")
	require.Same(t, i, got)
}

func TestCheckWatchdogRespawnsOnStaleImpulse(t *testing.T) {
	reg := registry.New()
	sup := supervisor.New(reg, nil)
	require.NoError(t, reg.Register(stubConfig(supervisor.LoggerLabel), true))
	require.NoError(t, reg.UpdateState(supervisor.LoggerLabel, registry.StateRunning))

	stale := &Impulse{}
	stale.lastMs.Store(0) // epoch: guaranteed far in the past

	require.NoError(t, reg.Register(stubConfig("WATCHDOG"), true))
	require.NoError(t, reg.UpdateState("WATCHDOG", registry.StateRunning))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fresh := CheckWatchdog(ctx, sup, quietLogger{}, stale, "WATCHDOG")
	require.NotSame(t, stale, fresh)
	require.Less(t, fresh.SinceLastMs(), int64(1000))

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, registry.StateRunning, reg.GetState("WATCHDOG"))
}

func TestHooksOnRunBeatsImpulsePeriodically(t *testing.T) {
	reg := registry.New()
	impulse := &Impulse{}
	impulse.lastMs.Store(0)
	h := &Hooks{Reg: reg, Log: quietLogger{}, Impulse: impulse}

	ctx, cancel := context.WithTimeout(context.Background(), 1200*time.Millisecond)
	defer cancel()

	_ = h.OnRun(ctx, nil)
	require.Less(t, impulse.SinceLastMs(), int64(1500))
}

type stubConfig string

func (c stubConfig) Label() string { return string(c) }
