// Package supervisor implements the thread lifecycle wrapper (spec
// component C5): register -> wait-for-logger -> init -> run -> exit ->
// deregister, plus suppression and start_threads/service_thread_queue.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/relaymesh/etherrelay/internal/queue"
	"github.com/relaymesh/etherrelay/internal/registry"
	"github.com/relaymesh/etherrelay/internal/relerr"
)

// LoggerLabel is the well-known label every other thread waits for before
// initialising, per spec.md §4.3 step 5.
const LoggerLabel = "LOGGER"

// MainLabel is the label the process's own entry-point goroutine registers
// itself under, so it is visible in the registry like every other thread
// (spec.md §8 scenario 1 expects MAIN, LOGGER and SERVER to reach Running).
const MainLabel = "MAIN"

const (
	loggerWaitTimeout = 5 * time.Second
	loggerPollEvery   = 10 * time.Millisecond
)

// Logger is the minimal logging surface the supervisor needs;
// logging.LabeledLogger (from (*logging.Logger).For) satisfies it.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
func (noopLogger) Debugf(string, ...any) {}

// Supervisor wraps a Registry with the uniform worker lifecycle.
type Supervisor struct {
	reg    *registry.Registry
	logger Logger
}

// New creates a Supervisor over reg. A nil logger is replaced with a no-op.
func New(reg *registry.Registry, logger Logger) *Supervisor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Supervisor{reg: reg, logger: logger}
}

// CreateThread runs the create_thread sequence from spec.md §4.3 steps 1-5
// (reject-if-registered, default hooks, pre_create, spawn, post_create). The
// spawned goroutine then runs the full 9-step wrapper sequence on its own.
func (s *Supervisor) CreateThread(ctx context.Context, cfg *Config) error {
	if s.reg.IsRegistered(cfg) {
		return registry.ErrDuplicateLabel
	}
	if cfg.Hooks == nil {
		cfg.Hooks = BaseHooks{}
	}
	if err := cfg.Hooks.OnPreCreate(cfg); err != nil {
		return fmt.Errorf("pre_create failed for %s: %w", cfg.Label(), err)
	}

	started := make(chan struct{})
	go s.runWrapper(ctx, cfg, started)
	<-started // ensures registration has happened before CreateThread returns

	cfg.Hooks.OnPostCreate(cfg)
	return nil
}

// runWrapper is the 9-step sequence from spec.md §4.3, executed inside the
// new goroutine.
func (s *Supervisor) runWrapper(parent context.Context, cfg *Config, started chan<- struct{}) {
	label := cfg.Label()
	ctx := registry.ContextWithLabel(parent, label)

	// Step 2: register(cfg, auto_cleanup=true).
	if err := s.reg.Register(cfg, true); err != nil {
		s.logger.Errorf("thread %s: %v", label, relerr.Wrap(relerr.DomainRegistry, relerr.MapRegistryErr(err), "register", err))
		close(started)
		return
	}
	close(started)

	// Step 3: transition to Running.
	if err := s.reg.UpdateState(label, registry.StateRunning); err != nil {
		s.logger.Errorf("thread %s: %v", label, relerr.Wrap(relerr.DomainRegistry, relerr.MapRegistryErr(err), "transition to Running", err))
		_ = s.reg.Deregister(label)
		return
	}

	// Step 4: init_queue.
	capacity := cfg.QueueCapacity
	if capacity < 2 {
		capacity = 2
	}
	if err := s.reg.InitQueue(label, capacity); err != nil {
		s.logger.Errorf("thread %s: %v", label, relerr.Wrap(relerr.DomainRegistry, relerr.MapRegistryErr(err), "init_queue", err))
	}

	// Step 5: wait for LOGGER, unless this thread IS the logger.
	if label != LoggerLabel {
		if !s.waitForLogger() {
			s.logger.Warnf("thread %s: timed out waiting for logger", label)
		}
	}

	// Step 6: init hook.
	if err := cfg.Hooks.OnInit(ctx, cfg); err != nil {
		s.logger.Errorf("thread %s: %v", label, wrapThreadErr(relerr.ThreadInitFailed, "init", err))
		_ = s.reg.UpdateState(label, registry.StateFailed)
		_ = s.reg.Deregister(label)
		s.reg.MarkDead(label)
		return
	}

	// Step 7: run the worker's main function.
	runErr := cfg.Hooks.OnRun(ctx, cfg)

	// Step 8: exit hook; errors logged, not propagated.
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("thread %s: exit hook panicked: %v", label, r)
			}
		}()
		cfg.Hooks.OnExit(ctx, cfg)
	}()

	// Step 9: terminal transition + deregister + signal.
	finalState := registry.StateTerminated
	if runErr != nil {
		s.logger.Errorf("thread %s: %v", label, wrapThreadErr(relerr.ThreadRunFailed, "run", runErr))
		finalState = registry.StateFailed
	}
	_ = s.reg.UpdateState(label, finalState)
	_ = s.reg.Deregister(label)
}

// wrapThreadErr tags err into DomainThreadResult at code, unless it is
// already a *relerr.Error (e.g. a Platform error surfaced by a hook's OnRun),
// in which case it is returned unchanged so a boundary crossing never
// re-tags an error that already crossed one.
func wrapThreadErr(code relerr.Code, op string, err error) error {
	if err == nil {
		return nil
	}
	var re *relerr.Error
	if errors.As(err, &re) {
		return err
	}
	return relerr.Wrap(relerr.DomainThreadResult, code, op, err)
}

func (s *Supervisor) waitForLogger() bool {
	deadline := time.Now().Add(loggerWaitTimeout)
	for time.Now().Before(deadline) {
		if s.reg.GetState(LoggerLabel) == registry.StateRunning {
			return true
		}
		time.Sleep(loggerPollEvery)
	}
	return s.reg.GetState(LoggerLabel) == registry.StateRunning
}

// StartThreads creates every non-suppressed config, applying the
// suppression policy from spec.md §4.3: essential threads ignore
// suppression (with a warning); non-essential suppressed threads are
// skipped. An essential thread's CreateThread failure aborts startup; a
// non-essential failure is logged and skipped.
func (s *Supervisor) StartThreads(ctx context.Context, cfgs []*Config, suppressThreadsCSV string) error {
	suppressed := registry.SuppressedLabels(suppressThreadsCSV)

	for _, cfg := range cfgs {
		normalized := strings.ToLower(strings.TrimSpace(cfg.Label()))
		if suppressed[normalized] {
			if cfg.Essential {
				s.logger.Warnf("essential thread %s matches suppress_threads; starting anyway", cfg.Label())
			} else {
				cfg.Suppressed = true
				s.logger.Infof("suppressing thread %s", cfg.Label())
				continue
			}
		}

		if err := s.CreateThread(ctx, cfg); err != nil {
			if cfg.Essential {
				return fmt.Errorf("essential thread %s failed to start: %w", cfg.Label(), err)
			}
			s.logger.Errorf("non-essential thread %s failed to start: %v", cfg.Label(), err)
		}
	}
	return nil
}

// ServiceThreadQueue drains cfg's owned queue in batches bounded by
// BatchSize and MaxProcessTimeMs, aborting the batch on the first
// non-success processor result, per spec.md §4.3.
func (s *Supervisor) ServiceThreadQueue(ctx context.Context, cfg *Config) error {
	label := cfg.Label()
	deadline := time.Now().Add(time.Duration(cfg.MaxProcessTimeMs) * time.Millisecond)

	for i := 0; i < cfg.BatchSize; i++ {
		if time.Now().After(deadline) {
			return nil
		}
		msg, err := s.reg.PopMessage(label, label, 0)
		if err != nil {
			if errors.Is(err, queue.ErrQueueEmpty) {
				return nil
			}
			return err
		}
		if err := cfg.Hooks.OnMessage(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// Registry exposes the underlying registry for components (watchdog,
// duplex, listener) that need direct access.
func (s *Supervisor) Registry() *registry.Registry { return s.reg }
