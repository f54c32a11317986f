package registry

import (
	"strings"
	"sync"
	"time"

	"github.com/relaymesh/etherrelay/internal/queue"
)

// Config is the minimal view the registry needs of a registered thread's
// configuration; supervisor.Config satisfies this.
type Config interface {
	Label() string
}

// entry is a RegistryEntry (spec.md §3), mutated only under Registry.mu.
type entry struct {
	config       Config
	state        State
	autoCleanup  bool
	queue        *queue.Queue
	completionCh chan struct{}
	completed    bool
	alive        bool // cleared by check_all_threads when the OS thread/goroutine is gone
}

// Registry is the process-wide label -> entry directory, C4.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register installs cfg in the Created state. Fails with ErrDuplicateLabel
// if the label is already registered.
func (r *Registry) Register(cfg Config, autoCleanup bool) error {
	label := cfg.Label()
	if label == "" {
		return ErrInvalidArgs
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[label]; exists {
		return ErrDuplicateLabel
	}

	r.entries[label] = &entry{
		config:       cfg,
		state:        StateCreated,
		autoCleanup:  autoCleanup,
		completionCh: make(chan struct{}),
		alive:        true,
	}
	return nil
}

// IsRegistered reports whether cfg's label currently has a live entry.
func (r *Registry) IsRegistered(cfg Config) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[cfg.Label()]
	return ok
}

// GetState returns the entry's state, or StateUnknown if the label is not
// registered.
func (r *Registry) GetState(label string) State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[label]
	if !ok {
		return StateUnknown
	}
	return e.state
}

// UpdateState transitions label to newState, enforcing the state graph from
// spec.md §3. Reaching a terminal state (Terminated or Failed) signals the
// entry's completion event exactly once.
func (r *Registry) UpdateState(label string, newState State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[label]
	if !ok {
		return ErrNotFound
	}
	if !canTransition(e.state, newState) {
		return ErrInvalidTransition
	}
	e.state = newState

	if (newState == StateTerminated || newState == StateFailed) && !e.completed {
		e.completed = true
		close(e.completionCh)
	}
	return nil
}

// Deregister removes label's entry. If the entry was registered with
// autoCleanup, its owned queue is dropped.
func (r *Registry) Deregister(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[label]
	if !ok {
		return ErrNotFound
	}
	if e.autoCleanup {
		e.queue = nil
	}
	delete(r.entries, label)
	return nil
}

// InitQueue attaches a newly created queue of the given capacity to label's
// entry. Idempotent: calling it again for an already-initialized queue is a
// no-op.
func (r *Registry) InitQueue(label string, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[label]
	if !ok {
		return ErrNotFound
	}
	if e.queue != nil {
		return nil
	}
	q, err := queue.New(capacity, label)
	if err != nil {
		return err
	}
	e.queue = q
	return nil
}

// PushMessage enqueues msg onto label's owned queue. Any thread may push.
func (r *Registry) PushMessage(label string, msg queue.Message, timeoutMs int) error {
	q, err := r.queueFor(label)
	if err != nil {
		return err
	}
	return q.Push(msg, timeoutMs)
}

// PopMessage dequeues from label's owned queue. Only the owning thread
// (identified by callerLabel, extracted from context by the caller) may
// pop; any other caller gets ErrUnauthorized, per spec.md §4.2.
func (r *Registry) PopMessage(callerLabel, label string, timeoutMs int) (queue.Message, error) {
	if callerLabel != label {
		return queue.Message{}, ErrUnauthorized
	}
	q, err := r.queueFor(label)
	if err != nil {
		return queue.Message{}, err
	}
	return q.Pop(timeoutMs)
}

func (r *Registry) queueFor(label string) (*queue.Queue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[label]
	if !ok {
		return nil, ErrNotFound
	}
	if e.queue == nil {
		return nil, ErrQueueNotInitialized
	}
	return e.queue, nil
}

// WaitForThread blocks until label's entry reaches a terminal state, or
// timeoutMs elapses. A label with no entry (for instance one whose thread
// already finished and was deregistered) counts as finished and returns nil.
func (r *Registry) WaitForThread(label string, timeoutMs int) error {
	r.mu.RLock()
	e, ok := r.entries[label]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return waitChan(e.completionCh, timeoutMs)
}

// WaitAll blocks until every currently registered entry reaches a terminal
// state, or timeoutMs elapses overall.
func (r *Registry) WaitAll(timeoutMs int) error {
	return r.waitLabels(r.allLabels(), timeoutMs)
}

// WaitOthers blocks until every entry other than excludeLabel reaches a
// terminal state, or timeoutMs elapses overall.
func (r *Registry) WaitOthers(excludeLabel string, timeoutMs int) error {
	labels := r.allLabels()
	filtered := labels[:0]
	for _, l := range labels {
		if l != excludeLabel {
			filtered = append(filtered, l)
		}
	}
	return r.waitLabels(filtered, timeoutMs)
}

// WaitList blocks until every named label reaches a terminal state, or
// timeoutMs elapses overall.
func (r *Registry) WaitList(labels []string, timeoutMs int) error {
	return r.waitLabels(labels, timeoutMs)
}

func (r *Registry) allLabels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels := make([]string, 0, len(r.entries))
	for l := range r.entries {
		labels = append(labels, l)
	}
	return labels
}

func (r *Registry) waitLabels(labels []string, timeoutMs int) error {
	deadline, infinite := deadlineFor(timeoutMs)
	for _, label := range labels {
		var remaining int
		if infinite {
			remaining = queueInfinite
		} else {
			remaining = int(time.Until(deadline) / time.Millisecond)
			if remaining < 0 {
				remaining = 0
			}
		}
		if err := r.WaitForThread(label, remaining); err != nil && err != ErrNotFound {
			return err
		}
	}
	return nil
}

// CheckAllThreads sweeps every entry; any entry whose goroutine reported
// itself dead while still Running transitions to Failed and signals
// completion, per spec.md §4.2.
func (r *Registry) CheckAllThreads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var failed []string
	for label, e := range r.entries {
		if e.state == StateRunning && !e.alive {
			e.state = StateFailed
			if !e.completed {
				e.completed = true
				close(e.completionCh)
			}
			failed = append(failed, label)
		}
	}
	return failed
}

// MarkDead records that label's goroutine has exited without a clean
// Terminated transition, so the next CheckAllThreads sweep fails it.
func (r *Registry) MarkDead(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[label]; ok {
		e.alive = false
	}
}

// Labels returns a snapshot of all currently registered labels.
func (r *Registry) Labels() []string {
	return r.allLabels()
}

// SuppressedLabels parses a comma-separated debug.suppress_threads value
// into a normalized (lower-cased, trimmed) set, per spec.md §4.3.
func SuppressedLabels(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		label := strings.ToLower(strings.TrimSpace(part))
		if label != "" {
			set[label] = true
		}
	}
	return set
}

const queueInfinite = queue.Infinite

func waitChan(ch <-chan struct{}, timeoutMs int) error {
	if timeoutMs == 0 {
		select {
		case <-ch:
			return nil
		default:
			return ErrTimeout
		}
	}
	if timeoutMs < 0 {
		<-ch
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return ErrTimeout
	}
}

func deadlineFor(timeoutMs int) (time.Time, bool) {
	if timeoutMs < 0 {
		return time.Time{}, true
	}
	return time.Now().Add(time.Duration(timeoutMs) * time.Millisecond), false
}
