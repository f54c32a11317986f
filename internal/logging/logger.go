// Package logging implements the logger thread (spec component C7): a
// dedicated goroutine drains a process-wide, lossy log queue into a screen
// sink and/or per-label file sinks. Every other thread blocks on "logger
// running" before initialising (enforced by internal/supervisor), so the
// logger itself must never block on anything but its own queue.
package logging

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/relaymesh/etherrelay/internal/clock"
)

// Config selects the logger's sinks. Screen is written for every entry when
// true; Files routes a label's entries to an additional file sink, falling
// back to DefaultFile when the label has no specific entry.
type Config struct {
	Level         Level
	Screen        bool
	DefaultFile   string
	Files         map[string]string
	DebugFileLine bool
	QueueCapacity int
}

// DefaultConfig mirrors the teacher's DefaultConfig: screen-only, Info
// level.
func DefaultConfig() Config {
	return Config{
		Level:         LevelInfo,
		Screen:        true,
		QueueCapacity: 1024,
	}
}

// Logger is the C7 logger thread's state: an entry queue plus the sinks it
// drains into.
type Logger struct {
	cfg   Config
	queue *entryQueue
	index atomic.Uint64

	mu        sync.Mutex
	screen    Sink
	fileSinks map[string]Sink // label (or "" for DefaultFile) -> sink
}

// New builds a Logger from cfg. Sinks are opened lazily by Init/OnInit, not
// here, so construction never fails on I/O.
func New(cfg Config) *Logger {
	if cfg.QueueCapacity < 1 {
		cfg.QueueCapacity = 1024
	}
	return &Logger{
		cfg:       cfg,
		queue:     newEntryQueue(cfg.QueueCapacity),
		fileSinks: make(map[string]Sink),
	}
}

// Init opens configured sinks. Safe to call once before Run starts draining.
func (l *Logger) Init() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.Screen {
		l.screen = newScreenSink()
	}
	if l.cfg.DefaultFile != "" {
		sink, err := newFileSink(l.cfg.DefaultFile)
		if err != nil {
			return fmt.Errorf("open default log file: %w", err)
		}
		l.fileSinks[""] = sink
	}
	for label, path := range l.cfg.Files {
		sink, err := newFileSink(path)
		if err != nil {
			return fmt.Errorf("open log file for %s: %w", label, err)
		}
		l.fileSinks[label] = sink
	}
	return nil
}

// Close flushes and closes every open sink.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var first error
	if l.screen != nil {
		if err := l.screen.Close(); err != nil && first == nil {
			first = err
		}
	}
	for _, sink := range l.fileSinks {
		if err := sink.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Dropped returns how many log entries were discarded because the queue was
// full when produced.
func (l *Logger) Dropped() uint64 { return l.queue.Dropped() }

func (l *Logger) submit(label string, level Level, msg string) {
	if level < l.cfg.Level {
		return
	}
	if l.cfg.DebugFileLine {
		if _, file, line, ok := runtime.Caller(2); ok {
			msg = fmt.Sprintf("[%s:%d] %s", file, line, msg)
		}
	}
	l.queue.Push(Entry{
		Index:       l.index.Add(1),
		Level:       level,
		TimestampMs: clock.NowMillis(),
		Label:       label,
		Message:     msg,
	})
}

func (l *Logger) Debugf(label, format string, args ...any) {
	l.submit(label, LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(label, format string, args ...any) {
	l.submit(label, LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(label, format string, args ...any) {
	l.submit(label, LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(label, format string, args ...any) {
	l.submit(label, LevelError, fmt.Sprintf(format, args...))
}

// drainOnce pops and routes a single entry, returning false on timeout.
func (l *Logger) drainOnce(timeoutMs int) bool {
	e, ok := l.queue.Pop(timeoutMs)
	if !ok {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.screen != nil {
		l.screen.Write(e)
	}
	if sink, ok := l.fileSinks[e.Label]; ok {
		sink.Write(e)
	} else if sink, ok := l.fileSinks[""]; ok {
		sink.Write(e)
	}
	return true
}

// LabeledLogger binds a Logger to a fixed thread label, satisfying
// supervisor.Logger so every component logs under its own name.
type LabeledLogger struct {
	l     *Logger
	label string
}

// For returns a LabeledLogger bound to label.
func (l *Logger) For(label string) LabeledLogger { return LabeledLogger{l: l, label: label} }

func (b LabeledLogger) Debugf(format string, args ...any) { b.l.Debugf(b.label, format, args...) }
func (b LabeledLogger) Infof(format string, args ...any)  { b.l.Infof(b.label, format, args...) }
func (b LabeledLogger) Warnf(format string, args ...any)  { b.l.Warnf(b.label, format, args...) }
func (b LabeledLogger) Errorf(format string, args ...any) { b.l.Errorf(b.label, format, args...) }
