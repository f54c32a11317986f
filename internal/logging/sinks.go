package logging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// Sink receives formatted log lines. Implementations must be safe for
// sequential use from the single logger goroutine that drains the queue;
// they are never called concurrently.
type Sink interface {
	Write(e Entry)
	Close() error
}

// screenSink writes to stderr, matching the teacher's default output stream.
type screenSink struct {
	w io.Writer
}

func newScreenSink() *screenSink { return &screenSink{w: os.Stderr} }

func (s *screenSink) Write(e Entry) {
	fmt.Fprintln(s.w, formatLine(e))
}

func (s *screenSink) Close() error { return nil }

// fileSink appends formatted lines to a single log file.
type fileSink struct {
	f *os.File
	w *bufio.Writer
}

func newFileSink(path string) (*fileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &fileSink{f: f, w: bufio.NewWriter(f)}, nil
}

func (s *fileSink) Write(e Entry) {
	fmt.Fprintln(s.w, formatLine(e))
	s.w.Flush()
}

func (s *fileSink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// formatLine renders a line per spec.md §6: "YYYY-MM-DD HH:MM:SS.nnn
// [LEVEL] [LABEL] message".
func formatLine(e Entry) string {
	t := time.UnixMilli(e.TimestampMs).UTC()
	return fmt.Sprintf("%s [%s] [%s] %s",
		t.Format("2006-01-02 15:04:05.000"), e.Level, e.Label, e.Message)
}
