// Package fileseed implements the file-reader helper that seeds a send
// queue from disk (spec.md §1, §4.4): a dedicated thread reads server.
// send_file in fixed-size chunks and pushes each as a FileChunk message onto
// its own owned queue, which a send worker polls instead of its own queue.
package fileseed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/relaymesh/etherrelay/internal/queue"
	"github.com/relaymesh/etherrelay/internal/registry"
	"github.com/relaymesh/etherrelay/internal/supervisor"
)

// DefaultLabel is the well-known thread label send workers look up when
// server.send_file is configured.
const DefaultLabel = "FILESEED"

// Worker reads Path in ChunkSize pieces and pushes each as a FileChunk
// message onto its own registry-owned queue.
type Worker struct {
	supervisor.BaseHooks
	Reg       *registry.Registry
	Path      string
	ChunkSize int
}

// New builds a fileseed Worker. A zero ChunkSize defaults to the message
// wire's maximum payload size.
func New(reg *registry.Registry, path string) *Worker {
	return &Worker{Reg: reg, Path: path, ChunkSize: queue.MaxPayload}
}

func (w *Worker) OnRun(ctx context.Context, cfg *supervisor.Config) error {
	label, _ := registry.LabelFromContext(ctx)
	f, err := os.Open(w.Path)
	if err != nil {
		return fmt.Errorf("open send_file %s: %w", w.Path, err)
	}
	defer f.Close()

	chunkSize := w.ChunkSize
	if chunkSize <= 0 || chunkSize > queue.MaxPayload {
		chunkSize = queue.MaxPayload
	}
	buf := make([]byte, chunkSize)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := f.Read(buf)
		if n > 0 {
			msg, merr := queue.NewMessage(queue.TypeFileChunk, buf[:n])
			if merr != nil {
				return merr
			}
			if perr := w.Reg.PushMessage(label, msg, queue.Infinite); perr != nil {
				return perr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read send_file %s: %w", w.Path, err)
		}
	}
}
