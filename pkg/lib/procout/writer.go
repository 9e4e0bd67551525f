package procout

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// LineWriter splits a child's stream into lines and writes each to dst
// prefixed with the process name, so two children sharing one console
// stay readable. Partial lines are buffered until their newline arrives;
// Flush emits a trailing partial line at teardown.
//
// When a Storage is attached, every line is also captured verbatim
// (without the prefix) for post-mortem use.
type LineWriter struct {
	mu     sync.Mutex
	prefix string
	dst    io.Writer
	store  *Storage
	buf    []byte
}

// NewLineWriter creates a LineWriter emitting "[name] line" records to
// dst. store may be nil.
func NewLineWriter(name string, dst io.Writer, store *Storage) *LineWriter {
	return &LineWriter{prefix: "[" + name + "] ", dst: dst, store: store}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := w.buf[:i]
		if err := w.emit(line); err != nil {
			return len(p), err
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush writes any buffered partial line. Call once the child has exited.
func (w *LineWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) == 0 {
		return nil
	}
	err := w.emit(w.buf)
	w.buf = nil
	return err
}

func (w *LineWriter) emit(line []byte) error {
	w.store.Append(append(append([]byte(nil), line...), '\n'))
	_, err := fmt.Fprintf(w.dst, "%s%s\n", w.prefix, line)
	return err
}
