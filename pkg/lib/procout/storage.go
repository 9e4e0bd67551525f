// Package procout captures and relays output of supervised child
// processes: a concurrency-safe capture buffer for post-mortem
// diagnostics, and a line writer that interleaves multiple children on
// one console with per-process prefixes.
package procout

import (
	"bytes"
	"sync/atomic"
)

// chunk is an element of the append-only list. Appends publish the next
// pointer atomically, so writers and snapshot readers never lock.
type chunk struct {
	data []byte
	next atomic.Pointer[chunk]
}

// Storage is an append-only capture of a child's output stream. A
// sentinel head keeps the append logic simple. Concurrent Append calls
// and concurrent snapshots are safe; snapshots are best-effort with
// respect to in-flight appends.
type Storage struct {
	head *chunk
	tail atomic.Pointer[chunk]
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	sentinel := &chunk{}
	s := &Storage{head: sentinel}
	s.tail.Store(sentinel)
	return s
}

// Append adds data to the end of the capture. The slice is stored as-is;
// callers that reuse their buffer must pass a copy (Write does).
func (s *Storage) Append(data []byte) {
	if s == nil || len(data) == 0 {
		return
	}
	newTail := &chunk{data: data}
	old := s.tail.Swap(newTail)
	old.next.Store(newTail)
}

// Write implements io.Writer, copying p so the caller's buffer may be
// reused after Write returns.
func (s *Storage) Write(p []byte) (int, error) {
	if s == nil || len(p) == 0 {
		return len(p), nil
	}
	s.Append(append([]byte(nil), p...))
	return len(p), nil
}

// forEach visits every stored chunk in insertion order until iter
// returns false.
func (s *Storage) forEach(iter func([]byte) bool) {
	if s == nil {
		return
	}
	cur := s.head.next.Load()
	for cur != nil {
		if !iter(cur.data) {
			return
		}
		cur = cur.next.Load()
	}
}

// Bytes concatenates the captured chunks into a single slice.
func (s *Storage) Bytes() []byte {
	total := 0
	var chunks [][]byte
	s.forEach(func(b []byte) bool {
		chunks = append(chunks, b)
		total += len(b)
		return true
	})
	out := make([]byte, 0, total)
	for _, b := range chunks {
		out = append(out, b...)
	}
	return out
}

// String returns the captured output as one string.
func (s *Storage) String() string {
	return string(s.Bytes())
}

// Tail returns up to n trailing lines of the capture, used to show why a
// quiet background process died without replaying its whole output.
func (s *Storage) Tail(n int) []string {
	if n <= 0 {
		return nil
	}
	lines := bytes.Split(bytes.TrimRight(s.Bytes(), "\n"), []byte("\n"))
	if len(lines) == 1 && len(lines[0]) == 0 {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(l)
	}
	return out
}
