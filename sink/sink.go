// Package sink provides a single write destination -- stdout or a created
// file -- that any number of goroutines can write to without their bytes
// interleaving.
package sink

import (
	"io"
	"os"
	"sync"
)

// DefaultBufSize is the default capacity of a BufWriter's staging buffer.
const DefaultBufSize = 1 << 23

// Sink serializes writes to a single destination behind one mutex,
// whether that destination is stdout or a file: neither is safe for
// concurrent, non-interleaved writes from multiple goroutines on its own.
type Sink struct {
	mu    sync.Mutex
	file  *os.File
	owned bool
}

// New returns a Sink writing to path, creating and truncating it if
// necessary. If path is empty, the Sink writes to stdout instead.
func New(path string) (*Sink, error) {
	if path == "" {
		return &Sink{file: os.Stdout}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &Sink{file: f, owned: true}, nil
}

// WriteAll writes every byte of buf to the sink under its lock: one
// critical section per call, rather than one per byte slice written
// inside it.
func (s *Sink) WriteAll(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.file.Write(buf)
	return err
}

// Lock acquires the sink's write lock and returns a Guard for issuing a
// batch of writes under that single critical section.
func (s *Sink) Lock() *Guard {
	s.mu.Lock()
	return &Guard{sink: s}
}

// Close closes the underlying file if the Sink owns one. Closing a
// stdout-backed Sink is a no-op.
func (s *Sink) Close() error {
	if !s.owned {
		return nil
	}
	return s.file.Close()
}

// Guard is a held Sink lock, acquired by Sink.Lock. It must be released
// exactly once, with Release.
type Guard struct {
	sink *Sink
}

var _ io.Writer = (*Guard)(nil)

// Write writes buf to the sink.
func (g *Guard) Write(buf []byte) (int, error) {
	return g.sink.file.Write(buf)
}

// WriteAll writes every byte of buf to the sink.
func (g *Guard) WriteAll(buf []byte) error {
	_, err := g.sink.file.Write(buf)
	return err
}

// Release releases the lock acquired by Sink.Lock.
func (g *Guard) Release() {
	g.sink.mu.Unlock()
}
