// Package mmapfile memory-maps a regular file read-only.
package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// Mapping is a read-only memory-mapped file. Close unmaps it.
type Mapping struct {
	Bytes []byte
}

// Open opens and memory-maps path read-only. An empty file maps to a
// zero-length Mapping without calling mmap, since mmap rejects a
// zero-length mapping.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &Mapping{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return &Mapping{Bytes: data}, nil
}

// Close unmaps the mapping. It is a no-op on a zero-length Mapping.
func (m *Mapping) Close() error {
	if len(m.Bytes) == 0 {
		return nil
	}
	return unix.Munmap(m.Bytes)
}
