package arena

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// sizeOf returns the size in bytes of one T, treating a zero-sized T as
// occupying a single byte so a slab never degenerates to zero length.
func sizeOf[T any]() int {
	var zero T
	sz := int(unsafe.Sizeof(zero))
	if sz == 0 {
		sz = 1
	}
	return sz
}

// mmapSlice carves an anonymous, zero-filled mapping and reinterprets it
// as a []T. T must not contain any Go pointers: the mapping is invisible
// to the garbage collector, so a live Go pointer stored inside it would
// never be scanned. Callers are responsible for only instantiating Mmap
// arenas over pointer-free element types.
//
// If the mapping fails (e.g. the platform forbids anonymous mmap, or the
// process is out of address space), mmapSlice falls back to a heap
// allocation rather than propagating the error: losing the memory-mapped
// backing store costs locality, not correctness.
func mmapSlice[T any](n int) []T {
	length := n * sizeOf[T]()
	buf, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return make([]T, n)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}
