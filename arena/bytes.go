package arena

// PutBytes copies src into fresh space carved out of a, returning a slice
// backed by the arena rather than by whatever buffer src currently lives
// in. The stream engine uses it to store the bytes of each record it adds
// to its set in an mmap-backed arena instead of on the Go heap.
//
// If src is larger than a single slab, PutBytes allocates a dedicated
// slice for it outside the arena rather than fragmenting a slab.
func PutBytes(a *Arena[byte], src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	if len(src) > a.slabLen() {
		dst := make([]byte, len(src))
		copy(dst, src)
		return dst
	}

	for {
		s := a.current.Load()
		i := s.next.Add(int64(len(src))) - int64(len(src))
		if i+int64(len(src)) <= int64(len(s.mem)) {
			dst := s.mem[i : i+int64(len(src))]
			copy(dst, src)
			return dst
		}
		a.rollover(s)
	}
}
