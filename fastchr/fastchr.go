package fastchr

// First returns the index of the first occurrence of needle in haystack and
// true, or (0, false) if needle does not occur. It is equivalent to
// bytes.IndexByte for every (needle, haystack) pair, but dispatches to
// SIMD instructions when the CPU and input size make it worthwhile.
func First(needle byte, haystack []byte) (int, bool) {
	i := first(needle, haystack)
	if i < 0 {
		return 0, false
	}
	return i, true
}
