package fastchr

import "math/bits"

// windowSize bounds how many bytes Fastchr scans per refill. A refill
// records every match in the window as a bit in a pending mask, and Next
// hands matches out of that mask (a single TrailingZeros64 plus a bit
// clear) until it is empty. The mask is built by calling first once per
// match in the window plus once more to find none, so the number of
// dispatched searches still grows with the number of matches; the mask
// is not taken from a single vector compare.
const windowSize = 64

// Fastchr is a fused iterator over every index in a haystack where needle
// occurs, in ascending order. Once Next reports no more matches, it will
// never report one again.
type Fastchr struct {
	needle   byte
	haystack []byte
	pos      int    // start of the not-yet-scanned remainder
	base     int    // haystack index corresponding to bit 0 of mask
	mask     uint64 // pending matches within [base, base+windowSize), relative bits
	done     bool
}

// Iter returns a Fastchr over every occurrence of needle in haystack.
func Iter(needle byte, haystack []byte) *Fastchr {
	return &Fastchr{needle: needle, haystack: haystack}
}

// Next returns the next matching index in ascending order, or (0, false)
// once the haystack is exhausted. Subsequent calls after exhaustion keep
// returning (0, false).
func (f *Fastchr) Next() (int, bool) {
	for {
		if f.mask != 0 {
			bit := bits.TrailingZeros64(f.mask)
			f.mask &= f.mask - 1
			return f.base + bit, true
		}
		if f.done || f.pos >= len(f.haystack) {
			f.done = true
			return 0, false
		}
		f.refill()
	}
}

// refill scans the next window of the haystack, collecting every match
// offset relative to the window start into f.mask. Matches within the
// window are located by repeated calls to the SIMD-dispatched first
// search, one call per match plus a final call that finds none.
func (f *Fastchr) refill() {
	end := f.pos + windowSize
	if end > len(f.haystack) {
		end = len(f.haystack)
	}
	window := f.haystack[f.pos:end]
	f.base = f.pos
	f.pos = end

	var mask uint64
	offset := 0
	for offset < len(window) {
		i := first(f.needle, window[offset:])
		if i < 0 {
			break
		}
		mask |= 1 << uint(offset+i)
		offset += i + 1
	}
	f.mask = mask
}

// Len returns an upper bound on the number of remaining matches, matching
// the size_hint contract: (0, Some(haystack.len())).
func (f *Fastchr) Len() (lower, upper int) {
	return 0, len(f.haystack)
}
