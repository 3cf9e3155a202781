// Package fastchr finds occurrences of a single byte in a byte slice using
// SIMD instructions where available, with runtime CPU feature detection and
// a portable fallback.
//
// fastchr is the inner loop of the dedup engine: it locates record
// terminators in large memory-mapped buffers. The widest available vector
// width is selected once, cached in a process-wide flag, and reused for
// every call:
//
//   - AVX2: 32-byte lanes, aligned loads after a short scalar alignment head.
//   - SSE2: 16-byte lanes, unaligned loads.
//   - Fallback: SWAR (SIMD-within-a-register) 8-byte-at-a-time scan.
//
// First is equivalent to bytes.IndexByte for every input; Iter and Split
// iterate over all matches, each issuing one dispatched search per match.
package fastchr
