//go:build amd64

package fastchr

import "golang.org/x/sys/cpu"

// CPU feature flags detected once at package initialisation and cached for
// the lifetime of the process. golang.org/x/sys/cpu populates these from
// CPUID at init time, so reading them afterwards is just a plain load of an
// already-settled package-level variable — no atomic needed, matching the
// teacher's simd.hasAVX2 dispatch flag.
var (
	hasAVX2 = cpu.X86.HasAVX2
	hasSSE2 = cpu.X86.HasSSE2
)

// Assembly implementations, defined in fastchr_avx2_amd64.s and
// fastchr_sse2_amd64.s. Both return -1 when needle is not found.
//
//go:noescape
func firstAVX2(haystack []byte, needle byte) int

//go:noescape
func firstSSE2(haystack []byte, needle byte) int

// first returns the index of the first occurrence of needle in haystack, or
// -1 if it is not present. It dispatches to the widest vector width the CPU
// supports, falling back to a portable SWAR scan for short inputs (where
// SIMD setup cost outweighs the benefit) or CPUs without SSE2.
func first(needle byte, haystack []byte) int {
	if len(haystack) == 0 {
		return -1
	}
	switch {
	case hasAVX2 && len(haystack) >= 32:
		return firstAVX2(haystack, needle)
	case hasSSE2 && len(haystack) >= 16:
		return firstSSE2(haystack, needle)
	default:
		return firstGeneric(needle, haystack)
	}
}
