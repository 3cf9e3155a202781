package dedup

import "runtime"

// Options configures both BufferDeduper and StreamDeduper.
type Options struct {
	// Terminator is the byte that separates records in the input and
	// output streams. There is no implicit default here -- a zero value
	// is a literal NUL terminator, not "unset" -- callers constructing
	// Options directly must set it explicitly; cmd/dedup's flag parsing
	// defaults it to '\n'.
	Terminator byte

	// Workers is the number of worker goroutines BufferDeduper's
	// parallel paths use. 0 means "use every logical CPU"
	// (runtime.GOMAXPROCS(0)).
	Workers int

	// Count, when true, suppresses record output entirely and makes
	// Run return the number of surviving records instead.
	Count bool

	// Invert, when true, keeps only records that were already present
	// in the set (i.e. repeats) instead of first occurrences.
	Invert bool

	// SequentialSplit forces BufferDeduper.Run to use Mode A
	// (split-then-filter) instead of the default Mode B
	// (work-stealing).
	SequentialSplit bool

	// Seed keys the underlying gumset.Set's fingerprint hash.
	Seed uint64
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}
