// Package cliopts parses command-line flags for cmd/dedup into a
// dedup.Options plus the few flags that stay outside that struct
// (input path, output path, mmap toggle) because they govern how the
// input is obtained rather than how it is deduplicated.
package cliopts

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/coregx/dedup/dedup"
)

// Args is the parsed result of Parse.
type Args struct {
	// Input is the path to read from, or "-" for stdin.
	Input string
	// Output is the path to write survivors to, or "" for stdout.
	Output string
	// NoMmap forces the read-into-memory path even when Input names a
	// regular file that could be memory-mapped.
	NoMmap bool
	// Options is handed straight to dedup.NewBufferDeduper /
	// dedup.NewStreamDeduper.
	Options dedup.Options
}

// Parse parses argv (excluding the program name, i.e. os.Args[1:]) into
// an Args. Terminator defaults to '\n' when --terminator/-z is absent.
func Parse(argv []string) (*Args, error) {
	fs := flag.NewFlagSet("dedup", flag.ContinueOnError)

	output := fs.StringP("output", "o", "", "write survivors to `file` instead of stdout")
	noMmap := fs.Bool("no-mmap", false, "read the whole input into memory instead of memory-mapping it")
	terminator := fs.StringP("terminator", "z", `\n`, "record terminator byte, as an escape sequence (\\n, \\t, \\0, \\\\, \\', \\\")")
	count := fs.Bool("count", false, "print the number of surviving records to stderr instead of emitting them")
	invert := fs.Bool("invert", false, "emit only records that repeat, instead of only first occurrences")
	sequential := fs.Bool("sequential", false, "use the split-then-filter engine instead of the work-stealing one")
	workers := fs.IntP("workers", "j", 0, "number of worker goroutines; 0 means all logical CPUs")
	seed := fs.Uint64("seed", 0, "seed for the fingerprint hash")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	term, err := parseTerminator(*terminator)
	if err != nil {
		return nil, fmt.Errorf("--terminator: %w", err)
	}

	input := "-"
	if rest := fs.Args(); len(rest) > 0 {
		input = rest[0]
	}

	return &Args{
		Input:  input,
		Output: *output,
		NoMmap: *noMmap,
		Options: dedup.Options{
			Terminator:      term,
			Workers:         *workers,
			Count:           *count,
			Invert:          *invert,
			SequentialSplit: *sequential,
			Seed:            *seed,
		},
	}, nil
}
