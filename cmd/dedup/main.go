// Command dedup removes duplicate records from a terminator-delimited
// byte stream, preserving first-occurrence order, using every available
// CPU core.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coregx/dedup/dedup"
	"github.com/coregx/dedup/internal/cliopts"
	"github.com/coregx/dedup/internal/mmapfile"
	"github.com/coregx/dedup/sink"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	args, err := cliopts.Parse(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, dedup.Wrap(dedup.KindArgs, err))
		return 1
	}

	s, err := sink.New(args.Output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer s.Close()

	count, runErr := dispatch(args, s)
	if runErr != nil {
		if dedup.IsClosedPipe(runErr) {
			return 0
		}
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}

	if args.Options.Count {
		fmt.Fprintln(os.Stderr, count)
	}
	return 0
}

func dispatch(args *cliopts.Args, s *sink.Sink) (uint64, error) {
	if args.Input == "-" {
		d := dedup.NewStreamDeduper(os.Stdin, args.Options, s)
		return d.Run()
	}

	if !args.NoMmap {
		m, err := mmapfile.Open(args.Input)
		if err != nil {
			return 0, dedup.Wrap(dedup.KindIO, err)
		}
		defer m.Close()
		d := dedup.NewBufferDeduper(m.Bytes, args.Options, s)
		return d.Run()
	}

	data, err := readFile(args.Input)
	if err != nil {
		return 0, dedup.Wrap(dedup.KindIO, err)
	}
	d := dedup.NewBufferDeduper(data, args.Options, s)
	return d.Run()
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
