package dedup

import (
	"bufio"
	"io"

	"github.com/coregx/dedup/arena"
	"github.com/coregx/dedup/gumset"
	"github.com/coregx/dedup/sink"
)

// streamReadBufferSize sizes the bufio.Reader wrapping a StreamDeduper's
// input.
const streamReadBufferSize = 1 << 16

// StreamDeduper deduplicates an io.Reader that cannot be memory-mapped
// (a pipe or a TTY), one record at a time.
type StreamDeduper struct {
	r     *bufio.Reader
	opts  Options
	set   *gumset.Set
	sink  *sink.Sink
	bytes *arena.Arena[byte]
}

// NewStreamDeduper returns a StreamDeduper reading from r and writing
// survivors to s.
func NewStreamDeduper(r io.Reader, opts Options, s *sink.Sink) *StreamDeduper {
	return &StreamDeduper{
		r:     bufio.NewReaderSize(r, streamReadBufferSize),
		opts:  opts,
		set:   gumset.NewSeeded(opts.Seed),
		sink:  s,
		bytes: arena.New[byte](arena.Mmap),
	}
}

// Run reads records up to and including the terminator until EOF,
// emitting the first occurrence of each. A final record with no trailing
// terminator (input ended mid-record) is still emitted with a terminator
// appended, per this system's pinned choice for trailing unterminated
// input.
func (d *StreamDeduper) Run() (uint64, error) {
	out := sink.NewBufWriter(d.sink)
	terminator := d.opts.Terminator
	var count uint64

	for {
		raw, readErr := d.r.ReadBytes(terminator)
		if len(raw) == 0 {
			if readErr != nil {
				break
			}
			continue
		}

		record := raw
		if record[len(record)-1] == terminator {
			record = record[:len(record)-1]
		}

		// ReadBytes always returns a freshly allocated slice, but
		// StreamDeduper still routes survivors through an mmap-backed
		// arena: on a long-running stream, the surviving set of
		// fingerprints can grow without bound, and keeping those bytes
		// off the Go heap keeps the garbage collector from ever having
		// to scan them.
		fp := d.set.Fingerprint(record)
		if !d.set.Contains(fp) {
			fp.Bytes = arena.PutBytes(d.bytes, record)
		}
		inserted := d.set.Insert(fp)

		if inserted != d.opts.Invert {
			count++
			if !d.opts.Count {
				if _, err := out.Write(record); err != nil {
					return count, Wrap(KindIO, err)
				}
				if _, err := out.Write([]byte{terminator}); err != nil {
					return count, Wrap(KindIO, err)
				}
			}
		}

		if readErr != nil {
			break
		}
	}

	if err := out.Flush(); err != nil {
		return count, Wrap(KindIO, err)
	}
	return count, nil
}
