package dedup

import (
	"fmt"
	"sync"

	"github.com/coregx/dedup/fastchr"
	"github.com/coregx/dedup/gumset"
	"github.com/coregx/dedup/lumpychunks"
	"github.com/coregx/dedup/sink"
)

// workChunkSize is the rough size of one work-stealing partition: 2^27
// bytes.
const workChunkSize = 1 << 27

// workerStagingBytes is the capacity of one worker's write-combining
// buffer: 8 MiB.
const workerStagingBytes = 1 << 23

// BufferDeduper deduplicates an in-memory buffer, typically a
// memory-mapped file. It never copies the input: every emitted record is
// a subslice of data.
type BufferDeduper struct {
	data []byte
	opts Options
	set  *gumset.Set
	sink *sink.Sink

	// chunkSize is the rough partition size RunWorkStealing hands to
	// lumpychunks. It defaults to workChunkSize; tests override it via
	// a package-internal constructor to exercise the multi-chunk path
	// without needing gigabyte-sized inputs.
	chunkSize int
}

// NewBufferDeduper returns a BufferDeduper over data, writing survivors
// to s.
func NewBufferDeduper(data []byte, opts Options, s *sink.Sink) *BufferDeduper {
	return &BufferDeduper{
		data:      data,
		opts:      opts,
		set:       gumset.NewSeeded(opts.Seed),
		sink:      s,
		chunkSize: workChunkSize,
	}
}

// Run dispatches to RunWorkStealing (Mode B, the default high-throughput
// path) unless Options.SequentialSplit requests RunSplit (Mode A)
// instead.
func (d *BufferDeduper) Run() (uint64, error) {
	if d.opts.SequentialSplit {
		return d.RunSplit()
	}
	return d.RunWorkStealing()
}

// keep reports whether a record whose Insert call returned inserted
// should survive into the output, honoring Options.Invert.
func (d *BufferDeduper) keep(inserted bool) bool {
	return inserted != d.opts.Invert
}

// RunSplit implements Mode A: split the whole buffer into records (a
// trailing empty record caused by a terminator at end-of-input is
// suppressed), fingerprint every record concurrently, probe set membership
// in input order so the first occurrence of each record is the one that
// survives, then emit survivors to the sink sequentially in input order.
func (d *BufferDeduper) RunSplit() (uint64, error) {
	records := splitRecords(d.opts.Terminator, d.data)
	fps := make([]gumset.Fingerprint, len(records))
	keep := make([]bool, len(records))

	workers := d.opts.workers()
	chunkSize := (len(records) + workers - 1) / workers
	if chunkSize < 1 {
		chunkSize = 1
	}

	var wg sync.WaitGroup
	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fps[i] = d.set.Fingerprint(records[i])
			}
		}(start, end)
	}
	wg.Wait()
	for i, fp := range fps {
		keep[i] = d.keep(d.set.Insert(fp))
	}

	var count uint64
	for _, k := range keep {
		if k {
			count++
		}
	}
	if d.opts.Count {
		return count, nil
	}

	out := sink.NewBufWriter(d.sink)
	for i, k := range keep {
		if !k {
			continue
		}
		if _, err := out.Write(records[i]); err != nil {
			return 0, Wrap(KindIO, err)
		}
		if _, err := out.Write([]byte{d.opts.Terminator}); err != nil {
			return 0, Wrap(KindIO, err)
		}
	}
	if err := out.Flush(); err != nil {
		return 0, Wrap(KindIO, err)
	}
	return count, nil
}

// splitRecords splits data on terminator, dropping the single trailing
// empty record a terminator at end-of-input produces (it is not a real
// record, just the aftermath of the final separator).
func splitRecords(terminator byte, data []byte) [][]byte {
	var records [][]byte
	s := fastchr.Split(terminator, data)
	for {
		rec, ok := s.Next()
		if !ok {
			break
		}
		records = append(records, rec)
	}
	if n := len(records); n > 0 && len(records[n-1]) == 0 {
		records = records[:n-1]
	}
	return records
}

// RunWorkStealing implements Mode B: partition the buffer into
// terminator-aligned chunks of roughly workChunkSize bytes, distribute
// them across worker goroutines, and have each worker dedup and emit the
// records within its own chunks. Ordering is preserved within a chunk but
// not across chunks. A panicking worker is recovered and reported as a
// KindWorker Error instead of taking the whole process down with it.
func (d *BufferDeduper) RunWorkStealing() (uint64, error) {
	terminator := d.opts.Terminator
	chunks := make(chan []byte, d.opts.workers())

	go func() {
		defer close(chunks)
		c := lumpychunks.New(d.data, d.chunkSize, func(b []byte) (int, bool) {
			return fastchr.First(terminator, b)
		})
		for {
			chunk, ok := c.Next()
			if !ok {
				return
			}
			chunks <- chunk
		}
	}()

	workers := d.opts.workers()
	results := make([]workerResult, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[w] = workerResult{err: Wrap(KindWorker, fmt.Errorf("worker panic: %v", r))}
				}
			}()
			results[w] = d.runWorker(chunks)
		}(w)
	}
	wg.Wait()

	var total uint64
	for _, r := range results {
		if r.err != nil {
			return 0, r.err
		}
		total += r.count
	}
	return total, nil
}

type workerResult struct {
	count uint64
	err   error
}

// runWorker drains chunks, deduping and emitting every record within
// each one, until the channel closes.
func (d *BufferDeduper) runWorker(chunks <-chan []byte) workerResult {
	terminator := d.opts.Terminator
	buf := make([]byte, 0, workerStagingBytes)
	var count uint64

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		err := d.sink.WriteAll(buf)
		buf = buf[:0]
		return err
	}

	emit := func(record []byte) error {
		need := len(record) + 1
		if len(buf)+need > cap(buf) {
			if err := flush(); err != nil {
				return err
			}
		}
		if need > cap(buf) {
			g := d.sink.Lock()
			defer g.Release()
			if err := g.WriteAll(record); err != nil {
				return err
			}
			return g.WriteAll([]byte{terminator})
		}
		buf = append(buf, record...)
		buf = append(buf, terminator)
		return nil
	}

	process := func(record []byte) error {
		fp := d.set.Fingerprint(record)
		inserted := d.set.Insert(fp)
		if !d.keep(inserted) {
			return nil
		}
		count++
		if d.opts.Count {
			return nil
		}
		return emit(record)
	}

	for chunk := range chunks {
		rest := chunk
		for {
			i, ok := fastchr.First(terminator, rest)
			if !ok {
				break
			}
			record := rest[:i]
			rest = rest[i+1:]
			if err := process(record); err != nil {
				return workerResult{count, Wrap(KindIO, err)}
			}
		}
		if len(rest) > 0 {
			if err := process(rest); err != nil {
				return workerResult{count, Wrap(KindIO, err)}
			}
		}
	}

	if err := flush(); err != nil {
		return workerResult{count, Wrap(KindIO, err)}
	}
	return workerResult{count, nil}
}
