// Package dedup implements the line-deduplication engines: BufferDeduper
// for inputs that are held entirely in memory (typically memory-mapped),
// and StreamDeduper for inputs that cannot be, such as pipes and TTYs.
// Both engines consult a gumset.Set for membership and write survivors
// through a sink.Sink.
package dedup
