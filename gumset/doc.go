// Package gumset implements a lock-free concurrent set of byte-slice
// fingerprints, structured as a 16-ary hash trie over the bits of a
// 64-bit hash. Insert and Contains take no lock on the trie: every state
// transition is a single compare-and-swap on one trie slot, and colliding
// values either grow the trie one level deeper or, past the bottom of the
// hash, chain onto a linked list.
//
// Nodes are never individually freed. Value, entry and branch nodes are
// carved out of arena.Arena slabs for the lifetime of the Set, so most
// allocations are a single atomic increment; when a slab fills, the
// arena takes its mutex and allocates a new slab from the Go heap. List
// nodes are allocated individually on the Go heap.
package gumset
