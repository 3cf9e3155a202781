package gumset

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/coregx/dedup/arena"
)

const (
	// shiftSize is the number of hash bits consumed per trie level.
	shiftSize = 4
	// branchLen is the fan-out of one trie level: 1<<shiftSize.
	branchLen = 1 << shiftSize
	// maxLevel is the number of levels before a 64-bit hash is fully
	// consumed: 64/shiftSize.
	maxLevel = 64 / shiftSize
)

// Fingerprint identifies a candidate set member by its keyed hash and its
// underlying bytes. Hash alone decides which trie slot a fingerprint
// lives in; Bytes resolves collisions within that slot.
type Fingerprint struct {
	Hash  uint64
	Bytes []byte
}

// Set is a lock-free concurrent set of byte-slice fingerprints. The zero
// value is not usable; construct one with New or NewSeeded.
type Set struct {
	root *branchNode
	seed uint64

	values   *arena.Arena[valueNode]
	entries  *arena.Arena[entry]
	branches *arena.Arena[branchNode]
}

// New returns an empty Set using an unseeded (all-zero) keyed hash.
func New() *Set {
	return NewSeeded(0)
}

// NewSeeded returns an empty Set whose fingerprint hash is keyed by seed.
// Two Sets with different seeds hash the same bytes differently, so a
// value that collides in one Set need not collide in another -- this is
// the "fixed but configurable keyed hash function" the trie's collision
// behavior depends on.
func NewSeeded(seed uint64) *Set {
	return &Set{
		root:     newBranch(),
		seed:     seed,
		values:   arena.New[valueNode](arena.Heap),
		entries:  arena.New[entry](arena.Heap),
		branches: arena.New[branchNode](arena.Heap),
	}
}

// Fingerprint computes the Fingerprint for key under this Set's seed. It
// does not touch the Set itself, so it is safe to call from any number of
// goroutines without synchronization, including goroutines that never
// call Insert or Contains.
func (s *Set) Fingerprint(key []byte) Fingerprint {
	return Fingerprint{Hash: s.hash(key), Bytes: key}
}

func (s *Set) hash(key []byte) uint64 {
	d := xxhash.New()
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], s.seed)
	d.Write(seedBytes[:])
	d.Write(key)
	return d.Sum64()
}

// Insert adds fp to the set, reporting whether fp was not already
// present. It is safe to call concurrently with any other Insert or
// Contains call on the same Set.
func (s *Set) Insert(fp Fingerprint) bool {
	return s.root.insert(s, fp.Hash, fp.Bytes, 0)
}

// Contains reports whether fp is present in the set. It is safe to call
// concurrently with any other Insert or Contains call on the same Set.
func (s *Set) Contains(fp Fingerprint) bool {
	return s.root.contains(fp.Hash, fp.Bytes, 0)
}

type entryKind uint8

const (
	kindEmpty entryKind = iota
	kindValue
	kindBranch
	kindList
)

// valueNode is a leaf: a single fingerprint's hash and bytes.
type valueNode struct {
	hash  uint64
	bytes []byte
}

func (v *valueNode) equal(hash uint64, key []byte) bool {
	return v.hash == hash && bytes.Equal(v.bytes, key)
}
