package gumset

import "sync/atomic"

// entry is the tagged union occupying one trie slot. A nil *entry means
// the slot is empty. Go's garbage collector cannot safely scan a pointer
// hidden inside a tagged uintptr the way the original's
// AtomicUsize-plus-low-bit-tag encoding does, so entry trades that trick
// for an ordinary tagged struct behind a single atomic.Pointer -- the
// slot transition is still exactly one compare-and-swap, just on a
// *entry instead of on a raw word.
type entry struct {
	kind   entryKind
	value  *valueNode
	branch *branchNode
	list   *listNode
}

// branchNode is one level of the trie: branchLen slots, each independently
// CAS'd.
type branchNode struct {
	entries [branchLen]atomic.Pointer[entry]
}

func newBranch() *branchNode {
	return &branchNode{}
}

func slotIndex(hash uint64, level int) int {
	return int((hash >> uint(level*shiftSize)) % branchLen)
}

// insert descends the trie from level, inserting (hash, key) and
// reporting whether it was not already present.
func (b *branchNode) insert(s *Set, hash uint64, key []byte, level int) bool {
	idx := slotIndex(hash, level)
	slot := &b.entries[idx]
	old := slot.Load()

	if old == nil {
		v := s.values.Alloc()
		*v = valueNode{hash: hash, bytes: key}
		e := s.entries.Alloc()
		*e = entry{kind: kindValue, value: v}
		if slot.CompareAndSwap(nil, e) {
			return true
		}
		return b.insert(s, hash, key, level)
	}

	switch old.kind {
	case kindBranch:
		return old.branch.insert(s, hash, key, level+1)

	case kindList:
		v := s.values.Alloc()
		*v = valueNode{hash: hash, bytes: key}
		return old.list.insert(v)

	case kindValue:
		if old.value.equal(hash, key) {
			return false
		}
		b.expand(s, slot, old, level+1)
		return b.insert(s, hash, key, level)
	}

	panic("gumset: invalid entry kind")
}

// expand replaces a colliding value entry with either a deeper branch (if
// levels remain) or a list (if the hash is fully consumed), carrying the
// value that was already there along with it. If another goroutine has
// already won the same expansion, expand's own CAS simply loses and the
// caller's retry in insert picks up whatever is there now.
func (b *branchNode) expand(s *Set, slot *atomic.Pointer[entry], old *entry, level int) {
	if level >= maxLevel {
		leaf := &listNode{val: old.value}
		e := s.entries.Alloc()
		*e = entry{kind: kindList, list: leaf}
		slot.CompareAndSwap(old, e)
		return
	}

	nb := s.branches.Alloc()
	idx := slotIndex(old.value.hash, level)
	ve := s.entries.Alloc()
	*ve = entry{kind: kindValue, value: old.value}
	nb.entries[idx].Store(ve)

	e := s.entries.Alloc()
	*e = entry{kind: kindBranch, branch: nb}
	slot.CompareAndSwap(old, e)
}

// contains descends the trie from level, reporting whether (hash, key) is
// present. It never mutates, so it never needs to retry a lost CAS.
func (b *branchNode) contains(hash uint64, key []byte, level int) bool {
	idx := slotIndex(hash, level)
	e := b.entries[idx].Load()
	if e == nil {
		return false
	}
	switch e.kind {
	case kindBranch:
		return e.branch.contains(hash, key, level+1)
	case kindList:
		return e.list.contains(hash, key)
	case kindValue:
		return e.value.equal(hash, key)
	}
	return false
}
