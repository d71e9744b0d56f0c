// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package intset provides an ordered set of small nonnegative integers,
// tuned for the common case of a few, small ids. Values below denseBits
// live in a fixed-capacity bit array; values at or above it fall through
// to an always-present, ordinarily-empty ordered tree, so there is no
// one-way promotion to implement or reason about.
package intset

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/btree"
)

// denseBits is the capacity of the dense window: four 128-bit blocks,
// tuned the same way for both definition ids and predicate ids (see
// constraineddefset, which uses Set for both).
const denseBits = 128 * 4

// overflowDegree is the btree.BTreeG branching factor; 32 keeps the
// tree shallow for the id ranges this set ever sees.
const overflowDegree = 32

func uint64Less(a, b uint64) bool { return a < b }

func newOverflow() *btree.BTreeG[uint64] {
	return btree.NewG[uint64](overflowDegree, uint64Less)
}

// Set is an ordered set of small nonnegative integers.
type Set struct {
	dense    *bitset.BitSet
	overflow *btree.BTreeG[uint64]
}

// New returns an empty Set.
func New() *Set {
	return &Set{dense: &bitset.BitSet{}, overflow: newOverflow()}
}

// With returns a Set containing only v.
func With(v int) *Set {
	s := New()
	s.Insert(v)
	return s
}

// Insert adds v to the set, returning true if v was not already present.
func (s *Set) Insert(v int) bool {
	if v < 0 {
		panic(fmt.Sprintf("intset: negative id %d", v))
	}
	if uint64(v) < denseBits {
		already := s.dense.Test(uint(v))
		s.dense.Set(uint(v))
		return !already
	}
	_, had := s.overflow.ReplaceOrInsert(uint64(v))
	return !had
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v int) bool {
	if v < 0 {
		return false
	}
	if uint64(v) < denseBits {
		return s.dense.Test(uint(v))
	}
	_, ok := s.overflow.Get(uint64(v))
	return ok
}

// Len returns the number of members in the set.
func (s *Set) Len() int {
	return int(s.dense.Count()) + s.overflow.Len()
}

// Merge returns the union of s and other. Neither input is modified.
func (s *Set) Merge(other *Set) *Set {
	return &Set{
		dense:    s.dense.Union(other.dense),
		overflow: unionOverflow(s.overflow, other.overflow),
	}
}

// Intersect returns the intersection of s and other. Neither input is
// modified.
func (s *Set) Intersect(other *Set) *Set {
	return &Set{
		dense:    s.dense.Intersection(other.dense),
		overflow: intersectOverflow(s.overflow, other.overflow),
	}
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{dense: s.dense.Clone(), overflow: s.overflow.Clone()}
}

// Values returns the members of the set in ascending order.
func (s *Set) Values() []int {
	var out []int
	for i, ok := uint(0), true; ok; i++ {
		if i, ok = s.dense.NextSet(i); ok {
			out = append(out, int(i))
		}
	}
	s.overflow.Ascend(func(v uint64) bool {
		out = append(out, int(v))
		return true
	})
	return out
}

func unionOverflow(a, b *btree.BTreeG[uint64]) *btree.BTreeG[uint64] {
	result := a.Clone()
	b.Ascend(func(v uint64) bool {
		result.ReplaceOrInsert(v)
		return true
	})
	return result
}

func intersectOverflow(a, b *btree.BTreeG[uint64]) *btree.BTreeG[uint64] {
	result := newOverflow()
	a.Ascend(func(v uint64) bool {
		if _, ok := b.Get(v); ok {
			result.ReplaceOrInsert(v)
		}
		return true
	})
	return result
}
