// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package intsetarray provides an ordered sequence of intset.Set values,
// inlined up to a small fixed capacity before promoting to a heap slice.
package intsetarray

import (
	"fmt"

	"github.com/godoctor/usedef/intset"
)

// inlineCapacity is how many members are stored without a heap
// allocation. constraineddefset rarely carries more than a handful of
// live definitions per symbol, so this covers the common case.
const inlineCapacity = 4

// Array is an ordered sequence of intset.Set. The zero value is an
// empty Array ready to use.
type Array struct {
	length int
	inline [inlineCapacity]intset.Set
	heap   []intset.Set
}

// OfSize returns an Array pre-sized with k empty sets.
func OfSize(k int) *Array {
	a := &Array{}
	for i := 0; i < k; i++ {
		a.Push(intset.New())
	}
	return a
}

// Len returns the number of members in the array.
func (a *Array) Len() int { return a.length }

// Push appends set to the end of the array, copying it in. Promotion
// from inline to heap storage happens at most once and is one-way:
// once a.heap is non-nil every member, old and new, lives there.
func (a *Array) Push(set *intset.Set) {
	if set == nil {
		set = intset.New()
	}
	if a.heap == nil && a.length < inlineCapacity {
		a.inline[a.length] = *set
		a.length++
		return
	}
	if a.heap == nil {
		a.heap = make([]intset.Set, inlineCapacity, inlineCapacity*2)
		copy(a.heap, a.inline[:])
	}
	a.heap = append(a.heap, *set)
	a.length++
}

// Get returns the i-th member.
func (a *Array) Get(i int) *intset.Set {
	a.checkIndex(i)
	return a.at(i)
}

// LastMut returns a mutable pointer to the last member.
func (a *Array) LastMut() *intset.Set {
	if a.length == 0 {
		panic("intsetarray: LastMut on empty Array")
	}
	return a.at(a.length - 1)
}

// InsertInEach inserts v into every member set.
func (a *Array) InsertInEach(v int) {
	for i := 0; i < a.length; i++ {
		a.at(i).Insert(v)
	}
}

// Clone returns an independent deep copy of a.
func (a *Array) Clone() *Array {
	clone := &Array{length: a.length}
	if a.heap != nil {
		clone.heap = make([]intset.Set, a.length)
	}
	for i := 0; i < a.length; i++ {
		*clone.at(i) = *a.at(i).Clone()
	}
	return clone
}

// All calls yield once per member, in order, stopping early if yield
// returns false.
func (a *Array) All(yield func(i int, set *intset.Set) bool) {
	for i := 0; i < a.length; i++ {
		if !yield(i, a.at(i)) {
			return
		}
	}
}

func (a *Array) at(i int) *intset.Set {
	if a.heap != nil {
		return &a.heap[i]
	}
	return &a.inline[i]
}

func (a *Array) checkIndex(i int) {
	if i < 0 || i >= a.length {
		panic(fmt.Sprintf("intsetarray: index %d out of range [0, %d)", i, a.length))
	}
}
