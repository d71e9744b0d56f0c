// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constraineddefset holds, for a single symbol at a single
// program point, which definitions reach that point, which narrowing
// predicates each of them is constrained by, and whether the symbol
// might still be unbound.
package constraineddefset

import (
	"github.com/godoctor/usedef/intset"
	"github.com/godoctor/usedef/intsetarray"
)

// Set is the triple (defs, preds_per_def, may_be_unbound) described by
// the use-def engine's design: an ordered set of definition ids, a
// parallel ordered sequence of predicate sets (the i-th predicate set
// applies to the i-th definition in ascending order), and a flag for
// whether the symbol may have no definition at all along some path.
//
// defs and predsPerDef are always kept aligned: every mutation that
// changes defs' membership rebuilds predsPerDef in the same ascending
// order in the same step, so the i-th id yielded by defs.Values()
// always corresponds to predsPerDef's i-th member.
type Set struct {
	defs         *intset.Set
	predsPerDef  *intsetarray.Array
	mayBeUnbound bool
}

// Entry pairs a definition id with its applicable predicate ids.
type Entry struct {
	Def   int
	Preds []int
}

// Unbound returns a Set with no definitions that is definitely unbound.
func Unbound() *Set {
	return &Set{defs: intset.New(), predsPerDef: intsetarray.OfSize(0), mayBeUnbound: true}
}

// With returns a Set containing only def, with an empty predicate set,
// definitely bound.
func With(def int) *Set {
	s := &Set{defs: intset.With(def), predsPerDef: intsetarray.OfSize(0), mayBeUnbound: false}
	s.predsPerDef.Push(intset.New())
	return s
}

// AddUnbound marks the symbol as possibly unbound, without otherwise
// changing the visible definitions.
func (s *Set) AddUnbound() {
	s.mayBeUnbound = true
}

// AddPredicate adds p to every currently aligned predicate set: a
// predicate recorded at this program point constrains every definition
// that is already visible here, because any later use on this path
// executes under that predicate.
func (s *Set) AddPredicate(p int) {
	s.predsPerDef.InsertInEach(p)
}

// MayBeUnbound reports whether the symbol may be unbound.
func (s *Set) MayBeUnbound() bool {
	return s.mayBeUnbound
}

// Entries returns the (def, preds) pairs in ascending def order.
func (s *Set) Entries() []Entry {
	defs := s.defs.Values()
	entries := make([]Entry, len(defs))
	for i, d := range defs {
		entries[i] = Entry{Def: d, Preds: s.predsPerDef.Get(i).Values()}
	}
	return entries
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{
		defs:         s.defs.Clone(),
		predsPerDef:  s.predsPerDef.Clone(),
		mayBeUnbound: s.mayBeUnbound,
	}
}

func (s *Set) append(def int, preds *intset.Set) {
	s.defs.Insert(def)
	s.predsPerDef.Push(preds)
}

// Merge joins a and b at a control-flow convergence. A definition
// present in only one of a or b is carried into the result with that
// side's predicate set copied verbatim, because the other path never
// reaches it at all, so nothing on that path constrains it. A
// definition present in both is carried into the result once, with the
// intersection of the two aligned predicate sets: a predicate that
// constrains the definition on only one incoming path does not
// constrain it on the joined path, since the definition is reachable
// there regardless of that predicate. may_be_unbound is the logical OR
// of the two inputs. Neither a nor b is modified.
func Merge(a, b *Set) *Set {
	ae, be := a.Entries(), b.Entries()
	result := &Set{
		defs:         intset.New(),
		predsPerDef:  intsetarray.OfSize(0),
		mayBeUnbound: a.mayBeUnbound || b.mayBeUnbound,
	}

	i, j := 0, 0
	for i < len(ae) || j < len(be) {
		switch {
		case j >= len(be) || (i < len(ae) && ae[i].Def < be[j].Def):
			result.append(ae[i].Def, predsToSet(ae[i].Preds))
			i++
		case i >= len(ae) || (j < len(be) && be[j].Def < ae[i].Def):
			result.append(be[j].Def, predsToSet(be[j].Preds))
			j++
		default:
			common := predsToSet(ae[i].Preds).Intersect(predsToSet(be[j].Preds))
			result.append(ae[i].Def, common)
			i++
			j++
		}
	}
	return result
}

func predsToSet(preds []int) *intset.Set {
	s := intset.New()
	for _, p := range preds {
		s.Insert(p)
	}
	return s
}
