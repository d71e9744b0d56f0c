// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flowstate holds the per-scope mutable state the use-def
// builder walks a scope with: for every symbol seen so far, its
// currently reaching constraineddefset.Set. It supports the
// snapshot/restore/merge choreography a visitor uses at control-flow
// branches, loops, and exception handlers.
package flowstate

import (
	"fmt"

	"github.com/godoctor/usedef/constraineddefset"
)

// State is the per-symbol flow-sensitive state for a single scope
// being walked. The zero value is an empty State ready to use.
type State struct {
	perSymbol []*constraineddefset.Set
}

// New returns an empty State.
func New() *State {
	return &State{}
}

// AddSymbol allocates the next symbol slot, initialized to Unbound,
// and returns its dense index. The caller's own symbol numbering must
// assign ids in this same order, starting at zero.
func (s *State) AddSymbol() int {
	idx := len(s.perSymbol)
	s.perSymbol = append(s.perSymbol, constraineddefset.Unbound())
	return idx
}

// Get returns the current constraineddefset.Set for symbol.
func (s *State) Get(symbol int) *constraineddefset.Set {
	s.checkSymbol(symbol)
	return s.perSymbol[symbol]
}

// RecordDefinition replaces the current set for symbol with a fresh
// singleton containing only def: a straight-line later assignment
// shadows every earlier one.
func (s *State) RecordDefinition(symbol, def int) {
	s.checkSymbol(symbol)
	s.perSymbol[symbol] = constraineddefset.With(def)
}

// RecordPredicate adds p to every symbol's currently reaching set: a
// predicate learned at this program point constrains every definition
// reaching here, for every symbol, because any later use on this path
// executes under that predicate.
func (s *State) RecordPredicate(p int) {
	for _, cds := range s.perSymbol {
		cds.AddPredicate(p)
	}
}

// Snapshot is an immutable copy of a State at a program point. It can
// be used later to Restore or Merge.
type Snapshot struct {
	perSymbol []*constraineddefset.Set
}

// Snapshot captures the current state of s.
func (s *State) Snapshot() Snapshot {
	clone := make([]*constraineddefset.Set, len(s.perSymbol))
	for i, cds := range s.perSymbol {
		clone[i] = cds.Clone()
	}
	return Snapshot{perSymbol: clone}
}

// Restore replaces s's contents with snap's. Symbols added to s since
// snap was taken (symbols present in s but not in snap) are re-filled
// with Unbound so the dense symbol index stays coherent; snap must not
// contain strictly more symbols than s currently has, since that would
// mean a symbol was forgotten, which cannot happen under the engine's
// ascending-allocation discipline.
func (s *State) Restore(snap Snapshot) {
	if len(snap.perSymbol) > len(s.perSymbol) {
		panic(fmt.Sprintf("flowstate: restore snapshot has %d symbols, more than the %d the current state has",
			len(snap.perSymbol), len(s.perSymbol)))
	}
	n := len(s.perSymbol)
	restored := make([]*constraineddefset.Set, n)
	for i := 0; i < n; i++ {
		if i < len(snap.perSymbol) {
			restored[i] = snap.perSymbol[i].Clone()
		} else {
			restored[i] = constraineddefset.Unbound()
		}
	}
	s.perSymbol = restored
}

// Merge joins s's current state with snap's at a control-flow
// convergence, for every symbol. A symbol present in s but absent from
// snap is joined against Unbound: its defs are preserved but
// may_be_unbound becomes true, since the snapshotted path never
// allocated that symbol at all.
func (s *State) Merge(snap Snapshot) {
	for i, cur := range s.perSymbol {
		var other *constraineddefset.Set
		if i < len(snap.perSymbol) {
			other = snap.perSymbol[i]
		} else {
			other = constraineddefset.Unbound()
		}
		s.perSymbol[i] = constraineddefset.Merge(cur, other)
	}
}

func (s *State) checkSymbol(symbol int) {
	if symbol < 0 || symbol >= len(s.perSymbol) {
		panic(fmt.Sprintf("flowstate: symbol %d out of range [0, %d)", symbol, len(s.perSymbol)))
	}
}
