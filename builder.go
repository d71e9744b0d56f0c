// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package usedef computes, for a single syntactic scope, which
// definitions reach each use of a name and whether that name may be
// unbound there. A Builder is driven once, forward, by an external
// visitor over the scope's syntax; it owns three append-only tables
// (definitions, predicates, and per-use results) plus the live
// FlowState, and on Finish compacts them into an immutable Map.
//
// The engine never interprets the definitions or predicates it is
// given: they are opaque payloads supplied by the caller, exactly as
// ast.Stmt and *types.Var are opaque to godoctor's dataflow package.
package usedef

import (
	"fmt"

	"github.com/godoctor/usedef/constraineddefset"
	"github.com/godoctor/usedef/flowstate"
)

// SymbolId, DefId, UseId, and PredId are dense ids the caller assigns
// in strictly ascending order starting at zero, one table per kind.
type SymbolId int
type DefId int
type UseId int
type PredId int

// Snapshot is an opaque, immutable copy of a Builder's flow-sensitive
// state at a program point, for later Restore or Merge. It does not
// capture the definition/predicate/use tables, which only ever grow:
// RecordDefinition and RecordPredicate append to their table before
// updating the flow state, so entries recorded along an abandoned
// branch remain in the table, simply unreferenced by the restored flow
// state.
type Snapshot struct {
	inner flowstate.Snapshot
}

// Builder accumulates the definitions, predicates, and uses seen while
// a visitor walks one scope. It is not safe for concurrent use: one
// visitor drives one Builder for one scope. Separate scopes get
// separate Builders and may be built concurrently.
type Builder struct {
	state       *flowstate.State
	symbolCount int
	definitions []any
	predicates  []any
	perUse      []*constraineddefset.Set
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{state: flowstate.New()}
}

// AddSymbol allocates the next symbol slot. s must equal the number of
// symbols already added, i.e. callers must allocate SymbolIds in
// strictly ascending order starting at zero.
func (b *Builder) AddSymbol(s SymbolId) {
	if int(s) != b.symbolCount {
		panic(fmt.Sprintf("usedef: AddSymbol(%d) out of order, expected %d", s, b.symbolCount))
	}
	b.state.AddSymbol()
	b.symbolCount++
}

// RecordDefinition appends def to the definition table, obtaining a
// fresh DefId, then replaces symbol s's current constrained definition
// set with the singleton {def}. Replacement, not union, models
// straight-line "later assignment shadows earlier."
func (b *Builder) RecordDefinition(s SymbolId, def any) DefId {
	b.checkSymbol(s)
	id := DefId(len(b.definitions))
	b.definitions = append(b.definitions, def)
	b.state.RecordDefinition(int(s), int(id))
	return id
}

// RecordPredicate appends pred to the predicate table, obtaining a
// fresh PredId, then adds it to every symbol's currently reaching
// definitions: a predicate learned at a program point constrains every
// definition that is already visible there, for every symbol, because
// any later use on this path executes under that predicate.
func (b *Builder) RecordPredicate(pred any) PredId {
	id := PredId(len(b.predicates))
	b.predicates = append(b.predicates, pred)
	b.state.RecordPredicate(int(id))
	return id
}

// RecordUse clones symbol s's current constrained definition set into
// the per-use table at u. u must equal the number of uses already
// recorded, i.e. UseIds must be allocated in the same order as
// RecordUse calls.
func (b *Builder) RecordUse(s SymbolId, u UseId) {
	b.checkSymbol(s)
	if int(u) != len(b.perUse) {
		panic(fmt.Sprintf("usedef: RecordUse(%d) out of order, expected UseId %d", u, len(b.perUse)))
	}
	b.perUse = append(b.perUse, b.state.Get(int(s)).Clone())
}

// Snapshot captures the current flow-sensitive state for later Restore
// or Merge.
func (b *Builder) Snapshot() Snapshot {
	return Snapshot{inner: b.state.Snapshot()}
}

// Restore replaces the current flow-sensitive state with snap's.
// Symbols added since snap was taken are re-filled with unbound() so
// the dense symbol index stays coherent; snap must not contain more
// symbols than the Builder currently has.
func (b *Builder) Restore(snap Snapshot) {
	b.state.Restore(snap.inner)
}

// Merge joins the current flow-sensitive state with snap's, for every
// symbol, at a control-flow convergence.
func (b *Builder) Merge(snap Snapshot) {
	b.state.Merge(snap.inner)
}

// Finish compacts the Builder's tables into an immutable Map. The
// Builder must not be used again afterward.
func (b *Builder) Finish() *Map {
	public := make([]*constraineddefset.Set, b.symbolCount)
	for s := 0; s < b.symbolCount; s++ {
		public[s] = b.state.Get(s).Clone()
	}
	return &Map{
		definitions: b.definitions,
		predicates:  b.predicates,
		perUse:      b.perUse,
		public:      public,
	}
}

func (b *Builder) checkSymbol(s SymbolId) {
	if int(s) < 0 || int(s) >= b.symbolCount {
		panic(fmt.Sprintf("usedef: unknown symbol %d (have %d symbols)", s, b.symbolCount))
	}
}
