// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package usedef

import (
	"fmt"

	"github.com/godoctor/usedef/constraineddefset"
)

// ResolvedDef pairs a caller-supplied definition payload with the
// caller-supplied predicate payloads that constrain it, resolved from
// the Builder's opaque tables back into the values the caller
// originally passed to RecordDefinition and RecordPredicate.
type ResolvedDef struct {
	Def   any
	Preds []any
}

// Map is the immutable result of a finished Builder: for every use and
// every symbol's end-of-scope ("public") state, which definitions
// reach it, under which predicates, and whether the symbol may be
// unbound there. Map holds only slices that are never mutated after
// Finish returns, so it is safe for concurrent readers without
// synchronization.
type Map struct {
	definitions []any
	predicates  []any
	perUse      []*constraineddefset.Set
	public      []*constraineddefset.Set
}

// DefinitionsForUse returns the definitions reaching use u, in
// ascending DefId order, each resolved to its original opaque payload
// along with its resolved predicate payloads.
func (m *Map) DefinitionsForUse(u UseId) []ResolvedDef {
	return m.resolve(m.use(u))
}

// UseMayBeUnbound reports whether the symbol queried by use u may be
// unbound at that point.
func (m *Map) UseMayBeUnbound(u UseId) bool {
	return m.use(u).MayBeUnbound()
}

// PublicDefinitions returns the definitions reaching the end of scope
// for symbol s, in ascending DefId order, resolved to their original
// opaque payloads.
func (m *Map) PublicDefinitions(s SymbolId) []ResolvedDef {
	return m.resolve(m.publicSet(s))
}

// PublicMayBeUnbound reports whether symbol s may be unbound at the
// end of scope.
func (m *Map) PublicMayBeUnbound(s SymbolId) bool {
	return m.publicSet(s).MayBeUnbound()
}

func (m *Map) resolve(set *constraineddefset.Set) []ResolvedDef {
	entries := set.Entries()
	resolved := make([]ResolvedDef, len(entries))
	for i, e := range entries {
		preds := make([]any, len(e.Preds))
		for j, p := range e.Preds {
			preds[j] = m.predicates[p]
		}
		resolved[i] = ResolvedDef{Def: m.definitions[e.Def], Preds: preds}
	}
	return resolved
}

func (m *Map) use(u UseId) *constraineddefset.Set {
	if int(u) < 0 || int(u) >= len(m.perUse) {
		panic(fmt.Sprintf("usedef: unknown use %d (have %d uses)", u, len(m.perUse)))
	}
	return m.perUse[u]
}

func (m *Map) publicSet(s SymbolId) *constraineddefset.Set {
	if int(s) < 0 || int(s) >= len(m.public) {
		panic(fmt.Sprintf("usedef: unknown symbol %d (have %d symbols)", s, len(m.public)))
	}
	return m.public[s]
}
