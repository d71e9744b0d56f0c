// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowstate

import (
	"reflect"
	"testing"
)

func defsOf(t *testing.T, s *State, symbol int) []int {
	t.Helper()
	entries := s.Get(symbol).Entries()
	defs := make([]int, len(entries))
	for i, e := range entries {
		defs[i] = e.Def
	}
	return defs
}

// TestSequentialShadowing checks that a straight-line later
// assignment shadows an earlier one completely.
func TestSequentialShadowing(t *testing.T) {
	s := New()
	x := s.AddSymbol()
	s.RecordDefinition(x, 1) // d1
	s.RecordDefinition(x, 2) // d2

	got := s.Get(x)
	if !reflect.DeepEqual(defsOf(t, s, x), []int{2}) {
		t.Errorf("defs = %v, want [2]", defsOf(t, s, x))
	}
	if got.MayBeUnbound() {
		t.Error("MayBeUnbound() = true, want false")
	}
}

// TestIfElseJoin checks that a use after a two-way branch sees the
// definitions from both arms, neither shadowing the other.
func TestIfElseJoin(t *testing.T) {
	s := New()
	x := s.AddSymbol()
	s.RecordDefinition(x, 1) // d1
	s0 := s.Snapshot()
	s.RecordDefinition(x, 2) // d2
	s1 := s.Snapshot()
	s.Restore(s0)
	s.RecordDefinition(x, 3) // d3
	s.Merge(s1)

	defs := defsOf(t, s, x)
	want := []int{2, 3}
	if !reflect.DeepEqual(defs, want) {
		t.Errorf("defs = %v, want %v", defs, want)
	}
	if s.Get(x).MayBeUnbound() {
		t.Error("MayBeUnbound() = true, want false")
	}
	for _, e := range s.Get(x).Entries() {
		if len(e.Preds) != 0 {
			t.Errorf("def %d preds = %v, want empty", e.Def, e.Preds)
		}
	}
}

// TestPossiblyUnbound checks that joining against a path with no
// definition marks the symbol possibly unbound while keeping the
// definition from the other path.
func TestPossiblyUnbound(t *testing.T) {
	s := New()
	x := s.AddSymbol()
	s0 := s.Snapshot()
	s.RecordDefinition(x, 1) // d1
	s.Merge(s0)

	if !reflect.DeepEqual(defsOf(t, s, x), []int{1}) {
		t.Errorf("defs = %v, want [1]", defsOf(t, s, x))
	}
	if !s.Get(x).MayBeUnbound() {
		t.Error("MayBeUnbound() = false, want true")
	}
}

// TestNarrowingPredicateOnNewDefinitions checks that a predicate
// recorded before branching does not apply to definitions made fresh
// along each arm, because RecordDefinition replaces the constrained
// set wholesale.
func TestNarrowingPredicateOnNewDefinitions(t *testing.T) {
	s := New()
	x := s.AddSymbol()
	s.RecordDefinition(x, 0) // d0
	s.RecordPredicate(100)   // p_type
	s0 := s.Snapshot()
	s.RecordDefinition(x, 1) // d1
	s1 := s.Snapshot()
	s.Restore(s0)
	s.RecordDefinition(x, 2) // d2
	s.Merge(s1)

	defs := defsOf(t, s, x)
	if !reflect.DeepEqual(defs, []int{1, 2}) {
		t.Fatalf("defs = %v, want [1 2]", defs)
	}
	for _, e := range s.Get(x).Entries() {
		if len(e.Preds) != 0 {
			t.Errorf("def %d preds = %v, want empty", e.Def, e.Preds)
		}
	}
}

// TestNarrowingPredicateAppliesToPreexistingDefinition checks the
// join rule for predicates on a definition both arms share: only
// predicates recorded on every incoming path survive the merge.
func TestNarrowingPredicateAppliesToPreexistingDefinition(t *testing.T) {
	s := New()
	x := s.AddSymbol()
	s.RecordDefinition(x, 0) // d0
	s0 := s.Snapshot()
	s.RecordPredicate(1) // p
	s1 := s.Snapshot()
	s.Restore(s0)
	s.Merge(s1)

	entries := s.Get(x).Entries()
	if len(entries) != 1 || entries[0].Def != 0 {
		t.Fatalf("entries = %v, want single def 0", entries)
	}
	if len(entries[0].Preds) != 0 {
		t.Errorf("preds = %v, want empty (p only constrains one path)", entries[0].Preds)
	}

	// If both arms record p, the intersection keeps it.
	s2 := New()
	y := s2.AddSymbol()
	s2.RecordDefinition(y, 0)
	s2.RecordPredicate(1)
	sBefore := s2.Snapshot()
	s2.RecordPredicate(1) // recorded again on this arm too
	sAfter := s2.Snapshot()
	s2.Restore(sBefore)
	s2.Merge(sAfter)

	entries2 := s2.Get(y).Entries()
	if len(entries2) != 1 || !reflect.DeepEqual(entries2[0].Preds, []int{1}) {
		t.Errorf("entries = %v, want def 0 with preds [1]", entries2)
	}
}

func TestRestoreRefillsNewerSymbolsAsUnbound(t *testing.T) {
	s := New()
	x := s.AddSymbol()
	s.RecordDefinition(x, 1)
	snap := s.Snapshot()

	y := s.AddSymbol()
	s.RecordDefinition(y, 2)

	s.Restore(snap)

	if got := s.Get(x).Entries(); len(got) != 1 || got[0].Def != 1 {
		t.Errorf("x entries = %v, want [{1 []}]", got)
	}
	if !s.Get(y).MayBeUnbound() || len(s.Get(y).Entries()) != 0 {
		t.Errorf("y should be reset to Unbound after restore, got entries=%v unbound=%v",
			s.Get(y).Entries(), s.Get(y).MayBeUnbound())
	}
}

func TestSnapshotRestoreRoundTripIsIdentity(t *testing.T) {
	s := New()
	x := s.AddSymbol()
	s.RecordDefinition(x, 1)
	s.RecordPredicate(9)
	before := s.Get(x).Entries()

	snap := s.Snapshot()
	s.Restore(snap)

	after := s.Get(x).Entries()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("snapshot/restore round trip changed state: before=%v after=%v", before, after)
	}
}

func TestMergeAbsentSymbolJoinsAgainstUnbound(t *testing.T) {
	s := New()
	x := s.AddSymbol()
	s.RecordDefinition(x, 1)
	snap := s.Snapshot() // snap holds only symbol x

	y := s.AddSymbol()
	s.RecordDefinition(y, 2)
	s.Merge(snap)

	if !s.Get(y).MayBeUnbound() {
		t.Error("symbol absent from snapshot should become MayBeUnbound after Merge")
	}
	if got := s.Get(y).Entries(); len(got) != 1 || got[0].Def != 2 {
		t.Errorf("y entries = %v, want def 2 preserved", got)
	}
}

func TestRestoreWithTooManySymbolsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Restore with an over-large snapshot did not panic")
		}
	}()
	s := New()
	s.AddSymbol()
	s.AddSymbol()
	snap := s.Snapshot()

	smaller := New()
	smaller.AddSymbol()
	smaller.Restore(snap)
}

func TestGetUnknownSymbolPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Get with an unassigned symbol did not panic")
		}
	}()
	New().Get(0)
}
