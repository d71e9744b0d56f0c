// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraineddefset

import (
	"reflect"
	"testing"
)

func entryDefs(entries []Entry) []int {
	defs := make([]int, len(entries))
	for i, e := range entries {
		defs[i] = e.Def
	}
	return defs
}

func TestUnbound(t *testing.T) {
	s := Unbound()
	if !s.MayBeUnbound() {
		t.Error("Unbound().MayBeUnbound() = false, want true")
	}
	if len(s.Entries()) != 0 {
		t.Errorf("Unbound().Entries() = %v, want empty", s.Entries())
	}
}

func TestWith(t *testing.T) {
	s := With(7)
	if s.MayBeUnbound() {
		t.Error("With(7).MayBeUnbound() = true, want false")
	}
	entries := s.Entries()
	if len(entries) != 1 || entries[0].Def != 7 || len(entries[0].Preds) != 0 {
		t.Errorf("With(7).Entries() = %v, want [{7 []}]", entries)
	}
}

func TestAddPredicateAffectsAllCurrentDefs(t *testing.T) {
	s := With(1)
	s.AddPredicate(100)
	entries := s.Entries()
	if len(entries) != 1 || !reflect.DeepEqual(entries[0].Preds, []int{100}) {
		t.Errorf("Entries() = %v, want preds [100] on def 1", entries)
	}
}

func TestMergeDefsOnlyInOneSideCopyPredsVerbatim(t *testing.T) {
	a := With(1)
	a.AddPredicate(100)
	b := With(2)

	merged := Merge(a, b)
	entries := merged.Entries()
	if !reflect.DeepEqual(entryDefs(entries), []int{1, 2}) {
		t.Fatalf("Merge defs = %v, want [1 2]", entryDefs(entries))
	}
	if !reflect.DeepEqual(entries[0].Preds, []int{100}) {
		t.Errorf("def 1 preds = %v, want [100]", entries[0].Preds)
	}
	if len(entries[1].Preds) != 0 {
		t.Errorf("def 2 preds = %v, want []", entries[1].Preds)
	}
}

func TestMergeDefInBothSidesIntersectsPredicates(t *testing.T) {
	a := With(5)
	a.AddPredicate(100)
	b := With(5)
	b.AddPredicate(200)

	merged := Merge(a, b)
	entries := merged.Entries()
	if len(entries) != 1 || entries[0].Def != 5 {
		t.Fatalf("Merge entries = %v, want single def 5", entries)
	}
	if len(entries[0].Preds) != 0 {
		t.Errorf("intersecting disjoint predicate sets should yield empty, got %v", entries[0].Preds)
	}

	// Both arms recording the same predicate: intersection keeps it.
	a2 := With(5)
	a2.AddPredicate(100)
	b2 := With(5)
	b2.AddPredicate(100)
	merged2 := Merge(a2, b2)
	entries2 := merged2.Entries()
	if !reflect.DeepEqual(entries2[0].Preds, []int{100}) {
		t.Errorf("shared predicate should survive intersection, got %v", entries2[0].Preds)
	}
}

func TestMergeMayBeUnboundIsOr(t *testing.T) {
	cases := []struct {
		a, b, want bool
	}{
		{false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, true},
	}
	for _, c := range cases {
		a := With(1)
		if c.a {
			a.AddUnbound()
		}
		b := With(1)
		if c.b {
			b.AddUnbound()
		}
		if got := Merge(a, b).MayBeUnbound(); got != c.want {
			t.Errorf("Merge(a=%v, b=%v).MayBeUnbound() = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestMergeCommutative(t *testing.T) {
	a := With(1)
	a.AddPredicate(1)
	b := With(2)
	b.AddPredicate(2)
	b.AddUnbound()

	ab := Merge(a, b)
	ba := Merge(b, a)

	if !reflect.DeepEqual(ab.Entries(), ba.Entries()) {
		t.Errorf("Merge not commutative: a,b=%v b,a=%v", ab.Entries(), ba.Entries())
	}
	if ab.MayBeUnbound() != ba.MayBeUnbound() {
		t.Error("Merge unbound flag not commutative")
	}
}

func TestMergeIdempotentOnEqualOperands(t *testing.T) {
	a := With(1)
	a.AddPredicate(9)
	merged := Merge(a, a)
	if !reflect.DeepEqual(merged.Entries(), a.Entries()) || merged.MayBeUnbound() != a.MayBeUnbound() {
		t.Errorf("Merge(a, a) = %v, want %v", merged.Entries(), a.Entries())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := With(1)
	b := a.Clone()
	b.AddPredicate(5)
	b.AddUnbound()

	if a.MayBeUnbound() {
		t.Error("mutating clone affected original's unbound flag")
	}
	if len(a.Entries()[0].Preds) != 0 {
		t.Error("mutating clone affected original's predicates")
	}
}

func TestCardinalityInvariant(t *testing.T) {
	s := With(1)
	s.AddPredicate(1)
	o := With(2)
	merged := Merge(s, o)
	// The defs/preds pairing is implicit in Entries(); assert the raw
	// container lengths line up too.
	if got, want := merged.predsPerDef.Len(), merged.defs.Len(); got != want {
		t.Errorf("predsPerDef.Len()=%d, defs.Len()=%d, want equal", got, want)
	}
	if got, want := len(merged.Entries()), merged.defs.Len(); got != want {
		t.Errorf("len(Entries())=%d, defs.Len()=%d, want equal", got, want)
	}
}
