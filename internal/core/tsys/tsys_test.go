// Copyright 2020 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tsys

import (
	"testing"

	"github.com/tamc-project/tamc/internal/core/automaton"
	"github.com/tamc-project/tamc/internal/core/decl"
)

// singleOutputComponent builds a two-location, one-clock component whose
// sole edge fires action on a self-loop-free transition l0 -> l1.
func singleOutputComponent(name, action string, kind automaton.SyncKind) (*automaton.Component, decl.ClockIndex) {
	d := decl.NewTable()
	x := d.AllocateClock("x")
	c := &automaton.Component{
		Name: name,
		Decl: d,
		Locations: []*automaton.Location{
			{Name: "l0"},
			{Name: "l1"},
		},
		Edges: []*automaton.Edge{
			{ID: name + "/e0", Source: "l0", Target: "l1", Sync: action, SyncKind: kind},
		},
		Initial:       "l0",
		InputActions:  map[string]struct{}{},
		OutputActions: map[string]struct{}{},
	}
	if kind == automaton.Input {
		c.InputActions[action] = struct{}{}
	} else {
		c.OutputActions[action] = struct{}{}
	}
	return c, x
}

func compileLeaf(t *testing.T, name, action string, kind automaton.SyncKind) *Leaf {
	t.Helper()
	c, _ := singleOutputComponent(name, action, kind)
	l, err := Compile(c, c.Decl.Dim())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return l
}

func TestCompositionLiftsUnsharedAction(t *testing.T) {
	a := compileLeaf(t, "A", "a", automaton.Output)
	b := compileLeaf(t, "B", "b", automaton.Output)
	comp, err := NewComposition(a, b)
	if err != nil {
		t.Fatalf("NewComposition: %v", err)
	}

	loc := comp.InitialLocation()
	trs := comp.NextTransitions(loc, "a")
	if len(trs) != 1 {
		t.Fatalf("expected exactly one transition on 'a', got %d", len(trs))
	}
	if trs[0].Target.Right.ID.Name != "l0" {
		t.Fatalf("expected B's location to stay at l0, got %v", trs[0].Target.Right.ID)
	}
	if trs[0].Target.Left.ID.Name != "l1" {
		t.Fatalf("expected A's location to move to l1, got %v", trs[0].Target.Left.ID)
	}
}

func TestCompositionSynchronizesSharedAction(t *testing.T) {
	a := compileLeaf(t, "A", "shared", automaton.Output)
	b := compileLeaf(t, "B", "shared", automaton.Input)
	comp, err := NewComposition(a, b)
	if err != nil {
		t.Fatalf("NewComposition: %v", err)
	}
	loc := comp.InitialLocation()
	trs := comp.NextTransitions(loc, "shared")
	if len(trs) != 1 {
		t.Fatalf("expected one synchronized transition, got %d", len(trs))
	}
	if trs[0].Target.Left.ID.Name != "l1" || trs[0].Target.Right.ID.Name != "l1" {
		t.Fatalf("expected both operands to move to l1, got left=%v right=%v",
			trs[0].Target.Left.ID, trs[0].Target.Right.ID)
	}
}

func TestCompositionRejectsOverlappingOutputs(t *testing.T) {
	a := compileLeaf(t, "A", "x", automaton.Output)
	b := compileLeaf(t, "B", "x", automaton.Output)
	if _, err := NewComposition(a, b); err == nil {
		t.Fatal("expected construction error for overlapping output action sets")
	}
}

func TestConjunctionRequiresMatchingActionSets(t *testing.T) {
	a := compileLeaf(t, "A", "a", automaton.Output)
	b := compileLeaf(t, "B", "b", automaton.Output)
	if _, err := NewConjunction(a, b); err == nil {
		t.Fatal("expected construction error for mismatched action sets")
	}
}

func TestConjunctionPairwiseCombinesOnSharedAction(t *testing.T) {
	a := compileLeaf(t, "A", "a", automaton.Output)
	b := compileLeaf(t, "B", "a", automaton.Output)
	conj, err := NewConjunction(a, b)
	if err != nil {
		t.Fatalf("NewConjunction: %v", err)
	}
	loc := conj.InitialLocation()
	trs := conj.NextTransitions(loc, "a")
	if len(trs) != 1 {
		t.Fatalf("expected one combined transition, got %d", len(trs))
	}
	if trs[0].Target.Left.ID.Name != "l1" || trs[0].Target.Right.ID.Name != "l1" {
		t.Fatalf("expected both operands to move to l1, got left=%v right=%v",
			trs[0].Target.Left.ID, trs[0].Target.Right.ID)
	}
}

func TestConjunctionNoTransitionWhenEitherSideLacksAction(t *testing.T) {
	a := compileLeaf(t, "A", "a", automaton.Output)
	b := compileLeaf(t, "B", "a", automaton.Output)
	conj, err := NewConjunction(a, b)
	if err != nil {
		t.Fatalf("NewConjunction: %v", err)
	}
	loc := conj.InitialLocation()
	if trs := conj.NextTransitions(loc, "nonexistent"); len(trs) != 0 {
		t.Fatalf("expected no transitions for an action neither side has, got %d", len(trs))
	}
	// Right operand already at l1, where it has no edge on "a" while the
	// left operand at l0 still has one.
	right := b.GetLocation(NewSimple("l1"))
	mixed := &LocationTree{ID: Compose(loc.Left.ID, right.ID, Conjunction), Left: loc.Left, Right: right}
	if trs := conj.NextTransitions(mixed, "a"); len(trs) != 0 {
		t.Fatalf("expected no transitions when only one side has an edge on 'a', got %d", len(trs))
	}
}

func TestCheckDeterminismDetectsOverlappingGuards(t *testing.T) {
	d := decl.NewTable()
	x := d.AllocateClock("x")
	c := &automaton.Component{
		Name: "A",
		Decl: d,
		Locations: []*automaton.Location{
			{Name: "l0"}, {Name: "l1"}, {Name: "l2"},
		},
		Edges: []*automaton.Edge{
			{ID: "e0", Source: "l0", Target: "l1", Sync: "a", SyncKind: automaton.Output,
				Guard: automaton.ClockConstraint{Clock: x, Bound: 10, Upper: true}},
			{ID: "e1", Source: "l0", Target: "l2", Sync: "a", SyncKind: automaton.Output,
				Guard: automaton.ClockConstraint{Clock: x, Bound: 5, Upper: true}},
		},
		Initial:       "l0",
		InputActions:  map[string]struct{}{},
		OutputActions: map[string]struct{}{"a": {}},
	}
	l, err := Compile(c, c.Decl.Dim())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	conflict := l.CheckDeterminism()
	if conflict == nil {
		t.Fatal("expected a determinism conflict: both edges' guards (x<=10, x<=5) overlap below 5")
	}
	if conflict.Action != "a" {
		t.Fatalf("expected conflict on action 'a', got %q", conflict.Action)
	}
}

func TestCheckDeterminismAcceptsDisjointGuards(t *testing.T) {
	d := decl.NewTable()
	x := d.AllocateClock("x")
	c := &automaton.Component{
		Name: "A",
		Decl: d,
		Locations: []*automaton.Location{
			{Name: "l0"}, {Name: "l1"}, {Name: "l2"},
		},
		Edges: []*automaton.Edge{
			{ID: "e0", Source: "l0", Target: "l1", Sync: "a", SyncKind: automaton.Output,
				Guard: automaton.ClockConstraint{Clock: x, Bound: 5, Strict: true, Upper: true}},
			{ID: "e1", Source: "l0", Target: "l2", Sync: "a", SyncKind: automaton.Output,
				Guard: automaton.ClockConstraint{Clock: x, Bound: 5, Strict: false, Upper: false}},
		},
		Initial:       "l0",
		InputActions:  map[string]struct{}{},
		OutputActions: map[string]struct{}{"a": {}},
	}
	l, err := Compile(c, c.Decl.Dim())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if conflict := l.CheckDeterminism(); conflict != nil {
		t.Fatalf("expected no conflict for disjoint guards x<5 and x>=5, got %+v", conflict)
	}
}

func TestQuotientDimensionTracksOperandDim(t *testing.T) {
	// recipe.Build is what actually inflates the global dimension by one
	// for the quotient clock before compiling any leaf; NewQuotient
	// itself just carries whatever dimension its operands were already
	// compiled against.
	a := compileLeaf(t, "A", "a", automaton.Output)
	b := compileLeaf(t, "B", "b", automaton.Output)
	q := NewQuotient(a, b, decl.ClockIndex(99))
	if q.Dim() != a.Dim() {
		t.Fatalf("expected quotient dim to match operand dim %d, got %d", a.Dim(), q.Dim())
	}
}
