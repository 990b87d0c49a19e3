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

package recipe

import (
	"testing"

	"github.com/tamc-project/tamc/internal/core/automaton"
	"github.com/tamc-project/tamc/internal/core/decl"
)

// oneClockComponent builds a minimal single-location, single-clock
// component whose sole edge outputs "a" and resets its clock.
func oneClockComponent(name, action string) *automaton.Component {
	d := decl.NewTable()
	x := d.AllocateClock("x")
	return &automaton.Component{
		Name: name,
		Decl: d,
		Locations: []*automaton.Location{
			{Name: "l0"},
		},
		Edges: []*automaton.Edge{
			{ID: name + "/e0", Source: "l0", Target: "l0", Sync: action, SyncKind: automaton.Output,
				Updates: []automaton.Update{{Clock: x, Value: 0}}},
		},
		Initial:       "l0",
		InputActions:  map[string]struct{}{},
		OutputActions: map[string]struct{}{action: {}},
	}
}

func TestBuildLeafDimension(t *testing.T) {
	r := Leaf(oneClockComponent("A", "a"))
	n, global, err := Build(r)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n.Dim() != 2 {
		t.Fatalf("expected dim 2 (ref clock + x), got %d", n.Dim())
	}
	if global.Dim() != 2 {
		t.Fatalf("expected global table dim 2, got %d", global.Dim())
	}
}

func TestBuildCompositionSumsClocksAndDisjointOutputs(t *testing.T) {
	r := Compose(Leaf(oneClockComponent("A", "a")), Leaf(oneClockComponent("B", "b")))
	n, global, err := Build(r)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n.Dim() != 3 {
		t.Fatalf("expected dim 3 (ref + x_A + x_B), got %d", n.Dim())
	}
	if global.Dim() != 3 {
		t.Fatalf("expected global dim 3, got %d", global.Dim())
	}
}

func TestBuildCompositionRejectsOverlappingOutputs(t *testing.T) {
	r := Compose(Leaf(oneClockComponent("A", "shared")), Leaf(oneClockComponent("B", "shared")))
	if _, _, err := Build(r); err == nil {
		t.Fatal("expected construction error for overlapping output actions")
	}
}

func TestQuotientAllocatesFreshClockAndIncrementsDimension(t *testing.T) {
	r := Quotient(Leaf(oneClockComponent("A", "a")), Leaf(oneClockComponent("B", "b")))
	n, global, err := Build(r)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// ref + x_A + x_B + quotient clock.
	if n.Dim() != 4 {
		t.Fatalf("expected dim 4, got %d", n.Dim())
	}
	if global.Dim() != 4 {
		t.Fatalf("expected global dim 4, got %d", global.Dim())
	}
}

func TestLeftClockCount(t *testing.T) {
	left := Leaf(oneClockComponent("A", "a"))
	right := Leaf(oneClockComponent("B", "b"))
	r := Compose(left, right)
	if got := r.LeftClockCount(); got != 1 {
		t.Fatalf("expected left clock count 1, got %d", got)
	}
}
