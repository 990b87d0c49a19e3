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

package automaton

import (
	"testing"

	"github.com/tamc-project/tamc/internal/core/decl"
)

func simpleComponent() *Component {
	d := decl.NewTable()
	x := d.AllocateClock("x")
	return &Component{
		Name: "A",
		Decl: d,
		Locations: []*Location{
			{Name: "l0"},
			{Name: "l1"},
		},
		Edges: []*Edge{
			{ID: "e0", Source: "l0", Target: "l1", Sync: "a", SyncKind: Output,
				Guard: ClockConstraint{Clock: x, Bound: 5, Upper: true}},
		},
		Initial:       "l0",
		InputActions:  map[string]struct{}{},
		OutputActions: map[string]struct{}{"a": {}},
	}
}

func TestValidateAcceptsWellFormedComponent(t *testing.T) {
	c := simpleComponent()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid component, got %v", err)
	}
}

func TestValidateRejectsActionBothInputAndOutput(t *testing.T) {
	c := simpleComponent()
	c.InputActions["a"] = struct{}{}
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for action in both input and output sets")
	}
}

func TestValidateRejectsUnknownInitialLocation(t *testing.T) {
	c := simpleComponent()
	c.Initial = "nope"
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for unknown initial location")
	}
}

func TestValidateRejectsUnknownEdgeEndpoints(t *testing.T) {
	c := simpleComponent()
	c.Edges = append(c.Edges, &Edge{ID: "e1", Source: "l1", Target: "ghost", Sync: "b", SyncKind: Input})
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for edge with unknown target")
	}
}

func TestRemapClocksRewritesGuardsAndUpdates(t *testing.T) {
	c := simpleComponent()
	x, _ := c.Decl.Clock("x")
	c.Edges[0].Updates = []Update{{Clock: x, Value: 0}}

	old2new := map[decl.ClockIndex]decl.ClockIndex{x: 7}
	c.RemapClocks(old2new)

	got := c.Edges[0].Guard.(ClockConstraint).Clock
	if got != 7 {
		t.Fatalf("expected guard clock remapped to 7, got %d", got)
	}
	if c.Edges[0].Updates[0].Clock != 7 {
		t.Fatalf("expected update clock remapped to 7, got %d", c.Edges[0].Updates[0].Clock)
	}
}
