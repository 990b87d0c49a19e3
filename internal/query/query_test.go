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

package query

import (
	"testing"

	"github.com/tamc-project/tamc/internal/core/automaton"
	"github.com/tamc-project/tamc/internal/core/decl"
	"github.com/tamc-project/tamc/internal/core/recipe"
)

func alwaysOutputComponent(name, action string) *automaton.Component {
	d := decl.NewTable()
	return &automaton.Component{
		Name: name,
		Decl: d,
		Locations: []*automaton.Location{
			{Name: "l0"},
		},
		Edges: []*automaton.Edge{
			{ID: name + "/e0", Source: "l0", Target: "l0", Sync: action, SyncKind: automaton.Output},
		},
		Initial:       "l0",
		InputActions:  map[string]struct{}{},
		OutputActions: map[string]struct{}{action: {}},
	}
}

func TestBuildSurfacesConstructionErrorAsModelError(t *testing.T) {
	a := alwaysOutputComponent("A", "shared")
	b := alwaysOutputComponent("B", "shared")
	_, _, res := Build(recipe.Compose(recipe.Leaf(a), recipe.Leaf(b)))
	if res.Outcome != ModelError {
		t.Fatalf("expected ModelError for overlapping output actions, got %v", res.Outcome)
	}
}

func TestConsistencySucceedsWhenOutputAlwaysEnabled(t *testing.T) {
	n, _, res := Build(recipe.Leaf(alwaysOutputComponent("A", "a")))
	if res.Outcome != Success {
		t.Fatalf("Build: %+v", res)
	}
	if got := Consistency(n); got.Outcome != Success {
		t.Fatalf("expected consistency success, got %+v", got)
	}
}

func TestDeterminismSucceedsWithNoConflictingEdges(t *testing.T) {
	n, _, res := Build(recipe.Leaf(alwaysOutputComponent("A", "a")))
	if res.Outcome != Success {
		t.Fatalf("Build: %+v", res)
	}
	if got := Determinism(n); got.Outcome != Success {
		t.Fatalf("expected determinism success, got %+v", got)
	}
}

func TestDeterminismReportsConflict(t *testing.T) {
	d := decl.NewTable()
	c := &automaton.Component{
		Name: "A",
		Decl: d,
		Locations: []*automaton.Location{
			{Name: "l0"}, {Name: "l1"}, {Name: "l2"},
		},
		Edges: []*automaton.Edge{
			{ID: "e0", Source: "l0", Target: "l1", Sync: "a", SyncKind: automaton.Output},
			{ID: "e1", Source: "l0", Target: "l2", Sync: "a", SyncKind: automaton.Output},
		},
		Initial:       "l0",
		InputActions:  map[string]struct{}{},
		OutputActions: map[string]struct{}{"a": {}},
	}
	n, _, res := Build(recipe.Leaf(c))
	if res.Outcome != Success {
		t.Fatalf("Build: %+v", res)
	}
	got := Determinism(n)
	if got.Outcome != PropertyFailed || got.Kind != "determinism" {
		t.Fatalf("expected a determinism PropertyFailed, got %+v", got)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{Success: "Success", PropertyFailed: "PropertyFailed", ModelError: "ModelError"}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Fatalf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
}
