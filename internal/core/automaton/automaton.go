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

// Package automaton holds the source form of a timed-automaton component:
// named locations, an initial location, typed input/output actions,
// declarations, and edges carrying guards and updates. A ComponentLoader
// is expected to populate these types from a JSON or XML project; this
// package only defines the shapes and the guard/invariant expression
// language they're built from.
package automaton

import (
	"github.com/tamc-project/tamc/internal/core/decl"
	"github.com/tamc-project/tamc/token"
)

// SyncKind distinguishes an edge's synchronization direction.
type SyncKind int

const (
	Input SyncKind = iota
	Output
)

func (k SyncKind) String() string {
	if k == Output {
		return "output"
	}
	return "input"
}

// LocationType distinguishes ordinary locations from the two pseudo-
// location kinds a quotient construction introduces.
type LocationType int

const (
	Normal LocationType = iota
	Initial
	Universal
	Inconsistent
)

// Expr is a clock-constraint expression: a conjunction/disjunction tree
// whose leaves are ClockConstraints. A nil Expr means "true"
// (no constraint, i.e. the zone universe).
type Expr interface {
	isExpr()
}

// ClockConstraint is a leaf comparing a clock against a constant: either
// an upper bound (clock <= Bound, or < if Strict) or a lower bound
// (clock >= Bound, or > if Strict).
type ClockConstraint struct {
	Clock  decl.ClockIndex
	Bound  int32
	Strict bool
	Upper  bool
}

func (ClockConstraint) isExpr() {}

// And is a conjunction of two sub-expressions.
type And struct{ Left, Right Expr }

func (And) isExpr() {}

// Or is a disjunction of two sub-expressions.
type Or struct{ Left, Right Expr }

func (Or) isExpr() {}

// Update is an edge reset: the clock is assigned the constant Value.
type Update struct {
	Clock decl.ClockIndex
	Value int32
}

// Edge is a single transition in the source form: source, target,
// sync action, sync kind, guard, and updates.
type Edge struct {
	ID       string
	Source   string
	Target   string
	Sync     string
	SyncKind SyncKind
	Guard    Expr // nil means "true"
	Updates  []Update
	Pos      token.Pos
}

// Location is a named automaton state with an optional invariant and an
// urgency tag.
type Location struct {
	Name      string
	Invariant Expr // nil means "true"
	Type      LocationType
	Urgent    bool
	Pos       token.Pos
}

// Component is the source form of a single timed automaton.
type Component struct {
	Name          string
	Decl          *decl.Table
	Locations     []*Location
	Edges         []*Edge
	Initial       string
	InputActions  map[string]struct{}
	OutputActions map[string]struct{}
}

// LocationByName looks up a declared location, or nil if unknown.
func (c *Component) LocationByName(name string) *Location {
	for _, l := range c.Locations {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// EdgesFrom returns all edges whose source is name, in declaration order.
func (c *Component) EdgesFrom(name string) []*Edge {
	var out []*Edge
	for _, e := range c.Edges {
		if e.Source == name {
			out = append(out, e)
		}
	}
	return out
}

// RemapClocks rewrites every clock index appearing in c's invariants,
// guards, and updates according to old2new, and replaces c's declaration
// table's own indices to match (decl.Table.ReplaceClocks). Used once, at
// SystemRecipe construction time, to move a component from its own local
// clock numbering into the system-wide flat index space every leaf shares.
func (c *Component) RemapClocks(old2new map[decl.ClockIndex]decl.ClockIndex) {
	for _, l := range c.Locations {
		l.Invariant = remapExpr(l.Invariant, old2new)
	}
	for _, e := range c.Edges {
		e.Guard = remapExpr(e.Guard, old2new)
		for i := range e.Updates {
			e.Updates[i].Clock = remapIndex(e.Updates[i].Clock, old2new)
		}
	}
	c.Decl.ReplaceClocks(old2new)
}

func remapIndex(idx decl.ClockIndex, m map[decl.ClockIndex]decl.ClockIndex) decl.ClockIndex {
	if n, ok := m[idx]; ok {
		return n
	}
	return idx
}

func remapExpr(e Expr, m map[decl.ClockIndex]decl.ClockIndex) Expr {
	switch x := e.(type) {
	case nil:
		return nil
	case ClockConstraint:
		x.Clock = remapIndex(x.Clock, m)
		return x
	case And:
		return And{Left: remapExpr(x.Left, m), Right: remapExpr(x.Right, m)}
	case Or:
		return Or{Left: remapExpr(x.Left, m), Right: remapExpr(x.Right, m)}
	default:
		panic("automaton: remapExpr: unknown Expr variant")
	}
}
