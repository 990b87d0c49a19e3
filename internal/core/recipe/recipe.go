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

// Package recipe implements SystemRecipe: the mirror AST
// used to build a TransitionSystem tree from components and, later, to
// direct the clock-reduction rewrite.
package recipe

import (
	"github.com/tamc-project/tamc/internal/core/automaton"
	"github.com/tamc-project/tamc/internal/core/decl"
	"github.com/tamc-project/tamc/internal/core/tsys"
)

// Kind discriminates a Recipe node's shape.
type Kind int

const (
	LeafKind Kind = iota
	CompositionKind
	ConjunctionKind
	QuotientKind
)

// Recipe is a SystemRecipe node: a leaf wraps a source-form component, an
// internal node names its operator and two children.
type Recipe struct {
	Kind      Kind
	Component *automaton.Component // LeafKind only
	Left      *Recipe
	Right     *Recipe
}

// Leaf wraps a single component as a recipe leaf.
func Leaf(c *automaton.Component) *Recipe { return &Recipe{Kind: LeafKind, Component: c} }

// Compose, Conjoin, and Quotient build the three internal recipe shapes.
func Compose(left, right *Recipe) *Recipe { return &Recipe{Kind: CompositionKind, Left: left, Right: right} }
func Conjoin(left, right *Recipe) *Recipe { return &Recipe{Kind: ConjunctionKind, Left: left, Right: right} }
func Quotient(left, right *Recipe) *Recipe { return &Recipe{Kind: QuotientKind, Left: left, Right: right} }

// leaves returns this recipe's component leaves, left to right, and the
// number of Quotient nodes anywhere in the tree — exactly what's needed
// to compute the system's global dimension up front.
func (r *Recipe) leaves() (comps []*automaton.Component, quotients int) {
	switch r.Kind {
	case LeafKind:
		return []*automaton.Component{r.Component}, 0
	default:
		lc, lq := r.Left.leaves()
		rc, rq := r.Right.leaves()
		return append(lc, rc...), lq + rq + boolToInt(r.Kind == QuotientKind)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LeftClockCount returns the number of clocks (including any quotient
// clocks) declared by r.Left's leaves, used by a caller that needs to
// split a system's global clock range once Build has produced the
// global table: clocks at index <= this count belong to the left
// operand's half of the range, the rest to the right's.
func (r *Recipe) LeftClockCount() int {
	leftComps, leftQuotients := r.Left.leaves()
	n := 0
	for _, c := range leftComps {
		n += len(c.Decl.Clocks())
	}
	return n + leftQuotients
}

// Build compiles r into a TransitionSystem tree: it first walks the
// recipe to collect every leaf component and count the quotient nodes,
// merges every component's local declarations into one global table
//, allocates one fresh clock
// per quotient node, compiles every leaf against the resulting global
// dimension, and finally assembles the composed nodes bottom-up,
// propagating any construction error (disjoint-IO violation, conjunction
// action-set mismatch) to the caller.
func Build(r *Recipe) (tsys.Node, *decl.Table, error) {
	comps, numQuotients := r.leaves()
	tables := make([]*decl.Table, len(comps))
	for i, c := range comps {
		tables[i] = c.Decl
	}
	global, remap, quotientClocks := decl.MergeTables(tables, numQuotients)
	dim := global.Dim()

	for i, c := range comps {
		c.RemapClocks(remap[i])
	}

	b := &builder{comps: comps, dim: dim, quotientClocks: quotientClocks}
	node, err := b.build(r)
	if err != nil {
		return nil, nil, err
	}
	return node, global, nil
}

type builder struct {
	comps          []*automaton.Component
	nextComp       int
	dim            int
	quotientClocks []decl.ClockIndex
	nextQuotient   int
}

func (b *builder) build(r *Recipe) (tsys.Node, error) {
	switch r.Kind {
	case LeafKind:
		c := b.comps[b.nextComp]
		b.nextComp++
		return tsys.Compile(c, b.dim)
	case CompositionKind:
		left, err := b.build(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.build(r.Right)
		if err != nil {
			return nil, err
		}
		return tsys.NewComposition(left, right)
	case ConjunctionKind:
		left, err := b.build(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.build(r.Right)
		if err != nil {
			return nil, err
		}
		return tsys.NewConjunction(left, right)
	case QuotientKind:
		left, err := b.build(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.build(r.Right)
		if err != nil {
			return nil, err
		}
		q := b.quotientClocks[b.nextQuotient]
		b.nextQuotient++
		return tsys.NewQuotient(left, right, q), nil
	default:
		panic("recipe: unknown Kind")
	}
}
