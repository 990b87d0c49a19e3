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

// Package tsys implements the TransitionSystem tree: the
// compiled leaf (CompiledComponent) and the three composition operators
// (Composition, Conjunction, Quotient) over it, sharing a uniform
// interface for actions, locations, the successor relation, bounds, and
// the consistency/determinism checks.
package tsys

import (
	"fmt"
	"strings"

	"github.com/tamc-project/tamc/internal/core/zone"
)

// Kind discriminates the sum-type shape of a LocationID.
type Kind int

const (
	Simple Kind = iota
	Composition
	Conjunction
	QuotientKind
	Universal
	Inconsistent
	AnyLocation
)

// LocationID identifies a location anywhere in the transition-system
// tree. Composed kinds recurse into Left/Right; Simple
// carries a Name; Universal/Inconsistent/AnyLocation carry neither.
type LocationID struct {
	Kind  Kind
	Name  string
	Left  *LocationID
	Right *LocationID
}

// NewSimple returns the LocationID of a named leaf location.
func NewSimple(name string) LocationID { return LocationID{Kind: Simple, Name: name} }

// NewUniversal, NewInconsistent, and NewAnyLocation are the three
// pseudo-locations spec.md §3 names.
func NewUniversal() LocationID    { return LocationID{Kind: Universal} }
func NewInconsistent() LocationID { return LocationID{Kind: Inconsistent} }
func NewAnyLocation() LocationID  { return LocationID{Kind: AnyLocation} }

// Compose builds the LocationID for the given composition kind over two
// operand locations (spec.md §3 "LocationTree... compose(left,right,kind)
// forming the correct ID").
func Compose(left, right LocationID, kind Kind) LocationID {
	if kind != Composition && kind != Conjunction && kind != QuotientKind {
		panic("tsys: Compose requires a composed Kind")
	}
	l, r := left, right
	return LocationID{Kind: kind, Left: &l, Right: &r}
}

// Key returns a canonical string uniquely identifying the LocationID,
// used as a map/visited-set key by the BFS work-queues spec.md §9 calls
// for ("traversals use explicit work-queues keyed by location ID plus a
// visited-set").
func (id LocationID) Key() string {
	var b strings.Builder
	id.writeKey(&b)
	return b.String()
}

func (id LocationID) writeKey(b *strings.Builder) {
	switch id.Kind {
	case Simple:
		b.WriteString("S:")
		b.WriteString(id.Name)
	case Composition:
		b.WriteString("C(")
		id.Left.writeKey(b)
		b.WriteByte(',')
		id.Right.writeKey(b)
		b.WriteByte(')')
	case Conjunction:
		b.WriteString("J(")
		id.Left.writeKey(b)
		b.WriteByte(',')
		id.Right.writeKey(b)
		b.WriteByte(')')
	case QuotientKind:
		b.WriteString("Q(")
		id.Left.writeKey(b)
		b.WriteByte(',')
		id.Right.writeKey(b)
		b.WriteByte(')')
	case Universal:
		b.WriteString("U")
	case Inconsistent:
		b.WriteString("I")
	case AnyLocation:
		b.WriteString("*")
	}
}

func (id LocationID) String() string { return id.Key() }

// Equal reports whether id and other denote the same location.
func (id LocationID) Equal(other LocationID) bool { return id.Key() == other.Key() }

// LocationTree mirrors the shape of LocationID but carries the composed
// invariant federation at every node, plus the urgency tag: a composed
// location is urgent if either operand is (an urgent location forbids
// time from passing while control sits there, so the moment one operand
// refuses a delay the composed state does too).
type LocationTree struct {
	ID        LocationID
	Invariant zone.Zone
	Urgent    bool
	Left      *LocationTree
	Right     *LocationTree
}

// composeInvariant combines two operand invariants under the given
// composition kind. Composition and conjunction both intersect; quotient
// follows left alone, except once left has fallen into the universal
// escape or gone inconsistent, where it opens up to the universe (the
// same rule Quotient.composeInv uses for locations built through the
// quotient's own constructor).
func composeInvariant(left, right *LocationTree, kind Kind) zone.Zone {
	switch kind {
	case Composition, Conjunction:
		return left.Invariant.Intersect(right.Invariant)
	case QuotientKind:
		if left.ID.Kind == Universal || left.ID.Kind == Inconsistent {
			return zone.NewUniverse(right.Invariant.Dim)
		}
		return left.Invariant
	default:
		panic(fmt.Sprintf("tsys: composeInvariant called with kind %v", kind))
	}
}

// ComposeTrees builds the composed LocationTree for any of the three
// composition kinds.
func ComposeTrees(left, right *LocationTree, kind Kind) *LocationTree {
	return &LocationTree{
		ID:        Compose(left.ID, right.ID, kind),
		Invariant: composeInvariant(left, right, kind),
		Urgent:    left.Urgent || right.Urgent,
		Left:      left,
		Right:     right,
	}
}
