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
	"github.com/tamc-project/tamc/internal/core/decl"
	"github.com/tamc-project/tamc/internal/core/zone"
)

// Quotient is the quotient operator node, constructed
// with a dedicated fresh quotient clock q. spec.md fixes only the
// external contract of this operator (dimension consistency, q never
// merged away, clock-reduction never rewrites q) and leaves the
// internal next() rule for implementers to derive; this module's
// five-case rule is recorded and justified in DESIGN.md.
type Quotient struct {
	composedNode
	q decl.ClockIndex
}

// NewQuotient builds left // right with quotient clock q. Action sets: actions left and right already agree on pass
// through; an action right needs as input but left never produces
// becomes a quotient output (the quotient must supply it); an action
// right can produce as output that left never expects becomes a
// quotient input (the quotient must be willing to accept it) — together
// these make "quotient composed with right refine left".
func NewQuotient(left, right Node, q decl.ClockIndex) *Quotient {
	if left.Dim() != right.Dim() {
		panic("tsys: quotient operands have mismatched dimension")
	}
	newInputs := subtractSet(right.InputActions(), unionSet(left.InputActions(), left.OutputActions()))
	newOutputsFromRight := subtractSet(right.OutputActions(), unionSet(left.InputActions(), left.OutputActions()))
	outputs := unionSet(subtractSet(left.OutputActions(), right.OutputActions()), newInputs)
	inputs := unionSet(intersectSet(left.InputActions(), right.InputActions()), newOutputsFromRight)

	qt := &Quotient{q: q}
	qt.composedNode = composedNode{
		left: left, right: right, kind: QuotientKind, dim: left.Dim(),
		inputs: inputs, outputs: outputs,
		composeInv: qt.composeInv,
	}
	return qt
}

// composeInv implements the invariant rule spec.md §4.4 leaves to the
// operator's own definition: a normal (left,right) pair inherits left's
// invariant (so that quotient-composed-with-right reconstructs exactly
// left's invariant by intersection, mirroring composition's rule);
// pseudo-locations carry no invariant.
func (qt *Quotient) composeInv(left, right *LocationTree) zone.Zone {
	if left.ID.Kind == Universal || left.ID.Kind == Inconsistent {
		return zone.NewUniverse(qt.dim)
	}
	return left.Invariant
}

func (qt *Quotient) universalLoc(right *LocationTree) *LocationTree {
	u := &LocationTree{ID: NewUniversal(), Invariant: zone.NewUniverse(qt.dim)}
	return qt.composedLocation(u, right)
}

func (qt *Quotient) InitialLocation() *LocationTree              { return qt.initialLocation() }
func (qt *Quotient) AllLocations() []*LocationTree                { return qt.allLocations(qt) }
func (qt *Quotient) InitialState() (*LocationTree, zone.Zone, bool) { return qt.initialState() }
func (qt *Quotient) CheckDeterminism() *DeterminismConflict        { return checkDeterminismComposed(&qt.composedNode) }
func (qt *Quotient) CheckLocalConsistency() *ConsistencyFailure    { return checkLocalConsistencyComposed(&qt.composedNode) }

// LocalMaxBounds follows spec.md §9's resolution for the open question
// on Universal/Inconsistent pseudo-locations: when loc or its left part
// is one of them, the result is an empty bounds table of the current
// dimension, with no contribution from the right operand; otherwise the
// two operands' bounds are joined.
func (qt *Quotient) LocalMaxBounds(loc *LocationTree) zone.Bounds {
	if loc.ID.Kind == Universal || loc.ID.Kind == Inconsistent || loc.Left.ID.Kind == Universal || loc.Left.ID.Kind == Inconsistent {
		return zone.EmptyBounds(qt.dim)
	}
	return localMaxBoundsComposed(&qt.composedNode, loc)
}

// NextTransitions implements the five disjoint cases spec.md §4.4 names.
func (qt *Quotient) NextTransitions(loc *LocationTree, action string) []Transition {
	if loc.Left.ID.Kind == Universal {
		// Case 5: once in the universal escape, any action right can
		// take keeps us there, self-resetting q so the escape's delay
		// budget never accumulates.
		var out []Transition
		for _, tr := range qt.right.NextTransitions(loc.Right, action) {
			out = append(out, Transition{
				Guard:   tr.Guard,
				Updates: append(append([]Reset(nil), tr.Updates...), Reset{Clock: qt.q, Value: 0}),
				Target:  qt.universalLoc(tr.Target),
				ID:      "universal:" + tr.ID,
			})
		}
		return out
	}

	_, inL := qt.left.Actions()[action]
	_, inR := qt.right.Actions()[action]
	_, isNewInput := qt.newInputs()[action]

	switch {
	case isNewInput:
		// Case 4: right needs an input left never produces; the
		// quotient supplies it autonomously, resetting q.
		var out []Transition
		for _, tr := range qt.right.NextTransitions(loc.Right, action) {
			t := liftRight(tr, loc.Left, QuotientKind)
			t.Updates = append(append([]Reset(nil), t.Updates...), Reset{Clock: qt.q, Value: 0})
			out = append(out, t)
		}
		return out
	case inL && inR:
		// Case 3: synchronized on both sides, same as composition's
		// pairwise combine; reset q whenever right's side is an output
		// (the quotient was only waiting as long as right could).
		var out []Transition
		_, rightIsOutput := qt.right.OutputActions()[action]
		for _, tl := range qt.left.NextTransitions(loc.Left, action) {
			for _, tr := range qt.right.NextTransitions(loc.Right, action) {
				t := tl.Combine(tr, QuotientKind)
				if rightIsOutput {
					t.Updates = append(t.Updates, Reset{Clock: qt.q, Value: 0})
				}
				out = append(out, t)
			}
		}
		return out
	case inL:
		// Case 1: present in left only, q unaffected.
		var out []Transition
		for _, tl := range qt.left.NextTransitions(loc.Left, action) {
			out = append(out, liftLeft(tl, loc.Right, QuotientKind))
		}
		return out
	case inR:
		// Case 2: present in right only; reset q if right's action here
		// is an output (same delay-budget contract as case 3).
		var out []Transition
		_, rightIsOutput := qt.right.OutputActions()[action]
		for _, tr := range qt.right.NextTransitions(loc.Right, action) {
			t := liftRight(tr, loc.Left, QuotientKind)
			if rightIsOutput {
				t.Updates = append(t.Updates, Reset{Clock: qt.q, Value: 0})
			}
			out = append(out, t)
		}
		return out
	default:
		return nil
	}
}

func (qt *Quotient) newInputs() ActionSet {
	return subtractSet(qt.right.InputActions(), unionSet(qt.left.InputActions(), qt.left.OutputActions()))
}

// RemoveClocks overrides composedNode's to enforce spec.md §4.4's fixed
// external contract that q is never merged or removed: panics if the
// clock-reduction engine ever hands this node an instruction touching q,
// since that would indicate an analysis bug, not bad input.
func (qt *Quotient) RemoveClocks(remove []decl.ClockIndex, srcMask, dstMask []bool) {
	for _, c := range remove {
		if c == qt.q {
			panic("tsys: clock reduction attempted to remove the quotient clock")
		}
	}
	qt.composedNode.RemoveClocks(remove, srcMask, dstMask)
	qt.q = compactIndex(qt.q, srcMask)
}

func (qt *Quotient) ReplaceClocks(old2new map[decl.ClockIndex]decl.ClockIndex) {
	if rep, ok := old2new[qt.q]; ok && rep != qt.q {
		panic("tsys: clock reduction attempted to merge away the quotient clock")
	}
	for from, to := range old2new {
		if to == qt.q && from != qt.q {
			panic("tsys: clock reduction attempted to merge a clock onto the quotient clock")
		}
	}
	qt.composedNode.ReplaceClocks(old2new)
}
