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
	"github.com/tamc-project/tamc/errors"
	"github.com/tamc-project/tamc/internal/core/zone"
	"github.com/tamc-project/tamc/token"
)

// Comp is the parallel-composition operator node.
type Comp struct{ composedNode }

// NewComposition builds the composition of left and right, enforcing the
// operand constraint that their output action sets are disjoint.
func NewComposition(left, right Node) (*Comp, error) {
	if left.Dim() != right.Dim() {
		panic("tsys: composition operands have mismatched dimension")
	}
	if overlap := intersectSet(left.OutputActions(), right.OutputActions()); len(overlap) > 0 {
		return nil, errors.New(errors.ConstructionError, token.NoPos, nil,
			"composition: output action sets overlap: %s", sortedNames(overlap))
	}
	outputs := unionSet(left.OutputActions(), right.OutputActions())
	inputs := subtractSet(unionSet(left.InputActions(), right.InputActions()), outputs)
	return &Comp{composedNode{
		left: left, right: right, kind: Composition, dim: left.Dim(),
		inputs: inputs, outputs: outputs,
		composeInv: func(l, r *LocationTree) zone.Zone { return l.Invariant.Intersect(r.Invariant) },
	}}, nil
}

func (n *Comp) InitialLocation() *LocationTree              { return n.initialLocation() }
func (n *Comp) AllLocations() []*LocationTree                { return n.allLocations(n) }
func (n *Comp) InitialState() (*LocationTree, zone.Zone, bool) { return n.initialState() }
func (n *Comp) LocalMaxBounds(loc *LocationTree) zone.Bounds  { return localMaxBoundsComposed(&n.composedNode, loc) }
func (n *Comp) CheckDeterminism() *DeterminismConflict        { return checkDeterminismComposed(&n.composedNode) }
func (n *Comp) CheckLocalConsistency() *ConsistencyFailure    { return checkLocalConsistencyComposed(&n.composedNode) }

// NextTransitions implements spec.md §4.2: an action present in only one
// child's action set is lifted with the other child's location copied
// unchanged; a shared action synchronizes by pairwise-combining every
// pair of the children's transitions on that action.
func (n *Comp) NextTransitions(loc *LocationTree, action string) []Transition {
	_, inL := n.left.Actions()[action]
	_, inR := n.right.Actions()[action]
	switch {
	case inL && inR:
		var out []Transition
		for _, tl := range n.left.NextTransitions(loc.Left, action) {
			for _, tr := range n.right.NextTransitions(loc.Right, action) {
				out = append(out, tl.Combine(tr, Composition))
			}
		}
		return out
	case inL:
		var out []Transition
		for _, tl := range n.left.NextTransitions(loc.Left, action) {
			out = append(out, liftLeft(tl, loc.Right, Composition))
		}
		return out
	case inR:
		var out []Transition
		for _, tr := range n.right.NextTransitions(loc.Right, action) {
			out = append(out, liftRight(tr, loc.Left, Composition))
		}
		return out
	default:
		return nil
	}
}
