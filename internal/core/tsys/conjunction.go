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
	"sort"
	"strings"

	"github.com/tamc-project/tamc/errors"
	"github.com/tamc-project/tamc/internal/core/zone"
	"github.com/tamc-project/tamc/token"
)

// Conj is the conjunction operator node.
type Conj struct{ composedNode }

// NewConjunction builds the conjunction of left and right, enforcing the
// operand constraint that both expose exactly the same input set and
// exactly the same output set; a mismatch is reported
// naming the missing/extra actions.
func NewConjunction(left, right Node) (*Conj, error) {
	if left.Dim() != right.Dim() {
		panic("tsys: conjunction operands have mismatched dimension")
	}
	if err := sameActionSets("input", left.InputActions(), right.InputActions()); err != nil {
		return nil, err
	}
	if err := sameActionSets("output", left.OutputActions(), right.OutputActions()); err != nil {
		return nil, err
	}
	return &Conj{composedNode{
		left: left, right: right, kind: Conjunction, dim: left.Dim(),
		inputs: intersectSet(left.InputActions(), right.InputActions()),
		outputs: intersectSet(left.OutputActions(), right.OutputActions()),
		composeInv: func(l, r *LocationTree) zone.Zone { return l.Invariant.Intersect(r.Invariant) },
	}}, nil
}

func sameActionSets(kind string, l, r ActionSet) error {
	missing := subtractSet(l, r)
	extra := subtractSet(r, l)
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return errors.New(errors.ConstructionError, token.NoPos, nil,
		"conjunction: %s action sets mismatched: missing %s, extra %s",
		kind, sortedNames(missing), sortedNames(extra))
}

func sortedNames(s ActionSet) string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ",") + "}"
}

func (n *Conj) InitialLocation() *LocationTree                { return n.initialLocation() }
func (n *Conj) AllLocations() []*LocationTree                  { return n.allLocations(n) }
func (n *Conj) InitialState() (*LocationTree, zone.Zone, bool) { return n.initialState() }
func (n *Conj) LocalMaxBounds(loc *LocationTree) zone.Bounds   { return localMaxBoundsComposed(&n.composedNode, loc) }
func (n *Conj) CheckDeterminism() *DeterminismConflict         { return checkDeterminismComposed(&n.composedNode) }
func (n *Conj) CheckLocalConsistency() *ConsistencyFailure     { return checkLocalConsistencyComposed(&n.composedNode) }

// NextTransitions implements spec.md §4.3: conjunction always
// pairwise-combines both children's transitions on a; if either side has
// none, the conjunction has none.
func (n *Conj) NextTransitions(loc *LocationTree, action string) []Transition {
	tl := n.left.NextTransitions(loc.Left, action)
	tr := n.right.NextTransitions(loc.Right, action)
	if len(tl) == 0 || len(tr) == 0 {
		return nil
	}
	var out []Transition
	for _, a := range tl {
		for _, b := range tr {
			out = append(out, a.Combine(b, Conjunction))
		}
	}
	return out
}
