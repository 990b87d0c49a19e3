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

// Package clockreduce implements the clock-reduction engine: a graph-based static analysis that finds clocks never mentioned
// in any reachable invariant or guard, and maximal groups of clocks
// always reset together, then emits and applies the rewrite that shrinks
// the system's DBM dimension accordingly.
package clockreduce

import (
	"github.com/tamc-project/tamc/internal/core/decl"
	"github.com/tamc-project/tamc/internal/core/tsys"
	"github.com/tamc-project/tamc/internal/core/zone"
)

// notReset is the distinguished "clock was not reset on this edge" value
// the equivalence-class partition refines against.
const notReset = int64(1) << 62

// edgeRecord is one traversed edge's contribution to the analysis graph:
// the clock indices its guard mentions, plus its update map (clock ->
// reset constant).
type edgeRecord struct {
	guardClocks map[decl.ClockIndex]bool
	resets      map[decl.ClockIndex]int32
}

// graph records, for every BFS-reachable (location, action) pair over
// the compiled tree, which clocks each node's invariant and each edge's
// guard mentions.
type graph struct {
	invariantClocks map[decl.ClockIndex]bool
	edges           []edgeRecord
}

// buildGraph traverses the compiled tree once, starting from the initial
// location tree, BFS over (location, action) pairs keyed by LocationID.
func buildGraph(n tsys.Node) *graph {
	g := &graph{invariantClocks: map[decl.ClockIndex]bool{}}

	loc, _, ok := n.InitialState()
	if !ok {
		return g
	}
	visited := map[string]bool{loc.ID.Key(): true}
	queue := []*tsys.LocationTree{loc}
	actions := n.Actions()

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, c := range cur.Invariant.MinimalConstraints() {
			recordConstraintClocks(g.invariantClocks, c)
		}

		for a := range actions {
			for _, t := range n.NextTransitions(cur, a) {
				rec := edgeRecord{guardClocks: map[decl.ClockIndex]bool{}, resets: map[decl.ClockIndex]int32{}}
				for _, c := range t.Guard.MinimalConstraints() {
					recordConstraintClocks(rec.guardClocks, c)
				}
				for _, u := range t.Updates {
					rec.resets[u.Clock] = u.Value
				}
				g.edges = append(g.edges, rec)

				key := t.Target.ID.Key()
				if !visited[key] {
					visited[key] = true
					queue = append(queue, t.Target)
				}
			}
		}
	}
	return g
}

// recordConstraintClocks marks every non-reference clock a tight DBM
// entry x_i - x_j <= b mentions; clock index 0 is the reference clock,
// so an entry mentioning (i,0) or (0,i) encodes a unary bound and
// either side of the entry may legitimately be the reference clock,
// contributing nothing.
func recordConstraintClocks(set map[decl.ClockIndex]bool, c zone.Constraint) {
	if c.I != 0 {
		set[decl.ClockIndex(c.I)] = true
	}
	if c.J != 0 {
		set[decl.ClockIndex(c.J)] = true
	}
}

// Instructions is the clock-reduction engine's output: the clocks to
// remove outright, and the maximal equivalence groups to merge.
type Instructions struct {
	Remove []decl.ClockIndex
	Merge  [][]decl.ClockIndex // each group's first element is its representative (smallest index)
}

// Empty reports whether applying these instructions would change
// anything.
func (in Instructions) Empty() bool { return len(in.Remove) == 0 && len(in.Merge) == 0 }
