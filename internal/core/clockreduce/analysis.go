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

package clockreduce

import (
	"sort"

	"github.com/tamc-project/tamc/internal/core/decl"
	"github.com/tamc-project/tamc/internal/core/tsys"
)

// Tracer receives optional progress messages from the analysis pass,
// the same role the teacher's OpContext debug-indent tracer plays for
// its evaluator: off by default, never required for correctness.
type Tracer interface {
	Tracef(format string, args ...any)
}

type noopTracer struct{}

func (noopTracer) Tracef(string, ...any) {}

// DefaultTracer is the no-op Tracer used when a caller doesn't supply
// its own.
var DefaultTracer Tracer = noopTracer{}

// Analyze runs the clock-reduction analysis over n: it
// builds the reachability graph once, then computes unused clocks and
// equivalence classes from it. exempt clocks (the quotient clock(s) of
// any Quotient node in the tree, which a refinement oracle outside this
// package still needs to observe) are never reported in either set.
func Analyze(n tsys.Node, exempt []decl.ClockIndex) Instructions {
	g := buildGraph(n)
	isExempt := make(map[decl.ClockIndex]bool, len(exempt))
	for _, c := range exempt {
		isExempt[c] = true
	}

	unused := unusedClocks(n.Dim(), g, isExempt)
	groups := equivalentClocks(n.Dim(), g, unused, isExempt)

	remove := append([]decl.ClockIndex(nil), unused...)
	var merge [][]decl.ClockIndex
	for _, grp := range groups {
		if len(grp) < 2 {
			continue
		}
		sort.Slice(grp, func(i, j int) bool { return grp[i] < grp[j] })
		merge = append(merge, grp)
		// Every non-representative member of a merge group has no
		// further direct use once replace_clocks folds it onto the
		// representative, so the rewrite also removes it.
		remove = append(remove, grp[1:]...)
	}
	sort.Slice(remove, func(i, j int) bool { return remove[i] < remove[j] })
	DefaultTracer.Tracef("clockreduce: %d unused clocks, %d merge groups", len(unused), len(merge))
	return Instructions{Remove: remove, Merge: merge}
}

// unusedClocks finds every clock index 1 <= c < D that no node invariant
// and no edge guard mentions anywhere in the reachability graph.
func unusedClocks(dim int, g *graph, isExempt map[decl.ClockIndex]bool) []decl.ClockIndex {
	mentioned := map[decl.ClockIndex]bool{}
	for c := range g.invariantClocks {
		mentioned[c] = true
	}
	for _, e := range g.edges {
		for c := range e.guardClocks {
			mentioned[c] = true
		}
	}
	var out []decl.ClockIndex
	for c := decl.ClockIndex(1); int(c) < dim; c++ {
		if !mentioned[c] && !isExempt[c] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// equivalentClocks finds maximal groups of clocks that are always reset
// together: starting from one group containing all used (non-unused,
// non-exempt) clocks,
// each edge partitions every existing group by the reset-value the clock
// receives on that edge (with the distinguished "not-reset" value).
// Singleton groups are dropped after each refinement.
func equivalentClocks(dim int, g *graph, unused []decl.ClockIndex, isExempt map[decl.ClockIndex]bool) [][]decl.ClockIndex {
	excluded := make(map[decl.ClockIndex]bool, len(unused))
	for _, c := range unused {
		excluded[c] = true
	}
	var all []decl.ClockIndex
	for c := decl.ClockIndex(1); int(c) < dim; c++ {
		if !excluded[c] && !isExempt[c] {
			all = append(all, c)
		}
	}
	if len(all) == 0 {
		return nil
	}
	groups := [][]decl.ClockIndex{all}

	for _, e := range g.edges {
		var next [][]decl.ClockIndex
		for _, grp := range groups {
			byValue := map[int64][]decl.ClockIndex{}
			for _, c := range grp {
				v, ok := e.resets[c]
				key := notReset
				if ok {
					key = int64(v)
				}
				byValue[key] = append(byValue[key], c)
			}
			for _, sub := range byValue {
				if len(sub) >= 2 {
					next = append(next, sub)
				}
			}
		}
		groups = next
		if len(groups) == 0 {
			break
		}
	}
	return groups
}
