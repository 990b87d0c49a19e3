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

	"github.com/tamc-project/tamc/errors"
	"github.com/tamc-project/tamc/internal/core/automaton"
	"github.com/tamc-project/tamc/internal/core/decl"
	"github.com/tamc-project/tamc/internal/core/zone"
	"github.com/tamc-project/tamc/token"
)

// leafEdge is a compiled edge: the guard has already been lowered from
// automaton.Expr to a zone, but is kept uncombined with the source
// invariant (spec.md §3 "Transition — a triple (guard_zone, updates,
// target_location_tree)").
type leafEdge struct {
	action string
	guard  zone.Zone
	resets []Reset
	target string
	id     string
}

// Leaf is a CompiledComponent: a lookup from location
// identity to (invariant-federation, outgoing transitions-by-action),
// plus cached pre-computed max-bounds. It is the leaf of the
// transition-system tree.
type Leaf struct {
	name    string
	dim     int
	decl    *decl.Table
	inputs  ActionSet
	outputs ActionSet

	locations map[string]*LocationTree   // by simple name
	edges     map[string][]leafEdge      // by source location name
	bounds    zone.Bounds                // cached, component-wide
	initial   string
}

// Compile lowers an automaton.Component — already remapped onto the
// system's global clock indices (automaton.Component.RemapClocks) — into
// a Leaf at the given global dimension.
func Compile(c *automaton.Component, dim int) (*Leaf, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	l := &Leaf{
		name:      c.Name,
		dim:       dim,
		decl:      c.Decl,
		inputs:    newActionSet(keysOf(c.InputActions)...),
		outputs:   newActionSet(keysOf(c.OutputActions)...),
		locations: map[string]*LocationTree{},
		edges:     map[string][]leafEdge{},
		initial:   c.Initial,
	}
	if !disjoint(l.inputs, l.outputs) {
		return nil, errors.New(errors.ConstructionError, token.NoPos,
			[]string{c.Name}, "action sets not disjoint")
	}

	for _, loc := range c.Locations {
		inv := exprToZone(dim, loc.Invariant)
		l.locations[loc.Name] = &LocationTree{
			ID:        NewSimple(loc.Name),
			Invariant: inv,
			Urgent:    loc.Urgent,
		}
	}
	if l.locations[c.Initial] == nil {
		return nil, errors.New(errors.ConstructionError, token.NoPos,
			[]string{c.Name}, "initial location %q not declared", c.Initial)
	}

	l.bounds = zone.EmptyBounds(dim)
	for _, loc := range c.Locations {
		observeExpr(l.bounds, loc.Invariant)
	}
	for _, e := range c.Edges {
		guard := exprToZone(dim, e.Guard)
		observeExpr(l.bounds, e.Guard)
		resets := make([]Reset, len(e.Updates))
		for i, u := range e.Updates {
			resets[i] = Reset{Clock: u.Clock, Value: u.Value}
		}
		l.edges[e.Source] = append(l.edges[e.Source], leafEdge{
			action: e.Sync,
			guard:  guard,
			resets: resets,
			target: e.Target,
			id:     e.ID,
		})
	}
	return l, nil
}

func keysOf(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// exprToZone lowers a guard/invariant expression into a zone by
// distributing conjunction/disjunction over the federation's
// Intersect/Union operators; nil means "true" (the universe).
func exprToZone(dim int, e automaton.Expr) zone.Zone {
	switch x := e.(type) {
	case nil:
		return zone.NewUniverse(dim)
	case automaton.ClockConstraint:
		return zone.NewUniverse(dim).IntersectConstraints([]zone.Constraint{toConstraint(x)})
	case automaton.And:
		return exprToZone(dim, x.Left).Intersect(exprToZone(dim, x.Right))
	case automaton.Or:
		return exprToZone(dim, x.Left).Union(exprToZone(dim, x.Right))
	default:
		panic("tsys: exprToZone: unknown Expr variant")
	}
}

// toConstraint lowers a single ClockConstraint to the DBM entry it
// tightens: an upper bound x_c <= k sets (c,0); a lower bound x_c >= k
// sets (0,c) to -k (spec.md §3, §9 "guards mentioning (i,0) or (0,i)
// encode unary bounds").
func toConstraint(c automaton.ClockConstraint) zone.Constraint {
	if c.Upper {
		return zone.Constraint{I: int(c.Clock), J: 0, Strict: c.Strict, Bound: c.Bound}
	}
	return zone.Constraint{I: 0, J: int(c.Clock), Strict: c.Strict, Bound: -c.Bound}
}

// observeExpr widens bounds to cover every clock constraint in e
//.
func observeExpr(b zone.Bounds, e automaton.Expr) {
	switch x := e.(type) {
	case nil:
		return
	case automaton.ClockConstraint:
		b.Observe(int(x.Clock), x.Bound, x.Upper)
	case automaton.And:
		observeExpr(b, x.Left)
		observeExpr(b, x.Right)
	case automaton.Or:
		observeExpr(b, x.Left)
		observeExpr(b, x.Right)
	}
}

func (l *Leaf) Dim() int              { return l.dim }
func (l *Leaf) InputActions() ActionSet  { return l.inputs }
func (l *Leaf) OutputActions() ActionSet { return l.outputs }
func (l *Leaf) Actions() ActionSet       { return unionSet(l.inputs, l.outputs) }

func (l *Leaf) InitialLocation() *LocationTree { return l.locations[l.initial] }

func (l *Leaf) AllLocations() []*LocationTree {
	out := make([]*LocationTree, 0, len(l.locations))
	for _, loc := range l.locations {
		out = append(out, loc)
	}
	return out
}

func (l *Leaf) GetLocation(id LocationID) *LocationTree {
	if id.Kind != Simple {
		return nil
	}
	return l.locations[id.Name]
}

func (l *Leaf) InitialState() (*LocationTree, zone.Zone, bool) {
	loc := l.InitialLocation()
	if loc == nil {
		return nil, zone.Zone{}, false
	}
	z := zone.NewInit(l.dim).Intersect(loc.Invariant)
	if z.IsEmpty() {
		return loc, z, false
	}
	return loc, z, true
}

func (l *Leaf) NextTransitions(loc *LocationTree, action string) []Transition {
	var out []Transition
	for _, e := range l.edges[loc.ID.Name] {
		if e.action != action {
			continue
		}
		out = append(out, Transition{
			Guard:   e.guard,
			Updates: append([]Reset(nil), e.resets...),
			Target:  l.locations[e.target],
			ID:      e.id,
		})
	}
	return out
}

// LocalMaxBounds returns the cached, component-wide bound table; per
// spec.md §9 the Universal/Inconsistent pseudo-locations never appear as
// a Leaf's own location (they are synthesized only by Quotient), so a
// Leaf's LocalMaxBounds ignores loc entirely.
func (l *Leaf) LocalMaxBounds(loc *LocationTree) zone.Bounds { return l.bounds }

// CheckDeterminism implements spec.md §4.5 for a leaf: no two edges out
// of the same location on the same action have guards whose intersection
// is non-empty.
func (l *Leaf) CheckDeterminism() *DeterminismConflict {
	for locName, edges := range l.edges {
		byAction := map[string][]leafEdge{}
		for _, e := range edges {
			byAction[e.action] = append(byAction[e.action], e)
		}
		for action, es := range byAction {
			for i := 0; i < len(es); i++ {
				for j := i + 1; j < len(es); j++ {
					if !es[i].guard.Intersect(es[j].guard).IsEmpty() {
						return &DeterminismConflict{
							Location: NewSimple(locName),
							Action:   action,
							First:    es[i].id,
							Second:   es[j].id,
						}
					}
				}
			}
		}
	}
	return nil
}

// CheckLocalConsistency implements spec.md §4.5: a (location) is
// consistent if either time can pass while remaining in its invariant, or
// some output transition is enabled from it; inputs do not count. This
// module resolves the backward-fixpoint ambiguity spec.md §4.5 leaves
// open (see DESIGN.md) by checking the condition directly at every
// reachable location rather than propagating consistency through input
// transitions, since spec.md's own wording scopes the rule to "either...
// or" at each state with no recursive input-driven exception named.
func (l *Leaf) CheckLocalConsistency() *ConsistencyFailure {
	loc, _, ok := l.InitialState()
	if !ok {
		return nil // empty initial state is handled by InitialState's own caller
	}
	visited := map[string]bool{loc.ID.Key(): true}
	queue := []*LocationTree{loc}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if f := l.checkLocationConsistency(cur); f != nil {
			return f
		}
		for a := range l.Actions() {
			for _, t := range l.NextTransitions(cur, a) {
				if visited[t.Target.ID.Key()] {
					continue
				}
				visited[t.Target.ID.Key()] = true
				queue = append(queue, t.Target)
			}
		}
	}
	return nil
}

// RemoveClocks applies the clock-reduction rewrite pass to this leaf: the
// removed clocks are dropped from the leaf's declarations (surviving
// entries keep their old indices; the global table is the one that is
// compacted), every location
// invariant and edge guard is shrunk via the mask-based dimension
// surgery, updates whose clock was removed are dropped and surviving
// update indices are rewritten, and the cached bound table is rewritten
// the same way.
func (l *Leaf) RemoveClocks(remove []decl.ClockIndex, srcMask, dstMask []bool) {
	removed := make(map[decl.ClockIndex]bool, len(remove))
	for _, c := range remove {
		removed[c] = true
	}

	for _, loc := range l.locations {
		loc.Invariant = loc.Invariant.ShrinkExpand(srcMask, dstMask)
	}
	for src, edges := range l.edges {
		for i, e := range edges {
			e.guard = e.guard.ShrinkExpand(srcMask, dstMask)
			var kept []Reset
			for _, r := range e.resets {
				if removed[r.Clock] {
					continue
				}
				kept = append(kept, Reset{Clock: compactIndex(r.Clock, srcMask), Value: r.Value})
			}
			e.resets = kept
			edges[i] = e
		}
		l.edges[src] = edges
	}
	l.bounds = l.bounds.ShrinkExpand(srcMask, dstMask)
	l.decl.DropClocks(remove)
	l.dim = len(dstMask)
}

// compactIndex maps a surviving global clock index to its position in
// the post-removal dimension: the count of true entries in srcMask at
// positions strictly less than idx.
func compactIndex(idx decl.ClockIndex, srcMask []bool) decl.ClockIndex {
	n := 0
	for i := 0; i < int(idx); i++ {
		if srcMask[i] {
			n++
		}
	}
	return decl.ClockIndex(n)
}

// ReplaceClocks applies the merge half of the clock-reduction rewrite
//: every DBM constraint and update referencing a
// merged clock is refolded onto its representative. The non-
// representative indices are expected to be removed in a subsequent
// RemoveClocks call using a mask built from the same merge groups.
func (l *Leaf) ReplaceClocks(old2new map[decl.ClockIndex]decl.ClockIndex) {
	m := make(map[int]int, len(old2new))
	for k, v := range old2new {
		m[int(k)] = int(v)
	}
	for _, loc := range l.locations {
		loc.Invariant = loc.Invariant.ReplaceClocks(m)
	}
	for src, edges := range l.edges {
		for i, e := range edges {
			e.guard = e.guard.ReplaceClocks(m)
			for j, r := range e.resets {
				if rep, ok := old2new[r.Clock]; ok {
					e.resets[j].Clock = rep
				}
			}
			edges[i] = e
		}
		l.edges[src] = edges
	}
	l.bounds = l.bounds.ReplaceClocks(m)
	l.decl.ReplaceClocks(old2new)
}

func (l *Leaf) checkLocationConsistency(loc *LocationTree) *ConsistencyFailure {
	delayed := loc.Invariant.ApplyUp().Intersect(loc.Invariant)
	if !delayed.IsEmpty() {
		return nil
	}
	for o := range l.outputs {
		for _, t := range l.NextTransitions(loc, o) {
			if !t.Guard.Intersect(loc.Invariant).IsEmpty() {
				return nil
			}
		}
	}
	return &ConsistencyFailure{
		Location: loc.ID,
		Reason:   "no delay remains within the invariant and no output is enabled",
	}
}
