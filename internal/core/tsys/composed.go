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

// composedNode is the shared field set every internal tree node carries
// (spec.md §9 "share internal-node logic by composition (a ComposedNode
// field holding (left, right, kind, dim, inputs, outputs))"): Composition,
// Conjunction, and Quotient each embed it and override only next() and
// the invariant-composition rule.
type composedNode struct {
	left, right     Node
	kind            Kind
	dim             int
	inputs, outputs ActionSet

	// composeInv computes a composed location's invariant from its
	// operand locations; Composition/Conjunction intersect,
	// Quotient supplies its own rule.
	composeInv func(left, right *LocationTree) zone.Zone
}

func (c *composedNode) composedLocation(left, right *LocationTree) *LocationTree {
	return &LocationTree{
		ID:        Compose(left.ID, right.ID, c.kind),
		Invariant: c.composeInv(left, right),
		Urgent:    left.Urgent || right.Urgent,
		Left:      left,
		Right:     right,
	}
}

func (c *composedNode) initialLocation() *LocationTree {
	return c.composedLocation(c.left.InitialLocation(), c.right.InitialLocation())
}

// allLocations implements AllLocations generically for any composed
// variant by delegating the BFS to self, whose NextTransitions is the
// variant-specific override.
func (c *composedNode) allLocations(self Node) []*LocationTree {
	return reachable(self, c.initialLocation())
}

func (c *composedNode) initialState() (*LocationTree, zone.Zone, bool) {
	loc := c.initialLocation()
	z := zone.NewInit(c.dim).Intersect(loc.Invariant)
	if z.IsEmpty() {
		return loc, z, false
	}
	return loc, z, true
}

func (c *composedNode) Dim() int               { return c.dim }
func (c *composedNode) InputActions() ActionSet  { return c.inputs }
func (c *composedNode) OutputActions() ActionSet { return c.outputs }
func (c *composedNode) Actions() ActionSet       { return unionSet(c.inputs, c.outputs) }

func (c *composedNode) GetLocation(id LocationID) *LocationTree {
	if id.Kind != c.kind {
		return nil
	}
	var left *LocationTree
	if id.Left.Kind == Universal || id.Left.Kind == Inconsistent {
		// Quotient's synthetic escape pseudo-locations have no counterpart in the left operand's own location
		// space; synthesize one at this node's dimension.
		left = &LocationTree{ID: *id.Left, Invariant: zone.NewUniverse(c.dim)}
	} else {
		left = c.left.GetLocation(*id.Left)
	}
	right := c.right.GetLocation(*id.Right)
	if left == nil || right == nil {
		return nil
	}
	return &LocationTree{ID: id, Invariant: c.composeInv(left, right), Left: left, Right: right}
}

func (c *composedNode) RemoveClocks(remove []decl.ClockIndex, srcMask, dstMask []bool) {
	c.left.RemoveClocks(remove, srcMask, dstMask)
	c.right.RemoveClocks(remove, srcMask, dstMask)
	c.dim = len(dstMask)
}

func (c *composedNode) ReplaceClocks(old2new map[decl.ClockIndex]decl.ClockIndex) {
	c.left.ReplaceClocks(old2new)
	c.right.ReplaceClocks(old2new)
}

// localMaxBoundsComposed implements spec.md §4.1 "internal nodes sum the
// children's bounds": shared by Composition and Conjunction; Quotient
// overrides to special-case its pseudo-locations.
func localMaxBoundsComposed(c *composedNode, loc *LocationTree) zone.Bounds {
	return c.left.LocalMaxBounds(loc.Left).Join(c.right.LocalMaxBounds(loc.Right))
}

// checkDeterminismComposed implements spec.md §4.5 "internal nodes check
// both children" for Composition and Conjunction.
func checkDeterminismComposed(c *composedNode) *DeterminismConflict {
	if f := c.left.CheckDeterminism(); f != nil {
		return f
	}
	return c.right.CheckDeterminism()
}

// checkLocalConsistencyComposed implements spec.md §4.5 "internal nodes
// delegate to both children" for Composition and Conjunction.
func checkLocalConsistencyComposed(c *composedNode) *ConsistencyFailure {
	if f := c.left.CheckLocalConsistency(); f != nil {
		return f
	}
	return c.right.CheckLocalConsistency()
}
