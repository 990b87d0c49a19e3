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

// Node is the uniform TransitionSystem interface every tree node exposes
//: leaves (CompiledComponent) and the three composition
// operators (Composition, Conjunction, Quotient) all satisfy it, so the
// successor engine, clock-reduction rewrite, and property checks never
// need to distinguish leaf from internal node. Modeled as four concrete
// variants sharing a ComposedNode field rather than a deep inheritance
// chain.
type Node interface {
	// Dim returns the DBM dimension shared by every zone this node and
	// every other node in the same tree produces.
	Dim() int

	InputActions() ActionSet
	OutputActions() ActionSet
	Actions() ActionSet

	// InitialLocation returns the location tree this node starts in.
	InitialLocation() *LocationTree

	// AllLocations enumerates locations: a Leaf returns every declared
	// location; a composed node returns every location reachable from
	// its initial location by BFS over the successor relation.
	AllLocations() []*LocationTree

	// GetLocation looks up a location anywhere in this node's location
	// space by ID, or returns nil.
	GetLocation(id LocationID) *LocationTree

	// InitialState returns (initial location, init(D) zone intersected
	// with the composed initial invariant), and false if that
	// intersection is empty.
	InitialState() (*LocationTree, zone.Zone, bool)

	// NextTransitions is the heart of the engine: the set of outgoing
	// transitions from loc on action a.
	NextTransitions(loc *LocationTree, action string) []Transition

	// LocalMaxBounds returns the per-clock (upper,lower) bound used to
	// extrapolate zones at loc.
	LocalMaxBounds(loc *LocationTree) zone.Bounds

	// CheckDeterminism returns nil if the node is deterministic, or the
	// first conflicting (location, action) pair found.
	CheckDeterminism() *DeterminismConflict

	// CheckLocalConsistency returns nil if the node is locally
	// consistent, or a witness of the first inconsistency found.
	CheckLocalConsistency() *ConsistencyFailure

	// RemoveClocks and ReplaceClocks apply the clock-reduction rewrite
	// in place, recursing to children. Callers use the
	// Node's Dim() after the call to learn the new dimension.
	RemoveClocks(remove []decl.ClockIndex, srcMask, dstMask []bool)
	ReplaceClocks(old2new map[decl.ClockIndex]decl.ClockIndex)
}

// ActionSet is an immutable set of action names.
type ActionSet map[string]struct{}

func newActionSet(names ...string) ActionSet {
	s := make(ActionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func unionSet(a, b ActionSet) ActionSet {
	out := make(ActionSet, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func intersectSet(a, b ActionSet) ActionSet {
	out := make(ActionSet, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func subtractSet(a, b ActionSet) ActionSet {
	out := make(ActionSet, len(a))
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func disjoint(a, b ActionSet) bool {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if _, ok := big[k]; ok {
			return false
		}
	}
	return true
}

// DeterminismConflict witnesses a determinism failure:
// two enabled edges out of the same location on the same action whose
// guards intersect.
type DeterminismConflict struct {
	Location LocationID
	Action   string
	First    string // transition ID
	Second   string // transition ID
}

// ConsistencyFailure witnesses a local-consistency failure: a reachable (location, zone) where time cannot pass within the
// invariant and no output transition is enabled.
type ConsistencyFailure struct {
	Location LocationID
	Reason   string
}
