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

import "fmt"

// SpecificLocation is the query-side shape a reachability target names a
// location with (spec.md §4.1 "construct_location_tree(target:
// SpecificLocation)"): a leaf target is a named location, and a composed
// target recurses into Left/Right mirroring the tree shape.
type SpecificLocation struct {
	Name    string
	Any     bool
	Left    *SpecificLocation
	Right   *SpecificLocation
}

// ConstructLocationTree builds the LocationTree a reachability target
// names, by recursing n's shape. Returns an error naming
// the unknown location.
func ConstructLocationTree(n Node, spec SpecificLocation) (*LocationTree, error) {
	if spec.Any {
		return &LocationTree{ID: NewAnyLocation()}, nil
	}
	switch l := n.(type) {
	case *Leaf:
		loc := l.locations[spec.Name]
		if loc == nil {
			return nil, fmt.Errorf("unknown-location: %q", spec.Name)
		}
		return loc, nil
	case *Comp:
		return constructComposed(&l.composedNode, spec)
	case *Conj:
		return constructComposed(&l.composedNode, spec)
	case *Quotient:
		return constructComposed(&l.composedNode, spec)
	default:
		return nil, fmt.Errorf("unknown-component: unrecognized TransitionSystem node type")
	}
}

func constructComposed(c *composedNode, spec SpecificLocation) (*LocationTree, error) {
	if spec.Left == nil || spec.Right == nil {
		return nil, fmt.Errorf("unknown-location: composed target missing left/right")
	}
	left, err := ConstructLocationTree(c.left, *spec.Left)
	if err != nil {
		return nil, err
	}
	right, err := ConstructLocationTree(c.right, *spec.Right)
	if err != nil {
		return nil, err
	}
	return &LocationTree{ID: Compose(left.ID, right.ID, c.kind), Invariant: c.composeInv(left, right), Left: left, Right: right}, nil
}
