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

// Reset is a single clock update carried by a Transition (spec.md §3
// "updates is an ordered list of (clock_index, value) resets; order is
// irrelevant because all resets in a transition are applied
// independently").
type Reset struct {
	Clock decl.ClockIndex
	Value int32
}

// Transition is a triple (guard_zone, updates, target_location_tree),
// plus an identity tag for reporting.
type Transition struct {
	Guard   zone.Zone
	Updates []Reset
	Target  *LocationTree
	ID      string // identity tag for error witnesses; not semantically meaningful
}

// applyUpdates resets every clock in ts to its constant in z, in any
// order.
func applyUpdates(z zone.Zone, ts []Reset) zone.Zone {
	for _, u := range ts {
		z = z.ApplyReset(int(u.Clock), u.Value)
	}
	return z
}

// Combine produces the transition resulting from synchronizing t with
// other: the guard is the intersection of both guards after each side's
// own updates have been applied to its own zone projection, updates are
// concatenated, and the target is the composed location tree (spec.md
// §3 "Transition... support combine(other)").
func (t Transition) Combine(other Transition, kind Kind) Transition {
	tGuardAfterOwnUpdates := applyUpdates(t.Guard, t.Updates)
	oGuardAfterOwnUpdates := applyUpdates(other.Guard, other.Updates)
	guard := tGuardAfterOwnUpdates.Intersect(oGuardAfterOwnUpdates)

	updates := make([]Reset, 0, len(t.Updates)+len(other.Updates))
	updates = append(updates, t.Updates...)
	updates = append(updates, other.Updates...)

	return Transition{
		Guard:   guard,
		Updates: updates,
		Target:  ComposeTrees(t.Target, other.Target, kind),
		ID:      t.ID + "+" + other.ID,
	}
}

// liftLeft lifts a left-only transition into the composed system,
// copying the right child's current location unchanged into the target
//.
func liftLeft(t Transition, rightLoc *LocationTree, kind Kind) Transition {
	return Transition{
		Guard:   t.Guard,
		Updates: t.Updates,
		Target:  ComposeTrees(t.Target, rightLoc, kind),
		ID:      t.ID,
	}
}

func liftRight(t Transition, leftLoc *LocationTree, kind Kind) Transition {
	return Transition{
		Guard:   t.Guard,
		Updates: t.Updates,
		Target:  ComposeTrees(leftLoc, t.Target, kind),
		ID:      t.ID,
	}
}
