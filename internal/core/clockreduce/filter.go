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

import "github.com/tamc-project/tamc/internal/core/decl"

// FilterForTwoOperands filters two independently-run clock-reduction
// analyses for a two-operand query such as a refinement L <= R: a clock
// is only rewritten if both sides independently found it redundant, and
// only on the side that owns it. leftDecl/rightDecl are each operand's
// own declaration table; a clock is identified across the two sides by
// its declared name, since the two operands' index ranges are disjoint.
// When an operand's clock has no same-named counterpart on the other
// side (the common case: L and R are different components), there is
// nothing to cross-check against, so that operand's own finding is kept
// unfiltered — the cross-check only has teeth when the two operands
// share declaration names, as when checking a component against itself.
func FilterForTwoOperands(leftDecl, rightDecl *decl.Table, left, right Instructions) (Instructions, Instructions) {
	return filterOneSide(leftDecl, rightDecl, left, right), filterOneSide(rightDecl, leftDecl, right, left)
}

func filterOneSide(ownDecl, otherDecl *decl.Table, own, other Instructions) Instructions {
	otherRemoved := make(map[decl.ClockIndex]bool, len(other.Remove))
	for _, c := range other.Remove {
		otherRemoved[c] = true
	}

	var remove []decl.ClockIndex
	for _, c := range own.Remove {
		name := ownDecl.ClockName(c)
		otherIdx, hasCounterpart := otherDecl.Clock(name)
		if !hasCounterpart || otherRemoved[otherIdx] {
			remove = append(remove, c)
		}
	}

	var merge [][]decl.ClockIndex
	for _, grp := range own.Merge {
		// A merge group is only meaningful within one operand's own
		// clock set (distinct components never share an equivalence
		// class), so it is never filtered by the other side's findings
		// — only removal needs the cross-check, per spec.md §4.6's own
		// wording ("only rewrite a clock if both sides independently
		// found it redundant").
		merge = append(merge, grp)
	}

	return Instructions{Remove: remove, Merge: merge}
}
