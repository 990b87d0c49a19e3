// Copyright 2018 The CUE Authors
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

package zone

import (
	"testing"
)

func TestUniverseNeverEmpty(t *testing.T) {
	z := NewUniverse(3)
	if z.IsEmpty() {
		t.Fatal("universe must not be empty")
	}
}

func TestInitIsNotEmpty(t *testing.T) {
	z := NewInit(3)
	if z.IsEmpty() {
		t.Fatal("init(D) must not be empty")
	}
}

func TestIntersectContradictionIsEmpty(t *testing.T) {
	z := NewUniverse(2)
	// x1 <= 3 and x1 > 5 is unsatisfiable.
	z = z.IntersectConstraints([]Constraint{{I: 1, J: 0, Strict: false, Bound: 3}})
	z = z.IntersectConstraints([]Constraint{{I: 0, J: 1, Strict: true, Bound: -5}})
	if !z.IsEmpty() {
		t.Fatal("expected contradictory zone to be empty")
	}
}

func TestApplyResetThenUpperBoundHolds(t *testing.T) {
	z := NewUniverse(2)
	z = z.ApplyReset(1, 0)
	// After resetting x1 to 0, x1 <= 5 must still hold.
	got := z.IntersectConstraints([]Constraint{{I: 1, J: 0, Strict: false, Bound: 5}})
	if got.IsEmpty() {
		t.Fatal("x1=0 should satisfy x1<=5")
	}
	// But x1 >= 1 (i.e. x0 - x1 <= -1) must not.
	violates := z.IntersectConstraints([]Constraint{{I: 0, J: 1, Strict: false, Bound: -1}})
	if !violates.IsEmpty() {
		t.Fatal("x1=0 should not satisfy x1>=1")
	}
}

func TestApplyUpRemovesUpperBounds(t *testing.T) {
	z := NewUniverse(2).IntersectConstraints([]Constraint{{I: 1, J: 0, Strict: false, Bound: 5}})
	z = z.ApplyUp()
	// Re-imposing x1 <= 100 after up should still be satisfiable, showing
	// the original x1<=5 bound no longer constrains from above.
	z = z.IntersectConstraints([]Constraint{{I: 1, J: 0, Strict: false, Bound: 100}})
	if z.IsEmpty() {
		t.Fatal("apply_up should remove the x1<=5 bound")
	}
}

func TestShrinkExpandRoundTrip(t *testing.T) {
	// Dim 3: reference clock 0, clocks 1 and 2. Remove clock 1, keep clock
	// 2 (compacted to index 1 in the new dimension 2).
	z := NewUniverse(3)
	z = z.IntersectConstraints([]Constraint{
		{I: 2, J: 0, Strict: false, Bound: 7}, // x2 <= 7
	})
	srcMask := []bool{true, false, true} // keep clocks 0 and 2
	dstMask := []bool{true, true}        // dim 2: reference + one clock
	out := z.ShrinkExpand(srcMask, dstMask)
	if out.Dim != 2 {
		t.Fatalf("expected dim 2, got %d", out.Dim)
	}
	violating := out.IntersectConstraints([]Constraint{{I: 0, J: 1, Strict: false, Bound: -8}}) // x1 >= 8
	if !violating.IsEmpty() {
		t.Fatal("shrink_expand should preserve the x2<=7 bound on the surviving clock")
	}
}

func TestShrinkExpandNewClockIsUnconstrained(t *testing.T) {
	z := NewUniverse(2) // reference + clock 1
	srcMask := []bool{true, true}
	dstMask := []bool{true, true, false} // grow by one clock (e.g. quotient clock); the false position is the new clock
	out := z.ShrinkExpand(srcMask, dstMask)
	if out.Dim != 3 {
		t.Fatalf("expected dim 3, got %d", out.Dim)
	}
	// The new clock (index 2) must be free: both x2>=1000 and x2<=0
	// remain individually satisfiable until explicitly constrained.
	big := out.IntersectConstraints([]Constraint{{I: 0, J: 2, Strict: false, Bound: -1000}})
	if big.IsEmpty() {
		t.Fatal("expanded clock should be unconstrained, not pinned")
	}
	zeroed := out.ApplyReset(2, 0).IntersectConstraints(
		[]Constraint{{I: 0, J: 2, Strict: false, Bound: -1}})
	if !zeroed.IsEmpty() {
		t.Fatal("after an explicit reset to zero, x2>=1 must be unsatisfiable")
	}
}

func TestExtrapolateWidensBeyondBound(t *testing.T) {
	b := EmptyBounds(2)
	b.Upper[1] = 5
	b.Lower[1] = 5
	z := NewUniverse(2).IntersectConstraints([]Constraint{{I: 1, J: 0, Strict: false, Bound: 50}})
	z = z.Extrapolate(b)
	// After extrapolation beyond the max bound 5, x1<=50 should have been
	// widened away, so x1>=100 (x0 - x1 <= -100), which contradicts
	// x1<=50, becomes satisfiable.
	over := z.IntersectConstraints([]Constraint{{I: 0, J: 1, Strict: false, Bound: -100}})
	if over.IsEmpty() {
		t.Fatal("extrapolation should have removed the tight 50 bound")
	}
}

func TestMinimalConstraintsMentionsClock(t *testing.T) {
	z := NewUniverse(3).IntersectConstraints([]Constraint{{I: 2, J: 0, Strict: false, Bound: 3}})
	mentions := map[int]bool{}
	for _, c := range z.MinimalConstraints() {
		mentions[c.I] = true
		mentions[c.J] = true
	}
	if !mentions[2] {
		t.Fatal("expected clock 2 to be mentioned in minimal constraints")
	}
	if mentions[1] {
		t.Fatal("unconstrained clock 1 should not be mentioned")
	}
}
