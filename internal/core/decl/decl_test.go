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

package decl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAllocateClockIsStable(t *testing.T) {
	tbl := NewTable()
	x := tbl.AllocateClock("x")
	y := tbl.AllocateClock("y")
	again := tbl.AllocateClock("x")
	if x != again {
		t.Fatalf("expected stable allocation, got %d and %d", x, again)
	}
	if tbl.Dim() != 3 {
		t.Fatalf("expected dim 3 (ref + x + y), got %d", tbl.Dim())
	}
	if y != 2 {
		t.Fatalf("expected y=2, got %d", y)
	}
}

func TestRemoveClocksCompacts(t *testing.T) {
	tbl := NewTable()
	x := tbl.AllocateClock("x")
	_ = tbl.AllocateClock("y")
	z := tbl.AllocateClock("z")

	remap := tbl.RemoveClocks([]ClockIndex{2}) // remove y
	want := map[ClockIndex]ClockIndex{0: 0, x: 1, z: 2}
	if diff := cmp.Diff(want, remap); diff != "" {
		t.Fatalf("remap mismatch (-want +got):\n%s", diff)
	}
	if tbl.Dim() != 3 {
		t.Fatalf("expected dim 3 after removing one of three clocks, got %d", tbl.Dim())
	}
	if got, _ := tbl.Clock("z"); got != 2 {
		t.Fatalf("expected z compacted to 2, got %d", got)
	}
}

func TestReplaceClocksMergesGroup(t *testing.T) {
	tbl := NewTable()
	x := tbl.AllocateClock("x")
	y := tbl.AllocateClock("y")
	z := tbl.AllocateClock("z")
	tbl.ReplaceClocks(map[ClockIndex]ClockIndex{y: x, z: x})
	for _, name := range []string{"x", "y", "z"} {
		if idx, _ := tbl.Clock(name); idx != x {
			t.Fatalf("expected %s to map to representative %d, got %d", name, x, idx)
		}
	}
}
