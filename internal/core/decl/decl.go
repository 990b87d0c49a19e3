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

// Package decl holds declaration tables mapping clock and integer
// variable names to indices, plus the index
// surgery (remove_clocks, replace_clocks) the clock-reduction rewrite
// pass performs on them.
package decl

import (
	"fmt"
	"sort"
)

// ClockIndex is a positive integer identifying a clock; index 0 is
// reserved for the reference clock.
type ClockIndex int

// RefClock is the reserved index for the semantic zero clock.
const RefClock ClockIndex = 0

// Table is a Declarations block: name -> ClockIndex and name -> int32,
// grounded on the teacher's name<->index interning
// (internal/core/runtime.Index), adapted from a shared growing string
// table to a small per-component map since clock/int counts here are in
// the tens, not the tens of thousands of CUE labels across a whole
// module.
type Table struct {
	clocks    map[string]ClockIndex
	clockName map[ClockIndex]string
	nextClock ClockIndex

	ints map[string]int32
}

// NewTable returns an empty declaration table; clock index 0 is reserved
// implicitly and never allocated to a name.
func NewTable() *Table {
	return &Table{
		clocks:    map[string]ClockIndex{},
		clockName: map[ClockIndex]string{},
		nextClock: 1,
		ints:      map[string]int32{},
	}
}

// Dim returns the DBM dimension implied by this table: the number of
// declared clocks plus one for the reference clock.
func (t *Table) Dim() int {
	return int(t.nextClock)
}

// AllocateClock declares a new clock and returns its index. Used both
// when loading a component's declared clocks and to allocate the fresh
// quotient clock at quotient-node construction time.
func (t *Table) AllocateClock(name string) ClockIndex {
	if idx, ok := t.clocks[name]; ok {
		return idx
	}
	idx := t.nextClock
	t.nextClock++
	t.clocks[name] = idx
	t.clockName[idx] = name
	return idx
}

// Clock looks up a declared clock by name.
func (t *Table) Clock(name string) (ClockIndex, bool) {
	idx, ok := t.clocks[name]
	return idx, ok
}

// ClockName returns the declared name of idx, or "" if unknown.
func (t *Table) ClockName(idx ClockIndex) string {
	return t.clockName[idx]
}

// Clocks returns all declared clocks in index order.
func (t *Table) Clocks() []ClockIndex {
	out := make([]ClockIndex, 0, len(t.clocks))
	for _, idx := range t.clocks {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetInt declares (or overwrites) an integer variable's value.
func (t *Table) SetInt(name string, value int32) {
	t.ints[name] = value
}

// Int looks up a declared integer variable by name.
func (t *Table) Int(name string) (int32, bool) {
	v, ok := t.ints[name]
	return v, ok
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	out := NewTable()
	out.nextClock = t.nextClock
	for k, v := range t.clocks {
		out.clocks[k] = v
	}
	for k, v := range t.clockName {
		out.clockName[k] = v
	}
	for k, v := range t.ints {
		out.ints[k] = v
	}
	return out
}

// RemoveClocks deletes the named clocks and compacts the indices of the
// surviving clocks, each shifted down by the count of removed clocks
// strictly less than it. It returns the
// map from each surviving old index to its new, compacted index
// (including the reference clock, which maps to itself), for the caller to
// propagate through every zone, guard, and update in the tree.
func (t *Table) RemoveClocks(remove []ClockIndex) map[ClockIndex]ClockIndex {
	removed := make(map[ClockIndex]bool, len(remove))
	for _, c := range remove {
		if c == RefClock {
			panic("decl: cannot remove the reference clock")
		}
		removed[c] = true
	}

	sorted := append([]ClockIndex(nil), remove...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	remap := map[ClockIndex]ClockIndex{RefClock: RefClock}
	newClocks := map[string]ClockIndex{}
	newClockName := map[ClockIndex]string{}
	var next ClockIndex = 1
	for idx := ClockIndex(1); idx < t.nextClock; idx++ {
		if removed[idx] {
			continue
		}
		remap[idx] = next
		name := t.clockName[idx]
		newClocks[name] = next
		newClockName[next] = name
		next++
	}
	t.clocks = newClocks
	t.clockName = newClockName
	t.nextClock = next
	return remap
}

// ReplaceClocks rewrites indices in place according to old->new, used by the clock-reduction merge step to fold
// an equivalence class onto its representative. It is the caller's
// responsibility to remove the now-unreachable indices afterwards with
// RemoveClocks, if merging should also shrink the dimension; when
// used purely for renaming (no indices become unreachable), the table's
// dimension is unchanged.
func (t *Table) ReplaceClocks(old2new map[ClockIndex]ClockIndex) {
	newClocks := map[string]ClockIndex{}
	newClockName := map[ClockIndex]string{}
	for name, idx := range t.clocks {
		nidx := idx
		if r, ok := old2new[idx]; ok {
			nidx = r
		}
		newClocks[name] = nidx
		newClockName[nidx] = name
	}
	t.clocks = newClocks
	t.clockName = newClockName
}

// DropClocks removes the named clocks from t without renumbering any
// other index, for use when t's indices are already slots of a larger,
// separately-tracked global dimension (MergeTables) so the compaction
// itself is performed once, atomically, across the whole tree via
// zone.ShrinkExpand rather than per-table.
func (t *Table) DropClocks(remove []ClockIndex) {
	for _, c := range remove {
		name, ok := t.clockName[c]
		if !ok {
			continue
		}
		delete(t.clockName, c)
		delete(t.clocks, name)
	}
}

func (t *Table) String() string {
	return fmt.Sprintf("decl.Table{dim=%d, clocks=%v}", t.Dim(), t.clocks)
}

// MergeTables implements the "components... set their clock index range"
// step of the lifecycle: it builds one global declaration
// table by giving each input table's clocks a disjoint, contiguous range
// of indices in declaration order, so that every leaf compiled against the
// result shares a single system-wide dimension D and no composition
// operator ever needs to renumber a clock it didn't introduce itself.
// extraClocks reserves that many additional trailing indices and
// returns their indices, in order, as the third result.
//
// The returned remap slice has one entry per input table, mapping that
// table's original local ClockIndex to its new global ClockIndex; callers
// use it to rewrite every guard, invariant, and update a leaf compiled
// from that table produced.
func MergeTables(tables []*Table, extraClocks int) (global *Table, remap []map[ClockIndex]ClockIndex, extra []ClockIndex) {
	global = NewTable()
	remap = make([]map[ClockIndex]ClockIndex, len(tables))
	for i, t := range tables {
		m := make(map[ClockIndex]ClockIndex, len(t.clocks))
		m[RefClock] = RefClock
		for _, idx := range t.Clocks() {
			name := t.clockName[idx]
			// Prefix by table position to avoid collisions between
			// same-named clocks declared by different components.
			globalName := fmt.Sprintf("%d:%s", i, name)
			m[idx] = global.AllocateClock(globalName)
		}
		remap[i] = m
	}
	extra = make([]ClockIndex, extraClocks)
	for i := range extra {
		extra[i] = global.AllocateClock(fmt.Sprintf("#quotient%d", i))
	}
	return global, remap, extra
}

// RemapConstant is a ClockIndex-indexed map for rewriting guard/invariant
// expressions and updates after a MergeTables call; defined here so
// callers outside decl share the same type without importing a second
// package just for a type alias.
type RemapConstant = map[ClockIndex]ClockIndex
