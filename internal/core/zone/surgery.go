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

// ShrinkExpand projects/embeds d between two clock sets described by
// boolean masks: srcMask marks which of d's current clocks survive, in
// index order; dstMask marks which clocks of the resulting dimension
// receive a surviving clock, in the same order. Both masks must have an
// equal number of true entries. A clock position present in dst but not
// paired to a surviving src clock is left entirely unconstrained:
// callers that need it pinned to a value (the quotient clock starts at
// zero) do so afterwards with an explicit ApplyReset, the same way any
// other clock reset is expressed.
//
// This performs the whole dimension change as a single atomic surgery
// rather than one removal at a time, which is what lets a rewrite that
// shrinks the shared dimension do so across every zone in the tree
// together.
func (d *DBM) ShrinkExpand(srcMask, dstMask []bool) *DBM {
	if len(srcMask) != d.Dim {
		panic("zone: srcMask length mismatch in ShrinkExpand")
	}
	newDim := len(dstMask)
	out := Universe(newDim)

	var srcIdx, dstIdx []int
	for i, ok := range srcMask {
		if ok {
			srcIdx = append(srcIdx, i)
		}
	}
	for j, ok := range dstMask {
		if ok {
			dstIdx = append(dstIdx, j)
		}
	}
	if len(srcIdx) != len(dstIdx) {
		panic("zone: srcMask/dstMask true-count mismatch in ShrinkExpand")
	}

	for a, si := range srcIdx {
		for b, sj := range srcIdx {
			out.set(dstIdx[a], dstIdx[b], d.at(si, sj))
		}
	}
	if !out.close() {
		// The caller is responsible for treating this as the fatal
		// "shrink_expand produced an empty zone" condition; this package only performs the surgery, it doesn't know
		// whether the original was non-empty.
		return out
	}
	return out
}

// ShrinkExpand applies the dimension surgery to every disjunct.
func (z Zone) ShrinkExpand(srcMask, dstMask []bool) Zone {
	out := Zone{Dim: len(dstMask), Disjuncts: make([]*DBM, len(z.Disjuncts))}
	for i, d := range z.Disjuncts {
		out.Disjuncts[i] = d.ShrinkExpand(srcMask, dstMask)
	}
	return out
}
