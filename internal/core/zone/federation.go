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

// A Zone is a DBM or a union of DBMs — a federation. The empty federation (no disjuncts) denotes
// the empty set of valuations.
type Zone struct {
	Dim     int
	Disjuncts []*DBM
}

// NewUniverse returns the zone placing no constraint on any clock.
func NewUniverse(dim int) Zone {
	return Zone{Dim: dim, Disjuncts: []*DBM{Universe(dim)}}
}

// NewInit returns the zone where every clock equals zero.
func NewInit(dim int) Zone {
	return Zone{Dim: dim, Disjuncts: []*DBM{InitZero(dim)}}
}

// Empty returns the zone containing no valuations.
func Empty(dim int) Zone {
	return Zone{Dim: dim}
}

// FromDBM lifts a single conjunctive DBM to a one-disjunct federation.
func FromDBM(d *DBM) Zone {
	return Zone{Dim: d.Dim, Disjuncts: []*DBM{d}}
}

// IsEmpty reports whether every disjunct is empty.
func (z Zone) IsEmpty() bool {
	for _, d := range z.Disjuncts {
		if !d.IsEmpty() {
			return false
		}
	}
	return true
}

// Union appends other's disjuncts, used to compile a guard/invariant
// expressed as a disjunction of clock constraints.
func (z Zone) Union(other Zone) Zone {
	if z.Dim != other.Dim {
		panic("zone: dimension mismatch in Union")
	}
	out := Zone{Dim: z.Dim, Disjuncts: make([]*DBM, 0, len(z.Disjuncts)+len(other.Disjuncts))}
	out.Disjuncts = append(out.Disjuncts, z.Disjuncts...)
	out.Disjuncts = append(out.Disjuncts, other.Disjuncts...)
	return out
}

// Intersect returns the pairwise-intersected cross product of z and
// other's disjuncts, dropping any empty result.
func (z Zone) Intersect(other Zone) Zone {
	if z.Dim != other.Dim {
		panic("zone: dimension mismatch in Intersect")
	}
	out := Zone{Dim: z.Dim}
	for _, a := range z.Disjuncts {
		for _, b := range other.Disjuncts {
			if r, ok := a.Intersect(b); ok {
				out.Disjuncts = append(out.Disjuncts, r)
			}
		}
	}
	return out
}

// IntersectConstraints tightens every disjunct by cs.
func (z Zone) IntersectConstraints(cs []Constraint) Zone {
	out := Zone{Dim: z.Dim}
	for _, d := range z.Disjuncts {
		if r, ok := d.IntersectConstraints(cs); ok {
			out.Disjuncts = append(out.Disjuncts, r)
		}
	}
	return out
}

// ApplyUp lets time pass in every disjunct.
func (z Zone) ApplyUp() Zone {
	out := Zone{Dim: z.Dim, Disjuncts: make([]*DBM, len(z.Disjuncts))}
	for i, d := range z.Disjuncts {
		out.Disjuncts[i] = d.ApplyUp()
	}
	return out
}

// ApplyReset resets clock to value in every disjunct.
func (z Zone) ApplyReset(clock int, value int32) Zone {
	out := Zone{Dim: z.Dim, Disjuncts: make([]*DBM, len(z.Disjuncts))}
	for i, d := range z.Disjuncts {
		out.Disjuncts[i] = d.ApplyReset(clock, value)
	}
	return out
}

// Extrapolate widens every disjunct.
func (z Zone) Extrapolate(b Bounds) Zone {
	out := Zone{Dim: z.Dim, Disjuncts: make([]*DBM, len(z.Disjuncts))}
	for i, d := range z.Disjuncts {
		out.Disjuncts[i] = d.Extrapolate(b)
	}
	return out
}

// MinimalConstraints returns the union, over all disjuncts, of each
// disjunct's tight constraints. The
// clock-reduction analysis only needs this to ask "does
// this zone mention clock c anywhere", so duplicate constraints across
// disjuncts are left in rather than deduplicated.
func (z Zone) MinimalConstraints() []Constraint {
	var cs []Constraint
	for _, d := range z.Disjuncts {
		cs = append(cs, d.MinimalConstraints()...)
	}
	return cs
}

// ReplaceClocks applies DBM.ReplaceClocks to every disjunct.
func (z Zone) ReplaceClocks(old2new map[int]int) Zone {
	out := Zone{Dim: z.Dim, Disjuncts: make([]*DBM, len(z.Disjuncts))}
	for i, d := range z.Disjuncts {
		out.Disjuncts[i] = d.ReplaceClocks(old2new)
	}
	return out
}

// Clone returns an independent copy of z.
func (z Zone) Clone() Zone {
	out := Zone{Dim: z.Dim, Disjuncts: make([]*DBM, len(z.Disjuncts))}
	for i, d := range z.Disjuncts {
		out.Disjuncts[i] = d.Clone()
	}
	return out
}
