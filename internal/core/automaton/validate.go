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

package automaton

import (
	"sort"

	"github.com/tamc-project/tamc/errors"
	"github.com/tamc-project/tamc/token"
)

// Validate checks the structural invariants every component must satisfy
// before it can be compiled: input and output action sets disjoint,
// every edge's endpoints declared, and the initial location declared.
func (c *Component) Validate() error {
	var list errors.List
	for _, a := range sortedActions(c.InputActions) {
		if _, ok := c.OutputActions[a]; ok {
			list = errors.Append(list, errors.New(errors.ConstructionError, token.NoPos,
				[]string{c.Name}, "action %q is both input and output", a))
		}
	}
	if c.LocationByName(c.Initial) == nil {
		list = errors.Append(list, errors.New(errors.ConstructionError, token.NoPos,
			[]string{c.Name}, "initial location %q not declared", c.Initial))
	}
	for _, e := range c.Edges {
		if c.LocationByName(e.Source) == nil {
			list = errors.Append(list, errors.New(errors.ConstructionError, e.Pos,
				[]string{c.Name, e.ID}, "edge source %q not declared", e.Source))
		}
		if c.LocationByName(e.Target) == nil {
			list = errors.Append(list, errors.New(errors.ConstructionError, e.Pos,
				[]string{c.Name, e.ID}, "edge target %q not declared", e.Target))
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

// sortedActions returns the keys of a set, sorted, used so construction
// error messages are deterministic.
func sortedActions(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
