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

// reachable performs the BFS over (location, action) pairs spec.md §9
// requires ("traversals use explicit work-queues keyed by location ID
// plus a visited-set") to enumerate every LocationTree reachable from
// start by firing n's actions. Used by the composed nodes'
// AllLocations; the clock-reduction analysis graph builder runs its own
// BFS.
func reachable(n Node, start *LocationTree) []*LocationTree {
	visited := map[string]*LocationTree{start.ID.Key(): start}
	queue := []*LocationTree{start}
	actions := n.Actions()
	for len(queue) > 0 {
		loc := queue[0]
		queue = queue[1:]
		for a := range actions {
			for _, t := range n.NextTransitions(loc, a) {
				key := t.Target.ID.Key()
				if _, ok := visited[key]; ok {
					continue
				}
				visited[key] = t.Target
				queue = append(queue, t.Target)
			}
		}
	}
	out := make([]*LocationTree, 0, len(visited))
	for _, l := range visited {
		out = append(out, l)
	}
	return out
}
