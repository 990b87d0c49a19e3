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

// Package query implements the mapping from the query surface onto the engine's
// entry points: recipe construction, clock reduction, and the
// consistency/determinism/reachability checks. Refinement's search
// itself stays a named collaborator;
// this package only builds the two operand trees it would run against.
package query

import (
	"fmt"

	"github.com/tamc-project/tamc/errors"
	"github.com/tamc-project/tamc/internal/core/clockreduce"
	"github.com/tamc-project/tamc/internal/core/decl"
	"github.com/tamc-project/tamc/internal/core/recipe"
	"github.com/tamc-project/tamc/internal/core/tsys"
)

// Outcome is the exit condition every query returns:
// Success, PropertyFailed (expected outcome for a failing
// consistency/determinism/refinement query), or ModelError (construction
// or user error).
type Outcome int

const (
	Success Outcome = iota
	PropertyFailed
	ModelError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case PropertyFailed:
		return "PropertyFailed"
	case ModelError:
		return "ModelError"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the value every query entry point below returns.
type Result struct {
	Outcome Outcome
	Kind    string // property kind on PropertyFailed ("consistency", "determinism", ...), reason on ModelError; empty on Success
	Witness string
	Err     error // set when Outcome == ModelError
}

func success() Result { return Result{Outcome: Success} }

func modelError(reason string, err error) Result {
	return Result{Outcome: ModelError, Kind: reason, Err: err}
}

// ReduceClocks runs clock-reduction analysis and rewrite over a single
// compiled system in place, for the single-top-level-
// operand queries (consistency, determinism, reachability,
// get-component, syntax). Refinement's two-operand filtering is
// ReduceClocksForRefinement below.
func ReduceClocks(n tsys.Node, global *decl.Table, exempt []decl.ClockIndex) error {
	instr := clockreduce.Analyze(n, exempt)
	return clockreduce.Rewrite(n, global, instr)
}

// ReduceClocksForRefinement runs the multi-operand filtered reduction
// over a
// refinement's two independently-built operand trees.
func ReduceClocksForRefinement(left, right tsys.Node, leftDecl, rightDecl *decl.Table, leftExempt, rightExempt []decl.ClockIndex) error {
	leftInstr := clockreduce.Analyze(left, leftExempt)
	rightInstr := clockreduce.Analyze(right, rightExempt)
	leftInstr, rightInstr = clockreduce.FilterForTwoOperands(leftDecl, rightDecl, leftInstr, rightInstr)
	if err := clockreduce.Rewrite(left, leftDecl, leftInstr); err != nil {
		return err
	}
	return clockreduce.Rewrite(right, rightDecl, rightInstr)
}

// Build compiles a SystemRecipe into a TransitionSystem tree, surfacing
// construction errors as ModelError.
func Build(r *recipe.Recipe) (tsys.Node, *decl.Table, Result) {
	n, global, err := recipe.Build(r)
	if err != nil {
		return nil, nil, modelError(constructionReason(err), err)
	}
	return n, global, success()
}

func constructionReason(err error) string {
	if d, ok := err.(*errors.Diagnostic); ok {
		switch d.Code {
		case errors.ConstructionError:
			return "action-sets-not-disjoint"
		case errors.UserError:
			return "unknown-location"
		}
	}
	return "construction-error"
}

// Consistency implements the `consistency: S` query.
func Consistency(n tsys.Node) Result {
	if _, _, ok := n.InitialState(); !ok {
		return modelError("empty-initial-state", fmt.Errorf("initial state is empty"))
	}
	if f := n.CheckLocalConsistency(); f != nil {
		return Result{Outcome: PropertyFailed, Kind: "consistency",
			Witness: fmt.Sprintf("%s: %s", f.Location, f.Reason)}
	}
	return success()
}

// Determinism implements the `determinism: S` query.
func Determinism(n tsys.Node) Result {
	if _, _, ok := n.InitialState(); !ok {
		return modelError("empty-initial-state", fmt.Errorf("initial state is empty"))
	}
	if f := n.CheckDeterminism(); f != nil {
		return Result{Outcome: PropertyFailed, Kind: "determinism",
			Witness: fmt.Sprintf("%s on %q: %s vs %s", f.Location, f.Action, f.First, f.Second)}
	}
	return success()
}

// Reachability implements the `reachability: S @ start -> target` query
// shape: this module builds the start/target location trees
// and confirms reachability is at least not vacuous (start and target
// locations exist, and a defaulted start requires a non-empty initial
// state); the invariants of an explicitly named start or target are not
// checked. The search itself is this query's analogous out-of-scope
// oracle and is not implemented by this package.
func Reachability(n tsys.Node, start, target tsys.SpecificLocation) Result {
	var startLoc *tsys.LocationTree
	var err error
	if start.Name == "" && start.Left == nil && !start.Any {
		// start is optional and defaults to the initial state.
		var ok bool
		startLoc, _, ok = n.InitialState()
		if !ok {
			return modelError("empty-initial-state", fmt.Errorf("initial state is empty"))
		}
	} else {
		startLoc, err = tsys.ConstructLocationTree(n, start)
		if err != nil {
			return modelError("unknown-location", err)
		}
	}
	if startLoc == nil {
		return modelError("empty-initial-state", fmt.Errorf("start location not found"))
	}
	if _, err := tsys.ConstructLocationTree(n, target); err != nil {
		return modelError("unknown-location", err)
	}
	return success()
}

// GetComponent implements `get-component: S save-as name`:
// the engine persists nothing itself; this
// just confirms the system is well-formed enough to flatten, leaving the
// actual document serialization to the loader collaborator.
func GetComponent(n tsys.Node) Result {
	if _, _, ok := n.InitialState(); !ok {
		return modelError("empty-initial-state", fmt.Errorf("initial state is empty"))
	}
	return success()
}

// Syntax implements `syntax: C`: a pure well-formedness
// check with no property to fail, so only ModelError/Success occur.
func Syntax(n tsys.Node) Result {
	if _, _, ok := n.InitialState(); !ok {
		return modelError("empty-initial-state", fmt.Errorf("initial state is empty"))
	}
	return success()
}
