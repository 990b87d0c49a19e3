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

// Package errors defines the diagnostic and error taxonomy shared across the
// engine: construction errors (bubble up and abort), semantic failures
// (consistency/determinism/refinement, returned as values), user errors
// (ambiguous references), and zone-surgery invariant panics.
package errors

import (
	"fmt"
	"strings"

	"github.com/tamc-project/tamc/token"
)

// Code identifies the category of a Diagnostic. The category may influence
// control flow (construction errors abort; semantic failures are values);
// no other aspect of an error should influence control flow.
type Code int8

var codeNames = [...]string{
	ConstructionError:  "construction",
	UserError:          "user",
	ConsistencyFailure: "consistency",
	DeterminismFailure: "determinism",
	RefinementFailure:  "refinement",
}

func (c Code) String() string {
	if int(c) < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

const (
	// ConstructionError is raised while compiling a SystemRecipe into a
	// TransitionSystem tree: disjoint-IO violations, conjunction
	// action-set mismatches, missing declarations.
	ConstructionError Code = iota // construction

	// UserError is raised for ambiguous component/location references in a
	// reachability target.
	UserError // user

	// ConsistencyFailure is the expected outcome of a failing
	// consistency query, not a bug.
	ConsistencyFailure // consistency

	// DeterminismFailure is the expected outcome of a failing determinism
	// query, not a bug.
	DeterminismFailure // determinism

	// RefinementFailure is the expected outcome of a failing refinement
	// query (produced by the out-of-scope refinement search oracle; the
	// code is reserved here so the witness shape is shared).
	RefinementFailure // refinement
)

// A Diagnostic is a single reportable error with enough context to
// regenerate a counter-example path externally (spec §7).
type Diagnostic struct {
	Code    Code
	Format  string
	Args    []any
	Pos     token.Pos
	Path    []string // component/location path, outermost first
	Witness string   // enabling zone / conflicting-edge summary, if any
}

func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf(d.Format, d.Args...)
	var b strings.Builder
	b.WriteString(msg)
	if d.Pos.IsValid() {
		fmt.Fprintf(&b, " (%s)", d.Pos)
	}
	if len(d.Path) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(d.Path, "."))
	}
	if d.Witness != "" {
		fmt.Fprintf(&b, ": %s", d.Witness)
	}
	return b.String()
}

// Position returns the primary position of the diagnostic.
func (d *Diagnostic) Position() token.Pos { return d.Pos }

// Msg returns the unformatted message and its arguments for human
// consumption, mirroring the accessor shape of cue/errors.Error.
func (d *Diagnostic) Msg() (string, []any) { return d.Format, d.Args }

// New builds a Diagnostic of the given code.
func New(code Code, pos token.Pos, path []string, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Format: format, Args: args, Pos: pos, Path: path}
}

// WithWitness attaches a zone/conflicting-edge summary and returns the
// receiver for chaining.
func (d *Diagnostic) WithWitness(witness string) *Diagnostic {
	d.Witness = witness
	return d
}

// List is a multi-error collecting one or more Diagnostics, used where a
// single construction pass can surface more than one problem (for example,
// a conjunction mismatching on more than one action).
type List []*Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l))
	for _, d := range l {
		b.WriteString("\n\t")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Append adds err to the list, flattening nested Lists.
func Append(l List, err error) List {
	switch x := err.(type) {
	case nil:
		return l
	case List:
		return append(l, x...)
	case *Diagnostic:
		return append(l, x)
	default:
		return append(l, &Diagnostic{Code: ConstructionError, Format: "%v", Args: []any{err}})
	}
}

// ZoneInvariantPanic is raised (via panic, never returned) when a
// shrink_expand or other zone-surgery step produces an empty zone where
// the original was non-empty. Spec §7: "zone invariant violations panic
// (they indicate a clock-reduction or engine bug, not bad input)."
type ZoneInvariantPanic struct {
	Op      string
	Context string
}

func (p *ZoneInvariantPanic) Error() string {
	return fmt.Sprintf("zone invariant violated during %s: %s", p.Op, p.Context)
}

// PanicZoneInvariant panics with a ZoneInvariantPanic, the panic used for
// zone-surgery invariant violations (spec §4.6, §7). Other packages
// still panic directly on internal misuse such as mismatched dimensions.
func PanicZoneInvariant(op, context string) {
	panic(&ZoneInvariantPanic{Op: op, Context: context})
}
