// Package solve routes classified equations and systems to solving
// strategies and returns uniform results.
package solve

import (
	"encoding/json"
	"fmt"
	"strings"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/symbol"
)

// Outcome tags a Result.
type Outcome int

const (
	Indeterminate Outcome = iota
	NoSolution
	UniqueSolution
	MultipleSolutions
	InfiniteSolutions
)

var outcomeNames = [...]string{"indeterminate", "none", "unique", "multiple", "infinite"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// MarshalText encodes the outcome name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	for i, n := range outcomeNames {
		if n == string(text) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Assignment binds one variable to a value.
type Assignment struct {
	Var   symbol.Symbol
	Value expr.Expr
}

type wireAssignment struct {
	Var   string    `json:"var"`
	Value expr.Expr `json:"value"`
}

// MarshalJSON encodes the variable by name.
func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireAssignment{Var: a.Var.Name(), Value: a.Value})
}

// UnmarshalJSON interns the variable name.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var w wireAssignment
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s, err := symbol.New(w.Var)
	if err != nil {
		return fmt.Errorf("assignment variable: %w", err)
	}
	a.Var, a.Value = s, w.Value
	return nil
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s = %v", a.Var.Name(), a.Value)
}

// Solution is one tuple of assignments, in variable order.
type Solution []Assignment

func (s Solution) String() string {
	var parts []string
	for _, a := range s {
		parts = append(parts, a.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Result is returned by every strategy.
type Result struct {
	Outcome   Outcome    `json:"outcome"`
	Solutions []Solution `json:"solutions,omitempty"`
	// Relations describe infinite solution sets, e.g. x = 1 - y, or
	// the residual system an Indeterminate result could not solve.
	Relations []expr.Expr `json:"relations,omitempty"`
	// Basis is the Gröbner basis, possibly partial, behind a
	// polynomial system result.
	Basis  []expr.Expr `json:"basis,omitempty"`
	Reason string      `json:"reason,omitempty"`
	Steps  []expr.Step `json:"steps,omitempty"`
	// Partial marks a result cut short by a pair budget or the
	// context. It holds for the call that produced it only.
	Partial bool `json:"partial,omitempty"`
}

// counted sets the outcome from the number of solutions.
func counted(r Result) Result {
	switch len(r.Solutions) {
	case 0:
		r.Outcome = NoSolution
	case 1:
		r.Outcome = UniqueSolution
	default:
		r.Outcome = MultipleSolutions
	}
	return r
}

func (r Result) String() string {
	var b strings.Builder
	b.WriteString(r.Outcome.String())
	for _, s := range r.Solutions {
		b.WriteString(" ")
		b.WriteString(s.String())
	}
	for _, e := range r.Relations {
		b.WriteString(" ")
		b.WriteString(e.String())
	}
	if r.Reason != "" {
		fmt.Fprintf(&b, " (%s)", r.Reason)
	}
	return b.String()
}
