package solve

import (
	"context"
	"errors"
	"fmt"

	"zappem.net/pub/math/algsolve/classify"
	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/groebner"
	"zappem.net/pub/math/algsolve/roots"
	"zappem.net/pub/math/algsolve/symbol"
)

// Strategy solves a single equation in one variable. Failing to find
// a closed form is reported as Indeterminate, never as an error.
type Strategy interface {
	Name() string
	Solve(ctx context.Context, eq expr.Expr, x symbol.Symbol) Result
}

// SystemStrategy solves a set of equations in several variables.
type SystemStrategy interface {
	Name() string
	SolveSystem(ctx context.Context, eqs []expr.Expr, vars []symbol.Symbol) Result
}

// ErrMiscabled is returned by NewTable for a table that would route a
// category nowhere or to the wrong kind of strategy.
var ErrMiscabled = errors.New("miscabled dispatch table")

// Table maps categories to strategies. The System category has its own
// slot typed SystemStrategy.
type Table struct {
	single map[classify.Category]Strategy
	system SystemStrategy
}

// singles lists the categories a table must route to a Strategy.
var singles = []classify.Category{
	classify.Constant, classify.Linear, classify.Quadratic, classify.Cubic,
	classify.Quartic, classify.Transcendental, classify.ODE, classify.PDE,
}

// NewTable checks and assembles a dispatch table.
func NewTable(single map[classify.Category]Strategy, system SystemStrategy) (*Table, error) {
	if system == nil {
		return nil, fmt.Errorf("%w: no system strategy", ErrMiscabled)
	}
	t := &Table{single: make(map[classify.Category]Strategy, len(single)), system: system}
	for c, s := range single {
		switch c {
		case classify.System, classify.Unknown, classify.Unclassified:
			return nil, fmt.Errorf("%w: %v cannot take a single equation strategy", ErrMiscabled, c)
		}
		if s == nil {
			return nil, fmt.Errorf("%w: nil strategy for %v", ErrMiscabled, c)
		}
		t.single[c] = s
	}
	for _, c := range singles {
		if _, ok := t.single[c]; !ok {
			return nil, fmt.Errorf("%w: no strategy for %v", ErrMiscabled, c)
		}
	}
	return t, nil
}

// DefaultTable is the one place the builtin strategies are wired to
// their categories.
func DefaultTable(opts groebner.Options) *Table {
	t, err := NewTable(map[classify.Category]Strategy{
		classify.Constant:       constantStrategy{},
		classify.Linear:         rootStrategy{name: "linear"},
		classify.Quadratic:      rootStrategy{name: "quadratic"},
		classify.Cubic:          rootStrategy{name: "cubic"},
		classify.Quartic:        rootStrategy{name: "quartic"},
		classify.Transcendental: transcendentalStrategy{},
		classify.ODE:            differentialStrategy{name: "ode"},
		classify.PDE:            differentialStrategy{name: "pde"},
	}, &SystemSolver{Options: opts})
	if err != nil {
		panic(err)
	}
	return t
}

// Strategy returns the strategy for a single equation category.
func (t *Table) Strategy(c classify.Category) (Strategy, bool) {
	s, ok := t.single[c]
	return s, ok
}

// System returns the system strategy.
func (t *Table) System() SystemStrategy {
	return t.system
}

// constantStrategy handles equations free of the variable.
type constantStrategy struct{}

func (constantStrategy) Name() string { return "constant" }

func (constantStrategy) Solve(_ context.Context, eq expr.Expr, x symbol.Symbol) Result {
	d := expr.Expand(expr.Residual(eq))
	if d.IsZero() {
		return Result{Outcome: InfiniteSolutions, Relations: []expr.Expr{expr.Sym(x)}, Reason: "identity"}
	}
	switch sign(d) {
	case 1, -1:
		return Result{Outcome: NoSolution, Reason: fmt.Sprintf("%v is not zero", d)}
	}
	return Result{Outcome: Indeterminate, Relations: []expr.Expr{expr.Eq(d, expr.Int(0))}, Reason: "depends on parameters"}
}

// rootStrategy solves polynomial equations in closed form.
type rootStrategy struct{ name string }

func (s rootStrategy) Name() string { return s.name }

func (rootStrategy) Solve(_ context.Context, eq expr.Expr, x symbol.Symbol) Result {
	return fromRoots(eq, x)
}

func fromRoots(eq expr.Expr, x symbol.Symbol) Result {
	res, err := roots.Solve(eq, x)
	if err != nil {
		return Result{Outcome: Indeterminate, Relations: []expr.Expr{eq}, Reason: err.Error()}
	}
	var r Result
	for _, v := range res.Roots {
		r.Solutions = append(r.Solutions, Solution{{Var: x, Value: v}})
	}
	if !res.Complete {
		r.Outcome = Indeterminate
		r.Relations = []expr.Expr{eq}
		r.Reason = res.Method
		return r
	}
	r = counted(r)
	if r.Outcome == NoSolution {
		r.Reason = "no real roots"
	}
	return r
}

// transcendentalStrategy tries polynomials of high degree and gives up
// on everything else.
type transcendentalStrategy struct{}

func (transcendentalStrategy) Name() string { return "transcendental" }

func (transcendentalStrategy) Solve(_ context.Context, eq expr.Expr, x symbol.Symbol) Result {
	if _, ok := expr.Degree(expr.Residual(eq), x); ok {
		return fromRoots(eq, x)
	}
	return Result{Outcome: Indeterminate, Relations: []expr.Expr{eq}, Reason: "no closed form for transcendental equation"}
}

// differentialStrategy reports differential equations as outside the
// algebraic solvers.
type differentialStrategy struct{ name string }

func (s differentialStrategy) Name() string { return s.name }

func (s differentialStrategy) Solve(_ context.Context, eq expr.Expr, _ symbol.Symbol) Result {
	return Result{Outcome: Indeterminate, Relations: []expr.Expr{eq}, Reason: s.name + " solving is not supported"}
}
