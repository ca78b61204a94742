package solve

import (
	"context"
	"errors"
	"fmt"
	"math"

	"zappem.net/pub/math/algsolve/classify"
	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/groebner"
	"zappem.net/pub/math/algsolve/matrix"
	"zappem.net/pub/math/algsolve/number"
	"zappem.net/pub/math/algsolve/poly"
	"zappem.net/pub/math/algsolve/symbol"
)

// SystemSolver solves linear systems by elimination and polynomial
// systems through a lex Gröbner basis.
type SystemSolver struct {
	// Options are passed to every basis computation. The order of
	// the ring is always lex.
	Options groebner.Options
}

func (*SystemSolver) Name() string { return "system" }

// SolveSystem treats a single equation as a one equation system.
func (s *SystemSolver) SolveSystem(ctx context.Context, eqs []expr.Expr, vars []symbol.Symbol) Result {
	c := classify.ClassifySystem(eqs, vars)
	switch {
	case c.Category != classify.System:
		return Result{Outcome: Indeterminate, Relations: eqs, Reason: c.Reason}
	case c.System == classify.LinearSystem:
		return Linear(eqs, vars)
	case c.System == classify.PolynomialSystem:
		return s.polynomial(ctx, eqs, vars)
	}
	return Result{Outcome: Indeterminate, Relations: eqs, Reason: c.Reason}
}

// Linear solves a system of degree one equations by Gauss-Jordan
// elimination of the augmented matrix. Coefficients must be numbers.
func Linear(eqs []expr.Expr, vars []symbol.Symbol) Result {
	n := len(vars)
	m, err := matrix.NewMatrix(len(eqs), n+1)
	if err != nil {
		return Result{Outcome: Indeterminate, Relations: eqs, Reason: err.Error()}
	}
	zero := make(map[symbol.Symbol]expr.Expr, n)
	for _, v := range vars {
		zero[v] = expr.Int(0)
	}
	for i, eq := range eqs {
		d := expr.Expand(expr.Residual(eq))
		for j, v := range vars {
			cs, _ := expr.Coefficients(d, v)
			c := expr.Int(0)
			if k, ok := cs[1]; ok {
				c = k
			}
			val, ok := c.Number()
			if !ok {
				return Result{Outcome: Indeterminate, Relations: eqs, Reason: fmt.Sprintf("coefficient %v of %v is not a number", c, v)}
			}
			m.Set(i, j, val)
		}
		k := expr.Expand(expr.SubstituteAll(d, zero))
		val, ok := k.Number()
		if !ok {
			return Result{Outcome: Indeterminate, Relations: eqs, Reason: fmt.Sprintf("constant term %v is not a number", k)}
		}
		m.Set(i, n, val.Neg())
	}

	ech, pivots := m.Echelon(n)
	if m.Rank() > len(pivots) {
		return Result{Outcome: NoSolution, Reason: "inconsistent linear system"}
	}
	if len(pivots) == n {
		xv, _ := matrix.NewMatrix(n, 1)
		sol := make(Solution, n)
		for i, v := range vars {
			xv.Set(i, 0, ech.El(i, n))
			sol[i] = Assignment{Var: v, Value: expr.Num(ech.El(i, n))}
		}
		if err := verify(m, xv); err != nil {
			return Result{Outcome: Indeterminate, Relations: eqs, Reason: err.Error()}
		}
		return Result{Outcome: UniqueSolution, Solutions: []Solution{sol}}
	}

	pivot := make(map[int]bool, len(pivots))
	for _, p := range pivots {
		pivot[p] = true
	}
	var rels []expr.Expr
	for row, p := range pivots {
		rhs := []expr.Expr{expr.Num(ech.El(row, n))}
		for j := range vars {
			if pivot[j] || ech.El(row, j).IsZero() {
				continue
			}
			rhs = append(rhs, expr.Mul(expr.Num(ech.El(row, j).Neg()), expr.Sym(vars[j])))
		}
		rels = append(rels, expr.Eq(expr.Sym(vars[p]), expr.Add(rhs...)))
	}
	return Result{
		Outcome:   InfiniteSolutions,
		Relations: rels,
		Reason:    fmt.Sprintf("rank %d with %d variables", len(pivots), n),
	}
}

// residualTolerance is relative to the size of the system.
const residualTolerance = 1e-9

// verify substitutes xv into the augmented system [A|b] and checks
// that A*xv - b vanishes.
func verify(aug, xv *matrix.Matrix) error {
	n := aug.Cols() - 1
	a, err := aug.Columns(0, n)
	if err != nil {
		return err
	}
	b, err := aug.Columns(n, n+1)
	if err != nil {
		return err
	}
	ax, err := a.Mul(xv)
	if err != nil {
		return err
	}
	d, err := ax.Sum(b, number.Int(-1))
	if err != nil {
		return err
	}
	if r := d.Norm(); r > residualTolerance*(1+a.Norm()*xv.Norm()+b.Norm()) {
		return fmt.Errorf("solution check failed: residual %g", r)
	}
	return nil
}

func (s *SystemSolver) polynomial(ctx context.Context, eqs []expr.Expr, vars []symbol.Symbol) Result {
	r, err := poly.NewRing(poly.Lex, vars...)
	if err != nil {
		return Result{Outcome: Indeterminate, Relations: eqs, Reason: err.Error()}
	}
	var gens []*poly.Poly
	for _, eq := range eqs {
		p, err := poly.FromExpr(r, expr.Residual(eq))
		if err != nil {
			return Result{Outcome: Indeterminate, Relations: eqs, Reason: err.Error()}
		}
		gens = append(gens, p)
	}

	opts := s.Options
	opts.RecordSteps = true
	b, err := groebner.Compute(ctx, r, gens, opts)
	switch {
	case errors.Is(err, groebner.ErrBudgetExhausted):
		return Result{Outcome: Indeterminate, Basis: b.Exprs(), Steps: b.Steps, Reason: err.Error(), Partial: true}
	case err != nil:
		return Result{Outcome: Indeterminate, Relations: eqs, Reason: err.Error()}
	}
	res := Result{Basis: b.Exprs(), Steps: b.Steps}

	ex := b.Extract()
	for _, vals := range ex.Solutions {
		sol := make(Solution, len(vars))
		for i, v := range vars {
			sol[i] = Assignment{Var: v, Value: vals[i]}
		}
		res.Solutions = append(res.Solutions, sol)
	}
	switch ex.Status {
	case groebner.Inconsistent:
		res.Outcome = NoSolution
		res.Reason = "inconsistent: " + ex.Reason
	case groebner.Complete:
		res = counted(res)
		if res.Outcome == NoSolution {
			res.Reason = "no real solutions"
		}
	case groebner.PositiveDimensional:
		res.Outcome = InfiniteSolutions
		for _, e := range res.Basis {
			res.Relations = append(res.Relations, expr.Eq(e, expr.Int(0)))
		}
		res.Reason = ex.Reason
	default:
		res.Outcome = Indeterminate
		res.Reason = ex.Reason
	}
	return res
}

// sign returns -1, 0 or 1 for a decidable closed expression and 2
// otherwise.
func sign(e expr.Expr) int {
	if v, ok := e.Number(); ok {
		return v.Sign()
	}
	f, ok := expr.Evalf(e)
	switch {
	case !ok || math.Abs(f) < 1e-12:
		return 2
	case f < 0:
		return -1
	}
	return 1
}
