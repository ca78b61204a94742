// Package classify assigns equations and systems of equations to the
// categories used to pick a solving strategy.
package classify

import (
	"fmt"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/symbol"
)

// Category is the verdict for an equation or system.
type Category int

const (
	Unclassified Category = iota
	Constant
	Linear
	Quadratic
	Cubic
	Quartic
	Transcendental
	System
	ODE
	PDE
	Unknown
)

var categoryNames = [...]string{
	"unclassified", "constant", "linear", "quadratic", "cubic", "quartic",
	"transcendental", "system", "ode", "pde", "unknown",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// SystemKind refines the System category.
type SystemKind int

const (
	NotSystem SystemKind = iota
	LinearSystem
	PolynomialSystem
	NonPolynomialSystem
)

var systemNames = [...]string{"", "linear", "polynomial", "non-polynomial"}

func (k SystemKind) String() string {
	if k < 0 || int(k) >= len(systemNames) {
		return fmt.Sprintf("SystemKind(%d)", int(k))
	}
	return systemNames[k]
}

// Classification is the outcome of Classify or ClassifySystem.
type Classification struct {
	Category Category
	System   SystemKind
	// Degree is the polynomial degree in the target for single
	// equations, and the largest total degree for polynomial systems.
	Degree int
	// Reason explains Unknown and Transcendental verdicts.
	Reason string
}

func (c Classification) String() string {
	if c.Category == System {
		return fmt.Sprintf("system/%v", c.System)
	}
	return c.Category.String()
}

func unknown(format string, args ...any) Classification {
	return Classification{Category: Unknown, Reason: fmt.Sprintf(format, args...)}
}

// Classify inspects lhs - rhs of eq as a function of x.
func Classify(eq expr.Expr, x symbol.Symbol) Classification {
	if c, bad := check(eq); bad {
		return c
	}
	if !x.Valid() {
		return unknown("no target variable")
	}
	if vs := derivativeVars(eq); len(vs) > 0 {
		if len(vs) == 1 {
			return Classification{Category: ODE, Reason: fmt.Sprintf("derivative in %v", vs[0])}
		}
		return Classification{Category: PDE, Reason: fmt.Sprintf("derivatives in %d variables", len(vs))}
	}
	d := expr.Residual(eq)
	if !expr.Has(d, x) {
		return Classification{Category: Constant}
	}
	deg, ok := expr.Degree(d, x)
	if !ok {
		return Classification{Category: Transcendental, Reason: fmt.Sprintf("%v is not polynomial in %v", d, x)}
	}
	c := Classification{Degree: deg}
	switch deg {
	case 0:
		c.Category = Constant
	case 1:
		c.Category = Linear
	case 2:
		c.Category = Quadratic
	case 3:
		c.Category = Cubic
	case 4:
		c.Category = Quartic
	default:
		c.Category = Transcendental
		c.Reason = fmt.Sprintf("degree %d", deg)
	}
	return c
}

// ClassifySystem tags a set of equations over vars as a linear,
// polynomial or non-polynomial System. A system is linear only when
// every equation has total degree at most 1 in vars.
func ClassifySystem(eqs []expr.Expr, vars []symbol.Symbol) Classification {
	if len(eqs) == 0 {
		return unknown("empty system")
	}
	if len(vars) == 0 {
		return unknown("no target variables")
	}
	seen := make(map[symbol.Symbol]bool, len(vars))
	for _, v := range vars {
		if !v.Valid() {
			return unknown("invalid target variable")
		}
		if seen[v] {
			return unknown("duplicate target variable %v", v)
		}
		seen[v] = true
	}
	c := Classification{Category: System, System: LinearSystem}
	for _, eq := range eqs {
		if u, bad := check(eq); bad {
			return u
		}
		deg, ok := TotalDegree(expr.Residual(eq), vars)
		if !ok {
			c.System = NonPolynomialSystem
			c.Reason = fmt.Sprintf("%v is not polynomial in the variables", eq)
			c.Degree = 0
			return c
		}
		if deg > c.Degree {
			c.Degree = deg
		}
	}
	if c.Degree > 1 {
		c.System = PolynomialSystem
	}
	return c
}

// TotalDegree returns the total degree of e in vars. The boolean is
// false when some variable occurs other than with a non-negative
// integer exponent.
func TotalDegree(e expr.Expr, vars []symbol.Symbol) (int, bool) {
	in := func(s symbol.Symbol) bool {
		for _, v := range vars {
			if v == s {
				return true
			}
		}
		return false
	}
	has := func(f expr.Expr) bool {
		for _, v := range vars {
			if expr.Has(f, v) {
				return true
			}
		}
		return false
	}
	ex := expr.Expand(e)
	if ex.IsUndefined() {
		return 0, false
	}
	top := 0
	for _, t := range expr.Terms(ex) {
		deg := 0
		for _, f := range expr.Factors(t) {
			if s, ok := f.Symbol(); ok && in(s) {
				deg++
				continue
			}
			if s, ok := f.Base().Symbol(); ok && in(s) && f.Kind() == expr.Power {
				v, isNum := f.Exponent().Number()
				n, isInt := v.Int64()
				if !isNum || !isInt || n < 0 {
					return 0, false
				}
				deg += int(n)
				continue
			}
			if has(f) {
				return 0, false
			}
		}
		if deg > top {
			top = deg
		}
	}
	return top, true
}

// check rejects input that is not a well formed equation.
func check(eq expr.Expr) (Classification, bool) {
	if eq.Kind() != expr.Equation {
		return unknown("%v is not an equation", eq), true
	}
	bad := Classification{}
	walk(eq, func(e expr.Expr, top bool) bool {
		switch {
		case e.IsUndefined():
			bad = unknown("undefined: %s", e.Reason())
		case e.Kind() == expr.Equation && !top:
			bad = unknown("nested equation")
		default:
			return true
		}
		return false
	})
	return bad, bad.Category == Unknown
}

// walk visits e and its descendants until f returns false.
func walk(e expr.Expr, f func(e expr.Expr, top bool) bool) {
	var rec func(e expr.Expr, top bool) bool
	rec = func(e expr.Expr, top bool) bool {
		if !f(e, top) {
			return false
		}
		for i := 0; i < e.Len(); i++ {
			if !rec(e.Arg(i), false) {
				return false
			}
		}
		return true
	}
	rec(e, true)
}

// derivativeVars lists the distinct differentiation variables of the
// unevaluated derivatives in e.
func derivativeVars(e expr.Expr) []symbol.Symbol {
	var vs []symbol.Symbol
	seen := make(map[symbol.Symbol]bool)
	walk(e, func(x expr.Expr, _ bool) bool {
		if x.Kind() != expr.Call || x.Name() != expr.DerivativeName {
			return true
		}
		for i := 1; i < x.Len(); i++ {
			if s, ok := x.Arg(i).Symbol(); ok && !seen[s] {
				seen[s] = true
				vs = append(vs, s)
			}
		}
		return true
	})
	symbol.Sort(vs)
	return vs
}
