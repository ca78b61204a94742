package groebner

import (
	"fmt"
	"math"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/poly"
	"zappem.net/pub/math/algsolve/roots"
	"zappem.net/pub/math/algsolve/symbol"
)

// Status classifies the outcome of reading solutions off a basis.
type Status int

const (
	// Incomplete means solutions may exist that were not extracted.
	Incomplete Status = iota
	// Complete means Solutions lists every real solution. An empty
	// list then proves there is no real solution.
	Complete
	// Inconsistent means 1 is in the ideal.
	Inconsistent
	// PositiveDimensional means the ideal has infinitely many complex
	// solutions.
	PositiveDimensional
)

var statusNames = [...]string{"incomplete", "complete", "inconsistent", "positive-dimensional"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Extraction holds the real solutions read off a lex basis. Each
// solution has one value per ring variable, in ring order.
type Extraction struct {
	Status    Status
	Solutions [][]expr.Expr
	Reason    string
}

// Extract back-substitutes through a reduced lex basis, solving for
// the last variable first. Bases under other orders, and partial
// bases, are reported Incomplete.
func (b *Basis) Extract() Extraction {
	switch {
	case !b.Reduced:
		return Extraction{Status: Incomplete, Reason: "basis computation did not finish"}
	case b.IsUnit():
		return Extraction{Status: Inconsistent, Reason: "1 is in the ideal"}
	case b.Ring.Order() != poly.Lex:
		return Extraction{Status: Incomplete, Reason: fmt.Sprintf("%v basis is not triangular", b.Ring.Order())}
	case !b.IsZeroDimensional():
		return Extraction{Status: PositiveDimensional, Reason: "ideal has positive dimension"}
	}

	vars := b.Ring.Vars()
	n := len(vars)
	groups := make([][]expr.Expr, n)
	for _, p := range b.Polys {
		u := p.Uses()
		first := -1
		for i, used := range u {
			if used {
				first = i
				break
			}
		}
		if first >= 0 {
			groups[first] = append(groups[first], p.Expr())
		}
	}

	out := Extraction{Status: Complete}
	partial := []map[symbol.Symbol]expr.Expr{{}}
	for i := n - 1; i >= 0; i-- {
		var next []map[symbol.Symbol]expr.Expr
		for _, known := range partial {
			vals, ok, why := solveGroup(groups[i], vars[i], known)
			if !ok {
				out.Status = Incomplete
				out.Reason = why
			}
			for _, v := range vals {
				m := make(map[symbol.Symbol]expr.Expr, len(known)+1)
				for s, e := range known {
					m[s] = e
				}
				m[vars[i]] = v
				next = append(next, m)
			}
		}
		partial = next
	}

	for _, m := range partial {
		sol := make([]expr.Expr, n)
		for i, v := range vars {
			sol[i] = m[v]
		}
		out.Solutions = append(out.Solutions, sol)
	}
	return out
}

// solveGroup finds the real values of x satisfying every polynomial in
// g once the known values are substituted. ok is false when some
// values may be missing or could not be verified.
func solveGroup(g []expr.Expr, x symbol.Symbol, known map[symbol.Symbol]expr.Expr) (vals []expr.Expr, ok bool, why string) {
	subst := make([]expr.Expr, len(g))
	pick, low := -1, 0
	for k, e := range g {
		subst[k] = expr.Expand(expr.SubstituteAll(e, known))
		d, isPoly := expr.Degree(subst[k], x)
		if !isPoly || subst[k].IsZero() {
			continue
		}
		if pick < 0 || d < low {
			pick, low = k, d
		}
	}
	if pick < 0 {
		return nil, false, fmt.Sprintf("no univariate polynomial in %s", x)
	}
	res, err := roots.Solve(subst[pick], x)
	if err != nil {
		return nil, false, err.Error()
	}
	ok, why = res.Complete, res.Method
	for _, r := range res.Roots {
		keep := true
		for k, e := range subst {
			if k == pick {
				continue
			}
			switch vanishes(expr.Expand(expr.Substitute(e, x, r))) {
			case -1:
				keep = false
			case 0:
				ok, why = false, fmt.Sprintf("cannot verify %s = %v", x, r)
			}
			if !keep {
				break
			}
		}
		if keep {
			vals = append(vals, r)
		}
	}
	return vals, ok, why
}

// vanishes returns 1 for a provably zero expression, -1 for a provably
// non-zero one and 0 when undecided.
func vanishes(e expr.Expr) int {
	if e.IsZero() {
		return 1
	}
	if v, ok := e.Number(); ok && v.IsExact() {
		return -1
	}
	f, ok := expr.Evalf(e)
	if ok && math.Abs(f) > 1e-9 {
		return -1
	}
	return 0
}
