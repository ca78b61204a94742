package solve

import (
	"fmt"
	"math"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/symbol"
)

// filter drops solutions that provably violate the assumptions of
// their variables and recounts the outcome.
func filter(r Result) Result {
	if len(r.Solutions) == 0 {
		return r
	}
	var keep []Solution
	for _, s := range r.Solutions {
		if admissible(s) {
			keep = append(keep, s)
		}
	}
	dropped := len(r.Solutions) - len(keep)
	if dropped == 0 {
		return r
	}
	r.Solutions = keep
	switch r.Outcome {
	case UniqueSolution, MultipleSolutions:
		r = counted(r)
		if r.Outcome == NoSolution {
			r.Reason = "no solution satisfies the variable assumptions"
		}
	default:
		r.Reason = fmt.Sprintf("%s; %d solutions violate assumptions", r.Reason, dropped)
	}
	return r
}

func admissible(s Solution) bool {
	for _, a := range s {
		if !satisfies(a.Value, a.Var.Assumptions()) {
			return false
		}
	}
	return true
}

// satisfies is false only when v provably breaks as.
func satisfies(v expr.Expr, as symbol.Assumptions) bool {
	if as == 0 {
		return true
	}
	sg := sign(v)
	if v.IsZero() {
		sg = 0
	}
	if as.Has(symbol.Positive) && (sg == 0 || sg == -1) {
		return false
	}
	if as.Has(symbol.NonNegative) && sg == -1 {
		return false
	}
	if as.Has(symbol.NonZero) && sg == 0 {
		return false
	}
	if as.Has(symbol.Integer) {
		if n, ok := v.Number(); ok {
			if n.IsExact() {
				return n.IsInt()
			}
			f := n.Float64()
			return math.Abs(f-math.Round(f)) < 1e-9
		}
		if f, ok := expr.Evalf(v); ok && math.Abs(f-math.Round(f)) > 1e-9 {
			return false
		}
	}
	return true
}
