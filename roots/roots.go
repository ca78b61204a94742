// Package roots finds the exact real roots of univariate polynomials
// whose coefficients are expressions.
package roots

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/number"
	"zappem.net/pub/math/algsolve/symbol"
)

// ErrNotPolynomial is returned when the input is not a polynomial in
// the requested variable.
var ErrNotPolynomial = errors.New("not a polynomial in the variable")

// Result lists distinct real roots. Complete is false when some real
// roots may be missing from Roots.
type Result struct {
	Roots    []expr.Expr
	Complete bool
	// Method names the technique that produced the last roots, or
	// the reason the search stopped.
	Method string
}

// Solve finds the real roots of e = 0, or of lhs - rhs for an
// Equation, in x. A polynomial of degree 0 has no roots; callers
// distinguish the zero polynomial themselves.
func Solve(e expr.Expr, x symbol.Symbol) (Result, error) {
	cs, ok := expr.Coefficients(expr.Residual(e), x)
	if !ok {
		return Result{}, fmt.Errorf("%v in %s: %w", e, x, ErrNotPolynomial)
	}
	return FromCoefficients(cs), nil
}

// FromCoefficients solves sum(cs[k] x^k) = 0. The coefficients must
// not contain the variable.
func FromCoefficients(cs map[int]expr.Expr) Result {
	ds := expr.Powers(cs)
	if len(ds) == 0 || ds[len(ds)-1] == 0 {
		return Result{Complete: true, Method: "constant"}
	}
	var res Result
	if low := ds[0]; low > 0 {
		res.Roots = append(res.Roots, expr.Int(0))
		shifted := make(map[int]expr.Expr, len(cs))
		for k, c := range cs {
			shifted[k-low] = c
		}
		cs = shifted
	}
	r := solve(cs)
	res.Roots = append(res.Roots, r.Roots...)
	res.Complete = r.Complete
	res.Method = r.Method
	res.Roots = normalize(res.Roots)
	return res
}

func degree(cs map[int]expr.Expr) int {
	ds := expr.Powers(cs)
	if len(ds) == 0 {
		return 0
	}
	return ds[len(ds)-1]
}

func coeff(cs map[int]expr.Expr, k int) expr.Expr {
	if c, ok := cs[k]; ok {
		return c
	}
	return expr.Int(0)
}

// maxDegree bounds the polynomials solve expands into dense
// coefficient slices.
const maxDegree = 1 << 16

// solve handles a polynomial with a non-zero constant term.
func solve(cs map[int]expr.Expr) Result {
	if d := degree(cs); d > maxDegree {
		return Result{Method: fmt.Sprintf("degree %d above %d", d, maxDegree)}
	}
	switch degree(cs) {
	case 0:
		return Result{Complete: true, Method: "constant"}
	case 1:
		return Result{
			Roots:    []expr.Expr{expr.Expand(expr.Neg(expr.Div(coeff(cs, 0), coeff(cs, 1))))},
			Complete: true,
			Method:   "linear",
		}
	case 2:
		return Quadratic(coeff(cs, 2), coeff(cs, 1), coeff(cs, 0))
	}
	rs, ok := rationals(cs)
	if !ok {
		if degree(cs) == 4 && biquadratic(cs) {
			return Biquadratic(coeff(cs, 4), coeff(cs, 2), coeff(cs, 0))
		}
		return Result{Method: fmt.Sprintf("degree %d with non-rational coefficients", degree(cs))}
	}
	return rs.finish()
}

// Quadratic returns the real roots of a*x^2 + b*x + c.
func Quadratic(a, b, c expr.Expr) Result {
	d := expr.Expand(expr.Sub(expr.Pow(b, expr.Int(2)), expr.Mul(expr.Int(4), a, c)))
	den := expr.Pow(expr.Mul(expr.Int(2), a), expr.Int(-1))
	root := func(sign int64) expr.Expr {
		return expr.Expand(expr.Mul(expr.Add(expr.Neg(b), expr.Mul(expr.Int(sign), expr.Sqrt(d))), den))
	}
	switch sign(d) {
	case -1:
		return Result{Complete: true, Method: "quadratic: negative discriminant"}
	case 0:
		return Result{Roots: []expr.Expr{root(1)}, Complete: true, Method: "quadratic: double root"}
	case 1:
		return Result{Roots: []expr.Expr{root(-1), root(1)}, Complete: true, Method: "quadratic"}
	}
	if len(expr.FreeSymbols(d)) == 0 {
		// A closed numeric discriminant too close to zero to decide.
		return Result{Method: "quadratic: undecidable discriminant"}
	}
	return Result{Roots: []expr.Expr{root(-1), root(1)}, Complete: true, Method: "quadratic: symbolic"}
}

// Biquadratic returns the real roots of a*x^4 + b*x^2 + c.
func Biquadratic(a, b, c expr.Expr) Result {
	t := Quadratic(a, b, c)
	res := Result{Complete: t.Complete, Method: "biquadratic"}
	for _, v := range t.Roots {
		switch sign(v) {
		case 0:
			res.Roots = append(res.Roots, expr.Int(0))
		case 1:
			s := expr.Sqrt(v)
			res.Roots = append(res.Roots, expr.Neg(s), s)
		case -1:
		default:
			res.Complete = false
			res.Method = "biquadratic: undecidable sign"
		}
	}
	return res
}

// biquadratic reports whether only even powers are present.
func biquadratic(cs map[int]expr.Expr) bool {
	for k := range cs {
		if k%2 != 0 {
			return false
		}
	}
	return true
}

// sign returns -1, 0 or 1 for expressions whose sign can be decided
// and 2 otherwise. Closed numeric expressions are decided by their
// approximate value unless they are close to zero.
func sign(e expr.Expr) int {
	if v, ok := e.Number(); ok {
		return v.Sign()
	}
	f, ok := expr.Evalf(e)
	if !ok || math.Abs(f) < 1e-12 {
		return 2
	}
	if f < 0 {
		return -1
	}
	return 1
}

// normalize removes duplicate roots and sorts numeric roots in
// increasing order. Symbolic roots follow in canonical order.
func normalize(rs []expr.Expr) []expr.Expr {
	var out []expr.Expr
	for _, r := range rs {
		dup := false
		for _, o := range out {
			if expr.Equal(o, r) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := expr.Evalf(out[i])
		b, bok := expr.Evalf(out[j])
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		}
		return false
	})
	return out
}

// exactPoly is a polynomial with rational coefficients, lowest degree
// first.
type exactPoly []*big.Rat

// rationals converts cs into an exact polynomial when every
// coefficient is an exact rational number.
func rationals(cs map[int]expr.Expr) (exactPoly, bool) {
	p := make(exactPoly, degree(cs)+1)
	for k := range p {
		p[k] = new(big.Rat)
	}
	for k, c := range cs {
		v, ok := c.Number()
		if !ok || !v.IsExact() {
			return nil, false
		}
		p[k].Set(v.Rat())
	}
	return p, true
}

func (p exactPoly) degree() int { return len(p) - 1 }

func (p exactPoly) eval(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for k := len(p) - 1; k >= 0; k-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[k])
	}
	return acc
}

// deflate divides p by (x - r) for a root r.
func (p exactPoly) deflate(r *big.Rat) exactPoly {
	q := make(exactPoly, len(p)-1)
	carry := new(big.Rat)
	for k := len(p) - 1; k >= 1; k-- {
		carry = new(big.Rat).Add(p[k], new(big.Rat).Mul(carry, r))
		q[k-1] = carry
	}
	return q
}

func (p exactPoly) coefficients() map[int]expr.Expr {
	cs := make(map[int]expr.Expr)
	for k, c := range p {
		if c.Sign() != 0 {
			cs[k] = expr.Num(number.FromRat(c))
		}
	}
	return cs
}

// maxCandidateBits bounds the integers whose divisors are enumerated
// by the rational root search.
const maxCandidateBits = 32

// finish removes rational roots and solves what remains.
func (p exactPoly) finish() Result {
	var res Result
	found, rest := p.rationalRoots()
	for _, r := range found {
		res.Roots = append(res.Roots, expr.Num(number.FromRat(r)))
	}
	cs := rest.coefficients()
	switch d := rest.degree(); {
	case d <= 2:
		r := solve(cs)
		res.Roots = append(res.Roots, r.Roots...)
		res.Complete = r.Complete
		res.Method = r.Method
	case d == 3:
		r := cardano(rest)
		res.Roots = append(res.Roots, r.Roots...)
		res.Complete = r.Complete
		res.Method = r.Method
	case d == 4 && biquadratic(cs):
		r := Biquadratic(coeff(cs, 4), coeff(cs, 2), coeff(cs, 0))
		res.Roots = append(res.Roots, r.Roots...)
		res.Complete = r.Complete
		res.Method = r.Method
	default:
		res.Method = fmt.Sprintf("degree %d factor without rational roots", d)
	}
	if len(found) != 0 && res.Complete {
		res.Method = "rational roots, " + res.Method
	}
	return res
}

// rationalRoots searches p for rational roots by the rational root
// theorem. It returns the distinct roots and the deflated remainder.
// Coefficients too large to enumerate divisors of are left alone.
func (p exactPoly) rationalRoots() ([]*big.Rat, exactPoly) {
	lcm := big.NewInt(1)
	for _, c := range p {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	a0 := new(big.Int).Mul(p[0].Num(), new(big.Int).Quo(lcm, p[0].Denom()))
	an := new(big.Int).Mul(p[len(p)-1].Num(), new(big.Int).Quo(lcm, p[len(p)-1].Denom()))
	a0.Abs(a0)
	an.Abs(an)
	if a0.BitLen() > maxCandidateBits || an.BitLen() > maxCandidateBits {
		return nil, p
	}
	var found []*big.Rat
	for _, n := range divisors(a0.Int64()) {
		for _, d := range divisors(an.Int64()) {
			if gcd(n, d) != 1 {
				continue
			}
			for _, s := range []int64{-1, 1} {
				r := big.NewRat(s*n, d)
				if p.degree() == 0 || p.eval(r).Sign() != 0 {
					continue
				}
				found = append(found, r)
				for p.degree() > 0 && p.eval(r).Sign() == 0 {
					p = p.deflate(r)
				}
			}
		}
	}
	return found, p
}

func divisors(n int64) []int64 {
	var small, large []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			small = append(small, d)
			if d*d != n {
				large = append(large, n/d)
			}
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}
	return small
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// cardano solves a cubic with rational coefficients. Only the single
// real root case is resolved in radicals; three irrational real roots
// (casus irreducibilis) are reported as incomplete.
func cardano(p exactPoly) Result {
	a, b, c, d := p[3], p[2], p[1], p[0]
	rat := func(r *big.Rat) expr.Expr { return expr.Num(number.FromRat(r)) }
	// x = t - b/(3a) gives t^3 + P t + Q = 0.
	a2 := new(big.Rat).Mul(a, a)
	P := new(big.Rat).Mul(big.NewRat(3, 1), new(big.Rat).Mul(a, c))
	P.Sub(P, new(big.Rat).Mul(b, b))
	P.Quo(P, new(big.Rat).Mul(big.NewRat(3, 1), a2))
	Q := new(big.Rat).Mul(big.NewRat(2, 1), new(big.Rat).Mul(b, new(big.Rat).Mul(b, b)))
	Q.Sub(Q, new(big.Rat).Mul(big.NewRat(9, 1), new(big.Rat).Mul(a, new(big.Rat).Mul(b, c))))
	Q.Add(Q, new(big.Rat).Mul(big.NewRat(27, 1), new(big.Rat).Mul(a2, d)))
	Q.Quo(Q, new(big.Rat).Mul(big.NewRat(27, 1), new(big.Rat).Mul(a2, a)))
	// D = (Q/2)^2 + (P/3)^3
	h := new(big.Rat).Quo(Q, big.NewRat(2, 1))
	t := new(big.Rat).Quo(P, big.NewRat(3, 1))
	D := new(big.Rat).Mul(h, h)
	D.Add(D, new(big.Rat).Mul(t, new(big.Rat).Mul(t, t)))
	shift := rat(new(big.Rat).Quo(b, new(big.Rat).Mul(big.NewRat(3, 1), a)))
	switch D.Sign() {
	case -1:
		return Result{Method: "cubic: three irrational real roots"}
	case 0:
		u := cbrt(expr.Neg(rat(h)))
		return Result{
			Roots:    []expr.Expr{expr.Sub(expr.Mul(expr.Int(2), u), shift), expr.Sub(expr.Neg(u), shift)},
			Complete: true,
			Method:   "cubic: Cardano",
		}
	}
	sq := expr.Sqrt(rat(D))
	u := cbrt(expr.Add(expr.Neg(rat(h)), sq))
	v := cbrt(expr.Sub(expr.Neg(rat(h)), sq))
	return Result{
		Roots:    []expr.Expr{expr.Sub(expr.Add(u, v), shift)},
		Complete: true,
		Method:   "cubic: Cardano",
	}
}

// cbrt is the real cube root.
func cbrt(e expr.Expr) expr.Expr {
	if f, ok := expr.Evalf(e); ok && f < 0 {
		return expr.Neg(expr.Pow(expr.Neg(e), expr.Rat(1, 3)))
	}
	return expr.Pow(e, expr.Rat(1, 3))
}
