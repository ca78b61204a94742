package poly

import (
	"errors"
	"fmt"
	"math/big"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/number"
)

var (
	// ErrNotPolynomial is returned for expressions that are not
	// polynomials in the ring variables with rational coefficients.
	ErrNotPolynomial = errors.New("not a polynomial over the ring")
	// ErrInexact is returned when a coefficient is approximate.
	ErrInexact = errors.New("approximate coefficient")
)

// FromExpr converts a canonical expression into a polynomial of r. An
// Equation is converted as lhs - rhs.
func FromExpr(r *Ring, e expr.Expr) (*Poly, error) {
	if !expr.IsCanonical(e) {
		return nil, expr.ErrNotCanonical
	}
	if e.IsUndefined() {
		return nil, fmt.Errorf("%v: %w", e, ErrNotPolynomial)
	}
	e = expr.Expand(expr.Residual(e))
	var ts []Term
	for _, t := range expr.Terms(e) {
		c := big.NewRat(1, 1)
		m := r.One()
		for _, f := range expr.Factors(t) {
			if v, ok := f.Number(); ok {
				if !v.IsExact() {
					return nil, fmt.Errorf("%v: %w", f, ErrInexact)
				}
				c.Mul(c, v.Rat())
				continue
			}
			s, ok := f.Base().Symbol()
			if !ok {
				return nil, fmt.Errorf("%v: %w", f, ErrNotPolynomial)
			}
			i, ok := r.Index(s)
			if !ok {
				return nil, fmt.Errorf("%q is not a ring variable: %w", s.Name(), ErrNotPolynomial)
			}
			x, _ := f.Exponent().Number()
			n, ok := x.Int64()
			if f.Exponent().Kind() != expr.Number || !ok || n < 0 {
				if f.Exponent().IsNumber() && !x.IsExact() {
					return nil, fmt.Errorf("%v: %w", f, ErrInexact)
				}
				return nil, fmt.Errorf("%v: %w", f, ErrNotPolynomial)
			}
			if n > MaxExponent-int64(m[i]) {
				return nil, fmt.Errorf("%v: exponent above %d: %w", f, MaxExponent, ErrNotPolynomial)
			}
			m[i] += uint32(n)
		}
		ts = append(ts, Term{Coeff: c, Mono: m})
	}
	return r.New(ts...), nil
}

// Expr converts p back into a canonical expression.
func (p *Poly) Expr() expr.Expr {
	var ts []expr.Expr
	for _, t := range p.terms {
		fs := []expr.Expr{expr.Num(number.FromRat(t.Coeff))}
		for i, e := range t.Mono {
			if e != 0 {
				fs = append(fs, expr.Pow(expr.Sym(p.ring.vars[i]), expr.Int(int64(e))))
			}
		}
		ts = append(ts, expr.Mul(fs...))
	}
	return expr.Add(ts...)
}

// Univariate returns the coefficients of p, lowest degree first, when
// p uses only the i-th variable.
func (p *Poly) Univariate(i int) ([]*big.Rat, bool) {
	cs := make([]*big.Rat, p.DegreeIn(i)+1)
	for k := range cs {
		cs[k] = new(big.Rat)
	}
	for _, t := range p.terms {
		for j, e := range t.Mono {
			if j != i && e != 0 {
				return nil, false
			}
		}
		cs[t.Mono[i]].Set(t.Coeff)
	}
	return cs, true
}
