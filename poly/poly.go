package poly

import (
	"errors"
	"math/big"
	"sort"
	"strings"
)

// Term is a rational coefficient times a monomial.
type Term struct {
	Coeff *big.Rat
	Mono  Monomial
}

// Poly is an immutable polynomial of a Ring. Terms are kept sorted by
// decreasing monomial under the ring order, with no zero coefficients.
type Poly struct {
	ring  *Ring
	terms []Term
}

// ErrZero is returned when the leading term of the zero polynomial is
// requested.
var ErrZero = errors.New("zero polynomial has no leading term")

// New builds a polynomial from terms, combining equal monomials.
func (r *Ring) New(ts ...Term) *Poly {
	idx := make(map[string]int)
	var out []Term
	for _, t := range ts {
		if t.Coeff == nil || t.Coeff.Sign() == 0 {
			continue
		}
		k := t.Mono.key()
		if i, ok := idx[k]; ok {
			// Combine with existing term.
			out[i].Coeff.Add(out[i].Coeff, t.Coeff)
			continue
		}
		idx[k] = len(out)
		out = append(out, Term{Coeff: new(big.Rat).Set(t.Coeff), Mono: append(Monomial(nil), t.Mono...)})
	}
	return r.adopt(out)
}

// adopt drops zero terms and sorts ts, taking ownership of it.
func (r *Ring) adopt(ts []Term) *Poly {
	n := 0
	for _, t := range ts {
		if t.Coeff.Sign() != 0 {
			ts[n] = t
			n++
		}
	}
	ts = ts[:n]
	sort.Slice(ts, func(i, j int) bool { return r.Compare(ts[i].Mono, ts[j].Mono) > 0 })
	return &Poly{ring: r, terms: ts}
}

// Const returns the constant polynomial c.
func (r *Ring) Const(c *big.Rat) *Poly {
	return r.New(Term{Coeff: c, Mono: r.One()})
}

// Zero returns the zero polynomial.
func (r *Ring) Zero() *Poly {
	return &Poly{ring: r}
}

// Var returns the polynomial of the i-th ring variable.
func (r *Ring) Var(i int) *Poly {
	m := r.One()
	m[i] = 1
	return r.New(Term{Coeff: big.NewRat(1, 1), Mono: m})
}

// Ring returns the ring of p.
func (p *Poly) Ring() *Ring {
	return p.ring
}

// IsZero confirms p is zero.
func (p *Poly) IsZero() bool {
	return p == nil || len(p.terms) == 0
}

// IsConstant reports whether p has no variables. Zero is constant.
func (p *Poly) IsConstant() bool {
	return p.IsZero() || (len(p.terms) == 1 && p.terms[0].Mono.IsOne())
}

// Len is the number of terms of p.
func (p *Poly) Len() int {
	return len(p.terms)
}

// Terms returns a copy of the terms of p, leading term first.
func (p *Poly) Terms() []Term {
	ts := make([]Term, len(p.terms))
	for i, t := range p.terms {
		ts[i] = Term{Coeff: new(big.Rat).Set(t.Coeff), Mono: append(Monomial(nil), t.Mono...)}
	}
	return ts
}

// Leading returns the leading term of p.
func (p *Poly) Leading() (Term, error) {
	if p.IsZero() {
		return Term{}, ErrZero
	}
	return p.terms[0], nil
}

// LM returns the leading monomial of a non-zero p.
func (p *Poly) LM() Monomial {
	return p.terms[0].Mono
}

// LC returns the leading coefficient of a non-zero p.
func (p *Poly) LC() *big.Rat {
	return p.terms[0].Coeff
}

// Degree returns the total degree of p; zero has degree -1.
func (p *Poly) Degree() int {
	d := -1
	for _, t := range p.terms {
		d = max(d, t.Mono.Degree())
	}
	return d
}

// DegreeIn returns the highest exponent of the i-th variable.
func (p *Poly) DegreeIn(i int) int {
	d := 0
	for _, t := range p.terms {
		d = max(d, int(t.Mono[i]))
	}
	return d
}

// Uses reports which ring variables appear in p.
func (p *Poly) Uses() []bool {
	u := make([]bool, len(p.ring.vars))
	for _, t := range p.terms {
		for i, e := range t.Mono {
			if e != 0 {
				u[i] = true
			}
		}
	}
	return u
}

// combine returns a + k*b with merged terms.
func combine(a, b *Poly, k *big.Rat) *Poly {
	ts := make([]Term, 0, len(a.terms)+len(b.terms))
	i, j := 0, 0
	for i < len(a.terms) || j < len(b.terms) {
		var c int
		switch {
		case i == len(a.terms):
			c = -1
		case j == len(b.terms):
			c = 1
		default:
			c = a.ring.Compare(a.terms[i].Mono, b.terms[j].Mono)
		}
		switch {
		case c > 0:
			ts = append(ts, a.terms[i])
			i++
		case c < 0:
			ts = append(ts, Term{Coeff: new(big.Rat).Mul(k, b.terms[j].Coeff), Mono: b.terms[j].Mono})
			j++
		default:
			n := new(big.Rat).Mul(k, b.terms[j].Coeff)
			n.Add(n, a.terms[i].Coeff)
			if n.Sign() != 0 {
				ts = append(ts, Term{Coeff: n, Mono: a.terms[i].Mono})
			}
			i++
			j++
		}
	}
	return &Poly{ring: a.ring, terms: ts}
}

var (
	ratOne      = big.NewRat(1, 1)
	ratMinusOne = big.NewRat(-1, 1)
)

// Add returns p+q.
func (p *Poly) Add(q *Poly) *Poly {
	return combine(p, q, ratOne)
}

// Sub returns p-q.
func (p *Poly) Sub(q *Poly) *Poly {
	return combine(p, q, ratMinusOne)
}

// Sum adds together polynomials of one ring.
func Sum(r *Ring, ps ...*Poly) *Poly {
	acc := r.Zero()
	for _, p := range ps {
		if p != nil {
			acc = acc.Add(p)
		}
	}
	return acc
}

// MulTerm returns c*m*p.
func (p *Poly) MulTerm(c *big.Rat, m Monomial) *Poly {
	if c.Sign() == 0 {
		return p.ring.Zero()
	}
	ts := make([]Term, len(p.terms))
	for i, t := range p.terms {
		ts[i] = Term{Coeff: new(big.Rat).Mul(c, t.Coeff), Mono: t.Mono.Mul(m)}
	}
	// Multiplication by a monomial preserves the order.
	return &Poly{ring: p.ring, terms: ts}
}

// Scale returns c*p.
func (p *Poly) Scale(c *big.Rat) *Poly {
	return p.MulTerm(c, p.ring.One())
}

// Neg returns -p.
func (p *Poly) Neg() *Poly {
	return p.Scale(ratMinusOne)
}

// Mul computes the product of p with some others.
func (p *Poly) Mul(qs ...*Poly) *Poly {
	acc := p
	for _, q := range qs {
		var ts []Term
		for _, a := range acc.terms {
			for _, b := range q.terms {
				ts = append(ts, Term{Coeff: new(big.Rat).Mul(a.Coeff, b.Coeff), Mono: a.Mono.Mul(b.Mono)})
			}
		}
		acc = p.ring.New(ts...)
	}
	return acc
}

// Monic scales p so that its leading coefficient is 1.
func (p *Poly) Monic() *Poly {
	if p.IsZero() || p.LC().Cmp(ratOne) == 0 {
		return p
	}
	return p.Scale(new(big.Rat).Inv(p.LC()))
}

// Equals compares two polynomials of the same ring.
func (p *Poly) Equals(q *Poly) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}
	for i, t := range p.terms {
		u := q.terms[i]
		if !t.Mono.Equal(u.Mono) || t.Coeff.Cmp(u.Coeff) != 0 {
			return false
		}
	}
	return true
}

// Compare orders polynomials by their terms under the ring order,
// leading terms first. It gives bases a deterministic order.
func (p *Poly) Compare(q *Poly) int {
	for i := 0; i < len(p.terms) && i < len(q.terms); i++ {
		if c := p.ring.Compare(p.terms[i].Mono, q.terms[i].Mono); c != 0 {
			return c
		}
		if c := p.terms[i].Coeff.Cmp(q.terms[i].Coeff); c != 0 {
			return c
		}
	}
	switch {
	case len(p.terms) < len(q.terms):
		return -1
	case len(p.terms) > len(q.terms):
		return 1
	}
	return 0
}

// SPoly is the S-polynomial of p and q: the combination cancelling
// their leading terms under the lcm of their leading monomials.
func SPoly(p, q *Poly) *Poly {
	l := p.LM().LCM(q.LM())
	a := p.MulTerm(new(big.Rat).Inv(p.LC()), l.Div(p.LM()))
	b := q.MulTerm(new(big.Rat).Inv(q.LC()), l.Div(q.LM()))
	return a.Sub(b)
}

// Divide performs multivariate division of p by gs. It returns the
// quotients, one per divisor, and the remainder, none of whose terms
// is divisible by a leading monomial of gs.
func (p *Poly) Divide(gs ...*Poly) (qs []*Poly, rem *Poly) {
	qs = make([]*Poly, len(gs))
	for i := range qs {
		qs[i] = p.ring.Zero()
	}
	rem = p.ring.Zero()
	f := p
	for !f.IsZero() {
		lt := f.terms[0]
		hit := false
		for i, g := range gs {
			if g.IsZero() || !g.LM().Divides(lt.Mono) {
				continue
			}
			c := new(big.Rat).Quo(lt.Coeff, g.LC())
			m := lt.Mono.Div(g.LM())
			qs[i] = qs[i].Add(p.ring.New(Term{Coeff: c, Mono: m}))
			f = f.Sub(g.MulTerm(c, m))
			hit = true
			break
		}
		if !hit {
			rem = rem.Add(&Poly{ring: p.ring, terms: []Term{lt}})
			f = &Poly{ring: f.ring, terms: f.terms[1:]}
		}
	}
	return qs, rem
}

// String renders p with its leading term first, e.g. "x^2-2*x*y+1".
func (p *Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var b strings.Builder
	for i, t := range p.terms {
		m := p.ring.format(t.Mono)
		c := new(big.Rat).Set(t.Coeff)
		switch {
		case c.Sign() < 0:
			b.WriteString("-")
			c.Neg(c)
		case i != 0:
			b.WriteString("+")
		}
		switch {
		case m == "":
			b.WriteString(c.RatString())
		case c.Cmp(ratOne) == 0:
			b.WriteString(m)
		default:
			b.WriteString(c.RatString())
			b.WriteString("*")
			b.WriteString(m)
		}
	}
	return b.String()
}
