package poly

import (
	"errors"
	"math/big"
	"testing"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/symbol"
)

var (
	x = expr.Var("x")
	y = expr.Var("y")
	z = expr.Var("z")
)

func ring(t *testing.T, o Order, vs ...expr.Expr) *Ring {
	t.Helper()
	var ss []symbol.Symbol
	for _, v := range vs {
		s, _ := v.Symbol()
		ss = append(ss, s)
	}
	r, err := NewRing(o, ss...)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	return r
}

func must(t *testing.T, r *Ring, e expr.Expr) *Poly {
	t.Helper()
	p, err := FromExpr(r, e)
	if err != nil {
		t.Fatalf("FromExpr(%v): %v", e, err)
	}
	return p
}

func TestRing(t *testing.T) {
	xs, _ := x.Symbol()
	if _, err := NewRing(Lex, xs, xs); !errors.Is(err, ErrDuplicateVar) {
		t.Errorf("got=%v want=%v", err, ErrDuplicateVar)
	}
	if _, err := NewRing(Lex); !errors.Is(err, ErrNoVars) {
		t.Errorf("got=%v want=%v", err, ErrNoVars)
	}
	for i, s := range []string{"lex", "GrLex", "grevlex"} {
		o, err := ParseOrder(s)
		if err != nil || int(o) != i {
			t.Errorf("[%d] got=%v,%v", i, o, err)
		}
	}
	if _, err := ParseOrder("degrevlex"); !errors.Is(err, ErrBadOrder) {
		t.Errorf("got=%v", err)
	}
}

func TestOrders(t *testing.T) {
	vs := []struct {
		o    Order
		a, b Monomial
		c    int
	}{
		{o: Lex, a: Monomial{1, 0, 0}, b: Monomial{0, 2, 0}, c: 1},
		{o: GrLex, a: Monomial{1, 0, 0}, b: Monomial{0, 2, 0}, c: -1},
		{o: GrLex, a: Monomial{1, 0, 1}, b: Monomial{0, 2, 0}, c: 1},
		{o: GrevLex, a: Monomial{1, 0, 1}, b: Monomial{0, 2, 0}, c: -1},
		{o: GrevLex, a: Monomial{0, 0, 0}, b: Monomial{0, 0, 1}, c: -1},
		{o: Lex, a: Monomial{2, 1, 0}, b: Monomial{2, 1, 0}, c: 0},
	}
	for i, v := range vs {
		r := ring(t, v.o, x, y, z)
		if c := r.Compare(v.a, v.b); c != v.c {
			t.Errorf("[%d] %v: got=%d want=%d", i, v.o, c, v.c)
		}
		// Compatibility with multiplication.
		m := Monomial{1, 2, 3}
		if c := r.Compare(v.a.Mul(m), v.b.Mul(m)); c != v.c {
			t.Errorf("[%d] %v scaled: got=%d want=%d", i, v.o, c, v.c)
		}
	}
}

func TestArith(t *testing.T) {
	r := ring(t, Lex, x, y)
	p := must(t, r, expr.Add(expr.Pow(x, expr.Int(2)), expr.Pow(y, expr.Int(2)), expr.Int(-1)))
	q := must(t, r, expr.Sub(x, y))
	vs := []struct {
		p *Poly
		s string
	}{
		{p: p, s: "x^2+y^2-1"},
		{p: q, s: "x-y"},
		{p: p.Add(p), s: "2*x^2+2*y^2-2"},
		{p: p.Sub(p), s: "0"},
		{p: q.Mul(must(t, r, expr.Add(x, y))), s: "x^2-y^2"},
		{p: q.Mul(q, q), s: "x^3-3*x^2*y+3*x*y^2-y^3"},
		{p: q.Scale(big.NewRat(1, 3)), s: "1/3*x-1/3*y"},
		{p: must(t, r, expr.Sub(expr.Mul(expr.Int(2), x), expr.Mul(expr.Int(4), y))).Monic(), s: "x-2*y"},
		{p: SPoly(p, q), s: "x*y+y^2-1"},
		{p: Sum(r, p, q.Neg(), nil), s: "x^2-x+y^2+y-1"},
	}
	for i, v := range vs {
		if s := v.p.String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
	}
}

func TestMonomialOverflow(t *testing.T) {
	m := Monomial{1 << 31, 2}
	if got := m.Mul(Monomial{1, 3}); !got.Equal(Monomial{1<<31 + 1, 5}) {
		t.Errorf("got=%v", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("wrapped exponent not detected")
		}
	}()
	m.Mul(Monomial{1 << 31, 0})
}

func TestDivide(t *testing.T) {
	r := ring(t, Lex, x, y)
	p := must(t, r, expr.Add(expr.Pow(x, expr.Int(2)), expr.Pow(y, expr.Int(2)), expr.Int(-1)))
	q := must(t, r, expr.Sub(x, y))
	qs, rem := p.Divide(q)
	if s := qs[0].String(); s != "x+y" {
		t.Errorf("quotient got=%q want=%q", s, "x+y")
	}
	if s := rem.String(); s != "2*y^2-1" {
		t.Errorf("remainder got=%q want=%q", s, "2*y^2-1")
	}
	if back := qs[0].Mul(q).Add(rem); !back.Equals(p) {
		t.Errorf("q*g+r = %v, want %v", back, p)
	}
}

func TestFromExpr(t *testing.T) {
	r := ring(t, GrLex, x, y)
	vs := []struct {
		e   expr.Expr
		s   string
		err error
	}{
		{e: expr.Eq(expr.Pow(x, expr.Int(2)), expr.Int(1)), s: "x^2-1"},
		{e: expr.Pow(expr.Add(x, y), expr.Int(2)), s: "x^2+2*x*y+y^2"},
		{e: expr.Mul(expr.Rat(3, 4), x, expr.Add(y, expr.Int(1))), s: "3/4*x*y+3/4*x"},
		{e: expr.Fn("sin", x), err: ErrNotPolynomial},
		{e: expr.Mul(expr.Float(1.5), x), err: ErrInexact},
		{e: expr.Add(x, z), err: ErrNotPolynomial},
		{e: expr.Div(expr.Int(1), x), err: ErrNotPolynomial},
		{e: expr.Sqrt(x), err: ErrNotPolynomial},
		{e: expr.Mul(expr.Sqrt(expr.Int(2)), x), err: ErrNotPolynomial},
		{e: expr.Div(x, expr.Int(0)), err: ErrNotPolynomial},
		{e: expr.Pow(x, expr.Int(MaxExponent)), s: "x^65536"},
		{e: expr.Pow(x, expr.Int(MaxExponent+1)), err: ErrNotPolynomial},
		{e: expr.Eq(expr.Pow(x, expr.Int(4294967298)), expr.Int(4)), err: ErrNotPolynomial},
	}
	for i, v := range vs {
		p, err := FromExpr(r, v.e)
		if v.err != nil {
			if !errors.Is(err, v.err) {
				t.Errorf("[%d] got=%v want=%v", i, err, v.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("[%d] %v: %v", i, v.e, err)
			continue
		}
		if s := p.String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
		if back := must(t, r, p.Expr()); !back.Equals(p) {
			t.Errorf("[%d] round trip got=%v want=%v", i, back, p)
		}
	}
}

func TestUnivariate(t *testing.T) {
	r := ring(t, Lex, x, y)
	p := must(t, r, expr.Sub(expr.Pow(y, expr.Int(2)), expr.Rat(1, 2)))
	cs, ok := p.Univariate(1)
	want := []string{"-1/2", "0", "1"}
	if !ok || len(cs) != len(want) {
		t.Fatalf("got=%v,%v", cs, ok)
	}
	for i, c := range cs {
		if c.RatString() != want[i] {
			t.Errorf("[%d] got=%q want=%q", i, c.RatString(), want[i])
		}
	}
	if _, ok := p.Univariate(0); ok {
		t.Error("y polynomial accepted as univariate in x")
	}
	if u := p.Uses(); u[0] || !u[1] {
		t.Errorf("got=%v", u)
	}
}
