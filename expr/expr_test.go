package expr

import (
	"errors"
	"testing"

	"zappem.net/pub/math/algsolve/number"
	"zappem.net/pub/math/algsolve/symbol"
)

var (
	x = Var("x")
	y = Var("y")
	z = Var("z")
)

func TestString(t *testing.T) {
	vs := []struct {
		e Expr
		s string
	}{
		{e: Add(x, Int(0)), s: "x"},
		{e: Mul(x, Int(1)), s: "x"},
		{e: Pow(x, Int(1)), s: "x"},
		{e: Pow(x, Int(0)), s: "1"},
		{e: Sub(x, y), s: "x - y"},
		{e: Add(x, x), s: "2*x"},
		{e: Mul(x, x), s: "x^2"},
		{e: Div(x, x), s: "1"},
		{e: Div(Int(6), Int(4)), s: "3/2"},
		{e: Pow(Pow(x, Int(2)), Int(3)), s: "x^6"},
		{e: Mul(Int(2), Add(x, Int(1))), s: "2*(1 + x)"},
		{e: Add(Mul(Int(3), x, y), Mul(Int(-3), y, x)), s: "0"},
		{e: Mul(Pow(x, Int(2)), Pow(x, Int(-2)), y), s: "y"},
		{e: Pow(Mul(Int(2), x), Int(2)), s: "4*x^2"},
		{e: Sub(Int(1), Mul(Int(2), x)), s: "1 - 2*x"},
		{e: Eq(Add(x, y), Int(3)), s: "x + y = 3"},
		{e: Add(Fn("f", x), Fn("f", x)), s: "2*f(x)"},
	}
	for i, v := range vs {
		if s := v.e.String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
	}
}

func TestRadicals(t *testing.T) {
	vs := []struct {
		e Expr
		s string
	}{
		{e: Sqrt(Int(8)), s: "2*2^(1/2)"},
		{e: Sqrt(Int(16)), s: "4"},
		{e: Sqrt(Rat(1, 2)), s: "1/2*2^(1/2)"},
		{e: Pow(Int(4), Rat(3, 2)), s: "8"},
		{e: Pow(Int(-8), Rat(1, 3)), s: "-2"},
		{e: Pow(Int(2), Rat(-1, 2)), s: "1/2*2^(1/2)"},
		{e: Mul(Sqrt(Int(2)), Sqrt(Int(2))), s: "2"},
		{e: Mul(Pow(Int(2), Rat(1, 3)), Pow(Int(2), Rat(1, 3))), s: "2^(2/3)"},
		{e: Pow(Int(4), Rat(1, 4)), s: "2^(1/2)"},
		{e: Pow(Mul(Rat(1, 2), Sqrt(Int(2))), Int(2)), s: "1/2"},
		{e: Sqrt(Int(-4)), s: "(-4)^(1/2)"},
	}
	for i, v := range vs {
		if s := v.e.String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
	}
}

func TestUndefined(t *testing.T) {
	vs := []struct {
		e      Expr
		reason string
	}{
		{e: Pow(Int(0), Int(0)), reason: "0^0"},
		{e: Div(x, Int(0)), reason: "division by zero"},
		{e: Pow(Int(0), Rat(-1, 2)), reason: "division by zero"},
		{e: Add(x, Div(Int(1), Int(0))), reason: "division by zero"},
		{e: Fn("ln", Int(0)), reason: "logarithm of non-positive number"},
		{e: Fn("asin", Int(2)), reason: "argument outside [-1,1]"},
		{e: Rat(1, 0), reason: number.ErrDivisionByZero.Error()},
	}
	for i, v := range vs {
		if !v.e.IsUndefined() || v.e.Reason() != v.reason {
			t.Errorf("[%d] got=%v want undefined(%s)", i, v.e, v.reason)
		}
	}
	// 0^x is left alone; only provable zero denominators are flagged.
	if e := Pow(Int(0), x); e.IsUndefined() {
		t.Errorf("0^x flagged: %v", e)
	}
}

func TestFunctions(t *testing.T) {
	vs := []struct {
		e Expr
		s string
	}{
		{e: Fn("sin", Neg(x)), s: "-sin(x)"},
		{e: Fn("cos", Neg(x)), s: "cos(x)"},
		{e: Fn("cos", Int(0)), s: "1"},
		{e: Fn("exp", Fn("ln", x)), s: "x"},
		{e: Fn("sqrt", Int(9)), s: "3"},
		{e: Fn("abs", Int(-3)), s: "3"},
		{e: Fn("abs", Var("absp", symbol.Positive)), s: "absp"},
		{e: Fn(DerivativeName, Pow(x, Int(2)), x), s: "2*x"},
		{e: Fn(DerivativeName, Fn("f", x), x), s: "Derivative(f(x), x)"},
	}
	for i, v := range vs {
		if s := v.e.String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
	}
}

func TestApproximateCall(t *testing.T) {
	v, ok := Fn("sin", Float(0.5)).Number()
	if !ok || v.IsExact() || v.Float64() < 0.4794 || v.Float64() > 0.4795 {
		t.Errorf("got=%v,%v", v, ok)
	}
	if e := Fn("sin", Int(1)); e.Kind() != Call {
		t.Errorf("exact argument evaluated: %v", e)
	}
}

func pool() []Expr {
	return []Expr{
		Int(0), Int(3), Rat(-2, 3), Float(1.5), x, y, z,
		Pow(x, Int(2)), Mul(Int(2), x, y), Add(x, Int(1)), Sub(y, z),
		Sqrt(Int(2)), Fn("sin", x), Pow(Add(x, y), Rat(1, 2)),
		Div(Int(1), x), Mul(Rat(1, 2), Sqrt(Int(2))),
		Pow(Var("pos", symbol.Positive), Rat(1, 3)),
	}
}

func TestIdempotence(t *testing.T) {
	for i, a := range pool() {
		for j, b := range pool() {
			for _, e := range []Expr{Add(a, b), Mul(a, b), Pow(a, b), Eq(a, b)} {
				c := Canonicalize(e)
				if !Equal(c, e) {
					t.Errorf("[%d,%d] not canonical: %v -> %v", i, j, e, c)
				}
				if cc := Canonicalize(c); !Equal(cc, c) {
					t.Errorf("[%d,%d] not idempotent: %v -> %v", i, j, c, cc)
				}
			}
		}
	}
}

func TestCommutativity(t *testing.T) {
	for i, a := range pool() {
		for j, b := range pool() {
			if ab, ba := Add(a, b), Add(b, a); !Equal(ab, ba) {
				t.Errorf("[%d,%d] %v != %v", i, j, ab, ba)
			}
			if ab, ba := Mul(a, b), Mul(b, a); !Equal(ab, ba) {
				t.Errorf("[%d,%d] %v != %v", i, j, ab, ba)
			}
		}
	}
}

func TestExactness(t *testing.T) {
	e := Add(Int(1), Float(0.5))
	v, ok := e.Number()
	if !ok || v.IsExact() || v.Float64() != 1.5 {
		t.Errorf("got=%v want approximate 1.5", e)
	}
	if e := Add(Rat(1, 3), Rat(2, 3)); !e.IsOne() {
		t.Errorf("got=%v want=1", e)
	}
}

func TestExpand(t *testing.T) {
	vs := []struct {
		e Expr
		s string
	}{
		{e: Pow(Add(x, Int(1)), Int(2)), s: "1 + 2*x + x^2"},
		{e: Mul(Add(x, y), Sub(x, y)), s: "x^2 - y^2"},
		{e: Mul(Int(2), Add(x, Int(1))), s: "2 + 2*x"},
		{e: Pow(Add(x, Int(1)), Int(-1)), s: "(1 + x)^(-1)"},
		{e: Mul(Pow(Add(x, Int(1)), Int(2)), y), s: "y + 2*x*y + x^2*y"},
	}
	for i, v := range vs {
		if s := Expand(v.e).String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
	}
}

func TestDiff(t *testing.T) {
	xs, _ := x.Symbol()
	vs := []struct {
		e Expr
		s string
	}{
		{e: Pow(x, Int(3)), s: "3*x^2"},
		{e: Mul(x, y), s: "y"},
		{e: Fn("sin", Pow(x, Int(2))), s: "2*x*cos(x^2)"},
		{e: Fn("exp", x), s: "exp(x)"},
		{e: Add(y, Int(4)), s: "0"},
		{e: Fn("f", x), s: "Derivative(f(x), x)"},
	}
	for i, v := range vs {
		if s := Diff(v.e, xs).String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
	}
}

func TestCoefficients(t *testing.T) {
	xs, _ := x.Symbol()
	cs, ok := Coefficients(Add(Pow(x, Int(2)), Mul(Int(3), x), Int(2)), xs)
	if !ok {
		t.Fatal("quadratic not recognised")
	}
	want := map[int]string{0: "2", 1: "3", 2: "1"}
	for d, s := range want {
		if got := cs[d].String(); got != s {
			t.Errorf("[%d] got=%q want=%q", d, got, s)
		}
	}
	if d, ok := Degree(Mul(Add(x, y), Add(x, Int(-1)), x), xs); !ok || d != 3 {
		t.Errorf("got=%d,%v want=3", d, ok)
	}
	for i, e := range []Expr{Fn("sin", x), Div(Int(1), x), Sqrt(x), Pow(Int(2), x)} {
		if _, ok := Coefficients(e, xs); ok {
			t.Errorf("[%d] %v accepted as polynomial", i, e)
		}
	}
	ys, _ := y.Symbol()
	if cs, ok := Coefficients(Mul(y, x), ys); !ok || cs[1].String() != "x" {
		t.Errorf("got=%v,%v", cs, ok)
	}
}

func TestSubstitute(t *testing.T) {
	xs, _ := x.Symbol()
	e := Add(Pow(x, Int(2)), y)
	if s := Substitute(e, xs, Sqrt(Int(2))).String(); s != "2 + y" {
		t.Errorf("got=%q want=%q", s, "2 + y")
	}
	if s := Substitute(e, xs, Int(0)).String(); s != "y" {
		t.Errorf("got=%q", s)
	}
}

func TestEvalf(t *testing.T) {
	if f, ok := Evalf(Mul(Rat(1, 2), Sqrt(Int(2)))); !ok || f < 0.7071 || f > 0.7072 {
		t.Errorf("got=%v,%v", f, ok)
	}
	if _, ok := Evalf(Add(x, Int(1))); ok {
		t.Error("symbolic expression evaluated")
	}
}

func TestSerialize(t *testing.T) {
	for i, e := range pool() {
		data, err := Marshal(e)
		if err != nil {
			t.Fatalf("[%d] %v", i, err)
		}
		back, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("[%d] %s: %v", i, data, err)
		}
		if !Equal(back, e) {
			t.Errorf("[%d] got=%v want=%v", i, back, e)
		}
	}
	raw := `{"version":1,"expr":{"type":"sum","args":[{"type":"sym","name":"x"},{"type":"sym","name":"x"},{"type":"num","kind":"int","value":"0"}]}}`
	e, err := Unmarshal([]byte(raw))
	if err != nil || e.String() != "2*x" {
		t.Errorf("got=%v,%v want=2*x", e, err)
	}
	if _, err := Unmarshal([]byte(`{"version":9,"expr":{"type":"num","value":"1"}}`)); !errors.Is(err, ErrFormat) {
		t.Errorf("bad version accepted: %v", err)
	}
	if _, err := Unmarshal([]byte(`{"version":1,"expr":{"type":"power","args":[]}}`)); !errors.Is(err, ErrFormat) {
		t.Errorf("bad arity accepted: %v", err)
	}
}
