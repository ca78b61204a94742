package parse

import (
	"errors"
	"testing"

	"zappem.net/pub/math/algsolve/symbol"
)

func TestParse(t *testing.T) {
	vs := []struct {
		in, s string
	}{
		{in: "x + 0", s: "x"},
		{in: "2*x + 1", s: "1 + 2*x"},
		{in: "y + x", s: "x + y"},
		{in: "x - y", s: "x - y"},
		{in: "x/2", s: "1/2*x"},
		{in: "6/4", s: "3/2"},
		{in: "3 - 4", s: "-1"},
		{in: "x*y*2", s: "2*x*y"},
		{in: "2^-1", s: "1/2"},
		{in: "2^3^2", s: "512"},
		{in: "-2^2", s: "-4"},
		{in: "-x^2", s: "-x^2"},
		{in: "+x", s: "x"},
		{in: "(x)", s: "x"},
		{in: "2*(x + 1)", s: "2*(1 + x)"},
		{in: "sin(-x)", s: "-sin(x)"},
		{in: "sqrt(8)", s: "2*2^(1/2)"},
		{in: "f(x, y)", s: "f(x, y)"},
		{in: " x^2 + y^2 = 1 ", s: "x^2 + y^2 = 1"},
		{in: "x2 * x2", s: "x2^2"},
	}
	for i, v := range vs {
		e, err := Parse(v.in)
		if err != nil {
			t.Errorf("[%d] %q: %v", i, v.in, err)
			continue
		}
		if s := e.String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for i, in := range []string{"", "x +", "2x", "(x", "x)", "x $ y", "sin(x", "x = = y", "1..2", "_x", "f(,)"} {
		if e, err := Parse(in); !errors.Is(err, ErrSyntax) {
			t.Errorf("[%d] %q: got=%v,%v want %v", i, in, e, err, ErrSyntax)
		}
	}
}

func TestParseList(t *testing.T) {
	es, err := ParseList("x^2 + y^2 = 1, x = y")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	want := []string{"x^2 + y^2 = 1", "x = y"}
	if len(es) != len(want) {
		t.Fatalf("got=%v want=%v", es, want)
	}
	for i, e := range es {
		if s := e.String(); s != want[i] {
			t.Errorf("[%d] got=%q want=%q", i, s, want[i])
		}
	}
	if _, err := ParseList("x = 1,"); !errors.Is(err, ErrSyntax) {
		t.Errorf("trailing comma accepted: %v", err)
	}
}

func TestVars(t *testing.T) {
	ss, err := Vars("x, pv:positive, nv:integer:nonzero")
	if err != nil {
		t.Fatalf("Vars: %v", err)
	}
	if len(ss) != 3 || ss[0].Name() != "x" {
		t.Fatalf("got=%v", ss)
	}
	if !ss[1].Assumptions().Has(symbol.Positive) {
		t.Errorf("pv: got=%v", ss[1].Assumptions())
	}
	if !ss[2].Assumptions().Has(symbol.Integer | symbol.NonZero) {
		t.Errorf("nv: got=%v", ss[2].Assumptions())
	}
	for i, in := range []string{"x, 2y", "x:tall", ""} {
		if _, err := Vars(in); !errors.Is(err, ErrSyntax) {
			t.Errorf("[%d] %q: got=%v", i, in, err)
		}
	}
}
