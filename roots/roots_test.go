package roots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zappem.net/pub/math/algsolve/expr"
)

var (
	x = expr.Var("x")
	b = expr.Var("b")
	a = expr.Var("a")
)

func strs(es []expr.Expr) []string {
	var out []string
	for _, e := range es {
		out = append(out, e.String())
	}
	return out
}

func pow(e expr.Expr, n int64) expr.Expr { return expr.Pow(e, expr.Int(n)) }

func TestSolve(t *testing.T) {
	tests := []struct {
		name     string
		e        expr.Expr
		want     []string
		complete bool
	}{
		{"difference of squares", expr.Sub(pow(x, 2), expr.Int(1)), []string{"-1", "1"}, true},
		{"no real roots", expr.Add(pow(x, 2), expr.Int(1)), nil, true},
		{"double root", expr.Add(pow(x, 2), expr.Mul(expr.Int(-2), x), expr.Int(1)), []string{"1"}, true},
		{"radical roots", expr.Sub(pow(x, 2), expr.Rat(1, 2)), []string{"-1/2*2^(1/2)", "1/2*2^(1/2)"}, true},
		{"zero root factored", expr.Sub(pow(x, 3), x), []string{"-1", "0", "1"}, true},
		{"rational cubic", expr.Add(pow(x, 3), expr.Mul(expr.Int(-6), pow(x, 2)), expr.Mul(expr.Int(11), x), expr.Int(-6)), []string{"1", "2", "3"}, true},
		{"cube root", expr.Sub(pow(x, 3), expr.Int(2)), []string{"2^(1/3)"}, true},
		{"casus irreducibilis", expr.Add(pow(x, 3), expr.Mul(expr.Int(-3), x), expr.Int(1)), nil, false},
		{"rational quartic", expr.Add(pow(x, 4), expr.Mul(expr.Int(-5), pow(x, 2)), expr.Int(4)), []string{"-2", "-1", "1", "2"}, true},
		{"biquadratic", expr.Sub(pow(x, 4), expr.Int(2)), []string{"-2^(1/4)", "2^(1/4)"}, true},
		{"equation form", expr.Eq(expr.Mul(expr.Int(2), x), expr.Int(3)), []string{"3/2"}, true},
		{"approximate linear", expr.Sub(expr.Mul(expr.Float(2), x), expr.Int(1)), []string{"0.5"}, true},
		{"symbolic linear", expr.Add(pow(x, 2), expr.Mul(b, x)), []string{"0", "-b"}, true},
		{"quintic without rational roots", expr.Add(pow(x, 5), x, expr.Int(3)), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xsym, _ := x.Symbol()
			res, err := Solve(tt.e, xsym)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strs(res.Roots), res.Method)
			assert.Equal(t, tt.complete, res.Complete, res.Method)
		})
	}
}

func TestSymbolicQuadratic(t *testing.T) {
	xsym, _ := x.Symbol()
	res, err := Solve(expr.Sub(pow(x, 2), a), xsym)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	require.Len(t, res.Roots, 2)
	asym, _ := a.Symbol()
	var got []string
	for _, r := range res.Roots {
		got = append(got, expr.Substitute(r, asym, expr.Int(9)).String())
	}
	assert.Equal(t, []string{"-3", "3"}, got)
}

func TestNotPolynomial(t *testing.T) {
	xsym, _ := x.Symbol()
	_, err := Solve(expr.Fn("sin", x), xsym)
	assert.ErrorIs(t, err, ErrNotPolynomial)
}

func TestDegreeBound(t *testing.T) {
	xsym, _ := x.Symbol()
	for _, n := range []int64{1 << 20, 4294967298} {
		res, err := Solve(expr.Eq(pow(x, n), expr.Int(4)), xsym)
		require.NoError(t, err)
		assert.False(t, res.Complete, "x^%d", n)
		assert.Empty(t, res.Roots)
	}
}

func TestRootsVerify(t *testing.T) {
	xsym, _ := x.Symbol()
	p := expr.Add(pow(x, 3), expr.Mul(expr.Int(-2), x), expr.Int(4))
	res, err := Solve(p, xsym)
	require.NoError(t, err)
	require.True(t, res.Complete, res.Method)
	for _, r := range res.Roots {
		v, ok := expr.Evalf(expr.Substitute(p, xsym, r))
		require.True(t, ok)
		assert.InDelta(t, 0, v, 1e-9, "root %v", r)
	}
}
