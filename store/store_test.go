package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/solve"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestResultRoundTrip(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	x := expr.Var("x")
	xs, _ := x.Symbol()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	want := solve.Result{
		Outcome: solve.MultipleSolutions,
		Solutions: []solve.Solution{
			{{Var: xs, Value: expr.Neg(expr.Sqrt(expr.Int(2)))}},
			{{Var: xs, Value: expr.Sqrt(expr.Int(2))}},
		},
		Basis: []expr.Expr{expr.Sub(expr.Pow(x, expr.Int(2)), expr.Int(2))},
	}
	require.NoError(t, s.Put(ctx, "x^2=2", want))
	got, ok, err := s.Get(ctx, "x^2=2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.String(), got.String())
	assert.Equal(t, want.Outcome, got.Outcome)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, s.Purge())
	n, err = s.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestExprRoundTrip(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	e := expr.Add(expr.Var("x"), expr.Fn("sin", expr.Var("y")))
	require.NoError(t, s.PutExpr(ctx, "k", e))
	got, ok, err := s.GetExpr(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, e.Equal(got))

	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expression and result keys are separate")
}

func TestDispatcherCache(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	x := expr.Var("x")
	xs, _ := x.Symbol()
	d := solve.New(solve.Options{Cache: s})
	eq := expr.Eq(expr.Pow(x, expr.Int(2)), expr.Int(9))
	first, err := d.Solve(ctx, eq, xs)
	require.NoError(t, err)

	key, err := solve.Single(eq, xs).Key()
	require.NoError(t, err)
	cached, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.String(), cached.String())

	second, err := d.Solve(ctx, eq, xs)
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())
}

func TestCancelled(t *testing.T) {
	s := open(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Put(ctx, "k", solve.Result{}), context.Canceled)
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenNeedsPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
	s, err := Open(Config{Path: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
