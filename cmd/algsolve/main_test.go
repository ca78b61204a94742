package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zappem.net/pub/math/algsolve/config"
	"zappem.net/pub/math/algsolve/solve"
	"zappem.net/pub/math/algsolve/store"
)

func testApp(t *testing.T, cached bool) *app {
	t.Helper()
	a := &app{cfg: config.Default(), log: slog.New(slog.DiscardHandler)}
	opts := solve.Options{Logger: a.log}
	if cached {
		s, err := store.Open(store.Config{InMemory: true, Logger: a.log})
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		a.cache = s
		opts.Cache = s
	}
	a.disp = solve.New(opts)
	return a
}

func TestSession(t *testing.T) {
	vs := []struct {
		in   []string
		want []string
	}{
		{in: []string{"x := 2", "x + 1"}, want: []string{" 3\n"}},
		{in: []string{"(a + b)^2"}, want: []string{"2*a*b", "a^2", "b^2"}},
		{in: []string{"y := x^2", "x := 3", "y - 1"}, want: []string{" 8\n"}},
		{in: []string{"x := 1", "x :=", "list", "x"}, want: []string{" x\n"}},
		{in: []string{"b := 1", "a := b + 1", "list"}, want: []string{" a := 1 + b\n b := 1\n"}},
		{in: []string{"# nothing", ""}, want: []string{""}},
		{in: []string{"1 + := 2"}, want: []string{"invalid assignment"}},
		{in: []string{"x := x + 1"}, want: []string{"cannot refer to itself"}},
		{in: []string{"2 *"}, want: []string{"syntax error"}},
		{
			in:   []string{"solve 2*x + y = 5, x - y = 1 for x, y"},
			want: []string{"class: system/linear via system", "outcome: unique", "{x = 2, y = 1}"},
		},
		{
			in:   []string{"solve x^2 - 4 = 0 for x"},
			want: []string{"class: quadratic via quadratic", "outcome: multiple", "{x = 2}", "{x = -2}"},
		},
		{
			in:   []string{"k := 9", "solve x^2 - k for x"},
			want: []string{"{x = 3}", "{x = -3}"},
		},
		{
			in:   []string{"basis x^2 + y^2 - 1, x - y for x, y"},
			want: []string{"grevlex basis:", "finitely many solutions"},
		},
		{
			in:   []string{"basis x*y - 1, x, y for x, y"},
			want: []string{"  1\n", "no solutions"},
		},
		{in: []string{"solve sin(x) = 1 for x"}, want: []string{"outcome: indeterminate"}},
	}
	for i, v := range vs {
		var out bytes.Buffer
		s := newSession(testApp(t, false), &out)
		for _, line := range v.in {
			if s.eval(context.Background(), line) {
				t.Fatalf("[%d] %q ended the session", i, line)
			}
		}
		for _, w := range v.want {
			if !strings.Contains(out.String(), w) {
				t.Errorf("[%d] got=%q want substring %q", i, out.String(), w)
			}
		}
	}
}

func TestSessionExit(t *testing.T) {
	var out bytes.Buffer
	s := newSession(testApp(t, false), &out)
	assert.False(t, s.eval(context.Background(), "list"))
	assert.True(t, s.eval(context.Background(), "exit"))
	assert.Equal(t, "exiting\n", out.String())
}

func TestCommand(t *testing.T) {
	vs := []struct {
		line, verb, args, vars string
		ok                     bool
	}{
		{"solve x = 1 for x", "solve", "x = 1", "x", true},
		{"solve x = 1", "solve", "x = 1", "", true},
		{"basis x, y for x, y", "basis", "x, y", "x, y", true},
		{"solver x", "solve", "", "", false},
		{"x + 1", "basis", "", "", false},
	}
	for i, v := range vs {
		args, vars, ok := command(v.line, v.verb)
		if args != v.args || vars != v.vars || ok != v.ok {
			t.Errorf("[%d] got=(%q, %q, %v) want=(%q, %q, %v)", i, args, vars, ok, v.args, v.vars, v.ok)
		}
	}
}

func TestRunSolveJSON(t *testing.T) {
	var out bytes.Buffer
	a := testApp(t, false)
	require.NoError(t, runSolve(context.Background(), a, &out, "x^2 + y^2 = 1, x = y", "x, y", true))
	var res solve.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, solve.MultipleSolutions, res.Outcome)
	assert.Len(t, res.Solutions, 2)
	assert.NotEmpty(t, res.Basis)
}

func TestRunSolveInfersVars(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSolve(context.Background(), testApp(t, false), &out, "3*x - 6", "", false))
	assert.Contains(t, out.String(), "{x = 2}")

	err := runSolve(context.Background(), testApp(t, false), &out, "1 = 2", "", false)
	assert.Error(t, err)
}

func TestRunBasisOrder(t *testing.T) {
	var out bytes.Buffer
	a := testApp(t, false)
	require.NoError(t, runBasis(context.Background(), a, &out, "x^2 + y^2 - 1, x - y", "x, y", "lex"))
	assert.Equal(t, "lex basis:\n  x-y\n  y^2-1/2\nfinitely many solutions\n", out.String())

	assert.Error(t, runBasis(context.Background(), a, &out, "x", "x", "random"))
	assert.Error(t, runBasis(context.Background(), a, &out, "sin(x)", "x", ""))
}

func TestRunSimplify(t *testing.T) {
	for _, cached := range []bool{false, true} {
		a := testApp(t, cached)
		for round := 0; round < 2; round++ {
			var out bytes.Buffer
			require.NoError(t, runSimplify(context.Background(), a, &out, "(x + 1)*(x - 1)", true))
			assert.Equal(t, "-1 + x^2\n", out.String(), "cached=%v round=%d", cached, round)
		}
		var out bytes.Buffer
		require.NoError(t, runSimplify(context.Background(), a, &out, "x + x", false))
		assert.Equal(t, "2*x\n", out.String())
	}
}
