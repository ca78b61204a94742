package matrix

import (
	"testing"

	"zappem.net/pub/math/algsolve/number"
)

func fill(t *testing.T, rows [][]number.Value) *Matrix {
	t.Helper()
	m, err := NewMatrix(len(rows), len(rows[0]))
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	for r, row := range rows {
		for c, v := range row {
			if err := m.Set(r, c, v); err != nil {
				t.Fatalf("Set: %v", err)
			}
		}
	}
	return m
}

func ints(vs ...int64) []number.Value {
	var out []number.Value
	for _, v := range vs {
		out = append(out, number.Int(v))
	}
	return out
}

func TestBasics(t *testing.T) {
	if _, err := NewMatrix(0, 2); err == nil {
		t.Error("zero rows accepted")
	}
	a := fill(t, [][]number.Value{ints(1, 2), ints(3, 4)})
	id := fill(t, [][]number.Value{ints(1, 0), ints(0, 1)})
	aug := fill(t, [][]number.Value{ints(1, 2, 5), ints(3, 4, -6)})
	mul := func(m, n *Matrix) *Matrix {
		p, err := m.Mul(n)
		if err != nil {
			t.Fatalf("Mul: %v", err)
		}
		return p
	}
	sum := func(m, n *Matrix, scale int64) *Matrix {
		s, err := m.Sum(n, number.Int(scale))
		if err != nil {
			t.Fatalf("Sum: %v", err)
		}
		return s
	}
	cols := func(m *Matrix, from, to int) *Matrix {
		c, err := m.Columns(from, to)
		if err != nil {
			t.Fatalf("Columns: %v", err)
		}
		return c
	}
	vs := []struct {
		m *Matrix
		s string
	}{
		{m: a, s: "[[1, 2], [3, 4]]"},
		{m: mul(a, id), s: "[[1, 2], [3, 4]]"},
		{m: mul(a, a), s: "[[7, 10], [15, 22]]"},
		{m: sum(a, id, -1), s: "[[0, 2], [3, 3]]"},
		{m: cols(aug, 0, 2), s: "[[1, 2], [3, 4]]"},
		{m: cols(aug, 2, 3), s: "[[5], [-6]]"},
		{m: mul(cols(aug, 0, 2), cols(aug, 2, 3)), s: "[[-7], [-9]]"},
	}
	for i, v := range vs {
		if s := v.m.String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
	}
	if err := a.Set(2, 0, number.Int(1)); err == nil {
		t.Error("out of range cell accepted")
	}
	if _, err := a.Mul(fill(t, [][]number.Value{ints(1, 2, 3)})); err == nil {
		t.Error("mismatched product accepted")
	}
	if _, err := a.Sum(aug, number.Int(1)); err == nil {
		t.Error("mismatched sum accepted")
	}
	for _, r := range [][2]int{{-1, 1}, {1, 1}, {0, 4}} {
		if _, err := aug.Columns(r[0], r[1]); err == nil {
			t.Errorf("column range %v accepted", r)
		}
	}
	if n := aug.Norm(); n != 6 {
		t.Errorf("norm got=%v want=6", n)
	}
	if c := aug.Cols(); c != 3 {
		t.Errorf("cols got=%d want=3", c)
	}
}

func TestEchelon(t *testing.T) {
	vs := []struct {
		m      *Matrix
		ncols  int
		s      string
		pivots int
		rank   int
	}{
		{
			m:     fill(t, [][]number.Value{ints(2, 1, 5), ints(1, -1, 1)}),
			ncols: 2, s: "[[1, 0, 2], [0, 1, 1]]", pivots: 2, rank: 2,
		},
		{
			m:     fill(t, [][]number.Value{ints(1, 1, 1), ints(2, 2, 3)}),
			ncols: 2, s: "[[1, 1, 3/2], [0, 0, -1/2]]", pivots: 1, rank: 2,
		},
		{
			m:     fill(t, [][]number.Value{ints(1, 1, 2), ints(2, 2, 4)}),
			ncols: 2, s: "[[1, 1, 2], [0, 0, 0]]", pivots: 1, rank: 1,
		},
	}
	for i, v := range vs {
		e, p := v.m.Echelon(v.ncols)
		if s := e.String(); s != v.s {
			t.Errorf("[%d] got=%q want=%q", i, s, v.s)
		}
		if len(p) != v.pivots {
			t.Errorf("[%d] pivots got=%v want %d", i, p, v.pivots)
		}
		if r := v.m.Rank(); r != v.rank {
			t.Errorf("[%d] rank got=%d want=%d", i, r, v.rank)
		}
	}
}

func TestEchelonApproximate(t *testing.T) {
	m := fill(t, [][]number.Value{
		{number.MustRat(1, 10), number.Int(1)},
		{number.Int(1), number.Int(1)},
	})
	f, _ := number.NewFloat(0.3)
	m.Set(0, 0, f)
	e, p := m.Echelon(2)
	if len(p) != 2 {
		t.Fatalf("pivots got=%v", p)
	}
	if v := e.El(0, 1); !v.IsZero() {
		t.Errorf("got=%v want=0", v)
	}
}
