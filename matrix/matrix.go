// Package matrix manages dense matrices of numbers.
package matrix

import (
	"fmt"
	"math"
	"strings"

	"zappem.net/pub/math/algsolve/number"
)

type Matrix struct {
	// row count and col count
	rows, cols int
	// The matrix elements arranged, [r=0,c=0], [0,1], [0,2] ...
	data []number.Value
}

// NewMatrix creates a rows x cols matrix of zeros.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("need positive dimensions, not %dx%d", rows, cols)
	}
	m := &Matrix{
		rows: rows,
		cols: cols,
		data: make([]number.Value, rows*cols),
	}
	return m, nil
}

// Cols returns the column count of m.
func (m *Matrix) Cols() int { return m.cols }

// String serializes a matrix for displaying.
func (m *Matrix) String() string {
	var rs []string
	for r := 0; r < m.rows; r++ {
		var cs []string
		for c := 0; c < m.cols; c++ {
			cs = append(cs, m.data[c+m.cols*r].String())
		}
		rs = append(rs, "["+strings.Join(cs, ", ")+"]")
	}
	return "[" + strings.Join(rs, ", ") + "]"
}

// Set sets the value of a matrix element.
func (m *Matrix) Set(row, col int, v number.Value) error {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return fmt.Errorf("bad cell: [%d,%d] in %dx%d matrix", row, col, m.rows, m.cols)
	}
	m.data[col+m.cols*row] = v
	return nil
}

// El returns the row,col element of the matrix.
func (m *Matrix) El(row, col int) number.Value {
	return m.data[col+m.cols*row]
}

// Clone returns an independent copy of m.
func (m *Matrix) Clone() *Matrix {
	n := &Matrix{rows: m.rows, cols: m.cols, data: make([]number.Value, len(m.data))}
	copy(n.data, m.data)
	return n
}

// Columns returns a copy of the columns [from, to) of m.
func (m *Matrix) Columns(from, to int) (*Matrix, error) {
	if from < 0 || to > m.cols || from >= to {
		return nil, fmt.Errorf("bad column range [%d,%d) of %d columns", from, to, m.cols)
	}
	n, _ := NewMatrix(m.rows, to-from)
	for r := 0; r < m.rows; r++ {
		copy(n.data[r*n.cols:(r+1)*n.cols], m.data[r*m.cols+from:r*m.cols+to])
	}
	return n, nil
}

// Mul multiplies m x n with conventional matrix multiplication.
func (m *Matrix) Mul(n *Matrix) (*Matrix, error) {
	if m.cols != n.rows {
		return nil, fmt.Errorf("a cols(%d) != b rows(%d)", m.cols, n.rows)
	}
	a, err := NewMatrix(m.rows, n.cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			var e number.Value
			for i := 0; i < m.cols; i++ {
				e = e.Add(m.El(r, i).Mul(n.El(i, c)))
			}
			a.Set(r, c, e)
		}
	}
	return a, nil
}

// Sum returns m + scale*n.
func (m *Matrix) Sum(n *Matrix, scale number.Value) (*Matrix, error) {
	if m.rows != n.rows || m.cols != n.cols {
		return nil, fmt.Errorf("inequivalent dimensions %dx%d != %dx%d", m.rows, m.cols, n.rows, n.cols)
	}
	a, _ := NewMatrix(m.rows, m.cols)
	for i := range a.data {
		a.data[i] = m.data[i].Add(n.data[i].Mul(scale))
	}
	return a, nil
}

// Norm returns the largest absolute value of an element.
func (m *Matrix) Norm() float64 {
	var n float64
	for _, v := range m.data {
		n = max(n, math.Abs(v.Float64()))
	}
	return n
}

// tolerance below which an approximate pivot counts as zero.
const tolerance = 1e-12

// negligible reports whether v should be treated as zero during
// elimination.
func negligible(v number.Value) bool {
	if v.IsExact() {
		return v.IsZero()
	}
	return math.Abs(v.Float64()) <= tolerance
}

// Echelon performs Gauss-Jordan elimination with partial pivoting on
// the first ncols columns of m and returns the reduced row echelon
// form together with the pivot column of each non-zero row. Columns
// past ncols (an augmented right hand side) are carried along but
// never pivoted on. m is not modified.
func (m *Matrix) Echelon(ncols int) (*Matrix, []int) {
	if ncols > m.cols {
		ncols = m.cols
	}
	a := m.Clone()
	var pivots []int
	row := 0
	for col := 0; col < ncols && row < a.rows; col++ {
		// Partial pivoting: the largest magnitude entry.
		best := -1
		for r := row; r < a.rows; r++ {
			v := a.El(r, col)
			if negligible(v) {
				continue
			}
			if best < 0 || v.Abs().Cmp(a.El(best, col).Abs()) > 0 {
				best = r
			}
		}
		if best < 0 {
			continue
		}
		a.swap(row, best)
		inv, _ := a.El(row, col).Inv()
		for c := col; c < a.cols; c++ {
			a.Set(row, c, a.El(row, c).Mul(inv))
		}
		for r := 0; r < a.rows; r++ {
			if r == row {
				continue
			}
			f := a.El(r, col)
			if f.IsZero() {
				continue
			}
			for c := col; c < a.cols; c++ {
				a.Set(r, c, a.El(r, c).Sub(f.Mul(a.El(row, c))))
			}
			// Exact cancellation for approximate arithmetic.
			a.Set(r, col, number.Int(0))
		}
		pivots = append(pivots, col)
		row++
	}
	return a, pivots
}

func (m *Matrix) swap(i, j int) {
	if i == j {
		return
	}
	for c := 0; c < m.cols; c++ {
		m.data[c+m.cols*i], m.data[c+m.cols*j] = m.data[c+m.cols*j], m.data[c+m.cols*i]
	}
}

// Rank returns the rank of m.
func (m *Matrix) Rank() int {
	_, p := m.Echelon(m.cols)
	return len(p)
}
