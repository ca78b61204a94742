// Package number implements the numeric values of expressions: exact
// integers, exact rationals and approximate floats.
package number

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind distinguishes the three representations of a Value.
type Kind uint8

const (
	Integer Kind = iota
	Rational
	Float
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "int"
	case Rational:
		return "rat"
	case Float:
		return "float"
	}
	return "<ERROR>"
}

var (
	// ErrDivisionByZero is returned by Inv and Quo for a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNotFinite rejects NaN and infinite floats.
	ErrNotFinite = errors.New("non-finite floating point value")
	// ErrSyntax is returned by Parse.
	ErrSyntax = errors.New("invalid number syntax")
)

// Value is an immutable number. Exact values are held as a reduced
// big.Rat; a Value of kind Rational never has a denominator of 1. The
// zero Value is the integer 0.
type Value struct {
	kind Kind
	r    *big.Rat
	f    float64
}

var (
	ratZero = new(big.Rat)
	ratOne  = big.NewRat(1, 1)
)

// exact wraps r without copying. The caller must not retain r.
func exact(r *big.Rat) Value {
	if r.IsInt() {
		return Value{kind: Integer, r: r}
	}
	return Value{kind: Rational, r: r}
}

// Int returns an exact integer.
func Int(n int64) Value {
	return exact(new(big.Rat).SetInt64(n))
}

// BigInt copies n into an exact integer.
func BigInt(n *big.Int) Value {
	return exact(new(big.Rat).SetInt(n))
}

// FromRat copies r into an exact value, collapsing to an integer when
// the denominator is 1.
func FromRat(r *big.Rat) Value {
	return exact(new(big.Rat).Set(r))
}

// NewRat returns num/den in lowest terms.
func NewRat(num, den int64) (Value, error) {
	if den == 0 {
		return Value{}, ErrDivisionByZero
	}
	return exact(big.NewRat(num, den)), nil
}

// MustRat is NewRat that panics on a zero denominator.
func MustRat(num, den int64) Value {
	v, err := NewRat(num, den)
	if err != nil {
		panic(err)
	}
	return v
}

// NewFloat returns an approximate value. NaN and infinities are
// rejected.
func NewFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, ErrNotFinite
	}
	return Value{kind: Float, f: f}, nil
}

// Parse reads an integer ("-12"), a rational ("3/4") or a decimal
// ("1.25", "2e-3"). Decimals are approximate.
func Parse(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, ErrSyntax
	}
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q: %w", s, ErrSyntax)
		}
		return NewFloat(f)
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		if d, ok := new(big.Int).SetString(strings.TrimSpace(s[i+1:]), 10); ok && d.Sign() == 0 {
			return Value{}, ErrDivisionByZero
		}
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Value{}, fmt.Errorf("%q: %w", s, ErrSyntax)
	}
	return exact(r), nil
}

func (v Value) rat() *big.Rat {
	if v.r == nil {
		return ratZero
	}
	return v.r
}

// Kind returns the representation of v.
func (v Value) Kind() Kind { return v.kind }

// IsExact indicates v is an integer or rational.
func (v Value) IsExact() bool { return v.kind != Float }

// IsInt indicates v is an exact integer.
func (v Value) IsInt() bool { return v.kind == Integer }

// Finite is false only for floats that overflowed.
func (v Value) Finite() bool {
	return v.kind != Float || !(math.IsNaN(v.f) || math.IsInf(v.f, 0))
}

// Sign returns -1, 0 or +1.
func (v Value) Sign() int {
	if v.kind == Float {
		switch {
		case v.f < 0:
			return -1
		case v.f > 0:
			return 1
		}
		return 0
	}
	return v.rat().Sign()
}

// IsZero tests for exact or approximate zero.
func (v Value) IsZero() bool { return v.Sign() == 0 }

// IsOne tests for exactly 1. A float 1.0 is not considered the
// multiplicative identity since it would erase approximation.
func (v Value) IsOne() bool {
	return v.kind == Integer && v.rat().Cmp(ratOne) == 0
}

// IsMinusOne tests for exactly -1.
func (v Value) IsMinusOne() bool {
	return v.kind == Integer && v.rat().Num().IsInt64() && v.rat().Num().Int64() == -1
}

// Float64 returns the nearest float64 to v.
func (v Value) Float64() float64 {
	if v.kind == Float {
		return v.f
	}
	f, _ := v.rat().Float64()
	return f
}

// Rat returns a copy of the exact value of v. Floats are converted
// exactly from their binary representation.
func (v Value) Rat() *big.Rat {
	if v.kind == Float {
		r := new(big.Rat)
		r.SetFloat64(v.f)
		return r
	}
	return new(big.Rat).Set(v.rat())
}

// Num returns a copy of the numerator of an exact value.
func (v Value) Num() *big.Int {
	return new(big.Int).Set(v.Rat().Num())
}

// Denom returns a copy of the (positive) denominator of an exact value.
func (v Value) Denom() *big.Int {
	return new(big.Int).Set(v.Rat().Denom())
}

// Int64 returns the value of an exact integer that fits in an int64.
func (v Value) Int64() (int64, bool) {
	if v.kind != Integer || !v.rat().Num().IsInt64() {
		return 0, false
	}
	return v.rat().Num().Int64(), true
}

// String formats v. Rationals use "p/q".
func (v Value) String() string {
	switch v.kind {
	case Float:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	case Integer:
		return v.rat().Num().String()
	}
	return v.rat().RatString()
}

func float(f float64) Value {
	return Value{kind: Float, f: f}
}

// Neg returns -v.
func (v Value) Neg() Value {
	if v.kind == Float {
		return float(-v.f)
	}
	return exact(new(big.Rat).Neg(v.rat()))
}

// Add returns v+w. The result is exact only when both are exact.
func (v Value) Add(w Value) Value {
	if v.kind == Float || w.kind == Float {
		return float(v.Float64() + w.Float64())
	}
	return exact(new(big.Rat).Add(v.rat(), w.rat()))
}

// Sub returns v-w.
func (v Value) Sub(w Value) Value {
	return v.Add(w.Neg())
}

// Mul returns v*w.
func (v Value) Mul(w Value) Value {
	if v.kind == Float || w.kind == Float {
		return float(v.Float64() * w.Float64())
	}
	return exact(new(big.Rat).Mul(v.rat(), w.rat()))
}

// Inv returns 1/v.
func (v Value) Inv() (Value, error) {
	if v.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	if v.kind == Float {
		return float(1 / v.f), nil
	}
	return exact(new(big.Rat).Inv(v.rat())), nil
}

// Quo returns v/w.
func (v Value) Quo(w Value) (Value, error) {
	inv, err := w.Inv()
	if err != nil {
		return Value{}, err
	}
	return v.Mul(inv), nil
}

// PowInt raises v to an integer power. 0^0 and 0^-n are domain errors
// reported as ErrDivisionByZero (0^-n) or ErrIndeterminate (0^0).
func (v Value) PowInt(n int64) (Value, error) {
	if v.IsZero() {
		switch {
		case n == 0:
			return Value{}, ErrIndeterminate
		case n < 0:
			return Value{}, ErrDivisionByZero
		}
		return v, nil
	}
	if v.kind == Float {
		f := math.Pow(v.f, float64(n))
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, ErrNotFinite
		}
		return float(f), nil
	}
	neg := n < 0
	if neg {
		n = -n
	}
	e := big.NewInt(n)
	num := new(big.Int).Exp(v.rat().Num(), e, nil)
	den := new(big.Int).Exp(v.rat().Denom(), e, nil)
	if neg {
		num, den = den, num
	}
	return exact(new(big.Rat).SetFrac(num, den)), nil
}

// ErrIndeterminate is returned by PowInt for 0^0.
var ErrIndeterminate = errors.New("indeterminate form 0^0")

// Cmp compares the numeric values of v and w.
func (v Value) Cmp(w Value) int {
	if v.kind == Float || w.kind == Float {
		a, b := v.Float64(), w.Float64()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return v.rat().Cmp(w.rat())
}

// Equal reports structural equality: same kind and same value.
func (v Value) Equal(w Value) bool {
	return v.kind == w.kind && v.Cmp(w) == 0
}

// Abs returns |v|.
func (v Value) Abs() Value {
	if v.Sign() < 0 {
		return v.Neg()
	}
	return v
}
