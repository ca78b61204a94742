// Package poly implements exact multivariate polynomials over the
// rationals, the working domain of the Gröbner engine.
package poly

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"zappem.net/pub/math/algsolve/symbol"
)

// Order selects a monomial order.
type Order int

const (
	// Lex compares exponents variable by variable.
	Lex Order = iota
	// GrLex compares total degree, then Lex.
	GrLex
	// GrevLex compares total degree, then the reversed exponents
	// with the smaller last exponent winning.
	GrevLex
)

var orderNames = [...]string{"lex", "grlex", "grevlex"}

func (o Order) String() string {
	if o >= 0 && int(o) < len(orderNames) {
		return orderNames[o]
	}
	return "<ERROR>"
}

// ErrBadOrder is returned by ParseOrder for an unknown name.
var ErrBadOrder = errors.New("unknown monomial order")

// ParseOrder converts "lex", "grlex" or "grevlex" into an Order.
func ParseOrder(s string) (Order, error) {
	for i, n := range orderNames {
		if strings.EqualFold(s, n) {
			return Order(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrBadOrder)
}

// Monomial holds one exponent per ring variable. Monomials of the
// same ring always have the same length.
type Monomial []uint32

// Degree is the total degree of m.
func (m Monomial) Degree() int {
	d := 0
	for _, e := range m {
		d += int(e)
	}
	return d
}

// IsOne reports whether m is the constant monomial.
func (m Monomial) IsOne() bool {
	for _, e := range m {
		if e != 0 {
			return false
		}
	}
	return true
}

// Divides reports whether m divides n.
func (m Monomial) Divides(n Monomial) bool {
	for i, e := range m {
		if e > n[i] {
			return false
		}
	}
	return true
}

// MaxExponent bounds the exponents FromExpr accepts, leaving room for
// the products formed during reduction.
const MaxExponent = 1 << 16

// Mul returns m*n. It panics if an exponent overflows.
func (m Monomial) Mul(n Monomial) Monomial {
	r := make(Monomial, len(m))
	for i := range m {
		r[i] = m[i] + n[i]
		if r[i] < m[i] {
			panic("poly: monomial exponent overflow")
		}
	}
	return r
}

// Div returns m/n. n must divide m.
func (m Monomial) Div(n Monomial) Monomial {
	r := make(Monomial, len(m))
	for i := range m {
		r[i] = m[i] - n[i]
	}
	return r
}

// LCM returns the least common multiple of m and n.
func (m Monomial) LCM(n Monomial) Monomial {
	r := make(Monomial, len(m))
	for i := range m {
		r[i] = max(m[i], n[i])
	}
	return r
}

// Coprime reports whether m and n share no variable.
func (m Monomial) Coprime(n Monomial) bool {
	for i := range m {
		if m[i] != 0 && n[i] != 0 {
			return false
		}
	}
	return true
}

// Equal compares exponents.
func (m Monomial) Equal(n Monomial) bool {
	for i := range m {
		if m[i] != n[i] {
			return false
		}
	}
	return true
}

// key indexes a monomial in a map.
func (m Monomial) key() string {
	var b strings.Builder
	for i, e := range m {
		if i != 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(e), 10))
	}
	return b.String()
}

var (
	// ErrDuplicateVar rejects a ring listing a variable twice.
	ErrDuplicateVar = errors.New("duplicate ring variable")
	// ErrNoVars rejects a ring without variables.
	ErrNoVars = errors.New("ring needs at least one variable")
)

// Ring fixes the variables, in decreasing significance, and the
// monomial order of a set of polynomials.
type Ring struct {
	vars  []symbol.Symbol
	order Order
	index map[symbol.Symbol]int
}

// NewRing returns the ring Q[vars...] under order. The first variable
// is the most significant one; for Lex it is eliminated first.
func NewRing(order Order, vars ...symbol.Symbol) (*Ring, error) {
	if len(vars) == 0 {
		return nil, ErrNoVars
	}
	if order < Lex || order > GrevLex {
		return nil, fmt.Errorf("order %d: %w", order, ErrBadOrder)
	}
	r := &Ring{
		vars:  append([]symbol.Symbol(nil), vars...),
		order: order,
		index: make(map[symbol.Symbol]int, len(vars)),
	}
	for i, v := range vars {
		if _, dup := r.index[v]; dup {
			return nil, fmt.Errorf("%q: %w", v.Name(), ErrDuplicateVar)
		}
		r.index[v] = i
	}
	return r, nil
}

// Vars returns a copy of the ring variables.
func (r *Ring) Vars() []symbol.Symbol {
	return append([]symbol.Symbol(nil), r.vars...)
}

// Order returns the monomial order of r.
func (r *Ring) Order() Order {
	return r.order
}

// Index returns the position of s among the ring variables.
func (r *Ring) Index(s symbol.Symbol) (int, bool) {
	i, ok := r.index[s]
	return i, ok
}

// WithOrder returns the same variables under another order.
func (r *Ring) WithOrder(o Order) *Ring {
	nr, _ := NewRing(o, r.vars...)
	return nr
}

// One returns the constant monomial of r.
func (r *Ring) One() Monomial {
	return make(Monomial, len(r.vars))
}

// Compare orders monomials under the ring order.
func (r *Ring) Compare(a, b Monomial) int {
	switch r.order {
	case GrLex, GrevLex:
		da, db := a.Degree(), b.Degree()
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		if r.order == GrevLex {
			for i := len(a) - 1; i >= 0; i-- {
				switch {
				case a[i] > b[i]:
					return -1
				case a[i] < b[i]:
					return 1
				}
			}
			return 0
		}
	}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// format writes m as a product of powers; the constant monomial is "".
func (r *Ring) format(m Monomial) string {
	var s []string
	for i, e := range m {
		switch e {
		case 0:
		case 1:
			s = append(s, r.vars[i].Name())
		default:
			s = append(s, fmt.Sprintf("%s^%d", r.vars[i].Name(), e))
		}
	}
	return strings.Join(s, "*")
}
