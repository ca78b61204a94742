// Package expr defines the canonical symbolic expression value.
//
// An Expr is a small fixed-size value: numbers and symbol handles are
// held inline while every variable length list of children lives
// behind a single pointer. Expressions are immutable. They are only
// produced by the constructors in this package, each of which returns
// the canonical form, so two structurally equal expressions are always
// Equal.
package expr

import (
	"zappem.net/pub/math/algsolve/number"
	"zappem.net/pub/math/algsolve/symbol"
)

// Kind identifies the variant held by an Expr. The numeric values
// double as the first key of the canonical ordering.
type Kind uint8

const (
	Number Kind = iota
	Symbol
	Power
	Product
	Sum
	Call
	Equation
	Undefined
)

var kindNames = [...]string{"num", "sym", "power", "product", "sum", "call", "equation", "undefined"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "<ERROR>"
}

// Expr is an immutable canonical expression. The zero Expr is the
// integer 0.
type Expr struct {
	kind Kind
	sym  symbol.Symbol
	num  number.Value
	n    *node
}

// node holds the children of composite expressions. For Power the
// args are [base, exponent], for Equation [lhs, rhs]. name is the
// function name of a Call or the reason of an Undefined.
type node struct {
	name string
	args []Expr
}

// Step is a named intermediate expression produced while solving,
// exposed as plain data for explanation layers.
type Step struct {
	Label string `json:"label"`
	Expr  Expr   `json:"expr"`
}

func mk(k Kind, args ...Expr) Expr {
	return Expr{kind: k, n: &node{args: args}}
}

// Kind returns the variant of e.
func (e Expr) Kind() Kind { return e.kind }

// Num returns an exact or approximate number expression.
func Num(v number.Value) Expr {
	if !v.Finite() {
		return Undef("non-finite number")
	}
	return Expr{kind: Number, num: v}
}

// Int returns an integer expression.
func Int(n int64) Expr { return Num(number.Int(n)) }

// Rat returns the rational p/q in lowest terms, or an Undefined
// expression when q is zero.
func Rat(p, q int64) Expr {
	v, err := number.NewRat(p, q)
	if err != nil {
		return Undef(err.Error())
	}
	return Num(v)
}

// Float returns an approximate number. NaN and infinities are
// Undefined.
func Float(f float64) Expr {
	v, err := number.NewFloat(f)
	if err != nil {
		return Undef(err.Error())
	}
	return Num(v)
}

// Sym returns a symbol expression.
func Sym(s symbol.Symbol) Expr { return Expr{kind: Symbol, sym: s} }

// Var interns name and returns it as an expression.
func Var(name string, as ...symbol.Assumptions) Expr {
	return Sym(symbol.Intern(name, as...))
}

// Undef returns the explicit undefined marker carrying a reason.
func Undef(reason string) Expr {
	return Expr{kind: Undefined, n: &node{name: reason}}
}

// Add returns the canonical sum of its arguments.
func Add(args ...Expr) Expr { return std.sum(args) }

// Mul returns the canonical product of its arguments.
func Mul(args ...Expr) Expr { return std.product(args) }

// Pow returns the canonical form of base^exp.
func Pow(base, exp Expr) Expr { return std.power(base, exp) }

// Neg returns -a, represented as (-1)*a.
func Neg(a Expr) Expr { return Mul(Int(-1), a) }

// Sub returns a-b, represented as a + (-1)*b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Div returns a/b, represented as a * b^(-1).
func Div(a, b Expr) Expr { return Mul(a, Pow(b, Int(-1))) }

// Sqrt returns a^(1/2).
func Sqrt(a Expr) Expr { return Pow(a, Rat(1, 2)) }

// Fn returns the function call name(args...), evaluated through the
// builtin registry where an exact value is known.
func Fn(name string, args ...Expr) Expr { return std.call(name, args) }

// Eq returns the equation lhs = rhs.
func Eq(lhs, rhs Expr) Expr { return std.equation(lhs, rhs) }

// Number returns the numeric value of a Number expression.
func (e Expr) Number() (number.Value, bool) {
	return e.num, e.kind == Number
}

// Symbol returns the symbol of a Symbol expression.
func (e Expr) Symbol() (symbol.Symbol, bool) {
	return e.sym, e.kind == Symbol
}

// Len returns the number of children of e.
func (e Expr) Len() int {
	if e.n == nil {
		return 0
	}
	return len(e.n.args)
}

// Arg returns the i-th child of e.
func (e Expr) Arg(i int) Expr {
	return e.n.args[i]
}

// Args returns a copy of the children of e.
func (e Expr) Args() []Expr {
	if e.n == nil {
		return nil
	}
	return append([]Expr(nil), e.n.args...)
}

// Base returns the base of a Power, or e itself.
func (e Expr) Base() Expr {
	if e.kind == Power {
		return e.n.args[0]
	}
	return e
}

// Exponent returns the exponent of a Power, or 1.
func (e Expr) Exponent() Expr {
	if e.kind == Power {
		return e.n.args[1]
	}
	return Int(1)
}

// LHS returns the left hand side of an Equation.
func (e Expr) LHS() Expr {
	if e.kind != Equation {
		return e
	}
	return e.n.args[0]
}

// RHS returns the right hand side of an Equation, or 0.
func (e Expr) RHS() Expr {
	if e.kind != Equation {
		return Int(0)
	}
	return e.n.args[1]
}

// Name returns the function name of a Call.
func (e Expr) Name() string {
	if e.kind != Call {
		return ""
	}
	return e.n.name
}

// Reason explains an Undefined expression.
func (e Expr) Reason() string {
	if e.kind != Undefined {
		return ""
	}
	return e.n.name
}

// IsZero tests for the number zero (exact or approximate).
func (e Expr) IsZero() bool {
	return e.kind == Number && e.num.IsZero()
}

// IsOne tests for the exact integer one.
func (e Expr) IsOne() bool {
	return e.kind == Number && e.num.IsOne()
}

// IsUndefined tests for the undefined marker.
func (e Expr) IsUndefined() bool {
	return e.kind == Undefined
}

// IsNumber tests for a numeric expression.
func (e Expr) IsNumber() bool {
	return e.kind == Number
}

// Terms returns the operands of a Sum, or e alone.
func Terms(e Expr) []Expr {
	if e.kind == Sum {
		return e.Args()
	}
	return []Expr{e}
}

// Factors returns the operands of a Product, or e alone.
func Factors(e Expr) []Expr {
	if e.kind == Product {
		return e.Args()
	}
	return []Expr{e}
}

// Residual returns lhs - rhs for an Equation, and e otherwise.
func Residual(e Expr) Expr {
	if e.kind != Equation {
		return e
	}
	return Sub(e.n.args[0], e.n.args[1])
}
