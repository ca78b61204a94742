package expr

import (
	"math"

	"zappem.net/pub/math/algsolve/number"
	"zappem.net/pub/math/algsolve/symbol"
)

// PropertySet describes the behavior of a named function.
type PropertySet uint16

const (
	// Odd functions satisfy f(-x) = -f(x).
	Odd PropertySet = 1 << iota
	// Even functions satisfy f(-x) = f(x).
	Even
	// PositiveDomain functions are only real for positive arguments.
	PositiveDomain
	// UnitDomain functions are only real on [-1, 1].
	UnitDomain
	// Transcendental marks functions that are not algebraic.
	Transcendental
	// Derivative marks the unevaluated derivative Derivative(f, x...).
	Derivative
)

// Has reports whether all of q are set in p.
func (p PropertySet) Has(q PropertySet) bool {
	return p&q == q
}

// Registry resolves function names. The canonicalizer consults it for
// every Call; lookups are expected to be constant time.
type Registry interface {
	IsKnown(name string) bool
	Properties(name string) PropertySet
	EvaluateIfExact(name string, args []Expr) (Expr, bool)
}

// Differentiator is implemented by registries that know the
// derivative of their functions with respect to argument i.
type Differentiator interface {
	Partial(name string, args []Expr, i int) (Expr, bool)
}

// DerivativeName is the name of the unevaluated derivative call.
const DerivativeName = "Derivative"

type builtin struct {
	props PropertySet
	arity int
	// fn evaluates approximate arguments.
	fn func(float64) float64
	// exact evaluates special exact arguments.
	exact func(x Expr) (Expr, bool)
	// deriv is d/dx f(x) for single argument functions.
	deriv func(x Expr) Expr
}

// builtinRegistry is the function table used by package level
// constructors.
type builtinRegistry map[string]builtin

// Builtins returns the default registry of elementary functions.
func Builtins() Registry {
	return builtins
}

var builtins builtinRegistry

func init() {
	at := func(v Expr) func(Expr) (Expr, bool) {
		return func(x Expr) (Expr, bool) {
			if x.IsZero() && x.num.IsExact() {
				return v, true
			}
			return Expr{}, false
		}
	}
	builtins = builtinRegistry{
		"sin": {props: Odd | Transcendental, arity: 1, fn: math.Sin, exact: at(Int(0)),
			deriv: func(x Expr) Expr { return Fn("cos", x) }},
		"cos": {props: Even | Transcendental, arity: 1, fn: math.Cos, exact: at(Int(1)),
			deriv: func(x Expr) Expr { return Neg(Fn("sin", x)) }},
		"tan": {props: Odd | Transcendental, arity: 1, fn: math.Tan, exact: at(Int(0)),
			deriv: func(x Expr) Expr { return Pow(Fn("cos", x), Int(-2)) }},
		"exp": {props: Transcendental, arity: 1, fn: math.Exp, exact: expExact,
			deriv: func(x Expr) Expr { return Fn("exp", x) }},
		"ln": {props: PositiveDomain | Transcendental, arity: 1, fn: math.Log, exact: lnExact,
			deriv: func(x Expr) Expr { return Pow(x, Int(-1)) }},
		"sqrt": {arity: 1, exact: func(x Expr) (Expr, bool) { return Sqrt(x), true }},
		"abs":  {props: Even, arity: 1, fn: math.Abs, exact: absExact},
		"asin": {props: Odd | UnitDomain | Transcendental, arity: 1, fn: math.Asin, exact: unitGuard(at(Int(0))),
			deriv: func(x Expr) Expr { return Pow(Sub(Int(1), Pow(x, Int(2))), Rat(-1, 2)) }},
		"acos": {props: UnitDomain | Transcendental, arity: 1, fn: math.Acos, exact: unitGuard(func(x Expr) (Expr, bool) {
			if x.IsOne() {
				return Int(0), true
			}
			return Expr{}, false
		}),
			deriv: func(x Expr) Expr { return Neg(Pow(Sub(Int(1), Pow(x, Int(2))), Rat(-1, 2))) }},
		"atan": {props: Odd | Transcendental, arity: 1, fn: math.Atan, exact: at(Int(0)),
			deriv: func(x Expr) Expr { return Pow(Add(Int(1), Pow(x, Int(2))), Int(-1)) }},
		"sinh": {props: Odd | Transcendental, arity: 1, fn: math.Sinh, exact: at(Int(0)),
			deriv: func(x Expr) Expr { return Fn("cosh", x) }},
		"cosh": {props: Even | Transcendental, arity: 1, fn: math.Cosh, exact: at(Int(1)),
			deriv: func(x Expr) Expr { return Fn("sinh", x) }},
		"tanh": {props: Odd | Transcendental, arity: 1, fn: math.Tanh, exact: at(Int(0)),
			deriv: func(x Expr) Expr { return Pow(Fn("cosh", x), Int(-2)) }},
		DerivativeName: {props: Derivative, arity: -1},
	}
}

func expExact(x Expr) (Expr, bool) {
	if x.IsZero() && x.num.IsExact() {
		return Int(1), true
	}
	if x.kind == Call && x.n.name == "ln" {
		return x.n.args[0], true
	}
	return Expr{}, false
}

func lnExact(x Expr) (Expr, bool) {
	if x.kind == Number && x.num.IsExact() {
		switch {
		case x.num.Sign() <= 0:
			return Undef("logarithm of non-positive number"), true
		case x.num.IsOne():
			return Int(0), true
		}
	}
	if x.kind == Call && x.n.name == "exp" {
		return x.n.args[0], true
	}
	return Expr{}, false
}

func absExact(x Expr) (Expr, bool) {
	switch x.kind {
	case Number:
		return Num(x.num.Abs()), true
	case Symbol:
		if x.sym.Assumptions().Has(symbol.NonNegative) {
			return x, true
		}
	}
	return Expr{}, false
}

// unitGuard rejects exact arguments outside [-1, 1].
func unitGuard(f func(Expr) (Expr, bool)) func(Expr) (Expr, bool) {
	return func(x Expr) (Expr, bool) {
		if x.kind == Number && x.num.IsExact() && x.num.Abs().Cmp(number.Int(1)) > 0 {
			return Undef("argument outside [-1,1]"), true
		}
		return f(x)
	}
}

func (r builtinRegistry) IsKnown(name string) bool {
	_, ok := r[name]
	return ok
}

func (r builtinRegistry) Properties(name string) PropertySet {
	return r[name].props
}

func (r builtinRegistry) EvaluateIfExact(name string, args []Expr) (Expr, bool) {
	b, ok := r[name]
	if !ok {
		return Expr{}, false
	}
	if b.props.Has(Derivative) {
		return evalDerivative(args)
	}
	if b.arity >= 0 && len(args) != b.arity {
		return Undef(name + ": wrong number of arguments"), true
	}
	x := args[0]
	if b.exact != nil {
		if v, ok := b.exact(x); ok {
			return v, true
		}
	}
	if b.fn != nil && x.kind == Number && !x.num.IsExact() {
		return Float(b.fn(x.num.Float64())), true
	}
	return Expr{}, false
}

func (r builtinRegistry) Partial(name string, args []Expr, i int) (Expr, bool) {
	b, ok := r[name]
	if !ok || b.deriv == nil || i != 0 || len(args) != 1 {
		return Expr{}, false
	}
	return b.deriv(args[0]), true
}

// evalDerivative resolves Derivative(f, x1, x2, ...) when f contains
// no unknown function calls.
func evalDerivative(args []Expr) (Expr, bool) {
	if len(args) < 2 {
		return Undef("Derivative: needs a function and a variable"), true
	}
	for _, v := range args[1:] {
		if v.kind != Symbol {
			return Undef("Derivative: differentiation variable must be a symbol"), true
		}
	}
	f := args[0]
	if hasUnknownCall(f) {
		return Expr{}, false
	}
	for _, v := range args[1:] {
		f = Diff(f, v.sym)
	}
	return f, true
}

func hasUnknownCall(e Expr) bool {
	if e.kind == Call && !builtins.IsKnown(e.n.name) {
		return true
	}
	if e.n == nil {
		return false
	}
	for _, a := range e.n.args {
		if hasUnknownCall(a) {
			return true
		}
	}
	return false
}
