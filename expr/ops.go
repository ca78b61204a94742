package expr

import (
	"math"
	"sort"

	"zappem.net/pub/math/algsolve/symbol"
)

// maxExpandPower bounds the integer powers of sums that Expand
// multiplies out.
const maxExpandPower = 64

// rebuild reconstructs a composite expression of the same kind as e
// from new children.
func rebuild(e Expr, args []Expr) Expr {
	switch e.kind {
	case Sum:
		return std.sum(args)
	case Product:
		return std.product(args)
	case Power:
		return std.power(args[0], args[1])
	case Call:
		return std.call(e.n.name, args)
	case Equation:
		return std.equation(args[0], args[1])
	}
	return e
}

// Map applies f to every child of e and rebuilds e. Leaves are
// returned unchanged.
func Map(e Expr, f func(Expr) Expr) Expr {
	if e.n == nil || e.kind == Undefined {
		return e
	}
	args := make([]Expr, len(e.n.args))
	for i, a := range e.n.args {
		args[i] = f(a)
	}
	return rebuild(e, args)
}

// Has reports whether symbol s occurs in e.
func Has(e Expr, s symbol.Symbol) bool {
	switch e.kind {
	case Symbol:
		return e.sym == s
	case Number, Undefined:
		return false
	}
	for _, a := range e.n.args {
		if Has(a, s) {
			return true
		}
	}
	return false
}

// FreeSymbols lists the symbols of e sorted by name.
func FreeSymbols(e Expr) []symbol.Symbol {
	seen := make(map[symbol.Symbol]bool)
	var walk func(Expr)
	walk = func(x Expr) {
		switch x.kind {
		case Symbol:
			seen[x.sym] = true
		case Number, Undefined:
		default:
			for _, a := range x.n.args {
				walk(a)
			}
		}
	}
	walk(e)
	var ss []symbol.Symbol
	for s := range seen {
		ss = append(ss, s)
	}
	symbol.Sort(ss)
	return ss
}

// Substitute replaces every occurrence of s in e with v.
func Substitute(e Expr, s symbol.Symbol, v Expr) Expr {
	if e.kind == Symbol {
		if e.sym == s {
			return v
		}
		return e
	}
	return Map(e, func(a Expr) Expr { return Substitute(a, s, v) })
}

// SubstituteAll replaces several symbols simultaneously.
func SubstituteAll(e Expr, vs map[symbol.Symbol]Expr) Expr {
	if e.kind == Symbol {
		if v, ok := vs[e.sym]; ok {
			return v
		}
		return e
	}
	return Map(e, func(a Expr) Expr { return SubstituteAll(a, vs) })
}

// Expand distributes products over sums and multiplies out positive
// integer powers of sums.
func Expand(e Expr) Expr {
	switch e.kind {
	case Number, Symbol, Undefined:
		return e
	case Product:
		acc := Int(1)
		for _, f := range e.n.args {
			acc = mulExpand(acc, Expand(f))
		}
		return acc
	case Power:
		b, x := Expand(e.n.args[0]), e.n.args[1]
		if n, ok := x.num.Int64(); ok && x.kind == Number && b.kind == Sum {
			switch {
			case n > 0 && n <= maxExpandPower:
				acc := b
				for i := int64(1); i < n; i++ {
					acc = mulExpand(acc, b)
				}
				return acc
			case n < 0 && -n <= maxExpandPower:
				return std.power(Expand(std.power(b, Int(-n))), Int(-1))
			}
		}
		p := std.power(b, x)
		if p.kind == Product || (p.kind == Power && !Equal(p, e)) {
			return Expand(p)
		}
		return p
	}
	return Map(e, Expand)
}

// mulExpand multiplies two expanded expressions term by term.
func mulExpand(a, b Expr) Expr {
	if a.kind != Sum && b.kind != Sum {
		return std.product([]Expr{a, b})
	}
	var out []Expr
	for _, x := range Terms(a) {
		for _, y := range Terms(b) {
			out = append(out, std.product([]Expr{x, y}))
		}
	}
	return std.sum(out)
}

// Diff differentiates e with respect to s.
func Diff(e Expr, s symbol.Symbol) Expr {
	if e.kind == Undefined {
		return e
	}
	if !Has(e, s) {
		return Int(0)
	}
	switch e.kind {
	case Symbol:
		return Int(1)
	case Sum:
		ds := make([]Expr, len(e.n.args))
		for i, a := range e.n.args {
			ds[i] = Diff(a, s)
		}
		return std.sum(ds)
	case Product:
		var ds []Expr
		for i := range e.n.args {
			fs := e.Args()
			fs[i] = Diff(fs[i], s)
			ds = append(ds, std.product(fs))
		}
		return std.sum(ds)
	case Power:
		b, x := e.n.args[0], e.n.args[1]
		switch {
		case !Has(x, s):
			return Mul(x, Pow(b, Sub(x, Int(1))), Diff(b, s))
		case !Has(b, s):
			return Mul(e, Fn("ln", b), Diff(x, s))
		}
		return Mul(e, Add(Mul(Diff(x, s), Fn("ln", b)), Mul(x, Diff(b, s), Pow(b, Int(-1)))))
	case Call:
		if e.n.name == DerivativeName {
			d := mk(Call, append(e.Args(), Sym(s))...)
			d.n.name = DerivativeName
			return d
		}
		if len(e.n.args) == 1 {
			if p, ok := builtins.Partial(e.n.name, e.n.args, 0); ok {
				return Mul(p, Diff(e.n.args[0], s))
			}
		}
		d := mk(Call, e, Sym(s))
		d.n.name = DerivativeName
		return d
	case Equation:
		return std.equation(Diff(e.n.args[0], s), Diff(e.n.args[1], s))
	}
	return Int(0)
}

// Coefficients expands e as a polynomial in s and returns the
// coefficient of each power of s. The boolean is false when e is not
// a polynomial in s: s appears with a negative, fractional or symbolic
// exponent, or inside a function call.
func Coefficients(e Expr, s symbol.Symbol) (map[int]Expr, bool) {
	ex := Expand(e)
	if ex.kind == Undefined || ex.kind == Equation {
		return nil, false
	}
	parts := make(map[int][]Expr)
	for _, t := range Terms(ex) {
		deg := 0
		var rest []Expr
		for _, f := range Factors(t) {
			switch {
			case f.kind == Symbol && f.sym == s:
				deg++
			case f.kind == Power && f.n.args[0].kind == Symbol && f.n.args[0].sym == s:
				n, ok := f.n.args[1].num.Int64()
				if f.n.args[1].kind != Number || !ok || n < 0 {
					return nil, false
				}
				deg += int(n)
			case Has(f, s):
				return nil, false
			default:
				rest = append(rest, f)
			}
		}
		parts[deg] = append(parts[deg], std.product(rest))
	}
	cs := make(map[int]Expr, len(parts))
	for d, p := range parts {
		if c := std.sum(p); !c.IsZero() {
			cs[d] = c
		}
	}
	return cs, true
}

// Degree returns the polynomial degree of e in s. The zero polynomial
// has degree 0.
func Degree(e Expr, s symbol.Symbol) (int, bool) {
	cs, ok := Coefficients(e, s)
	if !ok {
		return 0, false
	}
	deg := 0
	for d := range cs {
		if d > deg {
			deg = d
		}
	}
	return deg, true
}

// Powers lists the degrees present in a coefficient map in
// increasing order.
func Powers(cs map[int]Expr) []int {
	var ds []int
	for d := range cs {
		ds = append(ds, d)
	}
	sort.Ints(ds)
	return ds
}

// Evalf approximates a closed numeric expression. The boolean is false
// when e contains symbols, undefined parts, or leaves the reals.
func Evalf(e Expr) (float64, bool) {
	var f float64
	switch e.kind {
	case Number:
		return e.num.Float64(), true
	case Sum:
		for _, a := range e.n.args {
			v, ok := Evalf(a)
			if !ok {
				return 0, false
			}
			f += v
		}
	case Product:
		f = 1
		for _, a := range e.n.args {
			v, ok := Evalf(a)
			if !ok {
				return 0, false
			}
			f *= v
		}
	case Power:
		b, ok1 := Evalf(e.n.args[0])
		x, ok2 := Evalf(e.n.args[1])
		if !ok1 || !ok2 {
			return 0, false
		}
		if b < 0 && e.n.args[1].kind == Number && e.n.args[1].num.IsExact() && e.n.args[1].num.Denom().Bit(0) == 1 {
			// Odd root of a negative number is real.
			f = -math.Pow(-b, x)
			if e.n.args[1].num.Num().Bit(0) == 0 {
				f = -f
			}
		} else {
			f = math.Pow(b, x)
		}
	case Call:
		b, ok := builtins[e.n.name]
		if !ok || b.fn == nil || len(e.n.args) != 1 {
			return 0, false
		}
		v, ok := Evalf(e.n.args[0])
		if !ok {
			return 0, false
		}
		f = b.fn(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
