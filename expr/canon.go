package expr

import (
	"errors"
	"math"
	"math/big"
	"sort"

	"zappem.net/pub/math/algsolve/number"
	"zappem.net/pub/math/algsolve/symbol"
)

// Canonicalizer rewrites expressions into canonical form, consulting
// Registry for function calls. A nil Registry means Builtins().
type Canonicalizer struct {
	Registry Registry
}

var std = &Canonicalizer{}

// maxExactExponent limits the integer powers of numbers evaluated
// exactly; larger powers are left symbolic.
const maxExactExponent = 4096

// maxRootDegree limits the root degree q of rational exponents p/q
// that are simplified.
const maxRootDegree = 64

// ErrNotCanonical is returned by consumers that require canonical
// input.
var ErrNotCanonical = errors.New("expression is not in canonical form")

// Canonicalize rebuilds e bottom-up with the builtin registry.
func Canonicalize(e Expr) Expr {
	return std.Canonicalize(e)
}

// IsCanonical reports whether e is unchanged by Canonicalize.
func IsCanonical(e Expr) bool {
	return Equal(Canonicalize(e), e)
}

// Canonicalize rebuilds e bottom-up: children first, then the
// operator specific rules of each level.
func (c *Canonicalizer) Canonicalize(e Expr) Expr {
	switch e.kind {
	case Number:
		return Num(e.num)
	case Symbol, Undefined:
		return e
	}
	args := make([]Expr, len(e.n.args))
	for i, a := range e.n.args {
		args[i] = c.Canonicalize(a)
	}
	switch e.kind {
	case Sum:
		return c.sum(args)
	case Product:
		return c.product(args)
	case Power:
		return c.power(args[0], args[1])
	case Call:
		return c.call(e.n.name, args)
	case Equation:
		return c.equation(args[0], args[1])
	}
	return Undef("unknown expression kind")
}

// Call builds the canonical call name(args...) resolved against the
// registry of c.
func (c *Canonicalizer) Call(name string, args ...Expr) Expr {
	return c.call(name, args)
}

// firstUndefined returns the least undefined operand, so the result
// does not depend on operand order.
func firstUndefined(args []Expr) (Expr, bool) {
	var u Expr
	found := false
	for _, a := range args {
		if a.kind == Undefined && (!found || Compare(a, u) < 0) {
			u, found = a, true
		}
	}
	return u, found
}

// term is a numeric coefficient times a non-numeric rest.
type term struct {
	coeff number.Value
	rest  Expr
}

// splitTerm separates the numeric coefficient of a canonical term.
func splitTerm(e Expr) term {
	if e.kind == Product && e.n.args[0].kind == Number {
		rest := e.n.args[1:]
		if len(rest) == 1 {
			return term{coeff: e.n.args[0].num, rest: rest[0]}
		}
		return term{coeff: e.n.args[0].num, rest: mk(Product, rest...)}
	}
	return term{coeff: number.Int(1), rest: e}
}

// scale builds coeff*rest for a canonical non-numeric rest.
func scale(coeff number.Value, rest Expr) Expr {
	if coeff.IsOne() {
		return rest
	}
	if rest.kind == Product {
		return mk(Product, append([]Expr{Num(coeff)}, rest.n.args...)...)
	}
	return mk(Product, Num(coeff), rest)
}

func (c *Canonicalizer) sum(args []Expr) Expr {
	if u, ok := firstUndefined(args); ok {
		return u
	}
	var flat []Expr
	for _, a := range args {
		switch a.kind {
		case Sum:
			flat = append(flat, a.n.args...)
		default:
			flat = append(flat, a)
		}
	}
	konst := number.Int(0)
	var ts []term
	for _, a := range flat {
		if a.kind == Number {
			konst = konst.Add(a.num)
			continue
		}
		ts = append(ts, splitTerm(a))
	}
	if !konst.Finite() {
		return Undef("non-finite number")
	}
	sort.SliceStable(ts, func(i, j int) bool { return Compare(ts[i].rest, ts[j].rest) < 0 })

	var out []Expr
	for i := 0; i < len(ts); {
		t := ts[i]
		j := i + 1
		for ; j < len(ts) && Equal(ts[j].rest, t.rest); j++ {
			t.coeff = t.coeff.Add(ts[j].coeff)
		}
		i = j
		if !t.coeff.Finite() {
			return Undef("non-finite number")
		}
		if t.coeff.IsZero() {
			continue
		}
		out = append(out, scale(t.coeff, t.rest))
	}
	switch {
	case len(out) == 0:
		return Num(konst)
	case konst.IsZero():
		if len(out) == 1 {
			return out[0]
		}
		return mk(Sum, out...)
	}
	return mk(Sum, append([]Expr{Num(konst)}, out...)...)
}

// factor is a base raised to an exponent inside a product.
type factor struct {
	base, exp Expr
}

func (c *Canonicalizer) product(args []Expr) Expr {
	if u, ok := firstUndefined(args); ok {
		return u
	}
	for pass := 0; ; pass++ {
		var flat []Expr
		for _, a := range args {
			switch a.kind {
			case Product:
				flat = append(flat, a.n.args...)
			default:
				flat = append(flat, a)
			}
		}
		coeff := number.Int(1)
		var fs []factor
		for _, a := range flat {
			switch a.kind {
			case Number:
				coeff = coeff.Mul(a.num)
			case Power:
				fs = append(fs, factor{base: a.n.args[0], exp: a.n.args[1]})
			default:
				fs = append(fs, factor{base: a, exp: Int(1)})
			}
		}
		sort.SliceStable(fs, func(i, j int) bool { return Compare(fs[i].base, fs[j].base) < 0 })

		var out []Expr
		again := false
		for i := 0; i < len(fs); {
			f := fs[i]
			exps := []Expr{f.exp}
			j := i + 1
			for ; j < len(fs) && Equal(fs[j].base, f.base); j++ {
				exps = append(exps, fs[j].exp)
			}
			i = j
			exp := f.exp
			if len(exps) > 1 {
				exp = c.sum(exps)
			}
			p := c.power(f.base, exp)
			switch p.kind {
			case Undefined:
				return p
			case Number:
				coeff = coeff.Mul(p.num)
				continue
			case Product:
				again = true
			}
			out = append(out, p)
		}
		if !coeff.Finite() {
			return Undef("non-finite number")
		}
		if again && pass < 4 {
			args = append([]Expr{Num(coeff)}, out...)
			continue
		}
		if coeff.IsZero() {
			return Num(coeff)
		}
		sort.SliceStable(out, func(i, j int) bool { return Compare(out[i].Base(), out[j].Base()) < 0 })
		switch {
		case len(out) == 0:
			return Num(coeff)
		case len(out) == 1 && coeff.IsOne():
			return out[0]
		case coeff.IsOne():
			return mk(Product, out...)
		}
		return mk(Product, append([]Expr{Num(coeff)}, out...)...)
	}
}

// positive reports whether e is known to be positive.
func positive(e Expr) bool {
	switch e.kind {
	case Number:
		return e.num.Sign() > 0
	case Symbol:
		return e.sym.Assumptions().Has(symbol.Positive)
	}
	return false
}

func isInteger(e Expr) bool {
	return e.kind == Number && e.num.IsInt()
}

func (c *Canonicalizer) power(b, e Expr) Expr {
	if b.kind == Undefined {
		return b
	}
	if e.kind == Undefined {
		return e
	}
	if e.kind == Number {
		switch {
		case e.num.IsZero():
			if b.IsZero() {
				return Undef("0^0")
			}
			if e.num.IsExact() {
				return Int(1)
			}
			return Float(1)
		case e.num.IsOne():
			return b
		}
		switch b.kind {
		case Number:
			return c.numPower(b.num, e.num)
		case Power:
			if isInteger(e) || positive(b.n.args[0]) {
				return c.power(b.n.args[0], c.product([]Expr{b.n.args[1], e}))
			}
		case Product:
			if isInteger(e) {
				ps := make([]Expr, len(b.n.args))
				for i, f := range b.n.args {
					ps[i] = c.power(f, e)
				}
				return c.product(ps)
			}
		}
		return mk(Power, b, e)
	}
	switch {
	case b.IsOne():
		return b
	case b.kind == Power && positive(b.n.args[0]):
		return c.power(b.n.args[0], c.product([]Expr{b.n.args[1], e}))
	}
	return mk(Power, b, e)
}

// numPower evaluates b^e for numbers, leaving irrational results as
// simplified radicals.
func (c *Canonicalizer) numPower(b, e number.Value) Expr {
	if !b.IsExact() || !e.IsExact() {
		f := math.Pow(b.Float64(), e.Float64())
		switch {
		case math.IsNaN(f):
			return Undef("non-real power")
		case math.IsInf(f, 0):
			if b.IsZero() {
				return Undef("division by zero")
			}
			return Undef("non-finite number")
		}
		return Float(f)
	}
	if b.IsOne() {
		return Int(1)
	}
	if n, ok := e.Int64(); ok {
		if n > maxExactExponent || n < -maxExactExponent {
			return mk(Power, Num(b), Num(e))
		}
		v, err := b.PowInt(n)
		if err != nil {
			return undefFor(err)
		}
		return Num(v)
	}
	if !e.IsInt() && e.Num().IsInt64() && e.Denom().IsInt64() {
		p, q := e.Num().Int64(), e.Denom().Int64()
		if q > maxRootDegree || p > maxExactExponent*q || p < -maxExactExponent*q {
			return mk(Power, Num(b), Num(e))
		}
		switch b.Sign() {
		case 0:
			if p < 0 {
				return Undef("division by zero")
			}
			return Int(0)
		case -1:
			if q%2 == 0 {
				// Even root of a negative number: not real.
				return mk(Power, Num(b), Num(e))
			}
			sign := Int(1)
			if p%2 != 0 {
				sign = Int(-1)
			}
			return c.product([]Expr{sign, c.numPower(b.Neg(), e)})
		}
		return c.radical(b, p, q)
	}
	return mk(Power, Num(b), Num(e))
}

func undefFor(err error) Expr {
	switch {
	case errors.Is(err, number.ErrIndeterminate):
		return Undef("0^0")
	case errors.Is(err, number.ErrDivisionByZero):
		return Undef("division by zero")
	}
	return Undef(err.Error())
}

// radical simplifies (P/Q)^(p/q) for P/Q > 0 and q > 1. The result is
// a rational coefficient times m^(k/q) where m > 1 is an integer that
// is not a perfect power and 0 < k < q.
func (c *Canonicalizer) radical(b number.Value, p, q int64) Expr {
	w := p / q
	k := p % q
	if k < 0 {
		w--
		k += q
	}
	whole, err := b.PowInt(w)
	if err != nil {
		return undefFor(err)
	}
	P, Q := b.Num(), b.Denom()
	// (P/Q)^(k/q) = (P*Q^(q-1))^(k/q) / Q^k
	M := new(big.Int).Exp(Q, big.NewInt(q-1), nil)
	M.Mul(M, P)
	a, m := number.ExtractPower(M, int(q))
	coeff := new(big.Rat).SetFrac(new(big.Int).Exp(a, big.NewInt(k), nil), new(big.Int).Exp(Q, big.NewInt(k), nil))
	out := whole.Mul(number.FromRat(coeff))
	if m.Cmp(big.NewInt(1)) == 0 {
		return Num(out)
	}
	// m may itself be a perfect power of a degree not dividing q.
	for d := 2; d <= m.BitLen(); d++ {
		if r, ok := number.IntRoot(m, d); ok {
			ne, _ := number.NewRat(k*int64(d), q)
			return c.product([]Expr{Num(out), c.numPower(number.BigInt(r), ne)})
		}
	}
	re, _ := number.NewRat(k, q)
	radical := mk(Power, Num(number.BigInt(m)), Num(re))
	if out.IsOne() {
		return radical
	}
	return mk(Product, Num(out), radical)
}

// negative reports whether e carries a negative numeric coefficient.
func negative(e Expr) bool {
	switch e.kind {
	case Number:
		return e.num.Sign() < 0
	case Product:
		return e.n.args[0].kind == Number && e.n.args[0].num.Sign() < 0
	}
	return false
}

func (c *Canonicalizer) call(name string, args []Expr) Expr {
	if u, ok := firstUndefined(args); ok {
		return u
	}
	reg := c.Registry
	if reg == nil {
		reg = builtins
	}
	if reg.IsKnown(name) {
		props := reg.Properties(name)
		if len(args) == 1 && negative(args[0]) {
			switch {
			case props.Has(Odd):
				return c.product([]Expr{Int(-1), c.call(name, []Expr{c.product([]Expr{Int(-1), args[0]})})})
			case props.Has(Even):
				return c.call(name, []Expr{c.product([]Expr{Int(-1), args[0]})})
			}
		}
		if v, ok := reg.EvaluateIfExact(name, args); ok {
			return v
		}
	}
	x := mk(Call, args...)
	x.n.name = name
	return x
}

func (c *Canonicalizer) equation(l, r Expr) Expr {
	if l.kind == Undefined {
		return l
	}
	if r.kind == Undefined {
		return r
	}
	return mk(Equation, l, r)
}
