package expr

import (
	"strings"

	"zappem.net/pub/math/algsolve/symbol"
)

// Compare is the total order used to sort commutative operands: kind
// first, then structure. Symbols compare by name.
func Compare(a, b Expr) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case Number:
		if c := a.num.Cmp(b.num); c != 0 {
			return c
		}
		switch {
		case a.num.Kind() < b.num.Kind():
			return -1
		case a.num.Kind() > b.num.Kind():
			return 1
		}
		return 0
	case Symbol:
		return symbol.Compare(a.sym, b.sym)
	case Call:
		if c := strings.Compare(a.n.name, b.n.name); c != 0 {
			return c
		}
	case Undefined:
		return strings.Compare(a.n.name, b.n.name)
	}
	return compareArgs(a.n.args, b.n.args)
}

func compareArgs(x, y []Expr) int {
	for i := 0; i < len(x) && i < len(y); i++ {
		if c := Compare(x[i], y[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	}
	return 0
}

// Equal reports structural equality. Since expressions are canonical,
// this is also equality of the values they represent as far as the
// canonicalizer can tell.
func Equal(a, b Expr) bool {
	return Compare(a, b) == 0
}

// Equal is a method form of the package function.
func (e Expr) Equal(o Expr) bool {
	return Equal(e, o)
}
