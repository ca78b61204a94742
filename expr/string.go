package expr

import (
	"strings"
)

// String renders e in plain infix notation. This is a debugging and
// logging aid, not a formatter.
func (e Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e Expr) write(b *strings.Builder) {
	switch e.kind {
	case Number:
		b.WriteString(e.num.String())
	case Symbol:
		b.WriteString(e.sym.String())
	case Sum:
		for i, t := range e.n.args {
			if i == 0 {
				t.write(b)
				continue
			}
			if negative(t) {
				b.WriteString(" - ")
				Neg(t).write(b)
				continue
			}
			b.WriteString(" + ")
			t.write(b)
		}
	case Product:
		args := e.n.args
		if args[0].kind == Number && args[0].num.IsMinusOne() {
			b.WriteString("-")
			args = args[1:]
		}
		for i, f := range args {
			if i != 0 {
				b.WriteString("*")
			}
			if f.kind == Sum {
				b.WriteString("(")
				f.write(b)
				b.WriteString(")")
				continue
			}
			f.write(b)
		}
	case Power:
		base, exp := e.n.args[0], e.n.args[1]
		paren := base.kind == Sum || base.kind == Product || base.kind == Power || base.kind == Equation ||
			(base.kind == Number && (base.num.Sign() < 0 || !base.num.IsInt()))
		if paren {
			b.WriteString("(")
		}
		base.write(b)
		if paren {
			b.WriteString(")")
		}
		b.WriteString("^")
		simple := exp.kind == Symbol || (exp.kind == Number && exp.num.IsInt() && exp.num.Sign() >= 0)
		if !simple {
			b.WriteString("(")
		}
		exp.write(b)
		if !simple {
			b.WriteString(")")
		}
	case Call:
		b.WriteString(e.n.name)
		b.WriteString("(")
		for i, a := range e.n.args {
			if i != 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteString(")")
	case Equation:
		e.n.args[0].write(b)
		b.WriteString(" = ")
		e.n.args[1].write(b)
	case Undefined:
		b.WriteString("undefined(")
		b.WriteString(e.n.name)
		b.WriteString(")")
	default:
		b.WriteString("<ERROR>")
	}
}
