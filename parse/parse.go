// Package parse reads standard infix notation into canonical
// expressions. Supported syntax:
//
//	2*x^2 - 3/4*x*y + sin(x)^2 = 1
//	x^2 + y^2 = 1, x = y
//
// Operators are + - * / ^ with the usual precedence; ^ is right
// associative and binds tighter than unary minus, so -x^2 is -(x^2).
package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/number"
	"zappem.net/pub/math/algsolve/symbol"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("syntax problem")

const allLetters = "abcdefghijklmnopqrstuvwxyz_"
const allDigits = "0123456789"

var isValidLabel = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`).MatchString

// ValidSymbol confirms that token can name a variable or function.
func ValidSymbol(token string) bool {
	return isValidLabel(token)
}

type kind int

const (
	tEOF kind = iota
	tNum
	tName
	tOp
)

type token struct {
	kind kind
	text string
	pos  int
}

// skipSpace counts the prefix spaces.
func skipSpace(s string) int {
	for i := 0; i < len(s); i++ {
		if !strings.Contains(" \t\n\r", s[i:i+1]) {
			return i
		}
	}
	return len(s)
}

// lex splits s into tokens.
func lex(s string) ([]token, error) {
	var ts []token
	i := 0
	for {
		i += skipSpace(s[i:])
		if i == len(s) {
			return append(ts, token{kind: tEOF, pos: i}), nil
		}
		c := s[i : i+1]
		switch {
		case strings.Contains("+-*/^()=,", c):
			ts = append(ts, token{kind: tOp, text: c, pos: i})
			i++
		case strings.Contains(allDigits+".", c):
			j := i
			for j < len(s) && strings.Contains(allDigits+".", s[j:j+1]) {
				j++
			}
			if j < len(s) && strings.Contains("eE", s[j:j+1]) {
				k := j + 1
				if k < len(s) && strings.Contains("+-", s[k:k+1]) {
					k++
				}
				if k < len(s) && strings.Contains(allDigits, s[k:k+1]) {
					for j = k; j < len(s) && strings.Contains(allDigits, s[j:j+1]); j++ {
					}
				}
			}
			ts = append(ts, token{kind: tNum, text: s[i:j], pos: i})
			i = j
		case strings.Contains(allLetters, strings.ToLower(c)):
			j := i
			for j < len(s) && strings.Contains(allLetters+allDigits, strings.ToLower(s[j:j+1])) {
				j++
			}
			ts = append(ts, token{kind: tName, text: s[i:j], pos: i})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, c, i)
		}
	}
}

type parser struct {
	ts  []token
	at  int
	reg *expr.Canonicalizer
}

func (p *parser) peek() token { return p.ts[p.at] }

func (p *parser) next() token {
	t := p.ts[p.at]
	if t.kind != tEOF {
		p.at++
	}
	return t
}

func (p *parser) is(op string) bool {
	t := p.peek()
	return t.kind == tOp && t.text == op
}

func (p *parser) expect(op string) error {
	if t := p.next(); t.kind != tOp || t.text != op {
		return p.errorf(t, "want %q", op)
	}
	return nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	what := t.text
	if t.kind == tEOF {
		what = "end of input"
	}
	return fmt.Errorf("%w at %d near %q: %s", ErrSyntax, t.pos, what, fmt.Sprintf(format, args...))
}

// equation := sum [ "=" sum ]
func (p *parser) equation() (expr.Expr, error) {
	l, err := p.sum()
	if err != nil {
		return l, err
	}
	if !p.is("=") {
		return l, nil
	}
	p.next()
	r, err := p.sum()
	if err != nil {
		return r, err
	}
	return expr.Eq(l, r), nil
}

// sum := term { ("+"|"-") term }
func (p *parser) sum() (expr.Expr, error) {
	acc, err := p.term()
	if err != nil {
		return acc, err
	}
	for p.is("+") || p.is("-") {
		op := p.next().text
		t, err := p.term()
		if err != nil {
			return t, err
		}
		if op == "-" {
			t = expr.Neg(t)
		}
		acc = expr.Add(acc, t)
	}
	return acc, nil
}

// term := unary { ("*"|"/") unary }
func (p *parser) term() (expr.Expr, error) {
	acc, err := p.unary()
	if err != nil {
		return acc, err
	}
	for p.is("*") || p.is("/") {
		op := p.next().text
		f, err := p.unary()
		if err != nil {
			return f, err
		}
		if op == "/" {
			acc = expr.Div(acc, f)
		} else {
			acc = expr.Mul(acc, f)
		}
	}
	return acc, nil
}

// unary := ("-"|"+") unary | power
func (p *parser) unary() (expr.Expr, error) {
	switch {
	case p.is("-"):
		p.next()
		u, err := p.unary()
		if err != nil {
			return u, err
		}
		return expr.Neg(u), nil
	case p.is("+"):
		p.next()
		return p.unary()
	}
	return p.power()
}

// power := atom [ "^" unary ]
func (p *parser) power() (expr.Expr, error) {
	b, err := p.atom()
	if err != nil {
		return b, err
	}
	if !p.is("^") {
		return b, nil
	}
	p.next()
	e, err := p.unary()
	if err != nil {
		return e, err
	}
	return expr.Pow(b, e), nil
}

// atom := number | name [ "(" args ")" ] | "(" sum ")"
func (p *parser) atom() (expr.Expr, error) {
	t := p.next()
	switch t.kind {
	case tNum:
		v, err := number.Parse(t.text)
		if err != nil {
			return expr.Expr{}, p.errorf(t, "%v", err)
		}
		return expr.Num(v), nil
	case tName:
		if !ValidSymbol(t.text) {
			return expr.Expr{}, p.errorf(t, "invalid name")
		}
		if !p.is("(") {
			s, err := symbol.New(t.text)
			if err != nil {
				return expr.Expr{}, p.errorf(t, "%v", err)
			}
			return expr.Sym(s), nil
		}
		p.next()
		var args []expr.Expr
		if !p.is(")") {
			for {
				a, err := p.sum()
				if err != nil {
					return a, err
				}
				args = append(args, a)
				if !p.is(",") {
					break
				}
				p.next()
			}
		}
		if err := p.expect(")"); err != nil {
			return expr.Expr{}, err
		}
		return p.reg.Call(t.text, args...), nil
	case tOp:
		if t.text == "(" {
			e, err := p.sum()
			if err != nil {
				return e, err
			}
			if err := p.expect(")"); err != nil {
				return expr.Expr{}, err
			}
			return e, nil
		}
	}
	return expr.Expr{}, p.errorf(t, "want a number, name or \"(\"")
}

// Parser parses with a function registry.
type Parser struct {
	// Canonicalizer resolves function calls; nil uses the builtin
	// registry.
	Canonicalizer *expr.Canonicalizer
}

func (ps Parser) start(s string) (*parser, error) {
	ts, err := lex(s)
	if err != nil {
		return nil, err
	}
	c := ps.Canonicalizer
	if c == nil {
		c = &expr.Canonicalizer{}
	}
	return &parser{ts: ts, reg: c}, nil
}

// Parse reads one expression or equation.
func (ps Parser) Parse(s string) (expr.Expr, error) {
	p, err := ps.start(s)
	if err != nil {
		return expr.Expr{}, err
	}
	e, err := p.equation()
	if err != nil {
		return expr.Expr{}, err
	}
	if t := p.peek(); t.kind != tEOF {
		return expr.Expr{}, p.errorf(t, "trailing input")
	}
	return e, nil
}

// ParseList reads comma separated expressions or equations.
func (ps Parser) ParseList(s string) ([]expr.Expr, error) {
	p, err := ps.start(s)
	if err != nil {
		return nil, err
	}
	var es []expr.Expr
	for {
		e, err := p.equation()
		if err != nil {
			return nil, err
		}
		es = append(es, e)
		if !p.is(",") {
			break
		}
		p.next()
	}
	if t := p.peek(); t.kind != tEOF {
		return nil, p.errorf(t, "trailing input")
	}
	return es, nil
}

// Parse reads s with the builtin function registry.
func Parse(s string) (expr.Expr, error) {
	return Parser{}.Parse(s)
}

// ParseList reads comma separated expressions with the builtin
// function registry.
func ParseList(s string) ([]expr.Expr, error) {
	return Parser{}.ParseList(s)
}

// Vars reads a comma separated variable list. A variable may carry
// assumptions after a colon, e.g. "x:positive, n:integer:nonzero".
func Vars(s string) ([]symbol.Symbol, error) {
	var out []symbol.Symbol
	for _, f := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(f), ":")
		name := parts[0]
		if !ValidSymbol(name) {
			return nil, fmt.Errorf("%w: invalid variable %q", ErrSyntax, name)
		}
		var as symbol.Assumptions
		for _, a := range parts[1:] {
			x, err := symbol.ParseAssumption(strings.TrimSpace(a))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			as |= x
		}
		var sym symbol.Symbol
		var err error
		if as != 0 {
			sym, err = symbol.New(name, as)
		} else {
			sym, err = symbol.New(name)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, nil
}
