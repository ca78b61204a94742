package expr

import (
	"encoding/json"
	"errors"
	"fmt"

	"zappem.net/pub/math/algsolve/number"
	"zappem.net/pub/math/algsolve/symbol"
)

// FormatVersion is the version written by Marshal.
const FormatVersion = 1

// ErrFormat is wrapped by every Unmarshal failure.
var ErrFormat = errors.New("malformed serialized expression")

// wire is the serialized form of one node.
type wire struct {
	Type   string  `json:"type"`
	Kind   string  `json:"kind,omitempty"`
	Value  string  `json:"value,omitempty"`
	Name   string  `json:"name,omitempty"`
	Assume string  `json:"assume,omitempty"`
	Args   []*wire `json:"args,omitempty"`
}

type envelope struct {
	Version int   `json:"version"`
	Expr    *wire `json:"expr"`
}

func toWire(e Expr) *wire {
	w := &wire{Type: e.kind.String()}
	switch e.kind {
	case Number:
		w.Kind = e.num.Kind().String()
		w.Value = e.num.String()
	case Symbol:
		w.Name = e.sym.Name()
		w.Assume = e.sym.Assumptions().String()
	case Call, Undefined:
		w.Name = e.n.name
	}
	if e.n != nil {
		for _, a := range e.n.args {
			w.Args = append(w.Args, toWire(a))
		}
	}
	return w
}

// fromWire rebuilds an expression through the canonicalizing
// constructors, so non-canonical input is normalized.
func fromWire(w *wire) (Expr, error) {
	if w == nil {
		return Expr{}, fmt.Errorf("missing node: %w", ErrFormat)
	}
	args := make([]Expr, len(w.Args))
	for i, a := range w.Args {
		x, err := fromWire(a)
		if err != nil {
			return Expr{}, err
		}
		args[i] = x
	}
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s: want %d args, got %d: %w", w.Type, n, len(args), ErrFormat)
		}
		return nil
	}
	switch w.Type {
	case "num":
		v, err := number.Parse(w.Value)
		if err != nil {
			return Expr{}, fmt.Errorf("num %q: %w", w.Value, err)
		}
		if w.Kind == number.Float.String() && v.IsExact() {
			v, err = number.NewFloat(v.Float64())
			if err != nil {
				return Expr{}, err
			}
		}
		return Num(v), nil
	case "sym":
		var as symbol.Assumptions
		if w.Assume != "" {
			for _, n := range splitComma(w.Assume) {
				a, err := symbol.ParseAssumption(n)
				if err != nil {
					return Expr{}, fmt.Errorf("sym %q: %w", w.Name, err)
				}
				as |= a
			}
		}
		var s symbol.Symbol
		var err error
		if as != 0 {
			s, err = symbol.New(w.Name, as)
		} else {
			s, err = symbol.New(w.Name)
		}
		if err != nil {
			return Expr{}, fmt.Errorf("sym %q: %w", w.Name, err)
		}
		return Sym(s), nil
	case "sum":
		return std.sum(args), nil
	case "product":
		return std.product(args), nil
	case "power":
		if err := arity(2); err != nil {
			return Expr{}, err
		}
		return std.power(args[0], args[1]), nil
	case "call":
		if w.Name == "" {
			return Expr{}, fmt.Errorf("call without name: %w", ErrFormat)
		}
		return std.call(w.Name, args), nil
	case "equation":
		if err := arity(2); err != nil {
			return Expr{}, err
		}
		return std.equation(args[0], args[1]), nil
	case "undefined":
		return Undef(w.Name), nil
	}
	return Expr{}, fmt.Errorf("unknown node type %q: %w", w.Type, ErrFormat)
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// MarshalJSON encodes the node tree of e without a version envelope.
func (e Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(e))
}

// UnmarshalJSON decodes a node tree and canonicalizes it.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	x, err := fromWire(&w)
	if err != nil {
		return err
	}
	*e = x
	return nil
}

// Marshal serializes e into the versioned storage format.
func Marshal(e Expr) ([]byte, error) {
	return json.Marshal(envelope{Version: FormatVersion, Expr: toWire(e)})
}

// Unmarshal decodes the versioned storage format. The result is
// re-canonicalized regardless of what the stored form claims.
func Unmarshal(data []byte) (Expr, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Expr{}, fmt.Errorf("%v: %w", err, ErrFormat)
	}
	if env.Version != FormatVersion {
		return Expr{}, fmt.Errorf("unsupported version %d: %w", env.Version, ErrFormat)
	}
	return fromWire(env.Expr)
}
