package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"zappem.net/pub/io/lined"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/parse"
	"zappem.net/pub/math/algsolve/symbol"
)

// session is the state of one interactive run: named values and
// where to print.
type session struct {
	a    *app
	w    io.Writer
	vars map[symbol.Symbol]expr.Expr
}

func newSession(a *app, w io.Writer) *session {
	return &session{a: a, w: w, vars: make(map[symbol.Symbol]expr.Expr)}
}

// subst replaces defined names in e, skipping those in keep. Values
// may refer to other values, so this is repeated a few times.
func (s *session) subst(e expr.Expr, keep ...symbol.Symbol) expr.Expr {
	vs := make(map[symbol.Symbol]expr.Expr, len(s.vars))
	for k, v := range s.vars {
		vs[k] = v
	}
	for _, k := range keep {
		delete(vs, k)
	}
	if len(vs) == 0 {
		return e
	}
	for i := 0; i < 3; i++ {
		e = expr.SubstituteAll(e, vs)
	}
	return e
}

func (s *session) list() {
	var names []string
	byName := make(map[string]expr.Expr)
	for k, v := range s.vars {
		names = append(names, k.Name())
		byName[k.Name()] = v
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(s.w, " %s := %v\n", n, byName[n])
	}
}

// assign (un)defines a name. An empty right hand side removes it.
func (s *session) assign(name, rhs string) error {
	name = strings.TrimSpace(name)
	if !parse.ValidSymbol(name) {
		return fmt.Errorf("invalid assignment to %q", name)
	}
	sym, err := symbol.New(name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rhs) == "" {
		delete(s.vars, sym)
		return nil
	}
	e, err := parse.Parse(rhs)
	if err != nil {
		return fmt.Errorf("assignment to %q failed: %w", name, err)
	}
	if expr.Has(s.subst(e), sym) {
		return fmt.Errorf("%q cannot refer to itself", name)
	}
	s.vars[sym] = e
	return nil
}

// command splits "verb ARGS for VARS".
func command(line, verb string) (args, vars string, ok bool) {
	rest, ok := strings.CutPrefix(line, verb+" ")
	if !ok {
		return "", "", false
	}
	if i := strings.LastIndex(rest, " for "); i >= 0 {
		return rest[:i], rest[i+len(" for "):], true
	}
	return rest, "", true
}

func (s *session) exprs(args, vars string) ([]expr.Expr, []symbol.Symbol, error) {
	es, err := parse.ParseList(args)
	if err != nil {
		return nil, nil, err
	}
	var vs []symbol.Symbol
	if strings.TrimSpace(vars) != "" {
		if vs, err = parse.Vars(vars); err != nil {
			return nil, nil, err
		}
	}
	for i, e := range es {
		es[i] = s.subst(e, vs...)
	}
	if vs == nil {
		if vs, err = variables("", es); err != nil {
			return nil, nil, err
		}
	}
	return es, vs, nil
}

// eval runs one line of input. It returns true when the session is
// over.
func (s *session) eval(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case line == "exit":
		fmt.Fprintln(s.w, "exiting")
		return true
	case line == "list":
		s.list()
		return false
	case strings.HasPrefix(line, "#"):
		return false
	}

	if name, rhs, ok := strings.Cut(line, ":="); ok {
		if err := s.assign(name, rhs); err != nil {
			fmt.Fprintln(s.w, err)
		}
		return false
	}
	if args, vars, ok := command(line, "solve"); ok {
		es, vs, err := s.exprs(args, vars)
		if err == nil {
			err = solveExprs(ctx, s.a, s.w, equations(es), vs, false)
		}
		if err != nil {
			fmt.Fprintf(s.w, "solve failed: %v\n", err)
		}
		return false
	}
	if args, vars, ok := command(line, "basis"); ok {
		es, vs, err := s.exprs(args, vars)
		if err == nil {
			err = basisExprs(ctx, s.a, s.w, es, vs, s.a.cfg.Order())
		}
		if err != nil {
			fmt.Fprintf(s.w, "basis failed: %v\n", err)
		}
		return false
	}

	es, err := parse.ParseList(line)
	if err != nil {
		fmt.Fprintf(s.w, "syntax error %q: %v\n", line, err)
		return false
	}
	for _, e := range es {
		fmt.Fprintf(s.w, " %v\n", expr.Expand(s.subst(e)))
	}
	return false
}

// repl reads lines from the terminal until exit or end of input.
func repl(ctx context.Context, a *app, w io.Writer) error {
	fmt.Fprintf(w, "algsolve: type exit to quit\n\n")
	s := newSession(a, w)
	t := lined.NewReader()
	for {
		fmt.Fprint(w, "> ")
		line, err := t.ReadString()
		if err == io.EOF {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return fmt.Errorf("unable to recover: %w", err)
		}
		if s.eval(ctx, line) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
