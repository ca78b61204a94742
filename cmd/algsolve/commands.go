package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/groebner"
	"zappem.net/pub/math/algsolve/parse"
	"zappem.net/pub/math/algsolve/poly"
	"zappem.net/pub/math/algsolve/solve"
	"zappem.net/pub/math/algsolve/symbol"
)

var (
	varsFlag   string
	jsonFlag   bool
	orderFlag  string
	expandFlag bool
)

var solveCmd = &cobra.Command{
	Use:   "solve EQUATIONS",
	Short: "Solve an equation or a comma separated system",
	Example: `  algsolve solve "x^2 - 2 = 0"
  algsolve solve "x^2 + y^2 = 1, x = y" --vars x,y`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSolve(cmd.Context(), &state, os.Stdout, strings.Join(args, " "), varsFlag, jsonFlag)
	},
}

var basisCmd = &cobra.Command{
	Use:   "basis POLYNOMIALS",
	Short: "Compute the reduced Gröbner basis of comma separated polynomials",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBasis(cmd.Context(), &state, os.Stdout, strings.Join(args, " "), varsFlag, orderFlag)
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify EXPRESSION",
	Short: "Print the canonical form of an expression",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimplify(cmd.Context(), &state, os.Stdout, strings.Join(args, " "), expandFlag)
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return repl(cmd.Context(), &state, os.Stdout)
	},
}

func init() {
	for _, c := range []*cobra.Command{solveCmd, basisCmd} {
		c.Flags().StringVar(&varsFlag, "vars", "", "comma separated variables, e.g. x,y:positive (default: all symbols)")
	}
	solveCmd.Flags().BoolVar(&jsonFlag, "json", false, "print the result as JSON")
	basisCmd.Flags().StringVar(&orderFlag, "order", "", "monomial order: lex, grlex or grevlex (default from config)")
	simplifyCmd.Flags().BoolVar(&expandFlag, "expand", false, "multiply out products and powers of sums")
}

// variables parses list, or collects the free symbols of es by name.
func variables(list string, es []expr.Expr) ([]symbol.Symbol, error) {
	if strings.TrimSpace(list) != "" {
		return parse.Vars(list)
	}
	seen := make(map[symbol.Symbol]bool)
	var vs []symbol.Symbol
	for _, e := range es {
		for _, s := range expr.FreeSymbols(e) {
			if !seen[s] {
				seen[s] = true
				vs = append(vs, s)
			}
		}
	}
	symbol.Sort(vs)
	if len(vs) == 0 {
		return nil, errors.New("no variables to solve for")
	}
	return vs, nil
}

// equations turns bare expressions e into e = 0.
func equations(es []expr.Expr) []expr.Expr {
	out := make([]expr.Expr, len(es))
	for i, e := range es {
		if e.Kind() != expr.Equation {
			e = expr.Eq(e, expr.Int(0))
		}
		out[i] = e
	}
	return out
}

func runSolve(ctx context.Context, a *app, w io.Writer, input, vars string, asJSON bool) error {
	es, err := parse.ParseList(input)
	if err != nil {
		return err
	}
	eqs := equations(es)
	vs, err := variables(vars, eqs)
	if err != nil {
		return err
	}
	return solveExprs(ctx, a, w, eqs, vs, asJSON)
}

func solveExprs(ctx context.Context, a *app, w io.Writer, eqs []expr.Expr, vs []symbol.Symbol, asJSON bool) error {
	p := solve.Problem{Equations: eqs, Vars: vs}
	rt, err := a.disp.Route(p)
	if err != nil {
		return err
	}
	ctx, cancel := a.deadline(ctx)
	defer cancel()
	res, err := a.disp.Dispatch(ctx, p)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(w, "class: %v via %s\n", rt.Classification, rt.Strategy)
	printResult(w, res)
	return nil
}

func printResult(w io.Writer, res solve.Result) {
	fmt.Fprintf(w, "outcome: %v\n", res.Outcome)
	for _, s := range res.Solutions {
		fmt.Fprintf(w, "  %v\n", s)
	}
	if len(res.Relations) > 0 {
		fmt.Fprintln(w, "relations:")
		for _, r := range res.Relations {
			fmt.Fprintf(w, "  %v\n", r)
		}
	}
	if len(res.Basis) > 0 {
		fmt.Fprintln(w, "basis:")
		for _, b := range res.Basis {
			fmt.Fprintf(w, "  %v\n", b)
		}
	}
	if res.Reason != "" {
		fmt.Fprintf(w, "reason: %s\n", res.Reason)
	}
}

func runBasis(ctx context.Context, a *app, w io.Writer, input, vars, order string) error {
	es, err := parse.ParseList(input)
	if err != nil {
		return err
	}
	vs, err := variables(vars, es)
	if err != nil {
		return err
	}
	o := a.cfg.Order()
	if order != "" {
		if o, err = poly.ParseOrder(order); err != nil {
			return err
		}
	}
	return basisExprs(ctx, a, w, es, vs, o)
}

func basisExprs(ctx context.Context, a *app, w io.Writer, es []expr.Expr, vs []symbol.Symbol, o poly.Order) error {
	r, err := poly.NewRing(o, vs...)
	if err != nil {
		return err
	}
	var gens []*poly.Poly
	for _, e := range es {
		p, err := poly.FromExpr(r, expr.Residual(e))
		if err != nil {
			return err
		}
		gens = append(gens, p)
	}
	ctx, cancel := a.deadline(ctx)
	defer cancel()
	b, err := groebner.Compute(ctx, r, gens, a.cfg.GroebnerOptions(a.log))
	if errors.Is(err, groebner.ErrBudgetExhausted) {
		fmt.Fprintf(w, "partial %v basis after %d pairs:\n", o, b.Stats.Pairs)
		for _, p := range b.Polys {
			fmt.Fprintf(w, "  %v\n", p)
		}
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v basis:\n", o)
	for _, p := range b.Polys {
		fmt.Fprintf(w, "  %v\n", p)
	}
	switch {
	case b.IsUnit():
		fmt.Fprintln(w, "the ideal is the whole ring: no solutions")
	case b.IsZeroDimensional():
		fmt.Fprintln(w, "finitely many solutions")
	default:
		fmt.Fprintln(w, "infinitely many solutions")
	}
	return nil
}

func runSimplify(ctx context.Context, a *app, w io.Writer, input string, expand bool) error {
	e, err := parse.Parse(input)
	if err != nil {
		return err
	}
	if !expand {
		fmt.Fprintln(w, e)
		return nil
	}
	key := ""
	if a.cache != nil {
		data, err := expr.Marshal(e)
		if err != nil {
			return err
		}
		key = "expand:" + string(data)
		if x, ok, err := a.cache.GetExpr(ctx, key); err == nil && ok {
			fmt.Fprintln(w, x)
			return nil
		}
	}
	x := expr.Expand(e)
	if key != "" {
		if err := a.cache.PutExpr(ctx, key, x); err != nil {
			a.log.Warn("simplify: cache put", "error", err)
		}
	}
	fmt.Fprintln(w, x)
	return nil
}
