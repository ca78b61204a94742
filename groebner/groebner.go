// Package groebner computes reduced Gröbner bases of polynomial ideals
// with Buchberger's algorithm.
package groebner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/poly"
)

var (
	// ErrBudgetExhausted is returned with a partial basis when the
	// pair budget or the context ran out.
	ErrBudgetExhausted = errors.New("groebner budget exhausted")
	// ErrMixedRings is returned when generators belong to different
	// rings.
	ErrMixedRings = errors.New("generators of different rings")
)

var ratOne = big.NewRat(1, 1)

// Options tune a basis computation. The zero value is an unlimited
// silent run.
type Options struct {
	// MaxPairs bounds the number of critical pairs taken from the
	// queue; 0 means no bound.
	MaxPairs int
	// Logger receives debug records; nil discards them.
	Logger *slog.Logger
	// RecordSteps keeps every S-polynomial and non-zero remainder in
	// Basis.Steps.
	RecordSteps bool

	// exhaustive reduces every pair, skipping neither criterion.
	exhaustive bool
}

// Stats counts what happened to the critical pairs.
type Stats struct {
	Pairs   int // taken from the queue
	Product int // skipped by the coprime leading monomial criterion
	Chain   int // skipped by the chain criterion
	Zero    int // S-polynomials reducing to zero
	Added   int // non-zero remainders added to the basis
}

// Basis is a Gröbner basis, or a partial one when Reduced is false.
type Basis struct {
	Ring  *poly.Ring
	Polys []*poly.Poly
	// Reduced marks a complete, monic, reduced basis.
	Reduced bool
	Steps   []expr.Step
	Stats   Stats
}

// Compute returns the reduced Gröbner basis of the ideal generated by
// gens in r. The context and Options.MaxPairs are checked once per
// pair; when either runs out the partial basis is returned together
// with an error wrapping ErrBudgetExhausted.
func Compute(ctx context.Context, r *poly.Ring, gens []*poly.Poly, opts Options) (*Basis, error) {
	ctx, span := tracer.Start(ctx, "groebner.Compute",
		trace.WithAttributes(
			attribute.Int("groebner.generators", len(gens)),
			attribute.String("groebner.order", r.Order().String()),
		),
	)
	defer span.End()

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	b := &Basis{Ring: r}

	var g []*poly.Poly
	for _, p := range gens {
		if p.Ring() != r {
			span.SetStatus(codes.Error, ErrMixedRings.Error())
			return nil, ErrMixedRings
		}
		if p.IsZero() {
			continue
		}
		if p.IsConstant() {
			return b.unit(), nil
		}
		g = append(g, p.Monic())
	}

	q := newQueue(r)
	for j := range g {
		for i := 0; i < j; i++ {
			q.add(pair{i: i, j: j, lcm: g[i].LM().LCM(g[j].LM())})
		}
	}

	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return b.partial(ctx, g, fmt.Errorf("%w: %w", ErrBudgetExhausted, err))
		}
		if opts.MaxPairs > 0 && b.Stats.Pairs >= opts.MaxPairs {
			return b.partial(ctx, g, fmt.Errorf("%w: %d pairs", ErrBudgetExhausted, opts.MaxPairs))
		}
		p := q.next()
		b.Stats.Pairs++
		if !opts.exhaustive && g[p.i].LM().Coprime(g[p.j].LM()) {
			b.Stats.Product++
			pairsTotal.WithLabelValues("product").Inc()
			continue
		}
		if !opts.exhaustive && chain(g, q, p) {
			b.Stats.Chain++
			pairsTotal.WithLabelValues("chain").Inc()
			continue
		}
		s := poly.SPoly(g[p.i], g[p.j])
		_, rem := s.Divide(g...)
		if opts.RecordSteps {
			b.Steps = append(b.Steps, expr.Step{Label: fmt.Sprintf("S(g%d,g%d)", p.i+1, p.j+1), Expr: s.Expr()})
		}
		if rem.IsZero() {
			b.Stats.Zero++
			pairsTotal.WithLabelValues("zero").Inc()
			continue
		}
		pairsTotal.WithLabelValues("reduced").Inc()
		rem = rem.Monic()
		b.Stats.Added++
		if opts.RecordSteps {
			b.Steps = append(b.Steps, expr.Step{Label: fmt.Sprintf("g%d", len(g)+1), Expr: rem.Expr()})
		}
		if rem.IsConstant() {
			log.Debug("groebner: unit ideal", "pairs", b.Stats.Pairs)
			u := b.unit()
			u.Stats, u.Steps = b.Stats, b.Steps
			return u, nil
		}
		g = append(g, rem)
		n := len(g) - 1
		for i := 0; i < n; i++ {
			q.add(pair{i: i, j: n, lcm: g[i].LM().LCM(rem.LM())})
		}
	}

	b.Polys = reduce(r, g)
	b.Reduced = true
	basisSize.Observe(float64(len(b.Polys)))
	span.SetAttributes(
		attribute.Int("groebner.pairs", b.Stats.Pairs),
		attribute.Int("groebner.basis_size", len(b.Polys)),
	)
	log.Debug("groebner: basis complete",
		"pairs", b.Stats.Pairs,
		"product", b.Stats.Product,
		"chain", b.Stats.Chain,
		"zero", b.Stats.Zero,
		"size", len(b.Polys))
	return b, nil
}

// chain reports whether some basis element k divides the lcm of p with
// the pairs {i,k} and {j,k} already treated.
func chain(g []*poly.Poly, q *queue, p pair) bool {
	for k := range g {
		if k == p.i || k == p.j {
			continue
		}
		if !g[k].LM().Divides(p.lcm) {
			continue
		}
		if !q.waiting(p.i, k) && !q.waiting(p.j, k) {
			return true
		}
	}
	return false
}

// unit returns the basis {1}.
func (b *Basis) unit() *Basis {
	b.Polys = []*poly.Poly{b.Ring.Const(ratOne)}
	b.Reduced = true
	basisSize.Observe(1)
	return b
}

func (b *Basis) partial(ctx context.Context, g []*poly.Poly, err error) (*Basis, error) {
	b.Polys = append([]*poly.Poly(nil), g...)
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, "budget exhausted")
	return b, err
}

// reduce minimizes and interreduces g into the reduced basis, sorted
// by decreasing leading monomial.
func reduce(r *poly.Ring, g []*poly.Poly) []*poly.Poly {
	var minimal []*poly.Poly
	for a, p := range g {
		redundant := false
		for c, h := range g {
			if a == c || !h.LM().Divides(p.LM()) {
				continue
			}
			if !h.LM().Equal(p.LM()) || c < a {
				redundant = true
				break
			}
		}
		if !redundant {
			minimal = append(minimal, p)
		}
	}
	out := make([]*poly.Poly, len(minimal))
	for a, p := range minimal {
		others := make([]*poly.Poly, 0, len(minimal)-1)
		others = append(others, minimal[:a]...)
		others = append(others, minimal[a+1:]...)
		_, rem := p.Divide(others...)
		out[a] = rem.Monic()
	}
	sort.Slice(out, func(a, c int) bool { return r.Compare(out[a].LM(), out[c].LM()) > 0 })
	return out
}

// Reduce returns the remainder of p on division by the basis.
func (b *Basis) Reduce(p *poly.Poly) *poly.Poly {
	_, rem := p.Divide(b.Polys...)
	return rem
}

// Contains tests ideal membership. The answer is only decisive for a
// reduced basis.
func (b *Basis) Contains(p *poly.Poly) bool {
	return b.Reduce(p).IsZero()
}

// IsUnit reports whether 1 is in the ideal, so that the system has no
// solution even over the complex numbers.
func (b *Basis) IsUnit() bool {
	for _, p := range b.Polys {
		if p.IsConstant() && !p.IsZero() {
			return true
		}
	}
	return false
}

// IsZeroDimensional reports whether the ideal has finitely many
// complex solutions: every variable has a pure power among the
// leading monomials.
func (b *Basis) IsZeroDimensional() bool {
	if b.IsUnit() {
		return false
	}
	n := len(b.Ring.Vars())
	pure := make([]bool, n)
	for _, p := range b.Polys {
		m := p.LM()
		at := -1
		for i, e := range m {
			if e == 0 {
				continue
			}
			if at >= 0 {
				at = -2
				break
			}
			at = i
		}
		if at >= 0 {
			pure[at] = true
		}
	}
	for _, ok := range pure {
		if !ok {
			return false
		}
	}
	return true
}

// Elimination returns the elements of a lex basis free of the first k
// variables. They form a basis of the k-th elimination ideal.
func (b *Basis) Elimination(k int) []*poly.Poly {
	var out []*poly.Poly
	for _, p := range b.Polys {
		u := p.Uses()
		free := true
		for i := 0; i < k && i < len(u); i++ {
			if u[i] {
				free = false
				break
			}
		}
		if free {
			out = append(out, p)
		}
	}
	return out
}

// Exprs converts the basis into expressions.
func (b *Basis) Exprs() []expr.Expr {
	out := make([]expr.Expr, len(b.Polys))
	for i, p := range b.Polys {
		out[i] = p.Expr()
	}
	return out
}

func (b *Basis) String() string {
	var s []string
	for _, p := range b.Polys {
		s = append(s, p.String())
	}
	return "{" + strings.Join(s, ", ") + "}"
}
