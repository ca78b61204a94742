package solve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"zappem.net/pub/math/algsolve/classify"
	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/groebner"
	"zappem.net/pub/math/algsolve/symbol"
)

// ErrClassificationUnknown is returned when a problem cannot be
// classified. No strategy is run.
var ErrClassificationUnknown = errors.New("cannot classify problem")

var tracer = otel.Tracer("algsolve.solve")

var (
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "algsolve_dispatch_total",
		Help: "Dispatched problems by category and outcome",
	}, []string{"category", "outcome"})

	dispatchSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "algsolve_dispatch_seconds",
		Help:    "Time spent in solving strategies",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"strategy"})
)

// Problem is one equation in one variable, or a system.
type Problem struct {
	Equations []expr.Expr
	Vars      []symbol.Symbol
}

// Single builds a one equation problem.
func Single(eq expr.Expr, x symbol.Symbol) Problem {
	return Problem{Equations: []expr.Expr{eq}, Vars: []symbol.Symbol{x}}
}

// IsSystem reports whether p is routed to the system strategy.
func (p Problem) IsSystem() bool {
	return len(p.Equations) != 1 || len(p.Vars) != 1
}

// Key is a canonical text form of p, suitable as a cache key.
func (p Problem) Key() (string, error) {
	var b strings.Builder
	for _, v := range p.Vars {
		fmt.Fprintf(&b, "%s[%v];", v.Name(), v.Assumptions())
	}
	for _, eq := range p.Equations {
		data, err := expr.Marshal(eq)
		if err != nil {
			return "", err
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Cache stores results by problem key. Partial results, and results
// of calls whose context ended, are never stored.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Put(ctx context.Context, key string, r Result) error
}

// Options configure a Dispatcher.
type Options struct {
	Groebner groebner.Options
	Logger   *slog.Logger
	// Cache is optional.
	Cache Cache
	// Workers bounds SolveAll concurrency; 0 means one per problem.
	Workers int
}

// Dispatcher classifies problems and routes them through a Table.
type Dispatcher struct {
	table   *Table
	log     *slog.Logger
	cache   Cache
	workers int
}

// New returns a dispatcher over DefaultTable.
func New(opts Options) *Dispatcher {
	if opts.Groebner.Logger == nil {
		opts.Groebner.Logger = opts.Logger
	}
	return NewWithTable(DefaultTable(opts.Groebner), opts)
}

// NewWithTable returns a dispatcher over t.
func NewWithTable(t *Table, opts Options) *Dispatcher {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{table: t, log: log, cache: opts.Cache, workers: opts.Workers}
}

// Route is the routing decision for a problem.
type Route struct {
	Classification classify.Classification
	// Strategy is the Name of the chosen strategy.
	Strategy string

	single Strategy
	system SystemStrategy
}

// Route classifies p and picks its strategy without solving.
func (d *Dispatcher) Route(p Problem) (Route, error) {
	var rt Route
	if p.IsSystem() {
		rt.Classification = classify.ClassifySystem(p.Equations, p.Vars)
	} else {
		rt.Classification = classify.Classify(p.Equations[0], p.Vars[0])
	}
	c := rt.Classification
	switch c.Category {
	case classify.Unknown, classify.Unclassified:
		return rt, fmt.Errorf("%w: %s", ErrClassificationUnknown, c.Reason)
	case classify.System:
		rt.system = d.table.System()
		rt.Strategy = rt.system.Name()
		return rt, nil
	}
	s, ok := d.table.Strategy(c.Category)
	if !ok {
		return rt, fmt.Errorf("%w: no strategy for %v", ErrClassificationUnknown, c.Category)
	}
	rt.single, rt.Strategy = s, s.Name()
	return rt, nil
}

// Solve solves a single equation for x.
func (d *Dispatcher) Solve(ctx context.Context, eq expr.Expr, x symbol.Symbol) (Result, error) {
	return d.Dispatch(ctx, Single(eq, x))
}

// SolveSystem solves eqs for vars.
func (d *Dispatcher) SolveSystem(ctx context.Context, eqs []expr.Expr, vars []symbol.Symbol) (Result, error) {
	return d.Dispatch(ctx, Problem{Equations: eqs, Vars: vars})
}

// Dispatch routes p to its strategy. The only error is a wrapped
// ErrClassificationUnknown; strategy failures are Indeterminate or
// NoSolution results.
func (d *Dispatcher) Dispatch(ctx context.Context, p Problem) (Result, error) {
	ctx, span := tracer.Start(ctx, "solve.Dispatch",
		trace.WithAttributes(
			attribute.Int("solve.equations", len(p.Equations)),
			attribute.Int("solve.vars", len(p.Vars)),
		),
	)
	defer span.End()

	rt, err := d.Route(p)
	category := rt.Classification.Category.String()
	span.SetAttributes(attribute.String("solve.category", rt.Classification.String()))
	if err != nil {
		dispatchTotal.WithLabelValues(category, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "classification failed")
		d.log.Debug("solve: unclassified", "error", err)
		return Result{}, err
	}

	key := ""
	if d.cache != nil {
		if key, err = p.Key(); err != nil {
			d.log.Warn("solve: cache key", "error", err)
			key = ""
		} else if r, ok, err := d.cache.Get(ctx, key); err != nil {
			d.log.Warn("solve: cache get", "error", err)
		} else if ok && !r.Partial {
			span.SetAttributes(attribute.Bool("solve.cached", true))
			dispatchTotal.WithLabelValues(category, r.Outcome.String()).Inc()
			return r, nil
		}
	}

	start := time.Now()
	var res Result
	if rt.system != nil {
		res = rt.system.SolveSystem(ctx, p.Equations, p.Vars)
	} else {
		res = rt.single.Solve(ctx, p.Equations[0], p.Vars[0])
	}
	res = filter(res)
	dispatchSeconds.WithLabelValues(rt.Strategy).Observe(time.Since(start).Seconds())
	dispatchTotal.WithLabelValues(category, res.Outcome.String()).Inc()
	span.SetAttributes(
		attribute.String("solve.strategy", rt.Strategy),
		attribute.String("solve.outcome", res.Outcome.String()),
	)
	d.log.Debug("solve: dispatched",
		"class", rt.Classification.String(),
		"strategy", rt.Strategy,
		"outcome", res.Outcome.String(),
		"solutions", len(res.Solutions))

	if key != "" && !res.Partial && ctx.Err() == nil {
		if err := d.cache.Put(ctx, key, res); err != nil {
			d.log.Warn("solve: cache put", "error", err)
		}
	}
	return res, nil
}

// SolveAll dispatches independent problems concurrently. Results are
// in input order. The first classification error is returned after
// every problem has been attempted.
func (d *Dispatcher) SolveAll(ctx context.Context, ps []Problem) ([]Result, error) {
	out := make([]Result, len(ps))
	var g errgroup.Group
	if d.workers > 0 {
		g.SetLimit(d.workers)
	}
	for i, p := range ps {
		g.Go(func() error {
			r, err := d.Dispatch(ctx, p)
			if err != nil {
				return fmt.Errorf("problem %d: %w", i, err)
			}
			out[i] = r
			return nil
		})
	}
	return out, g.Wait()
}
