package groebner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("algsolve.groebner")

var (
	// pairsTotal counts critical pairs by what became of them.
	pairsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "algsolve_groebner_pairs_total",
		Help: "Critical pairs taken from the queue by result",
	}, []string{"result"})

	// basisSize tracks the size of computed reduced bases.
	basisSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "algsolve_groebner_basis_size",
		Help:    "Number of polynomials in computed reduced bases",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
	})
)
