// Package metrics exposes Prometheus instruments for settlement activity.
package metrics

import (
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Settlement outcomes.
const (
	OutcomeSettled  = "settled"
	OutcomeMismatch = "mismatch"
	OutcomeInvalid  = "invalid"
)

// Recorder holds the settlement instruments. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	settlements  *prometheus.CounterVec
	payments     prometheus.Histogram
	participants prometheus.Histogram
	mismatch     prometheus.Histogram
	gamesEnded   prometheus.Counter
}

// New registers the instruments on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		registry: reg,
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "potsettle",
			Name:      "settlements_total",
			Help:      "Settlement attempts by outcome.",
		}, []string{"source", "outcome"}),
		payments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "potsettle",
			Name:      "settlement_payments",
			Help:      "Payments emitted per successful settlement.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		participants: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "potsettle",
			Name:      "settlement_participants",
			Help:      "Non-zero participants per successful settlement.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		mismatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "potsettle",
			Name:      "ledger_mismatch_minor_units",
			Help:      "Absolute discrepancy of rejected ledgers, in minor units.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
		}),
		gamesEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "potsettle",
			Name:      "games_ended_total",
			Help:      "Games settled and closed.",
		}),
	}

	reg.MustRegister(
		r.settlements,
		r.payments,
		r.participants,
		r.mismatch,
		r.gamesEnded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Settled records a successful settlement.
func (r *Recorder) Settled(source string, participants, payments int) {
	if r == nil {
		return
	}
	r.settlements.WithLabelValues(source, OutcomeSettled).Inc()
	r.participants.Observe(float64(participants))
	r.payments.Observe(float64(payments))
}

// Mismatch records a ledger rejected because it did not sum to zero.
func (r *Recorder) Mismatch(source string, actualSum int64) {
	if r == nil {
		return
	}
	r.settlements.WithLabelValues(source, OutcomeMismatch).Inc()
	r.mismatch.Observe(math.Abs(float64(actualSum)))
}

// Invalid records a ledger rejected for any other reason.
func (r *Recorder) Invalid(source string) {
	if r == nil {
		return
	}
	r.settlements.WithLabelValues(source, OutcomeInvalid).Inc()
}

// GameEnded counts a game closed with a stored plan.
func (r *Recorder) GameEnded() {
	if r == nil {
		return
	}
	r.gamesEnded.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
