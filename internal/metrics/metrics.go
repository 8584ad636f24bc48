// Package metrics exposes the engine's Prometheus counters: quotes
// applied, parse failures, bootstrap rejections, crossed-book repairs, and
// spread-enforcement removals.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is the subset of bookkeeping the engine emits on every Apply. It
// is an interface so tests can substitute NoOp without standing up a
// Prometheus registry.
type Recorder interface {
	QuoteApplied()
	ParseFailed(kind string)
	BootstrapRejected()
	CrossedRepaired(levelsRemoved int)
	SpreadEnforced(bidsRemoved, asksRemoved int)
}

// Prometheus implements Recorder with client_golang counters registered
// against a caller-supplied registry.
type Prometheus struct {
	quotesApplied     prometheus.Counter
	parseFailures     *prometheus.CounterVec
	bootstrapRejected prometheus.Counter
	crossedRepairs    prometheus.Counter
	crossedLevelsGone prometheus.Counter
	spreadBidsRemoved prometheus.Counter
	spreadAsksRemoved prometheus.Counter
}

// NewPrometheus registers the aggregator's collectors against reg and
// returns a Recorder backed by them.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		quotesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxbook",
			Name:      "quotes_applied_total",
			Help:      "Number of quotes successfully applied to the book.",
		}),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fxbook",
			Name:      "quote_parse_failures_total",
			Help:      "Number of inbound quote records rejected by the parser, by error kind.",
		}, []string{"kind"}),
		bootstrapRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxbook",
			Name:      "bootstrap_rejections_total",
			Help:      "Number of sub-quotes rejected by the empty-book bootstrap rule.",
		}),
		crossedRepairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxbook",
			Name:      "crossed_book_repairs_total",
			Help:      "Number of Apply calls that repaired a crossed book.",
		}),
		crossedLevelsGone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxbook",
			Name:      "crossed_book_levels_removed_total",
			Help:      "Number of levels removed across all crossed-book repairs.",
		}),
		spreadBidsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxbook",
			Name:      "spread_enforcement_bids_removed_total",
			Help:      "Number of bid levels removed to maintain the minimum spread.",
		}),
		spreadAsksRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fxbook",
			Name:      "spread_enforcement_asks_removed_total",
			Help:      "Number of ask levels removed to maintain the minimum spread.",
		}),
	}
	reg.MustRegister(
		p.quotesApplied,
		p.parseFailures,
		p.bootstrapRejected,
		p.crossedRepairs,
		p.crossedLevelsGone,
		p.spreadBidsRemoved,
		p.spreadAsksRemoved,
	)
	return p
}

func (p *Prometheus) QuoteApplied() { p.quotesApplied.Inc() }

func (p *Prometheus) ParseFailed(kind string) { p.parseFailures.WithLabelValues(kind).Inc() }

func (p *Prometheus) BootstrapRejected() { p.bootstrapRejected.Inc() }

func (p *Prometheus) CrossedRepaired(levelsRemoved int) {
	p.crossedRepairs.Inc()
	p.crossedLevelsGone.Add(float64(levelsRemoved))
}

func (p *Prometheus) SpreadEnforced(bidsRemoved, asksRemoved int) {
	if bidsRemoved > 0 {
		p.spreadBidsRemoved.Add(float64(bidsRemoved))
	}
	if asksRemoved > 0 {
		p.spreadAsksRemoved.Add(float64(asksRemoved))
	}
}

// NoOp discards everything. It is the default Recorder an Engine gets when
// no Prometheus registry is wired up, e.g. in tests.
type NoOp struct{}

func (NoOp) QuoteApplied()                               {}
func (NoOp) ParseFailed(kind string)                     {}
func (NoOp) BootstrapRejected()                          {}
func (NoOp) CrossedRepaired(levelsRemoved int)           {}
func (NoOp) SpreadEnforced(bidsRemoved, asksRemoved int) {}
