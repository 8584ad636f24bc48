// Package engine implements the aggregation state machine: the single
// writer that turns a stream of per-LP Quotes into one consolidated,
// uncrossed, minimum-spread two-sided Book.
package engine

import (
	"sync"

	"fxbook/internal/book"
	"fxbook/internal/common"
	"fxbook/internal/metrics"
	"fxbook/internal/quote"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config tunes an Engine's behavior at construction time.
type Config struct {
	// MinSpread overrides common.MinSpread when non-zero.
	MinSpread float64
	Metrics   metrics.Recorder
	Logger    *zerolog.Logger
}

// Engine owns a single Book exclusively and applies quotes to it one at a
// time under mu, the single mutual-exclusion primitive spec.md §5
// describes. The writer holds mu across the whole of Apply (steps A-D) so
// every reader that acquires it afterward observes a book satisfying
// I1-I4.
type Engine struct {
	mu        sync.Mutex
	book      *book.Book
	minSpread float64
	metrics   metrics.Recorder
	log       zerolog.Logger
}

// New constructs an Engine for pair with an empty book.
func New(pair string, cfg Config) *Engine {
	minSpread := cfg.MinSpread
	if minSpread == 0 {
		minSpread = common.MinSpread
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.NoOp{}
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Engine{
		book:      book.New(pair),
		minSpread: minSpread,
		metrics:   m,
		log:       logger,
	}
}

// Apply runs the full retire-then-insert -> sort -> uncross -> enforce-
// spread pipeline for q and returns the resulting snapshot. It is the only
// mutating entry point on Engine and is safe to call concurrently from
// multiple goroutines (callers need not serialize themselves; Apply
// serializes internally).
func (e *Engine) Apply(q quote.Quote) book.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.book.TS = q.TSNs

	// Step A: ingest & retire-then-insert, in the fixed sub-quote order.
	for _, sub := range q.Subs {
		if e.bootstrapRejects(sub.Side) {
			e.log.Warn().
				Str("lp", q.LP).
				Str("side", sub.Side.String()).
				Msg("bootstrap rejection: first insertion must be a bid")
			e.metrics.BootstrapRejected()
			continue
		}

		side := e.book.Side(sub.Side)
		pips := common.ToPips(sub.Price)
		side.Retire(q.LP, sub.Tier)
		side.Insert(q.LP, sub.Tier, pips)
	}

	// Step B: sort. The per-side Store is a btree ordered by price, so it
	// never falls out of order between inserts; nothing to do here beyond
	// reading it back in order, which Items() already guarantees.

	// Step C: uncross.
	if removed := uncross(e.book); removed > 0 {
		e.log.Info().Int("removed", removed).Msg("crossed book repaired")
		e.metrics.CrossedRepaired(removed)
	}

	// Step D: enforce minimum spread.
	if removed := enforceSpread(e.book, e.minSpread); removed.bids+removed.asks > 0 {
		e.metrics.SpreadEnforced(removed.bids, removed.asks)
	}

	e.metrics.QuoteApplied()
	return e.book.Snapshot()
}

// bootstrapRejects reports whether inserting on side would violate the
// bootstrap rule: the very first insertion into an empty book must be a
// bid. Preserved verbatim per spec.md §4.3 and §9 as source-observed
// behavior, not "fixed".
func (e *Engine) bootstrapRejects(side common.Side) bool {
	return side == common.Ask && e.book.Bids.Len() == 0 && e.book.Asks.Len() == 0
}

// Snapshot acquires the write lock for the duration of a copy, guaranteeing
// a reader never observes a partially-applied quote.
func (e *Engine) Snapshot() book.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Snapshot()
}
