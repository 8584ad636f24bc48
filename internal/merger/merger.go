// Package merger implements the Stream Merger contract of spec.md §4.5: a
// fan-in that delivers quotes from N producers to the engine in arrival
// order, FIFO within a producer, dropping a producer on its end-of-stream
// and closing once all producers are done.
package merger

import (
	"context"
	"errors"
	"sync/atomic"

	"fxbook/internal/common"
	"fxbook/internal/metrics"
	"fxbook/internal/quote"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	tomb "gopkg.in/tomb.v2"
)

// Config tunes a Merger's rate limiting and buffering.
type Config struct {
	// QueueSize is the capacity of the merged output channel.
	QueueSize int
	// PerProducerRate and PerProducerBurst bound how fast one producer can
	// push raw lines before merger.AddProducer starts making it wait. This
	// is defensive backpressure the teacher's net.Server has none of
	// (spec.md's merger contract does not require it); it exists so one
	// runaway producer cannot starve the single writer.
	PerProducerRate  rate.Limit
	PerProducerBurst int
	Metrics          metrics.Recorder
	Logger           *zerolog.Logger
}

const (
	defaultQueueSize        = 256
	defaultPerProducerRate  = rate.Limit(1000)
	defaultPerProducerBurst = 100
)

// Merger fans raw lines from any number of producers into a single ordered
// stream of parsed Quotes. Producers are added with AddProducer at any
// time; Quotes drains the merged stream; the stream closes once every
// producer has ended and been accounted for.
type Merger struct {
	t       *tomb.Tomb
	quotes  chan quote.Quote
	active  atomic.Int64
	rateLim rate.Limit
	burst   int
	metrics metrics.Recorder
	log     zerolog.Logger
}

// New creates a Merger bound to ctx. Cancelling ctx (or calling Kill)
// unwinds every producer goroutine.
func New(ctx context.Context, cfg Config) *Merger {
	queueSize := cfg.QueueSize
	if queueSize == 0 {
		queueSize = defaultQueueSize
	}
	rl := cfg.PerProducerRate
	if rl == 0 {
		rl = defaultPerProducerRate
	}
	burst := cfg.PerProducerBurst
	if burst == 0 {
		burst = defaultPerProducerBurst
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.NoOp{}
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	t, _ := tomb.WithContext(ctx)
	return &Merger{
		t:       t,
		quotes:  make(chan quote.Quote, queueSize),
		rateLim: rl,
		burst:   burst,
		metrics: m,
		log:     logger,
	}
}

// Quotes returns the merged stream of successfully parsed quotes, in
// arrival order across producers and FIFO order within a producer. It
// closes once every producer added so far has ended.
func (m *Merger) Quotes() <-chan quote.Quote {
	return m.quotes
}

// AddProducer registers a new producer whose raw lines arrive on lines.
// When lines closes, that producer is dropped and the merger continues
// (spec.md §4.5). AddProducer may be called before or after the merger
// starts draining Quotes().
func (m *Merger) AddProducer(id string, lines <-chan string) {
	m.active.Add(1)
	limiter := rate.NewLimiter(m.rateLim, m.burst)

	m.t.Go(func() error {
		defer m.producerDone()
		for {
			select {
			case <-m.t.Dying():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if err := limiter.Wait(m.t.Context(nil)); err != nil {
					return nil
				}
				q, err := quote.Parse(line)
				if err != nil {
					m.log.Warn().Err(err).Str("producer", id).Str("line", line).Msg("dropping malformed quote record")
					m.metrics.ParseFailed(parseFailureKind(err))
					continue
				}
				select {
				case m.quotes <- q:
				case <-m.t.Dying():
					return nil
				}
			}
		}
	})
}

func (m *Merger) producerDone() {
	if m.active.Add(-1) == 0 {
		close(m.quotes)
	}
}

// Kill unwinds every producer goroutine without waiting for their natural
// end-of-stream.
func (m *Merger) Kill() { m.t.Kill(nil) }

// Wait blocks until every producer goroutine has returned.
func (m *Merger) Wait() error { return m.t.Wait() }

func parseFailureKind(err error) string {
	switch {
	case errors.Is(err, common.ErrMalformed):
		return "malformed"
	case errors.Is(err, common.ErrEmptyField):
		return "empty_field"
	case errors.Is(err, common.ErrBadNumber):
		return "bad_number"
	default:
		return "unknown"
	}
}
