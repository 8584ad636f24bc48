// Package logio writes every successfully applied quote's raw line to an
// append-only log, guarded by a circuit breaker so a failing disk degrades
// the writer instead of the aggregator.
package logio

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// QuoteLog appends raw quote lines to a file, one per line, behind a
// breaker that opens after repeated write failures so a stuck or full disk
// cannot back up callers of Write.
type QuoteLog struct {
	mu  sync.Mutex
	w   io.WriteCloser
	cb  *gobreaker.CircuitBreaker[struct{}]
	log zerolog.Logger
}

// Open creates (or appends to) path and wraps it with a circuit breaker.
// An empty path disables the log: Write becomes a no-op and Close is safe
// to call.
func Open(path string, logger *zerolog.Logger) (*QuoteLog, error) {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	if path == "" {
		return &QuoteLog{log: l}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logio: opening quote log %q: %w", path, err)
	}

	settings := gobreaker.Settings{
		Name:        "quote-log-writer",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("quote log writer breaker state change")
		},
	}

	return &QuoteLog{
		w:   f,
		cb:  gobreaker.NewCircuitBreaker[struct{}](settings),
		log: l,
	}, nil
}

// Write appends line (plus a trailing newline) to the log. Failures are
// swallowed after being logged and counted by the breaker: a broken quote
// log must never stop the aggregator from applying quotes.
func (q *QuoteLog) Write(line string) {
	if q.w == nil {
		return
	}
	_, err := q.cb.Execute(func() (struct{}, error) {
		q.mu.Lock()
		defer q.mu.Unlock()
		_, werr := io.WriteString(q.w, line+"\n")
		return struct{}{}, werr
	})
	if err != nil {
		q.log.Warn().Err(err).Msg("quote log write failed")
	}
}

// Close flushes and closes the underlying file, if any was opened.
func (q *QuoteLog) Close() error {
	if q.w == nil {
		return nil
	}
	return q.w.Close()
}
