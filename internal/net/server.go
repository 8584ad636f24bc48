// Package net runs the quote-ingest TCP server: one connection per
// producer, newline-delimited pipe-framed quote records, fed into a
// merger.Merger. Adapted from the teacher's internal/server.go and
// internal/worker.go, replacing the binary order-protocol framing with the
// text quote-record format and handing parsing off to the merger instead
// of an inline Engine call.
package net

import (
	"context"
	"fmt"
	"net"

	"fxbook/internal/merger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const (
	defaultWorkers    = 16
	producerQueueSize = 64
)

// Server accepts TCP connections and registers each one as a merger
// producer for the lifetime of the connection.
type Server struct {
	addr    string
	merger  *merger.Merger
	workers int
	log     zerolog.Logger
	pool    *connPool
}

// Option configures a Server.
type Option func(*Server)

// WithWorkers overrides the default connection worker pool size.
func WithWorkers(n int) Option {
	return func(s *Server) { s.workers = n }
}

// WithLogger overrides the default global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a Server that will listen on addr and feed parsed quotes
// into m.
func New(addr string, m *merger.Merger, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		merger:  m,
		workers: defaultWorkers,
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pool = newConnPool(s.workers, s.log, s.handleConn)
	return s
}

// Run listens on s.addr and accepts connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("net: listening on %s: %w", s.addr, err)
	}
	defer listener.Close()

	t.Go(func() error {
		s.pool.setup(t)
		return nil
	})

	s.log.Info().Str("addr", s.addr).Msg("quote ingest server listening")

	t.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-t.Dying():
					return nil
				default:
					s.log.Warn().Err(err).Msg("accept failed")
					continue
				}
			}
			s.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("producer connected")
			s.pool.addTask(conn)
		}
	})

	<-ctx.Done()
	t.Kill(nil)
	listener.Close()
	return t.Wait()
}

func (s *Server) handleConn(t *tomb.Tomb, conn net.Conn) {
	defer conn.Close()
	// Each connection gets its own session id independent of remote
	// address, since a producer behind a NAT/proxy can share an address
	// with another. The id labels this producer in the server's and the
	// merger's log lines; the merger itself only counts active producers.
	id := uuid.NewString()
	lines := make(chan string, producerQueueSize)
	s.merger.AddProducer(id, lines)
	s.log.Info().Str("session", id).Str("remote", conn.RemoteAddr().String()).Msg("producer session started")
	scanLines(t, conn, lines)
	close(lines)
	s.log.Info().Str("session", id).Msg("producer session ended")
}
