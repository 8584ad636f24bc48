// Command fxbook runs the FX aggregation engine end to end: it loads
// config, wires logging, starts the quote-ingest TCP server, the merger,
// the engine loop, the Prometheus metrics endpoint, the ladder websocket
// hub, and the quote log writer, then blocks until it is asked to shut
// down.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fxbook/internal/config"
	"fxbook/internal/engine"
	"fxbook/internal/logio"
	"fxbook/internal/merger"
	fxnet "fxbook/internal/net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	fxmetrics "fxbook/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("config load failed")
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Error().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level")
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(level)

	quoteLog, err := logio.Open(cfg.QuoteLogPath, &log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("quote log open failed")
		os.Exit(1)
	}
	defer quoteLog.Close()

	registry := prometheus.NewRegistry()
	recorder := fxmetrics.NewPrometheus(registry)

	hub := fxnet.NewHub(&log.Logger)

	eng := engine.New(cfg.Pair, engine.Config{
		MinSpread: cfg.MinSpread,
		Metrics:   recorder,
		Logger:    &log.Logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	m := merger.New(ctx, merger.Config{Metrics: recorder, Logger: &log.Logger})
	ingest := fxnet.New(cfg.ListenAddr, m, fxnet.WithLogger(log.Logger))

	go func() {
		if err := ingest.Run(ctx); err != nil {
			log.Error().Err(err).Msg("quote ingest server stopped")
		}
	}()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, registry)
	}
	if cfg.WebsocketAddr != "" {
		go serveLadder(ctx, cfg.WebsocketAddr, hub)
	}

	log.Info().
		Str("pair", cfg.Pair).
		Str("listen", cfg.ListenAddr).
		Msg("fxbook aggregator starting")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("fxbook aggregator shutting down")
			return
		case q, ok := <-m.Quotes():
			if !ok {
				log.Warn().Msg("merger stream closed, aggregator idling until shutdown")
				<-ctx.Done()
				return
			}
			snap := eng.Apply(q)
			hub.Broadcast(snap)
			quoteLog.Write(q.Raw)
		}
	}
}

func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}

func serveLadder(ctx context.Context, addr string, hub *fxnet.Hub) {
	mux := http.NewServeMux()
	mux.Handle("/ladder", hub)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("ladder websocket server stopped")
	}
}
