// Package config loads fxbook's runtime configuration from environment
// variables (and, if present, a config file on the search path), mirroring
// the env-first viper setup other services in this family use.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of knobs a running aggregator needs. Zero values
// are never valid config; Load always returns either a complete Config or
// an error.
type Config struct {
	// Pair is the currency pair this instance aggregates, e.g. "EURUSD".
	Pair string

	// ListenAddr is the TCP address the quote-ingest server binds, e.g.
	// ":7000".
	ListenAddr string

	// MetricsAddr is the HTTP address /metrics is served from, e.g.
	// ":9090". Empty disables the metrics server.
	MetricsAddr string

	// WebsocketAddr is the HTTP address the /ladder websocket hub is
	// served from, e.g. ":8080". Empty disables snapshot broadcast.
	WebsocketAddr string

	// MinSpread is the minimum bid/ask gap the engine enforces.
	MinSpread float64

	// LogLevel is a zerolog level name: "debug", "info", "warn", "error".
	LogLevel string

	// QuoteLogPath, if non-empty, is an append-only file every applied
	// quote's raw line is written to.
	QuoteLogPath string

	// ShutdownTimeout is parsed from shutdown_timeout (default "5s"). The
	// launcher does not read it: shutdown does not wait for in-flight
	// connections to drain.
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables prefixed FXBOOK_
// (and, if one exists, a fxbook.yaml/json/toml on the current directory or
// /etc/fxbook), applying defaults for anything unset.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("fxbook")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("pair", "EURUSD")
	v.SetDefault("listen", ":7000")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("websocket_addr", ":8080")
	v.SetDefault("min_spread", 0.0006)
	v.SetDefault("log_level", "info")
	v.SetDefault("quote_log_path", "")
	v.SetDefault("shutdown_timeout", "5s")

	v.SetConfigName("fxbook")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/fxbook")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	shutdownTimeout, err := time.ParseDuration(v.GetString("shutdown_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing shutdown_timeout: %w", err)
	}

	cfg := Config{
		Pair:            v.GetString("pair"),
		ListenAddr:      v.GetString("listen"),
		MetricsAddr:     v.GetString("metrics_addr"),
		WebsocketAddr:   v.GetString("websocket_addr"),
		MinSpread:       v.GetFloat64("min_spread"),
		LogLevel:        v.GetString("log_level"),
		QuoteLogPath:    v.GetString("quote_log_path"),
		ShutdownTimeout: shutdownTimeout,
	}
	if cfg.Pair == "" {
		return Config{}, fmt.Errorf("config: pair must not be empty")
	}
	if cfg.MinSpread <= 0 {
		return Config{}, fmt.Errorf("config: min_spread must be positive")
	}
	return cfg, nil
}
