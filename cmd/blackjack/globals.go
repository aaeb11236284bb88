package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/ledger"
)

// Globals are flags shared by every command. Non-empty flags override the
// config file.
type Globals struct {
	Config string `short:"c" default:"${config_file}" help:"HCL config file" type:"path"`
	Store  string `help:"Ledger path (overrides config)"`
	Driver string `help:"Ledger driver: file or sqlite (overrides config)"`
	Debug  bool   `help:"Enable debug logging"`
	Seed   int64  `help:"Shuffle seed; 0 picks a random one"`
}

func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if g.Driver != "" {
		cfg.Store.Driver = g.Driver
	}
	if g.Store != "" {
		cfg.Store.Path = g.Store
	}
	if g.Debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger writes to the configured log file, or to fallback when none is
// set. minLevel raises the configured level for fallback output so the
// prompt is not drowned in log lines.
func newLogger(cfg *config.Config, fallback io.Writer, minLevel log.Level) (*log.Logger, func() error, error) {
	level := cfg.LogLevel()
	w := fallback
	closer := func() error { return nil }

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	} else if level < minLevel {
		level = minLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
	})
	return logger, closer, nil
}

func openLedger(cfg *config.Config, logger *log.Logger) (*ledger.Ledger, error) {
	store, err := ledger.OpenStore(cfg.Store.Driver, cfg.Store.Path, logger)
	if err != nil {
		return nil, err
	}
	l, err := ledger.Open(store, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load ledger %s: %w", store, err)
	}
	return l, nil
}
