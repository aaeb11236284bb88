package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/prompt"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
)

type PlayCmd struct{}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	minLevel := log.WarnLevel
	if g.Debug {
		minLevel = log.DebugLevel
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr, minLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	l, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer l.Close()

	seed := randutil.Seed(g.Seed)
	logger.Info("Starting text session", "store", cfg.Store.Path, "seed", seed)

	_, err = prompt.New(os.Stdin, os.Stdout, l,
		session.WithRand(randutil.New(seed)),
		session.WithLogger(logger),
	).Run()
	return err
}
