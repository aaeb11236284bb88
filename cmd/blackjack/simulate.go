package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Rounds   int `short:"n" help:"Rounds to play (default from config)"`
	Workers  int `short:"w" help:"Parallel workers (default one per CPU)"`
	Bet      int `help:"Bet per round (default from config)"`
	HitBelow int `help:"Hit while the score is below this (default from config)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr, log.InfoLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	sc := cfg.Simulation
	rounds, workers, bet, hitBelow := sc.Rounds, sc.Workers, sc.Bet, sc.HitBelow
	if c.Rounds > 0 {
		rounds = c.Rounds
	}
	if c.Workers > 0 {
		workers = c.Workers
	}
	if c.Bet > 0 {
		bet = c.Bet
	}
	if c.HitBelow > 0 {
		hitBelow = c.HitBelow
	}

	seed := randutil.Seed(g.Seed)
	policy := simulator.HitBelow(hitBelow)
	logger.Info("Starting simulation", "rounds", rounds, "policy", policy, "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := simulator.New(simulator.Config{
		Rounds:  rounds,
		Workers: workers,
		Bet:     bet,
		Seed:    seed,
		Policy:  policy,
		Logger:  logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, stats, policy)
	return nil
}
