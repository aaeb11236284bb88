package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/tui"
)

type TUICmd struct {
	LogFile string `default:"blackjack.log" help:"Log file used when the config sets none; the terminal belongs to the UI"`
}

func (c *TUICmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Log.File == "" {
		cfg.Log.File = c.LogFile
	}

	logger, closeLog, err := newLogger(cfg, io.Discard, log.InfoLevel)
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
	logger.Info("Starting TUI session", "store", cfg.Store.Path, "seed", seed)

	model := tui.NewModel(l, logger,
		session.WithRand(randutil.New(seed)),
		session.WithLogger(logger),
	)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if err := model.Err(); err != nil {
		return err
	}

	if rec, ok := model.Final(); ok {
		fmt.Printf("%s: bankroll $%d, %d rounds, %d wins (%s)\n",
			rec.Name, rec.Bankroll, rec.Total, rec.Wins, rec.WinRateString())
	}
	return nil
}
