package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/ledger"
)

var headerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type StatsCmd struct {
	Top  int    `short:"n" default:"10" help:"Number of players to show (0 for all)"`
	Name string `arg:"" optional:"" help:"Show a single player's record"`
}

func (c *StatsCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr, log.WarnLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	l, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer l.Close()

	if c.Name != "" {
		rec, ok := l.Get(c.Name)
		if !ok {
			return fmt.Errorf("no player named %q", c.Name)
		}
		return renderLeaderboard(os.Stdout, []ledger.Record{rec})
	}
	return renderLeaderboard(os.Stdout, l.Leaderboard(c.Top))
}

func renderLeaderboard(w io.Writer, records []ledger.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No players yet.")
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		Headers("#", "Player", "Bankroll", "Rounds", "Wins", "Win rate")
	for i, r := range records {
		t.Row(strconv.Itoa(i+1), r.Name, fmt.Sprintf("$%d", r.Bankroll),
			strconv.Itoa(r.Total), strconv.Itoa(r.Wins), r.WinRateString())
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", headerStyle.Render("Leaderboard"), t.Render())
	return err
}
