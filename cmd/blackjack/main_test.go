package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test", "config_file": "blackjack.hcl"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestParseCommands(t *testing.T) {
	cli, ctx := parse(t, "--seed", "42", "--driver", "sqlite", "simulate", "-n", "100")
	assert.Equal(t, "simulate", ctx.Command())
	assert.Equal(t, int64(42), cli.Seed)
	assert.Equal(t, "sqlite", cli.Driver)
	assert.Equal(t, 100, cli.Simulate.Rounds)

	_, ctx = parse(t)
	assert.Equal(t, "play", ctx.Command())

	cli, ctx = parse(t, "stats", "-n", "3", "alice")
	assert.Equal(t, "stats <name>", ctx.Command())
	assert.Equal(t, 3, cli.Stats.Top)
	assert.Equal(t, "alice", cli.Stats.Name)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
store {
  path = "from-config.txt"
}
log {
  level = "warn"
}
`), 0o644))

	g := &Globals{Config: path}
	cfg, err := g.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-config.txt", cfg.Store.Path)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel())

	g = &Globals{Config: path, Store: "flag.db", Driver: "sqlite", Debug: true}
	cfg, err = g.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.Store.Path)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	g = &Globals{Config: path, Driver: "redis"}
	_, err = g.loadConfig()
	assert.Error(t, err)
}

func TestNewLoggerRaisesFallbackLevel(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl")}
	cfg, err := g.loadConfig()
	require.NoError(t, err)

	var buf bytes.Buffer
	logger, closeLog, err := newLogger(cfg, &buf, log.WarnLevel)
	require.NoError(t, err)
	defer closeLog()

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestRenderLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderLeaderboard(&buf, nil))
	assert.Equal(t, "No players yet.\n", buf.String())

	buf.Reset()
	require.NoError(t, renderLeaderboard(&buf, []ledger.Record{
		{Name: "ann", Bankroll: 300, Total: 3, Wins: 1},
		{Name: "bob", Bankroll: 50, Total: 1},
	}))
	out := buf.String()
	assert.Contains(t, out, "Leaderboard")
	assert.Contains(t, out, "ann")
	assert.Contains(t, out, "$300")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "0.0%")
}
