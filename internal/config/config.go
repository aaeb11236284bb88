// Package config loads the HCL configuration file shared by every
// blackjack subcommand.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack/internal/ledger"
)

// DefaultFile is read when no --config flag is given.
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	Store      *StoreConfig      `hcl:"store,block"`
	Log        *LogConfig        `hcl:"log,block"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
}

// StoreConfig selects where player records live
type StoreConfig struct {
	Driver string `hcl:"driver,optional"`
	Path   string `hcl:"path,optional"`
}

// LogConfig controls logging. An empty File logs to stderr.
type LogConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SimulationConfig holds defaults for the simulate command
type SimulationConfig struct {
	Rounds   int `hcl:"rounds,optional"`
	Workers  int `hcl:"workers,optional"`
	Bet      int `hcl:"bet,optional"`
	HitBelow int `hcl:"hit_below,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = ledger.DriverFile
	}
	if c.Store.Path == "" {
		if c.Store.Driver == ledger.DriverSQLite {
			c.Store.Path = "players.db"
		} else {
			c.Store.Path = "players.txt"
		}
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationConfig{}
	}
	if c.Simulation.Rounds == 0 {
		c.Simulation.Rounds = 10000
	}
	if c.Simulation.Bet == 0 {
		c.Simulation.Bet = 10
	}
	if c.Simulation.HitBelow == 0 {
		c.Simulation.HitBelow = 17
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case ledger.DriverFile, ledger.DriverSQLite:
	default:
		return fmt.Errorf("store: unknown driver %q", c.Store.Driver)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if c.Simulation.Rounds < 1 {
		return fmt.Errorf("simulation: rounds must be positive")
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation: workers must not be negative")
	}
	if c.Simulation.Bet < 1 {
		return fmt.Errorf("simulation: bet must be positive")
	}
	if c.Simulation.HitBelow < 2 || c.Simulation.HitBelow > 22 {
		return fmt.Errorf("simulation: hit_below must be between 2 and 22")
	}

	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
