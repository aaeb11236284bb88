package game

import (
	"io"

	"github.com/charmbracelet/log"
)

// RoundOption configures a Round during Start.
type RoundOption func(*roundConfig)

type roundConfig struct {
	logger       *log.Logger
	onTransition func(from, to State)
}

func defaultRoundConfig() *roundConfig {
	return &roundConfig{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// WithLogger sets the logger used for round tracing.
func WithLogger(logger *log.Logger) RoundOption {
	return func(c *roundConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransitionHook registers a callback invoked on every state change
// after the initial deal. Front ends use it to animate the dealer's turn.
func WithTransitionHook(fn func(from, to State)) RoundOption {
	return func(c *roundConfig) { c.onTransition = fn }
}
