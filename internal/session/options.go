package session

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// Option configures a Session during Login.
type Option func(*config)

type config struct {
	rng     *rand.Rand
	newDeck func() *deck.Deck
	clock   quartz.Clock
	logger  *log.Logger
}

func defaultConfig() *config {
	return &config{
		clock:  quartz.NewReal(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
}

func (c *config) finish() {
	if c.rng == nil {
		c.rng = randutil.New(randutil.Seed(0))
	}
	if c.newDeck == nil {
		rng := c.rng
		c.newDeck = func() *deck.Deck { return deck.NewShuffled(rng) }
	}
}

// WithRand sets the source used to shuffle each round's deck.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) { c.rng = rng }
}

// WithDeckFactory replaces the fresh shuffled deck dealt for each round.
// Tests use it with deck.NewStacked.
func WithDeckFactory(fn func() *deck.Deck) Option {
	return func(c *config) { c.newDeck = fn }
}

// WithClock sets the clock used for round IDs and timings.
func WithClock(clock quartz.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
