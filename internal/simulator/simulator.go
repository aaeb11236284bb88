package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Policy decides the automatic player's moves
type Policy interface {
	ShouldHit(player game.Hand, dealerUp deck.Card) bool
}

// HitBelow hits while the player's score is below the threshold. HitBelow(17)
// mimics the dealer.
type HitBelow int

// ShouldHit implements Policy
func (h HitBelow) ShouldHit(player game.Hand, _ deck.Card) bool {
	return player.Score() < int(h)
}

func (h HitBelow) String() string {
	return fmt.Sprintf("hit-below-%d", int(h))
}

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Workers int // 0 picks one per CPU, capped at 8
	Bet     int
	Seed    int64
	Policy  Policy
	Logger  *log.Logger
}

// Simulator plays many independent rounds with an automatic player
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Bet <= 0 {
		config.Bet = 10
	}
	if config.Policy == nil {
		config.Policy = HitBelow(game.DealerStandsOn)
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.Workers <= 0 {
		config.Workers = min(runtime.NumCPU(), 8)
	}
	if config.Workers > config.Rounds && config.Rounds > 0 {
		config.Workers = config.Rounds
	}
	return &Simulator{config: config}
}

// Run plays every round and returns the merged statistics. Round i is always
// dealt from the deck seeded by randutil.Derive(Seed, i), so the result does
// not depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}

	start := time.Now()
	workers := s.config.Workers
	partials := make([]*statistics.Statistics, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			stats := &statistics.Statistics{}
			for i := w; i < s.config.Rounds; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := s.playRound(randutil.Derive(s.config.Seed, i))
				if err != nil {
					return fmt.Errorf("round %d: %w", i, err)
				}
				stats.Add(result)
			}
			partials[w] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, p := range partials {
		total.Merge(p)
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.config.Logger.Info("Simulation finished",
		"rounds", total.Rounds,
		"workers", workers,
		"seed", s.config.Seed,
		"duration", time.Since(start))
	return total, nil
}

// playRound deals one round from a fresh deck and plays it out with the policy
func (s *Simulator) playRound(seed int64) (statistics.RoundResult, error) {
	d := deck.NewShuffled(randutil.New(seed))
	r, err := game.Start(d, s.config.Bet)
	if err != nil {
		return statistics.RoundResult{}, err
	}

	for !r.IsSettled() {
		up := r.Dealer().Cards()[0]
		if s.config.Policy.ShouldHit(r.Player(), up) {
			err = r.Hit()
		} else {
			err = r.Stand()
		}
		if err != nil {
			return statistics.RoundResult{}, err
		}
	}

	player, dealer := r.Player(), r.Dealer()
	return statistics.RoundResult{
		Net:         float64(r.Outcome().Delta(s.config.Bet)) / float64(s.config.Bet),
		Seed:        seed,
		Outcome:     r.Outcome(),
		PlayerScore: player.Score(),
		DealerScore: dealer.Score(),
		PlayerCards: player.Len(),
		DealerBust:  dealer.IsBust(),
	}, nil
}

// PrintSummary writes a summary of simulation results to w
func PrintSummary(w io.Writer, stats *statistics.Statistics, policy Policy) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS (%v) ===\n", policy)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f bets/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f bets/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f bets\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f bets\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] bets/round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	for _, o := range []game.Outcome{game.Win, game.BlackjackWin, game.Push, game.Loss} {
		n := stats.Count(o)
		fmt.Fprintf(w, "%-10s %7d (%5.1f%%) %+10.1f bets\n",
			o, n, float64(n)/float64(stats.Rounds)*100, stats.Outcomes[o].Net)
	}
	fmt.Fprintf(w, "Win rate: %.1f%%\n", stats.WinRate()*100)
	fmt.Fprintf(w, "Player busts: %d, dealer busts: %d, longest hand: %d cards\n",
		stats.PlayerBusts, stats.DealerBusts, stats.MaxCards)
}
