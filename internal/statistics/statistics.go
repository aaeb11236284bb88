package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult is the outcome of a single settled round
type RoundResult struct {
	Net         float64 // Net result in bets won/lost (win +1, natural +1.5, loss -1)
	Seed        int64   // Seed of the deck the round was dealt from (for replay)
	Outcome     game.Outcome
	PlayerScore int
	DealerScore int
	PlayerCards int  // Cards in the player's final hand
	DealerBust  bool // Dealer went over 21
}

// OutcomeStats tracks rounds and net result for one outcome
type OutcomeStats struct {
	Rounds int
	Net    float64
}

// Statistics aggregates round results
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Outcomes [game.BlackjackWin + 1]OutcomeStats // Indexed by game.Outcome
	AllNet   float64                             // Total net for sanity check

	PlayerBusts int
	DealerBusts int
	MaxCards    int // Longest player hand observed
}

// Mean returns the average net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.AllNet += net

	if result.Outcome >= 0 && int(result.Outcome) < len(s.Outcomes) {
		s.Outcomes[result.Outcome].Rounds++
		s.Outcomes[result.Outcome].Net += net
	}

	if result.PlayerScore > game.Blackjack {
		s.PlayerBusts++
	}
	if result.DealerBust {
		s.DealerBusts++
	}
	if result.PlayerCards > s.MaxCards {
		s.MaxCards = result.PlayerCards
	}
}

// Merge folds other into s. Worker results are merged after a parallel run.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.AllNet += other.AllNet
	for i := range s.Outcomes {
		s.Outcomes[i].Rounds += other.Outcomes[i].Rounds
		s.Outcomes[i].Net += other.Outcomes[i].Net
	}
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
	s.MaxCards = max(s.MaxCards, other.MaxCards)
}

// Count returns the number of rounds that ended in outcome
func (s *Statistics) Count(outcome game.Outcome) int {
	if outcome < 0 || int(outcome) >= len(s.Outcomes) {
		return 0
	}
	return s.Outcomes[outcome].Rounds
}

// WinRate returns the share of rounds won, naturals included
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Count(game.Win)+s.Count(game.BlackjackWin)) / float64(s.Rounds)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that the per-outcome nets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	sum := 0.0
	for _, o := range s.Outcomes {
		sum += o.Net
	}
	return math.Abs(s.AllNet-sum) <= 1e-6
}

// Validate performs consistency checks on the statistics
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f does not match outcome totals", s.AllNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	counted := 0
	for _, o := range s.Outcomes {
		counted += o.Rounds
	}
	if counted != s.Rounds {
		return fmt.Errorf("outcome rounds total (%d) does not match total rounds (%d)", counted, s.Rounds)
	}

	if s.Outcomes[game.NoOutcome].Rounds > 0 {
		return fmt.Errorf("%d rounds recorded without an outcome", s.Outcomes[game.NoOutcome].Rounds)
	}

	if busts := s.PlayerBusts; busts > s.Count(game.Loss) {
		return fmt.Errorf("player busts (%d) exceed losses (%d)", busts, s.Count(game.Loss))
	}

	return nil
}
