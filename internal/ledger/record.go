package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/game"
)

const (
	// StartingBankroll is credited to a player on first login.
	StartingBankroll = 100

	// Subsidy is the bankroll granted to a broke player before their next bet.
	Subsidy = 10
)

// ErrInvalidName is returned for player names the store cannot hold.
var ErrInvalidName = errors.New("invalid player name")

// Record is one player's persistent state.
type Record struct {
	Name     string
	Bankroll int
	Total    int
	Wins     int
}

// NewRecord creates the record for a first-time player
func NewRecord(name string) Record {
	return Record{Name: name, Bankroll: StartingBankroll}
}

// WinRate returns wins as a percentage of rounds played, 0 before any round.
func (r Record) WinRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Total) * 100
}

// WinRateString formats WinRate with one decimal and a trailing percent sign.
func (r Record) WinRateString() string {
	return fmt.Sprintf("%.1f%%", r.WinRate())
}

// ApplyOutcome books a settled round and returns the bankroll change.
// NoOutcome is ignored.
func (r *Record) ApplyOutcome(bet int, outcome game.Outcome) int {
	if outcome == game.NoOutcome {
		return 0
	}
	r.Total++
	if outcome.IsWin() {
		r.Wins++
	}
	delta := outcome.Delta(bet)
	r.Bankroll += delta
	return delta
}

// CheckBankruptcy resets a bankroll at or below zero to Subsidy and reports
// whether it did. It is meant to run before a bet is taken, never mid-round.
func (r *Record) CheckBankruptcy() bool {
	if r.Bankroll > 0 {
		return false
	}
	r.Bankroll = Subsidy
	return true
}

// ValidateName rejects names that would corrupt the line format.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, ",\r\n") {
		return fmt.Errorf("%w: %q contains a comma or line break", ErrInvalidName, name)
	}
	return nil
}
