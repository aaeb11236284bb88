package game

// Outcome is the result of a settled round from the player's side
type Outcome int

const (
	// NoOutcome is reported while a round is still in progress.
	NoOutcome Outcome = iota
	Win
	Loss
	Push
	// BlackjackWin is a natural on the initial deal; it pays 3:2.
	BlackjackWin
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case NoOutcome:
		return "none"
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Push:
		return "push"
	case BlackjackWin:
		return "blackjack"
	default:
		return "unknown"
	}
}

// IsWin reports whether the outcome counts as a win in the player's record
func (o Outcome) IsWin() bool {
	return o == Win || o == BlackjackWin
}

// Delta returns the signed bankroll change for a settled bet. A win pays
// the bet as profit, a natural pays one and a half times the bet truncated
// to whole units, a loss forfeits the bet and a push changes nothing.
func (o Outcome) Delta(bet int) int {
	switch o {
	case Win:
		return bet
	case BlackjackWin:
		return bet + bet/2
	case Loss:
		return -bet
	default:
		return 0
	}
}
