package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinBet is the smallest wager accepted.
const MinBet = 10

var (
	ErrBetTooSmall  = errors.New("bet is below the minimum")
	ErrBetTooLarge  = errors.New("bet exceeds bankroll")
	ErrBetNotNumber = errors.New("bet is not a whole number")
)

// InvalidBetError explains why a bet was refused. Err is one of
// ErrBetTooSmall, ErrBetTooLarge or ErrBetNotNumber.
type InvalidBetError struct {
	Input    string
	Amount   int
	Bankroll int
	Err      error
}

func (e *InvalidBetError) Error() string {
	switch {
	case errors.Is(e.Err, ErrBetNotNumber):
		return fmt.Sprintf("%q is not a valid bet", e.Input)
	case errors.Is(e.Err, ErrBetTooSmall):
		return fmt.Sprintf("minimum bet is %d, got %d", MinBet, e.Amount)
	case errors.Is(e.Err, ErrBetTooLarge):
		return fmt.Sprintf("bet %d exceeds bankroll %d", e.Amount, e.Bankroll)
	default:
		return fmt.Sprintf("invalid bet: %v", e.Err)
	}
}

func (e *InvalidBetError) Unwrap() error { return e.Err }

// ValidateBet checks MinBet <= amount <= bankroll.
func ValidateBet(amount, bankroll int) error {
	if amount < MinBet {
		return &InvalidBetError{Amount: amount, Bankroll: bankroll, Err: ErrBetTooSmall}
	}
	if amount > bankroll {
		return &InvalidBetError{Amount: amount, Bankroll: bankroll, Err: ErrBetTooLarge}
	}
	return nil
}

// ParseBet reads a bet typed by the player. It only checks the input is a
// whole number; use ValidateBet for the limits.
func ParseBet(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &InvalidBetError{Input: trimmed, Err: ErrBetNotNumber}
	}
	return n, nil
}
