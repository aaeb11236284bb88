package game

import (
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

const (
	// Blackjack is the best possible score.
	Blackjack = 21

	// aceAdjustment is the difference between an ace counted as 11 and as 1.
	aceAdjustment = 10
)

// Points returns the provisional blackjack value of a card: J/Q/K count 10,
// an Ace counts 11 and numerals count their face value.
func Points(c deck.Card) int {
	switch {
	case c.Rank == deck.Ace:
		return 11
	case c.Rank >= deck.Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// Score computes the value of a card sequence. Aces start at 11 and are
// downgraded to 1, one at a time, only while the total is over 21.
func Score(cards []deck.Card) int {
	total, aces := rawTotal(cards)
	for total > Blackjack && aces > 0 {
		total -= aceAdjustment
		aces--
	}
	return total
}

func rawTotal(cards []deck.Card) (total, aces int) {
	for _, c := range cards {
		total += Points(c)
		if c.IsAce() {
			aces++
		}
	}
	return total, aces
}

// Hand is the ordered sequence of cards dealt to the player or the dealer.
// The zero value is an empty hand.
type Hand struct {
	cards []deck.Card
}

// NewHand creates a hand holding the given cards
func NewHand(cards ...deck.Card) Hand {
	h := Hand{cards: make([]deck.Card, 0, len(cards)+2)}
	h.cards = append(h.cards, cards...)
	return h
}

// Add appends a dealt card to the hand
func (h *Hand) Add(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the cards in the order they were dealt
func (h Hand) Cards() []deck.Card {
	cards := make([]deck.Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

// Len returns the number of cards in the hand
func (h Hand) Len() int {
	return len(h.cards)
}

// RawTotal is the sum of Points with every ace at 11
func (h Hand) RawTotal() int {
	total, _ := rawTotal(h.cards)
	return total
}

// Aces returns how many aces the hand holds
func (h Hand) Aces() int {
	_, aces := rawTotal(h.cards)
	return aces
}

// Score returns the hand value after ace downgrades
func (h Hand) Score() int {
	return Score(h.cards)
}

// IsBust reports whether the hand scores over 21
func (h Hand) IsBust() bool {
	return h.Score() > Blackjack
}

// IsNatural reports whether the hand is a two card 21
func (h Hand) IsNatural() bool {
	return len(h.cards) == 2 && h.Score() == Blackjack
}

// IsSoft reports whether at least one ace is still counted as 11
func (h Hand) IsSoft() bool {
	total, aces := rawTotal(h.cards)
	if aces == 0 {
		return false
	}
	downgrades := 0
	for total > Blackjack && downgrades < aces {
		total -= aceAdjustment
		downgrades++
	}
	return downgrades < aces
}

// String renders the hand as "A♠ K♥ (21)"
func (h Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ") + " (" + strconv.Itoa(h.Score()) + ")"
}
