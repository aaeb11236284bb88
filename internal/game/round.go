package game

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
)

// State is the phase of a single round
type State int

const (
	Dealt State = iota
	PlayerActing
	DealerActing
	Settled
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case Dealt:
		return "dealt"
	case PlayerActing:
		return "player_acting"
	case DealerActing:
		return "dealer_acting"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// initialCards is the number of cards consumed by the opening deal.
const initialCards = 4

var (
	// ErrActionNotAllowed is returned for Hit or Stand outside PlayerActing.
	ErrActionNotAllowed = errors.New("action not allowed in current state")

	// ErrInvalidBet is returned by Start for a non-positive bet.
	ErrInvalidBet = errors.New("bet must be positive")
)

// Round is one round of blackjack between the player and the dealer.
type Round struct {
	deck    *deck.Deck
	bet     int
	player  Hand
	dealer  Hand
	state   State
	outcome Outcome

	logger       *log.Logger
	onTransition func(from, to State)
}

// Start deals a new round from d: two cards to the player, then two to the
// dealer. A player natural settles the round at once as BlackjackWin and the
// dealer does not draw; otherwise the round waits in PlayerActing.
//
// The deck must hold at least four cards. Any later failure to deal wraps
// deck.ErrEmptyDeck and leaves the round unusable.
func Start(d *deck.Deck, bet int, opts ...RoundOption) (*Round, error) {
	if bet <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBet, bet)
	}
	if d == nil || d.Remaining() < initialCards {
		remaining := 0
		if d != nil {
			remaining = d.Remaining()
		}
		return nil, fmt.Errorf("initial deal needs %d cards, deck has %d: %w", initialCards, remaining, deck.ErrEmptyDeck)
	}

	cfg := defaultRoundConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Round{
		deck:         d,
		bet:          bet,
		player:       NewHand(),
		dealer:       NewHand(),
		state:        Dealt,
		logger:       cfg.logger,
		onTransition: cfg.onTransition,
	}

	for _, h := range []*Hand{&r.player, &r.player, &r.dealer, &r.dealer} {
		if err := r.dealTo(h); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("Round dealt", "bet", bet, "player", r.player, "dealer_up", r.dealer.cards[0])

	if r.player.IsNatural() {
		r.settle(BlackjackWin)
		return r, nil
	}

	r.transition(PlayerActing)
	return r, nil
}

// Hit deals one card to the player. A bust settles the round as a Loss.
func (r *Round) Hit() error {
	if r.state != PlayerActing {
		return fmt.Errorf("hit in state %s: %w", r.state, ErrActionNotAllowed)
	}
	if err := r.dealTo(&r.player); err != nil {
		return fmt.Errorf("hit: %w", err)
	}

	r.logger.Debug("Player hit", "hand", r.player)

	if r.player.IsBust() {
		r.settle(Loss)
	}
	return nil
}

// Stand ends the player's turn, plays out the dealer and settles the round.
func (r *Round) Stand() error {
	if r.state != PlayerActing {
		return fmt.Errorf("stand in state %s: %w", r.state, ErrActionNotAllowed)
	}

	r.transition(DealerActing)
	for DealerShouldHit(r.dealer) {
		if err := r.dealTo(&r.dealer); err != nil {
			return fmt.Errorf("dealer draw: %w", err)
		}
		r.logger.Debug("Dealer drew", "hand", r.dealer)
	}

	r.settle(compare(r.player, r.dealer))
	return nil
}

func (r *Round) dealTo(h *Hand) error {
	card, err := r.deck.Deal()
	if err != nil {
		return err
	}
	h.Add(card)
	return nil
}

func (r *Round) settle(outcome Outcome) {
	r.outcome = outcome
	r.transition(Settled)
	r.logger.Debug("Round settled",
		"outcome", outcome,
		"player", r.player,
		"dealer", r.dealer,
		"delta", outcome.Delta(r.bet))
}

func (r *Round) transition(to State) {
	from := r.state
	r.state = to
	if r.onTransition != nil {
		r.onTransition(from, to)
	}
}

// State returns the current state
func (r *Round) State() State { return r.state }

// Outcome returns the settled outcome, or NoOutcome before settlement
func (r *Round) Outcome() Outcome { return r.outcome }

// Bet returns the amount wagered on the round
func (r *Round) Bet() int { return r.bet }

// Player returns a copy of the player's hand
func (r *Round) Player() Hand { return NewHand(r.player.cards...) }

// Dealer returns a copy of the dealer's full hand, hole card included
func (r *Round) Dealer() Hand { return NewHand(r.dealer.cards...) }

// IsSettled reports whether the round has finished
func (r *Round) IsSettled() bool { return r.state == Settled }

// RoundView is what a front end may show about a round. While the player is
// acting the dealer's second card is withheld: DealerCards holds only the
// up card and DealerScore counts only that card.
type RoundView struct {
	State        State
	Bet          int
	PlayerCards  []deck.Card
	PlayerScore  int
	DealerCards  []deck.Card
	DealerScore  int
	DealerHidden bool
	Outcome      Outcome
}

// View returns a display snapshot of the round
func (r *Round) View() RoundView {
	v := RoundView{
		State:       r.state,
		Bet:         r.bet,
		PlayerCards: r.player.Cards(),
		PlayerScore: r.player.Score(),
		Outcome:     r.outcome,
	}

	if r.state == PlayerActing {
		up := r.dealer.cards[:1]
		v.DealerHidden = true
		v.DealerCards = NewHand(up...).Cards()
		v.DealerScore = Score(up)
	} else {
		v.DealerCards = r.dealer.Cards()
		v.DealerScore = r.dealer.Score()
	}

	return v
}
