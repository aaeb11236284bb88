package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/roundid"
)

// ErrCommandNotAllowed is returned when a command does not fit the phase.
var ErrCommandNotAllowed = errors.New("command not allowed in current phase")

// Session is one logged-in player playing consecutive rounds.
type Session struct {
	ledger  *ledger.Ledger
	record  ledger.Record
	created bool
	phase   Phase

	round      *game.Round
	roundID    string
	roundStart time.Time
	outcome    game.Outcome
	delta      int
	subsidised bool
	warnings   []string

	newDeck func() *deck.Deck
	clock   quartz.Clock
	ids     *roundid.Generator
	logger  *log.Logger
}

// View is a snapshot of everything a front end renders.
type View struct {
	Phase      Phase
	Record     ledger.Record
	NewPlayer  bool
	RoundID    string
	Round      *game.RoundView
	Outcome    game.Outcome
	Delta      int
	Subsidised bool
	Warnings   []string
}

// Login loads or creates the record for name and opens a session in the
// Betting phase.
func Login(l *ledger.Ledger, name string, opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.finish()

	rec, created, err := l.GetOrCreate(name)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ledger:  l,
		record:  rec,
		created: created,
		newDeck: cfg.newDeck,
		clock:   cfg.clock,
		ids:     roundid.NewGenerator(cfg.clock, nil),
		logger:  cfg.logger.WithPrefix("session").With("player", name),
	}

	s.logger.Info("Player logged in", "bankroll", rec.Bankroll, "new", created)
	s.beginBetting()
	if created {
		s.save()
	}
	return s, nil
}

// Apply runs cmd against the session and returns the resulting view. A
// command that does not fit the current phase returns ErrCommandNotAllowed
// and changes nothing; an invalid bet returns *InvalidBetError.
func (s *Session) Apply(cmd Command) (View, error) {
	if !s.phase.allows(cmd) {
		return s.View(), fmt.Errorf("%s during %s: %w", cmd.commandName(), s.phase, ErrCommandNotAllowed)
	}

	var err error
	switch c := cmd.(type) {
	case Bet:
		err = s.bet(c.Amount)
	case Hit:
		err = s.play(s.round.Hit)
	case Stand:
		err = s.play(s.round.Stand)
	case Restart:
		s.beginBetting()
	case Quit:
		s.phase = Closed
		s.logger.Info("Player left", "bankroll", s.record.Bankroll)
	}
	return s.View(), err
}

func (s *Session) bet(amount int) error {
	if err := ValidateBet(amount, s.record.Bankroll); err != nil {
		return err
	}

	round, err := game.Start(s.newDeck(), amount, game.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}

	s.round = round
	s.roundID = s.ids.New()
	s.roundStart = s.clock.Now()
	s.subsidised = false
	s.warnings = nil
	s.phase = Playing
	s.logger.Debug("Round started", "round", s.roundID, "bet", amount)

	if round.IsSettled() {
		s.settle()
	}
	return nil
}

func (s *Session) play(action func() error) error {
	if err := action(); err != nil {
		return fmt.Errorf("round %s: %w", s.roundID, err)
	}
	if s.round.IsSettled() {
		s.settle()
	}
	return nil
}

func (s *Session) settle() {
	s.outcome = s.round.Outcome()
	s.delta = s.record.ApplyOutcome(s.round.Bet(), s.outcome)
	s.phase = Result
	s.save()

	s.logger.Info("Round settled",
		"round", s.roundID,
		"outcome", s.outcome,
		"delta", s.delta,
		"bankroll", s.record.Bankroll,
		"duration", s.clock.Since(s.roundStart))
}

// beginBetting opens a Betting phase, granting the bankruptcy subsidy first
// if the player is broke.
func (s *Session) beginBetting() {
	s.phase = Betting
	s.round = nil
	s.roundID = ""
	s.outcome = game.NoOutcome
	s.delta = 0
	s.warnings = nil

	s.subsidised = s.record.CheckBankruptcy()
	if s.subsidised {
		s.logger.Info("Bankroll subsidised", "bankroll", s.record.Bankroll)
		s.save()
	}
}

// save writes the record through the ledger. A failure is kept as a warning
// for the front end; play continues on the in-memory record.
func (s *Session) save() {
	s.ledger.Put(s.record)
	if err := s.ledger.Save(); err != nil {
		s.warnings = append(s.warnings, fmt.Sprintf("progress not saved: %v", err))
	}
}

// View returns the current snapshot.
func (s *Session) View() View {
	v := View{
		Phase:      s.phase,
		Record:     s.record,
		NewPlayer:  s.created,
		RoundID:    s.roundID,
		Outcome:    s.outcome,
		Delta:      s.delta,
		Subsidised: s.subsidised,
	}
	if s.round != nil {
		rv := s.round.View()
		v.Round = &rv
	}
	if len(s.warnings) > 0 {
		v.Warnings = append([]string(nil), s.warnings...)
	}
	return v
}

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.phase }

// Record returns the player's current record
func (s *Session) Record() ledger.Record { return s.record }

// End closes the session and returns the final record.
func (s *Session) End() ledger.Record {
	if s.phase != Closed {
		s.phase = Closed
		s.logger.Info("Player left", "bankroll", s.record.Bankroll)
	}
	return s.record
}
