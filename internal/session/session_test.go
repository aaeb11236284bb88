package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/roundid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stackedDecks deals each hand string as one round's deck, in order.
func stackedDecks(t *testing.T, hands ...string) Option {
	t.Helper()
	next := 0
	return WithDeckFactory(func() *deck.Deck {
		require.Less(t, next, len(hands), "test ran out of stacked decks")
		d := deck.NewStacked(deck.MustParseCards(hands[next])...)
		next++
		return d
	})
}

func fileLedger(t *testing.T, content string) (*ledger.Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.txt")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	l, err := ledger.Open(ledger.NewFileStore(path, nil), nil)
	require.NoError(t, err)
	return l, path
}

type brokenStore struct{}

func (brokenStore) Load() ([]ledger.Record, error) { return nil, nil }
func (brokenStore) Save([]ledger.Record) error     { return errors.New("read-only filesystem") }
func (brokenStore) Close() error                   { return nil }
func (brokenStore) String() string                 { return "broken" }

func TestNewPlayerLosesHalfBankroll(t *testing.T) {
	l, path := fileLedger(t, "")

	s, err := Login(l, "bob", stackedDecks(t, "Kh7c9s9d"))
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, Betting, v.Phase)
	assert.True(t, v.NewPlayer)
	assert.Equal(t, 100, v.Record.Bankroll)

	v, err = s.Apply(Bet{Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, Playing, v.Phase)
	require.NotNil(t, v.Round)
	assert.Equal(t, 17, v.Round.PlayerScore)
	assert.True(t, v.Round.DealerHidden)
	assert.Equal(t, 9, v.Round.DealerScore)

	v, err = s.Apply(Stand{})
	require.NoError(t, err)
	assert.Equal(t, Result, v.Phase)
	assert.Equal(t, game.Loss, v.Outcome)
	assert.Equal(t, -50, v.Delta)
	assert.Equal(t, 18, v.Round.DealerScore)
	assert.False(t, v.Round.DealerHidden)
	assert.Equal(t, ledger.Record{Name: "bob", Bankroll: 50, Total: 1, Wins: 0}, v.Record)
	assert.Empty(t, v.Warnings)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bob,50,1,0,0.0%\n", string(data))

	v, err = s.Apply(Restart{})
	require.NoError(t, err)
	assert.Equal(t, Betting, v.Phase)
	assert.Nil(t, v.Round)

	v, err = s.Apply(Quit{})
	require.NoError(t, err)
	assert.Equal(t, Closed, v.Phase)
	assert.Equal(t, 50, s.End().Bankroll)
}

func TestReturningPlayerKeepsRecord(t *testing.T) {
	l, _ := fileLedger(t, "bob,50,1,0,0.0%\n")

	s, err := Login(l, "bob")
	require.NoError(t, err)
	v := s.View()
	assert.False(t, v.NewPlayer)
	assert.Equal(t, 50, v.Record.Bankroll)
	assert.Equal(t, 1, v.Record.Total)
}

func TestNaturalSettlesOnDeal(t *testing.T) {
	l, _ := fileLedger(t, "")
	s, err := Login(l, "amy", stackedDecks(t, "AsKh9c7d"))
	require.NoError(t, err)

	v, err := s.Apply(Bet{Amount: 20})
	require.NoError(t, err)
	assert.Equal(t, Result, v.Phase)
	assert.Equal(t, game.BlackjackWin, v.Outcome)
	assert.Equal(t, 30, v.Delta)
	assert.Equal(t, 130, v.Record.Bankroll)
	assert.Equal(t, 1, v.Record.Wins)
}

func TestBustEndsRound(t *testing.T) {
	l, _ := fileLedger(t, "")
	s, err := Login(l, "amy", stackedDecks(t, "Kh6c9s7d8h"))
	require.NoError(t, err)

	_, err = s.Apply(Bet{Amount: 10})
	require.NoError(t, err)

	v, err := s.Apply(Hit{})
	require.NoError(t, err)
	assert.Equal(t, Result, v.Phase)
	assert.Equal(t, game.Loss, v.Outcome)
	assert.Equal(t, 24, v.Round.PlayerScore)
	assert.Equal(t, 90, v.Record.Bankroll)
}

func TestInvalidBets(t *testing.T) {
	l, _ := fileLedger(t, "")
	s, err := Login(l, "amy")
	require.NoError(t, err)

	tests := []struct {
		amount int
		want   error
	}{
		{0, ErrBetTooSmall},
		{9, ErrBetTooSmall},
		{-20, ErrBetTooSmall},
		{101, ErrBetTooLarge},
	}
	for _, tt := range tests {
		v, err := s.Apply(Bet{Amount: tt.amount})
		assert.ErrorIs(t, err, tt.want, "amount %d", tt.amount)

		var ibe *InvalidBetError
		require.ErrorAs(t, err, &ibe)
		assert.Equal(t, tt.amount, ibe.Amount)
		assert.Equal(t, Betting, v.Phase)
	}

	assert.NoError(t, ValidateBet(10, 100))
	assert.NoError(t, ValidateBet(100, 100))
}

func TestParseBet(t *testing.T) {
	n, err := ParseBet(" 25 ")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	for _, input := range []string{"", "abc", "12.5", "10 chips"} {
		_, err := ParseBet(input)
		assert.ErrorIs(t, err, ErrBetNotNumber, "input %q", input)
	}
}

func TestCommandNotAllowed(t *testing.T) {
	l, _ := fileLedger(t, "")
	s, err := Login(l, "amy", stackedDecks(t, "Kh7c9s9d"))
	require.NoError(t, err)

	for _, cmd := range []Command{Hit{}, Stand{}, Restart{}} {
		_, err := s.Apply(cmd)
		assert.ErrorIs(t, err, ErrCommandNotAllowed, "%T while betting", cmd)
	}

	_, err = s.Apply(Bet{Amount: 10})
	require.NoError(t, err)
	for _, cmd := range []Command{Bet{Amount: 10}, Restart{}, Quit{}} {
		_, err := s.Apply(cmd)
		assert.ErrorIs(t, err, ErrCommandNotAllowed, "%T while playing", cmd)
	}
	assert.Equal(t, Playing, s.Phase())

	_, err = s.Apply(Stand{})
	require.NoError(t, err)
	for _, cmd := range []Command{Bet{Amount: 10}, Hit{}, Stand{}} {
		_, err := s.Apply(cmd)
		assert.ErrorIs(t, err, ErrCommandNotAllowed, "%T on result", cmd)
	}

	_, err = s.Apply(Quit{})
	require.NoError(t, err)
	_, err = s.Apply(Restart{})
	assert.ErrorIs(t, err, ErrCommandNotAllowed)
}

func TestSubsidyBeforeNextBet(t *testing.T) {
	l, path := fileLedger(t, "carl,10,5,1,20.0%\n")
	s, err := Login(l, "carl", stackedDecks(t, "Kh7c9s9d", "Kh9c9s8d"))
	require.NoError(t, err)
	assert.False(t, s.View().Subsidised)

	_, err = s.Apply(Bet{Amount: 10})
	require.NoError(t, err)
	v, err := s.Apply(Stand{})
	require.NoError(t, err)
	assert.Equal(t, 0, v.Record.Bankroll, "no subsidy mid-round")
	assert.False(t, v.Subsidised)

	v, err = s.Apply(Restart{})
	require.NoError(t, err)
	assert.True(t, v.Subsidised)
	assert.Equal(t, 10, v.Record.Bankroll)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "carl,10,6,1,16.7%\n", string(data))

	_, err = s.Apply(Bet{Amount: 10})
	require.NoError(t, err)
	v, err = s.Apply(Stand{})
	require.NoError(t, err)
	assert.Equal(t, game.Win, v.Outcome)

	v, err = s.Apply(Restart{})
	require.NoError(t, err)
	assert.False(t, v.Subsidised)
	assert.Equal(t, 20, v.Record.Bankroll)
}

func TestSubsidyAtLogin(t *testing.T) {
	l, _ := fileLedger(t, "dora,-5,9,2,22.2%\n")
	s, err := Login(l, "dora")
	require.NoError(t, err)

	v := s.View()
	assert.True(t, v.Subsidised)
	assert.Equal(t, 10, v.Record.Bankroll)
}

func TestSaveFailureIsAWarning(t *testing.T) {
	l, err := ledger.Open(brokenStore{}, nil)
	require.NoError(t, err)

	s, err := Login(l, "erin", stackedDecks(t, "Kh9c9s8d"))
	require.NoError(t, err)
	assert.Len(t, s.View().Warnings, 1)

	_, err = s.Apply(Bet{Amount: 40})
	require.NoError(t, err)
	v, err := s.Apply(Stand{})
	require.NoError(t, err)

	assert.Equal(t, Result, v.Phase)
	assert.Equal(t, 140, v.Record.Bankroll)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "read-only filesystem")

	v, err = s.Apply(Restart{})
	require.NoError(t, err)
	assert.Empty(t, v.Warnings)
	assert.Equal(t, 140, v.Record.Bankroll)
}

func TestInvalidNameRejected(t *testing.T) {
	l, _ := fileLedger(t, "")
	_, err := Login(l, "a,b")
	assert.ErrorIs(t, err, ledger.ErrInvalidName)
	assert.Zero(t, l.Len())
}

func TestRoundIDFromClock(t *testing.T) {
	clock := quartz.NewMock(t)
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	clock.Set(at)

	l, _ := fileLedger(t, "")
	s, err := Login(l, "finn", WithClock(clock), stackedDecks(t, "Kh7c9s9d"))
	require.NoError(t, err)
	assert.Empty(t, s.View().RoundID)

	v, err := s.Apply(Bet{Amount: 10})
	require.NoError(t, err)
	require.NoError(t, roundid.Validate(v.RoundID))

	created, err := roundid.Time(v.RoundID)
	require.NoError(t, err)
	assert.True(t, at.Equal(created))
}

func TestSeededDecksIgnoreRoundIDs(t *testing.T) {
	l, _ := fileLedger(t, "")
	s, err := Login(l, "erin", WithRand(randutil.New(7)))
	require.NoError(t, err)

	ref := randutil.New(7)
	var want [][]deck.Card
	for i := 0; i < 3; i++ {
		cards := deck.NewShuffled(ref).Cards()
		want = append(want, cards[:2])
	}

	for i, hand := range want {
		v, err := s.Apply(Bet{Amount: 10})
		require.NoError(t, err)
		assert.NotEmpty(t, v.RoundID)
		assert.Equal(t, hand, v.Round.PlayerCards, "round %d", i+1)

		if v.Phase == Playing {
			_, err = s.Apply(Stand{})
			require.NoError(t, err)
		}
		_, err = s.Apply(Restart{})
		require.NoError(t, err)
	}
}

func TestExhaustedDeckIsAnError(t *testing.T) {
	l, _ := fileLedger(t, "")
	s, err := Login(l, "gus", stackedDecks(t, "Kh7c"))
	require.NoError(t, err)

	v, err := s.Apply(Bet{Amount: 10})
	assert.ErrorIs(t, err, deck.ErrEmptyDeck)
	assert.Equal(t, Betting, v.Phase)
	assert.Equal(t, 100, v.Record.Bankroll)
}
