package game

import (
	"math"
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
)

func TestOutcomeDelta(t *testing.T) {
	tests := []struct {
		outcome Outcome
		bet     int
		want    int
	}{
		{Win, 20, 20},
		{BlackjackWin, 20, 30},
		{BlackjackWin, 15, 22},
		{Loss, 20, -20},
		{Push, 20, 0},
		{NoOutcome, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.Delta(tt.bet))
		})
	}
}

func TestBlackjackDeltaLargeBet(t *testing.T) {
	bet := math.MaxInt / 2
	delta := BlackjackWin.Delta(bet)
	assert.Equal(t, bet+bet/2, delta)
	assert.Positive(t, delta)
	assert.Greater(t, bet+delta, bet)
}

func TestOutcomeIsWin(t *testing.T) {
	assert.True(t, Win.IsWin())
	assert.True(t, BlackjackWin.IsWin())
	assert.False(t, Loss.IsWin())
	assert.False(t, Push.IsWin())
	assert.False(t, NoOutcome.IsWin())
}

func TestDealerShouldHit(t *testing.T) {
	tests := []struct {
		cards string
		hit   bool
	}{
		{"Ts6h", true},
		{"Ts7h", false},
		{"As6h", false}, // soft 17 stands
		{"AsAh", true},
		{"9s9h", false},
		{"2s3h", true},
	}

	for _, tt := range tests {
		h := NewHand(deck.MustParseCards(tt.cards)...)
		assert.Equal(t, tt.hit, DealerShouldHit(h), "dealer with %s", h)
	}
}
