package roundid

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsValid(t *testing.T) {
	id := NewGenerator(nil, nil).New()
	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))
}

func TestNewUnique(t *testing.T) {
	g := NewGenerator(nil, nil)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.New()
		require.False(t, seen[id], "duplicate ID %s", id)
		seen[id] = true
	}
}

func TestIDsSortByClock(t *testing.T) {
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	g := NewGenerator(clock, randutil.New(1))

	prev := g.New()
	for i := 0; i < 10; i++ {
		clock.Advance(time.Millisecond)
		id := g.New()
		assert.Less(t, prev, id)
		prev = id
	}
}

func TestTimeRoundTrip(t *testing.T) {
	clock := quartz.NewMock(t)
	at := time.Date(2025, 3, 1, 12, 30, 15, 250*int(time.Millisecond), time.UTC)
	clock.Set(at)

	id := NewGenerator(clock, nil).New()
	got, err := Time(id)
	require.NoError(t, err)
	assert.True(t, at.Equal(got), "got %v want %v", got, at)
}

func TestDeterministicWithRandSource(t *testing.T) {
	clock := quartz.NewMock(t)
	a := NewGenerator(clock, randutil.New(9)).New()
	b := NewGenerator(clock, randutil.New(9)).New()
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "01h5n0et5q6mt3v7ms1234abcd", false},
		{"too short", "01h5n0et5q6mt3v7ms123", true},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "81h5n0et5q6mt3v7ms1234abcd", true},
		{"excluded letter", "01h5n0et5q6mt3v7ms1234abci", true},
		{"uppercase", "01H5N0ET5Q6MT3V7MS1234ABCD", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
