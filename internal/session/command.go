package session

// Command is one player instruction. The set is closed: Bet, Hit, Stand,
// Restart and Quit.
type Command interface {
	commandName() string
}

// Bet places a wager and deals a round.
type Bet struct {
	Amount int
}

// Hit asks for one more card.
type Hit struct{}

// Stand ends the player's turn.
type Stand struct{}

// Restart leaves the result screen for the next bet.
type Restart struct{}

// Quit ends the session.
type Quit struct{}

func (Bet) commandName() string     { return "bet" }
func (Hit) commandName() string     { return "hit" }
func (Stand) commandName() string   { return "stand" }
func (Restart) commandName() string { return "restart" }
func (Quit) commandName() string    { return "quit" }

// Phase is where the session is between commands.
type Phase int

const (
	Betting Phase = iota
	Playing
	Result
	Closed
)

func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case Playing:
		return "playing"
	case Result:
		return "result"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// allows reports whether cmd is accepted in phase p.
func (p Phase) allows(cmd Command) bool {
	switch cmd.(type) {
	case Bet:
		return p == Betting
	case Hit, Stand:
		return p == Playing
	case Restart:
		return p == Result
	case Quit:
		return p == Betting || p == Result
	default:
		return false
	}
}
