// Package prompt is the line-oriented front end: it reads commands from an
// io.Reader and writes the table to an io.Writer.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/session"
	"github.com/muesli/termenv"
)

// ErrInputClosed is returned when input ends before a round is settled.
var ErrInputClosed = errors.New("input closed mid-round")

const rule = "=================================================="

// Prompt runs one player's session over a pair of streams.
type Prompt struct {
	in     *bufio.Scanner
	out    *termenv.Output
	ledger *ledger.Ledger
	opts   []session.Option
}

// New creates a prompt reading from in and writing to out. Colour is used
// only when out is a terminal that supports it.
func New(in io.Reader, out io.Writer, l *ledger.Ledger, opts ...session.Option) *Prompt {
	return &Prompt{
		in:     bufio.NewScanner(in),
		out:    termenv.NewOutput(out),
		ledger: l,
		opts:   opts,
	}
}

// Run plays until the player quits or input ends, returning the final record.
func (p *Prompt) Run() (ledger.Record, error) {
	p.println(rule)
	p.println("Welcome to Blackjack!")
	p.println(rule)

	s, err := p.login()
	if err != nil {
		return ledger.Record{}, err
	}

	v := s.View()
	for {
		p.warn(v.Warnings)

		switch v.Phase {
		case session.Betting:
			v, err = p.betting(s, v)
		case session.Playing:
			v, err = p.playing(s, v)
		case session.Result:
			v, err = p.result(s, v)
		case session.Closed:
			rec := s.End()
			p.summary(rec)
			return rec, nil
		}
		if err != nil {
			return s.End(), err
		}
	}
}

func (p *Prompt) login() (*session.Session, error) {
	for {
		name, ok := p.ask("Enter your name: ")
		if !ok {
			return nil, io.EOF
		}

		s, err := session.Login(p.ledger, strings.TrimSpace(name), p.opts...)
		if errors.Is(err, ledger.ErrInvalidName) {
			p.println(p.failure(err.Error()))
			continue
		}
		if err != nil {
			return nil, err
		}

		rec := s.Record()
		if s.View().NewPlayer {
			p.printf("\nWelcome, new player %s!\n", rec.Name)
			p.printf("Your account has been opened with $%d\n", rec.Bankroll)
		} else {
			p.printf("\nWelcome back, %s!\n", rec.Name)
			p.stats(rec)
		}
		return s, nil
	}
}

func (p *Prompt) betting(s *session.Session, v session.View) (session.View, error) {
	if v.Subsidised {
		p.println("\n" + rule)
		p.println(p.warning(fmt.Sprintf("You lost everything, here is $%d to keep going", ledger.Subsidy)))
		p.println(rule)
	}

	bankroll := v.Record.Bankroll
	p.printf("\nBankroll: $%d\n", bankroll)
	for {
		line, ok := p.ask(fmt.Sprintf("Enter your bet (min $%d, max $%d): ", session.MinBet, bankroll))
		if !ok {
			return s.Apply(session.Quit{})
		}

		amount, err := session.ParseBet(line)
		if err == nil {
			var next session.View
			next, err = s.Apply(session.Bet{Amount: amount})
			if err == nil {
				p.printf("\nBet: $%d\nDealing...\n", amount)
				return next, nil
			}
		}

		var ibe *session.InvalidBetError
		if !errors.As(err, &ibe) {
			return v, err
		}
		p.println(p.failure(ibe.Error()))
	}
}

func (p *Prompt) playing(s *session.Session, v session.View) (session.View, error) {
	p.table(v.Round)
	for {
		choice, ok := p.ask("\n[H]it or [S]tand? ")
		if !ok {
			return v, ErrInputClosed
		}

		switch strings.ToUpper(strings.TrimSpace(choice)) {
		case "H":
			next, err := s.Apply(session.Hit{})
			if err != nil {
				return v, err
			}
			cards := next.Round.PlayerCards
			p.printf("\nYou drew: %s\n", p.card(cards[len(cards)-1]))
			return next, nil
		case "S":
			p.println("\nYou stand.")
			next, err := s.Apply(session.Stand{})
			if err != nil {
				return v, err
			}
			p.dealerTurn(v.Round, next.Round)
			return next, nil
		default:
			p.println(p.failure("Please enter H or S"))
		}
	}
}

// dealerTurn narrates the cards the dealer drew after the player stood.
func (p *Prompt) dealerTurn(before, after *game.RoundView) {
	p.println("\nDealer's turn...")
	// before only showed the up card; the hole card is index 1.
	for _, c := range after.DealerCards[min(len(after.DealerCards), len(before.DealerCards)+1):] {
		p.printf("Dealer draws: %s\n", p.card(c))
	}
}

func (p *Prompt) result(s *session.Session, v session.View) (session.View, error) {
	r := v.Round
	p.println("\n" + rule)
	p.println("Final hands:")
	p.printf("[Player] %s (%d)\n", p.cards(r.PlayerCards), r.PlayerScore)
	p.printf("[Dealer] %s (%d)\n", p.cards(r.DealerCards), r.DealerScore)
	p.println(rule)

	bankroll := v.Record.Bankroll
	switch v.Outcome {
	case game.BlackjackWin:
		p.println(p.success(fmt.Sprintf("\nBlackjack! Won $%d, bankroll: $%d", v.Delta, bankroll)))
	case game.Win:
		if r.DealerScore > game.Blackjack {
			p.println("\nDealer busts!")
		}
		p.println(p.success(fmt.Sprintf("\n[+] You win! Won $%d, bankroll: $%d", v.Delta, bankroll)))
	case game.Loss:
		if r.PlayerScore > game.Blackjack {
			p.println("\nBust!")
		}
		p.println(p.failure(fmt.Sprintf("\n[-] You lose! Lost $%d, bankroll: $%d", -v.Delta, bankroll)))
	case game.Push:
		p.printf("\n[=] Push. Bankroll unchanged: $%d\n", bankroll)
	}

	for {
		again, ok := p.ask("\nPlay again? [Y/N]: ")
		if !ok {
			return s.Apply(session.Quit{})
		}
		switch strings.ToUpper(strings.TrimSpace(again)) {
		case "Y":
			return s.Apply(session.Restart{})
		case "N":
			return s.Apply(session.Quit{})
		default:
			p.println(p.failure("Please enter Y or N"))
		}
	}
}

func (p *Prompt) table(r *game.RoundView) {
	p.println("\n" + strings.Repeat("-", len(rule)))
	p.printf("[Player] %s (%d)\n", p.cards(r.PlayerCards), r.PlayerScore)
	if r.DealerHidden {
		p.printf("[Dealer] %s [hidden]\n", p.cards(r.DealerCards))
	} else {
		p.printf("[Dealer] %s (%d)\n", p.cards(r.DealerCards), r.DealerScore)
	}
	p.println(strings.Repeat("-", len(rule)))
}

func (p *Prompt) summary(rec ledger.Record) {
	p.println("\n" + rule)
	p.println("Final record:")
	p.printf("Name: %s\n", rec.Name)
	p.stats(rec)
	p.println(rule)
}

func (p *Prompt) stats(rec ledger.Record) {
	p.printf("Bankroll: $%d\n", rec.Bankroll)
	p.printf("Rounds played: %d\n", rec.Total)
	p.printf("Wins: %d\n", rec.Wins)
	p.printf("Win rate: %s\n", rec.WinRateString())
}

func (p *Prompt) warn(warnings []string) {
	for _, w := range warnings {
		p.println(p.warning("[!] " + w))
	}
}

func (p *Prompt) ask(question string) (string, bool) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return p.in.Text(), true
}

func (p *Prompt) cards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = p.card(c)
	}
	return strings.Join(parts, " ")
}

func (p *Prompt) card(c deck.Card) string {
	if c.IsRed() {
		return p.out.String(c.String()).Foreground(p.out.Color("#FF6B6B")).Bold().String()
	}
	return p.out.String(c.String()).Bold().String()
}

func (p *Prompt) success(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#96CEB4")).Bold().String()
}

func (p *Prompt) failure(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#FF6B6B")).String()
}

func (p *Prompt) warning(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#FFEAA7")).Bold().String()
}

func (p *Prompt) println(s string) { fmt.Fprintln(p.out, s) }

func (p *Prompt) printf(format string, args ...any) { fmt.Fprintf(p.out, format, args...) }
