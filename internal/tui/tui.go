// Package tui is the full-screen Bubble Tea front end. It drives a
// session.Session with single key presses.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/session"
)

// Chip values added by the betting keys.
const (
	smallChip = 10
	largeChip = 50
)

// Model is the Bubble Tea model for the blackjack table
type Model struct {
	ledger *ledger.Ledger
	opts   []session.Option
	logger *log.Logger

	session *session.Session
	view    session.View
	bet     int
	status  string
	final   *ledger.Record
	err     error

	// UI components
	nameInput   textinput.Model
	logViewport viewport.Model
	gameLog     []string

	// Dimensions
	width    int
	height   int
	quitting bool
}

// NewModel creates the model. Session options are passed to session.Login
// once the player has entered a name.
func NewModel(l *ledger.Ledger, logger *log.Logger, opts ...session.Option) *Model {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 32
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		ledger:      l,
		opts:        opts,
		logger:      logger.WithPrefix("tui"),
		nameInput:   ti,
		logViewport: vp,
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.session == nil {
			return m.updateLogin(msg)
		}
		return m, m.handleKey(msg.String())
	}

	if m.session == nil {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.quit()
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		s, err := session.Login(m.ledger, name, m.opts...)
		if errors.Is(err, ledger.ErrInvalidName) {
			m.status = err.Error()
			return m, nil
		}
		if err != nil {
			m.err = err
			return m, m.quit()
		}

		m.session = s
		m.status = ""
		m.nameInput.Blur()
		m.refresh(s.View())
		if m.view.NewPlayer {
			m.addLog(fmt.Sprintf("Welcome, new player %s! Your account starts with $%d.", name, m.view.Record.Bankroll))
		} else {
			m.addLog(fmt.Sprintf("Welcome back, %s!", name))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// handleKey maps a key press to a session command for the current phase.
func (m *Model) handleKey(key string) tea.Cmd {
	m.status = ""

	switch m.view.Phase {
	case session.Betting:
		switch key {
		case "1":
			m.bet += smallChip
		case "5":
			m.bet += largeChip
		case "r":
			m.bet = 0
		case "d", "enter":
			m.apply(session.Bet{Amount: m.bet})
		case "q", "esc":
			m.apply(session.Quit{})
		}
	case session.Playing:
		switch key {
		case "h":
			m.apply(session.Hit{})
		case "s":
			m.apply(session.Stand{})
		}
	case session.Result:
		switch key {
		case "n", "enter":
			m.apply(session.Restart{})
		case "q", "esc":
			m.apply(session.Quit{})
		}
	}

	if m.err != nil || m.view.Phase == session.Closed {
		return m.quit()
	}
	return nil
}

func (m *Model) apply(cmd session.Command) {
	v, err := m.session.Apply(cmd)

	var ibe *session.InvalidBetError
	switch {
	case errors.As(err, &ibe):
		m.status = ibe.Error()
		return
	case errors.Is(err, session.ErrCommandNotAllowed):
		m.status = err.Error()
		return
	case err != nil:
		m.logger.Error("Session failed", "error", err)
		m.err = err
		return
	}

	prev := m.view.Phase
	m.refresh(v)
	m.narrate(prev, cmd)
}

func (m *Model) refresh(v session.View) {
	m.view = v
	if v.Subsidised {
		m.addLog(WarningStyle.Render(fmt.Sprintf("You lost everything, here is $%d to keep going", ledger.Subsidy)))
	}
	for _, w := range v.Warnings {
		m.addLog(WarningStyle.Render("[!] " + w))
	}
	if v.Phase == session.Betting {
		m.bet = 0
	}
}

// narrate adds the log lines describing what cmd just did.
func (m *Model) narrate(prev session.Phase, cmd session.Command) {
	v := m.view
	switch c := cmd.(type) {
	case session.Bet:
		m.addLog(fmt.Sprintf("Round %s: bet $%d", v.RoundID, c.Amount))
	case session.Hit:
		cards := v.Round.PlayerCards
		m.addLog("You drew " + formatCard(cards[len(cards)-1]))
	case session.Stand:
		m.addLog(fmt.Sprintf("You stand on %d", v.Round.PlayerScore))
	}

	if v.Phase == session.Result && prev != session.Result {
		m.addLog(outcomeLine(v))
	}
}

func outcomeLine(v session.View) string {
	bankroll := v.Record.Bankroll
	switch v.Outcome {
	case game.BlackjackWin:
		return SuccessStyle.Render(fmt.Sprintf("Blackjack! Won $%d, bankroll $%d", v.Delta, bankroll))
	case game.Win:
		return SuccessStyle.Render(fmt.Sprintf("You win! Won $%d, bankroll $%d", v.Delta, bankroll))
	case game.Loss:
		if v.Round.PlayerScore > game.Blackjack {
			return ErrorStyle.Render(fmt.Sprintf("Bust! Lost $%d, bankroll $%d", -v.Delta, bankroll))
		}
		return ErrorStyle.Render(fmt.Sprintf("You lose! Lost $%d, bankroll $%d", -v.Delta, bankroll))
	default:
		return WarningStyle.Render(fmt.Sprintf("Push. Bankroll $%d", bankroll))
	}
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.session != nil && m.final == nil {
		rec := m.session.End()
		m.final = &rec
	}
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// Final returns the player's record after the session ended, if one was
// opened.
func (m *Model) Final() (ledger.Record, bool) {
	if m.final == nil {
		return ledger.Record{}, false
	}
	return *m.final, true
}

// Err returns the error that ended the session early, if any.
func (m *Model) Err() error { return m.err }

// Phase returns the session phase, or Betting before login.
func (m *Model) Phase() session.Phase { return m.view.Phase }

// Bet returns the bet being built with the chip keys.
func (m *Model) Bet() int { return m.bet }

// Status returns the last validation message shown to the player.
func (m *Model) Status() string { return m.status }

// Log returns the game log lines.
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.session == nil {
		return m.renderLogin()
	}

	table := m.renderTable()
	sidebar := m.renderSidebar()
	actions := m.renderActions()

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1))
	actionPane := actionStyle.Render(actions)

	sidebarWidth := max(lipgloss.Width(sidebar), 25)
	topHeight := max(m.height-lipgloss.Height(actionPane)-2, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(topHeight).
		Render(sidebar)

	mainWidth := max(m.width-sidebarWidth-4, 1)
	tableHeight := lipgloss.Height(table)
	m.logViewport.Width = mainWidth
	m.logViewport.Height = max(topHeight-tableHeight-1, 1)
	m.logViewport.GotoBottom()

	mainPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(mainWidth).
		Height(topHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, table, "", m.logViewport.View()))

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, mainPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Blackjack"))
	b.WriteString("\n\nEnter your name to sit down:\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + InfoStyle.Render("Enter to continue • Esc to quit"))
	return b.String()
}

// renderTable renders both hands. The dealer's hole card stays face down
// while the player is acting.
func (m *Model) renderTable() string {
	r := m.view.Round
	if r == nil {
		return HandInfoStyle.Render("Place your bet")
	}

	dealer := formatCards(r.DealerCards)
	if r.DealerHidden {
		dealer += " " + HiddenCardStyle.Render("??")
	}

	var b strings.Builder
	b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Dealer (%d)", r.DealerScore)))
	b.WriteString("\n" + dealer + "\n\n")
	b.WriteString(HandInfoStyle.Render(fmt.Sprintf("You (%d)", r.PlayerScore)))
	b.WriteString("\n" + formatCards(r.PlayerCards))
	return b.String()
}

func (m *Model) renderSidebar() string {
	rec := m.view.Record
	var b strings.Builder
	b.WriteString(PlayerInfoStyle.Render(rec.Name) + "\n\n")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Bankroll: $%d", rec.Bankroll)) + "\n")
	b.WriteString(fmt.Sprintf("Rounds: %d\n", rec.Total))
	b.WriteString(fmt.Sprintf("Wins: %d\n", rec.Wins))
	b.WriteString(fmt.Sprintf("Win rate: %s\n", rec.WinRateString()))
	if m.view.Round != nil {
		b.WriteString("\n" + WarningStyle.Render(fmt.Sprintf("Bet: $%d", m.view.Round.Bet)))
	}
	return b.String()
}

func (m *Model) renderActions() string {
	var b strings.Builder
	switch m.view.Phase {
	case session.Betting:
		b.WriteString(ActionsStyle.Render(fmt.Sprintf("Bet: $%d", m.bet)))
		b.WriteString("\n" + InfoStyle.Render("1 +$10 • 5 +$50 • r reset • d/Enter deal • q quit"))
	case session.Playing:
		b.WriteString(ActionsStyle.Render("[h]it  [s]tand"))
	case session.Result:
		b.WriteString(outcomeLine(m.view))
		b.WriteString("\n" + InfoStyle.Render("n/Enter next round • q quit"))
	}
	if m.status != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.status))
	}
	return b.String()
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = formatCard(card)
	}
	return strings.Join(formatted, " ")
}

func formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}
