// Package display renders game state for the terminal: a static
// snapshot renderer used by the replay command and a live TUI used in
// watch mode.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

var suitColours = []string{"1", "3", "2", "4", "5", "6"}

// Styles holds the lipgloss styles used by both renderers.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Card    lipgloss.Style
	Chop    lipgloss.Style
	Touched lipgloss.Style
	Panel   lipgloss.Style
}

// DefaultStyles builds styles appropriate for the terminal's colour
// profile.
func DefaultStyles() *Styles {
	plain := termenv.ColorProfile() == termenv.Ascii
	header := lipgloss.NewStyle().Bold(true)
	if plain {
		return &Styles{
			Header:  header,
			Label:   lipgloss.NewStyle(),
			Card:    lipgloss.NewStyle(),
			Chop:    lipgloss.NewStyle(),
			Touched: lipgloss.NewStyle(),
			Panel:   lipgloss.NewStyle().Padding(0, 1),
		}
	}
	return &Styles{
		Header:  header.Foreground(lipgloss.Color("14")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Card:    lipgloss.NewStyle(),
		Chop:    lipgloss.NewStyle().Underline(true),
		Touched: lipgloss.NewStyle().Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}

func (st *Styles) card(id deck.Identity, known bool) string {
	text := "??"
	if known {
		text = id.String()
	}
	style := st.Card
	if known && int(id.Suit) < len(suitColours) {
		style = style.Foreground(lipgloss.Color(suitColours[id.Suit]))
	}
	return style.Render(text)
}

// RenderState draws a full snapshot of the table: stacks, tokens, every
// hand with belief annotations, and the discard pile.
func RenderState(s *game.State, styles *Styles) string {
	if styles == nil {
		styles = DefaultStyles()
	}
	var b strings.Builder

	b.WriteString(styles.Header.Render(fmt.Sprintf("Turn %d", s.TurnCount)))
	b.WriteString(styles.Label.Render(fmt.Sprintf("  score %d/%d  clues %d  strikes %d  deck %d",
		s.Score(), s.Variant.MaxScore(), s.ClueTokens, s.Strikes, s.CardsLeft)))
	if s.EndgameTurns >= 0 {
		b.WriteString(styles.Label.Render(fmt.Sprintf("  final round %d", s.EndgameTurns)))
	}
	b.WriteByte('\n')

	stacks := make([]string, 0, s.Variant.NumSuits())
	for suit, rank := range s.PlayStacks {
		id := deck.Identity{Suit: deck.Suit(suit), Rank: rank}
		if rank == 0 {
			stacks = append(stacks, styles.Label.Render(fmt.Sprintf("%s0", s.Variant.Suits[suit][:1])))
			continue
		}
		stacks = append(stacks, styles.card(id, true))
	}
	b.WriteString("stacks: " + strings.Join(stacks, " ") + "\n")

	for playerIndex, hand := range s.Hands {
		name := s.PlayerNames[playerIndex]
		marker := "  "
		if playerIndex == s.CurrentPlayer && s.InProgress {
			marker = "> "
		}
		cards := make([]string, 0, len(hand))
		for _, c := range hand {
			id, known := c.Identity()
			text := styles.card(id, known)
			if t := s.Common.Thoughts[c.Order]; t != nil && t.Touched() {
				text = styles.Touched.Render(text)
			}
			cards = append(cards, text)
		}
		line := fmt.Sprintf("%s%-10s %s", marker, name, strings.Join(cards, " "))
		if playerIndex == s.OurPlayerIndex {
			line += styles.Label.Render("  (us)")
		}
		b.WriteString(line + "\n")
	}

	var discards []string
	for suit, ranks := range s.DiscardStacks {
		for ri, n := range ranks {
			for i := 0; i < n; i++ {
				discards = append(discards, styles.card(deck.Identity{
					Suit: deck.Suit(suit), Rank: deck.Rank(ri + 1),
				}, true))
			}
		}
	}
	if len(discards) > 0 {
		b.WriteString(styles.Label.Render("discards: ") + strings.Join(discards, " ") + "\n")
	}

	return styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// DescribeAction renders one log line for an action.
func DescribeAction(s *game.State, a game.Action) string {
	name := func(i int) string {
		if i >= 0 && i < len(s.PlayerNames) {
			return s.PlayerNames[i]
		}
		return fmt.Sprintf("player %d", i)
	}
	switch a.Type {
	case game.ActionClue:
		return fmt.Sprintf("%s clues %s to %s (%d cards)",
			name(a.Giver), a.Clue, name(a.Target), len(a.List))
	case game.ActionPlay:
		id, _ := a.Identity()
		return fmt.Sprintf("%s plays %s", name(a.PlayerIndex), id)
	case game.ActionDiscard:
		id, _ := a.Identity()
		if a.Failed {
			return fmt.Sprintf("%s bombs %s", name(a.PlayerIndex), id)
		}
		return fmt.Sprintf("%s discards %s", name(a.PlayerIndex), id)
	case game.ActionDraw:
		return fmt.Sprintf("%s draws a card", name(a.PlayerIndex))
	case game.ActionGameOver:
		return fmt.Sprintf("game over, score %d/%d", s.Score(), s.Variant.MaxScore())
	}
	return ""
}
