package game

import (
	"fmt"

	"github.com/lox/hanabforbots/internal/deck"
)

// ActionType tags an entry in the action log.
type ActionType string

const (
	ActionClue     ActionType = "clue"
	ActionDiscard  ActionType = "discard"
	ActionDraw     ActionType = "draw"
	ActionPlay     ActionType = "play"
	ActionTurn     ActionType = "turn"
	ActionGameOver ActionType = "gameOver"
	// ActionIdentify is a pseudo-action injected by the rewind
	// controller to pin a card's true identity before replaying.
	ActionIdentify ActionType = "identify"
	// ActionIgnore marks a card that must not be used as a connecting
	// card when reinterpreting the following clue.
	ActionIgnore ActionType = "ignore"
)

// ClueType distinguishes colour clues from rank clues.
type ClueType int

const (
	ClueColour ClueType = iota
	ClueRank
)

// Clue is a colour or rank hint. Value is a suit index for colour
// clues and a rank for rank clues.
type Clue struct {
	Type  ClueType `json:"type"`
	Value int      `json:"value"`
}

func (c Clue) String() string {
	if c.Type == ClueColour {
		return fmt.Sprintf("colour %d", c.Value)
	}
	return fmt.Sprintf("rank %d", c.Value)
}

// Touches reports whether the clue touches a card of the given identity.
func (c Clue) Touches(id deck.Identity) bool {
	if c.Type == ClueColour {
		return int(id.Suit) == c.Value
	}
	return int(id.Rank) == c.Value
}

// Action is one entry of the append-only public action log.
type Action struct {
	Type ActionType `json:"type"`

	// Clue fields.
	Giver  int   `json:"giver,omitempty"`
	Target int   `json:"target,omitempty"`
	Clue   Clue  `json:"clue,omitempty"`
	List   []int `json:"list,omitempty"`

	// Card fields (draw/play/discard/identify/ignore).
	PlayerIndex int       `json:"playerIndex,omitempty"`
	Order       int       `json:"order,omitempty"`
	Suit        deck.Suit `json:"suitIndex"`
	Rank        deck.Rank `json:"rank"`
	Failed      bool      `json:"failed,omitempty"`

	// Turn fields.
	Num                int `json:"num,omitempty"`
	CurrentPlayerIndex int `json:"currentPlayerIndex,omitempty"`

	// Mistake marks a clue as a known protocol exception: no inference
	// is drawn from it beyond direct elimination.
	Mistake bool `json:"-"`
}

// Identity returns the revealed identity carried by a card action.
func (a Action) Identity() (deck.Identity, bool) {
	id := deck.Identity{Suit: a.Suit, Rank: a.Rank}
	return id, id.Valid()
}

// PerformType is the abstract action vocabulary the bot can emit.
type PerformType int

const (
	PerformPlay PerformType = iota
	PerformDiscard
	PerformClueColour
	PerformClueRank
)

func (t PerformType) String() string {
	switch t {
	case PerformPlay:
		return "play"
	case PerformDiscard:
		return "discard"
	case PerformClueColour:
		return "clue-colour"
	case PerformClueRank:
		return "clue-rank"
	default:
		return "unknown"
	}
}

// PerformAction is handed to the external command relay. Target is a
// card order for play/discard and a player index for clues.
type PerformAction struct {
	Type   PerformType `json:"type"`
	Target int         `json:"target"`
	Value  int         `json:"value,omitempty"`
}

// ClueToPerform converts a clue to a player into a PerformAction.
func ClueToPerform(clue Clue, target int) PerformAction {
	t := PerformClueColour
	if clue.Type == ClueRank {
		t = PerformClueRank
	}
	return PerformAction{Type: t, Target: target, Value: clue.Value}
}
