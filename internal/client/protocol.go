package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// The server speaks text frames of the form "command {json}".

// Wire action type codes for outgoing "action" commands.
const (
	wireActionPlay       = 0
	wireActionDiscard    = 1
	wireActionClueColour = 2
	wireActionClueRank   = 3
)

// Wire clue type codes inside incoming game actions.
const (
	wireClueColour = 0
	wireClueRank   = 1
)

// WelcomeMessage is sent once after authenticating.
type WelcomeMessage struct {
	UserID          int    `json:"userID"`
	Username        string `json:"username"`
	PlayingAtTables []int  `json:"playingAtTables"`
}

// TableMessage describes one table in the lobby.
type TableMessage struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Players    []string `json:"players"`
	Running    bool     `json:"running"`
	Variant    string   `json:"variant"`
	NumPlayers int      `json:"numPlayers"`
}

// InitMessage starts a game: seat assignment and options.
type InitMessage struct {
	TableID        int      `json:"tableID"`
	PlayerNames    []string `json:"playerNames"`
	OurPlayerIndex int      `json:"ourPlayerIndex"`
	Replay         bool     `json:"replay"`
	Options        struct {
		VariantName string `json:"variantName"`
		NumPlayers  int    `json:"numPlayers"`
	} `json:"options"`
}

// GameActionMessage wraps one action on a running table.
type GameActionMessage struct {
	TableID int        `json:"tableID"`
	Action  WireAction `json:"action"`
}

// GameActionListMessage replays the full log when joining mid-game.
type GameActionListMessage struct {
	TableID int          `json:"tableID"`
	List    []WireAction `json:"list"`
}

// WireAction is the union of every incoming action shape.
type WireAction struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"playerIndex"`
	Order       int    `json:"order"`
	SuitIndex   int    `json:"suitIndex"`
	Rank        int    `json:"rank"`
	Failed      bool   `json:"failed"`

	Giver  int   `json:"giver"`
	Target int   `json:"target"`
	List   []int `json:"list"`
	Clue   struct {
		Type  int `json:"type"`
		Value int `json:"value"`
	} `json:"clue"`

	Num                int `json:"num"`
	CurrentPlayerIndex int `json:"currentPlayerIndex"`

	// Status fields, informational only.
	Clues int `json:"clues"`
	Score int `json:"score"`
}

// ToAction converts a wire action to the engine's representation.
// Unhandled informational types return ok=false.
func (w WireAction) ToAction() (game.Action, bool) {
	switch w.Type {
	case "draw":
		return game.Action{
			Type:        game.ActionDraw,
			PlayerIndex: w.PlayerIndex,
			Order:       w.Order,
			Suit:        deck.Suit(w.SuitIndex),
			Rank:        deck.Rank(w.Rank),
		}, true
	case "play":
		return game.Action{
			Type:        game.ActionPlay,
			PlayerIndex: w.PlayerIndex,
			Order:       w.Order,
			Suit:        deck.Suit(w.SuitIndex),
			Rank:        deck.Rank(w.Rank),
		}, true
	case "discard":
		return game.Action{
			Type:        game.ActionDiscard,
			PlayerIndex: w.PlayerIndex,
			Order:       w.Order,
			Suit:        deck.Suit(w.SuitIndex),
			Rank:        deck.Rank(w.Rank),
			Failed:      w.Failed,
		}, true
	case "clue":
		clueType := game.ClueColour
		if w.Clue.Type == wireClueRank {
			clueType = game.ClueRank
		}
		return game.Action{
			Type:   game.ActionClue,
			Giver:  w.Giver,
			Target: w.Target,
			List:   w.List,
			Clue:   game.Clue{Type: clueType, Value: w.Clue.Value},
		}, true
	case "turn":
		return game.Action{
			Type:               game.ActionTurn,
			Num:                w.Num,
			CurrentPlayerIndex: w.CurrentPlayerIndex,
		}, true
	case "gameOver":
		return game.Action{Type: game.ActionGameOver}, true
	}
	return game.Action{}, false
}

// PerformToWire converts our decision into the outgoing action command
// payload.
func PerformToWire(tableID int, p game.PerformAction) map[string]any {
	wireType := wireActionPlay
	switch p.Type {
	case game.PerformDiscard:
		wireType = wireActionDiscard
	case game.PerformClueColour:
		wireType = wireActionClueColour
	case game.PerformClueRank:
		wireType = wireActionClueRank
	}
	return map[string]any{
		"tableID": tableID,
		"type":    wireType,
		"target":  p.Target,
		"value":   p.Value,
	}
}

// encodeCommand renders a command frame.
func encodeCommand(command string, payload any) ([]byte, error) {
	if payload == nil {
		return []byte(command), nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", command, err)
	}
	return []byte(command + " " + string(data)), nil
}

// decodeFrame splits a frame into its command and raw payload.
func decodeFrame(frame []byte) (command string, payload json.RawMessage) {
	text := string(frame)
	if i := strings.IndexByte(text, ' '); i != -1 {
		return text[:i], json.RawMessage(text[i+1:])
	}
	return text, nil
}
