package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		command string
		payload string
	}{
		{
			name:    "command with payload",
			frame:   `welcome {"userID":1,"username":"bot"}`,
			command: "welcome",
			payload: `{"userID":1,"username":"bot"}`,
		},
		{
			name:    "bare command",
			frame:   "loaded",
			command: "loaded",
		},
		{
			name:    "payload with spaces",
			frame:   `chat {"msg":"hello there"}`,
			command: "chat",
			payload: `{"msg":"hello there"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			command, payload := decodeFrame([]byte(tc.frame))
			assert.Equal(t, tc.command, command)
			assert.Equal(t, tc.payload, string(payload))
		})
	}
}

func TestEncodeCommand(t *testing.T) {
	frame, err := encodeCommand("getGameInfo1", map[string]any{"tableID": 42})
	require.NoError(t, err)
	assert.Equal(t, `getGameInfo1 {"tableID":42}`, string(frame))

	frame, err = encodeCommand("loaded", nil)
	require.NoError(t, err)
	assert.Equal(t, "loaded", string(frame))
}

func TestWireActionToAction(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected game.Action
		skip     bool
	}{
		{
			name: "draw",
			raw:  `{"type":"draw","playerIndex":1,"order":7,"suitIndex":2,"rank":3}`,
			expected: game.Action{
				Type: game.ActionDraw, PlayerIndex: 1, Order: 7, Suit: 2, Rank: 3,
			},
		},
		{
			name: "play",
			raw:  `{"type":"play","playerIndex":0,"order":4,"suitIndex":0,"rank":1}`,
			expected: game.Action{
				Type: game.ActionPlay, PlayerIndex: 0, Order: 4, Suit: 0, Rank: 1,
			},
		},
		{
			name: "failed discard",
			raw:  `{"type":"discard","playerIndex":2,"order":11,"suitIndex":4,"rank":2,"failed":true}`,
			expected: game.Action{
				Type: game.ActionDiscard, PlayerIndex: 2, Order: 11, Suit: 4, Rank: 2, Failed: true,
			},
		},
		{
			name: "colour clue",
			raw:  `{"type":"clue","giver":0,"target":1,"list":[7,9],"clue":{"type":0,"value":2}}`,
			expected: game.Action{
				Type: game.ActionClue, Giver: 0, Target: 1, List: []int{7, 9},
				Clue: game.Clue{Type: game.ClueColour, Value: 2},
			},
		},
		{
			name: "rank clue",
			raw:  `{"type":"clue","giver":1,"target":0,"list":[3],"clue":{"type":1,"value":5}}`,
			expected: game.Action{
				Type: game.ActionClue, Giver: 1, Target: 0, List: []int{3},
				Clue: game.Clue{Type: game.ClueRank, Value: 5},
			},
		},
		{
			name: "turn",
			raw:  `{"type":"turn","num":12,"currentPlayerIndex":2}`,
			expected: game.Action{
				Type: game.ActionTurn, Num: 12, CurrentPlayerIndex: 2,
			},
		},
		{
			name: "status is informational",
			raw:  `{"type":"status","clues":6,"score":3}`,
			skip: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var w WireAction
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &w))
			action, ok := w.ToAction()
			if tc.skip {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.expected, action)
		})
	}
}

func TestPerformToWire(t *testing.T) {
	payload := PerformToWire(42, game.PerformAction{Type: game.PerformPlay, Target: 9})
	assert.Equal(t, 42, payload["tableID"])
	assert.Equal(t, wireActionPlay, payload["type"])
	assert.Equal(t, 9, payload["target"])

	payload = PerformToWire(42, game.PerformAction{
		Type: game.PerformClueRank, Target: 1, Value: 5,
	})
	assert.Equal(t, wireActionClueRank, payload["type"])
	assert.Equal(t, 1, payload["target"])
	assert.Equal(t, 5, payload["value"])
}

func TestNoteFor(t *testing.T) {
	s := game.NewState([]string{"Alice", "Bob"}, 0, deck.NoVariant())
	s.Draw(game.Action{Type: game.ActionDraw, PlayerIndex: 0, Order: 0,
		Suit: deck.UnknownSuit, Rank: deck.UnknownRank})

	// An untouched unknown card carries no note.
	assert.Equal(t, "", noteFor(s, 0))

	th := s.Common.Thoughts[0]
	th.Clued = true
	th.Inferred = deck.NewIdentitySet(
		deck.MustParseIdentity("r1"), deck.MustParseIdentity("r2"))
	assert.Equal(t, "r1|r2", noteFor(s, 0))

	th.Finessed = true
	assert.Equal(t, "r1|r2 [f]", noteFor(s, 0))

	// Known trash gets the kt flag.
	th.Possible = deck.NewIdentitySet(deck.MustParseIdentity("r1"))
	s.PlayStacks[0] = 1
	assert.Equal(t, "r1 [f,kt]", noteFor(s, 0))
}
