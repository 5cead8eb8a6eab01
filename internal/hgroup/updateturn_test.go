package hgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

func waitingFinesse(s *game.State, reacting, order, focusOrder int, id, inference deck.Identity) {
	s.Common.Thoughts[order].Finessed = true
	s.WaitingConnections = append(s.WaitingConnections, game.WaitingConnection{
		Connections: []game.Connection{{
			Type:       game.ConnFinesse,
			Reacting:   reacting,
			Order:      order,
			Identities: []deck.Identity{id},
		}},
		FocusOrder:  focusOrder,
		Inference:   inference,
		Giver:       2,
		Target:      2,
		ActionIndex: len(s.Actions) - 1,
		Symmetric:   true,
	})
}

func TestFinesseWaitsWhileUnplayable(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r2", "y3", "g4", "b4", "p4"},
		{"r3", "y4", "g3", "b3", "p3"},
	})
	s := e.State()

	// The chain waits on Bob's blind r2 while the r1 has not come down
	// yet. Bob discarding says nothing about a card he cannot play.
	waitingFinesse(s, 1, slot(1, 0), slot(2, 0),
		deck.MustParseIdentity("r2"), deck.MustParseIdentity("r3"))

	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionDiscard, PlayerIndex: 1, Order: slot(1, 4), Suit: 4, Rank: 4,
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionTurn, Num: 1, CurrentPlayerIndex: 2,
	}))

	require.Len(t, s.WaitingConnections, 1)
	assert.True(t, s.Common.Thoughts[slot(1, 0)].Finessed)
}

func TestFinesseFalsifiedByUnrelatedPlay(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y1", "g4", "b4", "p4"},
		{"r2", "y4", "g3", "b3", "p3"},
	})
	s := e.State()

	// The blind r1 is playable right now. Bob playing an ordinary card
	// instead kills the read.
	waitingFinesse(s, 1, slot(1, 0), slot(2, 0),
		deck.MustParseIdentity("r1"), deck.MustParseIdentity("r2"))

	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionPlay, PlayerIndex: 1, Order: slot(1, 1), Suit: 1, Rank: 1,
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionTurn, Num: 1, CurrentPlayerIndex: 2,
	}))

	assert.Empty(t, s.WaitingConnections)
	assert.False(t, s.Common.Thoughts[slot(1, 0)].Finessed)
}
