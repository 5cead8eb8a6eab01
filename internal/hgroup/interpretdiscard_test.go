package hgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

func TestSarcasticDiscard(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "r1", "g4", "b4", "p4"},
		{"y4", "g3", "r1", "b3", "p3"},
	})
	s := e.State()

	// Both r1 copies are clued; Bob throws his away, handing the
	// identity to Cath's copy.
	for _, o := range []int{slot(1, 1), slot(2, 2)} {
		s.Common.Thoughts[o].Clued = true
		s.Me.Thoughts[o].Clued = true
	}

	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionDiscard, PlayerIndex: 1, Order: slot(1, 1), Suit: 0, Rank: 1,
	}))

	assert.Equal(t, ids("r1"), s.Common.Thoughts[slot(2, 2)].Inferred)
	assert.Equal(t, deck.Rank(1), s.HypoStacks[0])
}

func TestSarcasticDiscardAmbiguousCandidates(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "r1", "g4", "b4", "p4"},
		{"r1", "g3", "r2", "b3", "p3"},
	})
	s := e.State()

	// Two clued cards in Cath's hand could be the r1; the discard pins
	// neither. The identity folds back into both, and no hypothetical
	// progress through the uncertain r1 stands.
	for _, o := range []int{slot(1, 1), slot(2, 0), slot(2, 2)} {
		s.Common.Thoughts[o].Clued = true
	}
	s.Common.Thoughts[slot(2, 0)].Inferred = ids("g3", "b3")

	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionDiscard, PlayerIndex: 1, Order: slot(1, 1), Suit: 0, Rank: 1,
	}))

	r1 := deck.MustParseIdentity("r1")
	assert.True(t, s.Common.Thoughts[slot(2, 0)].Inferred.Has(r1))
	assert.True(t, s.Common.Thoughts[slot(2, 2)].Inferred.Has(r1))
	assert.Greater(t, s.Common.Thoughts[slot(2, 0)].Inferred.Len(), 1)
	assert.Greater(t, s.Common.Thoughts[slot(2, 2)].Inferred.Len(), 1)
	assert.Equal(t, deck.Rank(0), s.HypoStacks[0])
}

func TestPositionalDiscard(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "g4", "y1", "b4", "p4"},
		{"y4", "g3", "r2", "b3", "p3"},
	})
	s := e.State()

	// Deep endgame: the deck is nearly out and the discard comes from
	// slot 3, not the chop.
	s.CardsLeft = 2
	s.PlayStacks[0] = 1 // red
	s.PlayStacks[1] = 1 // yellow

	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionDiscard, PlayerIndex: 1, Order: slot(1, 2), Suit: 1, Rank: 1,
	}))

	// Cath holds the playable r2 in the matching slot.
	target := s.Common.Thoughts[slot(2, 2)]
	assert.True(t, target.Finessed)
	for _, id := range target.Inferred.Identities() {
		assert.True(t, s.IsPlayable(id), "inferred %s should be playable", id)
	}

	require.Len(t, s.WaitingConnections, 1)
	assert.Equal(t, game.ConnPositionalDiscard, s.WaitingConnections[0].Head().Type)
	assert.Equal(t, 2, s.WaitingConnections[0].Target)
}

func TestPositionalDiscardNotReadEarly(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "g4", "y1", "b4", "p4"},
		{"y4", "g3", "r2", "b3", "p3"},
	})
	s := e.State()
	s.PlayStacks[1] = 1

	// Plenty of deck left: the same discard carries no slot message.
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionDiscard, PlayerIndex: 1, Order: slot(1, 2), Suit: 1, Rank: 1,
	}))

	assert.False(t, s.Common.Thoughts[slot(2, 2)].Finessed)
	assert.Empty(t, s.WaitingConnections)
}
