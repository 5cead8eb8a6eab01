package hgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// A clue we cannot otherwise explain is read as a finesse through our
// own hand. When the blind play then reveals a different card, the
// whole log is replayed with the true identity known from the start.
func TestSelfFinesseContradictionRewinds(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "g4", "b4", "p4", "g2"},
		{"r2", "y4", "g3", "b3", "p3"},
	})

	// Bob clues red to Cath's r2. No one visible holds r1, so the
	// common view assumes it sits on our finesse slot.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  1,
		Target: 2,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(2, 0)},
	}))

	s := e.State()
	ours := s.Common.Thoughts[slot(0, 0)]
	require.True(t, ours.Finessed)
	require.Equal(t, ids("r1"), ours.Inferred)
	require.Equal(t, ids("r2"), s.Common.Thoughts[slot(2, 0)].Inferred)
	require.Len(t, s.WaitingConnections, 1)

	// The blind play turns out to be b1, contradicting the r1 belief.
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionPlay, PlayerIndex: 0, Order: slot(0, 0), Suit: 3, Rank: 1,
	}))

	s = e.State()
	me := s.Me.Thoughts[slot(0, 0)]
	id, ok := me.Possible.Single()
	require.True(t, ok)
	assert.Equal(t, deck.MustParseIdentity("b1"), id)
	assert.True(t, me.Rewinded)
	assert.True(t, s.Common.Thoughts[slot(0, 0)].Rewinded)

	// The play itself still happened.
	assert.Equal(t, deck.Rank(1), s.PlayStacks[3])

	// With our card known to be b1, the finesse no longer exists: the
	// focus reverts to the plain colour reading.
	assert.Equal(t, ids("r1", "r2", "r3", "r4", "r5"), s.Common.Thoughts[slot(2, 0)].Inferred)
	assert.Empty(t, s.WaitingConnections)
}

func TestExpectedPlayDoesNotRewind(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y2", "g3", "b4", "p5"},
		{"y3", "y4", "g2", "b2", "p2"},
	})

	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 1,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(1, 0)},
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionPlay, PlayerIndex: 1, Order: slot(1, 0), Suit: 0, Rank: 1,
	}))

	s := e.State()
	assert.False(t, s.Common.Thoughts[slot(1, 0)].Rewinded)
	assert.Equal(t, deck.Rank(1), s.PlayStacks[0])
}

func TestReplayIsDeterministic(t *testing.T) {
	script := []game.Action{
		// Red to Cath's r2 reads as a finesse on our newest slot; the
		// blind play reveals b1 and forces a replay of the log.
		{Type: game.ActionClue, Giver: 1, Target: 2,
			Clue: game.Clue{Type: game.ClueColour, Value: 0},
			List: []int{slot(2, 0)}},
		{Type: game.ActionPlay, PlayerIndex: 0, Order: slot(0, 0), Suit: 3, Rank: 1},
	}
	run := func() *game.State {
		e := newTestGame(t, DefaultOptions(), 0, [][]string{
			{"xx", "xx", "xx", "xx", "xx"},
			{"y3", "g4", "b4", "p4", "g2"},
			{"r2", "y4", "g3", "b3", "p3"},
		})
		for _, a := range script {
			require.NoError(t, e.HandleAction(a))
		}
		return e.State()
	}

	// Replaying the same actions from the same deal must land on the
	// same beliefs card for card.
	first, second := run(), run()
	require.Equal(t, len(first.Common.Thoughts), len(second.Common.Thoughts))
	for order, ft := range first.Common.Thoughts {
		st := second.Common.Thoughts[order]
		require.NotNil(t, st, "order %d", order)
		assert.Equal(t, ft.Inferred, st.Inferred, "common inferred, order %d", order)
		assert.Equal(t, ft.Possible, st.Possible, "common possible, order %d", order)
		assert.Equal(t, ft.Finessed, st.Finessed, "finessed, order %d", order)
	}
	for order, ft := range first.Me.Thoughts {
		st := second.Me.Thoughts[order]
		require.NotNil(t, st, "order %d", order)
		assert.Equal(t, ft.Inferred, st.Inferred, "own inferred, order %d", order)
		assert.Equal(t, ft.Possible, st.Possible, "own possible, order %d", order)
	}
	assert.Equal(t, first.WaitingConnections, second.WaitingConnections)
	assert.Equal(t, first.HypoStacks, second.HypoStacks)
}
