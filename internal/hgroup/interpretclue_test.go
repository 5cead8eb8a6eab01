package hgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

func ids(names ...string) deck.IdentitySet {
	var set deck.IdentitySet
	for _, n := range names {
		set = set.Add(deck.MustParseIdentity(n))
	}
	return set
}

func TestInterpretClueDirectPlay(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y2", "g3", "b4", "p5"},
		{"y3", "y4", "g2", "b2", "p2"},
	})

	// Red to Bob touches only the r1 on his newest slot.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 1,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(1, 0)},
	}))

	s := e.State()
	focus := s.Common.Thoughts[slot(1, 0)]
	assert.True(t, focus.Clued)
	assert.Equal(t, ids("r1"), focus.Inferred)
	assert.Equal(t, deck.Rank(1), s.HypoStacks[0])
	assert.Empty(t, s.WaitingConnections)
}

func TestInterpretClueFiveSave(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r2", "y3", "g4", "b2", "p5"},
		{"y4", "g3", "b3", "p3", "r4"},
	})

	// Rank 5 on Bob's chop. Nothing is playable, so this reads as a
	// save: the card could be any unseen five.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 1,
		Clue:   game.Clue{Type: game.ClueRank, Value: 5},
		List:   []int{slot(1, 4)},
	}))

	s := e.State()
	focus := s.Common.Thoughts[slot(1, 4)]
	assert.Equal(t, ids("r5", "y5", "g5", "b5", "p5"), focus.Inferred)
	// A save promises nothing about playability.
	assert.Empty(t, s.WaitingConnections)
	assert.Equal(t, deck.Rank(0), s.HypoStacks[4])
}

func TestInterpretClueTwoSaveExcludesVisibleCopy(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r3", "y4", "g3", "p3", "b2"},
		{"y2", "y3", "g4", "b3", "p4"},
	})

	// Rank 2 on Bob's chop. Cath's visible y2 rules the yellow copy
	// out of the save read.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 1,
		Clue:   game.Clue{Type: game.ClueRank, Value: 2},
		List:   []int{slot(1, 4)},
	}))

	s := e.State()
	focus := s.Common.Thoughts[slot(1, 4)]
	assert.Equal(t, ids("r2", "g2", "b2", "p2"), focus.Inferred)
}

func TestInterpretClueFinesse(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y3", "g4", "b4", "p4"},
		{"r2", "y4", "g3", "b3", "p3"},
	})
	s := e.State()

	// Red to Cath focuses her r2. Bob holds r1 on his finesse slot, so
	// the table reads either a direct r1 or a finessed r2.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 2,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(2, 0)},
	}))

	focus := s.Common.Thoughts[slot(2, 0)]
	assert.Equal(t, ids("r1", "r2"), focus.Inferred)

	blind := s.Common.Thoughts[slot(1, 0)]
	assert.True(t, blind.Finessed)
	assert.Equal(t, ids("r1"), blind.Inferred)

	require.Len(t, s.WaitingConnections, 1)
	wc := s.WaitingConnections[0]
	assert.Equal(t, deck.MustParseIdentity("r2"), wc.Inference)
	assert.Equal(t, game.ConnFinesse, wc.Head().Type)
	assert.Equal(t, 1, wc.Head().Reacting)

	// The finessed singleton counts towards the hypo stacks; the focus
	// superposition does not.
	assert.Equal(t, deck.Rank(1), s.HypoStacks[0])
}

func TestFinesseDemonstration(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y3", "g4", "b4", "p4"},
		{"r2", "y4", "g3", "b3", "p3"},
	})

	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 2,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(2, 0)},
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionTurn, Num: 1, CurrentPlayerIndex: 1,
	}))

	// Bob blind plays into the finesse.
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionPlay, PlayerIndex: 1, Order: slot(1, 0), Suit: 0, Rank: 1,
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionTurn, Num: 2, CurrentPlayerIndex: 2,
	}))

	s := e.State()
	assert.Empty(t, s.WaitingConnections)
	// The blind play proves the finesse reading; the focus collapses.
	assert.Equal(t, ids("r2"), s.Common.Thoughts[slot(2, 0)].Inferred)
	assert.Equal(t, deck.Rank(2), s.HypoStacks[0])
}

func TestFinesseFalsifiedByStall(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y3", "g4", "b4", "p4"},
		{"r2", "y4", "g3", "b3", "p3"},
	})

	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 2,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(2, 0)},
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionTurn, Num: 1, CurrentPlayerIndex: 1,
	}))

	// Bob discards instead of blind playing; the finesse reading dies
	// and the clue is reinterpreted with Bob's slot ignored.
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionDiscard, PlayerIndex: 1, Order: slot(1, 4), Suit: 4, Rank: 4,
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionTurn, Num: 2, CurrentPlayerIndex: 2,
	}))

	s := e.State()
	blind := s.Common.Thoughts[slot(1, 0)]
	assert.False(t, blind.Finessed)
	assert.Greater(t, blind.Inferred.Len(), 1)
	// We gave the clue ourselves, so no self finesse can absorb the
	// reinterpretation: the focus falls back to the touched colours.
	assert.Equal(t, ids("r1", "r2", "r3", "r4", "r5"), s.Common.Thoughts[slot(2, 0)].Inferred)
	assert.Empty(t, s.WaitingConnections)
}

func TestFinesseBlockedByGiverDuplicate(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r2", "y3", "g4", "b4", "p4"},
		{"r3", "y4", "g3", "b3", "p3"},
	})
	s := e.State()

	// Bob touches two of our cards with red: the newest settles as r1
	// and the older one keeps the remaining red ranks.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  1,
		Target: 0,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(0, 0), slot(0, 1)},
	}))
	require.Equal(t, ids("r1"), s.Common.Thoughts[slot(0, 0)].Inferred)

	// We clue red to Cath's r3. The r2 it needs sits on Bob's finesse
	// slot, but our own second red card could just as well be that r2,
	// so no finesse on Bob may be read.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 2,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(2, 0)},
	}))

	assert.False(t, s.Common.Thoughts[slot(1, 0)].Finessed)
	assert.Empty(t, s.WaitingConnections)
}

func TestInterpretClueBluff(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"b1", "y3", "g4", "b4", "p4"},
		{"r3", "r1", "g3", "b3", "p3"},
	})
	s := e.State()

	// Cath opens the red stack.
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionPlay, PlayerIndex: 2, Order: slot(2, 1), Suit: 0, Rank: 1,
	}))

	// Red to Cath's r3 sits one away, with Bob's untouched b1 in
	// finesse position. The next player blind plays whatever is there
	// and the chain must stop at that first card.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 2,
		Clue:   game.Clue{Type: game.ClueColour, Value: 0},
		List:   []int{slot(2, 0)},
	}))

	blind := s.Common.Thoughts[slot(1, 0)]
	assert.True(t, blind.Finessed)
	assert.True(t, blind.Bluffed)
	assert.True(t, blind.Inferred.Has(deck.MustParseIdentity("b1")))
	assert.Equal(t, ids("r2", "r3"), s.Common.Thoughts[slot(2, 0)].Inferred)
	require.Len(t, s.WaitingConnections, 1)
	assert.Equal(t, deck.MustParseIdentity("r3"), s.WaitingConnections[0].Inference)

	// Bob blind plays the b1 and the focus settles on the true rank.
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionTurn, Num: 1, CurrentPlayerIndex: 1,
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionPlay, PlayerIndex: 1, Order: slot(1, 0), Suit: 3, Rank: 1,
	}))
	require.NoError(t, e.HandleAction(game.Action{
		Type: game.ActionTurn, Num: 2, CurrentPlayerIndex: 2,
	}))

	assert.Empty(t, s.WaitingConnections)
	assert.Equal(t, ids("r3"), s.Common.Thoughts[slot(2, 0)].Inferred)
}

func TestTrashClueChopMoves(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"g3", "y1", "b4", "p4", "r4"},
	})
	s := e.State()
	for suit := range s.PlayStacks {
		s.PlayStacks[suit] = 1
	}

	// Rank 1 touches only a card that every stack has outgrown. The
	// clue calls the touched card to be discarded and protects
	// everything behind it.
	require.NoError(t, e.HandleAction(game.Action{
		Type:   game.ActionClue,
		Giver:  0,
		Target: 1,
		Clue:   game.Clue{Type: game.ClueRank, Value: 1},
		List:   []int{slot(1, 1)},
	}))

	assert.True(t, s.Common.Thoughts[slot(1, 1)].CalledToDiscard)
	for _, i := range []int{2, 3, 4} {
		assert.True(t, s.Common.Thoughts[slot(1, i)].ChopMoved, "slot %d", i)
	}
	assert.False(t, s.Common.Thoughts[slot(1, 0)].ChopMoved)
	assert.Equal(t, 0, chopIndex(s.Common, s.Hands[1]))
	assert.Empty(t, s.WaitingConnections)
}
