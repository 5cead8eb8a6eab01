package hgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/hanabforbots/internal/game"
)

func newHGroup() *HGroup {
	return New(DefaultOptions(), testLogger())
}

func TestTakeActionPlaysKnownCard(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "g4", "b4", "p4", "y4"},
		{"g3", "b3", "p3", "r4", "r3"},
	})
	s := e.State()

	// Our newest card is known to be r1.
	for _, v := range []*game.View{s.Common, s.Me} {
		th := v.Thoughts[slot(0, 0)]
		th.Clued = true
		th.Inferred = ids("r1")
	}

	action := newHGroup().TakeAction(s)
	assert.Equal(t, game.PerformPlay, action.Type)
	assert.Equal(t, slot(0, 0), action.Target)
}

func TestTakeActionBlindPlayBeforeCluedPlay(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "g4", "b4", "p4", "y4"},
		{"g3", "b3", "p3", "r4", "r3"},
	})
	s := e.State()

	clued := s.Me.Thoughts[slot(0, 2)]
	clued.Clued = true
	clued.Inferred = ids("r1")
	s.Common.Thoughts[slot(0, 2)].Clued = true

	blind := s.Me.Thoughts[slot(0, 0)]
	blind.Finessed = true
	blind.FinesseIndex = 3
	blind.Inferred = ids("y1")
	s.Common.Thoughts[slot(0, 0)].Finessed = true

	action := newHGroup().TakeAction(s)
	assert.Equal(t, game.PerformPlay, action.Type)
	assert.Equal(t, slot(0, 0), action.Target)
}

func TestTakeActionSavesCriticalChop(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "g4", "b4", "p4", "r5"},
		{"g3", "b3", "p3", "r4", "y4"},
	})
	s := e.State()

	// Bob's chop is the only r5 and he has nothing else to do.
	action := newHGroup().TakeAction(s)
	assert.Contains(t,
		[]game.PerformType{game.PerformClueColour, game.PerformClueRank}, action.Type)
	assert.Equal(t, 1, action.Target)
}

func TestTakeActionDiscardsChopWhenNothingToDo(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "g4", "b4", "p4", "y4"},
		{"g3", "b3", "p3", "r4", "r3"},
	})
	s := e.State()
	s.ClueTokens = 0

	action := newHGroup().TakeAction(s)
	assert.Equal(t, game.PerformDiscard, action.Type)
	assert.Equal(t, slot(0, 4), action.Target)
}

func TestTakeActionDiscardsCalledCard(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"y3", "g4", "b4", "p4", "y4"},
		{"g3", "b3", "p3", "r4", "r3"},
	})
	s := e.State()
	s.ClueTokens = 0

	// A card called to be discarded takes priority over the chop.
	s.Me.Thoughts[slot(0, 2)].CalledToDiscard = true

	action := newHGroup().TakeAction(s)
	assert.Equal(t, game.PerformDiscard, action.Type)
	assert.Equal(t, slot(0, 2), action.Target)
}

func TestHasSafeAction(t *testing.T) {
	e := newTestGame(t, DefaultOptions(), 0, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y2", "g3", "b4", "p5"},
		{"y3", "y4", "g2", "b2", "p2"},
	})
	s := e.State()
	h := newHGroup()

	assert.False(t, h.hasSafeAction(s, 1))

	s.Common.Thoughts[slot(1, 0)].Clued = true
	s.Common.Thoughts[slot(1, 0)].Inferred = ids("r1")
	assert.True(t, h.hasSafeAction(s, 1))
}
