package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabforbots/internal/deck"
)

// stubConvention lets a test script the interpretation callbacks.
type stubConvention struct {
	onPlay func(s *State, a Action) (*RewindRequest, error)
}

func (c *stubConvention) InterpretClue(s *State, a Action) (*RewindRequest, error) { return nil, nil }
func (c *stubConvention) InterpretPlay(s *State, a Action) (*RewindRequest, error) {
	if c.onPlay != nil {
		return c.onPlay(s, a)
	}
	return nil, nil
}
func (c *stubConvention) InterpretDiscard(s *State, a Action) (*RewindRequest, error) {
	return nil, nil
}
func (c *stubConvention) UpdateTurn(s *State, a Action) (*RewindRequest, error) { return nil, nil }

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func dealEngine(t *testing.T, e *Engine, hands [][]string) {
	t.Helper()
	s := e.State()
	order := 0
	for playerIndex, hand := range hands {
		for i := len(hand) - 1; i >= 0; i-- {
			id := deck.MustParseIdentity(hand[i])
			if playerIndex == s.OurPlayerIndex {
				id = deck.Identity{Suit: deck.UnknownSuit, Rank: deck.UnknownRank}
			}
			require.NoError(t, e.HandleAction(Action{
				Type:        ActionDraw,
				PlayerIndex: playerIndex,
				Order:       order,
				Suit:        id.Suit,
				Rank:        id.Rank,
			}))
			order++
		}
	}
}

func TestEngineRewindPinsIdentity(t *testing.T) {
	conv := &stubConvention{
		onPlay: func(s *State, a Action) (*RewindRequest, error) {
			if t := s.Common.Thought(a.Order); t != nil && t.Rewinded {
				return nil, nil
			}
			return &RewindRequest{
				ActionIndex: 10,
				Order:       a.Order,
				Inject: []Action{{
					Type:        ActionIdentify,
					PlayerIndex: a.PlayerIndex,
					Order:       a.Order,
					Suit:        a.Suit,
					Rank:        a.Rank,
				}},
			}, nil
		},
	}

	s := NewState([]string{"Alice", "Bob"}, 0, deck.NoVariant())
	e := NewEngine(s, conv, testLogger())
	dealEngine(t, e, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y2", "g3", "b4", "p5"},
	})

	// Our newest card (order 4) turns out to be b1.
	require.NoError(t, e.HandleAction(Action{
		Type: ActionPlay, PlayerIndex: 0, Order: 4, Suit: 3, Rank: 1,
	}))

	// The rewound state has the play applied and the identity pinned.
	s = e.State()
	assert.Equal(t, deck.Rank(1), s.PlayStacks[3])

	b1 := deck.MustParseIdentity("b1")
	me := s.Me.Thought(4)
	require.NotNil(t, me)
	id, ok := me.Possible.Single()
	require.True(t, ok)
	assert.Equal(t, b1, id)
	assert.True(t, me.Rewinded)
	assert.True(t, s.Common.Thought(4).Rewinded)

	// The injected identify action is part of the replayed log.
	var identifies int
	for _, a := range s.Actions {
		if a.Type == ActionIdentify {
			identifies++
		}
	}
	assert.Equal(t, 1, identifies)
}

func TestEngineRewindIdempotent(t *testing.T) {
	calls := 0
	conv := &stubConvention{
		onPlay: func(s *State, a Action) (*RewindRequest, error) {
			calls++
			// Unconditionally re-request; the engine must refuse the
			// second rewind because the card is already marked.
			return &RewindRequest{
				ActionIndex: 10,
				Order:       a.Order,
				Inject: []Action{{
					Type:        ActionIdentify,
					PlayerIndex: a.PlayerIndex,
					Order:       a.Order,
					Suit:        a.Suit,
					Rank:        a.Rank,
				}},
			}, nil
		},
	}

	s := NewState([]string{"Alice", "Bob"}, 0, deck.NoVariant())
	e := NewEngine(s, conv, testLogger())
	dealEngine(t, e, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y2", "g3", "b4", "p5"},
	})

	require.NoError(t, e.HandleAction(Action{
		Type: ActionPlay, PlayerIndex: 0, Order: 4, Suit: 3, Rank: 1,
	}))

	assert.Equal(t, deck.Rank(1), e.State().PlayStacks[3])
	// Once live, once during the replay of the same play.
	assert.Equal(t, 2, calls)
}

func TestEngineRewindOutOfRange(t *testing.T) {
	conv := &stubConvention{
		onPlay: func(s *State, a Action) (*RewindRequest, error) {
			return &RewindRequest{ActionIndex: 99, Order: a.Order}, nil
		},
	}

	s := NewState([]string{"Alice", "Bob"}, 0, deck.NoVariant())
	e := NewEngine(s, conv, testLogger())
	dealEngine(t, e, [][]string{
		{"xx", "xx", "xx", "xx", "xx"},
		{"r1", "y2", "g3", "b4", "p5"},
	})

	err := e.HandleAction(Action{
		Type: ActionPlay, PlayerIndex: 0, Order: 4, Suit: 3, Rank: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestEngineIdentifyUnknownOrder(t *testing.T) {
	s := NewState([]string{"Alice", "Bob"}, 0, deck.NoVariant())
	e := NewEngine(s, &stubConvention{}, testLogger())

	err := e.HandleAction(Action{Type: ActionIdentify, Order: 42, Suit: 0, Rank: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}
