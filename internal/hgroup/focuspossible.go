package hgroup

import (
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// focusPossibility is one candidate meaning for the focus of a clue: an
// identity, whether it is a save read, and the connecting cards needed
// to make the identity playable.
type focusPossibility struct {
	id    deck.Identity
	save  bool
	conns []game.Connection
}

func connectionOrders(conns []game.Connection, extra ...int) []int {
	orders := append([]int(nil), extra...)
	for _, c := range conns {
		orders = append(orders, c.Order)
	}
	return orders
}

func terminated(conns []game.Connection) bool {
	return len(conns) > 0 && conns[len(conns)-1].Type == game.ConnTerminate
}

// findFocusPossible enumerates what the focus could mean under the
// conventions: direct plays, plays behind connecting cards, and save
// reads when the chop was focused.
func (h *HGroup) findFocusPossible(s *game.State, a game.Action, focusOrder int, chopFocus bool) []focusPossibility {
	focus := s.Common.Thoughts[focusOrder]

	// A clue looks direct when the target could read the focus as an
	// immediate play; then the target will not blind play into it.
	looksDirect := false
	if _, known := focus.Identity(false); !known {
		for _, id := range focus.Possible.Identities() {
			if a.Clue.Touches(id) && s.IsPlayable(id) {
				looksDirect = true
				break
			}
		}
	}

	var fps []focusPossibility
	push := func(fp focusPossibility) {
		if !focus.Possible.Has(fp.id) || s.RemainingCount(fp.id) == 0 {
			return
		}
		fps = append(fps, fp)
	}

	// chain builds play possibilities for one suit, from the rank just
	// above the stack up to where the connection search runs dry.
	chain := func(suit deck.Suit, upTo deck.Rank) {
		next := s.PlayStacks[suit] + 1
		if next > s.MaxRanks[suit] || next > upTo {
			return
		}
		push(focusPossibility{id: deck.Identity{Suit: suit, Rank: next}})
		var conns []game.Connection
		for r := next; r < upTo && r < s.MaxRanks[suit]; r++ {
			step := h.findConnecting(s, a.Giver, a.Target,
				deck.Identity{Suit: suit, Rank: r}, looksDirect,
				connectionOrders(conns, focusOrder), s.NextIgnore)
			if len(step) == 0 || terminated(step) {
				return
			}
			conns = append(conns, step...)
			push(focusPossibility{
				id:    deck.Identity{Suit: suit, Rank: r + 1},
				conns: append([]game.Connection(nil), conns...),
			})
		}
	}

	switch a.Clue.Type {
	case game.ClueColour:
		suit := deck.Suit(a.Clue.Value)
		chain(suit, s.MaxRanks[suit])
		if chopFocus {
			for r := s.PlayStacks[suit] + 1; r <= s.MaxRanks[suit]; r++ {
				id := deck.Identity{Suit: suit, Rank: r}
				if s.IsCritical(id) {
					push(focusPossibility{id: id, save: true})
				}
			}
		}

	case game.ClueRank:
		rank := deck.Rank(a.Clue.Value)
		for si := 0; si < s.Variant.NumSuits(); si++ {
			suit := deck.Suit(si)
			if rank <= s.PlayStacks[suit] || rank > s.MaxRanks[suit] {
				continue
			}
			chain(suit, rank)
			if !chopFocus {
				continue
			}
			id := deck.Identity{Suit: suit, Rank: rank}
			if s.IsCritical(id) {
				push(focusPossibility{id: id, save: true})
			} else if rank == 2 && !h.otherCopyVisible(s, id, focusOrder) {
				push(focusPossibility{id: id, save: true})
			}
		}
	}

	// Trim chain possibilities above the clued rank.
	out := fps[:0]
	for _, fp := range fps {
		if a.Clue.Touches(fp.id) || fp.save {
			out = append(out, fp)
		}
	}
	return out
}

// otherCopyVisible reports whether a copy of id other than the focus is
// clued somewhere, which invalidates a 2-save.
func (h *HGroup) otherCopyVisible(s *game.State, id deck.Identity, focusOrder int) bool {
	for _, hand := range s.Hands {
		for _, c := range hand {
			if c.Order == focusOrder || !c.Matches(id) {
				continue
			}
			if s.Common.Thoughts[c.Order].Clued {
				return true
			}
		}
	}
	return false
}
