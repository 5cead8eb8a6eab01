package hgroup

import (
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// findOwnFinesses builds the connection chain needed to reach id when
// some of the connecting cards must come from our own hand. Each
// missing rank is covered by a visible connecting card if one exists,
// then a prompt in our hand, then a blind play from our finesse
// position. Reports false when a rank cannot be covered.
func (h *HGroup) findOwnFinesses(s *game.State, giver, target int, id deck.Identity, looksDirect bool) ([]game.Connection, bool) {
	// The giver cannot be finessing themselves.
	if giver == s.OurPlayerIndex {
		return nil, false
	}
	our := s.Hands[s.OurPlayerIndex]
	var conns []game.Connection

	for r := s.HypoStacks[id.Suit] + 1; r < id.Rank; r++ {
		need := deck.Identity{Suit: id.Suit, Rank: r}

		if step := h.findConnecting(s, giver, target, need, looksDirect,
			connectionOrders(conns), s.NextIgnore); len(step) > 0 && !terminated(step) {
			conns = append(conns, step...)
			continue
		}

		if p := findPrompt(s, our, need, connectionOrders(conns), s.NextIgnore); p != nil &&
			s.Me.Thoughts[p.Order].Possible.Has(need) {
			conns = append(conns, game.Connection{
				Type:       game.ConnPrompt,
				Reacting:   s.OurPlayerIndex,
				Order:      p.Order,
				Identities: []deck.Identity{need},
				Self:       true,
			})
			continue
		}

		if fi := finessePos(s.Common, our, connectionOrders(conns)); fi != -1 &&
			s.Me.Thoughts[our[fi].Order].Possible.Has(need) {
			conns = append(conns, game.Connection{
				Type:       game.ConnFinesse,
				Reacting:   s.OurPlayerIndex,
				Order:      our[fi].Order,
				Identities: []deck.Identity{need},
				Self:       true,
			})
			continue
		}

		return nil, false
	}
	return conns, true
}
