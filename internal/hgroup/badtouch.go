package hgroup

import (
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// findBadTouch collects the identities that a newly touched card in the
// target's hand cannot usefully be: identities that are already dead on
// the board, plus identities fully accounted for by a clued card that
// the whole table can identify. Orders in exclude are not counted as
// accounting for their identity.
func (h *HGroup) findBadTouch(s *game.State, exclude ...int) deck.IdentitySet {
	var bad deck.IdentitySet
	for _, id := range s.Variant.AllIdentities().Identities() {
		if s.IsBasicTrash(id) {
			bad = bad.Add(id)
		}
	}
	for _, hand := range s.Hands {
		for _, c := range hand {
			if inList(exclude, c.Order) {
				continue
			}
			t := s.Common.Thoughts[c.Order]
			if !t.Touched() {
				continue
			}
			if id, ok := t.Identity(true); ok {
				bad = bad.Add(id)
			}
		}
	}
	return bad
}

// badTouchFixpoint repeatedly subtracts bad-touch identities from the
// touched cards in hand until no card learns anything new. A card whose
// inferences empty out mid-loop is reset to good-touch possibilities,
// which counts as a fix. Returns whether any card was reset.
func (h *HGroup) badTouchFixpoint(s *game.State, target int, list []int) bool {
	fix := false
	hand := s.Hands[target]
	bad := h.findBadTouch(s)
	for {
		for _, c := range hand {
			t := s.Common.Thoughts[c.Order]
			if !t.Touched() && !inList(list, c.Order) {
				continue
			}
			if t.Inferred.Len() > 1 {
				t.Subtract(bad)
			}
			if !t.NewlyClued && !t.Reset && t.Inferred.Empty() {
				t.Reset = true
				t.Finessed = false
				t.Inferred = t.Possible.Subtract(bad)
				fix = true
			}
		}
		next := h.findBadTouch(s)
		if next == bad {
			return fix
		}
		bad = next
	}
}
