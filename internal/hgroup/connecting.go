package hgroup

import (
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// possiblyFake reports whether order is part of an unresolved waiting
// connection. Such cards cannot anchor a new connection because their
// current identity claim may still be falsified.
func possiblyFake(s *game.State, order int) bool {
	for i := range s.WaitingConnections {
		wc := &s.WaitingConnections[i]
		for _, conn := range wc.Connections[wc.ConnIndex:] {
			if conn.Order == order {
				return true
			}
		}
	}
	return false
}

// findKnownConnecting looks for a copy of id that the whole table can
// already identify, or failing that an unresolved card that is provably
// playable and could be id.
func (h *HGroup) findKnownConnecting(s *game.State, giver int, id deck.Identity, ignore []int) *game.Connection {
	for i := 0; i < s.NumPlayers; i++ {
		reacting := (giver + i) % s.NumPlayers
		for _, c := range s.Hands[reacting] {
			if inList(ignore, c.Order) || possiblyFake(s, c.Order) {
				continue
			}
			t := s.Common.Thoughts[c.Order]
			if !t.Matches(id, true) {
				continue
			}
			// The table-wide identity must not contradict the card.
			if c.Known() && !c.Matches(id) {
				continue
			}
			return &game.Connection{
				Type:       game.ConnKnown,
				Reacting:   reacting,
				Order:      c.Order,
				Identities: []deck.Identity{id},
				Known:      true,
			}
		}
	}

	// An unresolved card whose inferences are all playable connects as
	// long as it actually is id.
	for i := 1; i < s.NumPlayers; i++ {
		reacting := (giver + i) % s.NumPlayers
		for _, c := range s.Hands[reacting] {
			if inList(ignore, c.Order) || possiblyFake(s, c.Order) {
				continue
			}
			t := s.Common.Thoughts[c.Order]
			if !t.Touched() || !t.Inferred.Has(id) || !h.allPlayable(s, t.Inferred) {
				continue
			}
			if reacting == s.OurPlayerIndex || c.Matches(id) {
				return &game.Connection{
					Type:       game.ConnPlayable,
					Reacting:   reacting,
					Order:      c.Order,
					Identities: []deck.Identity{id},
				}
			}
		}
	}

	return nil
}

// allPlayable reports whether every identity in ids sits exactly one
// above its play stack.
func (h *HGroup) allPlayable(s *game.State, ids deck.IdentitySet) bool {
	if ids.Empty() {
		return false
	}
	for _, id := range ids.Identities() {
		if !s.IsPlayable(id) {
			return false
		}
	}
	return true
}

// findPrompt returns the leftmost clued card in hand that could be id
// and is not already spoken for, or nil.
func findPrompt(s *game.State, hand game.Hand, id deck.Identity, connected, ignore []int) *game.Card {
	for _, c := range hand {
		t := s.Common.Thoughts[c.Order]
		if !t.Clued || t.Rewinded || inList(connected, c.Order) || inList(ignore, c.Order) {
			continue
		}
		if !t.Possible.Has(id) {
			continue
		}
		// A card the table already identifies as something else cannot
		// be prompted.
		if known, ok := t.Identity(true); ok && known != id {
			continue
		}
		return c
	}
	return nil
}

// giverHoldsDuplicate reports whether the clue giver could be holding
// a clued copy of id in their own hand. A finesse or hidden prompt
// resting on such an identity is disallowed: the giver cannot lean on
// private knowledge of their own hand to make someone else blind play.
func giverHoldsDuplicate(s *game.State, giver int, id deck.Identity) bool {
	for _, c := range s.Hands[giver] {
		t := s.Common.Thoughts[c.Order]
		if !t.Clued || !t.Possible.Has(id) {
			continue
		}
		// A hand we can see blocks only when the copy is really there.
		if giver != s.OurPlayerIndex && !c.Matches(id) {
			continue
		}
		return true
	}
	return false
}

// findUnknownConnecting tries a prompt then a finesse in the reacting
// player's hand. Hidden connections resolve to a different playable
// identity first; the caller layers the search. terminate reports that
// a prompt exists but will misplay, poisoning this interpretation.
func (h *HGroup) findUnknownConnecting(s *game.State, giver, target, reacting int, id deck.Identity, connected, ignore []int) (conn *game.Connection, terminate bool) {
	hand := s.Hands[reacting]

	if prompt := findPrompt(s, hand, id, connected, ignore); prompt != nil {
		if prompt.Matches(id) {
			return &game.Connection{
				Type:       game.ConnPrompt,
				Reacting:   reacting,
				Order:      prompt.Order,
				Identities: []deck.Identity{id},
			}, false
		}
		if h.opts.Level >= LevelIntermediate {
			if actual, ok := prompt.Identity(); ok && s.IsPlayable(actual) &&
				!giverHoldsDuplicate(s, giver, actual) {
				return &game.Connection{
					Type:       game.ConnPrompt,
					Reacting:   reacting,
					Order:      prompt.Order,
					Identities: []deck.Identity{actual},
					Hidden:     true,
				}, false
			}
		}
		// The prompt exists but holds the wrong card; the reacting
		// player would misplay it.
		return nil, true
	}

	fi := finessePos(s.Common, hand, append(append([]int(nil), connected...), ignore...))
	if fi == -1 {
		return nil, false
	}
	c := hand[fi]
	actual, ok := c.Identity()
	if !ok {
		return nil, false
	}
	if actual == id {
		if h.opts.Level == LevelBasic && !inBetween(s.NumPlayers, reacting, giver, target) {
			return nil, false
		}
		if giverHoldsDuplicate(s, giver, id) {
			return nil, false
		}
		return &game.Connection{
			Type:       game.ConnFinesse,
			Reacting:   reacting,
			Order:      c.Order,
			Identities: []deck.Identity{id},
		}, false
	}
	if h.opts.Level >= LevelBluffs && s.IsPlayable(actual) && !giverHoldsDuplicate(s, giver, actual) {
		return &game.Connection{
			Type:       game.ConnFinesse,
			Reacting:   reacting,
			Order:      c.Order,
			Identities: []deck.Identity{actual},
			Hidden:     true,
			Bluff:      reacting == s.NextPlayer(giver),
		}, false
	}
	return nil, false
}

// findConnecting searches every hand for a way to reach id, preferring
// known cards, then playables, then prompts and finesses in reaction
// order. A hidden connection is layered: the intermediate card is
// played on a scratch copy of the stacks and the search repeats for the
// same identity behind it.
func (h *HGroup) findConnecting(s *game.State, giver, target int, id deck.Identity, looksDirect bool, connected, ignore []int) []game.Connection {
	if s.RemainingCount(id) == 0 {
		return nil
	}

	if conn := h.findKnownConnecting(s, giver, id, append(append([]int(nil), connected...), ignore...)); conn != nil {
		// A terminate sentinel is returned as-is; callers drop the
		// whole possibility when they see it.
		return []game.Connection{*conn}
	}

	for i := 1; i < s.NumPlayers; i++ {
		reacting := (giver + i) % s.NumPlayers
		if reacting == s.OurPlayerIndex {
			continue
		}
		// A clue that looks direct to its target will not be blind
		// played by the target.
		if reacting == target && looksDirect {
			continue
		}

		saved := append([]deck.Rank(nil), s.PlayStacks...)
		localConnected := append([]int(nil), connected...)
		var conns []game.Connection
		terminated := false
		for {
			conn, term := h.findUnknownConnecting(s, giver, target, reacting, id, localConnected, ignore)
			if term {
				terminated = true
				break
			}
			if conn == nil {
				break
			}
			conns = append(conns, *conn)
			if !conn.Hidden {
				break
			}
			hid := conn.Identities[0]
			s.PlayStacks[hid.Suit] = hid.Rank
			localConnected = append(localConnected, conn.Order)
		}
		copy(s.PlayStacks, saved)
		if terminated {
			continue
		}
		if n := len(conns); n > 0 {
			if !conns[n-1].Hidden {
				return conns
			}
			// A lone hidden blind play that cannot chain any further is
			// a bluff: the chain must terminate at the first
			// opportunity, so a longer hidden tail invalidates the read.
			if n == 1 && conns[0].Bluff {
				return conns
			}
		}
	}
	return nil
}
