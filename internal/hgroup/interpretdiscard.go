package hgroup

import (
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// InterpretDiscard handles belief consequences of a discard: rewinding
// contradicted inferences, passing identities on via sarcastic
// discards, and reading slot-encoded positional discards late in the
// game. Runs before the card leaves the hand.
func (h *HGroup) InterpretDiscard(s *game.State, a game.Action) (*game.RewindRequest, error) {
	id, ok := a.Identity()
	t := s.Common.Thoughts[a.Order]
	if !ok || t == nil {
		return nil, nil
	}

	if !a.Failed {
		s.EarlyGame = false
	}

	// Discarding a card believed to be something useful it is not.
	if !t.Rewinded && t.Touched() && !t.Inferred.Empty() && !t.Inferred.Has(id) &&
		!s.IsBasicTrash(id) && len(t.Reasoning) > 0 {
		h.logger.Info("discard contradicts beliefs",
			"player", a.PlayerIndex, "order", a.Order, "identity", id,
			"inferred", t.Inferred)
		return &game.RewindRequest{
			ActionIndex: t.Reasoning[0],
			Order:       a.Order,
			Inject: []game.Action{{
				Type:        game.ActionIdentify,
				PlayerIndex: a.PlayerIndex,
				Order:       a.Order,
				Suit:        id.Suit,
				Rank:        id.Rank,
			}},
		}, nil
	}

	if h.opts.Level >= LevelIntermediate {
		if t.Clued && !s.IsBasicTrash(id) && !a.Failed {
			h.interpretSarcastic(s, a, id)
		} else if h.positionalLegal(s, a, id) {
			h.interpretPositional(s, a)
		}
	}

	s.ReconcileOwn()
	return nil, nil
}

// interpretSarcastic passes the discarded identity to the remaining
// copy. Deliberately throwing away a useful clued card tells the
// holder of a matching touched card what it is.
func (h *HGroup) interpretSarcastic(s *game.State, a game.Action, id deck.Identity) {
	var candidates []*game.Thought
	for playerIndex, hand := range s.Hands {
		if playerIndex == a.PlayerIndex {
			continue
		}
		for _, c := range hand {
			ct := s.Common.Thoughts[c.Order]
			if !ct.Clued || !ct.Possible.Has(id) {
				continue
			}
			// A card the table already reads as something else is not
			// a sarcastic target.
			if known, ok := ct.Identity(true); ok && known != id {
				continue
			}
			candidates = append(candidates, ct)
		}
	}
	switch len(candidates) {
	case 0:
		return
	case 1:
		candidates[0].Intersect(deck.NewIdentitySet(id))
		h.logger.Debug("sarcastic discard",
			"player", a.PlayerIndex, "identity", id, "order", candidates[0].Order)
		s.UpdateHypoStacks()
	default:
		// Unknown sarcastic: any of the candidates could be the
		// surviving copy, so the identity folds back into each of them.
		playable := true
		for _, ct := range candidates {
			ct.Union(deck.NewIdentitySet(id))
			if !h.allPlayable(s, ct.Inferred) {
				playable = false
			}
		}
		h.logger.Debug("unknown sarcastic discard",
			"player", a.PlayerIndex, "identity", id, "candidates", len(candidates))
		s.UpdateHypoStacks()
		if !playable && s.HypoStacks[id.Suit] >= id.Rank {
			// The copy's location is uncertain, so no hypothetical
			// progress through it can stand.
			s.HypoStacks[id.Suit] = id.Rank - 1
		}
	}
}

// positionalLegal reports whether a discard reads as positional: deep
// endgame, a trash card thrown from somewhere other than chop.
func (h *HGroup) positionalLegal(s *game.State, a game.Action, id deck.Identity) bool {
	if a.Failed || s.CardsLeft >= h.opts.PositionalThreshold {
		return false
	}
	if !s.IsBasicTrash(id) {
		return false
	}
	t := s.Common.Thoughts[a.Order]
	if t.Touched() {
		return false
	}
	hand := s.Hands[a.PlayerIndex]
	slot := hand.IndexOf(a.Order)
	return slot != -1 && slot != chopIndex(s.Common, hand)
}

// interpretPositional reads a slot-encoded discard: the first player
// after the discarder holding an untouched playable in the same slot
// blind plays it.
func (h *HGroup) interpretPositional(s *game.State, a game.Action) {
	slot := s.Hands[a.PlayerIndex].IndexOf(a.Order)

	var playables deck.IdentitySet
	for _, id := range s.Variant.AllIdentities().Identities() {
		if s.IsPlayable(id) {
			playables = playables.Add(id)
		}
	}

	for i := 1; i < s.NumPlayers; i++ {
		reacting := (a.PlayerIndex + i) % s.NumPlayers
		hand := s.Hands[reacting]
		if slot >= len(hand) {
			continue
		}
		c := hand[slot]
		t := s.Common.Thoughts[c.Order]
		if t.Touched() {
			continue
		}

		if reacting != s.OurPlayerIndex {
			if id, ok := c.Identity(); !ok || !s.IsPlayable(id) {
				continue
			}
		}

		// Either our own slot card, which we must assume is meant for
		// us, or a visible playable.
		t.SaveInferred()
		t.Intersect(playables)
		t.Finessed = true
		t.FinesseIndex = len(s.Actions) - 1
		t.RecordReasoning(len(s.Actions) - 1)
		if reacting == s.OurPlayerIndex {
			mt := s.Me.Thoughts[c.Order]
			mt.Finessed = true
			mt.Intersect(playables)
		}

		s.WaitingConnections = append(s.WaitingConnections, game.WaitingConnection{
			Connections: []game.Connection{{
				Type:       game.ConnPositionalDiscard,
				Reacting:   reacting,
				Order:      c.Order,
				Identities: playables.Identities(),
			}},
			FocusOrder:  c.Order,
			Giver:       a.PlayerIndex,
			Target:      reacting,
			ActionIndex: len(s.Actions) - 1,
		})
		h.logger.Debug("positional discard",
			"player", a.PlayerIndex, "slot", slot, "reacting", reacting)
		return
	}
}
