package hgroup

import (
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// InterpretClue works out what a clue means under the conventions and
// writes the conclusion into the common view. Runs after direct clue
// elimination has already been applied.
func (h *HGroup) InterpretClue(s *game.State, a game.Action) (*game.RewindRequest, error) {
	hand := s.Hands[a.Target]
	focusOrder, chopFocus := determineFocus(s.Common, hand, a.List)
	if focusOrder == -1 {
		h.logger.Warn("clue touched nothing", "giver", a.Giver, "target", a.Target)
		return nil, nil
	}
	focus := s.Common.Thoughts[focusOrder]

	// A clue whose focus can only be trash is not a play clue: it calls
	// the focus to be discarded and protects everything behind it.
	if h.opts.Level >= LevelIntermediate && !a.Mistake && h.trashFocus(s, focus) {
		h.applyChopMove(s, a.Target, focusOrder)
		s.Elim()
		s.UpdateHypoStacks()
		s.ReconcileOwn()
		return nil, nil
	}

	fix := h.badTouchFixpoint(s, a.Target, a.List)
	s.Elim()

	if a.Mistake || fix {
		// A fix clue or a known mistake carries no further meaning; the
		// direct elimination already did its work.
		h.logger.Debug("fix clue", "giver", a.Giver, "target", a.Target, "mistake", a.Mistake)
		s.UpdateHypoStacks()
		s.ReconcileOwn()
		return nil, nil
	}

	fps := h.findFocusPossible(s, a, focusOrder, chopFocus)
	var fpSet deck.IdentitySet
	for _, fp := range fps {
		fpSet = fpSet.Add(fp.id)
	}

	matched := h.matchPossibilities(s, fps, a.Target, focusOrder)

	switch {
	case len(matched) == 0:
		if req := h.interpretUnmatched(s, a, focusOrder, fpSet); req != nil {
			return req, nil
		}

	case len(matched) == 1:
		fp := matched[0]
		focus.Intersect(fpSet)
		if !fp.save {
			h.assignConnections(s, matched, len(s.Actions)-1)
			if len(fp.conns) > 0 {
				s.WaitingConnections = append(s.WaitingConnections, game.WaitingConnection{
					Connections: fp.conns,
					FocusOrder:  focusOrder,
					Inference:   fp.id,
					Giver:       a.Giver,
					Target:      a.Target,
					ActionIndex: len(s.Actions) - 1,
				})
			}
		}
		h.logger.Debug("clue interpreted",
			"giver", a.Giver, "target", a.Target,
			"focus", focusOrder, "inference", fp.id, "save", fp.save,
			"connections", len(fp.conns))

	default:
		// Several interpretations fit what we can see. The focus holds
		// the superposition; each chained interpretation waits for its
		// connections to resolve.
		focus.Intersect(fpSet)
		h.assignConnections(s, matched, len(s.Actions)-1)
		for _, fp := range matched {
			if fp.save || len(fp.conns) == 0 {
				continue
			}
			s.WaitingConnections = append(s.WaitingConnections, game.WaitingConnection{
				Connections: fp.conns,
				FocusOrder:  focusOrder,
				Inference:   fp.id,
				Giver:       a.Giver,
				Target:      a.Target,
				ActionIndex: len(s.Actions) - 1,
				Symmetric:   a.Target == s.OurPlayerIndex,
			})
		}
		h.logger.Debug("clue ambiguous",
			"giver", a.Giver, "target", a.Target,
			"focus", focusOrder, "interpretations", len(matched))
	}

	// Good touch: a settled focus identity is removed from every other
	// undecided touched card.
	if id, ok := focus.Identity(true); ok {
		for _, other := range s.Hands {
			s.Common.GoodTouchElim(other, deck.NewIdentitySet(id), focusOrder)
		}
	}

	s.Elim()
	s.UpdateHypoStacks()
	s.ReconcileOwn()
	return nil, nil
}

// trashFocus reports whether every identity the focus could still be
// is already played or unreachable.
func (h *HGroup) trashFocus(s *game.State, focus *game.Thought) bool {
	if focus.Inferred.Empty() {
		return false
	}
	for _, id := range focus.Inferred.Identities() {
		if !s.IsBasicTrash(id) {
			return false
		}
	}
	return true
}

// applyChopMove marks the focus as called to discard and chop moves
// every unprotected card behind it.
func (h *HGroup) applyChopMove(s *game.State, target, focusOrder int) {
	hand := s.Hands[target]
	idx := hand.IndexOf(focusOrder)
	if idx == -1 {
		return
	}
	s.Common.Thoughts[focusOrder].CalledToDiscard = true
	moved := 0
	for i := idx + 1; i < len(hand); i++ {
		t := s.Common.Thoughts[hand[i].Order]
		if t.Clued || t.Finessed || t.ChopMoved {
			continue
		}
		t.ChopMoved = true
		moved++
	}
	h.logger.Debug("trash chop move",
		"target", target, "focus", focusOrder, "moved", moved)
}

// matchPossibilities filters focus possibilities against what we can
// actually see: the focus card's identity for other players' hands, or
// our own possible set when the clue was to us.
func (h *HGroup) matchPossibilities(s *game.State, fps []focusPossibility, target, focusOrder int) []focusPossibility {
	var matched []focusPossibility
	for _, fp := range fps {
		if target == s.OurPlayerIndex {
			if s.Me.Thoughts[focusOrder].Possible.Has(fp.id) {
				matched = append(matched, fp)
			}
		} else if c := s.CardByOrder(focusOrder); c != nil && c.Matches(fp.id) {
			matched = append(matched, fp)
		}
	}
	return matched
}

// interpretUnmatched handles a clue whose focus matches no standard
// possibility. When the focus card is visible to us, the clue must be
// reaching through hands we cannot fully verify, usually our own, so a
// self finesse is searched for the actual identity.
func (h *HGroup) interpretUnmatched(s *game.State, a game.Action, focusOrder int, fpSet deck.IdentitySet) *game.RewindRequest {
	focus := s.Common.Thoughts[focusOrder]

	if a.Target == s.OurPlayerIndex {
		// Nothing to verify against; keep the symmetric narrowing.
		if !fpSet.Empty() {
			focus.Intersect(fpSet)
		}
		return nil
	}

	c := s.CardByOrder(focusOrder)
	id, ok := c.Identity()
	if !ok {
		return nil
	}
	if s.IsBasicTrash(id) {
		h.logger.Warn("clue focused trash with no interpretation",
			"giver", a.Giver, "target", a.Target, "identity", id)
		return nil
	}

	conns, feasible := h.findOwnFinesses(s, a.Giver, a.Target, id, false)
	if !feasible {
		h.logger.Warn("no interpretation found", "giver", a.Giver, "target", a.Target, "identity", id)
		return nil
	}

	focus.Intersect(deck.NewIdentitySet(id))
	h.assignConnections(s, []focusPossibility{{id: id, conns: conns}}, len(s.Actions)-1)
	if len(conns) > 0 {
		s.WaitingConnections = append(s.WaitingConnections, game.WaitingConnection{
			Connections: conns,
			FocusOrder:  focusOrder,
			Inference:   id,
			Giver:       a.Giver,
			Target:      a.Target,
			ActionIndex: len(s.Actions) - 1,
		})
	}
	h.logger.Debug("self finesse assumed",
		"giver", a.Giver, "target", a.Target, "identity", id,
		"blindPlays", blindPlayCount(conns))
	return nil
}

// assignConnections writes prompt and finesse markings for every
// connection across the surviving interpretations. A card shared by
// multiple interpretations holds the union of the identities asked of
// it.
func (h *HGroup) assignConnections(s *game.State, fps []focusPossibility, actionIndex int) {
	type claim struct {
		ids     deck.IdentitySet
		conn    game.Connection
		reused  bool
		playSet bool
	}
	claims := make(map[int]*claim)
	order := []int{}
	for _, fp := range fps {
		for _, conn := range fp.conns {
			switch conn.Type {
			case game.ConnKnown, game.ConnPlayable, game.ConnTerminate:
				continue
			}
			cl, ok := claims[conn.Order]
			if !ok {
				cl = &claim{conn: conn}
				claims[conn.Order] = cl
				order = append(order, conn.Order)
			} else {
				cl.reused = true
			}
			if conn.Hidden {
				cl.playSet = true
			}
			for _, id := range conn.Identities {
				cl.ids = cl.ids.Add(id)
			}
		}
	}

	var playables deck.IdentitySet
	for _, id := range s.Variant.AllIdentities().Identities() {
		if s.IsPlayable(id) {
			playables = playables.Add(id)
		}
	}

	for _, o := range order {
		cl := claims[o]
		t := s.Common.Thoughts[o]
		t.SaveInferred()
		ids := cl.ids
		if cl.playSet {
			ids = ids.Union(playables.Intersect(t.Possible))
			t.Hidden = true
		}
		if cl.reused || t.Superposition {
			t.Union(ids)
			t.Superposition = true
		} else {
			t.Intersect(ids)
		}
		if cl.conn.Type == game.ConnFinesse {
			t.Finessed = true
			t.FinesseIndex = actionIndex
			t.Bluffed = cl.conn.Bluff
		}
		t.RecordReasoning(actionIndex)

		// Our own blind plays also update the privileged view.
		if cl.conn.Self {
			mt := s.Me.Thoughts[o]
			mt.Finessed = t.Finessed
			mt.Intersect(t.Inferred)
		}
	}
}

// blindPlayCount counts the blind plays a connection chain demands.
func blindPlayCount(conns []game.Connection) int {
	n := 0
	for _, c := range conns {
		if c.Type == game.ConnFinesse {
			n++
		}
	}
	return n
}
