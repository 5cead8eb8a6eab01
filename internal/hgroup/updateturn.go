package hgroup

import (
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// UpdateTurn advances the waiting connections at a turn boundary. Each
// chain whose reacting player just moved is either stepped forward (the
// expected card was played), kept (the player had a legitimate reason
// to wait) or falsified (the blind play never came).
func (h *HGroup) UpdateTurn(s *game.State, a game.Action) (*game.RewindRequest, error) {
	lastPlayer := s.LastPlayer(a.CurrentPlayerIndex)
	lastAction := s.LastActions[lastPlayer]

	demonstrated := make(map[int]deck.IdentitySet)
	var keep []game.WaitingConnection
	var rewindReq *game.RewindRequest

	for i := range s.WaitingConnections {
		wc := s.WaitingConnections[i]
		head := wc.Head()
		if head == nil {
			continue
		}

		// Any card in the chain leaving play by discard kills the
		// interpretation outright.
		if lastAction != nil && lastAction.Type == game.ActionDiscard {
			dead := false
			for _, conn := range wc.Connections[wc.ConnIndex:] {
				if conn.Order == lastAction.Order {
					dead = true
					break
				}
			}
			if dead {
				h.removeFinesse(s, &wc)
				continue
			}
		}

		if head.Reacting != lastPlayer {
			keep = append(keep, wc)
			continue
		}

		if lastAction != nil && lastAction.Type == game.ActionPlay && lastAction.Order == head.Order {
			// The expected card came down; step the chain.
			if head.Type == game.ConnFinesse || head.Type == game.ConnPositionalDiscard {
				if set, ok := demonstrated[wc.FocusOrder]; ok {
					demonstrated[wc.FocusOrder] = set.Add(wc.Inference)
				} else if wc.Inference.Valid() {
					demonstrated[wc.FocusOrder] = deck.NewIdentitySet(wc.Inference)
				}
			}
			wc.ConnIndex++
			if wc.ConnIndex < len(wc.Connections) {
				keep = append(keep, wc)
			} else {
				h.logger.Debug("connection resolved",
					"focus", wc.FocusOrder, "inference", wc.Inference)
			}
			continue
		}

		switch head.Type {
		case game.ConnFinesse, game.ConnPositionalDiscard:
			// A blind play that is not yet physically available cannot
			// be demanded; the player is entitled to wait.
			if !blindPlayAvailable(s, head) {
				keep = append(keep, wc)
				continue
			}
			// Playing into a different outstanding finesse first is a
			// legitimate delay; any other action falsifies the read.
			if lastAction != nil && lastAction.Type == game.ActionPlay {
				if pt := s.Common.Thoughts[lastAction.Order]; pt != nil && pt.Finessed {
					keep = append(keep, wc)
					continue
				}
			}
			h.logger.Info("finesse not played into",
				"reacting", head.Reacting, "order", head.Order,
				"inference", wc.Inference)
			h.removeFinesse(s, &wc)
			if rewindReq == nil && !wc.Symmetric && head.Type == game.ConnFinesse {
				rewindReq = &game.RewindRequest{
					ActionIndex: wc.ActionIndex,
					Order:       head.Order,
					Inject: []game.Action{{
						Type:        game.ActionIgnore,
						PlayerIndex: head.Reacting,
						Order:       head.Order,
					}},
				}
			}

		default:
			// Known, playable and prompted cards can be held through a
			// stall; keep waiting.
			keep = append(keep, wc)
		}
	}

	s.WaitingConnections = keep

	for order, ids := range demonstrated {
		t := s.Common.Thoughts[order]
		if t != nil && !t.Rewinded && !ids.Empty() {
			t.Intersect(ids)
		}
	}

	if rewindReq != nil {
		return rewindReq, nil
	}

	s.Elim()
	s.UpdateHypoStacks()
	s.ReconcileOwn()
	return nil, nil
}

// blindPlayAvailable reports whether any identity the connection asks
// for could actually go down right now.
func blindPlayAvailable(s *game.State, conn *game.Connection) bool {
	for _, id := range conn.Identities {
		if s.IsPlayable(id) {
			return true
		}
	}
	return false
}

// removeFinesse undoes the belief markings of a falsified chain: each
// unresolved prompt or finesse card reverts to its snapshot, and the
// focus loses the chain's inference.
func (h *HGroup) removeFinesse(s *game.State, wc *game.WaitingConnection) {
	for _, conn := range wc.Connections[wc.ConnIndex:] {
		t := s.Common.Thoughts[conn.Order]
		if t == nil {
			continue
		}
		switch conn.Type {
		case game.ConnFinesse, game.ConnPositionalDiscard:
			t.Finessed = false
			t.Hidden = false
			t.Bluffed = false
			t.RestoreInferred()
		case game.ConnPrompt:
			t.RestoreInferred()
		}
		if conn.Self {
			if mt := s.Me.Thoughts[conn.Order]; mt != nil {
				mt.Finessed = false
				mt.Inferred = mt.Possible.Intersect(t.Inferred)
				if mt.Inferred.Empty() {
					mt.Inferred = mt.Possible
				}
			}
		}
	}

	if len(wc.Connections) > 0 && wc.Connections[0].Type != game.ConnPositionalDiscard && wc.Inference.Valid() {
		focus := s.Common.Thoughts[wc.FocusOrder]
		if focus != nil && !focus.Rewinded {
			focus.Subtract(deck.NewIdentitySet(wc.Inference))
			if focus.Inferred.Empty() {
				focus.Inferred = focus.Possible
				focus.Reset = true
			}
		}
	}
	s.UpdateHypoStacks()
}
