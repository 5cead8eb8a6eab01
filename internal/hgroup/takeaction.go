package hgroup

import (
	"sort"

	"github.com/lox/hanabforbots/internal/game"
)

// TakeAction decides our move for the current turn: save an endangered
// chop, play what we can, clue what is worth cluing, otherwise discard.
// Endgame search is layered on top by the caller; this is the
// convention ladder.
func (h *HGroup) TakeAction(s *game.State) game.PerformAction {
	our := s.Hands[s.OurPlayerIndex]
	next := s.NextPlayer(s.OurPlayerIndex)

	// A critical chop about to be discarded outranks our own tempo.
	if s.ClueTokens > 0 && !h.hasSafeAction(s, next) {
		if save := h.findSaveClue(s, next); save != nil {
			h.logger.Info("saving chop", "target", next, "clue", save.clue)
			return game.ClueToPerform(save.clue, next)
		}
	}

	if c := h.bestPlayable(s); c != nil {
		return game.PerformAction{Type: game.PerformPlay, Target: c.Order}
	}

	var opts []clueOption
	if s.ClueTokens > 0 {
		opts = h.findAllClues(s)
		if len(opts) > 0 && opts[0].value >= h.opts.MinClueValue {
			best := opts[0]
			h.logger.Info("giving clue",
				"target", best.target, "clue", best.clue,
				"value", best.value, "playables", best.playables)
			return game.ClueToPerform(best.clue, best.target)
		}
	}

	if s.ClueTokens < game.MaxClueTokens {
		for _, c := range our {
			if s.Me.Thoughts[c.Order].CalledToDiscard {
				return game.PerformAction{Type: game.PerformDiscard, Target: c.Order}
			}
		}
		if order, ok := h.positionalDiscard(s); ok {
			h.logger.Info("positional discard", "order", order)
			return game.PerformAction{Type: game.PerformDiscard, Target: order}
		}
		if chop := chopOrder(s.Common, our); chop != -1 {
			return game.PerformAction{Type: game.PerformDiscard, Target: chop}
		}
	}

	// Locked hand or max clues: burn a clue rather than discard into a
	// fully protected hand.
	if s.ClueTokens > 0 && len(opts) > 0 {
		h.logger.Info("stalling", "clue", opts[0].clue, "target", opts[0].target)
		return game.ClueToPerform(opts[0].clue, opts[0].target)
	}

	// Forced discard with everything protected; give up the newest.
	return game.PerformAction{Type: game.PerformDiscard, Target: our[0].Order}
}

// bestPlayable picks the card from our hand to play this turn, if any:
// every inference playable right now, blind plays first in the order
// they were called.
func (h *HGroup) bestPlayable(s *game.State) *game.Card {
	type candidate struct {
		card *game.Card
		t    *game.Thought
	}
	var cands []candidate
	for _, c := range s.Hands[s.OurPlayerIndex] {
		t := s.Me.Thoughts[c.Order]
		if t.CalledToDiscard {
			continue
		}
		if (t.Touched() || t.Finessed) && h.allPlayable(s, t.Inferred) {
			cands = append(cands, candidate{card: c, t: t})
		}
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i].t, cands[j].t
		if a.Finessed != b.Finessed {
			return a.Finessed
		}
		if a.Finessed && b.Finessed {
			return a.FinesseIndex < b.FinesseIndex
		}
		ra := maxInferredRank(a)
		rb := maxInferredRank(b)
		return ra < rb
	})
	return cands[0].card
}

func maxInferredRank(t *game.Thought) int {
	max := 0
	for _, id := range t.Inferred.Identities() {
		if int(id.Rank) > max {
			max = int(id.Rank)
		}
	}
	return max
}

// hasSafeAction reports whether the player already has something to do
// other than discard their chop: a known play or an outstanding blind
// play.
func (h *HGroup) hasSafeAction(s *game.State, playerIndex int) bool {
	for _, c := range s.Hands[playerIndex] {
		t := s.Common.Thoughts[c.Order]
		if t.Finessed {
			return true
		}
		if id, ok := t.Identity(true); ok && s.IsPlayable(id) {
			return true
		}
	}
	return false
}

// positionalDiscard looks for a slot we can throw from to point another
// player at an untouched playable in the same slot. Only legal when
// our whole hand is trash and the deck is nearly gone.
func (h *HGroup) positionalDiscard(s *game.State) (order int, ok bool) {
	if h.opts.Level < LevelIntermediate || s.CardsLeft >= h.opts.PositionalThreshold {
		return 0, false
	}
	our := s.Hands[s.OurPlayerIndex]
	for _, c := range our {
		t := s.Me.Thoughts[c.Order]
		trash := true
		for _, id := range t.Possible.Identities() {
			if !s.IsBasicTrash(id) {
				trash = false
				break
			}
		}
		if !trash {
			return 0, false
		}
	}

	chop := chopIndex(s.Common, our)
	for i := 1; i < s.NumPlayers; i++ {
		p := (s.OurPlayerIndex + i) % s.NumPlayers
		for slot, c := range s.Hands[p] {
			if slot >= len(our) || slot == chop {
				continue
			}
			if s.Common.Thoughts[c.Order].Touched() {
				continue
			}
			if id, known := c.Identity(); known && s.IsPlayable(id) {
				return our[slot].Order, true
			}
		}
	}
	return 0, false
}
