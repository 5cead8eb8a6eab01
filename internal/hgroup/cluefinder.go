package hgroup

import (
	"sort"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// clueOption is a legal clue we could give, scored by simulating its
// interpretation from the receiver's point of view.
type clueOption struct {
	clue   game.Clue
	target int
	list   []int

	value      float64
	playables  int
	newTouched int
	badTouch   int
	elim       int
	save       bool
}

// findAllClues enumerates every legal clue to every other player and
// scores each one on a scratch copy of the state.
func (h *HGroup) findAllClues(s *game.State) []clueOption {
	if s.ClueTokens == 0 {
		return nil
	}
	var opts []clueOption
	for target := 0; target < s.NumPlayers; target++ {
		if target == s.OurPlayerIndex {
			continue
		}
		for _, clue := range h.legalClues(s, target) {
			opt := h.evaluateClue(s, target, clue)
			if opt != nil {
				opts = append(opts, *opt)
			}
		}
	}
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].value > opts[j].value })
	return opts
}

// FindClues lists the clues the convention layer would consider from
// our seat as performable actions, best first. The endgame solver uses
// this as its clue generator.
func (h *HGroup) FindClues(s *game.State, player int) []game.PerformAction {
	if player != s.OurPlayerIndex {
		return nil
	}
	var out []game.PerformAction
	for _, opt := range h.findAllClues(s) {
		out = append(out, game.ClueToPerform(opt.clue, opt.target))
	}
	return out
}

// legalClues lists the clues that touch at least one card in the
// target's hand.
func (h *HGroup) legalClues(s *game.State, target int) []game.Clue {
	suits := make(map[deck.Suit]bool)
	ranks := make(map[deck.Rank]bool)
	for _, c := range s.Hands[target] {
		if id, ok := c.Identity(); ok {
			suits[id.Suit] = true
			ranks[id.Rank] = true
		}
	}
	var clues []game.Clue
	for si := 0; si < s.Variant.NumSuits(); si++ {
		if suits[deck.Suit(si)] {
			clues = append(clues, game.Clue{Type: game.ClueColour, Value: si})
		}
	}
	for r := deck.Rank(1); r <= deck.MaxRank; r++ {
		if ranks[r] {
			clues = append(clues, game.Clue{Type: game.ClueRank, Value: int(r)})
		}
	}
	return clues
}

// evaluateClue simulates giving the clue and measures what the table
// would learn from it.
func (h *HGroup) evaluateClue(s *game.State, target int, clue game.Clue) *clueOption {
	var list []int
	newTouched := 0
	for _, c := range s.Hands[target] {
		id, ok := c.Identity()
		if !ok || !clue.Touches(id) {
			continue
		}
		list = append(list, c.Order)
		if !s.Common.Thoughts[c.Order].Clued {
			newTouched++
		}
	}
	if len(list) == 0 {
		return nil
	}

	// Bad touch is judged against the live state: trash, or a copy of
	// an identity the clue itself touches twice.
	bad := h.findBadTouch(s)
	badTouch := 0
	seen := deck.IdentitySet(0)
	for _, c := range s.Hands[target] {
		if !inList(list, c.Order) || s.Common.Thoughts[c.Order].Clued {
			continue
		}
		id, _ := c.Identity()
		if bad.Has(id) || seen.Has(id) {
			badTouch++
		}
		seen = seen.Add(id)
	}

	sim := s.MinimalCopy()
	eng := game.NewEngine(sim, h, h.logger)
	action := game.Action{
		Type:   game.ActionClue,
		Giver:  s.OurPlayerIndex,
		Target: target,
		Clue:   clue,
		List:   append([]int(nil), list...),
	}
	if err := eng.HandleAction(action); err != nil {
		h.logger.Warn("clue simulation failed", "clue", clue, "target", target, "err", err)
		return nil
	}
	sim = eng.State()

	playables := 0
	for suit := range sim.HypoStacks {
		playables += int(sim.HypoStacks[suit]) - int(s.HypoStacks[suit])
	}
	finesses := 0
	elim := 0
	for _, c := range s.Hands[target] {
		before := s.Common.Thoughts[c.Order]
		after := sim.Common.Thoughts[c.Order]
		elim += before.Possible.Len() - after.Possible.Len()
		if after.Finessed && !before.Finessed {
			finesses++
		}
	}

	opt := &clueOption{
		clue:       clue,
		target:     target,
		list:       list,
		playables:  playables,
		newTouched: newTouched,
		badTouch:   badTouch,
		elim:       elim,
	}
	opt.value = float64(playables+finesses) +
		0.5*float64(newTouched-badTouch) +
		0.05*float64(elim) -
		2*float64(badTouch)

	// A clue focusing the chop on a card that must not be discarded is
	// a save regardless of its tempo value.
	focusOrder, chopFocus := determineFocus(s.Common, s.Hands[target], list)
	if chopFocus {
		if c := s.CardByOrder(focusOrder); c != nil {
			if id, ok := c.Identity(); ok {
				if s.IsCritical(id) ||
					(id.Rank == 2 && clue.Type == game.ClueRank && !h.otherCopyVisible(s, id, focusOrder)) {
					opt.save = true
				}
			}
		}
	}
	return opt
}

// findSaveClue returns the best save for the given player's chop, or
// nil when the chop is safe to discard.
func (h *HGroup) findSaveClue(s *game.State, target int) *clueOption {
	chop := chopIndex(s.Common, s.Hands[target])
	if chop == -1 {
		return nil
	}
	c := s.Hands[target][chop]
	id, ok := c.Identity()
	if !ok {
		return nil
	}
	needsSave := s.IsCritical(id) ||
		(id.Rank == 2 && !h.otherCopyVisible(s, id, c.Order))
	if !needsSave {
		return nil
	}

	var best *clueOption
	for _, opt := range h.findAllClues(s) {
		if opt.target != target || !opt.save {
			continue
		}
		if best == nil || opt.value > best.value {
			o := opt
			best = &o
		}
	}
	return best
}
