package hgroup

import (
	"github.com/lox/hanabforbots/internal/game"
)

// chopIndex returns the index of the chop card in hand, the oldest card
// that is not clued, finessed or chop moved. Returns -1 when every card
// is protected.
func chopIndex(v *game.View, hand game.Hand) int {
	for i := len(hand) - 1; i >= 0; i-- {
		t := v.Thoughts[hand[i].Order]
		if !t.Clued && !t.Finessed && !t.ChopMoved {
			return i
		}
	}
	return -1
}

// chopOrder returns the draw order of the chop card, or -1.
func chopOrder(v *game.View, hand game.Hand) int {
	if i := chopIndex(v, hand); i != -1 {
		return hand[i].Order
	}
	return -1
}

// finessePos returns the index of the leftmost card that could be
// blind-played into a finesse, skipping cards already clued or finessed
// and cards listed in ignore. Returns -1 when the hand has no slot.
func finessePos(v *game.View, hand game.Hand, ignore []int) int {
	for i, c := range hand {
		t := v.Thoughts[c.Order]
		if t.Clued || t.Finessed || inList(ignore, c.Order) {
			continue
		}
		return i
	}
	return -1
}

// determineFocus picks which touched card a clue is about. The chop
// being newly clued takes priority, then the leftmost newly clued
// card; a clue touching no new cards focuses the leftmost touched
// card. The chop is taken as it stood before this clue, so cards the
// clue itself touched still count as unclued for chop purposes.
func determineFocus(v *game.View, hand game.Hand, list []int) (focusOrder int, chopFocus bool) {
	chop := -1
	for i := len(hand) - 1; i >= 0; i-- {
		t := v.Thoughts[hand[i].Order]
		if (!t.Clued || t.NewlyClued) && !t.Finessed && !t.ChopMoved {
			chop = hand[i].Order
			break
		}
	}

	if chop != -1 && inList(list, chop) && v.Thoughts[chop].NewlyClued {
		return chop, true
	}
	for _, c := range hand {
		if inList(list, c.Order) && v.Thoughts[c.Order].NewlyClued {
			return c.Order, false
		}
	}
	for _, c := range hand {
		if inList(list, c.Order) {
			return c.Order, false
		}
	}
	return -1, false
}

// inBetween reports whether player sits strictly between giver and
// target in turn order.
func inBetween(numPlayers, player, giver, target int) bool {
	for i := (giver + 1) % numPlayers; i != target; i = (i + 1) % numPlayers {
		if i == player {
			return true
		}
	}
	return false
}

func inList(list []int, order int) bool {
	for _, o := range list {
		if o == order {
			return true
		}
	}
	return false
}
