package endgame

import (
	"sort"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// maxArrangements bounds the enumeration; past this the search would
// blow the deadline anyway.
const maxArrangements = 4096

// arrangement is one way the unseen cards could be laid out: first our
// unknown hand slots in position order, then the draw pile in draw
// order.
type arrangement []deck.Identity

// unseenCards returns the multiset of identities we cannot see: not on
// the board, not in another player's hand, and not pinned in our own.
func unseenCards(s *game.State) []deck.Identity {
	counts := make(map[deck.Identity]int)
	for _, id := range s.Variant.AllIdentities().Identities() {
		counts[id] = s.RemainingCount(id)
	}
	for playerIndex, hand := range s.Hands {
		for _, c := range hand {
			if playerIndex != s.OurPlayerIndex {
				if id, ok := c.Identity(); ok {
					counts[id]--
				}
				continue
			}
			if id, ok := s.Me.Thoughts[c.Order].Possible.Single(); ok {
				counts[id]--
			}
		}
	}

	var unseen []deck.Identity
	for id, n := range counts {
		for i := 0; i < n; i++ {
			unseen = append(unseen, id)
		}
	}
	sort.Slice(unseen, func(i, j int) bool {
		if unseen[i].Suit != unseen[j].Suit {
			return unseen[i].Suit < unseen[j].Suit
		}
		return unseen[i].Rank < unseen[j].Rank
	})
	return unseen
}

// unknownOrders lists the draw orders of our own cards whose identity
// is not pinned, in hand position order.
func unknownOrders(s *game.State) []int {
	var orders []int
	for _, c := range s.Hands[s.OurPlayerIndex] {
		if _, ok := s.Me.Thoughts[c.Order].Possible.Single(); !ok {
			orders = append(orders, c.Order)
		}
	}
	return orders
}

// fitsPossible reports whether the arrangement assigns each of our
// unknown slots an identity its possible set still allows.
func fitsPossible(s *game.State, orders []int, arr arrangement) bool {
	for i, order := range orders {
		if !s.Me.Thoughts[order].Possible.Has(arr[i]) {
			return false
		}
	}
	return true
}

// enumerate produces every distinct permutation of the unseen multiset,
// stopping with ok=false once the bound is exceeded.
func enumerate(unseen []deck.Identity) (arrs []arrangement, ok bool) {
	n := len(unseen)
	used := make([]bool, n)
	current := make(arrangement, 0, n)

	var rec func() bool
	rec = func() bool {
		if len(current) == n {
			if len(arrs) >= maxArrangements {
				return false
			}
			arrs = append(arrs, append(arrangement(nil), current...))
			return true
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			// Skip duplicate identities at the same depth.
			if i > 0 && unseen[i] == unseen[i-1] && !used[i-1] {
				continue
			}
			used[i] = true
			current = append(current, unseen[i])
			if !rec() {
				return false
			}
			current = current[:len(current)-1]
			used[i] = false
		}
		return true
	}
	ok = rec()
	return arrs, ok
}
