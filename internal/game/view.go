package game

import "github.com/lox/hanabforbots/internal/deck"

// View is one observer perspective's belief table, keyed by draw
// order. The common view holds what any rational player could deduce
// from the public log; the bot's own view is additionally privileged
// by seeing everyone else's cards.
type View struct {
	// PlayerIndex is the observer, or -1 for the common view.
	PlayerIndex int
	Thoughts    map[int]*Thought
}

func newView(playerIndex int) *View {
	return &View{PlayerIndex: playerIndex, Thoughts: make(map[int]*Thought)}
}

// Thought returns the belief record for a draw order, or nil.
func (v *View) Thought(order int) *Thought {
	return v.Thoughts[order]
}

// IsCommon reports whether this is the symmetric view.
func (v *View) IsCommon() bool { return v.PlayerIndex == -1 }

func (v *View) clone() *View {
	out := newView(v.PlayerIndex)
	for order, t := range v.Thoughts {
		out.Thoughts[order] = t.clone()
	}
	return out
}

// cardElim removes identities from unknown cards' possible sets once
// every copy is accounted for (played, discarded, or pinned to a known
// card in this view). Runs to a fixpoint: resolving one card to a
// singleton can account for further identities.
func (v *View) cardElim(s *State) {
	for {
		changed := false
		for _, id := range s.Variant.AllIdentities().Identities() {
			seen := s.baseCount(id)
			for _, hand := range s.Hands {
				for _, c := range hand {
					t := v.Thoughts[c.Order]
					if t == nil {
						continue
					}
					if known, ok := t.Possible.Single(); ok && known == id {
						seen++
					}
				}
			}
			if seen < s.Variant.CardCount(id) {
				continue
			}
			for _, hand := range s.Hands {
				for _, c := range hand {
					t := v.Thoughts[c.Order]
					if t == nil {
						continue
					}
					if _, ok := t.Possible.Single(); ok {
						continue
					}
					if t.Possible.Has(id) {
						t.Possible = t.Possible.Remove(id)
						t.Inferred = t.Inferred.Remove(id)
						changed = true
					}
				}
			}
		}
		if !changed {
			return
		}
	}
}

// GoodTouchElim removes the given identities from the inferred sets of
// every touched card in the hand, excluding the listed orders. Cards
// whose inferred set empties are left for the caller to reset.
func (v *View) GoodTouchElim(hand Hand, ids deck.IdentitySet, ignore ...int) {
	for _, c := range hand {
		t := v.Thoughts[c.Order]
		if t == nil || !t.Touched() {
			continue
		}
		skip := false
		for _, o := range ignore {
			if c.Order == o {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if t.Inferred.Len() > 1 {
			t.Subtract(ids)
		}
	}
}
