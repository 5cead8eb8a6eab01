package game

import "github.com/lox/hanabforbots/internal/deck"

// Card is one physical card, uniquely identified by its draw order.
// Its identity stays unknown (from our seat) until revealed by a play,
// discard or rewind.
type Card struct {
	Order int
	Suit  deck.Suit
	Rank  deck.Rank
}

// Known reports whether the card's true identity has been revealed.
func (c *Card) Known() bool {
	return deck.Identity{Suit: c.Suit, Rank: c.Rank}.Valid()
}

// Identity returns the true identity if revealed.
func (c *Card) Identity() (deck.Identity, bool) {
	id := deck.Identity{Suit: c.Suit, Rank: c.Rank}
	return id, id.Valid()
}

// Matches reports whether the card is known to be exactly id.
func (c *Card) Matches(id deck.Identity) bool {
	actual, ok := c.Identity()
	return ok && actual == id
}

// Hand is a player's cards ordered newest first ("slot 1" is index 0).
type Hand []*Card

// FindOrder returns the card with the given draw order, or nil.
func (h Hand) FindOrder(order int) *Card {
	for _, c := range h {
		if c.Order == order {
			return c
		}
	}
	return nil
}

// IndexOf returns the slot index of the given draw order, or -1.
func (h Hand) IndexOf(order int) int {
	for i, c := range h {
		if c.Order == order {
			return i
		}
	}
	return -1
}

// Remove deletes the card with the given order, preserving slot order.
func (h Hand) Remove(order int) Hand {
	for i, c := range h {
		if c.Order == order {
			return append(h[:i:i], h[i+1:]...)
		}
	}
	return h
}

// Orders returns the draw orders in slot order.
func (h Hand) Orders() []int {
	out := make([]int, len(h))
	for i, c := range h {
		out[i] = c.Order
	}
	return out
}

func (h Hand) clone() Hand {
	out := make(Hand, len(h))
	for i, c := range h {
		cc := *c
		out[i] = &cc
	}
	return out
}
