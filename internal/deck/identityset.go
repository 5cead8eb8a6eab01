package deck

import (
	"math/bits"
	"strings"
)

// IdentitySet is a bitset over card identities. Bit layout is
// suit*MaxRank + rank - 1, which supports up to 12 suits in 64 bits.
// The zero value is the empty set; all operations return new sets.
type IdentitySet uint64

func identityBit(id Identity) IdentitySet {
	return 1 << (uint(id.Suit)*uint(MaxRank) + uint(id.Rank) - 1)
}

// NewIdentitySet builds a set from the given identities.
func NewIdentitySet(ids ...Identity) IdentitySet {
	var s IdentitySet
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

// Has reports whether the set contains id.
func (s IdentitySet) Has(id Identity) bool {
	return id.Valid() && s&identityBit(id) != 0
}

// Add returns the set with id included.
func (s IdentitySet) Add(id Identity) IdentitySet {
	if !id.Valid() {
		return s
	}
	return s | identityBit(id)
}

// Remove returns the set with id excluded.
func (s IdentitySet) Remove(id Identity) IdentitySet {
	if !id.Valid() {
		return s
	}
	return s &^ identityBit(id)
}

// Union returns the union of both sets.
func (s IdentitySet) Union(o IdentitySet) IdentitySet { return s | o }

// Intersect returns the intersection of both sets.
func (s IdentitySet) Intersect(o IdentitySet) IdentitySet { return s & o }

// Subtract returns the set with every identity in o removed.
func (s IdentitySet) Subtract(o IdentitySet) IdentitySet { return s &^ o }

// Len returns the number of identities in the set.
func (s IdentitySet) Len() int { return bits.OnesCount64(uint64(s)) }

// Empty reports whether the set has no identities.
func (s IdentitySet) Empty() bool { return s == 0 }

// Single returns the sole identity if the set has exactly one member.
func (s IdentitySet) Single() (Identity, bool) {
	if s.Len() != 1 {
		return Identity{}, false
	}
	i := bits.TrailingZeros64(uint64(s))
	return Identity{Suit: Suit(i / int(MaxRank)), Rank: Rank(i%int(MaxRank)) + 1}, true
}

// Identities returns the members in suit-then-rank order.
func (s IdentitySet) Identities() []Identity {
	out := make([]Identity, 0, s.Len())
	for v := uint64(s); v != 0; v &= v - 1 {
		i := bits.TrailingZeros64(v)
		out = append(out, Identity{Suit: Suit(i / int(MaxRank)), Rank: Rank(i%int(MaxRank)) + 1})
	}
	return out
}

// String returns a comma-separated short form, e.g. "r1,b2".
func (s IdentitySet) String() string {
	ids := s.Identities()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
