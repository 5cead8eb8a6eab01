package deck

import "fmt"

// Suit indexes into a variant's suit list.
type Suit int

// Rank is a card rank from 1 to 5.
type Rank int

// MaxRank is the highest rank in every standard variant.
const MaxRank Rank = 5

// Unknown marks a suit or rank that has not been revealed yet.
const (
	UnknownSuit Suit = -1
	UnknownRank Rank = -1
)

var shortForms = []byte{'r', 'y', 'g', 'b', 'p', 't'}

// Identity is an immutable suit/rank pair.
type Identity struct {
	Suit Suit
	Rank Rank
}

// Valid reports whether the identity is fully specified.
func (id Identity) Valid() bool {
	return id.Suit >= 0 && id.Rank >= 1 && id.Rank <= MaxRank
}

// NextRank returns the identity one rank above this one.
func (id Identity) NextRank() Identity {
	return Identity{Suit: id.Suit, Rank: id.Rank + 1}
}

// String returns the short form of an identity (e.g. "r1").
func (id Identity) String() string {
	if !id.Valid() || int(id.Suit) >= len(shortForms) {
		return "xx"
	}
	return fmt.Sprintf("%c%d", shortForms[id.Suit], id.Rank)
}

// ParseIdentity parses a short form like "r1". "xx" parses to an
// unknown identity with no error.
func ParseIdentity(s string) (Identity, error) {
	if s == "xx" {
		return Identity{Suit: UnknownSuit, Rank: UnknownRank}, nil
	}
	if len(s) != 2 {
		return Identity{}, fmt.Errorf("invalid card string: %s", s)
	}
	suit := Suit(-1)
	for i, f := range shortForms {
		if s[0] == f {
			suit = Suit(i)
			break
		}
	}
	if suit == -1 {
		return Identity{}, fmt.Errorf("invalid suit: %c", s[0])
	}
	rank := Rank(s[1] - '0')
	if rank < 1 || rank > MaxRank {
		return Identity{}, fmt.Errorf("invalid rank: %c", s[1])
	}
	return Identity{Suit: suit, Rank: rank}, nil
}

// MustParseIdentity parses a short form and panics on failure. For tests
// and static tables only.
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}
