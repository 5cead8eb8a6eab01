package deck

// Variant describes the suit composition of a game.
type Variant struct {
	Name  string
	Suits []string
}

// NoVariant is the standard five-suit game.
func NoVariant() *Variant {
	return &Variant{
		Name:  "No Variant",
		Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple"},
	}
}

// SixSuits adds a teal suit to the standard game.
func SixSuits() *Variant {
	return &Variant{
		Name:  "6 Suits",
		Suits: []string{"Red", "Yellow", "Green", "Blue", "Purple", "Teal"},
	}
}

// VariantByName resolves a variant from its server name, defaulting to
// the standard game for names we do not model.
func VariantByName(name string) *Variant {
	switch name {
	case "6 Suits":
		return SixSuits()
	default:
		return NoVariant()
	}
}

// NumSuits returns the number of suits in the variant.
func (v *Variant) NumSuits() int { return len(v.Suits) }

// MaxScore returns the score of a perfect game.
func (v *Variant) MaxScore() int { return len(v.Suits) * int(MaxRank) }

// CardCount returns how many physical copies of an identity exist.
func (v *Variant) CardCount(id Identity) int {
	switch id.Rank {
	case 1:
		return 3
	case MaxRank:
		return 1
	default:
		return 2
	}
}

// TotalCards returns the deck size for this variant.
func (v *Variant) TotalCards() int {
	total := 0
	for s := 0; s < v.NumSuits(); s++ {
		for r := Rank(1); r <= MaxRank; r++ {
			total += v.CardCount(Identity{Suit: Suit(s), Rank: r})
		}
	}
	return total
}

// AllIdentities returns the set of every identity in the variant.
func (v *Variant) AllIdentities() IdentitySet {
	var set IdentitySet
	for s := 0; s < v.NumSuits(); s++ {
		for r := Rank(1); r <= MaxRank; r++ {
			set = set.Add(Identity{Suit: Suit(s), Rank: r})
		}
	}
	return set
}

// HandSize returns the per-player hand size for a table of the given
// player count, following the standard rules.
func HandSize(numPlayers int) int {
	switch numPlayers {
	case 2, 3:
		return 5
	case 4, 5:
		return 4
	default:
		return 3
	}
}
