package game

import "github.com/lox/hanabforbots/internal/deck"

// MaxClueTokens is the clue token ceiling.
const MaxClueTokens = 8

// State is the live game and belief state for one table. It is mutated
// in place by real game actions only; speculative search (the clue
// finder and the endgame solver) operates on MinimalCopy snapshots.
type State struct {
	Variant        *deck.Variant
	NumPlayers     int
	OurPlayerIndex int
	PlayerNames    []string

	Hands []Hand
	// Deck holds every card ever drawn, indexed by draw order. Cards
	// stay here after being played or discarded.
	Deck []*Card

	PlayStacks [](deck.Rank)
	// HypoStacks assume every outstanding good-faith connection
	// resolves. Maintained against the common view.
	HypoStacks    []deck.Rank
	DiscardStacks [][]int
	MaxRanks      []deck.Rank

	ClueTokens    int
	Strikes       int
	TurnCount     int
	CurrentPlayer int
	CardsLeft     int
	// EndgameTurns counts down the final round once the deck is empty;
	// -1 while cards remain.
	EndgameTurns int
	EarlyGame    bool
	InProgress   bool

	// Actions is the append-only public log.
	Actions     []Action
	LastActions []*Action
	NextIgnore  []int

	Common *View
	Me     *View

	WaitingConnections []WaitingConnection
}

// NewState creates the state for a fresh game before any draws.
func NewState(playerNames []string, ourPlayerIndex int, variant *deck.Variant) *State {
	n := len(playerNames)
	s := &State{
		Variant:        variant,
		NumPlayers:     n,
		OurPlayerIndex: ourPlayerIndex,
		PlayerNames:    playerNames,
		Hands:          make([]Hand, n),
		PlayStacks:     make([]deck.Rank, variant.NumSuits()),
		HypoStacks:     make([]deck.Rank, variant.NumSuits()),
		DiscardStacks:  make([][]int, variant.NumSuits()),
		MaxRanks:       make([]deck.Rank, variant.NumSuits()),
		ClueTokens:     MaxClueTokens,
		CardsLeft:      variant.TotalCards(),
		EndgameTurns:   -1,
		EarlyGame:      true,
		InProgress:     true,
		LastActions:    make([]*Action, n),
		Common:         newView(-1),
		Me:             newView(ourPlayerIndex),
	}
	for i := range s.DiscardStacks {
		s.DiscardStacks[i] = make([]int, deck.MaxRank)
		s.MaxRanks[i] = deck.MaxRank
	}
	return s
}

// Score is the number of cards successfully played.
func (s *State) Score() int {
	score := 0
	for _, r := range s.PlayStacks {
		score += int(r)
	}
	return score
}

// MaxScore is the best score still reachable given discarded cards.
func (s *State) MaxScore() int {
	score := 0
	for suit, max := range s.MaxRanks {
		top := max
		for r := deck.Rank(1); r <= max; r++ {
			id := deck.Identity{Suit: deck.Suit(suit), Rank: r}
			if s.DiscardStacks[suit][r-1] == s.Variant.CardCount(id) {
				top = r - 1
				break
			}
		}
		score += int(top)
	}
	return score
}

// Pace is the remaining slack before the game is guaranteed lost:
// score + cardsLeft + numPlayers - maxScore.
func (s *State) Pace() int {
	return s.Score() + s.CardsLeft + s.NumPlayers - s.Variant.MaxScore()
}

// InEndgame reports whether pace has run out of comfortable slack.
func (s *State) InEndgame() bool {
	return s.Pace() < s.NumPlayers
}

// NextPlayer returns the seat after the given player.
func (s *State) NextPlayer(playerIndex int) int {
	return (playerIndex + 1) % s.NumPlayers
}

// LastPlayer returns the seat before the given player.
func (s *State) LastPlayer(playerIndex int) int {
	return (playerIndex + s.NumPlayers - 1) % s.NumPlayers
}

// CardByOrder returns the physical card for a draw order, or nil.
func (s *State) CardByOrder(order int) *Card {
	if order < 0 || order >= len(s.Deck) {
		return nil
	}
	return s.Deck[order]
}

// baseCount is the number of copies of id face up on the table.
func (s *State) baseCount(id deck.Identity) int {
	count := s.DiscardStacks[id.Suit][id.Rank-1]
	if s.PlayStacks[id.Suit] >= id.Rank {
		count++
	}
	return count
}

// RemainingCount is the number of copies of id not yet played or
// discarded, so still in hands or the draw pile.
func (s *State) RemainingCount(id deck.Identity) int {
	return s.Variant.CardCount(id) - s.baseCount(id)
}

// IsPlayable reports whether id is playable right now.
func (s *State) IsPlayable(id deck.Identity) bool {
	return s.PlayStacks[id.Suit]+1 == id.Rank
}

// PlayableAway returns how many ranks above the play stack id sits.
func (s *State) PlayableAway(id deck.Identity) int {
	return int(id.Rank) - int(s.PlayStacks[id.Suit]) - 1
}

// IsBasicTrash reports whether id is already played or unreachable.
func (s *State) IsBasicTrash(id deck.Identity) bool {
	return id.Rank <= s.PlayStacks[id.Suit] || id.Rank > s.MaxRanks[id.Suit]
}

// IsCritical reports whether discarding id would lower the max score.
func (s *State) IsCritical(id deck.Identity) bool {
	if s.IsBasicTrash(id) {
		return false
	}
	return s.DiscardStacks[id.Suit][id.Rank-1] == s.Variant.CardCount(id)-1
}

// VisibleFind returns the cards matching id among hands visible to the
// given observer perspective (everyone's hand except the observer's
// own, plus the observer's own cards when the view has pinned them).
func (s *State) VisibleFind(v *View, from int, id deck.Identity) []*Card {
	var found []*Card
	for playerIndex, hand := range s.Hands {
		for _, c := range hand {
			if playerIndex != from && c.Matches(id) {
				found = append(found, c)
				continue
			}
			if t := v.Thought(c.Order); t != nil {
				if known, ok := t.Possible.Single(); ok && known == id {
					found = append(found, c)
				}
			}
		}
	}
	return found
}

// Elim runs card-count elimination on both belief views.
func (s *State) Elim() {
	s.Common.cardElim(s)
	s.Me.cardElim(s)
}

// UpdateHypoStacks recomputes the hypo stacks from the play stacks and
// every card the common view holds as a known, unplayed, useful
// singleton. Chained connections are absorbed by iterating to a
// fixpoint.
func (s *State) UpdateHypoStacks() {
	hypo := append([]deck.Rank(nil), s.PlayStacks...)
	counted := make(map[int]bool)
	for {
		changed := false
		for _, hand := range s.Hands {
			for _, c := range hand {
				t := s.Common.Thought(c.Order)
				if t == nil || counted[c.Order] || !t.Touched() {
					continue
				}
				id, ok := t.Identity(true)
				if !ok || s.IsBasicTrash(id) {
					continue
				}
				if hypo[id.Suit]+1 == id.Rank {
					hypo[id.Suit] = id.Rank
					counted[c.Order] = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	s.HypoStacks = hypo
}

// Draw adds a newly drawn card to a hand and seeds both belief views.
// Identity is unknown (-1/-1) for our own draws.
func (s *State) Draw(a Action) {
	c := &Card{Order: a.Order, Suit: a.Suit, Rank: a.Rank}
	for len(s.Deck) <= a.Order {
		s.Deck = append(s.Deck, nil)
	}
	s.Deck[a.Order] = c
	s.Hands[a.PlayerIndex] = append(Hand{c}, s.Hands[a.PlayerIndex]...)

	all := s.Variant.AllIdentities()
	s.Common.Thoughts[a.Order] = newThought(a.Order, all)

	me := newThought(a.Order, all)
	if id, ok := c.Identity(); ok && a.PlayerIndex != s.OurPlayerIndex {
		me.Possible = deck.NewIdentitySet(id)
		me.Inferred = me.Possible
	}
	s.Me.Thoughts[a.Order] = me

	s.CardsLeft--
	if s.CardsLeft == 0 {
		s.EndgameTurns = s.NumPlayers + 1
	}
	s.Elim()
}

// ApplyClueTouch marks touched cards and applies direct clue
// elimination on both views. Convention interpretation runs afterward.
func (s *State) ApplyClueTouch(a Action) {
	touched := func(order int) bool {
		for _, o := range a.List {
			if o == order {
				return true
			}
		}
		return false
	}

	var matching deck.IdentitySet
	for _, id := range s.Variant.AllIdentities().Identities() {
		if a.Clue.Touches(id) {
			matching = matching.Add(id)
		}
	}

	for _, c := range s.Hands[a.Target] {
		for _, v := range []*View{s.Common, s.Me} {
			t := v.Thought(c.Order)
			if t == nil {
				continue
			}
			if touched(c.Order) {
				t.NewlyClued = !t.Clued
				t.Clued = true
				t.Possible = t.Possible.Intersect(matching)
				t.Inferred = t.Inferred.Intersect(matching)
			} else {
				t.Possible = t.Possible.Subtract(matching)
				t.Inferred = t.Inferred.Subtract(matching)
			}
			if t.Inferred.Empty() {
				t.Inferred = t.Possible
			}
			if touched(c.Order) {
				t.RecordReasoning(len(s.Actions) - 1)
			}
		}
	}
	s.ClueTokens--
	if s.CardsLeft == 0 && s.EndgameTurns > 0 {
		s.EndgameTurns--
	}
	s.Elim()
}

// ApplyPlay moves a revealed card onto its play stack.
func (s *State) ApplyPlay(a Action) {
	s.revealCard(a)
	s.Hands[a.PlayerIndex] = s.Hands[a.PlayerIndex].Remove(a.Order)
	s.PlayStacks[a.Suit] = a.Rank
	if a.Rank == deck.MaxRank && s.ClueTokens < MaxClueTokens {
		s.ClueTokens++
	}
	if s.CardsLeft == 0 && s.EndgameTurns > 0 {
		s.EndgameTurns--
	}
	s.Elim()
	s.UpdateHypoStacks()
}

// ApplyDiscard moves a revealed card to the discard pile. Failed
// discards are bombed plays: a strike instead of a clue token.
func (s *State) ApplyDiscard(a Action) {
	s.revealCard(a)
	s.Hands[a.PlayerIndex] = s.Hands[a.PlayerIndex].Remove(a.Order)
	s.DiscardStacks[a.Suit][a.Rank-1]++
	if a.Failed {
		s.Strikes++
	} else if s.ClueTokens < MaxClueTokens {
		s.ClueTokens++
	}
	// Losing the last copy caps the suit.
	id := deck.Identity{Suit: a.Suit, Rank: a.Rank}
	if s.DiscardStacks[a.Suit][a.Rank-1] == s.Variant.CardCount(id) && s.MaxRanks[a.Suit] >= a.Rank {
		s.MaxRanks[a.Suit] = a.Rank - 1
	}
	if s.CardsLeft == 0 && s.EndgameTurns > 0 {
		s.EndgameTurns--
	}
	s.Elim()
	s.UpdateHypoStacks()
}

// ReconcileOwn folds common knowledge about our own hand into the
// privileged view. The views stay separate structures; this is the only
// direction information flows between them for our cards.
func (s *State) ReconcileOwn() {
	for _, c := range s.Hands[s.OurPlayerIndex] {
		ct := s.Common.Thought(c.Order)
		mt := s.Me.Thought(c.Order)
		if ct == nil || mt == nil {
			continue
		}
		mt.Possible = mt.Possible.Intersect(ct.Possible)
		if inf := mt.Inferred.Intersect(ct.Inferred); !inf.Empty() {
			mt.Inferred = inf
		} else {
			mt.Inferred = mt.Possible.Intersect(ct.Inferred)
			if mt.Inferred.Empty() {
				mt.Inferred = mt.Possible
			}
		}
		mt.Clued = ct.Clued
		mt.NewlyClued = ct.NewlyClued
		mt.Finessed = ct.Finessed
		mt.ChopMoved = ct.ChopMoved
		mt.CalledToDiscard = ct.CalledToDiscard
		mt.Reset = ct.Reset
	}
}

// revealCard pins the card's true identity in the deck and both views.
func (s *State) revealCard(a Action) {
	c := s.CardByOrder(a.Order)
	if c == nil {
		return
	}
	c.Suit, c.Rank = a.Suit, a.Rank
	id := deck.Identity{Suit: a.Suit, Rank: a.Rank}
	for _, v := range []*View{s.Common, s.Me} {
		if t := v.Thought(a.Order); t != nil {
			t.Possible = deck.NewIdentitySet(id)
			t.Inferred = t.Possible
		}
	}
}

// MinimalCopy clones everything speculative search needs. The clone
// shares nothing mutable with the live state.
func (s *State) MinimalCopy() *State {
	out := &State{
		Variant:        s.Variant,
		NumPlayers:     s.NumPlayers,
		OurPlayerIndex: s.OurPlayerIndex,
		PlayerNames:    s.PlayerNames,
		Hands:          make([]Hand, len(s.Hands)),
		Deck:           make([]*Card, len(s.Deck)),
		PlayStacks:     append([]deck.Rank(nil), s.PlayStacks...),
		HypoStacks:     append([]deck.Rank(nil), s.HypoStacks...),
		DiscardStacks:  make([][]int, len(s.DiscardStacks)),
		MaxRanks:       append([]deck.Rank(nil), s.MaxRanks...),
		ClueTokens:     s.ClueTokens,
		Strikes:        s.Strikes,
		TurnCount:      s.TurnCount,
		CurrentPlayer:  s.CurrentPlayer,
		CardsLeft:      s.CardsLeft,
		EndgameTurns:   s.EndgameTurns,
		EarlyGame:      s.EarlyGame,
		InProgress:     s.InProgress,
		Actions:        append([]Action(nil), s.Actions...),
		LastActions:    append([]*Action(nil), s.LastActions...),
		NextIgnore:     append([]int(nil), s.NextIgnore...),
		Common:         s.Common.clone(),
		Me:             s.Me.clone(),
	}
	for i, st := range s.DiscardStacks {
		out.DiscardStacks[i] = append([]int(nil), st...)
	}
	for i, c := range s.Deck {
		if c != nil {
			cc := *c
			out.Deck[i] = &cc
		}
	}
	for i, hand := range s.Hands {
		out.Hands[i] = make(Hand, len(hand))
		for j, c := range hand {
			out.Hands[i][j] = out.Deck[c.Order]
		}
	}
	out.WaitingConnections = make([]WaitingConnection, len(s.WaitingConnections))
	for i := range s.WaitingConnections {
		out.WaitingConnections[i] = s.WaitingConnections[i].clone()
	}
	return out
}
