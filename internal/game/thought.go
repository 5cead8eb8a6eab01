package game

import "github.com/lox/hanabforbots/internal/deck"

// Thought is one observer's belief record for a single card order.
// Possible shrinks monotonically under elimination (except on rewind);
// Inferred is the convention-derived subset and may temporarily be
// narrower than the truth while a finesse is outstanding.
type Thought struct {
	Order int

	Possible deck.IdentitySet
	Inferred deck.IdentitySet

	// OldInferred is snapshotted before a connection is applied so the
	// inference can be restored if the connection is falsified.
	OldInferred *deck.IdentitySet

	Clued           bool
	NewlyClued      bool
	Finessed        bool
	Hidden          bool
	Bluffed         bool
	ChopMoved       bool
	CalledToDiscard bool
	Rewinded        bool
	Reset           bool
	Superposition   bool

	FinesseIndex int

	// Reasoning records the action indices at which this belief
	// changed; the rewind controller uses it to locate the replay point.
	Reasoning []int
}

func newThought(order int, possible deck.IdentitySet) *Thought {
	return &Thought{
		Order:        order,
		Possible:     possible,
		Inferred:     possible,
		FinesseIndex: -1,
	}
}

// Touched reports whether the card carries information (clued or
// finessed).
func (t *Thought) Touched() bool {
	return t.Clued || t.Finessed
}

// Identity returns the identity this observer knows the card to be.
// With infer set, a singleton inferred set also counts as known.
func (t *Thought) Identity(infer bool) (deck.Identity, bool) {
	if id, ok := t.Possible.Single(); ok {
		return id, true
	}
	if infer {
		if id, ok := t.Inferred.Single(); ok {
			return id, true
		}
	}
	return deck.Identity{}, false
}

// Matches reports whether the card could be id from this observer's
// perspective, preferring inferred knowledge when infer is set.
func (t *Thought) Matches(id deck.Identity, infer bool) bool {
	if known, ok := t.Identity(infer); ok {
		return known == id
	}
	return false
}

// Intersect narrows the inferred set, keeping inferred within possible.
func (t *Thought) Intersect(ids deck.IdentitySet) {
	t.Inferred = t.Inferred.Intersect(ids).Intersect(t.Possible)
}

// Subtract removes identities from the inferred set.
func (t *Thought) Subtract(ids deck.IdentitySet) {
	t.Inferred = t.Inferred.Subtract(ids)
}

// Union adds identities back into the inferred set, bounded by possible.
func (t *Thought) Union(ids deck.IdentitySet) {
	t.Inferred = t.Inferred.Union(ids).Intersect(t.Possible)
}

// SaveInferred snapshots the current inferred set unless a snapshot is
// already held for an unresolved connection.
func (t *Thought) SaveInferred() {
	if t.OldInferred == nil {
		saved := t.Inferred
		t.OldInferred = &saved
	}
}

// RestoreInferred reverts to the snapshot taken before a connection
// was applied. Reports whether a snapshot existed.
func (t *Thought) RestoreInferred() bool {
	if t.OldInferred == nil {
		return false
	}
	t.Inferred = *t.OldInferred
	t.OldInferred = nil
	return true
}

// RecordReasoning appends the action index if it is not already the
// latest entry.
func (t *Thought) RecordReasoning(actionIndex int) {
	if n := len(t.Reasoning); n > 0 && t.Reasoning[n-1] == actionIndex {
		return
	}
	t.Reasoning = append(t.Reasoning, actionIndex)
}

func (t *Thought) clone() *Thought {
	tt := *t
	if t.OldInferred != nil {
		saved := *t.OldInferred
		tt.OldInferred = &saved
	}
	tt.Reasoning = append([]int(nil), t.Reasoning...)
	return &tt
}
