package game

import (
	"fmt"

	"github.com/lox/hanabforbots/internal/deck"
)

// ConnectionType tags how a connecting card completes a play sequence.
type ConnectionType int

const (
	// ConnKnown is a card already known to be the required identity.
	ConnKnown ConnectionType = iota
	// ConnPlayable is an unresolved but provably playable card.
	ConnPlayable
	// ConnPrompt reinterprets an already-touched card.
	ConnPrompt
	// ConnFinesse requires a blind play.
	ConnFinesse
	// ConnTerminate is a sentinel: the search must stop because every
	// player resolves the connection unambiguously (or not at all).
	ConnTerminate
	// ConnPositionalDiscard carries a slot-encoded playable signal.
	ConnPositionalDiscard
)

func (t ConnectionType) String() string {
	switch t {
	case ConnKnown:
		return "known"
	case ConnPlayable:
		return "playable"
	case ConnPrompt:
		return "prompt"
	case ConnFinesse:
		return "finesse"
	case ConnTerminate:
		return "terminate"
	case ConnPositionalDiscard:
		return "positional-discard"
	default:
		return "unknown"
	}
}

// Connection is one link of a play sequence discovered by the
// connection search.
type Connection struct {
	Type     ConnectionType
	Reacting int
	Order    int
	// Identities the connecting card is assigned. For hidden (layered)
	// connections this is the intermediate identity, not the one being
	// searched for.
	Identities []deck.Identity
	// Hidden marks a layered connection: the card must first resolve
	// to a different playable identity.
	Hidden bool
	// Bluff marks a finesse reading that is only valid if the chain
	// terminates at the first opportunity.
	Bluff bool
	// Self marks a connection through the clue receiver's own hand.
	Self bool
	// Known marks a playable connection whose identity is certain.
	Known bool
}

func (c Connection) String() string {
	return fmt.Sprintf("%s order %d on player %d", c.Type, c.Order, c.Reacting)
}

// WaitingConnection is a deferred hypothesis: a clue interpretation
// whose connections must resolve on subsequent turns before the focus
// inference is proven.
type WaitingConnection struct {
	Connections []Connection
	// ConnIndex is the head of the unresolved portion.
	ConnIndex   int
	FocusOrder  int
	Inference   deck.Identity
	Giver       int
	Target      int
	ActionIndex int
	// Symmetric connections track interpretations other players could
	// hold; they never write notes on anyone but the target.
	Symmetric bool
}

// Head returns the connection currently being waited on.
func (wc *WaitingConnection) Head() *Connection {
	if wc.ConnIndex >= len(wc.Connections) {
		return nil
	}
	return &wc.Connections[wc.ConnIndex]
}

func (wc *WaitingConnection) clone() WaitingConnection {
	out := *wc
	out.Connections = append([]Connection(nil), wc.Connections...)
	return out
}
