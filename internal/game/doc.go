// Package game implements the core Hanabi belief model: the live game
// state, the per-observer thought tables, and the action replay engine.
//
// The main types are State, which is mutated in place by the action
// stream, and Engine, which dispatches actions to a Convention and owns
// the rewind controller used for contradiction recovery.
//
// # Basic Usage
//
// Create a state for a fresh game and feed it actions:
//
//	s := game.NewState(playerNames, ourIndex, deck.NoVariant())
//	e := game.NewEngine(s, conv, logger)
//	for _, action := range actions {
//	    if err := e.HandleAction(action, false); err != nil {
//	        // the belief model is unrecoverable
//	    }
//	}
//
// # Belief Views
//
// Every card order has two belief records: one in s.Common (what any
// rational player could deduce from the public log) and one in s.Me
// (privileged by our private knowledge of everyone else's hand). The
// two tables are independent; they are reconciled explicitly rather
// than aliased, so a speculative update to one can never leak into the
// other.
//
// # Determinism
//
// Replaying the same action log twice from a fresh engine yields
// identical inferred sets on every card at every turn. The solver and
// clue finder operate on MinimalCopy snapshots so speculative search
// never corrupts the live state.
package game
