// Package endgame exhaustively searches the final turns of a game for
// a line that reaches the maximum score. The searcher cannot see our
// own hand or the draw pile, so it enumerates every arrangement of the
// unseen cards, solves each arrangement with perfect information, and
// only recommends an action that wins in all of them.
//
// Failing to find such an action is reported as ErrUnsolved, which is
// not the same as the game being lost; the caller falls back to
// convention play.
package endgame
