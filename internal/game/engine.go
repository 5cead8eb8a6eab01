package game

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/hanabforbots/internal/deck"
)

// ErrInvariantViolation indicates the belief model is unrecoverable:
// a logic bug or an inconsistent input log. It is the only error class
// that aborts the current decision cycle; everything else is recovered
// locally.
var ErrInvariantViolation = errors.New("invariant violation")

// maxRewindDepth bounds nested rewinds during replay. A correct log
// needs at most a couple; more means the model is oscillating.
const maxRewindDepth = 3

// RewindRequest asks the replay controller to re-simulate the action
// log from ActionIndex with the given pseudo-actions injected first.
// Returned up the stack instead of thrown so replay ordering stays
// auditable.
type RewindRequest struct {
	ActionIndex int
	// Order identifies the card being corrected; a card already marked
	// rewinded makes the request a no-op.
	Order  int
	Inject []Action
}

// Convention interprets actions under a shared rule set. Implementations
// mutate the state's belief views; any contradiction is reported as a
// RewindRequest rather than being repaired in place.
type Convention interface {
	// InterpretClue runs after direct clue elimination has been applied.
	InterpretClue(s *State, a Action) (*RewindRequest, error)
	// InterpretPlay and InterpretDiscard run before the card leaves the
	// hand, so the pre-reveal belief record is still available.
	InterpretPlay(s *State, a Action) (*RewindRequest, error)
	InterpretDiscard(s *State, a Action) (*RewindRequest, error)
	// UpdateTurn resolves waiting connections at a turn boundary.
	UpdateTurn(s *State, a Action) (*RewindRequest, error)
}

// Engine consumes the public action log one action at a time and keeps
// the belief state consistent, replaying history when an assumption is
// falsified.
type Engine struct {
	state  *State
	conv   Convention
	logger *log.Logger
	depth  int
}

// NewEngine creates an engine around a state and convention.
func NewEngine(state *State, conv Convention, logger *log.Logger) *Engine {
	return &Engine{state: state, conv: conv, logger: logger.WithPrefix("engine")}
}

// State returns the live state. The engine mutates it in place, so the
// pointer stays valid across rewinds.
func (e *Engine) State() *State { return e.state }

// HandleAction dispatches one action from the public log. The engine
// behaves identically whether actions arrive live or from a replay.
func (e *Engine) HandleAction(a Action) error {
	s := e.state
	s.Actions = append(s.Actions, a)

	switch a.Type {
	case ActionClue:
		s.ApplyClueTouch(a)
		req, err := e.conv.InterpretClue(s, a)
		if err != nil {
			return err
		}
		if req != nil {
			rewound, err := e.rewind(req)
			if err != nil || rewound {
				return err
			}
		}
		for _, order := range a.List {
			for _, v := range []*View{s.Common, s.Me} {
				if t := v.Thought(order); t != nil {
					t.NewlyClued = false
				}
			}
		}
		act := a
		s.LastActions[a.Giver] = &act
		s.NextIgnore = nil

	case ActionPlay:
		req, err := e.conv.InterpretPlay(s, a)
		if err != nil {
			return err
		}
		if req != nil {
			rewound, err := e.rewind(req)
			if err != nil || rewound {
				return err
			}
		}
		s.ApplyPlay(a)
		act := a
		s.LastActions[a.PlayerIndex] = &act

	case ActionDiscard:
		req, err := e.conv.InterpretDiscard(s, a)
		if err != nil {
			return err
		}
		if req != nil {
			rewound, err := e.rewind(req)
			if err != nil || rewound {
				return err
			}
		}
		s.ApplyDiscard(a)
		act := a
		s.LastActions[a.PlayerIndex] = &act

	case ActionDraw:
		s.Draw(a)

	case ActionTurn:
		s.TurnCount = a.Num + 1
		s.CurrentPlayer = a.CurrentPlayerIndex
		req, err := e.conv.UpdateTurn(s, a)
		if err != nil {
			return err
		}
		if req != nil {
			_, err := e.rewind(req)
			return err
		}

	case ActionIdentify:
		c := s.CardByOrder(a.Order)
		if c == nil || s.Hands[a.PlayerIndex].FindOrder(a.Order) == nil {
			return fmt.Errorf("%w: could not find card to rewrite (order %d)", ErrInvariantViolation, a.Order)
		}
		id, ok := a.Identity()
		if !ok {
			return fmt.Errorf("%w: identify action without identity (order %d)", ErrInvariantViolation, a.Order)
		}
		e.logger.Info("identifying card", "order", a.Order, "identity", id.String())
		c.Suit, c.Rank = id.Suit, id.Rank
		if t := s.Me.Thought(a.Order); t != nil {
			t.Possible = deck.NewIdentitySet(id)
			t.Inferred = t.Possible
			t.Rewinded = true
		}
		if t := s.Common.Thought(a.Order); t != nil {
			t.Rewinded = true
		}
		s.Elim()

	case ActionIgnore:
		if s.CardByOrder(a.Order) == nil {
			return fmt.Errorf("%w: could not find card to ignore (order %d)", ErrInvariantViolation, a.Order)
		}
		s.NextIgnore = append(s.NextIgnore, a.Order)

	case ActionGameOver:
		s.InProgress = false
	}

	return nil
}

// rewind re-simulates the action log from just before the falsified
// belief was formed, with corrective pseudo-actions injected.
// Idempotent: a card already marked rewinded is not rewound again, and
// the caller falls back to applying the current action normally.
func (e *Engine) rewind(req *RewindRequest) (bool, error) {
	s := e.state

	if t := s.Common.Thought(req.Order); t != nil && t.Rewinded {
		e.logger.Warn("card already rewinded, skipping", "order", req.Order)
		return false, nil
	}
	if e.depth >= maxRewindDepth {
		return false, fmt.Errorf("%w: rewind depth exceeded at action %d", ErrInvariantViolation, req.ActionIndex)
	}
	if req.ActionIndex < 0 || req.ActionIndex >= len(s.Actions) {
		return false, fmt.Errorf("%w: rewind action index %d out of range", ErrInvariantViolation, req.ActionIndex)
	}

	e.logger.Info("rewinding", "actionIndex", req.ActionIndex, "order", req.Order)

	// The current action was just appended; it is replayed as part of
	// the tail.
	history := append([]Action(nil), s.Actions...)

	fresh := NewState(s.PlayerNames, s.OurPlayerIndex, s.Variant)
	replay := &Engine{state: fresh, conv: e.conv, logger: e.logger, depth: e.depth + 1}

	for _, a := range history[:req.ActionIndex] {
		if err := replay.HandleAction(a); err != nil {
			return false, fmt.Errorf("rewind replay (before injection): %w", err)
		}
	}
	for _, a := range req.Inject {
		if err := replay.HandleAction(a); err != nil {
			return false, fmt.Errorf("rewind injection: %w", err)
		}
	}
	for _, a := range history[req.ActionIndex:] {
		if err := replay.HandleAction(a); err != nil {
			return false, fmt.Errorf("rewind replay (after injection): %w", err)
		}
	}

	// Swap the replayed state in without invalidating callers' pointers.
	*e.state = *replay.state
	return true, nil
}
