// Package bot ties the belief engine, the convention layer and the
// endgame solver into a single decision maker for one seat at a table.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/endgame"
	"github.com/lox/hanabforbots/internal/game"
	"github.com/lox/hanabforbots/internal/hgroup"
)

// Options configure a bot's strategy.
type Options struct {
	Convention     hgroup.Options
	SolverDeadline time.Duration
	SolverUnseen   int
}

// Bot holds the belief state for one game and decides our actions.
type Bot struct {
	engine *game.Engine
	conv   *hgroup.HGroup
	solver *endgame.Solver
	logger *log.Logger
}

// New creates a bot for a fresh game.
func New(playerNames []string, ourPlayerIndex int, variant *deck.Variant, opts Options, clock quartz.Clock, logger *log.Logger) *Bot {
	conv := hgroup.New(opts.Convention, logger)
	state := game.NewState(playerNames, ourPlayerIndex, variant)
	solver := endgame.New(clock, logger, opts.SolverDeadline, opts.SolverUnseen)
	solver.UseClueFinder(conv)
	return &Bot{
		engine: game.NewEngine(state, conv, logger),
		conv:   conv,
		solver: solver,
		logger: logger.WithPrefix("bot"),
	}
}

// HandleAction feeds one action from the server log into the engine.
func (b *Bot) HandleAction(a game.Action) error {
	return b.engine.HandleAction(a)
}

// State returns the live game state.
func (b *Bot) State() *game.State {
	return b.engine.State()
}

// OurTurn reports whether we are the player to act.
func (b *Bot) OurTurn() bool {
	s := b.engine.State()
	return s.InProgress && s.CurrentPlayer == s.OurPlayerIndex
}

// DecideAction picks our move. Deep in the game the exhaustive solver
// gets the first try; an unsolved position falls back to convention
// play.
func (b *Bot) DecideAction(ctx context.Context) game.PerformAction {
	s := b.engine.State()
	if s.InEndgame() {
		perform, err := b.solver.Solve(ctx, s)
		if err == nil {
			b.logger.Info("endgame solver move", "type", perform.Type, "target", perform.Target)
			return perform
		}
		if !errors.Is(err, endgame.ErrUnsolved) {
			b.logger.Warn("endgame solver failed", "err", err)
		}
	}
	return b.conv.TakeAction(s)
}
