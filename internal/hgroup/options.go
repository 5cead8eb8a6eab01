package hgroup

import (
	"github.com/charmbracelet/log"
)

// Convention levels, loosely following the H-Group numbering. Higher
// levels unlock more aggressive reads.
const (
	LevelBasic        = 1
	LevelIntermediate = 2
	LevelBluffs       = 3
)

// Options control how aggressively the convention layer reads and gives
// clues.
type Options struct {
	// Level caps which convention reads are applied.
	Level int

	// MinClueValue is the minimum score a clue must reach before it is
	// preferred over discarding.
	MinClueValue float64

	// PositionalThreshold is the number of cards left in the deck at or
	// below which positional discards become legal.
	PositionalThreshold int
}

// DefaultOptions returns the settings used by the bot when the config
// file does not override them.
func DefaultOptions() Options {
	return Options{
		Level:               LevelBluffs,
		MinClueValue:        1,
		PositionalThreshold: 5,
	}
}

// HGroup interprets actions according to H-Group conventions. It
// implements game.Convention.
type HGroup struct {
	opts   Options
	logger *log.Logger
}

// New returns a convention layer with the given options.
func New(opts Options, logger *log.Logger) *HGroup {
	if opts.Level < LevelBasic {
		opts.Level = LevelBasic
	}
	return &HGroup{opts: opts, logger: logger.WithPrefix("hgroup")}
}
