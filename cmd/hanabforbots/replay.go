package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/hanabforbots/cmd/hanabforbots/shared"
	"github.com/lox/hanabforbots/internal/bot"
	"github.com/lox/hanabforbots/internal/client"
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/display"
	"github.com/lox/hanabforbots/internal/hgroup"
)

type ReplayCmd struct {
	File     string `arg:"" help:"Path to a recorded game (JSON)"`
	Seat     int    `default:"-1" help:"Seat to replay from (default: recorded seat)"`
	Verbose  bool   `help:"Print every action as it is applied"`
	LogLevel string `default:"warn" help:"Log level (debug|info|warn|error)"`
}

// replayFile is the on-disk format: table setup plus the full action
// log in wire form.
type replayFile struct {
	Players        []string            `json:"players"`
	OurPlayerIndex int                 `json:"ourPlayerIndex"`
	Variant        string              `json:"variant"`
	Actions        []client.WireAction `json:"actions"`
}

func (c *ReplayCmd) Run() error {
	logger := shared.SetupLogger(c.LogLevel)

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read replay: %w", err)
	}
	var replay replayFile
	if err := json.Unmarshal(data, &replay); err != nil {
		return fmt.Errorf("failed to parse replay: %w", err)
	}
	if len(replay.Players) < 2 {
		return fmt.Errorf("replay has %d players, need at least 2", len(replay.Players))
	}

	seat := replay.OurPlayerIndex
	if c.Seat >= 0 {
		if c.Seat >= len(replay.Players) {
			return fmt.Errorf("seat %d out of range for %d players", c.Seat, len(replay.Players))
		}
		seat = c.Seat
	}

	opts := bot.Options{
		Convention:     hgroup.DefaultOptions(),
		SolverDeadline: 5 * time.Second,
		SolverUnseen:   2,
	}
	b := bot.New(replay.Players, seat, deck.VariantByName(replay.Variant), opts, quartz.NewReal(), logger)

	styles := display.DefaultStyles()
	for _, wire := range replay.Actions {
		a, ok := wire.ToAction()
		if !ok {
			continue
		}
		if err := b.HandleAction(a); err != nil {
			return fmt.Errorf("replay diverged at turn %d: %w", b.State().TurnCount, err)
		}
		if c.Verbose {
			if line := display.DescribeAction(b.State(), a); line != "" {
				fmt.Println(line)
			}
		}
	}

	fmt.Println(display.RenderState(b.State(), styles))
	return nil
}
