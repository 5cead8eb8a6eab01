package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/hanabforbots/cmd/hanabforbots/shared"
	"github.com/lox/hanabforbots/internal/client"
	"github.com/lox/hanabforbots/internal/display"
	"github.com/lox/hanabforbots/internal/game"
)

type PlayCmd struct {
	Config   string `default:"hanabforbots.hcl" help:"Path to HCL config file"`
	Server   string `help:"Server URL (overrides config)"`
	Name     string `help:"Account name (overrides config)"`
	Password string `help:"Account password (overrides config)"`
	Table    string `help:"Table to join on connect (overrides config)"`
	LogLevel string `default:"info" help:"Log level (debug|info|warn|error)"`
	LogJSON  bool   `help:"Output JSON logs instead of console format"`
	TUI      bool   `help:"Show a live table view while playing"`
}

func (c *PlayCmd) Run() error {
	logger := shared.SetupLogger(c.LogLevel)
	if c.LogJSON {
		logger = shared.SetupJSONLogger(c.LogLevel)
	}

	cfg, err := client.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Server != "" {
		cfg.Server.URL = c.Server
	}
	if c.Name != "" {
		cfg.Player.Name = c.Name
	}
	if c.Password != "" {
		cfg.Player.Password = c.Password
	}
	if c.Table != "" {
		cfg.Player.TableName = c.Table
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)
	cl := client.New(cfg, quartz.NewReal(), logger)

	if !c.TUI {
		return cl.Run(ctx)
	}

	program := tea.NewProgram(display.NewModel(), tea.WithAltScreen())
	cl.Observer = func(a game.Action, s *game.State) {
		program.Send(display.StateMsg{Action: a, State: s.MinimalCopy()})
	}

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer program.Quit()
		return cl.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return err
	})
	return g.Wait()
}
