package client

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete bot configuration
type Config struct {
	Server   ServerConnection `hcl:"server,block"`
	Player   PlayerSettings   `hcl:"player,block"`
	Strategy StrategySettings `hcl:"strategy,block"`
}

// ServerConnection contains server connection settings
type ServerConnection struct {
	URL               string `hcl:"url"`
	ConnectTimeout    int    `hcl:"connect_timeout,optional"`
	ReconnectAttempts int    `hcl:"reconnect_attempts,optional"`
	ReconnectDelay    int    `hcl:"reconnect_delay,optional"`
}

// PlayerSettings contains account and table settings
type PlayerSettings struct {
	Name     string `hcl:"name"`
	Password string `hcl:"password"`
	// TableName, when set, makes the bot join that table on connect.
	TableName string `hcl:"table_name,optional"`
	// ThinkDelay is the pause in milliseconds before acting.
	ThinkDelay int `hcl:"think_delay,optional"`
	SyncNotes  bool `hcl:"sync_notes,optional"`
}

// StrategySettings tunes the convention layer and the endgame solver
type StrategySettings struct {
	Level               int     `hcl:"level,optional"`
	MinClueValue        float64 `hcl:"min_clue_value,optional"`
	PositionalThreshold int     `hcl:"positional_threshold,optional"`
	// SolverDeadline is in milliseconds of wall-clock time per decision.
	SolverDeadline  int `hcl:"solver_deadline,optional"`
	SolverMaxUnseen int `hcl:"solver_max_unseen,optional"`
}

// DefaultConfig returns default bot configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConnection{
			URL:               "https://hanab.live",
			ConnectTimeout:    10,
			ReconnectAttempts: 3,
			ReconnectDelay:    5,
		},
		Player: PlayerSettings{
			ThinkDelay: 1000,
			SyncNotes:  true,
		},
		Strategy: StrategySettings{
			Level:               3,
			MinClueValue:        1,
			PositionalThreshold: 5,
			SolverDeadline:      5000,
			SolverMaxUnseen:     2,
		},
	}
}

// LoadConfig loads bot configuration from an HCL file
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()

	if config.Server.URL == "" {
		config.Server.URL = defaults.Server.URL
	}
	if config.Server.ConnectTimeout == 0 {
		config.Server.ConnectTimeout = defaults.Server.ConnectTimeout
	}
	if config.Server.ReconnectAttempts == 0 {
		config.Server.ReconnectAttempts = defaults.Server.ReconnectAttempts
	}
	if config.Server.ReconnectDelay == 0 {
		config.Server.ReconnectDelay = defaults.Server.ReconnectDelay
	}

	if config.Player.ThinkDelay == 0 {
		config.Player.ThinkDelay = defaults.Player.ThinkDelay
	}

	if config.Strategy.Level == 0 {
		config.Strategy.Level = defaults.Strategy.Level
	}
	if config.Strategy.MinClueValue == 0 {
		config.Strategy.MinClueValue = defaults.Strategy.MinClueValue
	}
	if config.Strategy.PositionalThreshold == 0 {
		config.Strategy.PositionalThreshold = defaults.Strategy.PositionalThreshold
	}
	if config.Strategy.SolverDeadline == 0 {
		config.Strategy.SolverDeadline = defaults.Strategy.SolverDeadline
	}
	if config.Strategy.SolverMaxUnseen == 0 {
		config.Strategy.SolverMaxUnseen = defaults.Strategy.SolverMaxUnseen
	}

	return &config, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server URL is required")
	}
	if c.Player.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if c.Player.Password == "" {
		return fmt.Errorf("player password is required")
	}
	if c.Strategy.Level < 1 || c.Strategy.Level > 3 {
		return fmt.Errorf("strategy level must be between 1 and 3, got %d", c.Strategy.Level)
	}
	return nil
}
