package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/hanabforbots/internal/bot"
	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
	"github.com/lox/hanabforbots/internal/hgroup"
)

// Client runs one bot account against the server: it authenticates,
// joins a table, feeds the action stream into the bot and sends the
// bot's decisions back.
type Client struct {
	cfg    *Config
	ws     *WSClient
	clock  quartz.Clock
	logger *log.Logger

	// Observer, when set, receives every applied action with the state
	// after it. Used by the TUI.
	Observer func(a game.Action, s *game.State)

	mu      sync.Mutex
	tableID int
	bot     *bot.Bot
	notes   *NoteTracker
	acting  bool
}

// New creates a client from configuration.
func New(cfg *Config, clock quartz.Clock, logger *log.Logger) *Client {
	return &Client{
		cfg:    cfg,
		ws:     NewWSClient(cfg.Server.URL, logger),
		clock:  clock,
		logger: logger.WithPrefix("client"),
	}
}

// Run connects and plays until the context is cancelled or the
// connection drops.
func (c *Client) Run(ctx context.Context) error {
	cookie, err := c.ws.Login(c.cfg.Player.Name, c.cfg.Player.Password,
		time.Duration(c.cfg.Server.ConnectTimeout)*time.Second)
	if err != nil {
		return err
	}

	c.registerHandlers(ctx)

	if err := c.ws.Connect(cookie); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return c.ws.Disconnect()
		case <-c.ws.Done():
			return nil
		}
	})
	return g.Wait()
}

func (c *Client) registerHandlers(ctx context.Context) {
	c.ws.AddEventHandler("welcome", func(payload json.RawMessage) {
		var msg WelcomeMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.logger.Error("bad welcome message", "err", err)
			return
		}
		c.logger.Info("logged in", "username", msg.Username, "userID", msg.UserID)
		// Rejoin a game in progress.
		for _, tableID := range msg.PlayingAtTables {
			c.send("tableReattend", map[string]any{"tableID": tableID})
			return
		}
	})

	c.ws.AddEventHandler("table", func(payload json.RawMessage) {
		var msg TableMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return
		}
		if c.cfg.Player.TableName == "" || msg.Name != c.cfg.Player.TableName || msg.Running {
			return
		}
		c.logger.Info("joining table", "name", msg.Name, "tableID", msg.ID)
		c.send("tableJoin", map[string]any{"tableID": msg.ID})
	})

	c.ws.AddEventHandler("tableStart", func(payload json.RawMessage) {
		var msg struct {
			TableID int `json:"tableID"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			return
		}
		c.send("getGameInfo1", map[string]any{"tableID": msg.TableID})
	})

	c.ws.AddEventHandler("init", func(payload json.RawMessage) {
		var msg InitMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.logger.Error("bad init message", "err", err)
			return
		}
		c.startGame(msg)
		c.send("getGameInfo2", map[string]any{"tableID": msg.TableID})
	})

	c.ws.AddEventHandler("gameActionList", func(payload json.RawMessage) {
		var msg GameActionListMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.logger.Error("bad action list", "err", err)
			return
		}
		for _, wire := range msg.List {
			c.handleWire(wire)
		}
		c.send("loaded", map[string]any{"tableID": msg.TableID})
		c.maybeAct(ctx)
	})

	c.ws.AddEventHandler("gameAction", func(payload json.RawMessage) {
		var msg GameActionMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.logger.Error("bad game action", "err", err)
			return
		}
		c.handleWire(msg.Action)
		c.maybeAct(ctx)
	})

	c.ws.AddEventHandler("error", func(payload json.RawMessage) {
		c.logger.Error("server error", "payload", string(payload))
	})
	c.ws.AddEventHandler("warning", func(payload json.RawMessage) {
		c.logger.Warn("server warning", "payload", string(payload))
	})
}

// startGame builds a fresh bot for the table described by init.
func (c *Client) startGame(msg InitMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	variant := deck.VariantByName(msg.Options.VariantName)
	opts := bot.Options{
		Convention: hgroup.Options{
			Level:               c.cfg.Strategy.Level,
			MinClueValue:        c.cfg.Strategy.MinClueValue,
			PositionalThreshold: c.cfg.Strategy.PositionalThreshold,
		},
		SolverDeadline: time.Duration(c.cfg.Strategy.SolverDeadline) * time.Millisecond,
		SolverUnseen:   c.cfg.Strategy.SolverMaxUnseen,
	}

	c.tableID = msg.TableID
	c.bot = bot.New(msg.PlayerNames, msg.OurPlayerIndex, variant, opts, c.clock, c.logger)
	c.notes = NewNoteTracker(c.ws, msg.TableID)
	c.logger.Info("game started",
		"tableID", msg.TableID,
		"players", msg.PlayerNames,
		"seat", msg.OurPlayerIndex,
		"variant", variant.Name)
}

func (c *Client) handleWire(wire WireAction) {
	a, ok := wire.ToAction()
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bot == nil {
		return
	}
	if err := c.bot.HandleAction(a); err != nil {
		c.logger.Error("failed to handle action", "type", a.Type, "err", err)
		return
	}
	if c.Observer != nil {
		c.Observer(a, c.bot.State())
	}
}

// maybeAct schedules a decision when it is our move. The think delay
// keeps the bot from acting instantly on human tables.
func (c *Client) maybeAct(ctx context.Context) {
	c.mu.Lock()
	if c.bot == nil || !c.bot.OurTurn() || c.acting {
		c.mu.Unlock()
		return
	}
	c.acting = true
	turn := c.bot.State().TurnCount
	c.mu.Unlock()

	delay := time.Duration(c.cfg.Player.ThinkDelay) * time.Millisecond
	fired := make(chan struct{})
	timer := c.clock.AfterFunc(delay, func() { close(fired) })

	go func() {
		defer func() {
			c.mu.Lock()
			c.acting = false
			c.mu.Unlock()
		}()

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-fired:
		}

		// Hold the lock through the decision so the engine state cannot
		// shift under the solver.
		c.mu.Lock()
		if c.bot == nil || !c.bot.OurTurn() || c.bot.State().TurnCount != turn {
			c.mu.Unlock()
			return
		}
		perform := c.bot.DecideAction(ctx)
		notes, state := c.notes, c.bot.State()
		c.mu.Unlock()

		c.logger.Info("acting", "turn", turn, "type", perform.Type, "target", perform.Target, "value", perform.Value)
		c.send("action", PerformToWire(c.tableID, perform))

		if c.cfg.Player.SyncNotes && notes != nil {
			if err := notes.Sync(state); err != nil {
				c.logger.Warn("note sync failed", "err", err)
			}
		}
	}()
}

func (c *Client) send(command string, payload any) {
	if err := c.ws.Send(command, payload); err != nil {
		c.logger.Error("send failed", "command", command, "err", err)
	}
}
