package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// EventHandler is a function that handles one incoming command frame
type EventHandler func(payload json.RawMessage)

// WSClient maintains the WebSocket session with the game server. The
// server authenticates over HTTP first and hands back a session cookie
// that must accompany the upgrade request.
type WSClient struct {
	serverURL string
	logger    *log.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	handlers  map[string][]EventHandler
	stopChan  chan struct{}
	done      chan struct{}

	// writeMu serialises frame writes; gorilla/websocket supports at
	// most one concurrent writer per connection.
	writeMu sync.Mutex
}

// NewWSClient creates a new WebSocket client
func NewWSClient(serverURL string, logger *log.Logger) *WSClient {
	return &WSClient{
		serverURL: serverURL,
		logger:    logger.WithPrefix("ws"),
		handlers:  make(map[string][]EventHandler),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Login authenticates against the HTTP endpoint and returns the session
// cookie needed for the WebSocket upgrade.
func (c *WSClient) Login(username, password string, timeout time.Duration) (string, error) {
	base, err := url.Parse(c.serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch base.Scheme {
	case "ws":
		base.Scheme = "http"
	case "wss":
		base.Scheme = "https"
	}
	loginURL := *base
	loginURL.Path = "/login"

	form := url.Values{
		"username": {username},
		"password": {password},
		"version":  {"bot"},
	}
	httpClient := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := httpClient.PostForm(loginURL.String(), form)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("login rejected (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "hanabi.sid" {
			return cookie.String(), nil
		}
	}
	return "", fmt.Errorf("login response carried no session cookie")
}

// Connect establishes the WebSocket connection using a session cookie
func (c *WSClient) Connect(cookie string) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// Already correct
	default:
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	c.logger.Info("Connecting to server", "url", u.String())

	header := http.Header{}
	if cookie != "" {
		header.Set("Cookie", cookie)
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readMessages()

	return nil
}

// Disconnect closes the WebSocket connection
func (c *WSClient) Disconnect() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	conn := c.conn
	close(c.stopChan)
	c.mu.Unlock()

	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		return conn.Close()
	}

	return nil
}

// Send writes one command frame to the server
func (c *WSClient) Send(command string, payload any) error {
	frame, err := encodeCommand(command, payload)
	if err != nil {
		return err
	}

	c.mu.RLock()
	conn, connected := c.conn, c.connected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return fmt.Errorf("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// AddEventHandler registers a handler for a specific command
func (c *WSClient) AddEventHandler(command string, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[command] = append(c.handlers[command], handler)
}

// IsConnected reports whether the session is up
func (c *WSClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Done is closed when the read pump exits, for any reason
func (c *WSClient) Done() <-chan struct{} {
	return c.done
}

// readMessages pumps incoming frames to their handlers
func (c *WSClient) readMessages() {
	defer close(c.done)
	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			wasConnected := c.connected
			c.connected = false
			c.mu.Unlock()

			if wasConnected {
				c.logger.Error("Connection lost", "error", err)
			}
			return
		}

		command, payload := decodeFrame(frame)

		c.mu.RLock()
		handlers := append([]EventHandler(nil), c.handlers[command]...)
		c.mu.RUnlock()

		if len(handlers) == 0 {
			c.logger.Debug("Unhandled command", "command", command)
			continue
		}
		for _, handler := range handlers {
			handler(payload)
		}
	}
}
