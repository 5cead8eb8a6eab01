package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/hanabforbots/internal/game"
)

// StateMsg carries an applied action and the state after it into the
// TUI. Sent from the client's observer callback via Program.Send.
type StateMsg struct {
	Action game.Action
	State  *game.State
}

// Model is the Bubble Tea model for watch mode: the table on top, the
// scrolling action log underneath.
type Model struct {
	styles *Styles

	logViewport viewport.Model
	gameLog     []string
	table       string
	ready       bool
	quitting    bool

	width  int
	height int
}

// NewModel creates the watch-mode model.
func NewModel() *Model {
	return &Model{styles: DefaultStyles()}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := msg.Height - lipgloss.Height(m.table) - 2
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.logViewport = viewport.New(msg.Width, logHeight)
			m.ready = true
		} else {
			m.logViewport.Width = msg.Width
			m.logViewport.Height = logHeight
		}
		m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
		return m, nil

	case StateMsg:
		if line := DescribeAction(msg.State, msg.Action); line != "" {
			m.gameLog = append(m.gameLog, line)
		}
		m.table = RenderState(msg.State, m.styles)
		if m.ready {
			m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
			m.logViewport.GotoBottom()
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.table == "" {
		return m.styles.Label.Render("waiting for a game to start...")
	}
	if !m.ready {
		return m.table
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.table, m.logViewport.View())
}
