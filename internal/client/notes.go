package client

import (
	"strings"
	"sync"

	"github.com/lox/hanabforbots/internal/game"
)

// NoteTracker mirrors our card beliefs onto the server as notes, the
// way human convention players annotate their hands. Notes are only
// written when they change.
type NoteTracker struct {
	ws      *WSClient
	tableID int

	mu   sync.Mutex
	last map[int]string
}

// NewNoteTracker creates a tracker for one table.
func NewNoteTracker(ws *WSClient, tableID int) *NoteTracker {
	return &NoteTracker{ws: ws, tableID: tableID, last: make(map[int]string)}
}

// Sync writes a note for every card in our hand whose belief changed.
func (n *NoteTracker) Sync(s *game.State) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, c := range s.Hands[s.OurPlayerIndex] {
		note := noteFor(s, c.Order)
		if note == "" || note == n.last[c.Order] {
			continue
		}
		if err := n.ws.Send("note", map[string]any{
			"tableID": n.tableID,
			"order":   c.Order,
			"note":    note,
		}); err != nil {
			return err
		}
		n.last[c.Order] = note
	}
	return nil
}

// noteFor renders one card's belief: its identity if pinned, otherwise
// the inference list, with convention flags appended.
func noteFor(s *game.State, order int) string {
	t := s.Common.Thoughts[order]
	if t == nil {
		return ""
	}

	var parts []string
	if id, ok := t.Identity(false); ok {
		parts = append(parts, id.String())
	} else if !t.Inferred.Empty() && t.Inferred.Len() <= 4 && t.Touched() {
		var ids []string
		for _, id := range t.Inferred.Identities() {
			ids = append(ids, id.String())
		}
		parts = append(parts, strings.Join(ids, "|"))
	}

	var flags []string
	if t.Finessed {
		flags = append(flags, "f")
	}
	if t.ChopMoved {
		flags = append(flags, "cm")
	}
	if t.CalledToDiscard {
		flags = append(flags, "dc")
	}
	trash := true
	for _, id := range t.Possible.Identities() {
		if !s.IsBasicTrash(id) {
			trash = false
			break
		}
	}
	if trash {
		flags = append(flags, "kt")
	}

	if len(flags) > 0 {
		parts = append(parts, "["+strings.Join(flags, ",")+"]")
	}
	return strings.Join(parts, " ")
}
