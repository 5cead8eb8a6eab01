package hgroup

import (
	"github.com/lox/hanabforbots/internal/game"
)

// InterpretPlay checks a play against the beliefs held about the card.
// A successful play that contradicts a committed inference means some
// earlier interpretation was wrong, so the action log is replayed with
// the card's true identity pinned from the start of the belief.
func (h *HGroup) InterpretPlay(s *game.State, a game.Action) (*game.RewindRequest, error) {
	id, ok := a.Identity()
	t := s.Common.Thoughts[a.Order]
	if !ok || t == nil {
		return nil, nil
	}

	if !t.Rewinded && !t.Inferred.Empty() && !t.Inferred.Has(id) && len(t.Reasoning) > 0 {
		h.logger.Info("play contradicts beliefs",
			"player", a.PlayerIndex, "order", a.Order, "identity", id,
			"inferred", t.Inferred)
		return &game.RewindRequest{
			ActionIndex: t.Reasoning[0],
			Order:       a.Order,
			Inject: []game.Action{{
				Type:        game.ActionIdentify,
				PlayerIndex: a.PlayerIndex,
				Order:       a.Order,
				Suit:        id.Suit,
				Rank:        id.Rank,
			}},
		}, nil
	}
	return nil, nil
}
