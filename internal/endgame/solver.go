package endgame

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/hanabforbots/internal/deck"
	"github.com/lox/hanabforbots/internal/game"
)

// ErrUnsolved means no action provably wins within the search limits.
// The game may still be winnable.
var ErrUnsolved = errors.New("endgame: no forced win found")

// ClueFinder proposes the clues the convention layer would actually
// give from our seat. Without one the solver falls back to a generic
// stall clue.
type ClueFinder interface {
	FindClues(s *game.State, player int) []game.PerformAction
}

// Solver searches endgame positions for a forced maximum score.
type Solver struct {
	clock    quartz.Clock
	logger   *log.Logger
	deadline time.Duration
	clues    ClueFinder
	// maxUnseen caps the distinct useful identities we are willing to
	// enumerate arrangements over.
	maxUnseen int
}

// New returns a solver. deadline bounds wall-clock time per Solve call;
// maxUnseen caps how much hidden information the solver will tolerate.
func New(clock quartz.Clock, logger *log.Logger, deadline time.Duration, maxUnseen int) *Solver {
	return &Solver{
		clock:     clock,
		logger:    logger.WithPrefix("endgame"),
		deadline:  deadline,
		maxUnseen: maxUnseen,
	}
}

// UseClueFinder routes root clue generation through the convention
// layer instead of the generic stall.
func (sv *Solver) UseClueFinder(f ClueFinder) {
	sv.clues = f
}

// position is a perfect-information game node: the materialized state
// plus the remaining draw pile and the player to move.
type position struct {
	state  *game.State
	draw   []deck.Identity
	player int
}

type move struct {
	perform game.PerformAction
	// order is set for plays and discards; -1 for a stall clue.
	order int
}

// Solve looks for an action guaranteed to keep a maximum score
// reachable in every arrangement of the unseen cards.
func (sv *Solver) Solve(ctx context.Context, s *game.State) (game.PerformAction, error) {
	start := sv.clock.Now()
	max := s.Variant.MaxScore()
	if s.MaxScore() < max {
		return game.PerformAction{}, ErrUnsolved
	}

	unseen := unseenCards(s)
	distinct := make(map[deck.Identity]bool)
	for _, id := range unseen {
		if !s.IsBasicTrash(id) {
			distinct[id] = true
		}
	}
	if len(distinct) > sv.maxUnseen {
		sv.logger.Debug("too much hidden information",
			"distinctUseful", len(distinct), "max", sv.maxUnseen)
		return game.PerformAction{}, ErrUnsolved
	}

	orders := unknownOrders(s)
	if len(unseen) != len(orders)+s.CardsLeft {
		return game.PerformAction{}, fmt.Errorf("endgame: unseen count %d does not cover %d slots",
			len(unseen), len(orders)+s.CardsLeft)
	}

	all, ok := enumerate(unseen)
	if !ok {
		sv.logger.Debug("too many arrangements", "bound", maxArrangements)
		return game.PerformAction{}, ErrUnsolved
	}
	// Only arrangements our own possibility sets allow are real worlds;
	// demanding a win in the others would refuse provable wins.
	arrs := all[:0]
	for _, arr := range all {
		if fitsPossible(s, orders, arr) {
			arrs = append(arrs, arr)
		}
	}
	if len(arrs) == 0 {
		return game.PerformAction{}, ErrUnsolved
	}

	moves := sv.rootMoves(s)
	if len(moves) == 0 {
		return game.PerformAction{}, ErrUnsolved
	}

	wins := make([]int, len(moves))
	cache := make(map[string]bool)
	for _, arr := range arrs {
		base := materialize(s, orders, arr)
		for mi, m := range moves {
			child, legal := sv.applyMove(base, m)
			if !legal {
				continue
			}
			win, err := sv.winnable(ctx, child, cache, start)
			if err != nil {
				sv.logger.Debug("search aborted", "err", err)
				return game.PerformAction{}, ErrUnsolved
			}
			if win {
				wins[mi]++
			}
		}
	}

	best := -1
	for mi := range moves {
		if wins[mi] == len(arrs) {
			if best == -1 || sv.preferMove(moves[mi], moves[best]) {
				best = mi
			}
		}
	}
	if best == -1 {
		return game.PerformAction{}, ErrUnsolved
	}
	sv.logger.Info("forced win found",
		"action", moves[best].perform.Type,
		"arrangements", len(arrs),
		"elapsed", sv.clock.Now().Sub(start))
	return moves[best].perform, nil
}

// preferMove breaks ties between fully winning moves: plays over clues
// over discards.
func (sv *Solver) preferMove(a, b move) bool {
	rank := func(m move) int {
		switch m.perform.Type {
		case game.PerformPlay:
			return 0
		case game.PerformClueColour, game.PerformClueRank:
			return 1
		default:
			return 2
		}
	}
	return rank(a) < rank(b)
}

// rootMoves lists every action we could take this turn, before knowing
// our own cards: play or discard any slot, or stall with a clue.
func (sv *Solver) rootMoves(s *game.State) []move {
	var moves []move
	for _, c := range s.Hands[s.OurPlayerIndex] {
		moves = append(moves, move{
			perform: game.PerformAction{Type: game.PerformPlay, Target: c.Order},
			order:   c.Order,
		})
	}
	if s.ClueTokens < game.MaxClueTokens {
		for _, c := range s.Hands[s.OurPlayerIndex] {
			moves = append(moves, move{
				perform: game.PerformAction{Type: game.PerformDiscard, Target: c.Order},
				order:   c.Order,
			})
		}
	}
	if s.ClueTokens > 0 {
		clued := false
		if sv.clues != nil {
			for _, perform := range sv.clues.FindClues(s, s.OurPlayerIndex) {
				moves = append(moves, move{perform: perform, order: -1})
				clued = true
			}
		}
		if !clued {
			if clue, ok := sv.stallClue(s, s.OurPlayerIndex); ok {
				moves = append(moves, move{perform: clue, order: -1})
			}
		}
	}
	return moves
}

// stallClue picks an arbitrary legal clue; in perfect-information
// search all clues are interchangeable.
func (sv *Solver) stallClue(s *game.State, player int) (game.PerformAction, bool) {
	for i := 1; i < s.NumPlayers; i++ {
		target := (player + i) % s.NumPlayers
		for _, c := range s.Hands[target] {
			if id, ok := c.Identity(); ok {
				return game.PerformAction{
					Type:   game.PerformClueRank,
					Target: target,
					Value:  int(id.Rank),
				}, true
			}
		}
	}
	return game.PerformAction{}, false
}

// materialize pins the arrangement onto a clone: our unknown cards take
// the leading identities, the rest becomes the draw pile.
func materialize(s *game.State, orders []int, arr arrangement) *position {
	clone := s.MinimalCopy()
	for i, order := range orders {
		c := clone.CardByOrder(order)
		c.Suit, c.Rank = arr[i].Suit, arr[i].Rank
	}
	// Our cards that elimination has already determined carry no face
	// value either; give them their pinned identity.
	for _, c := range clone.Hands[s.OurPlayerIndex] {
		if _, ok := c.Identity(); ok {
			continue
		}
		if id, ok := s.Me.Thoughts[c.Order].Possible.Single(); ok {
			c.Suit, c.Rank = id.Suit, id.Rank
		}
	}
	return &position{
		state:  clone,
		draw:   arr[len(orders):],
		player: s.OurPlayerIndex,
	}
}

// applyMove executes one move on a copy of the position. legal is false
// when the move cannot help in this arrangement: playing a card that
// would bomb, or discarding when it is forbidden.
func (sv *Solver) applyMove(pos *position, m move) (*position, bool) {
	next := &position{
		state:  pos.state.MinimalCopy(),
		draw:   pos.draw,
		player: pos.state.NextPlayer(pos.player),
	}
	s := next.state

	switch m.perform.Type {
	case game.PerformPlay:
		c := s.CardByOrder(m.order)
		id, ok := c.Identity()
		if !ok || !s.IsPlayable(id) {
			return nil, false
		}
		s.ApplyPlay(game.Action{
			Type: game.ActionPlay, PlayerIndex: pos.player,
			Order: m.order, Suit: id.Suit, Rank: id.Rank,
		})
		next.drawOne(pos.player)

	case game.PerformDiscard:
		if s.ClueTokens >= game.MaxClueTokens {
			return nil, false
		}
		c := s.CardByOrder(m.order)
		id, ok := c.Identity()
		if !ok {
			return nil, false
		}
		s.ApplyDiscard(game.Action{
			Type: game.ActionDiscard, PlayerIndex: pos.player,
			Order: m.order, Suit: id.Suit, Rank: id.Rank,
		})
		next.drawOne(pos.player)

	case game.PerformClueColour, game.PerformClueRank:
		if s.ClueTokens == 0 {
			return nil, false
		}
		s.ClueTokens--
		if s.CardsLeft == 0 && s.EndgameTurns > 0 {
			s.EndgameTurns--
		}
	}
	return next, true
}

// drawOne moves the top of the draw pile into the player's hand.
func (p *position) drawOne(player int) {
	if len(p.draw) == 0 {
		return
	}
	id := p.draw[0]
	p.draw = p.draw[1:]
	p.state.Draw(game.Action{
		Type:        game.ActionDraw,
		PlayerIndex: player,
		Order:       len(p.state.Deck),
		Suit:        id.Suit,
		Rank:        id.Rank,
	})
}

// winnable reports whether the player to move can force the maximum
// score with perfect information.
func (sv *Solver) winnable(ctx context.Context, pos *position, cache map[string]bool, start time.Time) (bool, error) {
	s := pos.state
	max := s.Variant.MaxScore()
	if s.Score() == max {
		return true, nil
	}
	if s.MaxScore() < max || s.EndgameTurns == 0 {
		return false, nil
	}
	if unwinnableState(pos) {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if sv.clock.Now().Sub(start) > sv.deadline {
		return false, fmt.Errorf("deadline %s exceeded", sv.deadline)
	}

	key := positionKey(pos)
	if win, ok := cache[key]; ok {
		return win, nil
	}

	for _, m := range sv.nodeMoves(pos) {
		child, legal := sv.applyMove(pos, m)
		if !legal {
			continue
		}
		win, err := sv.winnable(ctx, child, cache, start)
		if err != nil {
			return false, err
		}
		if win {
			cache[key] = true
			return true, nil
		}
	}
	cache[key] = false
	return false, nil
}

// unwinnableState is a cheap necessary-condition check run before the
// expensive branch: negative pace, more void hands than the pace can
// absorb, or too few final-round turns for the cards still needed.
func unwinnableState(pos *position) bool {
	s := pos.state
	pace := s.Pace()
	if pace < 0 {
		return true
	}
	voids := 0
	for _, hand := range s.Hands {
		useful := false
		for _, c := range hand {
			if id, ok := c.Identity(); ok && !s.IsBasicTrash(id) {
				useful = true
				break
			}
		}
		if !useful {
			voids++
		}
	}
	if voids > pace {
		return true
	}
	if s.CardsLeft == 0 {
		needed := 0
		for suit, top := range s.PlayStacks {
			if m := s.MaxRanks[suit]; m > top {
				needed += int(m - top)
			}
		}
		if needed > s.EndgameTurns {
			return true
		}
	}
	return false
}

// nodeMoves lists the player's options under perfect information:
// every playable card, one discard per distinct identity, one stall.
func (sv *Solver) nodeMoves(pos *position) []move {
	s := pos.state
	var moves []move
	seen := make(map[deck.Identity]bool)
	for _, c := range s.Hands[pos.player] {
		id, ok := c.Identity()
		if !ok {
			continue
		}
		if s.IsPlayable(id) {
			moves = append(moves, move{
				perform: game.PerformAction{Type: game.PerformPlay, Target: c.Order},
				order:   c.Order,
			})
		}
		if s.ClueTokens < game.MaxClueTokens && !seen[id] {
			seen[id] = true
			moves = append(moves, move{
				perform: game.PerformAction{Type: game.PerformDiscard, Target: c.Order},
				order:   c.Order,
			})
		}
	}
	if s.ClueTokens > 0 {
		if clue, ok := sv.stallClue(s, pos.player); ok {
			moves = append(moves, move{perform: clue, order: -1})
		}
	}
	return moves
}

// positionKey folds the decision-relevant parts of a position into a
// cache key. Hands are keyed by identity, not position, since perfect
// information makes slots interchangeable. The draw pile is keyed by
// its full remaining sequence: two arrangements can otherwise reach
// identical hands while holding different face-down cards, and a
// result cached for one would be wrong for the other.
func positionKey(pos *position) string {
	s := pos.state
	var b strings.Builder
	b.WriteString(strconv.Itoa(pos.player))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(s.ClueTokens))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(s.EndgameTurns))
	b.WriteByte('|')
	for _, id := range pos.draw {
		b.WriteString(id.String())
	}
	b.WriteByte('|')
	for _, r := range s.PlayStacks {
		b.WriteByte(byte('0' + r))
	}
	for _, hand := range s.Hands {
		b.WriteByte('|')
		ids := make([]string, 0, len(hand))
		for _, c := range hand {
			if id, ok := c.Identity(); ok {
				ids = append(ids, id.String())
			}
		}
		sort.Strings(ids)
		b.WriteString(strings.Join(ids, ","))
	}
	return b.String()
}
