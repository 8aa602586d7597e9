package engine

import "fmt"

// validateCurrentPlayer fails unless the round is running and p is the
// active player whose turn it is.
func (r *Round) validateCurrentPlayer(p *Player) error {
	if r.over {
		return fmt.Errorf("round is already over: %w", ErrTurnOrder)
	}
	if p == nil || p != r.players[r.current] {
		idx := -1
		if p != nil {
			idx = p.Index()
		}
		return fmt.Errorf("player %d acted on player %d's turn: %w", idx, r.players[r.current].Index(), ErrTurnOrder)
	}
	if !p.IsActive() {
		return fmt.Errorf("player %d has quit the round: %w", p.Index(), ErrTurnOrder)
	}
	return nil
}

// CanDraw reports whether p may draw: the deck is not empty and p is not
// the only player still in the round.
func (r *Round) CanDraw(p *Player) bool {
	if r.deck.IsEmpty() {
		return false
	}
	return !r.isLastActivePlayer(p)
}

func (r *Round) isLastActivePlayer(p *Player) bool {
	return p.IsActive() && r.ActivePlayerCount() == 1
}

// ValidActions returns the actions available to p, in PLAY, DRAW, QUIT order.
// QUIT is always present.
func (r *Round) ValidActions(p *Player) []TurnAction {
	actions := make([]TurnAction, 0, 3)
	if p.HasPlayableCard(r.topCard) {
		actions = append(actions, ActionPlayCard)
	}
	if r.CanDraw(p) {
		actions = append(actions, ActionDrawCard)
	}
	return append(actions, ActionQuit)
}

// IsLegal reports whether d would be accepted for p right now.
func (r *Round) IsLegal(p *Player, d Decision) bool {
	if r.validateCurrentPlayer(p) != nil {
		return false
	}
	switch d.Action {
	case ActionPlayCard:
		if !d.Card.CanPlayOn(r.topCard) {
			return false
		}
		for _, c := range p.hand {
			if c == d.Card {
				return true
			}
		}
		return false
	case ActionDrawCard:
		return r.CanDraw(p)
	case ActionQuit:
		return true
	}
	return false
}
