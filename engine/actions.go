package engine

import "fmt"

// Decision is a turn action plus the card it applies to. Card is EmptyCard
// for draws and quits.
type Decision struct {
	Action TurnAction
	Card   Card
}

// Apply dispatches d for p. For draws it returns the drawn card; for plays
// the played card; for quits EmptyCard.
func (r *Round) Apply(p *Player, d Decision) (Card, error) {
	switch d.Action {
	case ActionPlayCard:
		if err := r.PlayCard(p, d.Card); err != nil {
			return EmptyCard, err
		}
		return d.Card, nil
	case ActionDrawCard:
		return r.DrawCard(p)
	case ActionQuit:
		return EmptyCard, r.QuitRound(p)
	}
	return EmptyCard, fmt.Errorf("unhandled turn action %d", d.Action)
}

// PlayCard moves c from p's hand onto the discard pile.
func (r *Round) PlayCard(p *Player, c Card) error {
	if err := r.validateCurrentPlayer(p); err != nil {
		return err
	}
	if !c.CanPlayOn(r.topCard) {
		return fmt.Errorf("player %d: %s on %s: %w", p.Index(), c, r.topCard, ErrIllegalPlay)
	}
	if err := p.RemoveCard(c); err != nil {
		return err
	}
	r.topCard = c
	r.discardCount++
	r.checkRoundEnd()
	return nil
}

// DrawCard moves the top deck card into p's hand and returns it.
func (r *Round) DrawCard(p *Player) (Card, error) {
	if err := r.validateCurrentPlayer(p); err != nil {
		return EmptyCard, err
	}
	if !r.CanDraw(p) {
		return EmptyCard, fmt.Errorf("player %d: deck empty or last active player: %w", p.Index(), ErrIllegalDraw)
	}
	c := r.deck.Draw()
	p.AddCard(c)
	// A draw cannot empty a hand; the check keeps every mutation on the same path.
	r.checkRoundEnd()
	return c, nil
}

// QuitRound takes p out of the round.
func (r *Round) QuitRound(p *Player) error {
	if err := r.validateCurrentPlayer(p); err != nil {
		return err
	}
	p.Quit()
	r.checkRoundEnd()
	return nil
}
