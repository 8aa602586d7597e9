package engine

import "fmt"

// Player holds one seat's hand, token counts and round status.
// Tokens are only moved by TokenBank; hands only through Round actions
// and the hand methods below.
type Player struct {
	index  int
	hand   []Card
	white  int
	black  int
	status PlayerStatus
}

// NewPlayer returns an active player with an empty hand and no tokens.
func NewPlayer(index int) *Player {
	return &Player{index: index, status: StatusActive}
}

// Index returns the seat index, fixed for the lifetime of the game.
func (p *Player) Index() int { return p.index }

// ---------------------------------------------------------------------------
// Hand
// ---------------------------------------------------------------------------

func (p *Player) AddCard(c Card) { p.hand = append(p.hand, c) }

func (p *Player) AddCards(cards []Card) { p.hand = append(p.hand, cards...) }

// RemoveCard removes one card of the given value from the hand.
func (p *Player) RemoveCard(c Card) error {
	for i, h := range p.hand {
		if h == c {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("player %d: card %s not in hand: %w", p.index, c, ErrNotFound)
}

// Hand returns a copy of the hand.
func (p *Player) Hand() []Card {
	out := make([]Card, len(p.hand))
	copy(out, p.hand)
	return out
}

func (p *Player) HandSize() int      { return len(p.hand) }
func (p *Player) HasEmptyHand() bool { return len(p.hand) == 0 }

// HasPlayableCard reports whether any card in hand can go on top.
func (p *Player) HasPlayableCard(top Card) bool {
	for _, c := range p.hand {
		if c.CanPlayOn(top) {
			return true
		}
	}
	return false
}

// PlayableCards returns the cards in hand that can go on top, in hand order.
func (p *Player) PlayableCards(top Card) []Card {
	var out []Card
	for _, c := range p.hand {
		if c.CanPlayOn(top) {
			out = append(out, c)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

// Quit marks the player out of the current round.
func (p *Player) Quit()                { p.status = StatusQuit }
func (p *Player) IsActive() bool       { return p.status == StatusActive }
func (p *Player) Status() PlayerStatus { return p.status }

// ResetForRound empties the hand and restores ACTIVE. Tokens are kept.
func (p *Player) ResetForRound() {
	p.hand = nil
	p.status = StatusActive
}

// ---------------------------------------------------------------------------
// Scoring
// ---------------------------------------------------------------------------

// HandPenalty sums the penalty of each distinct value in hand once,
// however many copies are held.
func (p *Player) HandPenalty() int {
	var seen [NumValues + 1]bool
	penalty := 0
	for _, c := range p.hand {
		if !c.Valid() || seen[c] {
			continue
		}
		seen[c] = true
		penalty += c.PenaltyValue()
	}
	return penalty
}

func (p *Player) WhiteTokens() int { return p.white }
func (p *Player) BlackTokens() int { return p.black }

// TotalPoints returns white×1 + black×10.
func (p *Player) TotalPoints() int {
	return p.white*WhiteTokenValue + p.black*BlackTokenValue
}
