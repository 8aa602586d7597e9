package engine

import "fmt"

// Round is one play cycle, from the initial deal until a hand empties or
// every player has quit. It is driven by a single caller; once over it no
// longer changes.
type Round struct {
	players      []*Player
	deck         *Deck
	current      int
	topCard      Card
	discardCount int // cards on the discard pile, including the starting card

	over            bool
	endReason       RoundEndReason
	handEmptyPlayer *Player
	scored          bool
}

// NewRound deals rules.HandSize cards to each player in seat order, turns
// the next deck card face up as the discard top, and gives the turn to
// startIndex. Players must already be reset for the round.
func NewRound(players []*Player, deck *Deck, startIndex int, rules HouseRules) (*Round, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("new round: no players")
	}
	if startIndex < 0 || startIndex >= len(players) {
		return nil, fmt.Errorf("new round: start index %d out of range [0,%d)", startIndex, len(players))
	}
	r := &Round{
		players: append([]*Player(nil), players...),
		deck:    deck,
		current: startIndex,
	}
	for _, p := range r.players {
		cards, err := deck.Deal(int(rules.HandSize))
		if err != nil {
			return nil, fmt.Errorf("new round: deal to player %d: %w", p.Index(), err)
		}
		p.AddCards(cards)
	}
	r.topCard = deck.Draw()
	if r.topCard == EmptyCard {
		return nil, fmt.Errorf("new round: no card left for the discard pile: %w", ErrResourceExhausted)
	}
	r.discardCount = 1
	return r, nil
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

func (r *Round) TopCard() Card             { return r.topCard }
func (r *Round) CurrentPlayerIndex() int   { return r.current }
func (r *Round) CurrentPlayer() *Player    { return r.players[r.current] }
func (r *Round) IsOver() bool              { return r.over }
func (r *Round) IsScored() bool            { return r.scored }
func (r *Round) EndReason() RoundEndReason { return r.endReason }
func (r *Round) DeckRemaining() int        { return r.deck.Remaining() }
func (r *Round) DiscardCount() int         { return r.discardCount }
func (r *Round) NumPlayers() int           { return len(r.players) }
func (r *Round) Player(index int) *Player  { return r.players[index] }

// HandEmptyPlayer returns the player who emptied their hand, or nil unless
// the round ended with EndHandEmpty.
func (r *Round) HandEmptyPlayer() *Player { return r.handEmptyPlayer }

// Players returns a copy of the seat list.
func (r *Round) Players() []*Player {
	return append([]*Player(nil), r.players...)
}

// ActivePlayerCount returns how many players have not quit.
func (r *Round) ActivePlayerCount() int {
	n := 0
	for _, p := range r.players {
		if p.IsActive() {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Turn advancement
// ---------------------------------------------------------------------------

// AdvanceTurn moves the turn to the next active player, skipping players
// who quit and wrapping around the table. It stops if it comes back to the
// starting seat, and does nothing once the round is over.
func (r *Round) AdvanceTurn() int {
	if r.over {
		return r.current
	}
	n := len(r.players)
	start := r.current
	for {
		r.current = (r.current + 1) % n
		if r.players[r.current].IsActive() || r.current == start {
			break
		}
	}
	return r.current
}
