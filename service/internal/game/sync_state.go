// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
)

// ObfCard is a card as seen by one observer.
type ObfCard struct {
	ID      uuid.UUID `json:"id"`
	Value   string    `json:"value"`
	Penalty int       `json:"penalty"`
	Idx     int       `json:"idx"`
}

// ObfPlayerState is one seat as seen by the observer. Only the observer's
// own hand is revealed.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	IsAI          bool      `json:"isAi"`
	HandSize      int       `json:"handSize"`
	Status        string    `json:"status"`
	WhiteTokens   int       `json:"whiteTokens"`
	BlackTokens   int       `json:"blackTokens"`
	TotalPoints   int       `json:"totalPoints"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	// RevealedHand is populated only for the player requesting the state ('self').
	RevealedHand []ObfCard `json:"revealedHand,omitempty"`
}

// ObfGameState is the table as seen by one observer.
type ObfGameState struct {
	GameID          uuid.UUID        `json:"gameId"`
	Mode            string           `json:"mode"`
	Started         bool             `json:"started"`
	RoundOver       bool             `json:"roundOver"`
	GameOver        bool             `json:"gameOver"`
	Round           int              `json:"round"`
	TurnID          int              `json:"turnId"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	StartingPlayer  uuid.UUID        `json:"startingPlayerId"`
	DeckRemaining   int              `json:"deckRemaining"`
	DiscardCount    int              `json:"discardCount"`
	DiscardTop      *ObfCard         `json:"discardTop,omitempty"`
	WhiteSupply     int              `json:"whiteSupply"`
	BlackSupply     int              `json:"blackSupply"`
	ValidActions    []string         `json:"validActions,omitempty"` // observer's, on their turn
	Players         []ObfPlayerState `json:"players"`
}

// GetObfuscatedState returns a snapshot of the table for forPlayer. All
// slices are fresh copies.
func (g *LamaGame) GetObfuscatedState(forPlayer uuid.UUID) ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.obfuscatedState(forPlayer)
}

// obfuscatedState builds the snapshot from engine state.
// This function assumes the game lock is HELD by the caller.
func (g *LamaGame) obfuscatedState(forPlayer uuid.UUID) ObfGameState {
	obf := ObfGameState{
		GameID:    g.ID,
		Mode:      g.Mode.String(),
		Started:   g.Started,
		RoundOver: g.RoundOver,
		GameOver:  g.GameOver,
		TurnID:    g.TurnID,
	}

	obf.Players = make([]ObfPlayerState, len(g.Seats))
	for i, s := range g.Seats {
		obf.Players[i] = ObfPlayerState{PlayerID: s.ID, Name: s.Name, IsAI: s.IsAI, Status: "active"}
	}
	if g.Engine == nil || g.Engine.CurrentRound() == nil {
		return obf
	}

	r := g.Engine.CurrentRound()
	bank := g.Engine.TokenBank()
	obf.Round = g.Engine.RoundNumber()
	obf.DeckRemaining = r.DeckRemaining()
	obf.DiscardCount = r.DiscardCount()
	obf.WhiteSupply = bank.WhiteSupply()
	obf.BlackSupply = bank.BlackSupply()
	obf.StartingPlayer = g.Seats[g.Engine.StartingPlayerIndex()].ID
	inPlay := !r.IsOver() && !g.GameOver
	if inPlay {
		obf.CurrentPlayerID = g.Seats[r.CurrentPlayerIndex()].ID
	}
	if id := g.CardTracker.DiscardTop; id != uuid.Nil {
		top := g.CardTracker.Registry[id]
		obf.DiscardTop = &ObfCard{ID: id, Value: top.String(), Penalty: top.PenaltyValue()}
	}

	for i, s := range g.Seats {
		p := r.Player(i)
		ps := &obf.Players[i]
		ps.HandSize = p.HandSize()
		ps.Status = p.Status().String()
		ps.WhiteTokens = p.WhiteTokens()
		ps.BlackTokens = p.BlackTokens()
		ps.TotalPoints = p.TotalPoints()
		ps.IsCurrentTurn = inPlay && r.CurrentPlayerIndex() == i

		if s.ID != forPlayer {
			continue
		}
		ids := g.CardTracker.Hands[i]
		ps.RevealedHand = make([]ObfCard, len(ids))
		for j, id := range ids {
			c := g.CardTracker.Registry[id]
			ps.RevealedHand[j] = ObfCard{
				ID:      id,
				Value:   c.String(),
				Penalty: c.PenaltyValue(),
				Idx:     j,
			}
		}
		if ps.IsCurrentTurn {
			for _, a := range r.ValidActions(p) {
				obf.ValidActions = append(obf.ValidActions, a.String())
			}
		}
	}
	return obf
}
