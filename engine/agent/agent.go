// Package agent implements the decision policy for automated players.
//
// The policy is a pure function of the player's hand and the round state:
// no randomness, no memory between turns, no delays. Any pacing around an
// automated turn belongs to the caller.
package agent

import engine "github.com/nmnhut-it/lama-card-game/engine"

// DecideAction chooses the agent's move for p in r:
//  1. play the playable card with the highest penalty (first one on ties);
//  2. otherwise draw, if allowed and the hand penalty exceeds QuitPenaltyThreshold;
//  3. otherwise quit.
//
// The result is always legal for p when p is the current, active player.
func DecideAction(p *engine.Player, r *engine.Round) engine.Decision {
	if card, ok := chooseCardToPlay(p.PlayableCards(r.TopCard())); ok {
		return engine.Decision{Action: engine.ActionPlayCard, Card: card}
	}
	if shouldDraw(p, r) {
		return engine.Decision{Action: engine.ActionDrawCard, Card: engine.EmptyCard}
	}
	return engine.Decision{Action: engine.ActionQuit, Card: engine.EmptyCard}
}

// chooseCardToPlay sheds the most expensive card first.
func chooseCardToPlay(playable []engine.Card) (engine.Card, bool) {
	if len(playable) == 0 {
		return engine.EmptyCard, false
	}
	best := playable[0]
	for _, c := range playable[1:] {
		if c.PenaltyValue() > best.PenaltyValue() {
			best = c
		}
	}
	return best, true
}

func shouldDraw(p *engine.Player, r *engine.Round) bool {
	if !r.CanDraw(p) {
		return false
	}
	return p.HandPenalty() > QuitPenaltyThreshold
}
