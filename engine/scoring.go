package engine

import (
	"fmt"
	"sort"
)

// PlayerRoundResult is one player's line in a RoundSummary.
type PlayerRoundResult struct {
	Index       int        `json:"index"`
	Penalty     int        `json:"penalty"`
	TokensGiven TokenGrant `json:"tokensGiven"`
	TotalPoints int        `json:"totalPoints"`
}

// RoundSummary is the result of scoring a round, in seat order.
type RoundSummary struct {
	Players         []PlayerRoundResult `json:"players"`
	HandEmptyPlayer *int                `json:"handEmptyPlayer"`
	TokenReturned   TokenType           `json:"tokenReturned"`
}

// ScoreRound charges each player the penalty of their remaining hand in
// tokens, lets the player who emptied their hand (if any) return their best
// token, and moves the starting seat on by one. The seat advances on every
// ending, including when everyone quit.
func (g *Game) ScoreRound() (RoundSummary, error) {
	r := g.current
	if r == nil {
		return RoundSummary{}, fmt.Errorf("score round: no round has been started")
	}
	if !r.IsOver() {
		return RoundSummary{}, fmt.Errorf("score round %d: round still in progress", g.roundNum)
	}
	if r.scored {
		return RoundSummary{}, fmt.Errorf("score round %d: round already scored", g.roundNum)
	}
	r.scored = true

	summary := RoundSummary{Players: make([]PlayerRoundResult, 0, len(g.players))}
	for _, p := range g.players {
		penalty := p.HandPenalty()
		grant := g.bank.DistributeTokens(p, penalty)
		summary.Players = append(summary.Players, PlayerRoundResult{
			Index:       p.Index(),
			Penalty:     penalty,
			TokensGiven: grant,
			TotalPoints: p.TotalPoints(),
		})
	}

	if r.EndReason() == EndHandEmpty && r.HandEmptyPlayer() != nil {
		p := r.HandEmptyPlayer()
		idx := p.Index()
		summary.HandEmptyPlayer = &idx
		summary.TokenReturned = g.bank.ReturnBestToken(p)
		summary.Players[idx].TotalPoints = p.TotalPoints()
	}

	g.advanceStartingPlayer()
	return summary, nil
}

// IsGameOver reports whether any player has reached the threshold.
func (g *Game) IsGameOver() bool {
	for _, p := range g.players {
		if p.TotalPoints() >= g.rules.GameOverThreshold {
			return true
		}
	}
	return false
}

// Winners returns every player tied for the lowest total, in seat order.
func (g *Game) Winners() []*Player {
	lowest := g.players[0].TotalPoints()
	for _, p := range g.players[1:] {
		lowest = min(lowest, p.TotalPoints())
	}
	var winners []*Player
	for _, p := range g.players {
		if p.TotalPoints() == lowest {
			winners = append(winners, p)
		}
	}
	return winners
}

// Standings returns all players sorted by total points, lowest first.
// Ties keep seat order.
func (g *Game) Standings() []*Player {
	out := g.Players()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints() < out[j].TotalPoints()
	})
	return out
}
