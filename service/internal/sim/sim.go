// Package sim plays complete automated games and checks the engine's
// conservation rules after every action.
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	engine "github.com/nmnhut-it/lama-card-game/engine"
	"github.com/nmnhut-it/lama-card-game/engine/agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvariant       = errors.New("invariant violated")
	ErrIllegalDecision = errors.New("decision rejected by the rules")
	ErrRoundLimit      = errors.New("game exceeded round limit")
	ErrTurnLimit       = errors.New("round exceeded turn limit")
)

// DecideFunc picks a move for the current player.
type DecideFunc func(p *engine.Player, r *engine.Round) engine.Decision

// Options controls a simulation run. Zero fields take defaults.
type Options struct {
	Games            int
	Workers          int
	Seed             uint64 // game i is seeded Seed+i
	Rules            engine.HouseRules
	MaxRoundsPerGame int
	MaxTurnsPerRound int
	Decide           DecideFunc
	Logger           logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Seed == 0 {
		o.Seed = 1
	}
	if o.Rules == (engine.HouseRules{}) {
		o.Rules = engine.DefaultHouseRules()
	}
	if o.MaxRoundsPerGame <= 0 {
		o.MaxRoundsPerGame = 1000
	}
	if o.MaxTurnsPerRound <= 0 {
		o.MaxTurnsPerRound = 10000
	}
	if o.Decide == nil {
		o.Decide = agent.DecideAction
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed            uint64 `json:"seed"`
	Rounds          int    `json:"rounds"`
	Turns           int    `json:"turns"`
	HandEmptyRounds int    `json:"handEmptyRounds"`
	AllQuitRounds   int    `json:"allQuitRounds"`
	Winners         []int  `json:"winners"`
	Totals          []int  `json:"totals"`
}

// Report aggregates a run, with per-game results in seed order.
type Report struct {
	Games           int          `json:"games"`
	Rounds          int          `json:"rounds"`
	Turns           int          `json:"turns"`
	HandEmptyRounds int          `json:"handEmptyRounds"`
	AllQuitRounds   int          `json:"allQuitRounds"`
	Wins            []int        `json:"wins"` // per seat; a shared win counts for each winner
	Results         []GameResult `json:"results"`
}

// AverageRounds is the mean number of rounds per game.
func (r Report) AverageRounds() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Rounds) / float64(r.Games)
}

// Run plays opts.Games games, at most opts.Workers at a time. The first
// failing game cancels the rest.
func Run(ctx context.Context, opts Options) (Report, error) {
	opts = opts.withDefaults()
	if opts.Games <= 0 {
		return Report{}, fmt.Errorf("sim: games must be positive, got %d", opts.Games)
	}

	results := make([]GameResult, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Games; i++ {
		seed := opts.Seed + uint64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := PlayGame(ctx, opts, seed)
			if err != nil {
				return fmt.Errorf("sim: game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep := Report{Games: opts.Games, Wins: make([]int, len(results[0].Totals)), Results: results}
	for _, res := range results {
		rep.Rounds += res.Rounds
		rep.Turns += res.Turns
		rep.HandEmptyRounds += res.HandEmptyRounds
		rep.AllQuitRounds += res.AllQuitRounds
		for _, w := range res.Winners {
			rep.Wins[w]++
		}
	}
	opts.Logger.WithFields(logrus.Fields{
		"games":      rep.Games,
		"rounds":     rep.Rounds,
		"avg_rounds": fmt.Sprintf("%.2f", rep.AverageRounds()),
		"wins":       rep.Wins,
	}).Info("simulation finished")
	return rep, nil
}

// actionRecord is one applied move, kept for failure reports.
type actionRecord struct {
	round, turn, seat int
	d                 engine.Decision
	card              engine.Card
	top               engine.Card
}

// PlayGame plays one game to completion with opts.Decide at every seat.
func PlayGame(ctx context.Context, opts Options, seed uint64) (GameResult, error) {
	opts = opts.withDefaults()
	game := engine.NewGame(
		engine.WithSeed(seed),
		engine.WithRules(opts.Rules),
		engine.WithMode(engine.ModeAI),
	)
	res := GameResult{Seed: seed}
	var records []actionRecord

	for !game.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if res.Rounds >= opts.MaxRoundsPerGame {
			return res, failure(seed, res.Rounds, 0, records, ErrRoundLimit)
		}
		r, err := game.StartNewRound()
		if err != nil {
			return res, failure(seed, res.Rounds, 0, records, err)
		}
		res.Rounds++
		records = records[:0]
		if err := CheckInvariants(game); err != nil {
			return res, failure(seed, res.Rounds, 0, records, err)
		}

		for turn := 0; !r.IsOver(); turn++ {
			if turn >= opts.MaxTurnsPerRound {
				return res, failure(seed, res.Rounds, turn, records, ErrTurnLimit)
			}
			p := r.CurrentPlayer()
			top := r.TopCard()
			d := opts.Decide(p, r)
			if !r.IsLegal(p, d) {
				return res, failure(seed, res.Rounds, turn, records,
					fmt.Errorf("%w: seat %d %s %s on %s", ErrIllegalDecision, p.Index(), d.Action, d.Card, top))
			}
			card, err := r.Apply(p, d)
			if err != nil {
				return res, failure(seed, res.Rounds, turn, records, err)
			}
			res.Turns++
			records = append(records, actionRecord{round: res.Rounds, turn: turn, seat: p.Index(), d: d, card: card, top: top})

			if err := CheckInvariants(game); err != nil {
				return res, failure(seed, res.Rounds, turn, records, err)
			}
			if d.Action == engine.ActionPlayCard && (r.TopCard() != card || !card.CanPlayOn(top)) {
				return res, failure(seed, res.Rounds, turn, records,
					fmt.Errorf("%w: %s landed on %s, top is now %s", ErrInvariant, card, top, r.TopCard()))
			}
			if !r.IsOver() {
				r.AdvanceTurn()
				if !r.CurrentPlayer().IsActive() {
					return res, failure(seed, res.Rounds, turn, records,
						fmt.Errorf("%w: turn passed to quit seat %d", ErrInvariant, r.CurrentPlayerIndex()))
				}
			}
		}

		switch r.EndReason() {
		case engine.EndHandEmpty:
			res.HandEmptyRounds++
		case engine.EndAllQuit:
			res.AllQuitRounds++
		}
		if _, err := game.ScoreRound(); err != nil {
			return res, failure(seed, res.Rounds, 0, records, err)
		}
		if err := CheckInvariants(game); err != nil {
			return res, failure(seed, res.Rounds, 0, records, err)
		}
	}

	for _, p := range game.Winners() {
		res.Winners = append(res.Winners, p.Index())
	}
	for _, p := range game.Players() {
		res.Totals = append(res.Totals, p.TotalPoints())
	}
	opts.Logger.WithFields(logrus.Fields{
		"seed":    seed,
		"rounds":  res.Rounds,
		"winners": res.Winners,
	}).Debug("game finished")
	return res, nil
}

// CheckInvariants verifies card and token conservation for the game's
// current round.
func CheckInvariants(game *engine.Game) error {
	rules := game.Rules()
	bank := game.TokenBank()
	if bank.WhiteSupply() < 0 || bank.BlackSupply() < 0 {
		return fmt.Errorf("%w: negative supply white=%d black=%d", ErrInvariant, bank.WhiteSupply(), bank.BlackSupply())
	}

	white, black := bank.WhiteSupply(), bank.BlackSupply()
	for _, p := range game.Players() {
		if p.WhiteTokens() < 0 || p.BlackTokens() < 0 {
			return fmt.Errorf("%w: player %d holds negative tokens", ErrInvariant, p.Index())
		}
		white += p.WhiteTokens()
		black += p.BlackTokens()
	}
	if white != rules.WhiteTokens || black != rules.BlackTokens {
		return fmt.Errorf("%w: tokens white=%d black=%d, want %d/%d",
			ErrInvariant, white, black, rules.WhiteTokens, rules.BlackTokens)
	}

	r := game.CurrentRound()
	if r == nil {
		return nil
	}
	cards := r.DeckRemaining() + r.DiscardCount()
	for _, p := range r.Players() {
		cards += p.HandSize()
	}
	if cards != rules.DeckSize() {
		return fmt.Errorf("%w: card count %d, want %d", ErrInvariant, cards, rules.DeckSize())
	}
	return nil
}

// failure wraps err with the seed, position and the last moves played.
func failure(seed uint64, round, turn int, records []actionRecord, err error) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	var b strings.Builder
	for _, rec := range records[start:] {
		fmt.Fprintf(&b, "[r%d t%d p%d] %s %s on %s\n", rec.round, rec.turn, rec.seat, rec.d.Action, rec.card, rec.top)
	}
	return fmt.Errorf("seed=%d round=%d turn=%d: %w\nlast actions:\n%s", seed, round, turn, err, b.String())
}
