// Package engine implements the L.A.M.A. card game rules.
//
// The engine is synchronous and single-threaded: every method runs to
// completion and either succeeds or returns an error. It holds no locks;
// callers that share a Game between goroutines must serialise access.
package engine

import "fmt"

// Game orchestrates successive rounds over a fixed set of players and a
// shared token bank, until one player's total reaches the threshold.
type Game struct {
	rules    HouseRules
	mode     GameMode
	rng      *RNG
	players  []*Player
	bank     *TokenBank
	roundNum int
	starter  int
	current  *Round
}

// Option configures a Game at construction.
type Option func(*gameConfig)

type gameConfig struct {
	rules      HouseRules
	mode       GameMode
	seed       uint64
	starter    int
	hasStarter bool
}

// WithSeed seeds the shuffles and the random first starter.
func WithSeed(seed uint64) Option { return func(c *gameConfig) { c.seed = seed } }

// WithRules overrides DefaultHouseRules.
func WithRules(r HouseRules) Option { return func(c *gameConfig) { c.rules = r } }

// WithMode records who sits at the table. The engine itself treats every
// seat the same.
func WithMode(m GameMode) Option { return func(c *gameConfig) { c.mode = m } }

// WithStartingPlayer fixes the first round's starting seat instead of
// drawing it at random.
func WithStartingPlayer(index int) Option {
	return func(c *gameConfig) {
		c.starter = index
		c.hasStarter = true
	}
}

// NewGame creates the players and the token bank. No round is started.
func NewGame(opts ...Option) *Game {
	cfg := gameConfig{rules: DefaultHouseRules(), seed: 1}
	for _, o := range opts {
		o(&cfg)
	}
	n := cfg.rules.numPlayers()
	g := &Game{
		rules:   cfg.rules,
		mode:    cfg.mode,
		rng:     NewRNG(cfg.seed),
		players: make([]*Player, n),
		bank:    NewTokenBank(cfg.rules),
	}
	for i := range g.players {
		g.players[i] = NewPlayer(i)
	}
	if cfg.hasStarter {
		g.starter = ((cfg.starter % n) + n) % n
	} else {
		g.starter = g.rng.IntN(n)
	}
	return g
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

func (g *Game) Rules() HouseRules        { return g.rules }
func (g *Game) Mode() GameMode           { return g.mode }
func (g *Game) TokenBank() *TokenBank    { return g.bank }
func (g *Game) CurrentRound() *Round     { return g.current }
func (g *Game) RoundNumber() int         { return g.roundNum }
func (g *Game) StartingPlayerIndex() int { return g.starter }
func (g *Game) NumPlayers() int          { return len(g.players) }
func (g *Game) Player(index int) *Player { return g.players[index] }

// Players returns a copy of the seat list.
func (g *Game) Players() []*Player {
	return append([]*Player(nil), g.players...)
}

// ---------------------------------------------------------------------------
// Round lifecycle
// ---------------------------------------------------------------------------

// StartNewRound resets every player, builds and shuffles a fresh deck and
// deals a new round from the current starting seat. The starting seat is
// advanced by ScoreRound, not here.
func (g *Game) StartNewRound() (*Round, error) {
	return g.StartRoundWithDeck(NewDeck(g.rules).Shuffle(g.rng))
}

// StartRoundWithDeck is StartNewRound with a caller-supplied deck, used to
// replay or stage a known deal.
func (g *Game) StartRoundWithDeck(deck *Deck) (*Round, error) {
	g.roundNum++
	for _, p := range g.players {
		p.ResetForRound()
	}
	r, err := NewRound(g.players, deck, g.starter, g.rules)
	if err != nil {
		return nil, fmt.Errorf("round %d: %w", g.roundNum, err)
	}
	g.current = r
	return r, nil
}

func (g *Game) advanceStartingPlayer() {
	g.starter = (g.starter + 1) % len(g.players)
}
