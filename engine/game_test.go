package engine

import (
	"errors"
	"testing"
)

// stackDeck orders a deck so that NewRound deals hands[i] to player i and
// turns top face up; rest stays in the deck (bottom first).
func stackDeck(hands [][]Card, top Card, rest []Card) *Deck {
	cards := append([]Card(nil), rest...)
	cards = append(cards, top)
	for i := len(hands) - 1; i >= 0; i-- {
		cards = append(cards, hands[i]...)
	}
	return NewDeckFromCards(cards)
}

func TestNewGame(t *testing.T) {
	g := NewGame(WithSeed(9), WithStartingPlayer(2))
	if g.NumPlayers() != 4 {
		t.Fatalf("NumPlayers() = %d, want 4", g.NumPlayers())
	}
	for i, p := range g.Players() {
		if p.Index() != i {
			t.Errorf("player %d has index %d", i, p.Index())
		}
		if p.TotalPoints() != 0 || !p.IsActive() {
			t.Errorf("player %d not fresh", i)
		}
	}
	if g.TokenBank().WhiteSupply() != 50 || g.TokenBank().BlackSupply() != 20 {
		t.Error("token bank not at initial supply")
	}
	if g.StartingPlayerIndex() != 2 {
		t.Errorf("StartingPlayerIndex() = %d, want 2", g.StartingPlayerIndex())
	}
	if g.CurrentRound() != nil || g.RoundNumber() != 0 {
		t.Error("no round should exist before StartNewRound")
	}
}

// TestNewGameRandomStarterDeterministic verifies the seeded first starter.
func TestNewGameRandomStarterDeterministic(t *testing.T) {
	for seed := uint64(1); seed < 20; seed++ {
		a := NewGame(WithSeed(seed)).StartingPlayerIndex()
		b := NewGame(WithSeed(seed)).StartingPlayerIndex()
		if a != b {
			t.Fatalf("seed %d: starters %d and %d differ", seed, a, b)
		}
		if a < 0 || a > 3 {
			t.Fatalf("seed %d: starter %d out of range", seed, a)
		}
	}
}

func TestStartNewRound(t *testing.T) {
	g := NewGame(WithSeed(5), WithStartingPlayer(1))
	g.Player(0).Quit()
	g.TokenBank().DistributeTokens(g.Player(0), 7)

	r, err := g.StartNewRound()
	if err != nil {
		t.Fatalf("StartNewRound: %v", err)
	}
	if g.CurrentRound() != r || g.RoundNumber() != 1 {
		t.Fatalf("CurrentRound/RoundNumber not updated")
	}
	if r.CurrentPlayerIndex() != 1 {
		t.Errorf("round starts at %d, want 1", r.CurrentPlayerIndex())
	}
	if r.DeckRemaining() != 31 {
		t.Errorf("DeckRemaining() = %d, want 31", r.DeckRemaining())
	}
	for _, p := range g.Players() {
		if !p.IsActive() || p.HandSize() != 6 {
			t.Errorf("player %d: active=%v hand=%d", p.Index(), p.IsActive(), p.HandSize())
		}
	}
	if g.Player(0).TotalPoints() != 7 {
		t.Errorf("tokens should persist across rounds, got %d", g.Player(0).TotalPoints())
	}

	if _, err := g.StartNewRound(); err != nil {
		t.Fatalf("second StartNewRound: %v", err)
	}
	if g.RoundNumber() != 2 {
		t.Errorf("RoundNumber() = %d, want 2", g.RoundNumber())
	}
	if g.StartingPlayerIndex() != 1 {
		t.Error("StartNewRound must not advance the starting player")
	}
}

func TestScoreRoundErrors(t *testing.T) {
	g := NewGame()
	if _, err := g.ScoreRound(); err == nil {
		t.Error("ScoreRound with no round should fail")
	}
	if _, err := g.StartNewRound(); err != nil {
		t.Fatalf("StartNewRound: %v", err)
	}
	if _, err := g.ScoreRound(); err == nil {
		t.Error("ScoreRound on an in-progress round should fail")
	}
}

func TestScoreRoundOnlyOnce(t *testing.T) {
	g := NewGame(WithSeed(3), WithStartingPlayer(1))
	r, err := g.StartNewRound()
	if err != nil {
		t.Fatalf("StartNewRound: %v", err)
	}
	for !r.IsOver() {
		if err := r.QuitRound(r.CurrentPlayer()); err != nil {
			t.Fatalf("QuitRound: %v", err)
		}
		r.AdvanceTurn()
	}
	if r.IsScored() {
		t.Fatal("round reports scored before ScoreRound")
	}
	if _, err := g.ScoreRound(); err != nil {
		t.Fatalf("first ScoreRound: %v", err)
	}
	if !r.IsScored() {
		t.Fatal("round not marked scored")
	}

	points := make([]int, g.NumPlayers())
	for i, p := range g.Players() {
		points[i] = p.TotalPoints()
	}
	white, black := g.TokenBank().WhiteSupply(), g.TokenBank().BlackSupply()
	starter := g.StartingPlayerIndex()

	if _, err := g.ScoreRound(); err == nil {
		t.Fatal("second ScoreRound on the same round should fail")
	}
	for i, p := range g.Players() {
		if p.TotalPoints() != points[i] {
			t.Errorf("p%d points %d -> %d after repeated scoring", i, points[i], p.TotalPoints())
		}
	}
	if g.TokenBank().WhiteSupply() != white || g.TokenBank().BlackSupply() != black {
		t.Error("token supply changed after repeated scoring")
	}
	if g.StartingPlayerIndex() != starter {
		t.Errorf("starter %d -> %d after repeated scoring", starter, g.StartingPlayerIndex())
	}
}

func TestIsGameOverThreshold(t *testing.T) {
	g := NewGame()
	g.TokenBank().DistributeTokens(g.Player(3), 39)
	if g.IsGameOver() {
		t.Fatal("IsGameOver() at 39 = true, want false")
	}
	g.TokenBank().DistributeTokens(g.Player(3), 1)
	if !g.IsGameOver() {
		t.Fatal("IsGameOver() at 40 = false, want true")
	}
}

func TestWinnersAndStandings(t *testing.T) {
	g := NewGame()
	bank := g.TokenBank()
	bank.DistributeTokens(g.Player(0), 12)
	bank.DistributeTokens(g.Player(1), 3)
	bank.DistributeTokens(g.Player(2), 25)
	bank.DistributeTokens(g.Player(3), 3)

	winners := g.Winners()
	if len(winners) != 2 || winners[0] != g.Player(1) || winners[1] != g.Player(3) {
		t.Errorf("Winners() = %v, want players 1 and 3", indices(winners))
	}

	got := indices(g.Standings())
	want := []int{1, 3, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Standings() = %v, want %v", got, want)
		}
	}
}

func TestWinnersAllTied(t *testing.T) {
	g := NewGame()
	if got := g.Winners(); len(got) != 4 {
		t.Errorf("Winners() at 0-0-0-0 = %v, want all four", indices(got))
	}
}

func indices(ps []*Player) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.Index()
	}
	return out
}

func TestStartRoundWithDeckTooSmall(t *testing.T) {
	g := NewGame()
	_, err := g.StartRoundWithDeck(NewDeckFromCards([]Card{1, 2, 3}))
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("err = %v, want ErrResourceExhausted", err)
	}
}
