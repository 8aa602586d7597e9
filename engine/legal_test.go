package engine

import "testing"

func actionsEqual(a, b []TurnAction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestValidActions(t *testing.T) {
	tests := []struct {
		name string
		top  Card
		deck []Card
		want []TurnAction
	}{
		{"play draw quit", 2, []Card{5}, []TurnAction{ActionPlayCard, ActionDrawCard, ActionQuit}},
		{"no playable card", 5, []Card{5}, []TurnAction{ActionDrawCard, ActionQuit}},
		{"empty deck", 2, nil, []TurnAction{ActionPlayCard, ActionQuit}},
		{"quit only", 5, nil, []TurnAction{ActionQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ps := stageRound(fourHands(), tt.top, tt.deck, 0)
			if got := r.ValidActions(ps[0]); !actionsEqual(got, tt.want) {
				t.Errorf("ValidActions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanDrawLastActive(t *testing.T) {
	r, ps := stageRound(fourHands(), 2, []Card{5}, 0)
	if !r.CanDraw(ps[0]) {
		t.Fatal("CanDraw should be true with a full table and cards in the deck")
	}
	ps[1].Quit()
	ps[2].Quit()
	if !r.CanDraw(ps[0]) {
		t.Error("CanDraw should be true with two active players")
	}
	ps[3].Quit()
	if r.CanDraw(ps[0]) {
		t.Error("CanDraw should be false for the last active player")
	}
	got := r.ValidActions(ps[0])
	want := []TurnAction{ActionPlayCard, ActionQuit}
	if !actionsEqual(got, want) {
		t.Errorf("ValidActions() = %v, want %v", got, want)
	}
}

func TestIsLegal(t *testing.T) {
	r, ps := stageRound(fourHands(), 2, []Card{5}, 0)
	tests := []struct {
		p    *Player
		d    Decision
		want bool
	}{
		{ps[0], Decision{ActionPlayCard, 3}, true},
		{ps[0], Decision{ActionPlayCard, 2}, true},
		{ps[0], Decision{ActionPlayCard, 1}, false}, // held, not playable
		{ps[0], Decision{ActionPlayCard, 7}, false}, // not held
		{ps[0], Decision{ActionDrawCard, EmptyCard}, true},
		{ps[0], Decision{ActionQuit, EmptyCard}, true},
		{ps[1], Decision{ActionQuit, EmptyCard}, false}, // not their turn
	}
	for _, tt := range tests {
		if got := r.IsLegal(tt.p, tt.d); got != tt.want {
			t.Errorf("IsLegal(p%d, %v %s) = %v, want %v", tt.p.Index(), tt.d.Action, tt.d.Card, got, tt.want)
		}
	}
}

func TestAdvanceTurnWraps(t *testing.T) {
	r, _ := stageRound(fourHands(), 2, []Card{5}, 2)
	for _, want := range []int{3, 0, 1, 2} {
		if got := r.AdvanceTurn(); got != want {
			t.Fatalf("AdvanceTurn() = %d, want %d", got, want)
		}
	}
}

func TestAdvanceTurnSkipsQuit(t *testing.T) {
	r, ps := stageRound(fourHands(), 2, []Card{5}, 0)
	ps[1].Quit()
	ps[2].Quit()
	if got := r.AdvanceTurn(); got != 3 {
		t.Fatalf("AdvanceTurn() = %d, want 3", got)
	}
	if got := r.AdvanceTurn(); got != 0 {
		t.Fatalf("AdvanceTurn() = %d, want 0 after wrap", got)
	}
}

// TestAdvanceTurnSingleActive verifies the turn stays put when the current
// player is the only one left.
func TestAdvanceTurnSingleActive(t *testing.T) {
	r, ps := stageRound(fourHands(), 2, []Card{5}, 1)
	ps[0].Quit()
	ps[2].Quit()
	ps[3].Quit()
	if got := r.AdvanceTurn(); got != 1 {
		t.Errorf("AdvanceTurn() = %d, want 1", got)
	}
}

func TestAdvanceTurnNoopWhenOver(t *testing.T) {
	r, ps := stageRound(fourHands(), 2, []Card{5}, 0)
	for i, p := range ps {
		r.current = i
		if err := r.QuitRound(p); err != nil {
			t.Fatalf("QuitRound(p%d): %v", i, err)
		}
	}
	if !r.IsOver() {
		t.Fatal("round should be over after all quit")
	}
	before := r.CurrentPlayerIndex()
	if got := r.AdvanceTurn(); got != before {
		t.Errorf("AdvanceTurn() on ended round = %d, want %d", got, before)
	}
}
