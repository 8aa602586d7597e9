package engine

import (
	"errors"
	"testing"
)

// TestRoundEndHandEmpty verifies playing the last card ends the round and
// records the player.
func TestRoundEndHandEmpty(t *testing.T) {
	hands := fourHands()
	hands[2] = []Card{1}
	r, ps := stageRound(hands, 7, []Card{5}, 2)
	if err := r.PlayCard(ps[2], 1); err != nil {
		t.Fatalf("PlayCard(1 on Llama): %v", err)
	}
	if !r.IsOver() {
		t.Fatal("round should be over")
	}
	if r.EndReason() != EndHandEmpty {
		t.Errorf("EndReason() = %v, want hand_empty", r.EndReason())
	}
	if r.HandEmptyPlayer() != ps[2] {
		t.Errorf("HandEmptyPlayer() = %v, want player 2", r.HandEmptyPlayer())
	}
}

// TestRoundEndAllQuit verifies the round ends once nobody is active.
func TestRoundEndAllQuit(t *testing.T) {
	r, ps := stageRound(fourHands(), 2, []Card{5}, 1)
	order := []int{1, 2, 3, 0}
	for i, idx := range order {
		if r.CurrentPlayerIndex() != idx {
			t.Fatalf("step %d: current = %d, want %d", i, r.CurrentPlayerIndex(), idx)
		}
		if err := r.QuitRound(ps[idx]); err != nil {
			t.Fatalf("QuitRound(p%d): %v", idx, err)
		}
		if i < len(order)-1 {
			if r.IsOver() {
				t.Fatalf("round ended early after %d quits", i+1)
			}
			r.AdvanceTurn()
		}
	}
	if !r.IsOver() || r.EndReason() != EndAllQuit {
		t.Fatalf("IsOver=%v reason=%v, want over/all_quit", r.IsOver(), r.EndReason())
	}
	if r.HandEmptyPlayer() != nil {
		t.Error("HandEmptyPlayer() should be nil on all_quit")
	}
}

// TestEndedRoundRejectsActions verifies an ended round is immutable.
func TestEndedRoundRejectsActions(t *testing.T) {
	hands := fourHands()
	hands[0] = []Card{3}
	r, ps := stageRound(hands, 3, []Card{5}, 0)
	if err := r.PlayCard(ps[0], 3); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	if _, err := r.DrawCard(ps[0]); !errors.Is(err, ErrTurnOrder) {
		t.Errorf("DrawCard after end err = %v, want ErrTurnOrder", err)
	}
	if err := r.QuitRound(ps[0]); !errors.Is(err, ErrTurnOrder) {
		t.Errorf("QuitRound after end err = %v, want ErrTurnOrder", err)
	}
	if r.EndReason() != EndHandEmpty {
		t.Errorf("EndReason() changed to %v", r.EndReason())
	}
}

// TestLastActivePlayerEmptiesHand verifies the last active player
// may still empty their hand after everyone else quit.
func TestLastActivePlayerEmptiesHand(t *testing.T) {
	hands := fourHands()
	hands[3] = []Card{2, 3}
	r, ps := stageRound(hands, 2, []Card{5}, 3)
	ps[0].Quit()
	ps[1].Quit()
	ps[2].Quit()
	if err := r.PlayCard(ps[3], 2); err != nil {
		t.Fatalf("PlayCard(2): %v", err)
	}
	r.AdvanceTurn()
	if r.CurrentPlayerIndex() != 3 {
		t.Fatalf("turn should stay with the last active player, got %d", r.CurrentPlayerIndex())
	}
	if err := r.PlayCard(ps[3], 3); err != nil {
		t.Fatalf("PlayCard(3): %v", err)
	}
	if r.EndReason() != EndHandEmpty || r.HandEmptyPlayer() != ps[3] {
		t.Errorf("reason=%v player=%v, want hand_empty by player 3", r.EndReason(), r.HandEmptyPlayer())
	}
}
