package engine

// checkRoundEnd ends the round if a hand is empty (first such seat wins
// the record) or if nobody is still active.
func (r *Round) checkRoundEnd() {
	if r.over {
		return
	}
	for _, p := range r.players {
		if p.HasEmptyHand() {
			r.over = true
			r.endReason = EndHandEmpty
			r.handEmptyPlayer = p
			return
		}
	}
	if r.ActivePlayerCount() == 0 {
		r.over = true
		r.endReason = EndAllQuit
	}
}
