// engine_adapter.go: bridge between engine.Game and LamaGame.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	engine "github.com/nmnhut-it/lama-card-game/engine"
	"github.com/sirupsen/logrus"
)

// CardUUIDTracker mirrors each hand with UUIDs for client communication.
// Hands[i] is kept parallel to the engine's Player(i).Hand(), updated in
// lockstep with every engine action.
type CardUUIDTracker struct {
	Hands      [][]uuid.UUID
	DiscardTop uuid.UUID

	// Registry maps UUID -> card value for every card dealt or drawn this round.
	Registry map[uuid.UUID]engine.Card
}

// newCardTracker assigns UUIDs to every dealt card and the starting top card.
func newCardTracker(r *engine.Round) CardUUIDTracker {
	t := CardUUIDTracker{
		Hands:    make([][]uuid.UUID, r.NumPlayers()),
		Registry: make(map[uuid.UUID]engine.Card),
	}
	for i := range t.Hands {
		for _, c := range r.Player(i).Hand() {
			t.addToHand(i, c)
		}
	}
	t.DiscardTop = t.register(r.TopCard())
	return t
}

func (t *CardUUIDTracker) register(c engine.Card) uuid.UUID {
	id, _ := uuid.NewRandom()
	t.Registry[id] = c
	return id
}

// addToHand appends a new UUID for c to seat's hand.
func (t *CardUUIDTracker) addToHand(seat int, c engine.Card) uuid.UUID {
	id := t.register(c)
	t.Hands[seat] = append(t.Hands[seat], id)
	return id
}

// cardInHand reports the value of card id if seat holds it.
func (t *CardUUIDTracker) cardInHand(seat int, id uuid.UUID) (engine.Card, bool) {
	if t.slotOf(seat, id) < 0 {
		return engine.EmptyCard, false
	}
	return t.Registry[id], true
}

// idForValue returns the first UUID in seat's hand with value c.
func (t *CardUUIDTracker) idForValue(seat int, c engine.Card) (uuid.UUID, bool) {
	for _, id := range t.Hands[seat] {
		if t.Registry[id] == c {
			return id, true
		}
	}
	return uuid.Nil, false
}

func (t *CardUUIDTracker) slotOf(seat int, id uuid.UUID) int {
	for i, h := range t.Hands[seat] {
		if h == id {
			return i
		}
	}
	return -1
}

// playFromHand moves id from seat's hand to the discard top. The engine
// removes the first card of equal value, so that slot is the one dropped;
// when id sat later, the first slot's UUID takes its place.
func (t *CardUUIDTracker) playFromHand(seat int, id uuid.UUID) {
	hand := t.Hands[seat]
	played := t.slotOf(seat, id)
	if played < 0 {
		return
	}
	first := played
	for i, h := range hand[:played] {
		if t.Registry[h] == t.Registry[id] {
			first = i
			break
		}
	}
	hand[played] = hand[first]
	t.Hands[seat] = append(hand[:first], hand[first+1:]...)
	t.DiscardTop = id
}

// eventCard builds the public description of a known card.
func (t *CardUUIDTracker) eventCard(id uuid.UUID) *EventCard {
	c := t.Registry[id]
	return &EventCard{ID: id, Value: c.String(), Penalty: c.PenaltyValue()}
}

// ---- actions ----

// applyDecision runs d for seat through the engine, keeps the tracker in
// step, emits events and moves the game on. cardID names the played card.
// Assumes lock is held by caller.
func (g *LamaGame) applyDecision(seat int, d engine.Decision, cardID uuid.UUID) error {
	r := g.Engine.CurrentRound()
	p := r.Player(seat)
	card, err := r.Apply(p, d)
	if err != nil {
		return err
	}

	actorID := g.Seats[seat].ID
	g.emitEventsForAction(seat, actorID, d, card, cardID)

	if r.IsOver() {
		return g.endRound()
	}
	r.AdvanceTurn()
	g.beginTurn()
	return nil
}

// emitEventsForAction updates the tracker and sends the events for a
// completed engine action.
// Assumes lock is held by caller.
func (g *LamaGame) emitEventsForAction(seat int, actorID uuid.UUID, d engine.Decision, card engine.Card, cardID uuid.UUID) {
	r := g.Engine.CurrentRound()
	p := r.Player(seat)
	switch d.Action {
	case engine.ActionPlayCard:
		g.CardTracker.playFromHand(seat, cardID)
		payload := map[string]interface{}{
			"handSize":     p.HandSize(),
			"discardCount": r.DiscardCount(),
		}
		g.fireEvent(GameEvent{
			Type:    EventPlayerPlayCard,
			User:    &EventUser{ID: actorID},
			Card:    g.CardTracker.eventCard(cardID),
			Payload: payload,
		})
		g.logAction(actorID, string(EventPlayerPlayCard), map[string]interface{}{"card": card.String(), "cardId": cardID})

	case engine.ActionDrawCard:
		drawnID := g.CardTracker.addToHand(seat, card)
		g.fireEvent(GameEvent{
			Type: EventPlayerDrawCard,
			User: &EventUser{ID: actorID},
			Card: &EventCard{ID: drawnID},
			Payload: map[string]interface{}{
				"handSize":      p.HandSize(),
				"deckRemaining": r.DeckRemaining(),
			},
		})
		g.fireEventToPlayer(actorID, GameEvent{
			Type: EventPrivateDrawCard,
			Card: g.CardTracker.eventCard(drawnID),
		})
		g.logAction(actorID, string(EventPlayerDrawCard), map[string]interface{}{"card": card.String(), "cardId": drawnID})

	case engine.ActionQuit:
		g.fireEvent(GameEvent{
			Type: EventPlayerQuit,
			User: &EventUser{ID: actorID},
			Payload: map[string]interface{}{
				"activePlayers": r.ActivePlayerCount(),
			},
		})
		g.logAction(actorID, string(EventPlayerQuit), nil)
	}

	g.log.WithFields(logrus.Fields{
		"seat":   seat,
		"action": d.Action.String(),
		"card":   card.String(),
		"top":    r.TopCard().String(),
	}).Debug("action applied")
}

// ---- turns ----

// beginTurn announces the current seat and hands automated seats to the
// agent.
// Assumes lock is held by caller.
func (g *LamaGame) beginTurn() {
	if g.GameOver || g.RoundOver {
		return
	}
	g.TurnID++
	g.broadcastPlayerTurn()
	if g.Seats[g.Engine.CurrentRound().CurrentPlayerIndex()].IsAI {
		g.scheduleAITurn()
	}
}

// broadcastPlayerTurn notifies all players of the current player's turn.
// Assumes lock is held by caller.
func (g *LamaGame) broadcastPlayerTurn() {
	r := g.Engine.CurrentRound()
	seat := r.CurrentPlayerIndex()
	playerID := g.Seats[seat].ID

	actions := r.ValidActions(r.Player(seat))
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	g.fireEvent(GameEvent{
		Type: EventGamePlayerTurn,
		User: &EventUser{ID: playerID},
		Payload: map[string]interface{}{
			"turn":         g.TurnID,
			"validActions": names,
			"topCard":      r.TopCard().String(),
		},
	})
	g.log.WithFields(logrus.Fields{"turn": g.TurnID, "seat": seat}).Debug("turn started")
}

// scheduleAITurn plays the current automated seat after AIThinkDelay, or
// immediately when the delay is zero.
// Assumes lock is held by caller.
func (g *LamaGame) scheduleAITurn() {
	g.stopAITimer()
	if g.AIThinkDelay <= 0 {
		if err := g.playAITurn(); err != nil {
			g.log.WithError(err).Error("automated turn failed")
		}
		return
	}

	expectedTurn := g.TurnID
	g.aiTimer = time.AfterFunc(g.AIThinkDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.GameOver || g.RoundOver || g.TurnID != expectedTurn {
			return
		}
		if err := g.playAITurn(); err != nil {
			g.log.WithError(err).Error("automated turn failed")
		}
	})
}

func (g *LamaGame) stopAITimer() {
	if g.aiTimer != nil {
		g.aiTimer.Stop()
		g.aiTimer = nil
	}
}

// playAITurn asks the agent for the current seat's move and applies it.
// An illegal choice means the agent and the engine disagree and is
// reported as ErrAgentIllegalAction.
// Assumes lock is held by caller.
func (g *LamaGame) playAITurn() error {
	r := g.Engine.CurrentRound()
	seat := r.CurrentPlayerIndex()
	p := r.CurrentPlayer()
	d := g.DecideFn(p, r)

	fields := logrus.Fields{
		"seat":   seat,
		"action": d.Action.String(),
		"card":   d.Card.String(),
		"top":    r.TopCard().String(),
	}
	if !r.IsLegal(p, d) {
		g.log.WithFields(fields).Error("agent chose an illegal action")
		return fmt.Errorf("%w: seat %d %s %s on %s", ErrAgentIllegalAction, seat, d.Action, d.Card, r.TopCard())
	}

	cardID := uuid.Nil
	if d.Action == engine.ActionPlayCard {
		id, ok := g.CardTracker.idForValue(seat, d.Card)
		if !ok {
			g.log.WithFields(fields).Error("agent card missing from tracker")
			return fmt.Errorf("%w: seat %d card %s not tracked", ErrAgentIllegalAction, seat, d.Card)
		}
		cardID = id
	}
	if err := g.applyDecision(seat, d, cardID); err != nil {
		g.log.WithFields(fields).WithError(err).Error("engine rejected agent action")
		return fmt.Errorf("%w: %v", ErrAgentIllegalAction, err)
	}
	return nil
}
