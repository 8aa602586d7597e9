// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/nmnhut-it/lama-card-game/engine"
	"github.com/nmnhut-it/lama-card-game/engine/agent"
	"github.com/nmnhut-it/lama-card-game/service/internal/history"
	"github.com/sirupsen/logrus"
)

// Errors returned by LamaGame. Engine rule violations are returned as the
// engine's own sentinel errors (engine.ErrTurnOrder and friends).
var (
	ErrGameNotStarted     = errors.New("game not started")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameOver           = errors.New("game is over")
	ErrRoundOver          = errors.New("round is over")
	ErrRoundInProgress    = errors.New("round still in progress")
	ErrTableFull          = errors.New("table is full")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrAISeat             = errors.New("seat is played by the computer")
	ErrUnknownCard        = errors.New("card not in hand")
	ErrAgentIllegalAction = errors.New("agent chose an illegal action")
)

// OnGameEndFunc defines the signature for a callback function executed when a game ends.
// It receives the game ID, every winner (ties share the win) and the final totals.
type OnGameEndFunc func(gameID uuid.UUID, winners []uuid.UUID, scores map[uuid.UUID]int)

// GameEventType represents the type of a game-related event.
type GameEventType string

const (
	EventGameRoundStart   GameEventType = "game_round_start"        // Public: a round was dealt.
	EventGamePlayerTurn   GameEventType = "game_player_turn"        // Public: current player and their valid actions.
	EventPlayerPlayCard   GameEventType = "player_play_card"        // Public: card played, value revealed.
	EventPlayerDrawCard   GameEventType = "player_draw_card"        // Public: player drew (ID only).
	EventPrivateDrawCard  GameEventType = "private_draw_card"       // Private: value of the drawn card.
	EventPlayerQuit       GameEventType = "player_quit"             // Public: player left the round.
	EventGameRoundEnd     GameEventType = "game_round_end"          // Public: round summary and standings.
	EventGameEnd          GameEventType = "game_end"                // Public: winners and final totals.
	EventPrivateSyncState GameEventType = "private_sync_state"      // Private: full state for one player.
	EventPrivateRejected  GameEventType = "private_action_rejected" // Private: an action was refused.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard identifies a card within a GameEvent payload, optionally including details.
type EventCard struct {
	ID      uuid.UUID `json:"id"`
	Value   string    `json:"value,omitempty"`
	Penalty int       `json:"penalty,omitempty"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Card    *EventCard             `json:"card,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *ObfGameState          `json:"state,omitempty"`
}

// GameAction is a move submitted by a human seat.
type GameAction struct {
	Type   string    `json:"type"`             // "play_card", "draw_card" or "quit"
	CardID uuid.UUID `json:"cardId,omitempty"` // required for play_card
}

// Seat is one place at the table.
type Seat struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	IsAI bool      `json:"isAi"`
}

// Options configures NewLamaGame. The zero value is a local game with
// default rules, a clock seed and no AI delay.
type Options struct {
	Mode         engine.GameMode
	Seed         uint64            // 0 seeds from the clock
	Rules        engine.HouseRules // zero value means engine.DefaultHouseRules
	AIThinkDelay time.Duration
	Logger       logrus.FieldLogger // nil means logrus.StandardLogger
	Recorder     history.Recorder   // nil discards the action history
}

// LamaGame is one table: it owns the engine game and is the single caller
// that drives it, for both human and automated seats.
type LamaGame struct {
	ID    uuid.UUID
	Mode  engine.GameMode
	Rules engine.HouseRules
	Seats []*Seat

	// Engine integration, authoritative game state.
	Engine         *engine.Game
	CardTracker    CardUUIDTracker
	PlayerToEngine map[uuid.UUID]int

	// Turn management
	TurnID       int
	AIThinkDelay time.Duration
	aiTimer      *time.Timer

	// Lifecycle
	Started   bool
	RoundOver bool // scored and waiting for NextRound
	GameOver  bool
	LastRound *engine.RoundSummary

	Mu sync.Mutex

	// Communication callbacks. They run with Mu held and must not call back
	// into the game.
	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	// DecideFn picks automated moves. Defaults to agent.DecideAction.
	DecideFn func(p *engine.Player, r *engine.Round) engine.Decision

	seed        uint64
	log         *logrus.Entry
	recorder    history.Recorder
	actionIndex int
}

// NewLamaGame creates an empty table. Seats are added with AddPlayer or
// SeatDefaults before Start.
func NewLamaGame(opts Options) *LamaGame {
	id, _ := uuid.NewRandom()
	rules := opts.Rules
	if rules == (engine.HouseRules{}) {
		rules = engine.DefaultHouseRules()
	}
	if rules.PlayerCount == 0 {
		rules.PlayerCount = engine.DefaultHouseRules().PlayerCount
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = history.Nop{}
	}
	return &LamaGame{
		ID:             id,
		Mode:           opts.Mode,
		Rules:          rules,
		PlayerToEngine: make(map[uuid.UUID]int),
		AIThinkDelay:   opts.AIThinkDelay,
		DecideFn:       agent.DecideAction,
		seed:           opts.Seed,
		log:            logger.WithField("game_id", id),
		recorder:       rec,
	}
}

// AddPlayer seats a player and returns their ID.
func (g *LamaGame) AddPlayer(name string, isAI bool) (uuid.UUID, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.addPlayer(name, isAI)
}

func (g *LamaGame) addPlayer(name string, isAI bool) (uuid.UUID, error) {
	if g.Started {
		return uuid.Nil, ErrGameAlreadyStarted
	}
	if len(g.Seats) >= int(g.Rules.PlayerCount) {
		return uuid.Nil, fmt.Errorf("add player %q: %w", name, ErrTableFull)
	}
	id, _ := uuid.NewRandom()
	g.PlayerToEngine[id] = len(g.Seats)
	g.Seats = append(g.Seats, &Seat{ID: id, Name: name, IsAI: isAI})
	g.log.WithFields(logrus.Fields{"player_id": id, "name": name, "ai": isAI}).Info("player added")
	g.logAction(id, "player_add", map[string]interface{}{"name": name, "ai": isAI})
	return id, nil
}

// SeatDefaults fills the empty seats with "Player N". In ModeAI only seat 0
// is human.
func (g *LamaGame) SeatDefaults() ([]uuid.UUID, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	var ids []uuid.UUID
	for i := len(g.Seats); i < int(g.Rules.PlayerCount); i++ {
		id, err := g.addPlayer(fmt.Sprintf("Player %d", i+1), g.Mode == engine.ModeAI && i > 0)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Start creates the engine game and deals the first round.
func (g *LamaGame) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started {
		return ErrGameAlreadyStarted
	}
	if len(g.Seats) != int(g.Rules.PlayerCount) {
		return fmt.Errorf("start: need %d players, have %d", g.Rules.PlayerCount, len(g.Seats))
	}
	seed := g.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	g.Engine = engine.NewGame(
		engine.WithSeed(seed),
		engine.WithRules(g.Rules),
		engine.WithMode(g.Mode),
	)
	g.Started = true
	g.log.WithFields(logrus.Fields{"seed": seed, "mode": g.Mode.String()}).Info("game started")
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"seed": seed, "mode": g.Mode.String()})
	return g.startRound()
}

// NextRound deals the next round after the previous one was scored.
func (g *LamaGame) NextRound() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	switch {
	case !g.Started:
		return ErrGameNotStarted
	case g.GameOver:
		return ErrGameOver
	case !g.RoundOver:
		return ErrRoundInProgress
	}
	return g.startRound()
}

// Stop cancels any pending automated turn.
func (g *LamaGame) Stop() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.stopAITimer()
}

// startRound deals a round and starts its first turn.
// Assumes lock is held by caller.
func (g *LamaGame) startRound() error {
	r, err := g.Engine.StartNewRound()
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}
	g.RoundOver = false
	g.CardTracker = newCardTracker(r)

	starter := g.Seats[r.CurrentPlayerIndex()].ID
	g.fireEvent(GameEvent{
		Type: EventGameRoundStart,
		User: &EventUser{ID: starter},
		Card: g.CardTracker.eventCard(g.CardTracker.DiscardTop),
		Payload: map[string]interface{}{
			"round":         g.Engine.RoundNumber(),
			"deckRemaining": r.DeckRemaining(),
		},
	})
	for _, s := range g.Seats {
		if !s.IsAI {
			g.sendSyncState(s.ID)
		}
	}
	g.log.WithFields(logrus.Fields{
		"round":   g.Engine.RoundNumber(),
		"starter": r.CurrentPlayerIndex(),
		"top":     r.TopCard().String(),
	}).Info("round started")
	g.logAction(uuid.Nil, string(EventGameRoundStart), map[string]interface{}{
		"round":   g.Engine.RoundNumber(),
		"starter": starter,
		"top":     r.TopCard().String(),
	})

	g.beginTurn()
	return nil
}

// HandlePlayerAction validates and applies a move from a human seat.
// Rejected moves are returned and also reported privately to the player.
func (g *LamaGame) HandlePlayerAction(playerID uuid.UUID, action GameAction) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	err := g.handlePlayerAction(playerID, action)
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"player_id": playerID,
			"action":    action.Type,
		}).WithError(err).Info("action rejected")
		g.fireEventToPlayer(playerID, GameEvent{
			Type: EventPrivateRejected,
			Payload: map[string]interface{}{
				"action":  action.Type,
				"message": err.Error(),
			},
		})
	}
	return err
}

func (g *LamaGame) handlePlayerAction(playerID uuid.UUID, action GameAction) error {
	switch {
	case !g.Started:
		return ErrGameNotStarted
	case g.GameOver:
		return ErrGameOver
	case g.RoundOver:
		return ErrRoundOver
	}

	seat, ok := g.PlayerToEngine[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if g.Seats[seat].IsAI {
		return ErrAISeat
	}

	act, err := engine.ParseTurnAction(action.Type)
	if err != nil {
		return err
	}
	d := engine.Decision{Action: act, Card: engine.EmptyCard}
	if act == engine.ActionPlayCard {
		card, ok := g.CardTracker.cardInHand(seat, action.CardID)
		if !ok {
			return fmt.Errorf("play %s: %w", action.CardID, ErrUnknownCard)
		}
		d.Card = card
	}
	return g.applyDecision(seat, d, action.CardID)
}

// endRound scores the finished round and ends the game if the threshold
// was reached.
// Assumes lock is held by caller.
func (g *LamaGame) endRound() error {
	r := g.Engine.CurrentRound()
	summary, err := g.Engine.ScoreRound()
	if err != nil {
		return fmt.Errorf("end round: %w", err)
	}
	g.stopAITimer()
	g.RoundOver = true
	g.LastRound = &summary

	g.fireEvent(GameEvent{
		Type: EventGameRoundEnd,
		Payload: map[string]interface{}{
			"round":     g.Engine.RoundNumber(),
			"reason":    r.EndReason().String(),
			"summary":   summary,
			"standings": g.standings(),
		},
	})
	g.log.WithFields(logrus.Fields{
		"round":  g.Engine.RoundNumber(),
		"reason": r.EndReason().String(),
	}).Info("round ended")
	g.logAction(uuid.Nil, string(EventGameRoundEnd), map[string]interface{}{
		"round":   g.Engine.RoundNumber(),
		"reason":  r.EndReason().String(),
		"summary": summary,
	})

	if g.Engine.IsGameOver() {
		g.endGame()
	}
	return nil
}

// endGame broadcasts the result and triggers the OnGameEnd callback.
// Assumes lock is held by caller.
func (g *LamaGame) endGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	g.stopAITimer()

	var winners []uuid.UUID
	for _, p := range g.Engine.Winners() {
		winners = append(winners, g.Seats[p.Index()].ID)
	}
	scores := g.scores()

	g.fireEvent(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"winners":   winners,
			"scores":    scores,
			"standings": g.standings(),
			"rounds":    g.Engine.RoundNumber(),
		},
	})
	g.log.WithFields(logrus.Fields{
		"rounds":  g.Engine.RoundNumber(),
		"winners": winners,
	}).Info("game over")
	g.logAction(uuid.Nil, string(EventGameEnd), map[string]interface{}{"winners": winners})

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winners, scores)
	}
}

// Standing is one row of the scoreboard.
type Standing struct {
	PlayerID    uuid.UUID `json:"playerId"`
	Name        string    `json:"name"`
	WhiteTokens int       `json:"whiteTokens"`
	BlackTokens int       `json:"blackTokens"`
	TotalPoints int       `json:"totalPoints"`
}

// standings lists the seats from fewest to most points.
// Assumes lock is held by caller.
func (g *LamaGame) standings() []Standing {
	ps := g.Engine.Standings()
	out := make([]Standing, len(ps))
	for i, p := range ps {
		s := g.Seats[p.Index()]
		out[i] = Standing{
			PlayerID:    s.ID,
			Name:        s.Name,
			WhiteTokens: p.WhiteTokens(),
			BlackTokens: p.BlackTokens(),
			TotalPoints: p.TotalPoints(),
		}
	}
	return out
}

func (g *LamaGame) scores() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(g.Seats))
	for i, s := range g.Seats {
		out[s.ID] = g.Engine.Player(i).TotalPoints()
	}
	return out
}

// fireEvent broadcasts an event to all players via the BroadcastFn callback.
// Assumes lock is held by caller.
func (g *LamaGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event to one player via BroadcastToPlayerFn.
// Assumes lock is held by caller.
func (g *LamaGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// sendSyncState sends the player's view of the table to that player.
// Assumes lock is held by caller.
func (g *LamaGame) sendSyncState(playerID uuid.UUID) {
	state := g.obfuscatedState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// logAction appends an entry to the action history.
// Assumes lock is held by caller.
func (g *LamaGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := history.ActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.recorder.Record(ctx, rec); err != nil {
		g.log.WithError(err).WithField("action", actionType).Warn("failed recording action")
	}
}
