// internal/history/history.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ActionRecord is one entry in a game's action history.
type ActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   uuid.UUID              `json:"actorUserId"` // uuid.Nil for game-level events
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"` // unix millis
}

// Recorder stores action records. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(ctx context.Context, rec ActionRecord) error
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, ActionRecord) error { return nil }

// LogRecorder writes each record as a debug log line.
type LogRecorder struct {
	Log logrus.FieldLogger
}

func (r LogRecorder) Record(_ context.Context, rec ActionRecord) error {
	r.Log.WithFields(logrus.Fields{
		"game_id": rec.GameID,
		"index":   rec.ActionIndex,
		"actor":   rec.ActorUserID,
		"action":  rec.ActionType,
	}).Debug("action recorded")
	return nil
}

// Memory keeps records in memory, mostly for tests and replays.
type Memory struct {
	mu      sync.Mutex
	records []ActionRecord
}

func (m *Memory) Record(_ context.Context, rec ActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Records returns a copy of everything recorded so far.
func (m *Memory) Records() []ActionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ActionRecord(nil), m.records...)
}

// ---- Redis ----

// RedisRecorder appends JSON-encoded records to a per-game Redis list and
// announces each one on a pub/sub channel for live consumers.
type RedisRecorder struct {
	cli redis.Cmdable
}

// NewRedisRecorder wraps an existing client (single node or cluster).
func NewRedisRecorder(cli redis.Cmdable) *RedisRecorder {
	return &RedisRecorder{cli: cli}
}

// DialRedis connects to addr and pings it before returning a recorder.
func DialRedis(ctx context.Context, addr string) (*RedisRecorder, func() error, error) {
	cli := redis.NewClient(&redis.Options{Addr: addr})
	if err := cli.Ping(ctx).Err(); err != nil {
		cli.Close()
		return nil, nil, fmt.Errorf("history: redis ping %s: %w", addr, err)
	}
	return NewRedisRecorder(cli), cli.Close, nil
}

// ActionsKey is the list holding a game's records in order.
func ActionsKey(gameID uuid.UUID) string { return "lama:game:" + gameID.String() + ":actions" }

// ActionsChannel is the pub/sub channel records are announced on.
const ActionsChannel = "lama:actions"

func (r *RedisRecorder) Record(ctx context.Context, rec ActionRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("history: encode action %d: %w", rec.ActionIndex, err)
	}
	pipe := r.cli.TxPipeline()
	pipe.RPush(ctx, ActionsKey(rec.GameID), b)
	pipe.Publish(ctx, ActionsChannel, b)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("history: push action %d for game %s: %w", rec.ActionIndex, rec.GameID, err)
	}
	return nil
}

// Load reads back a game's records from Redis in the order they were written.
func (r *RedisRecorder) Load(ctx context.Context, gameID uuid.UUID) ([]ActionRecord, error) {
	raw, err := r.cli.LRange(ctx, ActionsKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("history: load game %s: %w", gameID, err)
	}
	out := make([]ActionRecord, 0, len(raw))
	for i, s := range raw {
		var rec ActionRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("history: decode record %d of game %s: %w", i, gameID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
