// internal/history/history_test.go
package history

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() ActionRecord {
	return ActionRecord{
		GameID:        uuid.New(),
		ActionIndex:   3,
		ActorUserID:   uuid.New(),
		ActionType:    "player_play_card",
		ActionPayload: map[string]interface{}{"value": "Llama"},
		Timestamp:     1700000000000,
	}
}

func TestMemoryRecorder(t *testing.T) {
	var m Memory
	rec := sampleRecord()
	require.NoError(t, m.Record(context.Background(), rec))
	got := m.Records()
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])

	got[0].ActionIndex = 99
	assert.Equal(t, 3, m.Records()[0].ActionIndex, "Records must return a copy")
}

func TestLogRecorder(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	rec := sampleRecord()
	require.NoError(t, LogRecorder{Log: logger}.Record(context.Background(), rec))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "player_play_card", entry.Data["action"])
	assert.Equal(t, rec.GameID, entry.Data["game_id"])
}

func TestRecordJSONShape(t *testing.T) {
	b, err := json.Marshal(sampleRecord())
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"gameId", "actionIndex", "actorUserId", "actionType", "actionPayload", "timestamp"} {
		assert.Contains(t, m, k)
	}
}

func TestActionsKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "lama:game:6ba7b810-9dad-11d1-80b4-00c04fd430c8:actions", ActionsKey(id))
}

// TestRedisRecorderUnreachable verifies connection errors surface wrapped
// with the game and action.
func TestRedisRecorderUnreachable(t *testing.T) {
	cli := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer cli.Close()

	r := NewRedisRecorder(cli)
	rec := sampleRecord()
	err := r.Record(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), rec.GameID.String())

	_, err = r.Load(context.Background(), rec.GameID)
	assert.Error(t, err)
}

func TestDialRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, _, err := DialRedis(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cli.Close() })
	return mr, cli
}

func TestRedisRecorderRecordAndLoad(t *testing.T) {
	mr, cli := newMiniRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := cli.Subscribe(ctx, ActionsChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err, "subscription confirmation")

	r := NewRedisRecorder(cli)
	gameID, actor := uuid.New(), uuid.New()
	var want []ActionRecord
	for i, typ := range []string{"game_start", "player_play_card", "player_quit"} {
		rec := ActionRecord{
			GameID:        gameID,
			ActionIndex:   i + 1,
			ActorUserID:   actor,
			ActionType:    typ,
			ActionPayload: map[string]interface{}{"card": "Llama", "private": false},
			Timestamp:     1700000000000 + int64(i),
		}
		require.NoError(t, r.Record(ctx, rec))
		want = append(want, rec)
	}

	raw, err := mr.List(ActionsKey(gameID))
	require.NoError(t, err)
	require.Len(t, raw, 3)
	var first ActionRecord
	require.NoError(t, json.Unmarshal([]byte(raw[0]), &first))
	assert.Equal(t, "game_start", first.ActionType)

	got, err := r.Load(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for i := range want {
		msg, err := sub.ReceiveMessage(ctx)
		require.NoError(t, err)
		assert.Equal(t, ActionsChannel, msg.Channel)
		assert.Equal(t, raw[i], msg.Payload)
	}

	other, err := r.Load(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRedisRecorderLoadCorrupt(t *testing.T) {
	mr, cli := newMiniRedis(t)
	gameID := uuid.New()
	_, err := mr.RPush(ActionsKey(gameID), "not json")
	require.NoError(t, err)

	_, err = NewRedisRecorder(cli).Load(context.Background(), gameID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode record 0")
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	r, closeFn, err := DialRedis(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer closeFn()

	rec := sampleRecord()
	require.NoError(t, r.Record(context.Background(), rec))
	assert.True(t, mr.Exists(ActionsKey(rec.GameID)))
}
