package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"estate-core/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisHistoryStore_AppendAndRecent(t *testing.T) {
	_, client := newTestRedis(t)
	history := NewRedisHistoryStore(client, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := history.Append(ctx, entity.ConversationTurn{
			SessionID:        "sess",
			UserMessage:      fmt.Sprintf("question %d", i),
			AssistantMessage: fmt.Sprintf("answer %d", i),
			Timestamp:        time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	turns, err := history.Recent(ctx, "sess", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "question 1", turns[0].UserMessage)
	assert.Equal(t, "question 2", turns[1].UserMessage)
}

func TestRedisHistoryStore_RecentEmptySession(t *testing.T) {
	_, client := newTestRedis(t)
	history := NewRedisHistoryStore(client, time.Hour)

	turns, err := history.Recent(context.Background(), "never-seen", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestRedisHistoryStore_SessionsAreIsolated(t *testing.T) {
	_, client := newTestRedis(t)
	history := NewRedisHistoryStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, history.Append(ctx, entity.ConversationTurn{SessionID: "a", UserMessage: "from a"}))
	require.NoError(t, history.Append(ctx, entity.ConversationTurn{SessionID: "b", UserMessage: "from b"}))

	turns, err := history.Recent(ctx, "a", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "from a", turns[0].UserMessage)
}

func TestRedisHistoryStore_AppendTrimsOldTurns(t *testing.T) {
	_, client := newTestRedis(t)
	history := NewRedisHistoryStore(client, time.Hour)
	ctx := context.Background()

	for i := 0; i < historyMaxTurns+5; i++ {
		require.NoError(t, history.Append(ctx, entity.ConversationTurn{
			SessionID:   "sess",
			UserMessage: fmt.Sprintf("question %d", i),
		}))
	}

	length, err := client.LLen(ctx, historyKey("sess")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(historyMaxTurns), length)

	turns, err := history.Recent(ctx, "sess", 1)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, fmt.Sprintf("question %d", historyMaxTurns+4), turns[0].UserMessage)
}

func TestRedisHistoryStore_AppendSetsTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	history := NewRedisHistoryStore(client, time.Hour)

	require.NoError(t, history.Append(context.Background(), entity.ConversationTurn{
		SessionID:   "sess",
		UserMessage: "hello",
	}))
	assert.Equal(t, time.Hour, mr.TTL(historyKey("sess")))
}
