package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"estate-core/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// historyMaxTurns caps the stored tail of a session.
const historyMaxTurns = 200

type RedisHistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHistoryStore(client *redis.Client, ttl time.Duration) *RedisHistoryStore {
	return &RedisHistoryStore{client: client, ttl: ttl}
}

func historyKey(sessionID string) string {
	return "chat:" + sessionID
}

// Append pushes the turn onto the session's list; list order is
// chronological by construction.
func (s *RedisHistoryStore) Append(ctx context.Context, turn entity.ConversationTurn) error {
	encoded, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}
	key := historyKey(turn.SessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, encoded)
	pipe.LTrim(ctx, key, -historyMaxTurns, -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns the last `limit` turns, oldest first.
func (s *RedisHistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]entity.ConversationTurn, error) {
	values, err := s.client.LRange(ctx, historyKey(sessionID), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	turns := make([]entity.ConversationTurn, 0, len(values))
	for _, value := range values {
		var turn entity.ConversationTurn
		if err := json.Unmarshal([]byte(value), &turn); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
