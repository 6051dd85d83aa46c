package history

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps a capped list of recent messages per room.
type RedisStore struct {
	client *redis.Client
	limit  int64
}

func NewRedisStore(client *redis.Client, limit int) *RedisStore {
	if limit <= 0 {
		limit = 50
	}
	return &RedisStore{client: client, limit: int64(limit)}
}

func redisKey(roomID string) string {
	return "chat:history:" + roomID
}

func (s *RedisStore) Append(ctx context.Context, roomID string, message json.RawMessage) error {
	key := redisKey(roomID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, []byte(message))
	pipe.LTrim(ctx, key, -s.limit, -1)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Recent(ctx context.Context, roomID string) ([]json.RawMessage, error) {
	entries, err := s.client.LRange(ctx, redisKey(roomID), -s.limit, -1).Result()
	if err != nil {
		return nil, err
	}
	messages := make([]json.RawMessage, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, json.RawMessage(entry))
	}
	return messages, nil
}
