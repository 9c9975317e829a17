package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of redis.Cmdable used by RedisStore.
type RedisClient interface {
	ZAddNX(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	ZRevRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	ZScore(ctx context.Context, key, member string) *redis.FloatCmd
}

// RedisStore keeps each user's bookmarks in a sorted set scored by the
// time the article was saved.
type RedisStore struct {
	rdb RedisClient
	now func() time.Time
}

// NewRedisStore creates a store on top of rdb.
func NewRedisStore(rdb RedisClient) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func key(userID string) string {
	return "bookmarks:" + userID
}

func (s *RedisStore) Add(ctx context.Context, userID, articleID string) error {
	z := redis.Z{Score: float64(s.now().UnixMilli()), Member: articleID}
	if err := s.rdb.ZAddNX(ctx, key(userID), z).Err(); err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}

	return nil
}

func (s *RedisStore) Remove(ctx context.Context, userID, articleID string) error {
	if err := s.rdb.ZRem(ctx, key(userID), articleID).Err(); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	return nil
}

func (s *RedisStore) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.rdb.ZRevRange(ctx, key(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

func (s *RedisStore) Contains(ctx context.Context, userID, articleID string) (bool, error) {
	err := s.rdb.ZScore(ctx, key(userID), articleID).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to read bookmark: %w", err)
	}

	return true, nil
}
