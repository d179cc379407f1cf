package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLoginActivityStore tracks failed sign-in attempts in a Redis sorted
// set per key, scored by unix time so window pruning is a range delete.
type RedisLoginActivityStore struct {
	client *redis.Client
	window time.Duration
}

func NewRedisLoginActivityStore(client *redis.Client, window time.Duration) *RedisLoginActivityStore {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLoginActivityStore{client: client, window: window}
}

func (s *RedisLoginActivityStore) key(key string) string {
	return "mailagent:login_failures:" + key
}

func (s *RedisLoginActivityStore) RecordFailure(ctx context.Context, key string, at time.Time) error {
	redisKey := s.key(key)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, redisKey, redis.Z{
			Score:  float64(at.UnixNano()),
			Member: strconv.FormatInt(at.UnixNano(), 10),
		})
		p.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(at.Add(-s.window).UnixNano(), 10))
		p.Expire(ctx, redisKey, s.window*2)
		return nil
	})
	return err
}

func (s *RedisLoginActivityStore) FailuresSince(ctx context.Context, key string, since time.Time) (int, error) {
	count, err := s.client.ZCount(ctx, s.key(key),
		strconv.FormatInt(since.UnixNano(), 10), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *RedisLoginActivityStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
