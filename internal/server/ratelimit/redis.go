package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/ids"
	"github.com/redis/go-redis/v9"
)

// sortedSets is the part of the Redis API the sliding window needs.
// *redis.Client satisfies it.
type sortedSets interface {
	ZRemRangeByScore(ctx context.Context, key, min, max string) *redis.IntCmd
	ZCard(ctx context.Context, key string) *redis.IntCmd
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter keeps one sorted set per client, scored by request time in
// milliseconds, and admits at most limit entries per window.
type RedisLimiter struct {
	rdb    sortedSets
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb sortedSets, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, now: time.Now}
}

// NewRedisClient connects to the Redis named by a redis:// URL and pings it.
func NewRedisClient(ctx context.Context, dsn string) (*redis.Client, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis dsn: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	return rdb, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	setKey := "ratelimit:sw:" + normalizeKey(key)
	now := l.now().UnixMilli()
	windowMs := l.window.Milliseconds()

	// drop entries that left the window
	oldest := now - windowMs
	if err := l.rdb.ZRemRangeByScore(ctx, setKey, "0", strconv.FormatInt(oldest, 10)).Err(); err != nil {
		return Decision{}, err
	}

	count, err := l.rdb.ZCard(ctx, setKey).Result()
	if err != nil {
		return Decision{}, err
	}

	if count >= l.limit {
		retryAfter := l.window
		first, err := l.rdb.ZRangeWithScores(ctx, setKey, 0, 0).Result()
		if err == nil && len(first) > 0 {
			retryAfter = time.Duration(windowMs-(now-int64(first[0].Score))) * time.Millisecond
			if retryAfter < 0 {
				retryAfter = 0
			}
		}
		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	if err := l.rdb.ZAdd(ctx, setKey, redis.Z{Score: float64(now), Member: ids.New()}).Err(); err != nil {
		return Decision{}, err
	}
	if err := l.rdb.Expire(ctx, setKey, l.window).Err(); err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: true}, nil
}
