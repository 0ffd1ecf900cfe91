package ratelimit

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeZSets mimics the Redis sorted-set commands the limiter issues.
type fakeZSets struct {
	mu      sync.Mutex
	sets    map[string][]redis.Z
	ttls    map[string]time.Duration
	cardErr error
	addErr  error
}

func newFakeZSets() *fakeZSets {
	return &fakeZSets{sets: map[string][]redis.Z{}, ttls: map[string]time.Duration{}}
}

func (f *fakeZSets) ZRemRangeByScore(ctx context.Context, key, min, max string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	lo, _ := strconv.ParseFloat(min, 64)
	hi, _ := strconv.ParseFloat(max, 64)
	var kept []redis.Z
	var removed int64
	for _, z := range f.sets[key] {
		if z.Score >= lo && z.Score <= hi {
			removed++
			continue
		}
		kept = append(kept, z)
	}
	f.sets[key] = kept
	return redis.NewIntResult(removed, nil)
}

func (f *fakeZSets) ZCard(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cardErr != nil {
		return redis.NewIntResult(0, f.cardErr)
	}
	return redis.NewIntResult(int64(len(f.sets[key])), nil)
}

func (f *fakeZSets) ZRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := append([]redis.Z(nil), f.sets[key]...)
	sort.Slice(set, func(i, j int) bool { return set[i].Score < set[j].Score })
	if len(set) == 0 {
		return redis.NewZSliceCmdResult(nil, nil)
	}
	return redis.NewZSliceCmdResult(set[start:min(int(stop)+1, len(set))], nil)
}

func (f *fakeZSets) ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return redis.NewIntResult(0, f.addErr)
	}
	f.sets[key] = append(f.sets[key], members...)
	return redis.NewIntResult(int64(len(members)), nil)
}

func (f *fakeZSets) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func TestRedisLimiter_SlidingWindow(t *testing.T) {
	store := newFakeZSets()
	l := NewRedisLimiter(store, 2, time.Minute)
	now := time.UnixMilli(1_700_000_000_000)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	now = now.Add(10 * time.Second)
	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// every admitted hit is recorded
	assert.Len(t, store.sets["ratelimit:sw:1.2.3.4"], 2)
	assert.Equal(t, time.Minute, store.ttls["ratelimit:sw:1.2.3.4"])

	now = now.Add(20 * time.Second)
	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 30*time.Second, d.RetryAfter)

	// the first hit leaves the window
	now = now.Add(31 * time.Second)
	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisLimiter_Errors(t *testing.T) {
	ctx := context.Background()

	store := newFakeZSets()
	store.cardErr = errors.New("redis down")
	_, err := NewRedisLimiter(store, 1, time.Minute).Allow(ctx, "k")
	assert.EqualError(t, err, "redis down")

	store = newFakeZSets()
	store.addErr = errors.New("readonly replica")
	_, err = NewRedisLimiter(store, 1, time.Minute).Allow(ctx, "k")
	assert.EqualError(t, err, "readonly replica")
}

func TestNewRedisClient_BadDSN(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing redis dsn")
}
