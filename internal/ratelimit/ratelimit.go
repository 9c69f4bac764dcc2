package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/parley-chat/parley-services/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// Limiter caps how many slash commands a user may run per window.
type Limiter interface {
	// Take consumes one unit for key. It returns false when the key is over
	// its limit; an error only signals a failure of the backing store.
	Take(ctx context.Context, key string) (bool, error)
}

// window holds the counters of one truncated time window.
type window struct {
	truncTS int64
	keys    map[string]int
	mtx     sync.Mutex
}

func (w *window) take(key string, max int) bool {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	val := w.keys[key]
	w.keys[key] = val + 1
	return val < max
}

// MemoryLimiter counts per process. Counters reset whenever the truncated
// timestamp moves to a new window.
type MemoryLimiter struct {
	curr *window
	dur  time.Duration
	max  int
	now  func() time.Time
	mtx  sync.Mutex
}

func NewMemoryLimiter(dur time.Duration, max int) *MemoryLimiter {
	return &MemoryLimiter{dur: dur, max: max, now: time.Now}
}

func (m *MemoryLimiter) Take(ctx context.Context, key string) (bool, error) {
	m.mtx.Lock()
	truncTS := m.now().Truncate(m.dur).Unix()
	if m.curr == nil || m.curr.truncTS != truncTS {
		m.curr = &window{truncTS: truncTS, keys: make(map[string]int)}
	}
	w := m.curr
	m.mtx.Unlock()

	return w.take(key, m.max), nil
}

// RedisLimiter shares counters between replicas using a fixed window per key.
type RedisLimiter struct {
	r      redis.UniversalClient
	dur    time.Duration
	max    int
	prefix string
}

func NewRedisLimiter(r redis.UniversalClient, dur time.Duration, max int, prefix string) *RedisLimiter {
	return &RedisLimiter{r: r, dur: dur, max: max, prefix: prefix}
}

func (r *RedisLimiter) Take(ctx context.Context, key string) (bool, error) {
	var incr *redis.IntCmd
	truncTS := time.Now().Truncate(r.dur).Unix()
	fullKey := fmt.Sprintf("rate_limit:%s:%s:%d", r.prefix, key, truncTS)
	_, err := r.r.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.PExpire(ctx, fullKey, r.dur-time.Millisecond)
		return nil
	})
	if err != nil {
		metrics.RecordRateLimitTakeError()
		return false, fmt.Errorf("error taking rate limit: %w", err)
	}
	return incr.Val()-1 < int64(r.max), nil
}

type noopLimiter struct{}

// Noop never limits.
var Noop Limiter = noopLimiter{}

func (noopLimiter) Take(context.Context, string) (bool, error) {
	return true, nil
}

// Fallback uses secondary whenever primary fails.
type Fallback struct {
	primary   Limiter
	secondary Limiter
}

func NewFallback(primary, secondary Limiter) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Take(ctx context.Context, key string) (bool, error) {
	ok, err := f.primary.Take(ctx, key)
	if err != nil {
		return f.secondary.Take(ctx, key)
	}
	return ok, nil
}
