// Package ephemeral keeps posts that only one user can see, such as command
// errors. They are never written to the database.
package ephemeral

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/parley-chat/parley-services/models"
	"github.com/redis/go-redis/v9"
)

// maxPerChannel bounds how many ephemeral posts are kept per user and channel.
const maxPerChannel = 100

// Store holds ephemeral posts per user and channel.
type Store interface {
	Add(ctx context.Context, userID string, post *models.Post) error
	List(ctx context.Context, userID, channelID string) ([]*models.Post, error)
}

type entry struct {
	post    *models.Post
	expires time.Time
}

// MemoryStore keeps ephemeral posts in process.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	posts map[string][]entry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, posts: map[string][]entry{}}
}

func key(userID, channelID string) string {
	return "ephemeral:" + userID + ":" + channelID
}

func (m *MemoryStore) Add(ctx context.Context, userID string, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *post
	k := key(userID, post.ChannelID)
	entries := append(m.live(k), entry{post: &cp, expires: m.now().Add(m.ttl)})
	if len(entries) > maxPerChannel {
		entries = entries[len(entries)-maxPerChannel:]
	}
	m.posts[k] = entries
	return nil
}

func (m *MemoryStore) List(ctx context.Context, userID, channelID string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(userID, channelID)
	entries := m.live(k)
	if len(entries) == 0 {
		delete(m.posts, k)
	} else {
		m.posts[k] = entries
	}

	posts := make([]*models.Post, 0, len(entries))
	for _, e := range entries {
		cp := *e.post
		posts = append(posts, &cp)
	}
	return posts, nil
}

// live drops expired entries. Callers hold mu.
func (m *MemoryStore) live(k string) []entry {
	now := m.now()
	var out []entry
	for _, e := range m.posts[k] {
		if now.Before(e.expires) {
			out = append(out, e)
		}
	}
	return out
}

// RedisStore keeps ephemeral posts in a capped Redis list per user and channel.
// The list expires ttl after its last write.
type RedisStore struct {
	r   redis.UniversalClient
	ttl time.Duration
}

func NewRedisStore(r redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{r: r, ttl: ttl}
}

func (s *RedisStore) Add(ctx context.Context, userID string, post *models.Post) error {
	payload, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("error encoding ephemeral post: %w", err)
	}

	k := key(userID, post.ChannelID)
	_, err = s.r.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, k, payload)
		pipe.LTrim(ctx, k, -maxPerChannel, -1)
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error storing ephemeral post: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, userID, channelID string) ([]*models.Post, error) {
	raw, err := s.r.LRange(ctx, key(userID, channelID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error listing ephemeral posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(raw))
	for _, item := range raw {
		var p models.Post
		if err := json.Unmarshal([]byte(item), &p); err != nil {
			return nil, fmt.Errorf("error decoding ephemeral post: %w", err)
		}
		posts = append(posts, &p)
	}
	return posts, nil
}
