package ephemeral

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis"
	"github.com/parley-chat/parley-services/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	redisServer, err := miniredis.Run()
	require.NoError(t, err)
	defer redisServer.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("127.0.0.1:%s", redisServer.Port()),
	})

	stores := []struct {
		name  string
		store Store
	}{
		{"memory", NewMemoryStore(time.Hour)},
		{"redis", NewRedisStore(redisClient, time.Hour)},
	}

	for _, cfg := range stores {
		s := cfg.store
		ctx := context.Background()
		t.Run(cfg.name, func(t *testing.T) {
			require.NoError(t, s.Add(ctx, "user1", &models.Post{
				ID: "p1", ChannelID: "c1", Message: "first", Type: models.PostTypeEphemeral,
			}))
			require.NoError(t, s.Add(ctx, "user1", &models.Post{
				ID: "p2", ChannelID: "c1", RootID: "root", Message: "second", Type: models.PostTypeEphemeral,
			}))
			require.NoError(t, s.Add(ctx, "user1", &models.Post{ID: "p3", ChannelID: "c2", Message: "elsewhere"}))

			posts, err := s.List(ctx, "user1", "c1")
			require.NoError(t, err)
			require.Len(t, posts, 2)
			assert.Equal(t, "first", posts[0].Message)
			assert.Equal(t, "root", posts[1].RootID)

			posts, err = s.List(ctx, "user2", "c1")
			require.NoError(t, err)
			assert.Empty(t, posts)
		})
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	now := time.Now()
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "user1", &models.Post{ID: "p1", ChannelID: "c1"}))
	now = now.Add(2 * time.Minute)

	posts, err := s.List(ctx, "user1", "c1")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Empty(t, s.posts)

	_, err = s.List(ctx, "user2", "c2")
	require.NoError(t, err)
	assert.Empty(t, s.posts)
}

func TestRedisStoreSetsTTL(t *testing.T) {
	redisServer, err := miniredis.Run()
	require.NoError(t, err)
	defer redisServer.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	s := NewRedisStore(redisClient, time.Minute)
	require.NoError(t, s.Add(context.Background(), "user1", &models.Post{ID: "p1", ChannelID: "c1"}))

	assert.Equal(t, time.Minute, redisServer.TTL(key("user1", "c1")))
}
