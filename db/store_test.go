package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMemoryDB(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store { return NewMemoryDB() })
}

func TestChatDB(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	connStr := setupPostgresContainer(t)
	logger := zerolog.New(os.Stdout)

	chatDB, err := NewChatDB(connStr, &logger)
	require.NoError(t, err)
	require.NoError(t, chatDB.Migrate())
	t.Cleanup(func() { chatDB.Close() })

	runStoreTests(t, func(t *testing.T) Store {
		_, err := chatDB.DB.Exec(`TRUNCATE users, teams, team_members, channels, channel_members, posts, audits`)
		require.NoError(t, err)
		return chatDB
	})
}

// Helper function to setup PostgreSQL container using testcontainers
func setupPostgresContainer(t *testing.T) string {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:13",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "parley",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("could not start container: %s", err)
	}
	t.Cleanup(func() { postgresC.Terminate(ctx) })

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/parley?sslmode=disable", host, port.Port())
}

func newUser(username string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Roles:        models.SystemUserRole,
		Status:       models.StatusOffline,
		CreateAt:     1,
	}
}

func newChannel(teamID, name, channelType string) *models.Channel {
	return &models.Channel{
		ID:          uuid.NewString(),
		TeamID:      teamID,
		Type:        channelType,
		Name:        name,
		DisplayName: name,
		CreateAt:    1,
	}
}

func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		alice, bob := newUser("alice"), newUser("bob")
		require.NoError(t, s.CreateUser(ctx, bob))
		require.NoError(t, s.CreateUser(ctx, alice))

		dup := newUser("alice")
		assert.True(t, errors.Is(s.CreateUser(ctx, dup), ErrConflict))

		got, err := s.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		_, err = s.GetUser(ctx, "missing")
		assert.True(t, errors.Is(err, ErrNotFound))

		users, err := s.GetUsersByIDs(ctx, []string{bob.ID, alice.ID})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)

		require.NoError(t, s.UpdateUserDeleteAt(ctx, bob.ID, 42))
		require.NoError(t, s.UpdateUserStatus(ctx, bob.ID, models.StatusAway))
		got, err = s.GetUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive())
		assert.Equal(t, models.StatusAway, got.Status)

		assert.True(t, errors.Is(s.UpdateUserStatus(ctx, "missing", models.StatusAway), ErrNotFound))

		count, err := s.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("teams", func(t *testing.T) {
		s := newStore(t)
		user := newUser("carol")
		require.NoError(t, s.CreateUser(ctx, user))

		team := &models.Team{ID: uuid.NewString(), Name: "ad-1", DisplayName: "AD 1", Type: models.TeamOpen, CreateAt: 1}
		require.NoError(t, s.CreateTeam(ctx, team))
		assert.True(t, errors.Is(s.CreateTeam(ctx, &models.Team{ID: uuid.NewString(), Name: "ad-1", DisplayName: "x", Type: models.TeamOpen}), ErrConflict))

		got, err := s.GetTeamByName(ctx, "ad-1")
		require.NoError(t, err)
		assert.Equal(t, team.ID, got.ID)

		member := &models.TeamMember{TeamID: team.ID, UserID: user.ID, Roles: "team_user"}
		require.NoError(t, s.SaveTeamMember(ctx, member))
		member.DeleteAt = 5
		require.NoError(t, s.SaveTeamMember(ctx, member))

		tm, err := s.GetTeamMember(ctx, team.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), tm.DeleteAt)

		teams, err := s.GetTeamsForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, teams)
	})

	t.Run("channels and members", func(t *testing.T) {
		s := newStore(t)
		u1, u2 := newUser("dave"), newUser("erin")
		require.NoError(t, s.CreateUser(ctx, u1))
		require.NoError(t, s.CreateUser(ctx, u2))

		teamID := uuid.NewString()
		require.NoError(t, s.CreateTeam(ctx, &models.Team{ID: teamID, Name: "team", DisplayName: "Team", Type: models.TeamOpen}))

		town := newChannel(teamID, models.DefaultChannelName, models.ChannelOpen)
		require.NoError(t, s.CreateChannel(ctx, town))
		assert.True(t, errors.Is(s.CreateChannel(ctx, newChannel(teamID, models.DefaultChannelName, models.ChannelOpen)), ErrConflict))

		dm := newChannel("", models.DirectChannelName(u1.ID, u2.ID), models.ChannelDirect)
		require.NoError(t, s.CreateChannel(ctx, dm))

		got, err := s.GetChannelByName(ctx, "", dm.Name)
		require.NoError(t, err)
		assert.Equal(t, dm.ID, got.ID)

		_, err = s.GetChannelByName(ctx, teamID, "nope")
		assert.True(t, errors.Is(err, ErrNotFound))

		town.DisplayName = "Town Square"
		town.Header = "hello"
		require.NoError(t, s.UpdateChannel(ctx, town))
		got, err = s.GetChannel(ctx, town.ID)
		require.NoError(t, err)
		assert.Equal(t, "Town Square", got.DisplayName)
		assert.Equal(t, "hello", got.Header)

		for _, ch := range []*models.Channel{town, dm} {
			require.NoError(t, s.SaveChannelMember(ctx, &models.ChannelMember{
				ChannelID: ch.ID, UserID: u1.ID, Roles: "channel_user", NotifyProps: models.DefaultNotifyProps(),
			}))
		}
		require.NoError(t, s.SaveChannelMember(ctx, &models.ChannelMember{
			ChannelID: dm.ID, UserID: u2.ID, Roles: "channel_user", NotifyProps: models.DefaultNotifyProps(),
		}))
		assert.True(t, errors.Is(s.SaveChannelMember(ctx, &models.ChannelMember{
			ChannelID: town.ID, UserID: u1.ID, NotifyProps: models.DefaultNotifyProps(),
		}), ErrConflict))

		channels, err := s.GetChannelsForUser(ctx, teamID, u1.ID)
		require.NoError(t, err)
		assert.Len(t, channels, 2)

		members, err := s.GetChannelMembers(ctx, dm.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)

		m, err := s.GetChannelMember(ctx, town.ID, u1.ID)
		require.NoError(t, err)
		assert.False(t, m.IsMuted())
		m.NotifyProps["mark_unread"] = models.MarkUnreadMention
		require.NoError(t, s.UpdateChannelMember(ctx, m))
		m, err = s.GetChannelMember(ctx, town.ID, u1.ID)
		require.NoError(t, err)
		assert.True(t, m.IsMuted())

		require.NoError(t, s.IncrementMentionCount(ctx, dm.ID, []string{u2.ID}))
		m, err = s.GetChannelMember(ctx, dm.ID, u2.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), m.MentionCount)

		require.NoError(t, s.RemoveChannelMember(ctx, town.ID, u1.ID))
		assert.True(t, errors.Is(s.RemoveChannelMember(ctx, town.ID, u1.ID), ErrNotFound))
	})

	t.Run("posts", func(t *testing.T) {
		s := newStore(t)
		u := newUser("frank")
		require.NoError(t, s.CreateUser(ctx, u))

		teamID := uuid.NewString()
		require.NoError(t, s.CreateTeam(ctx, &models.Team{ID: teamID, Name: "posts", DisplayName: "Posts", Type: models.TeamOpen}))
		ch := newChannel(teamID, "off-topic", models.ChannelOpen)
		require.NoError(t, s.CreateChannel(ctx, ch))
		require.NoError(t, s.SaveChannelMember(ctx, &models.ChannelMember{
			ChannelID: ch.ID, UserID: u.ID, Roles: "channel_user", NotifyProps: models.DefaultNotifyProps(),
		}))

		root := &models.Post{ID: uuid.NewString(), ChannelID: ch.ID, UserID: u.ID, Message: "root", CreateAt: 10}
		require.NoError(t, s.CreatePost(ctx, root))
		reply := &models.Post{
			ID: uuid.NewString(), ChannelID: ch.ID, UserID: u.ID, RootID: root.ID, Message: "reply",
			Type: models.PostTypeMe, CreateAt: 20,
		}
		require.NoError(t, s.CreatePost(ctx, reply))
		system := &models.Post{
			ID: uuid.NewString(), ChannelID: ch.ID, UserID: u.ID, Type: models.PostTypeAddToChannel,
			Props: map[string]string{models.PostPropAddedUsername: "x"}, CreateAt: 30,
		}
		require.NoError(t, s.CreatePost(ctx, system))

		got, err := s.GetChannel(ctx, ch.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.TotalMsgCount)
		assert.Equal(t, int64(30), got.LastPostAt)

		posts, err := s.GetPostsForChannel(ctx, ch.ID, 2)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, reply.ID, posts[0].ID)
		assert.Equal(t, "x", posts[1].Props[models.PostPropAddedUsername])

		thread, err := s.GetPostThread(ctx, root.ID)
		require.NoError(t, err)
		require.Len(t, thread, 2)
		assert.Equal(t, root.ID, thread[0].ID)
		assert.Equal(t, models.PostTypeMe, thread[1].Type)

		require.NoError(t, s.ViewChannel(ctx, ch.ID, u.ID, 99))
		m, err := s.GetChannelMember(ctx, ch.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), m.MsgCount)
		assert.Equal(t, int64(99), m.LastViewedAt)

		require.NoError(t, s.SaveAudit(ctx, &models.Audit{
			ID: uuid.NewString(), EventType: "post_created", ChannelID: ch.ID, UserID: u.ID, Payload: "{}", CreateAt: 1,
		}))
	})
}

func TestMemoryDBReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryDB()
	u := newUser("grace")
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "changed"

	again, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace", again.Username)
}
