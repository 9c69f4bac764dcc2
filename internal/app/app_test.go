package app_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/parley-chat/parley-services/db"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/app/apptest"
	"github.com/parley-chat/parley-services/internal/events"
	"github.com/parley-chat/parley-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	a, _ := apptest.New(t)
	ctx := context.Background()

	first := apptest.CreateUser(t, a, "first")
	assert.True(t, first.IsSystemAdmin())
	assert.Empty(t, first.PasswordHash)

	second := apptest.CreateUser(t, a, "Second")
	assert.Equal(t, "second", second.Username)
	assert.False(t, second.IsSystemAdmin())

	_, err := a.CreateUser(ctx, &models.User{Username: "second", Email: "x@example.com", Password: "passwd"})
	assert.True(t, app.HasID(err, app.ErrIDUsernameTaken))

	_, err = a.CreateUser(ctx, &models.User{Username: "1bad", Email: "x@example.com", Password: "passwd"})
	assert.Equal(t, http.StatusBadRequest, app.StatusOf(err))

	admin, err := a.CreateSystemAdmin(ctx, &models.User{Username: "boss", Email: "boss@example.com", Password: "passwd"})
	require.NoError(t, err)
	assert.True(t, admin.IsSystemAdmin())
}

func TestLogin(t *testing.T) {
	a, _ := apptest.New(t)
	ctx := context.Background()
	user := apptest.CreateUser(t, a, "someone")

	got, token, err := a.Login(ctx, "@someone", apptest.Password)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnline, got.Status)

	claims, err := a.Signer.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())

	_, _, err = a.Login(ctx, "someone", "wrong")
	assert.Equal(t, http.StatusUnauthorized, app.StatusOf(err))

	require.NoError(t, a.SetUserActive(ctx, user.ID, user.ID, false))
	_, _, err = a.Login(ctx, "someone", apptest.Password)
	assert.True(t, app.HasID(err, app.ErrIDUserInactive))
}

func TestSetUserActiveRequiresSelfOrAdmin(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()

	err := f.App.SetUserActive(ctx, f.User1.ID, f.User2.ID, false)
	assert.Equal(t, http.StatusForbidden, app.StatusOf(err))

	require.NoError(t, f.App.SetUserActive(ctx, f.Admin.ID, f.User2.ID, false))
	_, err = f.App.GetActiveUserByUsername(ctx, "user-2")
	assert.True(t, app.HasID(err, app.ErrIDUserNotFound))
}

func TestCreateTeamJoinsDefaultChannels(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()

	for _, name := range []string{models.DefaultChannelName, models.OffTopicChannelName} {
		channel, err := f.App.GetChannelByName(ctx, f.Team.ID, name)
		require.NoError(t, err)
		ok, err := f.App.IsChannelMember(ctx, channel.ID, f.User1.ID)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
}

func TestCreateChannel(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()

	channel := f.CreateChannel(t, f.User1, "channel-test-abc", "channel-test abc")
	ok, err := f.App.IsChannelMember(ctx, channel.ID, f.User1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.App.CreateChannel(ctx, f.User2.ID, models.ChannelRequest{TeamID: f.Team.ID, Name: "channel-test-abc", DisplayName: "dup"})
	assert.True(t, app.HasID(err, app.ErrIDChannelExists))

	_, err = f.App.CreateChannel(ctx, f.User2.ID, models.ChannelRequest{TeamID: f.Team.ID, Name: "Bad Name", DisplayName: "x"})
	assert.True(t, app.HasID(err, app.ErrIDInvalidChannelName))

	byName, err := f.App.GetChannelByName(ctx, f.Team.ID, "~channel-test-abc")
	require.NoError(t, err)
	assert.Equal(t, channel.ID, byName.ID)
}

func TestAddChannelMember(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()
	channel := f.CreateChannel(t, f.User1, "channel-test-abc", "channel-test abc")

	t.Run("adds with a system post and a mention", func(t *testing.T) {
		member, err := f.App.AddChannelMember(ctx, f.User1.ID, channel.ID, f.User2.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, member.MentionCount)

		posts, err := f.App.GetChannelView(ctx, f.User2.ID, channel.ID, 0)
		require.NoError(t, err)
		require.NotEmpty(t, posts)
		last := posts[len(posts)-1]
		assert.Equal(t, models.PostTypeAddToChannel, last.Type)
		assert.Equal(t, "You were added to the channel by @user-1.", last.Text)

		posts, err = f.App.GetChannelView(ctx, f.User1.ID, channel.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "@user-2 added to the channel by you.", posts[len(posts)-1].Text)

		posts, err = f.App.GetChannelView(ctx, f.Admin.ID, channel.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "@user-2 added to the channel by @user-1.", posts[len(posts)-1].Text)
	})

	t.Run("already a member", func(t *testing.T) {
		_, err := f.App.AddChannelMember(ctx, f.User1.ID, channel.ID, f.User2.ID)
		require.True(t, app.HasID(err, app.ErrIDAlreadyMember))
		appErr, _ := app.AsError(err)
		assert.Equal(t, "user-2 is already in the channel.", appErr.Message)
	})

	t.Run("no permission", func(t *testing.T) {
		user3 := f.AddUser(t, "user-3")
		other := f.CreateChannel(t, f.Admin, "other-channel", "Other")
		_, err := f.App.AddChannelMember(ctx, f.User1.ID, other.ID, user3.ID)
		require.True(t, app.HasID(err, app.ErrIDNoPermission))
		appErr, _ := app.AsError(err)
		assert.Equal(t, "You don't have enough permissions to add user-3 in other-channel.", appErr.Message)
	})

	t.Run("private channel needs the channel admin role", func(t *testing.T) {
		private, err := f.App.CreateChannel(ctx, f.User1.ID, models.ChannelRequest{
			TeamID:      f.Team.ID,
			Name:        "private-channel",
			DisplayName: "Private",
			Type:        models.ChannelPrivate,
		})
		require.NoError(t, err)
		_, err = f.App.AddChannelMember(ctx, f.User1.ID, private.ID, f.User2.ID)
		require.NoError(t, err)

		user4 := f.AddUser(t, "user-4")
		_, err = f.App.AddChannelMember(ctx, f.User2.ID, private.ID, user4.ID)
		require.True(t, app.HasID(err, app.ErrIDNoPermission))
		appErr, _ := app.AsError(err)
		assert.Equal(t, "You don't have enough permissions to add user-4 in private-channel.", appErr.Message)

		_, err = f.App.AddChannelMember(ctx, f.Admin.ID, private.ID, user4.ID)
		assert.NoError(t, err)
	})

	t.Run("not on the team", func(t *testing.T) {
		outsider := apptest.CreateUser(t, f.App, "outsider")
		_, err := f.App.AddChannelMember(ctx, f.User1.ID, channel.ID, outsider.ID)
		assert.True(t, app.HasID(err, app.ErrIDNotTeamMember))
	})

	t.Run("join is idempotent", func(t *testing.T) {
		_, err := f.App.JoinChannel(ctx, f.User2.ID, channel.ID)
		assert.NoError(t, err)
	})
}

func TestRemoveChannelMember(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()
	channel := f.CreateChannel(t, f.User1, "channel-test-abc", "channel-test abc")
	_, err := f.App.AddChannelMember(ctx, f.User1.ID, channel.ID, f.User2.ID)
	require.NoError(t, err)

	require.NoError(t, f.App.RemoveChannelMember(ctx, f.User1.ID, channel.ID, f.User2.ID))
	ok, err := f.App.IsChannelMember(ctx, channel.ID, f.User2.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	err = f.App.LeaveChannel(ctx, f.User1.ID, f.TownSquare.ID)
	assert.True(t, app.HasID(err, app.ErrIDDefaultChannel))

	require.NoError(t, f.App.LeaveChannel(ctx, f.User1.ID, channel.ID))
	posts, err := f.App.GetChannelView(ctx, f.Admin.ID, channel.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "@user-1 left the channel.", posts[len(posts)-1].Text)
}

func TestDirectAndGroupChannels(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()

	dm, err := f.App.GetOrCreateDirectChannel(ctx, f.User1.ID, f.User2.ID)
	require.NoError(t, err)
	again, err := f.App.GetOrCreateDirectChannel(ctx, f.User2.ID, f.User1.ID)
	require.NoError(t, err)
	assert.Equal(t, dm.ID, again.ID)

	name, err := f.App.ChannelDisplayName(ctx, f.User1.ID, dm)
	require.NoError(t, err)
	assert.Equal(t, "user-2", name)

	self, err := f.App.GetOrCreateDirectChannel(ctx, f.User1.ID, f.User1.ID)
	require.NoError(t, err)
	name, err = f.App.ChannelDisplayName(ctx, f.User1.ID, self)
	require.NoError(t, err)
	assert.Equal(t, "user-1 (you)", name)

	user3 := f.AddUser(t, "user-3")
	gm, err := f.App.GetOrCreateGroupChannel(ctx, f.User1.ID, []string{f.User2.ID, user3.ID})
	require.NoError(t, err)
	assert.Equal(t, "user-1, user-2, user-3", gm.DisplayName)
	gmAgain, err := f.App.GetOrCreateGroupChannel(ctx, user3.ID, []string{f.User1.ID, f.User2.ID})
	require.NoError(t, err)
	assert.Equal(t, gm.ID, gmAgain.ID)

	_, err = f.App.GetOrCreateGroupChannel(ctx, f.User1.ID, []string{f.User2.ID})
	assert.True(t, app.HasID(err, app.ErrIDGroupTooSmall))

	_, err = f.App.AddChannelMember(ctx, f.User1.ID, gm.ID, f.Admin.ID)
	assert.True(t, app.HasID(err, app.ErrIDDirectChannel))
}

func TestRenameChannel(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()
	channel := f.CreateChannel(t, f.User1, "channel-test-abc", "Old Name")

	renamed, err := f.App.RenameChannel(ctx, f.User1.ID, channel.ID, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", renamed.DisplayName)

	posts, err := f.App.GetChannelView(ctx, f.User1.ID, channel.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "@user-1 updated the channel display name from: Old Name to: New Name", posts[len(posts)-1].Text)

	_, err = f.App.RenameChannel(ctx, f.User2.ID, channel.ID, "Nope")
	assert.True(t, app.HasID(err, app.ErrIDNoPermission))
}

func TestUpdateChannelHeaderAndPurpose(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()

	_, err := f.App.UpdateChannelHeader(ctx, f.User1.ID, f.TownSquare.ID, "hello")
	require.NoError(t, err)
	_, err = f.App.UpdateChannelHeader(ctx, f.User1.ID, f.TownSquare.ID, "")
	require.NoError(t, err)

	posts, err := f.App.GetChannelView(ctx, f.User1.ID, f.TownSquare.ID, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "@user-1 updated the channel header to: hello", posts[0].Text)
	assert.Equal(t, "@user-1 removed the channel header (was: hello)", posts[1].Text)

	dm, err := f.App.GetOrCreateDirectChannel(ctx, f.User1.ID, f.User2.ID)
	require.NoError(t, err)
	_, err = f.App.UpdateChannelPurpose(ctx, f.User1.ID, dm.ID, "x")
	assert.True(t, app.HasID(err, app.ErrIDDirectChannel))
}

func TestPostsAndMentions(t *testing.T) {
	f := apptest.NewFixture(t)
	a, ctx := f.App, context.Background()

	post, err := a.CreatePost(ctx, &models.Post{ChannelID: f.TownSquare.ID, UserID: f.User1.ID, Message: "hi @user-2."})
	require.NoError(t, err)

	member, err := a.GetChannelMember(ctx, f.TownSquare.ID, f.User2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, member.MentionCount)

	items, err := a.Sidebar(ctx, f.Team.ID, f.User2.ID)
	require.NoError(t, err)
	for _, item := range items {
		if item.Channel.ID == f.TownSquare.ID {
			assert.True(t, item.Unread)
			assert.EqualValues(t, 1, item.Mentions)
		}
	}

	require.NoError(t, a.ViewChannel(ctx, f.User2.ID, f.TownSquare.ID))
	member, err = a.GetChannelMember(ctx, f.TownSquare.ID, f.User2.ID)
	require.NoError(t, err)
	assert.Zero(t, member.MentionCount)

	reply, err := a.CreatePost(ctx, &models.Post{ChannelID: f.TownSquare.ID, UserID: f.User2.ID, RootID: post.ID, Message: "reply"})
	require.NoError(t, err)
	nested, err := a.CreatePost(ctx, &models.Post{ChannelID: f.TownSquare.ID, UserID: f.User1.ID, RootID: reply.ID, Message: "nested"})
	require.NoError(t, err)
	assert.Equal(t, post.ID, nested.RootID)

	thread, err := a.GetThread(ctx, f.User1.ID, reply.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.True(t, thread[0].CurrentUser)
	assert.False(t, thread[1].CurrentUser)

	outsider := apptest.CreateUser(t, a, "outsider")
	_, err = a.CreatePost(ctx, &models.Post{ChannelID: f.TownSquare.ID, UserID: outsider.ID, Message: "x"})
	assert.True(t, app.HasID(err, app.ErrIDNotChannelMember))
}

func TestDirectMessageMentionsEveryone(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()

	dm, err := f.App.GetOrCreateDirectChannel(ctx, f.User1.ID, f.User2.ID)
	require.NoError(t, err)
	_, err = f.App.CreatePost(ctx, &models.Post{ChannelID: dm.ID, UserID: f.User1.ID, Message: "ping"})
	require.NoError(t, err)

	member, err := f.App.GetChannelMember(ctx, dm.ID, f.User2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, member.MentionCount)

	author, err := f.App.GetChannelMember(ctx, dm.ID, f.User1.ID)
	require.NoError(t, err)
	assert.Zero(t, author.MentionCount)
}

func TestEphemeralPostsAreVisibleToOneUser(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()

	_, err := f.App.SendEphemeral(ctx, f.User1.ID, f.TownSquare.ID, "", "only for you")
	require.NoError(t, err)

	posts, err := f.App.GetChannelView(ctx, f.User1.ID, f.TownSquare.ID, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "system", posts[0].Username)
	assert.True(t, posts[0].IsEphemeral())

	posts, err = f.App.GetChannelView(ctx, f.User2.ID, f.TownSquare.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestToggleMute(t *testing.T) {
	f := apptest.NewFixture(t)
	ctx := context.Background()

	muted, err := f.App.ToggleMute(ctx, f.User1.ID, f.TownSquare.ID)
	require.NoError(t, err)
	assert.True(t, muted)

	muted, err = f.App.ToggleMute(ctx, f.User1.ID, f.TownSquare.ID)
	require.NoError(t, err)
	assert.False(t, muted)

	outsider := apptest.CreateUser(t, f.App, "outsider")
	_, err = f.App.ToggleMute(ctx, outsider.ID, f.TownSquare.ID)
	assert.True(t, app.HasID(err, app.ErrIDNotChannelMember))
}

func TestEventsArePublished(t *testing.T) {
	a, rec := apptest.New(t)
	ctx := context.Background()
	admin := apptest.CreateUser(t, a, "sysadmin")
	team, err := a.CreateTeam(ctx, admin.ID, &models.Team{Name: "team-a"})
	require.NoError(t, err)

	channel, err := a.CreateChannel(ctx, admin.ID, models.ChannelRequest{TeamID: team.ID, Name: "news", DisplayName: "News"})
	require.NoError(t, err)
	_, err = a.CreatePost(ctx, &models.Post{ChannelID: channel.ID, UserID: admin.ID, Message: "hello"})
	require.NoError(t, err)

	created := rec.Events(events.ChannelCreated)
	require.Len(t, created, 1)
	assert.Equal(t, channel.ID, created[0].ChannelID)
	assert.Len(t, rec.Events(events.PostCreated), 1)
}

func TestSystemMessageFor(t *testing.T) {
	post := &models.Post{
		Type:    models.PostTypeAddToChannel,
		Message: "@bob added to the channel by @alice.",
		Props: map[string]string{
			models.PostPropUserID:        "alice-id",
			models.PostPropUsername:      "alice",
			models.PostPropAddedUserID:   "bob-id",
			models.PostPropAddedUsername: "bob",
		},
	}
	assert.Equal(t, "You were added to the channel by @alice.", app.SystemMessageFor(post, "bob-id"))
	assert.Equal(t, "@bob added to the channel by you.", app.SystemMessageFor(post, "alice-id"))
	assert.Equal(t, post.Message, app.SystemMessageFor(post, "carol-id"))
}

func TestRecordAudit(t *testing.T) {
	a, _ := apptest.New(t)
	store := a.Store.(*db.MemoryDB)

	err := a.RecordAudit(context.Background(), events.Event{Type: events.PostCreated, ChannelID: "c1", UserID: "u1", PostID: "p1", CreateAt: 42})
	require.NoError(t, err)

	audits := store.Audits()
	require.Len(t, audits, 1)
	assert.Equal(t, events.PostCreated, audits[0].EventType)
	assert.Equal(t, int64(42), audits[0].CreateAt)
	assert.Contains(t, audits[0].Payload, `"post_id":"p1"`)
}
