package e2e

import (
	"context"
	"strings"
	"testing"

	"github.com/go-rod/rod"
	"github.com/parley-chat/parley-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const (
	smallMessage  = "Small message"
	mediumMessage = "Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor"
	mePostColor   = "rgba(61, 60, 64, 0.6)"
)

// fixture is shared by every scenario of the suite, which therefore runs in order.
type fixture struct {
	ctx     context.Context
	baseURL string
	admin   *Client

	team        *models.Team
	user1       *models.User
	user2       *models.User
	deactivated *models.User
	userGroup   []*models.User
	testChannel *models.Channel

	browser *Browser
}

func newFixture(t *testing.T) *fixture {
	ctx := context.Background()
	admin, baseURL := adminClient(ctx, t)
	f := &fixture{ctx: ctx, baseURL: baseURL, admin: admin}

	var err error
	f.team, err = admin.CreateTeam(ctx, "team", "Team")
	require.NoError(t, err)

	f.user1 = f.teamUser(t, "user1")
	f.user2 = f.teamUser(t, "user2")
	for i := 0; i < 8; i++ {
		f.userGroup = append(f.userGroup, f.teamUser(t, "groupuser"))
	}

	f.deactivated, err = admin.CreateUser(ctx, "deactivated")
	require.NoError(t, err)
	require.NoError(t, admin.DeactivateUser(ctx, f.deactivated.ID))

	f.testChannel, err = admin.CreateChannel(ctx, f.team.ID, "channel-test", "channel-test")
	require.NoError(t, err)

	t.Cleanup(func() {
		if f.browser != nil {
			_ = f.browser.Close()
		}
	})
	return f
}

func (f *fixture) teamUser(t *testing.T, prefix string) *models.User {
	user, err := f.admin.CreateUser(f.ctx, prefix)
	require.NoError(t, err)
	require.NoError(t, f.admin.AddUserToTeam(f.ctx, f.team.ID, user.ID))
	return user
}

func (f *fixture) channelPath(name string) string {
	return "/" + f.team.Name + "/channels/" + name
}

func (f *fixture) townSquare() string {
	return f.channelPath(models.DefaultChannelName)
}

// visitAs signs user in and opens path.
func (f *fixture) visitAs(t *testing.T, user *models.User, path string) (*Session, *Page) {
	s, err := NewSession(f.baseURL)
	require.NoError(t, err)
	_, err = s.Login(f.ctx, user.Username, DefaultPassword)
	require.NoError(t, err)
	page, err := s.Visit(f.ctx, path)
	require.NoError(t, err)
	require.NotNil(t, page.ByID("postListContent"))
	return s, page
}

// browserAs signs user in to a headless browser tab and opens path.
func (f *fixture) browserAs(t *testing.T, user *models.User, path string) *rod.Page {
	if f.browser == nil {
		b, err := LaunchBrowser(f.baseURL)
		require.NoError(t, err)
		f.browser = b
	}
	page, err := f.browser.Login(user.Username, DefaultPassword)
	require.NoError(t, err)
	t.Cleanup(func() { _ = page.Close() })
	require.NoError(t, f.browser.Visit(page, path))
	return page
}

func post(t *testing.T, ctx context.Context, s *Session, text string) *Page {
	page, err := s.PostMessage(ctx, text)
	require.NoError(t, err)
	return page
}

func usernames(users []*models.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

func suggestionText(item *html.Node) string {
	return strings.TrimSpace(TrimmedText(Find(item, ByClass("command__title"))) + " " + TrimmedText(Find(item, ByClass("command__hint"))))
}

func TestCommonCommands(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx

	t.Run("T573 slash command autocomplete list can scroll", func(t *testing.T) {
		s, _ := f.visitAs(t, f.user1, f.townSquare())

		items, err := s.Suggestions(ctx, "/")
		require.NoError(t, err)
		require.Greater(t, len(items), 1)
		assert.Equal(t, "/away", suggestionText(items[0]))
		assert.Equal(t, "/shrug [message]", suggestionText(items[len(items)-1]))

		if !BrowserEnabled() {
			t.Logf("set %s=1 to check the list scrolling", BrowserEnv)
			return
		}
		page := f.browserAs(t, f.user1, f.townSquare())
		require.NoError(t, Type(page, "#post_textbox", "/"))
		require.NoError(t, WaitFor(page, "#suggestionList .suggestion-list__item"))

		require.NoError(t, ScrollTo(page, "#suggestionList", true))
		visible, err := VisibleWithin(page, "#suggestionList", "/away")
		require.NoError(t, err)
		assert.False(t, visible)
		visible, err = VisibleWithin(page, "#suggestionList", "/shrug [message]")
		require.NoError(t, err)
		assert.True(t, visible)

		require.NoError(t, ScrollTo(page, "#suggestionList", false))
		visible, err = VisibleWithin(page, "#suggestionList", "/away")
		require.NoError(t, err)
		assert.True(t, visible)
		visible, err = VisibleWithin(page, "#suggestionList", "/shrug [message]")
		require.NoError(t, err)
		assert.False(t, visible)
	})

	t.Run("T574 /shrug test", func(t *testing.T) {
		s2, _ := f.visitAs(t, f.user2, f.townSquare())
		post(t, ctx, s2, "hello from user2")

		s1, _ := f.visitAs(t, f.user1, f.townSquare())
		page := post(t, ctx, s1, "/shrug test")
		id := page.LastPostID()
		require.NotEmpty(t, id)
		assert.Equal(t, f.user1.Username, page.PostAuthor(id))
		assert.Equal(t, `test ¯\_(ツ)_/¯`, page.PostText(id))

		page, err := s2.Visit(ctx, f.townSquare())
		require.NoError(t, err)
		assert.Equal(t, id, page.LastPostID())
		assert.Equal(t, f.user1.Username, page.PostAuthor(id))
		assert.Equal(t, `test ¯\_(ツ)_/¯`, page.PostText(id))
	})

	t.Run("T664 /groupmsg initial tests", func(t *testing.T) {
		s, _ := f.visitAs(t, f.user1, f.townSquare())

		first := usernames(f.userGroup[:4])
		formats := []string{
			"@" + strings.Join(first, ", @"),
			first[0] + ", @" + first[1] + " , " + first[2] + " , @" + first[3],
		}

		for _, users := range formats {
			page := post(t, ctx, s, "/groupmsg "+users+" "+smallMessage)
			assert.Equal(t, smallMessage, page.LastPostText())
			for _, name := range first {
				assert.Contains(t, page.ChannelHeader(), name)
			}
			_, err := s.ClickSidebarItem(ctx, "Town Square")
			require.NoError(t, err)
		}

		for _, users := range formats {
			page := post(t, ctx, s, "/groupmsg "+users)
			assert.Equal(t, smallMessage, page.LastPostText())
			for _, name := range first {
				assert.Contains(t, page.ChannelHeader(), name)
			}
			_, err := s.ClickSidebarItem(ctx, "Town Square")
			require.NoError(t, err)
		}

		second := usernames(f.userGroup[1:5])
		page := post(t, ctx, s, "/groupmsg @"+strings.Join(second, ", @"))
		for _, name := range second {
			assert.Contains(t, page.ChannelHeader(), name)
		}
	})

	t.Run("T666 /groupmsg error if messaging more than 7 users", func(t *testing.T) {
		s, _ := f.visitAs(t, f.user1, f.townSquare())
		all := usernames(f.userGroup)

		page := post(t, ctx, s, "/groupmsg @"+strings.Join(all, ", @")+" "+mediumMessage)
		assert.Equal(t, "Group messages are limited to a maximum of 7 users.", page.LastPostText())

		page = post(t, ctx, s, "/groupmsg @"+strings.Join(all[:2], ", @")+", @hello "+mediumMessage)
		assert.Equal(t, "Unable to find the user: @hello", page.LastPostText())

		page = post(t, ctx, s, "/groupmsg @"+strings.Join(all[:2], ", @")+", @hello, @world "+mediumMessage)
		assert.Equal(t, "Unable to find the users: @hello, @world", page.LastPostText())
	})

	t.Run("T2345 /me not overwritten on reply", func(t *testing.T) {
		s, _ := f.visitAs(t, f.user1, f.townSquare())
		post(t, ctx, s, mediumMessage)

		_, err := s.ClickPostCommentIcon(ctx, "")
		require.NoError(t, err)
		require.NotNil(t, s.Page.ByID("reply_form"))

		page, err := s.Reply(ctx, "/me test")
		require.NoError(t, err)
		id := page.LastPostID()
		require.NotEmpty(t, id)

		for _, el := range []*html.Node{page.ByID("rhsPost_" + id), page.ByID("post_" + id)} {
			require.NotNil(t, el)
			assert.True(t, HasClass(el, "current--user"))
			assert.True(t, HasClass(el, "post--me"))

			buttons := FindAll(el, ByTag("button"))
			require.Len(t, buttons, 1)
			assert.Equal(t, f.user1.Username, TrimmedText(buttons[0]))

			paragraphs := FindAll(el, ByTag("p"))
			require.Len(t, paragraphs, 1)
			assert.Equal(t, "test", TrimmedText(paragraphs[0]))
		}

		if !BrowserEnabled() {
			t.Logf("set %s=1 to check the /me colour", BrowserEnv)
			return
		}
		bp := f.browserAs(t, f.user1, "/"+f.team.Name+"/pl/"+id)
		for _, sel := range []string{"#rhsPost_" + id + " p", "#post_" + id + " p"} {
			color, err := ComputedColor(bp, sel)
			require.NoError(t, err)
			assert.Equal(t, mePostColor, color, sel)
		}
	})

	t.Run("T710 /mute error message", func(t *testing.T) {
		s, _ := f.visitAs(t, f.user1, f.townSquare())
		page := post(t, ctx, s, "/mute oppagangnamstyle")

		id := page.LastPostID()
		assert.Equal(t, "Could not find the channel oppagangnamstyle. Please use the channel handle to identify channels.", page.PostText(id))
		link := Find(page.ByID("postMessageText_"+id), Containing(ByTag("a"), "channel handle"))
		require.NotNil(t, link)
		assert.Equal(t, channelHandleURL, Attr(link, "href"))
	})

	t.Run("T658 /invite into the current channel", func(t *testing.T) {
		invitee := f.userGroup[0]
		s, _ := f.visitAs(t, f.user1, f.channelPath(f.testChannel.Name))

		page := post(t, ctx, s, "/invite @"+invitee.Username)
		assert.Contains(t, page.LastPostText(), "@"+invitee.Username+" added to the channel by you")

		page = post(t, ctx, s, "/invite @"+f.deactivated.Username)
		assert.Contains(t, page.LastPostText(), "We couldn't find the user. They may have been deactivated by the System Administrator.")

		s2, page := f.visitAs(t, invitee, f.townSquare())
		link := page.SidebarLink(f.channelPath(f.testChannel.Name))
		require.NotNil(t, link)
		assert.NotNil(t, Find(link, ByID("unreadMentions")))
		assert.Contains(t, TrimmedText(Find(link, ByClass("sidebar-item__name"))), f.testChannel.DisplayName)

		page, err := s2.Follow(ctx, link)
		require.NoError(t, err)
		assert.Contains(t, page.LastPostText(), "You were added to the channel by @"+f.user1.Username)
	})

	t.Run("T661 /invite extra whitespace", func(t *testing.T) {
		user := f.userGroup[6]
		gmInvitee := f.userGroup[5]
		dmInvitee := f.userGroup[4]
		require.NoError(t, f.admin.AddUserToChannel(ctx, f.testChannel.ID, user.ID))

		s, _ := f.visitAs(t, user, f.channelPath(f.testChannel.Name))

		post(t, ctx, s, "/groupmsg @"+f.userGroup[0].Username+" @"+f.userGroup[1].Username)
		page := post(t, ctx, s, "/invite        @"+gmInvitee.Username+" ~"+f.testChannel.Name)
		assert.Contains(t, page.LastPostText(), gmInvitee.Username+" added to "+f.testChannel.Name+" channel.")

		page, err := s.OpenDirectMessage(ctx, dmInvitee.Username)
		require.NoError(t, err)
		assert.Contains(t, page.ChannelHeader(), dmInvitee.Username)
		page = post(t, ctx, s, "/invite        @"+dmInvitee.Username+" ~"+f.testChannel.Name)
		assert.Contains(t, page.LastPostText(), dmInvitee.Username+" added to "+f.testChannel.Name+" channel.")
	})

	t.Run("T659 /invite into another channel", func(t *testing.T) {
		user := f.userGroup[4]
		invitee := f.userGroup[3]
		require.NoError(t, f.admin.AddUserToChannel(ctx, f.testChannel.ID, user.ID))

		s, _ := f.visitAs(t, user, f.townSquare())
		page := post(t, ctx, s, "/invite @"+invitee.Username+" ~"+f.testChannel.Name)
		assert.Contains(t, page.LastPostText(), invitee.Username+" added to "+f.testChannel.Name+" channel.")

		s2, page := f.visitAs(t, invitee, f.channelPath(f.testChannel.Name))
		link := page.SidebarLink(f.channelPath(f.testChannel.Name))
		require.NotNil(t, link)
		assert.NotNil(t, Find(link, ByID("unreadMentions")))

		page, err := s2.Follow(ctx, link)
		require.NoError(t, err)
		assert.Contains(t, page.LastPostText(), "You were added to the channel by @"+user.Username)
	})

	t.Run("T660_1 /invite a channel name instead of a user", func(t *testing.T) {
		dmUser := f.userGroup[2]
		expected := "We couldn't find the user. They may have been deactivated by the System Administrator."
		s, _ := f.visitAs(t, f.user1, f.townSquare())

		post(t, ctx, s, "/groupmsg @"+f.userGroup[0].Username+" @"+f.userGroup[1].Username)
		page := post(t, ctx, s, "/invite @"+f.testChannel.Name)
		assert.Contains(t, page.LastPostText(), expected)

		page, err := s.OpenDirectMessage(ctx, dmUser.Username)
		require.NoError(t, err)
		assert.Contains(t, page.ChannelHeader(), dmUser.Username)
		page = post(t, ctx, s, "/invite @"+f.testChannel.Name)
		assert.Contains(t, page.LastPostText(), expected)
	})

	t.Run("T660_2 /invite a user already in the channel", func(t *testing.T) {
		dmUser := f.userGroup[2]
		invitee := f.userGroup[3]
		require.NoError(t, f.admin.AddUserToChannel(ctx, f.testChannel.ID, invitee.ID))
		require.NoError(t, f.admin.AddUserToChannel(ctx, f.testChannel.ID, f.user1.ID))

		s, _ := f.visitAs(t, f.user1, f.townSquare())
		expected := invitee.Username + " is already in the channel."

		post(t, ctx, s, "/groupmsg @"+f.userGroup[0].Username+" @"+f.userGroup[1].Username)
		page := post(t, ctx, s, "/invite @"+invitee.Username+" ~"+f.testChannel.Name)
		assert.Contains(t, page.LastPostText(), expected)

		_, err := s.OpenDirectMessage(ctx, dmUser.Username)
		require.NoError(t, err)
		page = post(t, ctx, s, "/invite @"+invitee.Username+" ~"+f.testChannel.Name)
		assert.Contains(t, page.LastPostText(), expected)
	})

	t.Run("T660_3 /invite without permission in the target channel", func(t *testing.T) {
		owner := f.userGroup[0]
		inviter := f.userGroup[1]
		invitee := f.userGroup[2]
		dmUser := f.userGroup[3]
		channelName := owner.Username + "-channel"

		sOwner, _ := f.visitAs(t, owner, f.townSquare())
		page, err := sOwner.CreatePublicChannel(ctx, channelName)
		require.NoError(t, err)
		require.NotNil(t, page.ByID("postListContent"))
		assert.Contains(t, page.ChannelHeader(), channelName)

		s, _ := f.visitAs(t, inviter, f.townSquare())
		expected := "You don't have enough permissions to add " + invitee.Username + " in " + channelName + "."

		page, err = s.OpenDirectMessage(ctx, dmUser.Username)
		require.NoError(t, err)
		assert.Contains(t, page.ChannelHeader(), dmUser.Username)
		page = post(t, ctx, s, "/invite @"+invitee.Username+" ~"+channelName)
		assert.Contains(t, page.LastPostText(), expected)

		post(t, ctx, s, "/groupmsg @"+f.userGroup[4].Username+" @"+f.userGroup[5].Username)
		page = post(t, ctx, s, "/invite @"+invitee.Username+" ~"+channelName)
		assert.Contains(t, page.LastPostText(), expected)
	})

	t.Run("T660_4 /invite with the channel display name", func(t *testing.T) {
		invitee := f.userGroup[4]
		require.NoError(t, f.admin.AddUserToChannel(ctx, f.testChannel.ID, f.user1.ID))

		s, _ := f.visitAs(t, f.user1, f.townSquare())
		page := post(t, ctx, s, "/invite @"+invitee.Username+" "+f.testChannel.DisplayName)

		id := page.LastPostID()
		assert.Contains(t, page.PostText(id), "Could not find the channel "+f.testChannel.DisplayName+". Please use the channel handle to identify channels.")
		link := Find(page.ByID("post_"+id), Containing(ByTag("a"), "channel handle"))
		require.NotNil(t, link)
		assert.Equal(t, channelHandleURL, Attr(link, "href"))
	})

	t.Run("T2834 slash command hint and cleared textbox", func(t *testing.T) {
		s, _ := f.visitAs(t, f.user1, f.townSquare())

		items, err := s.Suggestions(ctx, "/rename ")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "[text]", TrimmedText(Find(items[0], ByClass("command__hint"))))

		page := post(t, ctx, s, "/rename Hello")
		assert.Empty(t, Text(page.ByID("post_textbox")))

		if !BrowserEnabled() {
			t.Logf("set %s=1 to check the textbox in a browser", BrowserEnv)
			return
		}
		bp := f.browserAs(t, f.user1, f.townSquare())
		require.NoError(t, Type(bp, "#post_textbox", "/rename "))
		require.NoError(t, WaitFor(bp, "#suggestionList .command__hint"))
		visible, err := VisibleWithin(bp, "#suggestionList", "[text]")
		require.NoError(t, err)
		assert.True(t, visible)

		require.NoError(t, Type(bp, "#post_textbox", "Hello"))
		require.NoError(t, PressEnter(bp))
		value, err := Value(bp, "#post_textbox")
		require.NoError(t, err)
		assert.Empty(t, value)
	})
}
