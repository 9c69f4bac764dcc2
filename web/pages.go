package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/api/services"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/commands"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

type channelPage struct {
	Team        *models.Team
	User        *models.User
	Channel     *models.Channel
	DisplayName string
	Sidebar     []app.SidebarItem
	Posts       []*models.RenderedPost
	Thread      []*models.RenderedPost
	ThreadRoot  string
}

// PostsURL is the form target of the message boxes.
func (p *channelPage) PostsURL() string {
	return channelPath(p.Team.Name, p.Channel.Name) + "/posts"
}

func channelPath(team, channel string) string {
	return "/" + team + "/channels/" + channel
}

func (u *UI) loginPage(w http.ResponseWriter, r *http.Request) {
	u.render(w, r, http.StatusOK, "login.html", map[string]interface{}{
		"RedirectTo": r.URL.Query().Get("redirect_to"),
	})
}

func (u *UI) login(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	if err := r.ParseForm(); err != nil {
		u.fail(w, r, app.NewError(app.ErrIDInvalidLogin, "Invalid form.", http.StatusBadRequest))
		return
	}

	user, token, err := u.App.Login(r.Context(), r.PostForm.Get("login_id"), r.PostForm.Get("password"))
	if err != nil {
		message := "Unable to sign in."
		if appErr, ok := app.AsError(err); ok && appErr.Status < http.StatusInternalServerError {
			message = appErr.Message
		}
		u.render(w, r, app.StatusOf(err), "login.html", map[string]interface{}{
			"RedirectTo": r.PostForm.Get("redirect_to"),
			"Error":      message,
			"LoginID":    r.PostForm.Get("login_id"),
		})
		return
	}

	services.SetSessionCookie(w, token, int(u.App.Config.Auth.TokenTTL.Seconds()))
	logger.Info().Str("user_id", user.ID).Msg("User signed in")

	target := r.PostForm.Get("redirect_to")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (u *UI) logout(w http.ResponseWriter, r *http.Request) {
	services.SetSessionCookie(w, "", -1)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// home sends the user to the town square of their first team.
func (u *UI) home(w http.ResponseWriter, r *http.Request) {
	teams, err := u.App.Store.GetTeamsForUser(r.Context(), userID(r))
	if err != nil {
		u.fail(w, r, err)
		return
	}
	if len(teams) == 0 {
		u.render(w, r, http.StatusOK, "error.html", map[string]interface{}{
			"Status":  http.StatusOK,
			"Message": "You are not a member of any team.",
		})
		return
	}
	http.Redirect(w, r, channelPath(teams[0].Name, models.DefaultChannelName), http.StatusFound)
}

// teamFor loads the team named in the URL and checks the caller belongs to it.
func (u *UI) teamFor(r *http.Request) (*models.Team, error) {
	team, err := u.App.GetTeamByName(r.Context(), mux.Vars(r)["team"])
	if err != nil {
		return nil, err
	}
	member, err := u.App.IsTeamMember(r.Context(), team.ID, userID(r))
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, app.NewError(app.ErrIDTeamNotFound, "Unable to find the team.", http.StatusNotFound)
	}
	return team, nil
}

// openChannel resolves a channel by name and makes sure the caller is a
// member. Public channels are joined on first visit.
func (u *UI) openChannel(r *http.Request, team *models.Team, name string) (*models.Channel, error) {
	ctx := r.Context()
	uid := userID(r)

	channel, err := u.App.GetChannelByName(ctx, team.ID, name)
	if err != nil {
		return nil, err
	}
	member, err := u.App.IsChannelMember(ctx, channel.ID, uid)
	if err != nil {
		return nil, err
	}
	if member {
		return channel, nil
	}
	if channel.Type != models.ChannelOpen {
		return nil, app.NewError(app.ErrIDChannelNotFound, "Unable to find the channel.", http.StatusNotFound)
	}
	if _, err := u.App.JoinChannel(ctx, uid, channel.ID); err != nil {
		return nil, err
	}
	return channel, nil
}

func (u *UI) channelPage(w http.ResponseWriter, r *http.Request) {
	team, err := u.teamFor(r)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	channel, err := u.openChannel(r, team, mux.Vars(r)["channel"])
	if err != nil {
		u.fail(w, r, err)
		return
	}
	u.showChannel(w, r, team, channel, "")
}

func (u *UI) threadPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	team, err := u.teamFor(r)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	post, err := u.App.Store.GetPost(ctx, mux.Vars(r)["post-id"])
	if err != nil {
		u.fail(w, r, app.NewError(app.ErrIDPostNotFound, "Unable to find the message.", http.StatusNotFound))
		return
	}
	channel, err := u.App.GetChannel(ctx, post.ChannelID)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	if channel, err = u.openChannel(r, team, channel.Name); err != nil {
		u.fail(w, r, err)
		return
	}
	root := post.ID
	if post.RootID != "" {
		root = post.RootID
	}
	u.showChannel(w, r, team, channel, root)
}

// showChannel renders a channel, and the thread of threadRoot when set. The
// sidebar is built before the channel is marked read so the badges of the
// current visit stay visible.
func (u *UI) showChannel(w http.ResponseWriter, r *http.Request, team *models.Team, channel *models.Channel, threadRoot string) {
	ctx := r.Context()
	uid := userID(r)

	user, err := u.App.GetUser(ctx, uid)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	sidebar, err := u.App.Sidebar(ctx, team.ID, uid)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	displayName, err := u.App.ChannelDisplayName(ctx, uid, channel)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	posts, err := u.App.GetChannelView(ctx, uid, channel.ID, 0)
	if err != nil {
		u.fail(w, r, err)
		return
	}

	page := &channelPage{
		Team:        team,
		User:        user,
		Channel:     channel,
		DisplayName: displayName,
		Sidebar:     sidebar,
		Posts:       posts,
		ThreadRoot:  threadRoot,
	}
	if threadRoot != "" {
		if page.Thread, err = u.App.GetThread(ctx, uid, threadRoot); err != nil {
			u.fail(w, r, err)
			return
		}
	}

	if err := u.App.ViewChannel(ctx, uid, channel.ID); err != nil {
		u.fail(w, r, err)
		return
	}
	u.render(w, r, http.StatusOK, "channel.html", page)
}

// submitPost handles both message boxes. Text starting with a slash runs as
// a command and anything else is posted as-is. Errors the user can act on
// are shown to them as ephemeral messages.
func (u *UI) submitPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	uid := userID(r)

	team, err := u.teamFor(r)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	channel, err := u.openChannel(r, team, mux.Vars(r)["channel"])
	if err != nil {
		u.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		u.fail(w, r, app.NewError(app.ErrIDInvalidPost, "Invalid form.", http.StatusBadRequest))
		return
	}
	message := r.PostForm.Get("message")
	rootID := r.PostForm.Get("root_id")

	back := channelPath(team.Name, channel.Name)
	if rootID != "" {
		back = "/" + team.Name + "/pl/" + rootID
	}
	if strings.TrimSpace(message) == "" {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if _, _, perr := commands.Parse(message); perr == nil {
		resp, err := u.Commands.Execute(ctx, &models.CommandArgs{
			UserID:    uid,
			TeamID:    team.ID,
			ChannelID: channel.ID,
			RootID:    rootID,
			Command:   message,
			SiteURL:   u.App.Config.SiteURL,
		})
		if err != nil {
			if !u.showError(w, r, channel.ID, rootID, err) {
				return
			}
		} else if resp.GotoLocation != "" {
			back = resp.GotoLocation
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if _, err := u.App.CreatePost(ctx, &models.Post{
		ChannelID: channel.ID,
		UserID:    uid,
		RootID:    rootID,
		Message:   message,
	}); err != nil {
		if !u.showError(w, r, channel.ID, rootID, err) {
			return
		}
	} else {
		logger.Debug().Str("channel_id", channel.ID).Msg("Post created")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// showError stores a user facing error as an ephemeral post. It renders the
// error page and returns false when err is not something the user caused.
func (u *UI) showError(w http.ResponseWriter, r *http.Request, channelID, rootID string, err error) bool {
	appErr, ok := app.AsError(err)
	if !ok || appErr.Status >= http.StatusInternalServerError {
		u.fail(w, r, err)
		return false
	}
	if _, err := u.App.SendEphemeral(r.Context(), userID(r), channelID, rootID, appErr.Message); err != nil {
		u.fail(w, r, err)
		return false
	}
	return true
}

// createChannel creates a public channel from the sidebar form. The handle
// is derived from the display name.
func (u *UI) createChannel(w http.ResponseWriter, r *http.Request) {
	team, err := u.teamFor(r)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		u.fail(w, r, app.NewError(app.ErrIDInvalidChannelName, "Invalid form.", http.StatusBadRequest))
		return
	}

	displayName := strings.TrimSpace(r.PostForm.Get("display_name"))
	channel, err := u.App.CreateChannel(r.Context(), userID(r), models.ChannelRequest{
		TeamID:      team.ID,
		Name:        app.HandleFromDisplayName(displayName),
		DisplayName: displayName,
		Type:        models.ChannelOpen,
	})
	if err != nil {
		u.fail(w, r, err)
		return
	}
	http.Redirect(w, r, channelPath(team.Name, channel.Name), http.StatusSeeOther)
}

func (u *UI) openDirect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		u.fail(w, r, app.NewError(app.ErrIDInvalidUser, "Invalid form.", http.StatusBadRequest))
		return
	}
	username := strings.TrimPrefix(strings.TrimSpace(r.PostForm.Get("username")), "@")
	http.Redirect(w, r, "/"+mux.Vars(r)["team"]+"/messages/@"+url.PathEscape(username), http.StatusSeeOther)
}

func (u *UI) directPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	team, err := u.teamFor(r)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	other, err := u.App.GetUserByUsername(ctx, mux.Vars(r)["username"])
	if err != nil {
		u.fail(w, r, err)
		return
	}
	channel, err := u.App.GetOrCreateDirectChannel(ctx, userID(r), other.ID)
	if err != nil {
		u.fail(w, r, err)
		return
	}
	u.showChannel(w, r, team, channel, "")
}

// suggestions renders the entries of the command suggestion list for the
// text typed so far.
func (u *UI) suggestions(w http.ResponseWriter, r *http.Request) {
	if _, err := u.teamFor(r); err != nil {
		u.fail(w, r, err)
		return
	}
	u.render(w, r, http.StatusOK, "suggestions.html", u.Commands.Registry.Suggest(r.URL.Query().Get("text")))
}
