package commands

import (
	"context"
	"strings"

	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/models"
)

const userNotFoundText = "We couldn't find the user."

type msgProvider struct{}

func (msgProvider) Trigger() string { return "msg" }

func (msgProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "msg", Hint: "@[username] [message]", Description: "Send Direct Message to a user", DisplayName: "msg"}
}

func (msgProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return nil, userError("A username must be provided with the /msg command.")
	}
	text := strings.TrimSpace(strings.TrimPrefix(message, fields[0]))

	user, err := a.GetActiveUserByUsername(ctx, fields[0])
	if err != nil {
		if app.HasID(err, app.ErrIDUserNotFound) {
			return nil, userError(userNotFoundText)
		}
		return nil, err
	}
	return sendDirect(ctx, a, args, user, text)
}

func sendDirect(ctx context.Context, a *app.App, args *models.CommandArgs, user *models.User, text string) (*models.CommandResponse, error) {
	channel, err := a.GetOrCreateDirectChannel(ctx, args.UserID, user.ID)
	if err != nil {
		return nil, appUserError(err)
	}
	return postAndGo(ctx, a, args, channel, text)
}

func postAndGo(ctx context.Context, a *app.App, args *models.CommandArgs, channel *models.Channel, text string) (*models.CommandResponse, error) {
	if text != "" {
		if _, err := a.CreatePost(ctx, &models.Post{ChannelID: channel.ID, UserID: args.UserID, Message: text}); err != nil {
			return nil, appUserError(err)
		}
	}
	location, err := channelURL(ctx, a, args.TeamID, channel)
	if err != nil {
		return nil, err
	}
	return &models.CommandResponse{GotoLocation: location}, nil
}

type groupMsgProvider struct{}

func (groupMsgProvider) Trigger() string { return "groupmsg" }

func (groupMsgProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "groupmsg", Hint: "@[username1],@[username2] [message]", Description: "Send a Group Message to the specified users", DisplayName: "groupmsg"}
}

// splitGroupMsg returns the comma separated usernames and the message that
// follows them. The first entry followed by more text ends the list.
func splitGroupMsg(message string) (usernames []string, text string) {
	parts := strings.Split(message, ",")
	for i, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		usernames = append(usernames, models.NormalizeUsername(fields[0]))
		if len(fields) > 1 {
			rest := strings.TrimLeft(strings.Join(parts[i:], ","), " \t\n")
			return usernames, strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
		}
	}
	return usernames, ""
}

func (groupMsgProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	usernames, text := splitGroupMsg(message)

	var missing []string
	var users []*models.User
	seen := map[string]bool{}
	for _, name := range usernames {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		user, err := a.GetActiveUserByUsername(ctx, name)
		if err != nil {
			if app.HasID(err, app.ErrIDUserNotFound) {
				missing = append(missing, "@"+name)
				continue
			}
			return nil, err
		}
		if user.ID != args.UserID {
			users = append(users, user)
		}
	}

	switch {
	case len(missing) == 1:
		return nil, userError("Unable to find the user: %s", missing[0])
	case len(missing) > 1:
		return nil, userError("Unable to find the users: %s", strings.Join(missing, ", "))
	case len(users) == 1:
		return sendDirect(ctx, a, args, users[0], text)
	case len(users) < models.ChannelGroupMinUsers-1:
		return nil, userError("Group messages are limited to a minimum of %d users.", models.ChannelGroupMinUsers-1)
	case len(users) > models.ChannelGroupMaxUsers-1:
		return nil, userError("Group messages are limited to a maximum of %d users.", models.ChannelGroupMaxUsers-1)
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	channel, err := a.GetOrCreateGroupChannel(ctx, args.UserID, ids)
	if err != nil {
		return nil, appUserError(err)
	}
	return postAndGo(ctx, a, args, channel, text)
}
