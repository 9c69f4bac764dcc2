package commands

import (
	"context"
	"strings"

	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/models"
)

type joinProvider struct{}

func (joinProvider) Trigger() string { return "join" }

func (joinProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "join", Hint: "~[channel]", Description: "Join the open channel", DisplayName: "join"}
}

func (joinProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return nil, userError("A channel must be provided with the /join command.")
	}
	channel, err := lookupChannel(ctx, a, args, fields[0])
	if err != nil {
		return nil, appUserError(err)
	}
	if channel.IsDirectOrGroup() {
		return nil, channelHandleError(a, strings.TrimPrefix(fields[0], "~"))
	}
	if _, err := a.JoinChannel(ctx, args.UserID, channel.ID); err != nil {
		return nil, appUserError(err)
	}
	location, err := channelURL(ctx, a, args.TeamID, channel)
	if err != nil {
		return nil, err
	}
	return &models.CommandResponse{GotoLocation: location}, nil
}

type kickProvider struct {
	trigger string
}

func (p kickProvider) Trigger() string { return p.trigger }

func (p kickProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: p.trigger, Hint: "@[username]", Description: "Remove a member from the channel", DisplayName: p.trigger}
}

func (p kickProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return nil, userError("A user must be provided with the /%s command.", p.trigger)
	}
	user, err := a.GetUserByUsername(ctx, fields[0])
	if err != nil {
		if app.HasID(err, app.ErrIDUserNotFound) {
			return nil, userError(userNotFoundText)
		}
		return nil, err
	}
	if err := a.RemoveChannelMember(ctx, args.UserID, args.ChannelID, user.ID); err != nil {
		return nil, appUserError(err)
	}
	return &models.CommandResponse{}, nil
}

type leaveProvider struct{}

func (leaveProvider) Trigger() string { return "leave" }

func (leaveProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "leave", Description: "Leave the current channel", DisplayName: "leave"}
}

func (leaveProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, _ string) (*models.CommandResponse, error) {
	if err := a.LeaveChannel(ctx, args.UserID, args.ChannelID); err != nil {
		return nil, appUserError(err)
	}
	team, err := a.GetTeam(ctx, args.TeamID)
	if err != nil {
		return nil, err
	}
	return &models.CommandResponse{GotoLocation: "/" + team.Name + "/channels/" + models.DefaultChannelName}, nil
}

type muteProvider struct{}

func (muteProvider) Trigger() string { return "mute" }

func (muteProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "mute", Hint: "~[channel]", Description: "Turns off desktop, email and push notifications for the current channel or the [channel] specified.", DisplayName: "mute"}
}

func (muteProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	var channel *models.Channel
	var err error
	if fields := strings.Fields(message); len(fields) > 0 {
		channel, err = lookupChannel(ctx, a, args, fields[0])
	} else {
		channel, err = a.GetChannel(ctx, args.ChannelID)
	}
	if err != nil {
		return nil, appUserError(err)
	}

	name, err := a.ChannelDisplayName(ctx, args.UserID, channel)
	if err != nil {
		return nil, err
	}
	ok, err := a.IsChannelMember(ctx, channel.ID, args.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, userError("Could not mute channel %s as you are not a member.", name)
	}

	muted, err := a.ToggleMute(ctx, args.UserID, channel.ID)
	if err != nil {
		return nil, appUserError(err)
	}
	if muted {
		return models.Ephemeral("You will not receive notifications for " + name + " until channel mute is turned off."), nil
	}
	return models.Ephemeral(name + " is no longer muted."), nil
}

type headerProvider struct{}

func (headerProvider) Trigger() string { return "header" }

func (headerProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "header", Hint: "[text]", Description: "Edit the channel header", DisplayName: "header"}
}

func (headerProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	if message == "" {
		return nil, userError("A message must be provided with the /header command.")
	}
	if _, err := a.UpdateChannelHeader(ctx, args.UserID, args.ChannelID, message); err != nil {
		return nil, appUserError(err)
	}
	return &models.CommandResponse{}, nil
}

type purposeProvider struct{}

func (purposeProvider) Trigger() string { return "purpose" }

func (purposeProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "purpose", Hint: "[text]", Description: "Edit the channel purpose", DisplayName: "purpose"}
}

func (purposeProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	if message == "" {
		return nil, userError("A message must be provided with the /purpose command.")
	}
	if _, err := a.UpdateChannelPurpose(ctx, args.UserID, args.ChannelID, message); err != nil {
		return nil, appUserError(err)
	}
	return &models.CommandResponse{}, nil
}

type renameProvider struct{}

func (renameProvider) Trigger() string { return "rename" }

func (renameProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "rename", Hint: "[text]", Description: "Rename the channel", DisplayName: "rename"}
}

func (renameProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	if message == "" {
		return nil, userError("A message must be provided with the /rename command.")
	}
	if _, err := a.RenameChannel(ctx, args.UserID, args.ChannelID, message); err != nil {
		return nil, appUserError(err)
	}
	return &models.CommandResponse{}, nil
}
