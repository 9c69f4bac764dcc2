package commands

import (
	"context"
	"net/mail"
	"strings"

	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/email"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

type inviteProvider struct{}

func (inviteProvider) Trigger() string { return "invite" }

func (inviteProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "invite", Hint: "@[username] ~[channel]", Description: "Invite a user to a channel", DisplayName: "invite"}
}

func (inviteProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return nil, userError("Missing Username and Channel.")
	}
	channelArg := strings.TrimSpace(strings.TrimPrefix(message, fields[0]))

	user, err := a.GetActiveUserByUsername(ctx, fields[0])
	if err != nil {
		if app.HasID(err, app.ErrIDUserNotFound) {
			return nil, userError("We couldn't find the user. They may have been deactivated by the System Administrator.")
		}
		return nil, err
	}

	var channel *models.Channel
	if channelArg != "" {
		channel, err = lookupChannel(ctx, a, args, channelArg)
	} else {
		channel, err = a.GetChannel(ctx, args.ChannelID)
	}
	if err != nil {
		return nil, appUserError(err)
	}
	if channel.IsDirectOrGroup() {
		return nil, userError("You can't add someone to a direct message channel.")
	}

	if _, err := a.AddChannelMember(ctx, args.UserID, channel.ID, user.ID); err != nil {
		return nil, appUserError(err)
	}
	if channel.ID == args.ChannelID {
		return &models.CommandResponse{}, nil
	}
	return models.Ephemeral(user.Username + " added to " + channel.Name + " channel."), nil
}

type invitePeopleProvider struct{}

func (invitePeopleProvider) Trigger() string { return "invite_people" }

func (invitePeopleProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "invite_people", Hint: "@[email]", Description: "Send an email invite to your team", DisplayName: "invite_people"}
}

func (invitePeopleProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error) {
	var addresses []string
	for _, field := range strings.FieldsFunc(message, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		addr, err := mail.ParseAddress(strings.TrimPrefix(field, "@"))
		if err != nil {
			continue
		}
		addresses = append(addresses, addr.Address)
	}
	if len(addresses) == 0 {
		return nil, userError("Please specify one or more valid email addresses")
	}
	if !a.Config.Email.Enabled || a.Mailer == nil {
		return nil, userError("Email invitations are disabled, no invite(s) sent")
	}

	sender, err := a.GetUser(ctx, args.UserID)
	if err != nil {
		return nil, err
	}
	team, err := a.GetTeam(ctx, args.TeamID)
	if err != nil {
		return nil, appUserError(err)
	}
	link := a.Config.Email.InviteURL
	if link == "" {
		link = a.Config.SiteURL + "/" + team.Name
	}

	for _, addr := range addresses {
		err := a.Mailer.SendInvite(ctx, email.Invitation{
			To:         addr,
			TeamName:   team.DisplayName,
			SenderName: sender.Username,
			Link:       link,
		})
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("team_id", team.ID).Msg("failed to send invitation")
			return nil, userError("An error occurred while sending invites")
		}
	}
	return models.Ephemeral("Email invite(s) sent"), nil
}
