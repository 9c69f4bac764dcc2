package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/parley-chat/parley-services/db"
	"github.com/parley-chat/parley-services/models"
)

const (
	teamUserRole  = "team_user"
	teamAdminRole = "team_user team_admin"
)

var defaultChannels = []struct{ name, displayName string }{
	{models.DefaultChannelName, "Town Square"},
	{models.OffTopicChannelName, "Off-Topic"},
}

// CreateTeam stores a team, creates its default channels and makes the
// creator a team admin.
func (a *App) CreateTeam(ctx context.Context, creatorID string, team *models.Team) (*models.Team, error) {
	if !channelNameRegex.MatchString(team.Name) || len(team.Name) > 64 {
		return nil, badRequest(ErrIDInvalidChannelName, "Team name must be lowercase letters, numbers and dashes.")
	}
	if team.DisplayName == "" {
		team.DisplayName = team.Name
	}
	if team.Type == "" {
		team.Type = models.TeamOpen
	}
	if _, err := a.GetUser(ctx, creatorID); err != nil {
		return nil, err
	}

	created := &models.Team{
		ID:          NewID(),
		Name:        team.Name,
		DisplayName: team.DisplayName,
		Type:        team.Type,
		CreateAt:    a.millis(),
	}
	if err := a.Store.CreateTeam(ctx, created); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, &Error{ID: ErrIDTeamExists, Message: "A team with that name already exists.", Status: http.StatusBadRequest, Err: err}
		}
		return nil, err
	}

	for _, dc := range defaultChannels {
		if err := a.Store.CreateChannel(ctx, &models.Channel{
			ID:          NewID(),
			TeamID:      created.ID,
			Type:        models.ChannelOpen,
			Name:        dc.name,
			DisplayName: dc.displayName,
			CreatorID:   creatorID,
			CreateAt:    a.millis(),
		}); err != nil {
			return nil, err
		}
	}

	if err := a.joinTeam(ctx, created.ID, creatorID, teamAdminRole); err != nil {
		return nil, err
	}
	return created, nil
}

// GetTeam returns a team by id.
func (a *App) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	team, err := a.Store.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFound(ErrIDTeamNotFound, "Unable to find the team.", err)
		}
		return nil, err
	}
	return team, nil
}

// GetTeamByName returns a team by handle.
func (a *App) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	team, err := a.Store.GetTeamByName(ctx, name)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFound(ErrIDTeamNotFound, "Unable to find the team.", err)
		}
		return nil, err
	}
	return team, nil
}

// IsTeamMember reports whether userID actively belongs to teamID.
func (a *App) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	member, err := a.Store.GetTeamMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.DeleteAt == 0, nil
}

// AddTeamMember adds userID to the team and its default channels. The actor
// must be a system admin or already belong to the team.
func (a *App) AddTeamMember(ctx context.Context, actorID, teamID, userID string) (*models.TeamMember, error) {
	actor, err := a.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	team, err := a.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSystemAdmin() {
		ok, err := a.IsTeamMember(ctx, team.ID, actorID)
		if err != nil {
			return nil, err
		}
		if !ok || team.Type != models.TeamOpen {
			return nil, forbidden(ErrIDNoPermission, "You do not have the appropriate permissions.")
		}
	}

	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, badRequest(ErrIDUserInactive, "We couldn't find the user. They may have been deactivated by the System Administrator.")
	}

	if err := a.joinTeam(ctx, team.ID, userID, teamUserRole); err != nil {
		return nil, err
	}
	return a.Store.GetTeamMember(ctx, team.ID, userID)
}

// joinTeam saves the membership and joins the default channels silently.
func (a *App) joinTeam(ctx context.Context, teamID, userID, roles string) error {
	if err := a.Store.SaveTeamMember(ctx, &models.TeamMember{TeamID: teamID, UserID: userID, Roles: roles}); err != nil {
		return err
	}
	for _, dc := range defaultChannels {
		channel, err := a.Store.GetChannelByName(ctx, teamID, dc.name)
		if err != nil {
			return err
		}
		err = a.Store.SaveChannelMember(ctx, &models.ChannelMember{
			ChannelID:   channel.ID,
			UserID:      userID,
			Roles:       channelUserRole,
			MsgCount:    channel.TotalMsgCount,
			NotifyProps: models.DefaultNotifyProps(),
		})
		if err != nil && !errors.Is(err, db.ErrConflict) {
			return err
		}
	}
	return nil
}
