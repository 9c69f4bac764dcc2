package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/parley-chat/parley-services/db"
	"github.com/parley-chat/parley-services/internal/events"
	"github.com/parley-chat/parley-services/models"
)

const (
	channelUserRole  = "channel_user"
	channelAdminRole = "channel_user channel_admin"

	headerMaxRunes  = 1024
	purposeMaxRunes = 250
)

var (
	channelNameRegex = regexp.MustCompile(`^[a-z0-9]+([a-z0-9\-_]*[a-z0-9]+)?$`)
	nonHandleChars   = regexp.MustCompile(`[^a-z0-9]+`)
)

// HandleFromDisplayName derives a channel handle from a display name.
func HandleFromDisplayName(displayName string) string {
	handle := strings.Trim(nonHandleChars.ReplaceAllString(strings.ToLower(displayName), "-"), "-")
	if len(handle) > 64 {
		handle = strings.Trim(handle[:64], "-")
	}
	if len(handle) < 2 {
		return NewID()
	}
	return handle
}

// CreateChannel creates a public or private team channel with the creator as its admin.
func (a *App) CreateChannel(ctx context.Context, creatorID string, req models.ChannelRequest) (*models.Channel, error) {
	if req.Type == "" {
		req.Type = models.ChannelOpen
	}
	if req.Type != models.ChannelOpen && req.Type != models.ChannelPrivate {
		return nil, badRequest(ErrIDInvalidChannelName, "Invalid channel type.")
	}
	req.Name = strings.ToLower(strings.TrimSpace(req.Name))
	if len(req.Name) < 2 || len(req.Name) > 64 || !channelNameRegex.MatchString(req.Name) {
		return nil, badRequest(ErrIDInvalidChannelName, "Name must be 2 or more lowercase alphanumeric characters.")
	}
	if err := validateDisplayName(req.DisplayName); err != nil {
		return nil, err
	}

	creator, err := a.GetUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if _, err := a.GetTeam(ctx, req.TeamID); err != nil {
		return nil, err
	}
	if !creator.IsSystemAdmin() {
		ok, err := a.IsTeamMember(ctx, req.TeamID, creatorID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, forbidden(ErrIDNotTeamMember, "You are not a member of this team.")
		}
	}

	channel := &models.Channel{
		ID:          NewID(),
		TeamID:      req.TeamID,
		Type:        req.Type,
		Name:        req.Name,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Header:      req.Header,
		Purpose:     req.Purpose,
		CreatorID:   creatorID,
		CreateAt:    a.millis(),
	}
	if err := a.Store.CreateChannel(ctx, channel); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, &Error{ID: ErrIDChannelExists, Message: "A channel with that name already exists on the same team.", Status: http.StatusBadRequest, Err: err}
		}
		return nil, err
	}
	if err := a.Store.SaveChannelMember(ctx, newChannelMember(channel, creatorID, channelAdminRole)); err != nil {
		return nil, err
	}

	a.publish(ctx, events.Event{Type: events.ChannelCreated, TeamID: channel.TeamID, ChannelID: channel.ID, UserID: creatorID})
	return channel, nil
}

func newChannelMember(channel *models.Channel, userID, roles string) *models.ChannelMember {
	return &models.ChannelMember{
		ChannelID:   channel.ID,
		UserID:      userID,
		Roles:       roles,
		MsgCount:    channel.TotalMsgCount,
		NotifyProps: models.DefaultNotifyProps(),
	}
}

func validateDisplayName(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return badRequest(ErrIDInvalidDisplayName, "Display name is required.")
	}
	if utf8.RuneCountInString(displayName) > models.ChannelDisplayNameMaxRunes {
		return badRequest(ErrIDInvalidDisplayName, fmt.Sprintf("Channel name must be %d or fewer characters", models.ChannelDisplayNameMaxRunes))
	}
	return nil
}

// GetChannel returns a channel by id.
func (a *App) GetChannel(ctx context.Context, id string) (*models.Channel, error) {
	channel, err := a.Store.GetChannel(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFound(ErrIDChannelNotFound, "Unable to find the channel.", err)
		}
		return nil, err
	}
	return channel, nil
}

// GetChannelByName returns a team channel by handle; a leading ~ is ignored.
func (a *App) GetChannelByName(ctx context.Context, teamID, name string) (*models.Channel, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "~")
	channel, err := a.Store.GetChannelByName(ctx, teamID, name)
	if errors.Is(err, db.ErrNotFound) {
		// Direct and group channels live outside any team.
		channel, err = a.Store.GetChannelByName(ctx, "", name)
	}
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFound(ErrIDChannelNotFound, "Unable to find the channel.", err)
		}
		return nil, err
	}
	return channel, nil
}

// GetChannelMember returns a membership or a not-member error.
func (a *App) GetChannelMember(ctx context.Context, channelID, userID string) (*models.ChannelMember, error) {
	member, err := a.Store.GetChannelMember(ctx, channelID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &Error{ID: ErrIDNotChannelMember, Message: "You are not a member of this channel.", Status: http.StatusForbidden, Err: err}
		}
		return nil, err
	}
	return member, nil
}

// IsChannelMember reports whether userID belongs to channelID.
func (a *App) IsChannelMember(ctx context.Context, channelID, userID string) (bool, error) {
	_, err := a.Store.GetChannelMember(ctx, channelID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanManageMembers reports whether actor may add or remove members of channel.
// Any member manages a public channel; a private one needs the channel admin role.
func (a *App) CanManageMembers(ctx context.Context, actor *models.User, channel *models.Channel) (bool, error) {
	if channel.IsDirectOrGroup() {
		return false, nil
	}
	if actor.IsSystemAdmin() {
		return true, nil
	}
	member, err := a.Store.GetChannelMember(ctx, channel.ID, actor.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if channel.Type == models.ChannelPrivate {
		return hasRole(member.Roles, "channel_admin"), nil
	}
	return true, nil
}

func hasRole(roles, role string) bool {
	for _, r := range strings.Fields(roles) {
		if r == role {
			return true
		}
	}
	return false
}

// CanReadChannel reports whether userID may read channel's posts.
func (a *App) CanReadChannel(ctx context.Context, userID string, channel *models.Channel) (bool, error) {
	ok, err := a.IsChannelMember(ctx, channel.ID, userID)
	if err != nil || ok {
		return ok, err
	}
	if channel.Type != models.ChannelOpen {
		return false, nil
	}
	return a.IsTeamMember(ctx, channel.TeamID, userID)
}

// AddChannelMember adds userID to channelID on behalf of actorID and posts
// the matching system message. The added user gets a mention.
func (a *App) AddChannelMember(ctx context.Context, actorID, channelID, userID string) (*models.ChannelMember, error) {
	channel, err := a.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.IsDirectOrGroup() {
		return nil, badRequest(ErrIDDirectChannel, "You can't add someone to a direct message channel.")
	}

	actor, err := a.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, badRequest(ErrIDUserInactive, "We couldn't find the user. They may have been deactivated by the System Administrator.")
	}

	if actorID == userID {
		if channel.Type != models.ChannelOpen && !actor.IsSystemAdmin() {
			return nil, forbidden(ErrIDNoPermission, "You do not have the appropriate permissions.")
		}
	} else {
		ok, err := a.CanManageMembers(ctx, actor, channel)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, forbidden(ErrIDNoPermission, fmt.Sprintf("You don't have enough permissions to add %s in %s.", user.Username, channel.Name))
		}
	}

	onTeam, err := a.IsTeamMember(ctx, channel.TeamID, userID)
	if err != nil {
		return nil, err
	}
	if !onTeam {
		return nil, forbidden(ErrIDNotTeamMember, fmt.Sprintf("@%s is not a member of the team.", user.Username))
	}

	member := newChannelMember(channel, userID, channelUserRole)
	member.MsgCount = 0
	if err := a.Store.SaveChannelMember(ctx, member); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, &Error{ID: ErrIDAlreadyMember, Message: fmt.Sprintf("%s is already in the channel.", user.Username), Status: http.StatusBadRequest, Err: err}
		}
		return nil, err
	}

	if actorID == userID {
		_, err = a.createPost(ctx, &models.Post{
			ChannelID: channel.ID,
			UserID:    userID,
			Type:      models.PostTypeJoinChannel,
			Message:   fmt.Sprintf("@%s joined the channel.", user.Username),
			Props:     map[string]string{models.PostPropUsername: user.Username},
		})
	} else {
		var post *models.Post
		post, err = a.createPost(ctx, &models.Post{
			ChannelID: channel.ID,
			UserID:    actorID,
			Type:      models.PostTypeAddToChannel,
			Message:   fmt.Sprintf("@%s added to the channel by @%s.", user.Username, actor.Username),
			Props: map[string]string{
				models.PostPropUserID:        actorID,
				models.PostPropUsername:      actor.Username,
				models.PostPropAddedUserID:   userID,
				models.PostPropAddedUsername: user.Username,
			},
		})
		if err == nil {
			err = a.Store.IncrementMentionCount(ctx, post.ChannelID, []string{userID})
		}
	}
	if err != nil {
		return nil, err
	}

	a.publish(ctx, events.Event{
		Type: events.ChannelMemberAdded, TeamID: channel.TeamID, ChannelID: channel.ID, UserID: userID,
		Data: map[string]string{"actor_id": actorID},
	})
	return a.Store.GetChannelMember(ctx, channel.ID, userID)
}

// JoinChannel adds userID to a public channel; joining twice is not an error.
func (a *App) JoinChannel(ctx context.Context, userID, channelID string) (*models.ChannelMember, error) {
	member, err := a.AddChannelMember(ctx, userID, channelID, userID)
	if HasID(err, ErrIDAlreadyMember) {
		return a.Store.GetChannelMember(ctx, channelID, userID)
	}
	return member, err
}

// RemoveChannelMember removes userID from channelID on behalf of actorID.
func (a *App) RemoveChannelMember(ctx context.Context, actorID, channelID, userID string) error {
	channel, err := a.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if channel.IsDirectOrGroup() {
		return badRequest(ErrIDDirectChannel, "You can't remove someone from a direct message channel.")
	}
	if channel.IsDefault() {
		if actorID == userID {
			return badRequest(ErrIDDefaultChannel, fmt.Sprintf("Unable to leave the default channel %s.", channel.Name))
		}
		return badRequest(ErrIDDefaultChannel, fmt.Sprintf("Unable to remove user from the default channel %s.", channel.Name))
	}

	actor, err := a.GetUser(ctx, actorID)
	if err != nil {
		return err
	}
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if actorID != userID {
		ok, err := a.CanManageMembers(ctx, actor, channel)
		if err != nil {
			return err
		}
		if !ok {
			return forbidden(ErrIDNoPermission, "You don't have the appropriate permissions to remove the member.")
		}
	}

	if err := a.Store.RemoveChannelMember(ctx, channel.ID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &Error{ID: ErrIDNotChannelMember, Message: fmt.Sprintf("%s is not a member of the channel.", user.Username), Status: http.StatusBadRequest, Err: err}
		}
		return err
	}

	post := &models.Post{ChannelID: channel.ID, UserID: actorID}
	if actorID == userID {
		post.Type = models.PostTypeLeaveChannel
		post.Message = fmt.Sprintf("@%s left the channel.", user.Username)
		post.Props = map[string]string{models.PostPropUsername: user.Username}
	} else {
		post.Type = models.PostTypeRemoveFromChannel
		post.Message = fmt.Sprintf("@%s was removed from the channel.", user.Username)
		post.Props = map[string]string{
			models.PostPropUserID:          actorID,
			models.PostPropUsername:        actor.Username,
			models.PostPropRemovedUsername: user.Username,
		}
	}
	if _, err := a.createPost(ctx, post); err != nil {
		return err
	}

	a.publish(ctx, events.Event{
		Type: events.ChannelMemberRemoved, TeamID: channel.TeamID, ChannelID: channel.ID, UserID: userID,
		Data: map[string]string{"actor_id": actorID},
	})
	return nil
}

// LeaveChannel removes userID from channelID.
func (a *App) LeaveChannel(ctx context.Context, userID, channelID string) error {
	return a.RemoveChannelMember(ctx, userID, channelID, userID)
}

// GetOrCreateDirectChannel returns the DM between two users, creating it on first use.
func (a *App) GetOrCreateDirectChannel(ctx context.Context, userID, otherUserID string) (*models.Channel, error) {
	for _, id := range []string{userID, otherUserID} {
		user, err := a.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if !user.IsActive() {
			return nil, badRequest(ErrIDUserInactive, "We couldn't find the user.")
		}
	}

	name := models.DirectChannelName(userID, otherUserID)
	return a.getOrCreateDirectOrGroup(ctx, &models.Channel{
		Type:        models.ChannelDirect,
		Name:        name,
		DisplayName: name,
		CreatorID:   userID,
	}, uniqueIDs([]string{userID, otherUserID}))
}

// GetOrCreateGroupChannel returns the GM for creatorID and userIDs, creating
// it on first use. The set must hold 3 to 8 distinct active users.
func (a *App) GetOrCreateGroupChannel(ctx context.Context, creatorID string, userIDs []string) (*models.Channel, error) {
	ids := uniqueIDs(append([]string{creatorID}, userIDs...))
	if len(ids) < models.ChannelGroupMinUsers {
		return nil, badRequest(ErrIDGroupTooSmall, fmt.Sprintf("Group messages are limited to a minimum of %d users.", models.ChannelGroupMinUsers-1))
	}
	if len(ids) > models.ChannelGroupMaxUsers {
		return nil, badRequest(ErrIDGroupTooLarge, fmt.Sprintf("Group messages are limited to a maximum of %d users.", models.ChannelGroupMaxUsers-1))
	}

	users, err := a.Store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, notFound(ErrIDUserNotFound, "We couldn't find the user.", nil)
	}
	usernames := make([]string, 0, len(users))
	for _, u := range users {
		if !u.IsActive() {
			return nil, badRequest(ErrIDUserInactive, "We couldn't find the user.")
		}
		usernames = append(usernames, u.Username)
	}
	sort.Strings(usernames)

	return a.getOrCreateDirectOrGroup(ctx, &models.Channel{
		Type:        models.ChannelGroup,
		Name:        models.GroupChannelName(ids),
		DisplayName: strings.Join(usernames, ", "),
		CreatorID:   creatorID,
	}, ids)
}

func (a *App) getOrCreateDirectOrGroup(ctx context.Context, channel *models.Channel, memberIDs []string) (*models.Channel, error) {
	existing, err := a.Store.GetChannelByName(ctx, "", channel.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	channel.ID = NewID()
	channel.CreateAt = a.millis()
	if err := a.Store.CreateChannel(ctx, channel); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return a.Store.GetChannelByName(ctx, "", channel.Name)
		}
		return nil, err
	}
	for _, id := range memberIDs {
		if err := a.Store.SaveChannelMember(ctx, newChannelMember(channel, id, channelUserRole)); err != nil && !errors.Is(err, db.ErrConflict) {
			return nil, err
		}
	}

	a.publish(ctx, events.Event{Type: events.ChannelCreated, ChannelID: channel.ID, UserID: channel.CreatorID})
	return channel, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// RenameChannel sets a new display name and announces it in the channel.
func (a *App) RenameChannel(ctx context.Context, actorID, channelID, displayName string) (*models.Channel, error) {
	channel, err := a.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.IsDirectOrGroup() {
		return nil, badRequest(ErrIDDirectChannel, "Unable to rename direct message channels.")
	}
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}
	actor, err := a.requireMemberOrAdmin(ctx, actorID, channel, "You don't have the appropriate permissions to rename the channel.")
	if err != nil {
		return nil, err
	}

	old := channel.DisplayName
	channel.DisplayName = strings.TrimSpace(displayName)
	if err := a.Store.UpdateChannel(ctx, channel); err != nil {
		return nil, err
	}

	_, err = a.createPost(ctx, &models.Post{
		ChannelID: channel.ID,
		UserID:    actorID,
		Type:      models.PostTypeDisplayNameChange,
		Message:   fmt.Sprintf("@%s updated the channel display name from: %s to: %s", actor.Username, old, channel.DisplayName),
		Props: map[string]string{
			models.PostPropUsername:       actor.Username,
			models.PostPropOldDisplayName: old,
			models.PostPropNewDisplayName: channel.DisplayName,
		},
	})
	if err != nil {
		return nil, err
	}

	a.publish(ctx, events.Event{Type: events.ChannelUpdated, TeamID: channel.TeamID, ChannelID: channel.ID, UserID: actorID,
		Data: map[string]string{"display_name": channel.DisplayName}})
	return channel, nil
}

// UpdateChannelHeader sets the channel header and announces the change.
func (a *App) UpdateChannelHeader(ctx context.Context, actorID, channelID, header string) (*models.Channel, error) {
	return a.updateChannelText(ctx, actorID, channelID, header, "header", headerMaxRunes)
}

// UpdateChannelPurpose sets the channel purpose and announces the change.
func (a *App) UpdateChannelPurpose(ctx context.Context, actorID, channelID, purpose string) (*models.Channel, error) {
	return a.updateChannelText(ctx, actorID, channelID, purpose, "purpose", purposeMaxRunes)
}

func (a *App) updateChannelText(ctx context.Context, actorID, channelID, value, field string, maxRunes int) (*models.Channel, error) {
	channel, err := a.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if field == "purpose" && channel.IsDirectOrGroup() {
		return nil, badRequest(ErrIDDirectChannel, "Unable to set purpose for direct message channels. Use /header to set the header instead.")
	}
	if utf8.RuneCountInString(value) > maxRunes {
		return nil, badRequest(ErrIDInvalidPost, fmt.Sprintf("The channel %s must be %d or fewer characters.", field, maxRunes))
	}
	actor, err := a.requireMemberOrAdmin(ctx, actorID, channel, fmt.Sprintf("You don't have the appropriate permissions to edit the channel %s.", field))
	if err != nil {
		return nil, err
	}

	var old string
	post := &models.Post{ChannelID: channel.ID, UserID: actorID, Props: map[string]string{models.PostPropUsername: actor.Username}}
	if field == "header" {
		old, channel.Header = channel.Header, value
		post.Type = models.PostTypeHeaderChange
		post.Props[models.PostPropNewHeader] = value
	} else {
		old, channel.Purpose = channel.Purpose, value
		post.Type = models.PostTypePurposeChange
		post.Props[models.PostPropNewPurpose] = value
	}
	switch {
	case value == "":
		post.Message = fmt.Sprintf("@%s removed the channel %s (was: %s)", actor.Username, field, old)
	case old == "":
		post.Message = fmt.Sprintf("@%s updated the channel %s to: %s", actor.Username, field, value)
	default:
		post.Message = fmt.Sprintf("@%s updated the channel %s from: %s to: %s", actor.Username, field, old, value)
	}

	if err := a.Store.UpdateChannel(ctx, channel); err != nil {
		return nil, err
	}
	if _, err := a.createPost(ctx, post); err != nil {
		return nil, err
	}

	a.publish(ctx, events.Event{Type: events.ChannelUpdated, TeamID: channel.TeamID, ChannelID: channel.ID, UserID: actorID,
		Data: map[string]string{field: value}})
	return channel, nil
}

func (a *App) requireMemberOrAdmin(ctx context.Context, userID string, channel *models.Channel, message string) (*models.User, error) {
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsSystemAdmin() {
		return user, nil
	}
	ok, err := a.IsChannelMember(ctx, channel.ID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden(ErrIDNoPermission, message)
	}
	return user, nil
}

// ToggleMute flips the member's mark_unread setting and reports whether the
// channel is now muted.
func (a *App) ToggleMute(ctx context.Context, userID, channelID string) (bool, error) {
	member, err := a.GetChannelMember(ctx, channelID, userID)
	if err != nil {
		return false, err
	}
	if member.NotifyProps == nil {
		member.NotifyProps = models.DefaultNotifyProps()
	}
	if member.IsMuted() {
		member.NotifyProps["mark_unread"] = models.MarkUnreadAll
	} else {
		member.NotifyProps["mark_unread"] = models.MarkUnreadMention
	}
	if err := a.Store.UpdateChannelMember(ctx, member); err != nil {
		return false, err
	}
	return member.IsMuted(), nil
}

// ViewChannel marks the channel read for userID.
func (a *App) ViewChannel(ctx context.Context, userID, channelID string) error {
	err := a.Store.ViewChannel(ctx, channelID, userID, a.millis())
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	return err
}

// ChannelDisplayName returns the name viewerID sees for channel: the other
// user for a DM, the other members for a GM.
func (a *App) ChannelDisplayName(ctx context.Context, viewerID string, channel *models.Channel) (string, error) {
	if !channel.IsDirectOrGroup() {
		return channel.DisplayName, nil
	}

	members, err := a.Store.GetChannelMembers(ctx, channel.ID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := a.Store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return "", err
	}

	var names []string
	var self string
	for _, u := range users {
		if u.ID == viewerID {
			self = u.Username
			continue
		}
		names = append(names, u.Username)
	}
	if len(names) == 0 && self != "" {
		return self + " (you)", nil
	}
	sort.Strings(names)
	return strings.Join(names, ", "), nil
}

// SidebarItem is one channel in a user's sidebar.
type SidebarItem struct {
	Channel     *models.Channel
	DisplayName string
	Unread      bool
	Mentions    int64
	Muted       bool
}

// Sidebar lists the user's channels in teamID, DMs and GMs included.
func (a *App) Sidebar(ctx context.Context, teamID, userID string) ([]SidebarItem, error) {
	channels, err := a.Store.GetChannelsForUser(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}

	items := make([]SidebarItem, 0, len(channels))
	for _, ch := range channels {
		member, err := a.Store.GetChannelMember(ctx, ch.ID, userID)
		if err != nil {
			return nil, err
		}
		name, err := a.ChannelDisplayName(ctx, userID, ch)
		if err != nil {
			return nil, err
		}
		items = append(items, SidebarItem{
			Channel:     ch,
			DisplayName: name,
			Unread:      ch.TotalMsgCount > member.MsgCount && !member.IsMuted(),
			Mentions:    member.MentionCount,
			Muted:       member.IsMuted(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].DisplayName) < strings.ToLower(items[j].DisplayName)
	})
	return items, nil
}
