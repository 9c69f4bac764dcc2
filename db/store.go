package db

import (
	"context"
	"errors"

	"github.com/parley-chat/parley-services/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store is the persistence layer used by the application. ChatDB backs it
// with PostgreSQL and MemoryDB keeps everything in process.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	UpdateUserDeleteAt(ctx context.Context, id string, deleteAt int64) error
	UpdateUserStatus(ctx context.Context, id, status string) error
	CountUsers(ctx context.Context) (int64, error)

	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	GetTeamByName(ctx context.Context, name string) (*models.Team, error)
	SaveTeamMember(ctx context.Context, member *models.TeamMember) error
	GetTeamMember(ctx context.Context, teamID, userID string) (*models.TeamMember, error)
	GetTeamsForUser(ctx context.Context, userID string) ([]*models.Team, error)

	CreateChannel(ctx context.Context, channel *models.Channel) error
	GetChannel(ctx context.Context, id string) (*models.Channel, error)
	GetChannelByName(ctx context.Context, teamID, name string) (*models.Channel, error)
	UpdateChannel(ctx context.Context, channel *models.Channel) error
	GetChannelsForUser(ctx context.Context, teamID, userID string) ([]*models.Channel, error)

	SaveChannelMember(ctx context.Context, member *models.ChannelMember) error
	UpdateChannelMember(ctx context.Context, member *models.ChannelMember) error
	GetChannelMember(ctx context.Context, channelID, userID string) (*models.ChannelMember, error)
	GetChannelMembers(ctx context.Context, channelID string) ([]*models.ChannelMember, error)
	RemoveChannelMember(ctx context.Context, channelID, userID string) error
	IncrementMentionCount(ctx context.Context, channelID string, userIDs []string) error
	ViewChannel(ctx context.Context, channelID, userID string, at int64) error

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetPostsForChannel(ctx context.Context, channelID string, limit int) ([]*models.Post, error)
	GetPostThread(ctx context.Context, rootID string) ([]*models.Post, error)

	SaveAudit(ctx context.Context, audit *models.Audit) error

	Close() error
}
