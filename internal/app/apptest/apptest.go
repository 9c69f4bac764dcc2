// Package apptest builds in-memory App instances and seeded fixtures for tests.
package apptest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/parley-chat/parley-services/db"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/appconfig"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/parley-chat/parley-services/internal/events"
	"github.com/parley-chat/parley-services/models"
	"github.com/stretchr/testify/require"
)

const Password = "passwd-123"

// New returns an App backed by a MemoryDB that records published events.
func New(t testing.TB) (*app.App, *events.Recorder) {
	t.Helper()

	signer, err := authn.NewSigner("test-signing-key", time.Hour)
	require.NoError(t, err)

	a, err := app.New(appconfig.Default(), db.NewMemoryDB(), signer, nil)
	require.NoError(t, err)

	rec := &events.Recorder{}
	a.Events = rec
	return a, rec
}

// Fixture is a team with an admin and two regular members.
type Fixture struct {
	App   *app.App
	Admin *models.User
	User1 *models.User
	User2 *models.User
	Team  *models.Team
	// TownSquare is the team's default channel.
	TownSquare *models.Channel
}

// NewFixture seeds a fresh App with an admin, a team and two members.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	a, _ := New(t)
	ctx := context.Background()

	f := &Fixture{App: a}
	f.Admin = CreateUser(t, a, "sysadmin")
	team, err := a.CreateTeam(ctx, f.Admin.ID, &models.Team{Name: "ad-1", DisplayName: "AD 1"})
	require.NoError(t, err)
	f.Team = team

	f.User1 = f.AddUser(t, "user-1")
	f.User2 = f.AddUser(t, "user-2")

	f.TownSquare, err = a.GetChannelByName(ctx, team.ID, models.DefaultChannelName)
	require.NoError(t, err)
	return f
}

// CreateUser creates a user with the shared test password.
func CreateUser(t testing.TB, a *app.App, username string) *models.User {
	t.Helper()
	user, err := a.CreateUser(context.Background(), &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: Password,
	})
	require.NoError(t, err)
	return user
}

// AddUser creates a user and adds them to the fixture team.
func (f *Fixture) AddUser(t testing.TB, username string) *models.User {
	t.Helper()
	user := CreateUser(t, f.App, username)
	_, err := f.App.AddTeamMember(context.Background(), f.Admin.ID, f.Team.ID, user.ID)
	require.NoError(t, err)
	return user
}

// CreateChannel creates a public channel owned by creator.
func (f *Fixture) CreateChannel(t testing.TB, creator *models.User, name, displayName string) *models.Channel {
	t.Helper()
	channel, err := f.App.CreateChannel(context.Background(), creator.ID, models.ChannelRequest{
		TeamID:      f.Team.ID,
		Name:        name,
		DisplayName: displayName,
		Type:        models.ChannelOpen,
	})
	require.NoError(t, err)
	return channel
}
