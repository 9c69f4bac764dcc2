package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/api/middleware"
	"github.com/parley-chat/parley-services/internal/app/apptest"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/parley-chat/parley-services/internal/commands"
	"github.com/parley-chat/parley-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, *apptest.Fixture) {
	f := apptest.NewFixture(t)
	return &Service{
		Config:   f.App.Config,
		App:      f.App,
		Commands: commands.NewExecutor(f.App, commands.DefaultRegistry(), nil),
	}, f
}

// newRequest builds a request carrying the claims JWTMiddleware would set.
func newRequest(t *testing.T, method, target string, body interface{}, user *models.User) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if user != nil {
		claims := authn.Claims{Username: user.Username}
		claims.Subject = user.ID
		if user.IsSystemAdmin() {
			claims.Roles = []string{models.SystemAdminRole}
		}
		req = req.WithContext(context.WithValue(req.Context(), middleware.ClaimsKey, claims))
	}
	return req
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}

func TestCreateUserAndLoginService(t *testing.T) {
	svc, _ := newService(t)

	rr := httptest.NewRecorder()
	CreateUserService(svc, rr, newRequest(t, http.MethodPost, "/api/v4/users", models.User{Username: "newbie", Email: "newbie@example.com", Password: "passwd-1"}, nil))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var created models.User
	decode(t, rr, &created)
	assert.Equal(t, "newbie", created.Username)
	assert.Equal(t, "/api/v4/users/"+created.ID, rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	LoginService(svc, rr, newRequest(t, http.MethodPost, "/api/v4/users/login", models.LoginRequest{LoginID: "newbie", Password: "passwd-1"}, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	token := rr.Header().Get("Token")
	assert.NotEmpty(t, token)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookie, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)

	rr = httptest.NewRecorder()
	LoginService(svc, rr, newRequest(t, http.MethodPost, "/api/v4/users/login", models.LoginRequest{LoginID: "newbie", Password: "wrong"}, nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateUserService_InvalidBody(t *testing.T) {
	svc, _ := newService(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v4/users", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	CreateUserService(svc, rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServicesRequireClaims(t *testing.T) {
	svc, _ := newService(t)
	rr := httptest.NewRecorder()
	GetMeService(svc, rr, newRequest(t, http.MethodGet, "/api/v4/users/me", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAddChannelMemberService_Idempotent(t *testing.T) {
	svc, f := newService(t)
	channel := f.CreateChannel(t, f.Admin, "channel-test-abc", "channel-test abc")

	for i := 0; i < 2; i++ {
		req := newRequest(t, http.MethodPost, "/api/v4/channels/"+channel.ID+"/members", models.MemberRequest{UserID: f.User1.ID}, f.Admin)
		req = mux.SetURLVars(req, map[string]string{"channel-id": channel.ID})
		rr := httptest.NewRecorder()
		AddChannelMemberService(svc, rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		var member models.ChannelMember
		decode(t, rr, &member)
		assert.Equal(t, f.User1.ID, member.UserID)
	}
}

func TestAddChannelMemberService_Forbidden(t *testing.T) {
	svc, f := newService(t)
	channel := f.CreateChannel(t, f.Admin, "closed-door", "Closed Door")

	req := newRequest(t, http.MethodPost, "/", models.MemberRequest{UserID: f.User2.ID}, f.User1)
	req = mux.SetURLVars(req, map[string]string{"channel-id": channel.ID})
	rr := httptest.NewRecorder()
	AddChannelMemberService(svc, rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	var body models.Response
	decode(t, rr, &body)
	assert.Equal(t, 0, body.Success)
	assert.Equal(t, "You don't have enough permissions to add user-2 in closed-door.", body.ErrorDetails)
}

func TestGetChannelByNameService(t *testing.T) {
	svc, f := newService(t)

	req := newRequest(t, http.MethodGet, "/", nil, f.User1)
	req = mux.SetURLVars(req, map[string]string{"team-id": f.Team.ID, "name": "town-square"})
	rr := httptest.NewRecorder()
	GetChannelByNameService(svc, rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var channel models.Channel
	decode(t, rr, &channel)
	assert.Equal(t, f.TownSquare.ID, channel.ID)

	req = mux.SetURLVars(newRequest(t, http.MethodGet, "/", nil, f.User1), map[string]string{"team-id": f.Team.ID, "name": "missing"})
	rr = httptest.NewRecorder()
	GetChannelByNameService(svc, rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDirectAndGroupChannelServices(t *testing.T) {
	svc, f := newService(t)

	rr := httptest.NewRecorder()
	CreateDirectChannelService(svc, rr, newRequest(t, http.MethodPost, "/", []string{f.User1.ID, f.User2.ID}, f.User1))
	require.Equal(t, http.StatusCreated, rr.Code)
	var dm models.Channel
	decode(t, rr, &dm)
	assert.Equal(t, models.ChannelDirect, dm.Type)

	rr = httptest.NewRecorder()
	CreateDirectChannelService(svc, rr, newRequest(t, http.MethodPost, "/", []string{f.Admin.ID, f.User2.ID}, f.User1))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	user3 := f.AddUser(t, "user-3")
	rr = httptest.NewRecorder()
	CreateGroupChannelService(svc, rr, newRequest(t, http.MethodPost, "/", []string{f.User2.ID, user3.ID}, f.User1))
	require.Equal(t, http.StatusCreated, rr.Code)
	var gm models.Channel
	decode(t, rr, &gm)
	assert.Equal(t, models.ChannelGroup, gm.Type)
}

func TestCreatePostAndGetChannelPostsService(t *testing.T) {
	svc, f := newService(t)

	rr := httptest.NewRecorder()
	CreatePostService(svc, rr, newRequest(t, http.MethodPost, "/", models.PostRequest{ChannelID: f.TownSquare.ID, Message: "hello from user2"}, f.User2))
	require.Equal(t, http.StatusCreated, rr.Code)

	req := mux.SetURLVars(newRequest(t, http.MethodGet, "/?limit=10", nil, f.User1), map[string]string{"channel-id": f.TownSquare.ID})
	rr = httptest.NewRecorder()
	GetChannelPostsService(svc, rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var posts []models.RenderedPost
	decode(t, rr, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, "user-2", posts[0].Username)
	assert.False(t, posts[0].CurrentUser)

	req = mux.SetURLVars(newRequest(t, http.MethodGet, "/?limit=abc", nil, f.User1), map[string]string{"channel-id": f.TownSquare.ID})
	rr = httptest.NewRecorder()
	GetChannelPostsService(svc, rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExecuteCommandService(t *testing.T) {
	svc, f := newService(t)

	rr := httptest.NewRecorder()
	ExecuteCommandService(svc, rr, newRequest(t, http.MethodPost, "/", models.CommandArgs{TeamID: f.Team.ID, ChannelID: f.TownSquare.ID, Command: "/shrug test"}, f.User1))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.CommandResponse
	decode(t, rr, &resp)
	assert.Equal(t, models.CommandResponseTypeInChannel, resp.ResponseType)

	rr = httptest.NewRecorder()
	ExecuteCommandService(svc, rr, newRequest(t, http.MethodPost, "/", models.CommandArgs{TeamID: f.Team.ID, ChannelID: f.TownSquare.ID, Command: "/nope"}, f.User1))
	require.Equal(t, http.StatusNotFound, rr.Code)
	var body models.Response
	decode(t, rr, &body)
	assert.Equal(t, "Command with a trigger of '/nope' not found.", body.ErrorDetails)

	outsider := apptest.CreateUser(t, f.App, "outsider")
	rr = httptest.NewRecorder()
	ExecuteCommandService(svc, rr, newRequest(t, http.MethodPost, "/", models.CommandArgs{TeamID: f.Team.ID, ChannelID: f.TownSquare.ID, Command: "/away"}, outsider))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	other, err := f.App.CreateTeam(context.Background(), f.Admin.ID, &models.Team{Name: "ad-2", DisplayName: "AD 2"})
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	ExecuteCommandService(svc, rr, newRequest(t, http.MethodPost, "/", models.CommandArgs{TeamID: other.ID, ChannelID: f.TownSquare.ID, Command: "/mute ~town-square"}, f.User1))
	require.Equal(t, http.StatusForbidden, rr.Code)
	decode(t, rr, &body)
	assert.Equal(t, "You are not a member of this team.", body.ErrorDetails)
}

func TestAutocompleteService(t *testing.T) {
	svc, f := newService(t)

	rr := httptest.NewRecorder()
	AutocompleteService(svc, rr, newRequest(t, http.MethodGet, "/?text=/ren", nil, f.User1))
	require.Equal(t, http.StatusOK, rr.Code)

	var list []models.AutocompleteSuggestion
	decode(t, rr, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "/rename [text]", list[0].Suggestion())
}
