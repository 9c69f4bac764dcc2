package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/api/middleware"
	"github.com/parley-chat/parley-services/api/services"
)

// @Summary Create a user
// @Description Sign up a new account. The first account created becomes a system admin.
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.User true "Username, email and password"
// @Success 201 {object} models.User
// @Failure 400 {object} models.Response
// @Router /users [post]
func CreateUser(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateUserService(svc, w, r)
	}
}

// @Summary Log in
// @Description Check credentials and return the session token in the Token header and the session cookie.
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Login id and password"
// @Success 200 {object} models.User
// @Header 200 {string} Token "Session token"
// @Failure 401 {object} models.Response
// @Router /users/login [post]
func Login(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.LoginService(svc, w, r)
	}
}

// @Summary Log out
// @Tags users
// @Produce json
// @Success 200 {object} models.Response
// @Router /users/logout [post]
func Logout(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.LogoutService(svc, w, r)
	}
}

// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.Response
// @Router /users/me [get]
func GetMe(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetMeService(svc, w, r)
	}
}

// @Summary Get a user by username
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username" example(user-1)
// @Success 200 {object} models.User
// @Failure 404 {object} models.Response
// @Router /users/username/{username} [get]
func GetUserByUsername(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetUserByUsernameService(svc, w, r)
	}
}

// @Summary Activate or deactivate a user
// @Description Only the user themselves or a system admin may change the flag.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user-id path string true "User ID"
// @Param body body models.ActiveRequest true "New active flag"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /users/{user-id}/active [put]
func UpdateUserActive(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.UpdateUserActiveService(svc, w, r)
	}
}

// @Summary Create a team
// @Description Creates the team with its default channels; the creator joins it as team admin.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.Team true "Name, display name and type"
// @Success 201 {object} models.Team
// @Failure 400 {object} models.Response
// @Router /teams [post]
func CreateTeam(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateTeamService(svc, w, r)
	}
}

// @Summary Get a team by name
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param name path string true "Team name"
// @Success 200 {object} models.Team
// @Failure 404 {object} models.Response
// @Router /teams/name/{name} [get]
func GetTeamByName(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetTeamByNameService(svc, w, r)
	}
}

// @Summary Add a team member
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team-id path string true "Team ID"
// @Param body body models.MemberRequest true "User to add"
// @Success 201 {object} models.TeamMember
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /teams/{team-id}/members [post]
func AddTeamMember(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.AddTeamMemberService(svc, w, r)
	}
}

// @Summary List slash commands
// @Description Without text every command is listed; with text only the matching ones.
// @Tags commands
// @Produce json
// @Security BearerAuth
// @Param team-id path string true "Team ID"
// @Param text query string false "Text typed so far" example(/ren)
// @Success 200 {array} models.AutocompleteSuggestion
// @Router /teams/{team-id}/commands/autocomplete [get]
func Autocomplete(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.AutocompleteService(svc, w, r)
	}
}

// @Summary Create a channel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.ChannelRequest true "Team, handle, display name and type"
// @Success 201 {object} models.Channel
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /channels [post]
func CreateChannel(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateChannelService(svc, w, r)
	}
}

// @Summary Get a channel by handle
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param team-id path string true "Team ID"
// @Param name path string true "Channel handle" example(town-square)
// @Success 200 {object} models.Channel
// @Failure 404 {object} models.Response
// @Router /teams/{team-id}/channels/name/{name} [get]
func GetChannelByName(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetChannelByNameService(svc, w, r)
	}
}

// @Summary Add a channel member
// @Description Posts a system message in the channel and gives the added user a mention. Adding an existing member succeeds.
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param channel-id path string true "Channel ID"
// @Param body body models.MemberRequest true "User to add"
// @Success 201 {object} models.ChannelMember
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /channels/{channel-id}/members [post]
func AddChannelMember(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.AddChannelMemberService(svc, w, r)
	}
}

// @Summary Get or create a direct message channel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []string true "The two user ids"
// @Success 201 {object} models.Channel
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /channels/direct [post]
func CreateDirectChannel(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateDirectChannelService(svc, w, r)
	}
}

// @Summary Get or create a group message channel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []string true "User ids of the other members"
// @Success 201 {object} models.Channel
// @Failure 400 {object} models.Response
// @Router /channels/group [post]
func CreateGroupChannel(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateGroupChannelService(svc, w, r)
	}
}

// @Summary List channel posts
// @Description Persisted posts and the caller's ephemeral posts, oldest first, rendered for the caller.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param channel-id path string true "Channel ID"
// @Param limit query int false "Newest posts to return, 0 for all"
// @Success 200 {array} models.RenderedPost
// @Failure 403 {object} models.Response
// @Router /channels/{channel-id}/posts [get]
func GetChannelPosts(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetChannelPostsService(svc, w, r)
	}
}

// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.PostRequest true "Channel, optional thread root and message"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.Response
// @Failure 403 {object} models.Response
// @Router /posts [post]
func CreatePost(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreatePostService(svc, w, r)
	}
}

// @Summary Execute a slash command
// @Description Runs the command as the caller in the given channel. User errors come back as ephemeral responses.
// @Tags commands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.CommandArgs true "Team, channel, optional thread root and command text"
// @Success 200 {object} models.CommandResponse
// @Failure 403 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 429 {object} models.Response
// @Router /commands/execute [post]
func ExecuteCommand(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ExecuteCommandService(svc, w, r)
	}
}

// RegisterRoutes mounts the JSON API on r under the configured base path.
// Sign-up and login stay outside the JWT middleware.
func RegisterRoutes(r *mux.Router, svc *services.Service) {
	api := r.PathPrefix(svc.Config.BasePath).Subrouter()
	api.Use(middleware.WithLogger)
	api.Use(middleware.WithMetrics)

	api.HandleFunc("/users", CreateUser(svc)).Methods(http.MethodPost)
	api.HandleFunc("/users/login", Login(svc)).Methods(http.MethodPost)
	api.HandleFunc("/users/logout", Logout(svc)).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.JWTMiddleware(svc.App.Signer))

	// User routes
	authed.HandleFunc("/users/me", GetMe(svc)).Methods(http.MethodGet)
	authed.HandleFunc("/users/username/{username}", GetUserByUsername(svc)).Methods(http.MethodGet)
	authed.HandleFunc("/users/{user-id}/active", UpdateUserActive(svc)).Methods(http.MethodPut)

	// Team routes
	authed.HandleFunc("/teams", CreateTeam(svc)).Methods(http.MethodPost)
	authed.HandleFunc("/teams/name/{name}", GetTeamByName(svc)).Methods(http.MethodGet)
	authed.HandleFunc("/teams/{team-id}/members", AddTeamMember(svc)).Methods(http.MethodPost)
	authed.HandleFunc("/teams/{team-id}/channels/name/{name}", GetChannelByName(svc)).Methods(http.MethodGet)
	authed.HandleFunc("/teams/{team-id}/commands/autocomplete", Autocomplete(svc)).Methods(http.MethodGet)

	// Channel routes
	authed.HandleFunc("/channels", CreateChannel(svc)).Methods(http.MethodPost)
	authed.HandleFunc("/channels/direct", CreateDirectChannel(svc)).Methods(http.MethodPost)
	authed.HandleFunc("/channels/group", CreateGroupChannel(svc)).Methods(http.MethodPost)
	authed.HandleFunc("/channels/{channel-id}/members", AddChannelMember(svc)).Methods(http.MethodPost)
	authed.HandleFunc("/channels/{channel-id}/posts", GetChannelPosts(svc)).Methods(http.MethodGet)

	// Post and command routes
	authed.HandleFunc("/posts", CreatePost(svc)).Methods(http.MethodPost)
	authed.HandleFunc("/commands/execute", ExecuteCommand(svc)).Methods(http.MethodPost)
}
