package services

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

func CreateChannelService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var payload models.ChannelRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	channel, err := svc.App.CreateChannel(r.Context(), claims.UserID(), payload)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	logger.Info().Str("channel_id", channel.ID).Msg("Channel created successfully")
	WriteResponse(w, http.StatusCreated, channel, fmt.Sprintf("%s/%s", r.URL.Path, channel.ID))
}

func GetChannelByNameService(svc *Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	channel, err := svc.App.GetChannelByName(r.Context(), vars["team-id"], vars["name"])
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	readable, err := svc.App.CanReadChannel(r.Context(), claims.UserID(), channel)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if !readable {
		HandleErrResponse(w, r, app.NewError(app.ErrIDChannelNotFound, "Unable to find the channel.", http.StatusNotFound))
		return
	}
	WriteResponse(w, http.StatusOK, channel)
}

// AddChannelMemberService adds a user to a channel. Adding an existing
// member succeeds and returns the current membership.
func AddChannelMemberService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var payload models.MemberRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	channelID := mux.Vars(r)["channel-id"]
	member, err := svc.App.AddChannelMember(r.Context(), claims.UserID(), channelID, payload.UserID)
	if app.HasID(err, app.ErrIDAlreadyMember) {
		member, err = svc.App.GetChannelMember(r.Context(), channelID, payload.UserID)
	}
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	logger.Info().Str("channel_id", channelID).Str("user_id", payload.UserID).Msg("Channel member added")
	WriteResponse(w, http.StatusCreated, member)
}

// CreateDirectChannelService opens the DM between the two given users. The
// caller must be one of them unless they are a system admin.
func CreateDirectChannelService(svc *Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var ids []string
	if !decodeBody(w, r, &ids) {
		return
	}
	if len(ids) != 2 {
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse("invalid_body", "Exactly two user ids are required."))
		return
	}
	if ids[0] != claims.UserID() && ids[1] != claims.UserID() && !hasRole(claims.Roles, "system_admin") {
		WriteResponse(w, http.StatusForbidden, models.ErrorResponse(app.ErrIDNoPermission, "You do not have the appropriate permissions."))
		return
	}

	channel, err := svc.App.GetOrCreateDirectChannel(r.Context(), ids[0], ids[1])
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusCreated, channel)
}

// CreateGroupChannelService opens the GM of the caller and the given users.
func CreateGroupChannelService(svc *Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var ids []string
	if !decodeBody(w, r, &ids) {
		return
	}

	channel, err := svc.App.GetOrCreateGroupChannel(r.Context(), claims.UserID(), ids)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusCreated, channel)
}

// GetChannelPostsService returns the latest posts as the caller sees them.
func GetChannelPostsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteResponse(w, http.StatusBadRequest, models.ErrorResponse("invalid_limit", "limit must be a non-negative integer."))
			return
		}
		limit = n
	}

	posts, err := svc.App.GetChannelView(r.Context(), claims.UserID(), mux.Vars(r)["channel-id"], limit)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusOK, posts)
}

// hasRole checks if a user has a specific role in the JWT claims.
func hasRole(roles []string, role string) bool {
	for _, userRole := range roles {
		if userRole == role {
			return true
		}
	}
	return false
}
