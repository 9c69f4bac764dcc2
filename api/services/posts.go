package services

import (
	"net/http"

	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

// CreatePostService posts a regular message as the caller.
func CreatePostService(svc *Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var payload models.PostRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	post, err := svc.App.CreatePost(r.Context(), &models.Post{
		ChannelID: payload.ChannelID,
		UserID:    claims.UserID(),
		RootID:    payload.RootID,
		Message:   payload.Message,
	})
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Debug().Str("post_id", post.ID).Msg("Post created")
	WriteResponse(w, http.StatusCreated, post)
}

// ExecuteCommandService runs a slash command as the caller.
func ExecuteCommandService(svc *Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var args models.CommandArgs
	if !decodeBody(w, r, &args) {
		return
	}
	args.UserID = claims.UserID()
	args.SiteURL = svc.Config.SiteURL

	if _, err := svc.App.GetChannelMember(r.Context(), args.ChannelID, args.UserID); err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if args.TeamID != "" {
		member, err := svc.App.IsTeamMember(r.Context(), args.TeamID, args.UserID)
		if err != nil {
			HandleErrResponse(w, r, err)
			return
		}
		if !member {
			HandleErrResponse(w, r, app.NewError(app.ErrIDNotTeamMember, "You are not a member of this team.", http.StatusForbidden))
			return
		}
	}

	resp, err := svc.Commands.Execute(r.Context(), &args)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusOK, resp)
}
