package services

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

func CreateTeamService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var payload models.Team
	if !decodeBody(w, r, &payload) {
		return
	}

	team, err := svc.App.CreateTeam(r.Context(), claims.UserID(), &payload)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	logger.Info().Str("team_id", team.ID).Msg("Team created successfully")
	WriteResponse(w, http.StatusCreated, team, fmt.Sprintf("%s/%s", r.URL.Path, team.ID))
}

func GetTeamByNameService(svc *Service, w http.ResponseWriter, r *http.Request) {
	if _, ok := claimsOrUnauthorized(w, r); !ok {
		return
	}

	team, err := svc.App.GetTeamByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusOK, team)
}

// AddTeamMemberService adds a user to a team and its default channels.
func AddTeamMemberService(svc *Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var payload models.MemberRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	member, err := svc.App.AddTeamMember(r.Context(), claims.UserID(), mux.Vars(r)["team-id"], payload.UserID)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusCreated, member)
}

// AutocompleteService lists the built-in commands, optionally filtered by
// the text typed so far.
func AutocompleteService(svc *Service, w http.ResponseWriter, r *http.Request) {
	if _, ok := claimsOrUnauthorized(w, r); !ok {
		return
	}

	registry := svc.Commands.Registry
	if text := r.URL.Query().Get("text"); text != "" {
		WriteResponse(w, http.StatusOK, registry.Suggest(text))
		return
	}
	WriteResponse(w, http.StatusOK, registry.Autocomplete())
}
