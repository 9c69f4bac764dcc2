package services

import (
	"encoding/json"
	"net/http"

	"github.com/parley-chat/parley-services/api/middleware"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/appconfig"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/parley-chat/parley-services/internal/commands"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

// Service contains all shared dependencies for handlers.
type Service struct {
	Config   *appconfig.Config
	App      *app.App
	Commands *commands.Executor
}

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// HandleErrResponse writes err with the status the domain assigned to it.
// Internal failures are logged and not echoed to the client.
func HandleErrResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())
	status := app.StatusOf(err)

	if appErr, ok := app.AsError(err); ok && status < http.StatusInternalServerError {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
		WriteResponse(w, status, models.ErrorResponse(appErr.ID, appErr.Message))
		return
	}
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		WriteResponse(w, status, models.ErrorResponse("internal_error", "An internal error occurred."))
		return
	}
	WriteResponse(w, status, models.ErrorResponse(http.StatusText(status), err.Error()))
}

// claimsOrUnauthorized returns the caller's claims or writes a 401.
func claimsOrUnauthorized(w http.ResponseWriter, r *http.Request) (authn.Claims, bool) {
	claims, ok := middleware.Claims(r)
	if !ok || claims.UserID() == "" {
		zerolog.Ctx(r.Context()).Warn().Msg("Unauthorized request: missing claims")
		WriteResponse(w, http.StatusUnauthorized, models.ErrorResponse("unauthorized", "Missing or invalid session."))
		return claims, false
	}
	return claims, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Invalid request payload")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse("invalid_body", "Invalid request payload."))
		return false
	}
	return true
}
