package services

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/api/middleware"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

// CreateUserService signs up a new user.
func CreateUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var payload models.User
	if !decodeBody(w, r, &payload) {
		return
	}

	user, err := svc.App.CreateUser(r.Context(), &payload)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User created successfully")
	WriteResponse(w, http.StatusCreated, user, fmt.Sprintf("%s/%s", r.URL.Path, user.ID))
}

// LoginService checks credentials and hands back a session token in the
// Token header, the session cookie and the user body.
func LoginService(svc *Service, w http.ResponseWriter, r *http.Request) {
	var payload models.LoginRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	user, token, err := svc.App.Login(r.Context(), payload.LoginID, payload.Password)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	SetSessionCookie(w, token, int(svc.Config.Auth.TokenTTL.Seconds()))
	w.Header().Set("Token", token)
	WriteResponse(w, http.StatusOK, user)
}

// SetSessionCookie stores token in the browser session cookie. A negative
// maxAge clears it.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func LogoutService(svc *Service, w http.ResponseWriter, r *http.Request) {
	SetSessionCookie(w, "", -1)
	WriteResponse(w, http.StatusOK, models.DataResponse(nil))
}

// GetMeService returns the caller.
func GetMeService(svc *Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	user, err := svc.App.GetUser(r.Context(), claims.UserID())
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusOK, user.Sanitize())
}

func GetUserByUsernameService(svc *Service, w http.ResponseWriter, r *http.Request) {
	if _, ok := claimsOrUnauthorized(w, r); !ok {
		return
	}

	user, err := svc.App.GetUserByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusOK, user.Sanitize())
}

// UpdateUserActiveService deactivates or reactivates a user.
func UpdateUserActiveService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var payload models.ActiveRequest
	if !decodeBody(w, r, &payload) {
		return
	}

	userID := mux.Vars(r)["user-id"]
	if err := svc.App.SetUserActive(r.Context(), claims.UserID(), userID, payload.Active); err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	logger.Info().Str("user_id", userID).Bool("active", payload.Active).Msg("User active flag updated")
	WriteResponse(w, http.StatusOK, models.DataResponse(nil))
}
