package app

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/parley-chat/parley-services/db"
	"github.com/parley-chat/parley-services/internal/events"
	"github.com/parley-chat/parley-services/models"
	"golang.org/x/crypto/bcrypt"
)

var usernameRegex = regexp.MustCompile(`^[a-z][a-z0-9.\-_]{2,21}$`)

const minPasswordLength = 5

// CreateUser validates and stores a new user. The first user ever created
// becomes a system admin.
func (a *App) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return a.createUser(ctx, user, false)
}

// CreateSystemAdmin stores a new user with the system admin role.
func (a *App) CreateSystemAdmin(ctx context.Context, user *models.User) (*models.User, error) {
	return a.createUser(ctx, user, true)
}

func (a *App) createUser(ctx context.Context, user *models.User, admin bool) (*models.User, error) {
	user.Username = models.NormalizeUsername(user.Username)
	if !usernameRegex.MatchString(user.Username) {
		return nil, badRequest(ErrIDInvalidUser, "Username must begin with a letter and contain between 3 and 22 lowercase characters made up of numbers, letters, and the symbols '.', '-', and '_'.")
	}
	if !strings.Contains(user.Email, "@") {
		return nil, badRequest(ErrIDInvalidUser, "Invalid email address.")
	}
	if len(user.Password) < minPasswordLength {
		return nil, badRequest(ErrIDInvalidUser, "Password must be at least 5 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	count, err := a.Store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	created := &models.User{
		ID:           NewID(),
		Username:     user.Username,
		Email:        strings.ToLower(strings.TrimSpace(user.Email)),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: string(hash),
		Roles:        models.SystemUserRole,
		Status:       models.StatusOffline,
		CreateAt:     a.millis(),
	}
	if count == 0 || admin {
		created.Roles = models.SystemUserRole + " " + models.SystemAdminRole
	}

	if err := a.Store.CreateUser(ctx, created); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, &Error{ID: ErrIDUsernameTaken, Message: "An account with that username already exists.", Status: http.StatusBadRequest, Err: err}
		}
		return nil, err
	}
	return created.Sanitize(), nil
}

// Login checks a username and password and returns the user with a fresh session token.
func (a *App) Login(ctx context.Context, loginID, password string) (*models.User, string, error) {
	invalid := NewError(ErrIDInvalidLogin, "Enter a valid username and password.", http.StatusUnauthorized)

	user, err := a.Store.GetUserByUsername(ctx, models.NormalizeUsername(loginID))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, "", invalid
		}
		return nil, "", err
	}
	if !user.IsActive() {
		return nil, "", NewError(ErrIDUserInactive, "Login failed because your account has been deactivated.", http.StatusUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", invalid
	}

	token, err := a.Signer.Issue(user.ID, user.Username, strings.Fields(user.Roles))
	if err != nil {
		return nil, "", err
	}
	if err := a.Store.UpdateUserStatus(ctx, user.ID, models.StatusOnline); err != nil {
		return nil, "", err
	}
	user.Status = models.StatusOnline
	return user.Sanitize(), token, nil
}

// GetUser returns a user by id.
func (a *App) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := a.Store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFound(ErrIDUserNotFound, "We couldn't find the user.", err)
		}
		return nil, err
	}
	return user, nil
}

// GetUserByUsername returns a user by username; a leading @ is ignored.
func (a *App) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := a.Store.GetUserByUsername(ctx, models.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFound(ErrIDUserNotFound, "We couldn't find the user.", err)
		}
		return nil, err
	}
	return user, nil
}

// GetActiveUserByUsername is GetUserByUsername but treats deactivated users as missing.
func (a *App) GetActiveUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := a.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, notFound(ErrIDUserNotFound, "We couldn't find the user.", nil)
	}
	return user, nil
}

// SetUserActive deactivates or reactivates userID. Only the user themself or
// a system admin may do so.
func (a *App) SetUserActive(ctx context.Context, actorID, userID string, active bool) error {
	actor, err := a.GetUser(ctx, actorID)
	if err != nil {
		return err
	}
	if actorID != userID && !actor.IsSystemAdmin() {
		return forbidden(ErrIDNoPermission, "You do not have the appropriate permissions.")
	}
	if _, err := a.GetUser(ctx, userID); err != nil {
		return err
	}

	var deleteAt int64
	if !active {
		deleteAt = a.millis()
	}
	if err := a.Store.UpdateUserDeleteAt(ctx, userID, deleteAt); err != nil {
		return err
	}
	if !active {
		if err := a.Store.UpdateUserStatus(ctx, userID, models.StatusOffline); err != nil {
			return err
		}
		a.publish(ctx, events.Event{Type: events.UserDeactivated, UserID: userID, Data: map[string]string{"actor_id": actorID}})
	}
	return nil
}

// UpdateStatus sets the presence status of a user.
func (a *App) UpdateStatus(ctx context.Context, userID, status string) error {
	switch status {
	case models.StatusOnline, models.StatusAway, models.StatusOffline, models.StatusDND:
	default:
		return badRequest(ErrIDInvalidStatus, "Invalid status.")
	}
	return a.Store.UpdateUserStatus(ctx, userID, status)
}
