package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/parley-chat/parley-services/db"
)

// Error is a domain failure that carries the HTTP status it maps to.
type Error struct {
	ID      string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.ID, e.Message, e.Err)
	}
	return e.ID + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(id, message string, status int) *Error {
	return &Error{ID: id, Message: message, Status: status}
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasID reports whether err is an *Error with the given id.
func HasID(err error, id string) bool {
	appErr, ok := AsError(err)
	return ok && appErr.ID == id
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	if appErr, ok := AsError(err); ok {
		return appErr.Status
	}
	if errors.Is(err, db.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, db.ErrConflict) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func notFound(id, message string, err error) *Error {
	return &Error{ID: id, Message: message, Status: http.StatusNotFound, Err: err}
}

func badRequest(id, message string) *Error {
	return NewError(id, message, http.StatusBadRequest)
}

func forbidden(id, message string) *Error {
	return NewError(id, message, http.StatusForbidden)
}

// Error ids callers switch on.
const (
	ErrIDUserNotFound        = "app.user.not_found"
	ErrIDUserInactive        = "app.user.inactive"
	ErrIDUsernameTaken       = "app.user.username_exists"
	ErrIDInvalidLogin        = "app.user.login.invalid_credentials"
	ErrIDTeamNotFound        = "app.team.not_found"
	ErrIDNotTeamMember       = "app.team.not_member"
	ErrIDChannelNotFound     = "app.channel.not_found"
	ErrIDChannelExists       = "app.channel.name_exists"
	ErrIDTeamExists          = "app.team.name_exists"
	ErrIDNotChannelMember    = "app.channel.not_member"
	ErrIDAlreadyMember       = "app.channel.already_member"
	ErrIDDirectChannel       = "app.channel.direct_or_group"
	ErrIDDefaultChannel      = "app.channel.default_channel"
	ErrIDNoPermission        = "app.permission.denied"
	ErrIDInvalidChannelName  = "app.channel.invalid_name"
	ErrIDInvalidDisplayName  = "app.channel.invalid_display_name"
	ErrIDGroupTooSmall       = "app.channel.group.min_users"
	ErrIDGroupTooLarge       = "app.channel.group.max_users"
	ErrIDPostNotFound        = "app.post.not_found"
	ErrIDInvalidPost         = "app.post.invalid"
	ErrIDInvalidUser         = "app.user.invalid"
	ErrIDInvalidStatus       = "app.user.invalid_status"
	ErrIDCommandNotFound     = "app.command.not_found"
	ErrIDCommandRateLimited  = "app.command.rate_limited"
	ErrIDEmailDisabled       = "app.email.disabled"
	ErrIDInvalidEmailAddress = "app.email.invalid_address"
)
