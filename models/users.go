package models

import "strings"

const (
	SystemUserRole  = "system_user"
	SystemAdminRole = "system_admin"

	StatusOnline  = "online"
	StatusAway    = "away"
	StatusOffline = "offline"
	StatusDND     = "dnd"
)

// User represents a user in the system.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"-"`
	Roles        string `json:"roles"`
	Status       string `json:"status"`
	CreateAt     int64  `json:"create_at"`
	DeleteAt     int64  `json:"delete_at"`
}

// IsActive reports whether the user has not been deactivated.
func (u *User) IsActive() bool {
	return u.DeleteAt == 0
}

// IsSystemAdmin reports whether the user holds the system admin role.
func (u *User) IsSystemAdmin() bool {
	for _, role := range strings.Fields(u.Roles) {
		if role == SystemAdminRole {
			return true
		}
	}
	return false
}

// Sanitize strips secrets before the user is written to a response.
func (u *User) Sanitize() *User {
	cp := *u
	cp.Password = ""
	cp.PasswordHash = ""
	return &cp
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// ActiveRequest toggles a user's active flag.
type ActiveRequest struct {
	Active bool `json:"active"`
}

// MemberRequest adds a user to a team or channel.
type MemberRequest struct {
	UserID string `json:"user_id"`
}

// NormalizeUsername lowercases and trims a username or strips a leading @.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
