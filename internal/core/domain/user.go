package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

// DefaultPhoto is the avatar assigned to accounts created without one.
const DefaultPhoto = "default-avatar.jpg"

var ErrEmailInUse = errors.New("email address already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid access token")
var ErrUserNotFound = errors.New("user not found")

// ValidRole reports whether r belongs to the fixed role enumeration.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleUser
}

// User models a registered account. PasswordHash is only ever populated
// inside the repository and hasher boundary; anything returned from the
// account service carries it zeroed.
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	Photo        string    `json:"photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicView is the outward-facing projection of a User. It is the only
// user shape handlers are allowed to serialize for unprivileged callers.
type PublicView struct {
	ID          string   `json:"id"`
	Roles       []string `json:"roles"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email"`
	Photo       string   `json:"photo"`
}

// Public projects the user to its outward-facing view.
func (u *User) Public() PublicView {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return PublicView{
		ID:          u.ID,
		Roles:       roles,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Photo:       u.Photo,
	}
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
