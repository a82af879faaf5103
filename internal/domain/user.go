package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a role supplied at the API boundary. A blank value
// defaults to RoleUser.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("incorrect role %q", raw)
	}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered principal together with its public profile.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	Bio          *string
	Title        *string
	TwitterURL   *string
	InstagramURL *string
	LinkedinURL  *string
	ProfileImage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// CanAuthenticate reports whether the credential may log in.
func (u *User) CanAuthenticate() bool {
	return u != nil && u.IsActive && strings.TrimSpace(u.PasswordHash) != ""
}

// ProfileUpdate carries the mutable, non-identity profile fields. Nil
// pointers leave the stored value untouched.
type ProfileUpdate struct {
	Bio          *string
	Title        *string
	TwitterURL   *string
	InstagramURL *string
	LinkedinURL  *string
}

// Apply copies the set fields onto the user.
func (p ProfileUpdate) Apply(u *User) {
	if p.Bio != nil {
		u.Bio = p.Bio
	}
	if p.Title != nil {
		u.Title = p.Title
	}
	if p.TwitterURL != nil {
		u.TwitterURL = p.TwitterURL
	}
	if p.InstagramURL != nil {
		u.InstagramURL = p.InstagramURL
	}
	if p.LinkedinURL != nil {
		u.LinkedinURL = p.LinkedinURL
	}
}
