package model

import (
	"errors"
	"time"
)

// Roles recognized by moderation and admin-only endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user in the system
type User struct {
	ID             int64      `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	PasswordHashed string     `db:"password_hashed" json:"-"` // "-" hides from JSON output
	DisplayName    *string    `db:"display_name" json:"display_name"`
	AvatarURL      *string    `db:"avatar_url" json:"avatar_url"`
	Bio            *string    `db:"bio" json:"bio"`
	Role           string     `db:"role" json:"role"`
	FollowerCount  int        `db:"follower_count" json:"follower_count"`
	FollowingCount int        `db:"following_count" json:"following_count"`
	DeactivatedAt  *time.Time `db:"deactivated_at" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// IsDeactivated reports whether the account has been deactivated.
// Content authored by deactivated accounts is only shown to admins.
func (u *User) IsDeactivated() bool {
	return u.DeactivatedAt != nil
}

// UserSummary is the lightweight author shape joined onto comments and
// notifications.
type UserSummary struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// Viewer identifies who is looking at a resource. The zero value is an
// unauthenticated visitor.
type Viewer struct {
	ID            int64
	Role          string
	Authenticated bool
}

// IsAdmin reports whether the viewer holds the platform admin role.
func (v Viewer) IsAdmin() bool {
	return v.Authenticated && v.Role == RoleAdmin
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileResponse is a user profile as seen by a viewer.
type ProfileResponse struct {
	User        *User `json:"user"`
	IsFollowing bool  `json:"is_following"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAdminOnly is returned when a non-admin calls an admin-only operation
	ErrAdminOnly = errors.New("admin access required")
)
