package domain

import (
	"io"
	"time"
)

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// AuthContext is the identity derived from a verified access token.
// It is attached to the request once by the access guard and only read afterwards.
type AuthContext struct {
	UserID      string
	DisplayName string
	Role        Role
}

// IsAdmin reports whether the caller holds the admin role
func (a AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AccessGrant is a freshly minted access token
type AccessGrant struct {
	AccessToken string
	ExpiresAt   time.Time
}

// ImageRef points at an image held by the upload service.
// Handle is what the upload service needs to delete it again.
type ImageRef struct {
	URL    string
	Handle string
}

// ImageFile is an image received from a client, not yet uploaded
type ImageFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}
