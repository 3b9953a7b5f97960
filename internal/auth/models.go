package auth

import (
	"database/sql"
	"time"
)

// Role represents user permission levels
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status represents user account status
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Provider represents OAuth providers
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// User represents an authenticated user
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OAuthIdentity links a user to an OAuth provider
type OAuthIdentity struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Provider   Provider  `json:"provider"`
	ProviderID string    `json:"providerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Session represents a server-side user session
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// OAuthState represents a CSRF protection state
type OAuthState struct {
	State     string    `json:"state"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserUpdateRequest represents the request body for updating a user
type UserUpdateRequest struct {
	Role   *Role   `json:"role"`
	Status *Status `json:"status"`
}

// NullableString helper for scanning nullable string
func ScanNullableString(n sql.NullString) *string {
	if n.Valid {
		return &n.String
	}
	return nil
}

// NullableTime helper for scanning nullable time
func ScanNullableTime(n sql.NullTime) *time.Time {
	if n.Valid {
		return &n.Time
	}
	return nil
}
