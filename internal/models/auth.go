package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest registers a new account. The payload carries no role:
// signup always creates a USER, admins are provisioned out-of-band.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	Name     string `json:"name" validate:"required,max=40"`
}

// SignupResponse echoes the registered account without credentials.
type SignupResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

// UpdateProfileRequest changes display name and, optionally, password.
type UpdateProfileRequest struct {
	Name        string `json:"name" validate:"required,max=40"`
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"new_password" validate:"omitempty,min=8,max=64"`
}

// TokenClaims is the JWT payload for both access and refresh tokens.
// Subject carries the user email.
type TokenClaims struct {
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}

// AuditLog represents an audit trail record for auth events.
type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    *string   `db:"user_id" json:"user_id,omitempty"`
	Action    string    `db:"action" json:"action"`
	Detail    string    `db:"detail" json:"detail"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Audit actions recorded by the auth flow.
const (
	AuditActionLogin   = "LOGIN"
	AuditActionRefresh = "REFRESH"
	AuditActionLogout  = "LOGOUT"
	AuditActionSignup  = "SIGNUP"
	AuditActionResign  = "RESIGN"
)

// RequestMeta carries transport metadata into audit records.
type RequestMeta struct {
	IP        string
	UserAgent string
}
