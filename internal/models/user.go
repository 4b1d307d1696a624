package models

import "time"

// UserRole is the closed set of roles known to the board.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// UserStatus tracks whether an account may authenticate.
type UserStatus string

const (
	UserStatusNormal UserStatus = "NORMAL"
	// UserStatusResigned permanently blocks new logins. The slot in
	// refresh_token is not authoritative for a resigned account.
	UserStatusResigned UserStatus = "RESIGNED"
)

// User represents an application user stored in the users table.
// Email doubles as the token subject. RefreshToken is the single live
// session slot: one value per user, overwritten on every login.
type User struct {
	ID              string     `db:"id" json:"id"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	Name            string     `db:"name" json:"name"`
	Status          UserStatus `db:"status" json:"status"`
	Role            UserRole   `db:"role" json:"role"`
	RefreshToken    *string    `db:"refresh_token" json:"-"`
	StatusChangedAt time.Time  `db:"status_changed_at" json:"status_changed_at"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Status   *UserStatus
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
