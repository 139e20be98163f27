package domain

import (
	"strings"
	"time"
)

// Role is the authorization role the remote service assigns to a user.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsAdmin reports whether r grants admin operations.
func (r Role) IsAdmin() bool {
	return strings.EqualFold(string(r), string(RoleAdmin))
}

// User is the immutable profile snapshot received at login, registration or restore.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the snapshot carries the fields a session needs.
func (u User) Valid() bool {
	return strings.TrimSpace(u.ID) != "" && strings.TrimSpace(u.Email) != ""
}
