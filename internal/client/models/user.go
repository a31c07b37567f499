// Package models defines client-side data types for Quizdeck.
package models

import "time"

// Role is the server-assigned authorization role of a user.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is the client's cached copy of the backend user record. A User is
// trusted only after a successful verification round-trip; a value read from
// local storage is provisional and must not gate access to protected actions.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
