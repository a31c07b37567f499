package models

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is an account row. PasswordHash never leaves the server; the json tag
// keeps it out of every response body.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
