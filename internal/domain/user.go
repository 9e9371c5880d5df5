package domain

import "time"

// Role represents the role of a platform user.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleDriver Role = "DRIVER"
	RoleAdmin  Role = "ADMIN"
)

// User represents a platform account (client, driver or admin).
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	AvatarURL    string
	CreatedAt    time.Time
}
