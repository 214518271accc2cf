package models

import (
	"strings"
	"time"
)

// Role is the permission level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// NormalizeRole maps any stored value outside the known set to RoleUser.
func NormalizeRole(s string) Role {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // don’t expose hash
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeUsername trims and lowercases a username for lookup and storage.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
