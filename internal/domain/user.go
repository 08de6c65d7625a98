package domain

import (
	"fmt"
	"time"
)

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// ParseRole validates a role value coming from storage or input.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleUser, RoleAgent, RoleAdmin:
		return Role(value), nil
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// User is an account able to authenticate against the service.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
}

// RoleCounts aggregates accounts per role for the admin summary.
type RoleCounts struct {
	Users  int64
	Agents int64
	Admins int64
	Total  int64
}
