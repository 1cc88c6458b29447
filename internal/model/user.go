package model

import (
	"github.com/google/uuid"
)

// User roles. Stored on every user but not enforced by any route.
const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "usuario"
)

// User represents an operator of the registry
type User struct {
	Base
	Name         string  `json:"nome" db:"nome"`
	Email        string  `json:"email" db:"email"`
	PasswordHash *string `json:"-" db:"senha_hash"`
	ExternalID   *string `json:"-" db:"external_id"`
	Role         string  `json:"tipo" db:"tipo"`
}

// HasPassword reports whether credential login is possible for this user.
// Users created through Gov.BR have no password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Summary returns the public projection used in login responses
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the user as returned by credential login
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"nome"`
	Email string    `json:"email"`
}

// CreateUserRequest is the public signup payload
type CreateUserRequest struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required,min=6"`
	Role     string `json:"tipo" binding:"omitempty,oneof=admin usuario"`
}

// UpdateUserRequest replaces name and email; the password is rehashed only when given
type UpdateUserRequest struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"omitempty,min=6"`
	Role     string `json:"tipo" binding:"omitempty,oneof=admin usuario"`
}
