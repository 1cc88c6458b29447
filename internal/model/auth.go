package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LoginRequest is the credential login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

// LoginResponse never carries the password hash
type LoginResponse struct {
	User  UserSummary `json:"usuario"`
	Token string      `json:"token"`
}

// GovBRLoginRequest carries the one-time authorization code from the Gov.BR redirect
type GovBRLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type GovBRLoginResponse struct {
	Token string        `json:"token"`
	User  GovBRUserInfo `json:"user"`
}

type GovBRUserInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"nome"`
	Email string    `json:"email"`
	Role  string    `json:"tipo"`
}

// ExternalProfile is the identity returned by the SSO provider
type ExternalProfile struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"id"`
	Name   string    `json:"nome,omitempty"`
	Email  string    `json:"email"`
	Role   string    `json:"tipo,omitempty"`
}
