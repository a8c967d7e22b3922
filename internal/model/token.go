package model

import (
	"errors"

	"github.com/google/uuid"
)

// TokenManager signs and parses session tokens.
type TokenManager interface {
	GenerateSessionToken(userID uuid.UUID) (token string, jti string, err error)
	ParseSessionToken(token string) (userID uuid.UUID, jti string, err error)
}

var (
	ErrSessionRevoked  = errors.New("session revoked")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionMismatch = errors.New("session token mismatch")
)
