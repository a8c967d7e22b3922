package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionDuration is how long an issued session stays valid.
const SessionDuration = 14 * 24 * time.Hour

// SessionStore persists issued login sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByJTI(ctx context.Context, jti string) (Session, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// Session is the server-side state of an issued session token.
type Session struct {
	ID        uuid.UUID
	JTI       string
	UserID    uuid.UUID
	TokenHash []byte
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
