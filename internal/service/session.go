package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

// SessionService issues, validates and revokes session tokens.
// It composes the TokenManager and SessionStore.
type SessionService struct {
	manager model.TokenManager
	store   model.SessionStore
	logger  *logger.Logger
	now     func() time.Time
}

func NewSessionService(manager model.TokenManager, store model.SessionStore, logger *logger.Logger) *SessionService {
	return &SessionService{manager: manager, store: store, logger: logger, now: time.Now}
}

// Issue creates a session for userID and returns its token.
func (s *SessionService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, jti, err := s.manager.GenerateSessionToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}

	now := s.now()
	session := model.Session{
		ID:        uuid.New(),
		JTI:       jti,
		UserID:    userID,
		TokenHash: hashToken(token),
		IssuedAt:  now,
		ExpiresAt: now.Add(model.SessionDuration),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, session); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	return token, nil
}

// GetUserID validates token against its stored session and returns the owner.
func (s *SessionService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	userID, jti, err := s.manager.ParseSessionToken(token)
	if err != nil {
		return uuid.Nil, err
	}

	session, err := s.store.GetByJTI(ctx, jti)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get session: %w", err)
	}

	if err := validateSession(session, hashToken(token), s.now()); err != nil {
		return uuid.Nil, err
	}

	if session.UserID != userID {
		return uuid.Nil, model.ErrSessionMismatch
	}

	return userID, nil
}

// Revoke ends the session behind token. Unknown or malformed tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	_, jti, err := s.manager.ParseSessionToken(token)
	if err != nil {
		s.logger.Debug("Session service: ignoring unparsable token on revoke", "error", err.Error())
		return nil
	}

	if err := s.store.RevokeByJTI(ctx, jti); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeAllForUser ends every session of userID.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateSession(session model.Session, presentedHash []byte, now time.Time) error {
	if session.RevokedAt != nil {
		return model.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return model.ErrSessionExpired
	}
	if subtle.ConstantTimeCompare(session.TokenHash, presentedHash) != 1 {
		return model.ErrSessionMismatch
	}
	return nil
}
