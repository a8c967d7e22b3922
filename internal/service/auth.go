package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

// Auth registers users and manages their login sessions.
type Auth struct {
	userStore      model.UserStore
	sessionService *SessionService
	logger         *logger.Logger
	hashCost       int
}

func NewAuth(
	userStore model.UserStore,
	sessionService *SessionService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:      userStore,
		sessionService: sessionService,
		logger:         logger,
		hashCost:       bcrypt.DefaultCost,
	}
}

// Register creates a user. It does not log the new user in.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	username := strings.TrimSpace(params.Username)
	a.logger.Debug("Auth service: starting user registration",
		"username", username)

	if username == "" || params.Password == "" {
		return model.User{}, apperrors.NewErrValidation("Username and password are required")
	}

	_, err := a.userStore.GetByUsername(ctx, username)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"username", username)
		return model.User{}, apperrors.NewErrUsernameIsTaken()
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), a.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        strings.TrimSpace(params.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrConflict) {
		return model.User{}, apperrors.NewErrUsernameIsTaken()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"username", username,
		"user_id", user.ID)

	return user, nil
}

// Login verifies credentials and opens a session.
func (a *Auth) Login(ctx context.Context, username, password string) (model.User, string, error) {
	username = strings.TrimSpace(username)
	a.logger.Debug("Auth service: starting user login",
		"username", username)

	if username == "" || password == "" {
		return model.User{}, "", apperrors.NewErrValidation("Username and password are required")
	}

	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		// Unknown usernames take as long as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return model.User{}, "", apperrors.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"username", username)
		return model.User{}, "", apperrors.NewErrInvalidCredentials()
	}

	token, err := a.sessionService.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue session: %w", err)
	}

	a.logger.Info("Auth service: login completed successfully",
		"user_id", user.ID)

	return user, token, nil
}

// Logout revokes the session behind token. It succeeds without a session.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.sessionService.Revoke(ctx, token); err != nil {
		a.logger.Error("Auth service: failed to revoke session",
			"error", err.Error())
		return err
	}
	return nil
}

// CurrentUser returns the user the authenticated request belongs to.
func (a *Auth) CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apperrors.NewErrNotAuthenticated()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// dummyHash is compared against when the username is unknown.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bookshelf-dummy-password"), bcrypt.DefaultCost)
