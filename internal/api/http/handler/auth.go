package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/bookshelf-server/internal/api/http/middleware"
	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

// AuthService defines registration and session operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, username, password string) (model.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Auth handles the /api/auth endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	cookie         CookieConfig
	logger         *logger.Logger
}

func NewAuth(
	authService AuthService,
	contextManager model.ContextManager,
	cookie CookieConfig,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		cookie:         cookie,
		logger:         logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type loginResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type currentUserResponse struct {
	User userResponse `json:"user"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Login checks credentials, sets the session cookie and returns the token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Debug("Auth handler: processing login request",
		"username", req.Username)

	user, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.setSessionCookies(w, token)

	writeJSON(w, h.logger, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    toUserResponse(user),
		Token:   token,
	})
}

// Logout revokes the presented session, if any, and clears the cookies.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.SessionToken(r, h.cookie.Name)); err != nil {
		h.logger.Error("Auth handler: logout failed",
			"error", err.Error())
	}

	h.clearSessionCookies(w)

	writeJSON(w, h.logger, http.StatusOK, messageResponse{Message: "Logout successful"})
}

// Register creates a user without logging it in.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, h.logger, err)
		return
	}

	user, err := h.authService.Register(r.Context(), model.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, registerResponse{
		Message: "Registration successful",
		User:    toUserResponse(user),
	})
}

// User returns the authenticated user.
func (h *Auth) User(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		handleError(w, h.logger, apperrors.NewErrNotAuthenticated())
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, currentUserResponse{User: toUserResponse(user)})
}

func (h *Auth) setSessionCookies(w http.ResponseWriter, token string) {
	maxAge := int(model.SessionDuration / time.Second)

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CSRFCookieName,
		Value:    uuid.NewString(),
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Auth) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{h.cookie.Name, middleware.CSRFCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == h.cookie.Name,
			Secure:   h.cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
