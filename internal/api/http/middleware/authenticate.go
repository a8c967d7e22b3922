package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

// SessionService resolves user ID from session tokens.
type SessionService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate resolves the session of a request and puts the user ID into
// its context. Requests without a valid session pass through anonymously.
type Authenticate struct {
	sessionService SessionService
	contextManager model.ContextManager
	cookieName     string
	logger         *logger.Logger
}

func NewAuthenticate(
	sessionService SessionService,
	contextManager model.ContextManager,
	cookieName string,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		sessionService: sessionService,
		contextManager: contextManager,
		cookieName:     cookieName,
		logger:         logger,
	}
}

// Handle is the chi middleware.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r, m.cookieName)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.sessionService.GetUserID(r.Context(), token)
		if err != nil || userID == uuid.Nil {
			m.logger.Debug("Authenticate middleware: session rejected",
				"path", r.URL.Path,
				"error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := m.contextManager.SetUserIDToContext(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionToken returns the bearer token of r, falling back to the session cookie.
func SessionToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireUser rejects requests that Authenticate left anonymous.
func RequireUser(contextManager model.ContextManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := contextManager.GetUserIDFromContext(r.Context()); !ok {
				apiErr := apperrors.NewErrMissingCredentials()
				writeError(w, apiErr.HTTPCode, apiErr.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
