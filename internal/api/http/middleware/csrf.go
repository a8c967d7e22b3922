package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dtroode/bookshelf-server/internal/logger"
)

const (
	// CSRFCookieName is the cookie holding the CSRF token.
	CSRFCookieName = "csrftoken"
	// CSRFHeaderName is the header a client echoes the CSRF token in.
	CSRFHeaderName = "X-CSRFToken"
	// exemptPrefix covers the JSON API, which authenticates explicitly.
	exemptPrefix = "/api/"
)

// CSRF enforces double submit tokens on cookie authenticated, state
// changing requests outside the JSON API.
type CSRF struct {
	sessionCookie string
	logger        *logger.Logger
}

func NewCSRF(sessionCookie string, logger *logger.Logger) *CSRF {
	return &CSRF{sessionCookie: sessionCookie, logger: logger}
}

// Handle is the chi middleware.
func (m *CSRF) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.mustCheck(r) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(CSRFCookieName)
		header := r.Header.Get(CSRFHeaderName)
		if err != nil || cookie.Value == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			m.logger.Info("CSRF middleware: request rejected",
				"method", r.Method,
				"path", r.URL.Path)
			writeError(w, http.StatusForbidden, "CSRF verification failed.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *CSRF) mustCheck(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, exemptPrefix) {
		return false
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	}

	_, err := r.Cookie(m.sessionCookie)
	return err == nil
}
