// Package apperrors defines the errors returned to API clients.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an APIError.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindConfig     Kind = "config"
	KindUpstream   Kind = "upstream"
)

// APIError is an error whose message is safe to show to the client.
type APIError struct {
	Kind     Kind
	HTTPCode int
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is reports whether target is an APIError of the same kind.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewErrValidation is returned for malformed or missing input.
func NewErrValidation(message string) *APIError {
	return &APIError{Kind: KindValidation, HTTPCode: http.StatusBadRequest, Message: message}
}

// NewErrInvalidJSON is returned when a request body is not valid JSON.
func NewErrInvalidJSON() *APIError {
	return NewErrValidation("Invalid JSON")
}

// NewErrInvalidCredentials is returned when login credentials do not match.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Kind: KindAuth, HTTPCode: http.StatusUnauthorized, Message: "Invalid credentials"}
}

// NewErrNotAuthenticated is returned when a request carries no valid session.
func NewErrNotAuthenticated() *APIError {
	return &APIError{Kind: KindAuth, HTTPCode: http.StatusUnauthorized, Message: "Not authenticated"}
}

// NewErrMissingCredentials is returned by protected endpoints for anonymous requests.
func NewErrMissingCredentials() *APIError {
	return &APIError{Kind: KindAuth, HTTPCode: http.StatusUnauthorized, Message: "Authentication credentials were not provided."}
}

// NewErrUsernameIsTaken is returned on registration with an existing username.
// Registration conflicts answer 400, not 409.
func NewErrUsernameIsTaken() *APIError {
	return &APIError{Kind: KindConflict, HTTPCode: http.StatusBadRequest, Message: "Username already exists"}
}

// NewErrNotFound hides whether a resource is missing or owned by someone else.
func NewErrNotFound() *APIError {
	return &APIError{Kind: KindNotFound, HTTPCode: http.StatusNotFound, Message: "Not found."}
}

// NewErrSampleImageNotFound is returned when the bookshelf sample photo is missing.
func NewErrSampleImageNotFound(path string) *APIError {
	return &APIError{Kind: KindNotFound, HTTPCode: http.StatusNotFound, Message: "Sample image not found at " + path}
}

// NewErrMissingAPIKey is returned when the AI provider has no credential.
func NewErrMissingAPIKey(provider string) *APIError {
	return &APIError{Kind: KindConfig, HTTPCode: http.StatusInternalServerError, Message: provider + " API key not configured"}
}

// NewErrUpstream wraps a failure of the AI service or export I/O.
func NewErrUpstream(err error) *APIError {
	return &APIError{Kind: KindUpstream, HTTPCode: http.StatusInternalServerError, Message: err.Error()}
}

// As returns the APIError in err's chain, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
