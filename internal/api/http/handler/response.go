package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/bookshelf-server/internal/apperrors"
	"github.com/dtroode/bookshelf-server/internal/logger"
)

func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err.Error())
	}
}

// handleError writes err as {"error": ...}. Errors that are not APIError
// are logged and hidden behind a generic 500.
func handleError(w http.ResponseWriter, logger *logger.Logger, err error) {
	if apiErr, ok := apperrors.As(err); ok {
		writeJSON(w, logger, apiErr.HTTPCode, errorResponse{Error: apiErr.Message})
		return
	}

	logger.Error("unhandled error", "error", err.Error())
	writeJSON(w, logger, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// decodeJSON reads the request body into dst. An empty body decodes to the
// zero value when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return apperrors.NewErrInvalidJSON()
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
