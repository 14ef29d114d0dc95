package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/linusc17/fitness-planner/internal/auth"
	"github.com/linusc17/fitness-planner/internal/generator"
	"github.com/linusc17/fitness-planner/internal/planner"
	"github.com/linusc17/fitness-planner/internal/storage"
	"github.com/linusc17/fitness-planner/internal/validation"
	"go.uber.org/zap"
)

const (
	persistedHeader = "X-Plan-Persisted"
	maxBodyBytes    = 1 << 20
)

type errorBody struct {
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto status codes. Only validation
// errors expose detail to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.ValidationError
	var gerr *generator.GenerationError
	switch {
	case errors.Is(err, planner.ErrUnauthenticated), errors.Is(err, auth.ErrNoSession):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
	// Invalid model output wraps a ValidationError; it is still a generation failure.
	case errors.As(err, &gerr):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to generate plan. Please try again."})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid input", Details: verr.Fields})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	case errors.Is(err, storage.ErrExists):
		writeJSON(w, http.StatusConflict, errorBody{Error: "Profile already exists"})
	default:
		s.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Something went wrong. Please try again."})
	}
}

// readBody returns the request body, capped at maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &validation.ValidationError{
			Fields: []validation.FieldError{{Constraint: "request body unreadable or too large"}},
		}
	}
	return body, nil
}

// user resolves the caller. A missing or expired session yields an empty id
// and no error.
func (s *Server) user(r *http.Request) (string, error) {
	userID, err := auth.CurrentUser(r, s.auth)
	if errors.Is(err, auth.ErrNoSession) {
		return "", nil
	}
	return userID, err
}

// requireUser writes 401 for a missing session. Handlers call it before
// touching the request body.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := s.user(r)
	if err == nil && userID == "" {
		err = planner.ErrUnauthenticated
	}
	if err != nil {
		s.writeError(w, r, err)
		return "", false
	}
	return userID, true
}

func setPersisted(w http.ResponseWriter, persisted bool) {
	if !persisted {
		w.Header().Set(persistedHeader, "false")
	}
}
