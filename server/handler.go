package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/itervo/librecur/internal/api"
	"github.com/itervo/librecur/storage"
)

// HTTPError pairs an HTTP status code with the error that caused it.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Common HTTP errors
var (
	ErrNotFound   = &HTTPError{Status: http.StatusNotFound, Message: "resource not found"}
	ErrBadRequest = &HTTPError{Status: http.StatusBadRequest, Message: "bad request"}
)

// badRequest wraps err as a 400 with a caller-facing message.
func badRequest(message string, err error) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Err: err}
}

// mapStorageError converts storage errors into HTTPErrors. The storage
// message travels into the response body so clients see what was
// rejected; wrapped causes (like a recurrence validation failure) are
// appended to it.
func mapStorageError(err error) error {
	var storageErr *storage.Error
	if !errors.As(err, &storageErr) {
		return err
	}

	msg := storageErr.Message
	if storageErr.Err != nil {
		msg = fmt.Sprintf("%s: %v", storageErr.Message, storageErr.Err)
	}

	switch storageErr.Type {
	case storage.ErrNotFound:
		return &HTTPError{Status: http.StatusNotFound, Message: msg, Err: err}
	case storage.ErrAlreadyExists:
		return &HTTPError{Status: http.StatusConflict, Message: msg, Err: err}
	case storage.ErrInvalidInput:
		return &HTTPError{Status: http.StatusUnprocessableEntity, Message: msg, Err: err}
	}
	return err
}

// sendJSON writes v as the JSON response body.
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", mimeTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response body", "error", err)
	}
}

// sendError maps err onto an HTTP status and a JSON error body. Errors
// without an HTTPError in their chain become 500s with a generic message.
func (s *Server) sendError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = &HTTPError{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
	}

	if httpErr.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	} else {
		s.logger.Debug("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", httpErr.Status,
			"error", err)
	}

	s.sendJSON(w, httpErr.Status, api.Error{Message: httpErr.Message})
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body", err)
	}
	return nil
}

// pathEventID parses the {eventID} path value.
func pathEventID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("eventID"))
	if err != nil {
		return uuid.Nil, badRequest("invalid event id", err)
	}
	return id, nil
}

// queryTimeRange parses the optional from/to query parameters as RFC 3339.
// Absent parameters come back as zero times.
func queryTimeRange(r *http.Request) (from, to time.Time, err error) {
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("invalid from parameter", err)
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, badRequest("invalid to parameter", err)
		}
	}
	return from, to, nil
}

// queryLimit parses the optional limit query parameter. Zero means the
// caller did not ask for a cap.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, badRequest("invalid limit parameter", err)
	}
	return limit, nil
}
