package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/serroba/editops/internal/collab"
	"github.com/serroba/editops/internal/editop"
	"github.com/serroba/editops/internal/fragment"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Offset *int   `json:"offset,omitempty"` // byte offset of a parse failure
	Index  *int   `json:"index,omitempty"`  // failing operation of a script
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, fragment.ErrFragmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, fragment.ErrFragmentExists):
		return http.StatusConflict
	case errors.Is(err, collab.ErrTextTooLong):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, editop.ErrSyntax),
		errors.Is(err, editop.ErrInvalidOperation),
		errors.Is(err, editop.ErrOutOfRange),
		errors.Is(err, editop.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse describes err, exposing the parse offset and the failing
// operation index when err carries them.
func errorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}

	if statusFor(err) == http.StatusInternalServerError {
		resp.Error = "internal server error"

		return resp
	}

	var parseErr *editop.ParseError
	if errors.As(err, &parseErr) && parseErr.Offset >= 0 {
		resp.Offset = &parseErr.Offset
	}

	var scriptErr *editop.ScriptError
	if errors.As(err, &scriptErr) {
		resp.Index = &scriptErr.Index
	}

	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	s.writeJSON(w, status, errorResponse(err))
}

// decode reads a JSON request body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})

		return false
	}

	return true
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return false
	}

	return true
}
