package api

import (
	"net/http"
	"strings"
)

// CreateFragmentRequest is the request body for creating a fragment.
type CreateFragmentRequest struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// CreateFragmentResponse is the response body for creating a fragment.
type CreateFragmentResponse struct {
	ID string `json:"id"`
}

// GetFragmentResponse is the response body for getting a fragment.
type GetFragmentResponse struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Applied int    `json:"applied"`
}

// handleCreateFragment handles POST /fragments.
func (s *Server) handleCreateFragment(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req CreateFragmentRequest
	if !s.decode(w, r, &req) {
		return
	}

	f, err := s.service.Create(req.ID, req.Text)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, CreateFragmentResponse{ID: f.ID})
}

// handleGetFragment handles GET /fragments/{id}.
func (s *Server) handleGetFragment(w http.ResponseWriter, r *http.Request) {
	id := extractFragmentID(r.URL.Path)
	if id == "" {
		http.Error(w, "fragment ID is required", http.StatusBadRequest)

		return
	}

	res, err := s.service.Sync(id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, GetFragmentResponse{
		ID:      id,
		Text:    res.Text,
		Applied: res.Applied,
	})
}

// handleDeleteFragment handles DELETE /fragments/{id}.
func (s *Server) handleDeleteFragment(w http.ResponseWriter, r *http.Request) {
	id := extractFragmentID(r.URL.Path)
	if id == "" {
		http.Error(w, "fragment ID is required", http.StatusBadRequest)

		return
	}

	if err := s.service.Delete(id); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// extractFragmentID extracts the fragment ID from a /fragments/{id} path.
func extractFragmentID(path string) string {
	id, ok := strings.CutPrefix(path, "/fragments/")
	if !ok || strings.Contains(id, "/") {
		return ""
	}

	return id
}
