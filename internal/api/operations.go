package api

import (
	"net/http"

	"github.com/serroba/editops/internal/editop"
	"github.com/serroba/editops/internal/preview"
)

// ParseRequest is the request body for parsing one operation.
type ParseRequest struct {
	Text string `json:"text"`
}

// ExecuteRequest is the request body for running a script against a text.
type ExecuteRequest struct {
	Input      string   `json:"input"`
	Operations []string `json:"operations"`
}

// ExecuteResponse is the response body for running a script.
type ExecuteResponse struct {
	Output     string              `json:"output"`
	Operations []editop.Descriptor `json:"operations"`
}

// DiffRequest is the request body for diffing two texts.
// Unset options fall back to the server defaults.
type DiffRequest struct {
	Source           string `json:"source"`
	Target           string `json:"target"`
	IncludeInputText *bool  `json:"includeInputText,omitempty"`
	Adjust           *bool  `json:"adjust,omitempty"`
	InsertOnly       *bool  `json:"insertOnly,omitempty"`
}

// DiffResponse is the response body for a diff.
type DiffResponse struct {
	Operations []editop.Descriptor `json:"operations"`
	Preview    []preview.Span      `json:"preview"`
}

// handleParse handles POST /operations/parse.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req ParseRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.service.CheckLength(req.Text); err != nil {
		s.writeError(w, err)

		return
	}

	op, err := editop.Parse(req.Text)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, editop.Describe(op))
}

// handleExecute handles POST /operations/execute.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req ExecuteRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.service.CheckLength(append([]string{req.Input}, req.Operations...)...); err != nil {
		s.writeError(w, err)

		return
	}

	ops, err := editop.ParseAll(req.Operations)
	if err != nil {
		s.writeError(w, err)

		return
	}

	output, err := editop.ApplyAll(req.Input, ops)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, ExecuteResponse{
		Output:     output,
		Operations: editop.DescribeAll(ops),
	})
}

// handleDiff handles POST /diff.
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req DiffRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.service.CheckLength(req.Source, req.Target); err != nil {
		s.writeError(w, err)

		return
	}

	settings := s.service.DiffDefaults().Override(req.IncludeInputText, req.Adjust, req.InsertOnly)
	ops := editop.Diff(req.Source, req.Target, settings.Options()...)

	s.writeJSON(w, http.StatusOK, DiffResponse{
		Operations: editop.DescribeAll(ops),
		Preview:    preview.Compute(req.Source, req.Target),
	})
}
