// Package api serves edit operations, diffs and live fragments over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/serroba/editops/internal/collab"
	"github.com/serroba/editops/internal/ws"
)

// Server handles HTTP requests for the edit API.
type Server struct {
	service  *collab.Service
	hub      *ws.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// ServerConfig holds configuration for creating a server.
type ServerConfig struct {
	Service *collab.Service
	Hub     *ws.Hub
	Logger  *slog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		service: cfg.Service,
		hub:     cfg.Hub,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true // any origin
			},
		},
	}
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Stateless endpoints
	mux.HandleFunc("/operations/parse", s.handleParse)
	mux.HandleFunc("/operations/execute", s.handleExecute)
	mux.HandleFunc("/diff", s.handleDiff)

	// Fragment endpoints
	mux.HandleFunc("/fragments", s.handleCreateFragment)
	mux.HandleFunc("/fragments/", s.handleFragmentByID)

	// WebSocket endpoint
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.requestIDMiddleware(s.loggingMiddleware(mux))
}

// handleFragmentByID routes GET and DELETE requests for /fragments/{id}.
func (s *Server) handleFragmentByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetFragment(w, r)
	case http.MethodDelete:
		s.handleDeleteFragment(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
