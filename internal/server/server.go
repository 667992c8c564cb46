// Package server provides the HTTP server for lanetap.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/lanetap/internal/app"
	"github.com/ayusman/lanetap/internal/server/api"
	"github.com/ayusman/lanetap/internal/store"
)

// App is the part of the session controller exposed over HTTP.
type App interface {
	api.Controller
	LatestFrame() (*gocv.Mat, error)
	OnFrame(fn func(app.FrameEvent))
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       App
}

// Server represents the HTTP server for the lanetap application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register session history if Store is configured
	if s.config.Store != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)
	}

	// Register detection control, preview stream and touch feed if App is configured
	if s.config.App != nil {
		s.mux.Handle("/api/detection", api.NewDetectionHandler(s.config.App))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App))
		s.mux.Handle("/api/touches", NewTouchesHandler(s.config.App))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.App != nil {
		response["detecting"] = s.config.App.Status().Detecting
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
