package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/MeKo-Tech/boxlabel/internal/app"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Frame modes.
const (
	FrameModeOps = "ops"
	FrameModePNG = "png"
)

// Server exposes one annotation session over HTTP. A single WebSocket
// connection at a time drives the editor.
type Server struct {
	app        *app.App
	palette    render.Palette
	frameMode  string
	corsOrigin string
	logger     *slog.Logger

	editorActive atomic.Bool

	mu           sync.Mutex
	closed       bool
	cancelEditor context.CancelFunc
	editorDone   chan struct{}
}

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	CORSOrigin string
	FrameMode  string
	Palette    render.Palette
	Logger     *slog.Logger
}

// Response types for API endpoints.
type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version,omitempty"`
	Time            string `json:"time"`
	EditorConnected bool   `json:"editor_connected"`
	Images          int    `json:"images"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewServer creates a server for a. The App must not be used elsewhere while
// the server runs.
func NewServer(a *app.App, config Config) *Server {
	s := &Server{
		app:        a,
		palette:    config.Palette,
		frameMode:  config.FrameMode,
		corsOrigin: config.CORSOrigin,
		logger:     config.Logger,
	}
	if s.frameMode == "" {
		s.frameMode = FrameModeOps
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// EditorActive reports whether an editor connection is open.
func (s *Server) EditorActive() bool { return s.editorActive.Load() }

// attachEditor registers the cancel func of a new editor session. It fails
// once Close has been called.
func (s *Server) attachEditor(cancel context.CancelFunc) (chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	s.cancelEditor = cancel
	s.editorDone = make(chan struct{})
	return s.editorDone, true
}

func (s *Server) detachEditor(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelEditor = nil
	s.editorDone = nil
	close(done)
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close ends the attached editor session, if any, and waits until it has
// saved and disconnected. Later editor connections are refused. Hijacked
// WebSocket connections are not tracked by http.Server.Shutdown, so Close
// must be called after it.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	cancel, done := s.cancelEditor, s.editorDone
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	s.logger.Info("Closing editor session")
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/image/{index}", s.corsMiddleware(s.imageHandler))
	mux.HandleFunc("/ws", s.corsMiddleware(s.editorWebSocketHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
