package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MeKo-Tech/boxlabel/internal/version"
)

// healthHandler reports liveness, the size of the image list and whether an
// editor is attached.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := HealthResponse{
		Status:          "healthy",
		Version:         version.Version,
		Time:            time.Now().UTC().Format(time.RFC3339),
		EditorConnected: s.EditorActive(),
	}
	if s.app != nil {
		resp.Images = s.app.Session().Len()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, ErrorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("Failed to encode response", "status", status, "error", err)
	}
}
