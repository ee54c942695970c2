package server

import (
	"net/http"
	"strconv"

	"github.com/MeKo-Tech/boxlabel/internal/utils"
)

// imageHandler serves the raw file of a listed image. The index is a list
// position or "current" for the image being edited.
func (s *Server) imageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	index, ok := s.resolveImageIndex(r.PathValue("index"))
	if !ok {
		imageRequestsTotal.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, "Invalid image index", http.StatusBadRequest)
		return
	}

	path, err := s.app.Session().ImagePath(index)
	if err != nil {
		imageRequestsTotal.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, "Image not found", http.StatusNotFound)
		return
	}
	if !utils.IsSupportedImage(path) {
		imageRequestsTotal.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, "Unsupported image format", http.StatusUnsupportedMediaType)
		return
	}
	if _, err := utils.ImageSize(path); err != nil {
		imageRequestsTotal.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, "Image not readable", http.StatusNotFound)
		return
	}

	imageRequestsTotal.WithLabelValues("success").Inc()
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, path)
}

func (s *Server) resolveImageIndex(raw string) (int, bool) {
	if raw == "current" {
		i := s.app.CurrentIndex()
		return i, i >= 0
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
