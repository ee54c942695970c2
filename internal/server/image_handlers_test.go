package server

import (
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/boxlabel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveImage(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_ImageHandler(t *testing.T) {
	w := testutil.NewWorkspace(t,
		testutil.ImageSpec{Name: "a.png", Width: 100, Height: 50},
		testutil.ImageSpec{Name: "x.broken.png"},
		testutil.ImageSpec{Name: "missing.png"},
	)
	require.NoError(t, os.WriteFile(filepath.Join(w.Dir, "notes.txt"), []byte("hello"), 0o600))
	list := w.WriteList(t, "all.txt", "a.png", "x.broken.png", "missing.png", "notes.txt")
	server := newTestServer(t, list, FrameModeOps)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"first image", http.MethodGet, "/image/0", http.StatusOK},
		{"head request", http.MethodHead, "/image/0", http.StatusOK},
		{"post not allowed", http.MethodPost, "/image/0", http.StatusMethodNotAllowed},
		{"not a number", http.MethodGet, "/image/abc", http.StatusBadRequest},
		{"negative index", http.MethodGet, "/image/-1", http.StatusBadRequest},
		{"out of range", http.MethodGet, "/image/9", http.StatusNotFound},
		{"undecodable image", http.MethodGet, "/image/1", http.StatusNotFound},
		{"missing file", http.MethodGet, "/image/2", http.StatusNotFound},
		{"unsupported extension", http.MethodGet, "/image/3", http.StatusUnsupportedMediaType},
		{"current before open", http.MethodGet, "/image/current", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveImage(t, server, tt.method, tt.path)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestServer_ImageHandlerServesDecodableFile(t *testing.T) {
	server := newTestServer(t, twoImages(t).ListPath, FrameModeOps)

	rec := serveImage(t, server, http.MethodGet, "/image/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestServer_ImageHandlerCurrent(t *testing.T) {
	server := newTestServer(t, twoImages(t).ListPath, FrameModeOps)
	require.NoError(t, server.app.Open())

	rec := serveImage(t, server, http.MethodGet, "/image/current")
	require.Equal(t, http.StatusOK, rec.Code)

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestResolveImageIndex(t *testing.T) {
	server := newTestServer(t, twoImages(t).ListPath, FrameModeOps)

	_, ok := server.resolveImageIndex("current")
	assert.False(t, ok)

	i, ok := server.resolveImageIndex("1")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = server.resolveImageIndex("1.5")
	assert.False(t, ok)
}
