package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ImageSpec describes one synthetic image of a workspace.
type ImageSpec struct {
	Name   string
	Width  int
	Height int
}

// Workspace is a temporary annotation directory: an image list, the images
// it names and the box directory next to it.
type Workspace struct {
	Dir      string
	ListPath string
	Images   []ImageSpec
}

// NewWorkspace writes the images and a list.txt naming them in order.
// Images with a zero size are listed but not written, and names ending in
// ".broken.png" are written with undecodable content.
func NewWorkspace(t *testing.T, images ...ImageSpec) *Workspace {
	t.Helper()

	w := &Workspace{Dir: CreateTempDir(t), Images: images}
	names := make([]string, 0, len(images))
	for _, spec := range images {
		names = append(names, spec.Name)
		path := filepath.Join(w.Dir, spec.Name)
		switch {
		case strings.HasSuffix(spec.Name, ".broken.png"):
			require.NoError(t, EnsureDir(filepath.Dir(path)))
			require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))
		case spec.Width > 0 && spec.Height > 0:
			SaveImage(t, CreateTestImageWithText(spec.Name, spec.Width, spec.Height), path)
		}
	}
	w.ListPath = w.WriteList(t, "list.txt", names...)
	return w
}

// WriteList writes an image list file with one name per line.
func (w *Workspace) WriteList(t *testing.T, name string, images ...string) string {
	t.Helper()

	path := filepath.Join(w.Dir, name)
	content := strings.Join(images, "\n")
	if content != "" {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// BoxDir returns the default box directory of the workspace.
func (w *Workspace) BoxDir() string { return filepath.Join(w.Dir, "box") }

// RecordPath returns the box record path of an image of the given size.
func (w *Workspace) RecordPath(name string, width, height int) string {
	return filepath.Join(w.BoxDir(), fmt.Sprintf("%s_%dx%d.box", name, width, height))
}

// WriteRecord writes raw record content for an image.
func (w *Workspace) WriteRecord(t *testing.T, name string, width, height int, content string) {
	t.Helper()

	path := w.RecordPath(name, width, height)
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// ReadRecord returns the raw record content for an image.
func (w *Workspace) ReadRecord(t *testing.T, name string, width, height int) string {
	t.Helper()

	data, err := os.ReadFile(w.RecordPath(name, width, height))
	require.NoError(t, err)
	return string(data)
}
