package export

import (
	"log/slog"

	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/MeKo-Tech/boxlabel/internal/session"
)

// AnnotateOptions configures ExportAll.
type AnnotateOptions struct {
	Palette     render.Palette
	JPEGQuality int
	// IncludeEmpty also writes images whose record holds no boxes.
	IncludeEmpty bool
	Logger       *slog.Logger
}

// ExportAll writes an annotated JPEG next to the record of every loadable
// image and returns the written paths. Images that fail to load are logged
// and skipped; the first write error stops the export.
func ExportAll(m *session.Manager, opts AnnotateOptions) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var written []string
	for i := range m.Len() {
		f, err := m.Load(i)
		if err != nil {
			logger.Warn("Skipping image", "index", i, "error", err)
			continue
		}
		if len(f.Boxes) == 0 && !opts.IncludeEmpty {
			continue
		}

		path := m.ExportPath(f.Name, f.Size)
		if err := render.SaveAnnotated(path, f.Image, f.Boxes, opts.Palette, opts.JPEGQuality); err != nil {
			return written, err
		}
		logger.Info("Annotated image exported", "image", f.Name, "path", path, "boxes", len(f.Boxes))
		written = append(written, path)
	}
	return written, nil
}
