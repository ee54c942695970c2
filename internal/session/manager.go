// Package session walks an ordered list of images, loading and saving the
// box record of each one.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"github.com/MeKo-Tech/boxlabel/internal/utils"
)

// DefaultBoxDirName is the box directory created next to the image list.
const DefaultBoxDirName = "box"

// Decoder decodes the image at path.
type Decoder func(path string) (image.Image, error)

// LoadImage is the default Decoder.
func LoadImage(path string) (image.Image, error) {
	img, _, err := utils.LoadImage(path)
	return img, err
}

// Frame is a successfully loaded image together with its boxes.
type Frame struct {
	Index   int
	Name    string
	Path    string
	BoxPath string
	Image   image.Image
	Size    image.Point
	Boxes   []box.Box
	Skipped int // malformed record lines
}

// Option configures a Manager.
type Option func(*Manager)

// WithBoxDir overrides the box directory.
func WithBoxDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.boxDir = dir
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDecoder replaces the image decoder.
func WithDecoder(d Decoder) Option {
	return func(m *Manager) {
		if d != nil {
			m.decode = d
		}
	}
}

// Manager tracks the current position in the image list. It is not safe for
// concurrent use.
type Manager struct {
	dir     string
	boxDir  string
	images  []string
	current int
	size    image.Point
	decode  Decoder
	logger  *slog.Logger
}

// NewManager reads the image list at listPath and creates the box directory.
// Image names are resolved against the directory of the list.
func NewManager(listPath string, opts ...Option) (*Manager, error) {
	images, err := ReadImageList(listPath)
	if err != nil {
		return nil, &StartupError{Op: "read image list", Err: err}
	}
	return New(filepath.Dir(listPath), images, opts...)
}

// New creates a manager for images relative to dir.
func New(dir string, images []string, opts ...Option) (*Manager, error) {
	m := &Manager{
		dir:     dir,
		boxDir:  filepath.Join(dir, DefaultBoxDirName),
		images:  images,
		current: -1,
		decode:  LoadImage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := os.MkdirAll(m.boxDir, 0o750); err != nil {
		return nil, &StartupError{Op: "create box directory", Err: err}
	}
	return m, nil
}

// ReadImageList reads whitespace-separated image names.
func ReadImageList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: list path is supplied by the operator
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseImageList(f)
}

// ParseImageList splits r into whitespace-separated image names.
func ParseImageList(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var names []string
	for sc.Scan() {
		names = append(names, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Len returns the number of images in the list.
func (m *Manager) Len() int { return len(m.images) }

// Images returns the image names in session order.
func (m *Manager) Images() []string { return append([]string(nil), m.images...) }

// Current returns the index of the loaded image, or -1 before the first load.
func (m *Manager) Current() int { return m.current }

// Loaded reports whether an image has been loaded.
func (m *Manager) Loaded() bool { return m.current >= 0 }

// BoxDir returns the box directory.
func (m *Manager) BoxDir() string { return m.boxDir }

// Name returns the image name at index.
func (m *Manager) Name(index int) (string, error) {
	if index < 0 || index >= len(m.images) {
		return "", fmt.Errorf("%w: index %d out of range [0,%d)", ErrNotFound, index, len(m.images))
	}
	return m.images[index], nil
}

// ImagePath resolves the image name at index against the list directory.
func (m *Manager) ImagePath(index int) (string, error) {
	name, err := m.Name(index)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Join(m.dir, name), nil
}

// BoxPath returns <boxDir>/<name>_<W>x<H>.box. The decoded size in the name
// keeps records of a replaced image from being applied to the new one.
func (m *Manager) BoxPath(name string, size image.Point) string {
	return m.recordPath(name, size, box.Extension)
}

// ExportPath is BoxPath with a .jpg extension.
func (m *Manager) ExportPath(name string, size image.Point) string {
	return m.recordPath(name, size, ".jpg")
}

func (m *Manager) recordPath(name string, size image.Point, ext string) string {
	if filepath.IsAbs(name) {
		name = filepath.Base(name)
	}
	return filepath.Join(m.boxDir, fmt.Sprintf("%s_%dx%d%s", filepath.Clean(name), size.X, size.Y, ext))
}

// CurrentBoxPath returns the record path of the loaded image.
func (m *Manager) CurrentBoxPath() (string, bool) {
	if !m.Loaded() {
		return "", false
	}
	return m.BoxPath(m.images[m.current], m.size), true
}

// CurrentExportPath returns the export path of the loaded image.
func (m *Manager) CurrentExportPath() (string, bool) {
	if !m.Loaded() {
		return "", false
	}
	return m.ExportPath(m.images[m.current], m.size), true
}

// Load decodes the image at index and reads its box record. A missing record
// yields no boxes; malformed lines are logged and skipped. On failure the
// current index does not change.
func (m *Manager) Load(index int) (*Frame, error) {
	path, err := m.ImagePath(index)
	if err != nil {
		return nil, err
	}
	name := m.images[index]

	img, err := m.decode(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, &DecodeError{Path: path, Err: err}
	}
	size := img.Bounds().Size()

	boxPath := m.BoxPath(name, size)
	boxes, bad, err := box.ReadFile(boxPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		boxes = nil
	case err != nil:
		return nil, &DecodeError{Path: boxPath, Err: err}
	}
	for _, re := range bad {
		m.logger.Warn("Skipping malformed box record", "path", boxPath, "line", re.Line, "error", re.Err)
	}

	m.current = index
	m.size = size
	m.logger.Debug("Loaded image", "index", index, "image", name, "width", size.X, "height", size.Y, "boxes", len(boxes))

	return &Frame{
		Index:   index,
		Name:    name,
		Path:    path,
		BoxPath: boxPath,
		Image:   img,
		Size:    size,
		Boxes:   boxes,
		Skipped: len(bad),
	}, nil
}

// Save writes the persistable boxes of c to the record of the loaded image
// and then drops the others from c. Before the first load it does nothing.
// On failure c is left unchanged.
func (m *Manager) Save(c *box.Collection) error {
	path, ok := m.CurrentBoxPath()
	if !ok {
		return nil
	}

	var keep []box.Box
	for _, b := range c.Boxes() {
		if b.Persistable() {
			b.Rect = b.Rect.Normalize()
			keep = append(keep, b)
		}
	}
	if err := box.WriteFile(path, keep); err != nil {
		return &PersistError{Path: path, Err: err}
	}

	dropped := c.Retain(box.Box.Persistable)
	m.logger.Debug("Saved boxes", "path", path, "boxes", len(keep), "dropped", dropped)
	return nil
}

// Advance saves the current image and then steps through the list in
// direction dir (+1 or -1), skipping images that fail to load. If the bound
// is reached it returns ErrNoMoreImages and stays on the current image.
func (m *Manager) Advance(dir int, c *box.Collection) (*Frame, error) {
	if err := m.Save(c); err != nil {
		return nil, err
	}
	return m.step(dir)
}

// Open loads the first loadable image of the list.
func (m *Manager) Open() (*Frame, error) {
	m.current = -1
	return m.step(1)
}

func (m *Manager) step(dir int) (*Frame, error) {
	switch {
	case dir > 0:
		dir = 1
	case dir < 0:
		dir = -1
	default:
		return nil, fmt.Errorf("invalid direction %d", dir)
	}

	for i := m.current + dir; i >= 0 && i < len(m.images); i += dir {
		f, err := m.Load(i)
		if err == nil {
			return f, nil
		}
		m.logger.Warn("Skipping image", "index", i, "image", m.images[i], "error", err)
	}
	return nil, ErrNoMoreImages
}
