package render

import (
	"image"
	"strings"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Presenter receives each finished frame. The frame is reused by the next
// Clear, so presenters that keep it must copy it.
type Presenter func(frame *image.RGBA) error

// Raster is an editor.Renderer drawing into an in-memory RGBA frame.
type Raster struct {
	palette   Palette
	face      font.Face
	thickness int
	present   Presenter
	frame     *image.RGBA
	frames    int
}

var _ editor.Renderer = (*Raster)(nil)
var _ editor.TextMeasurer = (*Raster)(nil)

// RasterOption configures a Raster.
type RasterOption func(*Raster)

// WithPresenter sets the function called by Present.
func WithPresenter(p Presenter) RasterOption {
	return func(r *Raster) { r.present = p }
}

// WithFace overrides the font face.
func WithFace(f font.Face) RasterOption {
	return func(r *Raster) {
		if f != nil {
			r.face = f
		}
	}
}

// WithThickness sets the outline thickness in pixels.
func WithThickness(px int) RasterOption {
	return func(r *Raster) {
		if px > 0 {
			r.thickness = px
		}
	}
}

// NewRaster creates a raster renderer.
func NewRaster(p Palette, opts ...RasterOption) *Raster {
	r := &Raster{
		palette:   p,
		face:      basicfont.Face7x13,
		thickness: 1,
		frame:     image.NewRGBA(image.Rectangle{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Frame returns the frame being drawn or last presented.
func (r *Raster) Frame() *image.RGBA { return r.frame }

// Presented returns the number of presented frames.
func (r *Raster) Presented() int { return r.frames }

// Clear starts a frame with a copy of img.
func (r *Raster) Clear(img image.Image) {
	r.frame = utils.CloneRGBA(img)
}

// DrawRectangle draws an outline.
func (r *Raster) DrawRectangle(rect image.Rectangle, s editor.Style) {
	utils.DrawRect(r.frame, rect, r.palette.Color(s), r.thickness)
}

// DrawLine draws a line between two points.
func (r *Raster) DrawLine(p0, p1 image.Point, s editor.Style) {
	utils.DrawLine(r.frame, p0, p1, r.palette.Color(s), r.thickness)
}

// DrawText draws text with origin at the baseline of the first line.
func (r *Raster) DrawText(text string, origin image.Point, s editor.Style) {
	d := &font.Drawer{
		Dst:  r.frame,
		Src:  image.NewUniform(r.palette.Color(s)),
		Face: r.face,
	}
	lh := r.lineHeight()
	for i, line := range strings.Split(text, "\n") {
		d.Dot = fixed.P(origin.X, origin.Y+i*lh)
		d.DrawString(line)
	}
}

// MeasureText returns the pixel size of text in the renderer's face.
func (r *Raster) MeasureText(text string) image.Point {
	lines := strings.Split(text, "\n")
	w := 0
	for _, line := range lines {
		w = max(w, font.MeasureString(r.face, line).Ceil())
	}
	return image.Pt(w, len(lines)*r.lineHeight())
}

// Present hands the frame to the presenter.
func (r *Raster) Present() error {
	r.frames++
	if r.present == nil {
		return nil
	}
	return r.present(r.frame)
}

func (r *Raster) lineHeight() int {
	return r.face.Metrics().Height.Ceil()
}
