package render

import (
	"image"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/utils"
)

// Annotate returns a copy of img with every box outlined and labelled.
func Annotate(img image.Image, boxes []box.Box, p Palette) *image.RGBA {
	r := NewRaster(p)
	r.Clear(img)
	for _, b := range boxes {
		rect := b.Rect.Rectangle()
		if rect.Empty() {
			continue
		}
		r.DrawRectangle(rect, editor.StyleBox)
		if b.Label != "" {
			r.DrawText(b.Label, image.Pt(rect.Min.X, rect.Min.Y-2), editor.StyleLabel)
		}
	}
	return r.Frame()
}

// SaveAnnotated writes Annotate(img, boxes, p) to path.
func SaveAnnotated(path string, img image.Image, boxes []box.Box, p Palette, jpegQuality int) error {
	return utils.SaveImage(path, Annotate(img, boxes, p), jpegQuality)
}
