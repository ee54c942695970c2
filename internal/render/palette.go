// Package render rasterizes editor frames onto RGBA images and burns boxes
// into exported copies of an image.
package render

import (
	"fmt"
	"image/color"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/utils"
)

// Palette maps draw styles to colors.
type Palette struct {
	Box        color.RGBA
	Selected   color.RGBA
	ActiveEdge color.RGBA
	Text       color.RGBA
}

// DefaultPalette returns green boxes, a red selection, yellow edge feedback
// and green text.
func DefaultPalette() Palette {
	return Palette{
		Box:        color.RGBA{0, 255, 0, 255},
		Selected:   color.RGBA{255, 0, 0, 255},
		ActiveEdge: color.RGBA{255, 255, 0, 255},
		Text:       color.RGBA{0, 255, 0, 255},
	}
}

// PaletteFromHex builds a palette from "#RRGGBB" strings.
func PaletteFromHex(boxColor, selected, edge, text string) (Palette, error) {
	var p Palette
	for _, f := range []struct {
		name string
		src  string
		dst  *color.RGBA
	}{
		{"box", boxColor, &p.Box},
		{"selected", selected, &p.Selected},
		{"edge", edge, &p.ActiveEdge},
		{"text", text, &p.Text},
	} {
		c, err := utils.ParseHexColor(f.src)
		if err != nil {
			return Palette{}, fmt.Errorf("%s color: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// Color returns the color for s.
func (p Palette) Color(s editor.Style) color.RGBA {
	switch s {
	case editor.StyleSelected:
		return p.Selected
	case editor.StyleActiveEdge:
		return p.ActiveEdge
	case editor.StyleLabel, editor.StyleMessage, editor.StyleBaseline, editor.StyleMode:
		return p.Text
	default:
		return p.Box
	}
}
