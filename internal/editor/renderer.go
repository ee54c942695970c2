package editor

import (
	"fmt"
	"image"
	"strings"
	"unicode/utf8"
)

// Style tags a draw call; renderers map it to colors.
type Style int

const (
	StyleBox Style = iota
	StyleSelected
	StyleActiveEdge
	StyleLabel
	StyleMessage
	StyleBaseline
	StyleMode
)

var styleNames = [...]string{"box", "selected", "active_edge", "label", "message", "baseline", "mode"}

func (s Style) String() string {
	if s >= 0 && int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// ParseStyle is the inverse of Style.String.
func ParseStyle(name string) (Style, error) {
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("unknown style %q", name)
}

// Renderer receives the draw calls of one frame. Clear starts the frame with
// img as background; Present finishes it. Text origins are the left end of
// the baseline of the first line.
type Renderer interface {
	Clear(img image.Image)
	DrawRectangle(r image.Rectangle, s Style)
	DrawLine(p0, p1 image.Point, s Style)
	DrawText(text string, origin image.Point, s Style)
	Present() error
}

// TextMeasurer is implemented by renderers that know their font metrics.
// MeasureText returns the width and height of text, including line breaks.
type TextMeasurer interface {
	MeasureText(text string) image.Point
}

// Fallback metrics when the renderer does not implement TextMeasurer.
const (
	glyphWidth  = 7
	glyphHeight = 13
)

func measure(r Renderer, text string) image.Point {
	if m, ok := r.(TextMeasurer); ok {
		return m.MeasureText(text)
	}
	lines := strings.Split(text, "\n")
	w := 0
	for _, l := range lines {
		w = max(w, utf8.RuneCountInString(l)*glyphWidth)
	}
	return image.Pt(w, len(lines)*glyphHeight)
}
