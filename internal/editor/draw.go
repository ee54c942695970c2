package editor

import (
	"image"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"github.com/MeKo-Tech/boxlabel/internal/geometry"
)

// CursorMarker is inserted at the cursor position of the label being edited.
const CursorMarker = "|"

const (
	labelGap    = 2
	modeMargin  = 4
	baselineGap = 3
)

// Draw composes the current frame onto r and presents it.
func (e *Editor) Draw(r Renderer) error {
	r.Clear(e.img)

	sel := e.SelectedHandle()
	e.boxes.Each(func(h box.Handle, b box.Box) {
		rect := b.Rect.Rectangle()
		if rect.Empty() {
			return
		}
		style := StyleBox
		if h == sel {
			style = StyleSelected
		}
		r.DrawRectangle(rect, style)
		if b.Label != "" {
			r.DrawText(b.Label, image.Pt(rect.Min.X, rect.Min.Y-labelGap), StyleLabel)
		}
	})

	if b, ok := e.Selected(); ok && e.hoverMask.IsEdge() {
		drawEdges(r, b.Rect, e.hoverMask)
	}

	if msg := e.overlayText(); msg != "" {
		size := measure(r, msg)
		origin := image.Pt((e.size.X-size.X)/2, (e.size.Y-size.Y)/2+glyphHeight)
		r.DrawText(msg, origin, StyleMessage)
		y := origin.Y - glyphHeight + size.Y + baselineGap
		r.DrawLine(image.Pt(origin.X, y), image.Pt(origin.X+size.X, y), StyleBaseline)
	}

	mode := e.mode.String()
	size := measure(r, mode)
	r.DrawText(mode, image.Pt(e.size.X-size.X-modeMargin, size.Y+modeMargin), StyleMode)

	return r.Present()
}

func (e *Editor) overlayText() string {
	if e.mode == ModeEdit {
		return e.buf.Display(CursorMarker)
	}
	return e.message
}

// drawEdges draws the edges of rect that are set in mask.
func drawEdges(r Renderer, rect box.Rect, mask geometry.Border) {
	left, top, right, bottom := rect.Edges()
	if mask.Has(geometry.BorderTop) {
		r.DrawLine(image.Pt(left, top), image.Pt(right, top), StyleActiveEdge)
	}
	if mask.Has(geometry.BorderBottom) {
		r.DrawLine(image.Pt(left, bottom), image.Pt(right, bottom), StyleActiveEdge)
	}
	if mask.Has(geometry.BorderLeft) {
		r.DrawLine(image.Pt(left, top), image.Pt(left, bottom), StyleActiveEdge)
	}
	if mask.Has(geometry.BorderRight) {
		r.DrawLine(image.Pt(right, top), image.Pt(right, bottom), StyleActiveEdge)
	}
}
