// Package geometry classifies pointer positions against a box and applies
// drags to box edges.
package geometry

import (
	"image"
	"strings"

	"github.com/MeKo-Tech/boxlabel/internal/box"
)

// DefaultEdgeTolerance is the pixel distance within which a point counts as
// being on an edge. It does not scale with the box size.
const DefaultEdgeTolerance = 3

// Border is the set of box edges that a drag affects.
type Border uint8

// Edge bits. BorderWhole is a sentinel meaning "move the whole box" and is
// never combined with the edge bits.
const (
	BorderTop Border = 1 << iota
	BorderRight
	BorderBottom
	BorderLeft
	BorderWhole

	BorderNone  Border = 0
	borderEdges        = BorderTop | BorderRight | BorderBottom | BorderLeft
)

// Has reports whether every bit of e is set in b.
func (b Border) Has(e Border) bool { return e != 0 && b&e == e }

// IsEdge reports whether at least one edge is live.
func (b Border) IsEdge() bool { return b&borderEdges != 0 }

func (b Border) String() string {
	switch b {
	case BorderNone:
		return "none"
	case BorderWhole:
		return "whole"
	}
	var parts []string
	for _, e := range []struct {
		bit  Border
		name string
	}{
		{BorderTop, "top"},
		{BorderRight, "right"},
		{BorderBottom, "bottom"},
		{BorderLeft, "left"},
	} {
		if b.Has(e.bit) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// Classify returns which edges of r are near p. A point near no edge but
// inside r yields BorderWhole; anything else yields BorderNone.
// The along-edge span is widened by tol on both ends, so corners report two
// edges at once.
func Classify(p image.Point, r box.Rect, tol int) Border {
	if tol < 0 {
		tol = 0
	}
	left, top, right, bottom := r.Edges()

	withinX := p.X >= left-tol && p.X <= right+tol
	withinY := p.Y >= top-tol && p.Y <= bottom+tol

	var b Border
	if withinX && abs(p.Y-top) <= tol {
		b |= BorderTop
	}
	if withinX && abs(p.Y-bottom) <= tol {
		b |= BorderBottom
	}
	if withinY && abs(p.X-left) <= tol {
		b |= BorderLeft
	}
	if withinY && abs(p.X-right) <= tol {
		b |= BorderRight
	}
	if b != BorderNone {
		return b
	}
	if r.Contains(p) {
		return BorderWhole
	}
	return BorderNone
}

// Drag moves the edges of ref selected by mask by the pointer travel from
// anchor to current. Edges are re-sorted afterwards, so dragging an edge past
// its opposite flips the rectangle instead of producing a negative size.
func Drag(ref box.Rect, mask Border, anchor, current image.Point) box.Rect {
	left, top, right, bottom := ref.Edges()
	dx, dy := current.X-anchor.X, current.Y-anchor.Y

	if mask == BorderWhole {
		return box.FromEdges(left+dx, top+dy, right+dx, bottom+dy)
	}
	if mask.Has(BorderTop) {
		top += dy
	}
	if mask.Has(BorderBottom) {
		bottom += dy
	}
	if mask.Has(BorderLeft) {
		left += dx
	}
	if mask.Has(BorderRight) {
		right += dx
	}
	return box.FromEdges(left, top, right, bottom)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
