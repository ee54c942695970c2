// Package box holds the annotation data model: labeled rectangles, the ordered
// per-image collection and the tab-separated record format they persist to.
package box

import "image"

// Rect is an axis-aligned rectangle in image pixel coordinates.
// W and H may be zero or negative while a drag is in progress; call Normalize
// before drawing or hit-testing.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// FromEdges builds a Rect from two inclusive x edges and two inclusive y edges
// given in any order. The result always has W >= 1 and H >= 1.
func FromEdges(x0, y0, x1, y1 int) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0 + 1, H: y1 - y0 + 1}
}

// Normalize returns an equivalent rectangle with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Edges returns the inclusive pixel coordinates of the four edges of the
// normalized rectangle.
func (r Rect) Edges() (left, top, right, bottom int) {
	n := r.Normalize()
	return n.X, n.Y, n.X + n.W - 1, n.Y + n.H - 1
}

// Contains reports whether p lies in [X, X+W) x [Y, Y+H).
func (r Rect) Contains(p image.Point) bool {
	return p.In(r.Rectangle())
}

// Empty reports whether the normalized rectangle has no area.
func (r Rect) Empty() bool {
	n := r.Normalize()
	return n.W == 0 || n.H == 0
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Rectangle converts to the standard library representation.
func (r Rect) Rectangle() image.Rectangle {
	n := r.Normalize()
	return image.Rect(n.X, n.Y, n.X+n.W, n.Y+n.H)
}

// Box is one labeled region of an image.
type Box struct {
	Rect  Rect
	Label string
}

// Persistable reports whether the box may be written to a record file.
// Boxes one pixel wide or tall are leftovers of aborted creations.
func (b Box) Persistable() bool {
	n := b.Rect.Normalize()
	return n.W > 1 && n.H > 1
}
