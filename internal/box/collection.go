package box

import "image"

// Handle identifies a box inside a Collection. Handles are never reused, so a
// handle to a removed box stays invalid even after new boxes are added.
type Handle uint64

// NoHandle is the zero Handle; it never refers to a box.
const NoHandle Handle = 0

type entry struct {
	id  Handle
	box Box
}

// Collection is the ordered set of boxes of one image. Iteration order is
// creation order. The zero value is an empty, usable collection.
type Collection struct {
	entries []entry
	last    Handle
}

// NewCollection returns a collection populated with boxes in the given order.
func NewCollection(boxes ...Box) *Collection {
	c := &Collection{}
	c.Replace(boxes)
	return c
}

// Len returns the number of boxes.
func (c *Collection) Len() int { return len(c.entries) }

// Add appends b and returns its handle.
func (c *Collection) Add(b Box) Handle {
	c.last++
	c.entries = append(c.entries, entry{id: c.last, box: b})
	return c.last
}

// Get returns the box for h.
func (c *Collection) Get(h Handle) (Box, bool) {
	i := c.index(h)
	if i < 0 {
		return Box{}, false
	}
	return c.entries[i].box, true
}

// Valid reports whether h refers to a box in the collection.
func (c *Collection) Valid(h Handle) bool { return c.index(h) >= 0 }

// Set replaces the box behind h. It returns false if h is not valid.
func (c *Collection) Set(h Handle, b Box) bool {
	i := c.index(h)
	if i < 0 {
		return false
	}
	c.entries[i].box = b
	return true
}

// SetRect replaces only the rectangle of the box behind h.
func (c *Collection) SetRect(h Handle, r Rect) bool {
	i := c.index(h)
	if i < 0 {
		return false
	}
	c.entries[i].box.Rect = r
	return true
}

// Remove deletes the box behind h, keeping the order of the others.
func (c *Collection) Remove(h Handle) bool {
	i := c.index(h)
	if i < 0 {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return true
}

// FindContaining returns the first box, in creation order, whose rectangle
// contains p.
func (c *Collection) FindContaining(p image.Point) (Handle, bool) {
	for _, e := range c.entries {
		if e.box.Rect.Contains(p) {
			return e.id, true
		}
	}
	return NoHandle, false
}

// Replace clears the collection and repopulates it from boxes.
// All previously issued handles become invalid.
func (c *Collection) Replace(boxes []Box) {
	c.entries = c.entries[:0]
	for _, b := range boxes {
		c.Add(b)
	}
}

// Retain keeps only the boxes for which keep returns true and reports how
// many were dropped.
func (c *Collection) Retain(keep func(Box) bool) int {
	kept := c.entries[:0]
	for _, e := range c.entries {
		if keep(e.box) {
			kept = append(kept, e)
		}
	}
	removed := len(c.entries) - len(kept)
	// clear the tail so dropped labels can be collected
	for i := len(kept); i < len(c.entries); i++ {
		c.entries[i] = entry{}
	}
	c.entries = kept
	return removed
}

// Boxes returns a copy of the boxes in creation order.
func (c *Collection) Boxes() []Box {
	out := make([]Box, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.box
	}
	return out
}

// Each calls fn for every box in creation order.
func (c *Collection) Each(fn func(h Handle, b Box)) {
	for _, e := range c.entries {
		fn(e.id, e.box)
	}
}

func (c *Collection) index(h Handle) int {
	if h == NoHandle {
		return -1
	}
	for i, e := range c.entries {
		if e.id == h {
			return i
		}
	}
	return -1
}
