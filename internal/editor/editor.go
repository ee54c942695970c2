// Package editor implements the annotation state machine: it turns pointer
// and key events into box creation, move, resize, delete and label edits on
// the boxes of one image, and composes frames for a Renderer.
package editor

import (
	"fmt"
	"image"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"github.com/MeKo-Tech/boxlabel/internal/geometry"
	"github.com/MeKo-Tech/boxlabel/internal/textedit"
)

// DefaultUnitSize is the keyboard move/resize step in pixels.
const DefaultUnitSize = 5

// Config holds the tunables of the editor.
type Config struct {
	EdgeTolerance int // Pixel radius of the edge zones; also the discard threshold
	UnitSize      int // Initial keyboard step
}

// DefaultConfig returns the reference tolerance and unit size.
func DefaultConfig() Config {
	return Config{
		EdgeTolerance: geometry.DefaultEdgeTolerance,
		UnitSize:      DefaultUnitSize,
	}
}

// Mode is the editor mode. Pointer events are ignored in ModeEdit.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "VIEW"
}

// Command is a request from a key binding that the driving loop must carry
// out, since it involves the session rather than the boxes of this image.
type Command int

const (
	CommandNone Command = iota
	CommandSave
	CommandNext
	CommandPrev
	CommandExport
	CommandHelp
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandSave:
		return "save"
	case CommandNext:
		return "next"
	case CommandPrev:
		return "prev"
	case CommandExport:
		return "export"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}

// Editor is the editing state of the current image: its boxes, the
// selection, the drag in progress, the mode and the label buffer.
// It is owned by a single goroutine.
type Editor struct {
	cfg  Config
	img  image.Image
	size image.Point

	boxes    *box.Collection
	selected box.Handle
	mode     Mode

	dragging bool
	dragMask geometry.Border
	anchor   image.Point
	ref      box.Rect

	hover     image.Point
	hovered   bool
	hoverMask geometry.Border

	unit    int
	buf     *textedit.Buffer
	message string
}

// New creates an editor with no image.
func New(cfg Config) *Editor {
	if cfg.EdgeTolerance < 0 {
		cfg.EdgeTolerance = 0
	}
	if cfg.UnitSize < 1 {
		cfg.UnitSize = DefaultUnitSize
	}
	return &Editor{
		cfg:   cfg,
		boxes: box.NewCollection(),
		unit:  cfg.UnitSize,
		buf:   textedit.New(""),
	}
}

// Reset switches the editor to a new image. The collection is replaced by
// boxes; selection, drag, label buffer and message are cleared.
func (e *Editor) Reset(img image.Image, boxes []box.Box) {
	e.img = img
	e.size = image.Point{}
	if img != nil {
		e.size = img.Bounds().Size()
	}
	e.boxes.Replace(boxes)
	e.selected = box.NoHandle
	e.mode = ModeView
	e.dragging = false
	e.dragMask = geometry.BorderNone
	e.hoverMask = geometry.BorderNone
	e.buf.Reset("")
	e.message = ""
}

// Image returns the current image, nil before the first Reset.
func (e *Editor) Image() image.Image { return e.img }

// Size returns the current image size.
func (e *Editor) Size() image.Point { return e.size }

// Boxes returns the live collection of the current image.
func (e *Editor) Boxes() *box.Collection { return e.boxes }

// Selected returns the selected box. The selection is dropped lazily if its
// box was removed from the collection behind the editor's back.
func (e *Editor) Selected() (box.Box, bool) {
	b, ok := e.boxes.Get(e.selected)
	if !ok {
		e.selected = box.NoHandle
	}
	return b, ok
}

// SelectedHandle returns the handle of the selection or box.NoHandle.
func (e *Editor) SelectedHandle() box.Handle {
	if !e.boxes.Valid(e.selected) {
		e.selected = box.NoHandle
	}
	return e.selected
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode { return e.mode }

// Dragging reports whether a pointer drag is in progress.
func (e *Editor) Dragging() bool { return e.dragging }

// DragMask returns the edges frozen at the start of the current drag.
func (e *Editor) DragMask() geometry.Border { return e.dragMask }

// HoverMask returns the edges a pointer-down at the last pointer position
// would grab on the selected box.
func (e *Editor) HoverMask() geometry.Border { return e.hoverMask }

// UnitSize returns the keyboard move/resize step.
func (e *Editor) UnitSize() int { return e.unit }

// EdgeTolerance returns the pixel radius of the edge zones.
func (e *Editor) EdgeTolerance() int { return e.cfg.EdgeTolerance }

// Message returns the overlay status line.
func (e *Editor) Message() string { return e.message }

// SetMessage replaces the overlay status line.
func (e *Editor) SetMessage(msg string) { e.message = msg }

// EditBuffer returns the label buffer used in ModeEdit.
func (e *Editor) EditBuffer() *textedit.Buffer { return e.buf }

// DiscardThreshold is the size at or below which a box is dropped when a
// drag ends. It equals the edge tolerance, so a click that lands in the
// seed's own edge zone never leaves a box behind.
func (e *Editor) DiscardThreshold() int { return e.cfg.EdgeTolerance }

// HandlePointer processes one pointer event. It does nothing in ModeEdit.
func (e *Editor) HandlePointer(ev PointerEvent) {
	if e.mode == ModeEdit {
		return
	}
	p := ev.Point()
	e.hover = p
	e.hovered = true

	switch ev.Kind {
	case PointerDown:
		e.message = ""
		e.beginDrag(p)
	case PointerMove:
		if e.dragging {
			e.drag(p)
		}
	case PointerUp:
		if e.dragging {
			e.drag(p)
			e.endDrag()
		}
	}
	e.updateHover()
}

func (e *Editor) beginDrag(p image.Point) {
	mask := geometry.BorderNone
	if sel, ok := e.Selected(); ok {
		mask = geometry.Classify(p, sel.Rect, e.cfg.EdgeTolerance)
	}

	if mask == geometry.BorderNone {
		if h, ok := e.boxes.FindContaining(p); ok {
			e.selected = h
			b, _ := e.boxes.Get(h)
			mask = geometry.Classify(p, b.Rect, e.cfg.EdgeTolerance)
			if mask == geometry.BorderNone {
				mask = geometry.BorderWhole
			}
		} else {
			e.selected = e.boxes.Add(box.Box{Rect: box.Rect{X: p.X, Y: p.Y, W: 1, H: 1}})
			mask = geometry.BorderRight | geometry.BorderBottom
		}
	}

	b, _ := e.boxes.Get(e.selected)
	e.ref = b.Rect.Normalize()
	e.anchor = p
	e.dragMask = mask
	e.dragging = true
}

func (e *Editor) drag(p image.Point) {
	if !e.boxes.SetRect(e.selected, geometry.Drag(e.ref, e.dragMask, e.anchor, p)) {
		e.dragging = false
	}
}

func (e *Editor) endDrag() {
	e.dragging = false
	e.dragMask = geometry.BorderNone

	b, ok := e.Selected()
	if !ok {
		return
	}
	r := b.Rect.Normalize()
	if r.W <= e.DiscardThreshold() || r.H <= e.DiscardThreshold() {
		e.boxes.Remove(e.selected)
		e.selected = box.NoHandle
	}
}

func (e *Editor) updateHover() {
	e.hoverMask = geometry.BorderNone
	if !e.hovered || e.mode != ModeView {
		return
	}
	if sel, ok := e.Selected(); ok {
		e.hoverMask = geometry.Classify(e.hover, sel.Rect, e.cfg.EdgeTolerance)
	}
}

// HandleKey processes one key press and returns the command, if any, the
// key is bound to. The hover mask is recomputed afterwards since the key may
// have changed the selected rectangle or the mode.
func (e *Editor) HandleKey(ev KeyEvent) Command {
	defer e.updateHover()
	if e.mode == ModeEdit {
		e.handleEditKey(ev.Code)
		return CommandNone
	}

	e.message = ""
	switch ev.Code {
	case 'i', KeyUp:
		e.move(0, -1)
	case 'k', KeyDown:
		e.move(0, 1)
	case 'j', KeyLeft:
		e.move(-1, 0)
	case 'l', KeyRight:
		e.move(1, 0)
	case '^':
		e.resize(0, 1)
	case '_':
		e.resize(0, -1)
	case '>':
		e.resize(1, 0)
	case '<':
		e.resize(-1, 0)
	case '+', '=':
		e.unit++
		e.message = fmt.Sprintf("unit size: %d", e.unit)
	case '-':
		e.unit = max(1, e.unit-1)
		e.message = fmt.Sprintf("unit size: %d", e.unit)
	case KeyCtrlE:
		e.beginEdit()
	case KeyCtrlD, KeyDelete:
		e.RemoveSelected()
	case KeyCtrlN:
		return CommandNext
	case KeyCtrlP:
		return CommandPrev
	case KeyCtrlS:
		return CommandSave
	case KeyCtrlX:
		return CommandExport
	case 'h', '?':
		return CommandHelp
	case KeyCtrlQ:
		return CommandQuit
	}
	return CommandNone
}

// RemoveSelected deletes the selected box and clears the selection.
func (e *Editor) RemoveSelected() bool {
	if !e.boxes.Remove(e.selected) {
		return false
	}
	e.selected = box.NoHandle
	e.dragging = false
	e.hoverMask = geometry.BorderNone
	return true
}

func (e *Editor) move(dx, dy int) {
	b, ok := e.Selected()
	if !ok {
		return
	}
	r := b.Rect.Normalize()
	r.X = clamp(r.X+dx*e.unit, 0, max(0, e.size.X-r.W))
	r.Y = clamp(r.Y+dy*e.unit, 0, max(0, e.size.Y-r.H))
	e.boxes.SetRect(e.selected, r)
}

func (e *Editor) resize(dw, dh int) {
	b, ok := e.Selected()
	if !ok {
		return
	}
	r := b.Rect.Normalize()
	if dw != 0 {
		r.W = clamp(r.W+dw*e.unit, 1, max(1, e.size.X-r.X))
	}
	if dh != 0 {
		r.H = clamp(r.H+dh*e.unit, 1, max(1, e.size.Y-r.Y))
	}
	e.boxes.SetRect(e.selected, r)
}

func (e *Editor) beginEdit() {
	b, ok := e.Selected()
	if !ok {
		return
	}
	e.dragging = false
	e.dragMask = geometry.BorderNone
	e.hoverMask = geometry.BorderNone
	e.buf.Reset(b.Label)
	e.mode = ModeEdit
}

func (e *Editor) handleEditKey(k Key) {
	switch k {
	case KeyEnter, KeyLineFeed:
		if b, ok := e.Selected(); ok {
			b.Label = e.buf.Commit()
			e.boxes.Set(e.selected, b)
		}
		e.mode = ModeView
	case KeyEscape:
		e.mode = ModeView
	case KeyBackspace, KeyDEL:
		e.buf.Backspace()
	case KeyCtrlD, KeyDelete:
		e.buf.Delete()
	case KeyCtrlA, KeyHome:
		e.buf.Home()
	case KeyCtrlE, KeyEnd:
		e.buf.End()
	case KeyCtrlB, KeyLeft:
		e.buf.Left()
	case KeyCtrlF, KeyRight:
		e.buf.Right()
	case KeyCtrlK:
		e.buf.KillToEnd()
	case KeyCtrlU:
		e.buf.KillToStart()
	default:
		if k.Printable() && e.buf.Len() < box.MaxLabelLength {
			e.buf.Insert(string(rune(k)))
		}
	}
	if e.mode == ModeView {
		e.buf.Reset("")
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
