package editor

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// PointerKind distinguishes pointer events.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerDown
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	default:
		return "move"
	}
}

// ParsePointerKind parses "down", "up" or "move".
func ParsePointerKind(s string) (PointerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down":
		return PointerDown, nil
	case "up":
		return PointerUp, nil
	case "move":
		return PointerMove, nil
	}
	return PointerMove, fmt.Errorf("unknown pointer kind %q", s)
}

// Event is a PointerEvent or a KeyEvent.
type Event interface {
	isEvent()
}

// PointerEvent is a pointer position in image coordinates.
type PointerEvent struct {
	Kind PointerKind
	X    int
	Y    int
}

// Point returns the event position.
func (e PointerEvent) Point() image.Point { return image.Pt(e.X, e.Y) }

// KeyEvent is one key press.
type KeyEvent struct {
	Code Key
}

func (PointerEvent) isEvent() {}
func (KeyEvent) isEvent()     {}

// InputSource yields events one at a time. Next blocks until an event is
// available and returns io.EOF once the source is exhausted.
type InputSource interface {
	Next(ctx context.Context) (Event, error)
}
