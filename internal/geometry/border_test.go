package geometry

import (
	"image"
	"testing"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	// edges: left 10, top 20, right 59, bottom 49
	r := box.Rect{X: 10, Y: 20, W: 50, H: 30}
	tol := DefaultEdgeTolerance

	tests := []struct {
		name string
		p    image.Point
		want Border
	}{
		{name: "center", p: image.Pt(35, 35), want: BorderWhole},
		{name: "on top edge", p: image.Pt(35, 20), want: BorderTop},
		{name: "just above top within tolerance", p: image.Pt(35, 17), want: BorderTop},
		{name: "above top outside tolerance", p: image.Pt(35, 16), want: BorderNone},
		{name: "inside near top", p: image.Pt(35, 23), want: BorderTop},
		{name: "inside just past tolerance", p: image.Pt(35, 24), want: BorderWhole},
		{name: "bottom edge", p: image.Pt(35, 49), want: BorderBottom},
		{name: "left edge", p: image.Pt(10, 35), want: BorderLeft},
		{name: "right edge", p: image.Pt(59, 35), want: BorderRight},
		{name: "right edge outside", p: image.Pt(62, 35), want: BorderRight},
		{name: "top left corner", p: image.Pt(10, 20), want: BorderTop | BorderLeft},
		{name: "outside top left corner", p: image.Pt(7, 17), want: BorderTop | BorderLeft},
		{name: "bottom right corner", p: image.Pt(60, 50), want: BorderBottom | BorderRight},
		{name: "beyond corner span", p: image.Pt(6, 20), want: BorderNone},
		{name: "far away", p: image.Pt(200, 200), want: BorderNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.p, r, tol), "got %s", Classify(tt.p, r, tol))
		})
	}
}

func TestClassifyToleranceDoesNotScaleWithBox(t *testing.T) {
	small := box.Rect{X: 0, Y: 0, W: 20, H: 20}
	large := box.Rect{X: 0, Y: 0, W: 2000, H: 2000}
	// four pixels inside the left edge is interior for both sizes
	assert.Equal(t, BorderWhole, Classify(image.Pt(4, 10), small, 3))
	assert.Equal(t, BorderWhole, Classify(image.Pt(4, 1000), large, 3))
}

func TestClassifyTinyBoxActivatesOpposingEdges(t *testing.T) {
	r := box.Rect{X: 10, Y: 10, W: 1, H: 1}
	got := Classify(image.Pt(10, 10), r, 3)
	assert.True(t, got.Has(BorderTop|BorderBottom|BorderLeft|BorderRight))
}

func TestDrag(t *testing.T) {
	ref := box.Rect{X: 10, Y: 10, W: 31, H: 21} // edges 10..40, 10..30
	anchor := image.Pt(25, 20)

	tests := []struct {
		name    string
		mask    Border
		current image.Point
		want    box.Rect
	}{
		{name: "move", mask: BorderWhole, current: image.Pt(30, 15), want: box.Rect{X: 15, Y: 5, W: 31, H: 21}},
		{name: "right edge grows", mask: BorderRight, current: image.Pt(35, 99), want: box.Rect{X: 10, Y: 10, W: 41, H: 21}},
		{name: "top edge shrinks", mask: BorderTop, current: image.Pt(0, 25), want: box.Rect{X: 10, Y: 15, W: 31, H: 16}},
		{name: "corner", mask: BorderBottom | BorderLeft, current: image.Pt(20, 30), want: box.Rect{X: 5, Y: 10, W: 36, H: 31}},
		{name: "left past right flips", mask: BorderLeft, current: image.Pt(65, 20), want: box.Rect{X: 40, Y: 10, W: 11, H: 21}},
		{name: "none is a no-op", mask: BorderNone, current: image.Pt(99, 99), want: ref},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Drag(ref, tt.mask, anchor, tt.current))
		})
	}
}

func TestDragFromSeedGrowsAwayFromAnchor(t *testing.T) {
	seed := box.Rect{X: 10, Y: 10, W: 1, H: 1}
	got := Drag(seed, BorderRight|BorderBottom, image.Pt(10, 10), image.Pt(40, 30))
	assert.Equal(t, box.Rect{X: 10, Y: 10, W: 31, H: 21}, got)

	got = Drag(seed, BorderRight|BorderBottom, image.Pt(10, 10), image.Pt(2, 4))
	assert.Equal(t, box.Rect{X: 2, Y: 4, W: 9, H: 7}, got)
}

func TestBorderString(t *testing.T) {
	assert.Equal(t, "none", BorderNone.String())
	assert.Equal(t, "whole", BorderWhole.String())
	assert.Equal(t, "top|left", (BorderTop | BorderLeft).String())
	assert.True(t, (BorderTop | BorderRight).IsEdge())
	assert.False(t, BorderWhole.IsEdge())
	assert.False(t, BorderNone.Has(BorderNone))
}
