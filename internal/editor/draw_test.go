package editor

import (
	"fmt"
	"image"
	"testing"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Renderer that records draw calls as strings.
type recorder struct {
	ops       []string
	presented int
}

func (r *recorder) Clear(img image.Image) {
	r.ops = append(r.ops, fmt.Sprintf("clear %v", img.Bounds()))
}

func (r *recorder) DrawRectangle(rect image.Rectangle, s Style) {
	r.ops = append(r.ops, fmt.Sprintf("rect %v %s", rect, s))
}

func (r *recorder) DrawLine(p0, p1 image.Point, s Style) {
	r.ops = append(r.ops, fmt.Sprintf("line %v %v %s", p0, p1, s))
}

func (r *recorder) DrawText(text string, origin image.Point, s Style) {
	r.ops = append(r.ops, fmt.Sprintf("text %q %v %s", text, origin, s))
}

func (r *recorder) Present() error {
	r.presented++
	return nil
}

func TestDrawFrame(t *testing.T) {
	e := newEditor(t, 100, 50,
		box.Box{Rect: box.Rect{X: 10, Y: 10, W: 31, H: 21}, Label: "cat"},
		box.Box{Rect: box.Rect{X: 60, Y: 10, W: 20, H: 20}},
	)
	click(e, image.Pt(70, 20))

	r := &recorder{}
	require.NoError(t, e.Draw(r))

	assert.Equal(t, []string{
		"clear (0,0)-(100,50)",
		"rect (10,10)-(41,31) box",
		`text "cat" (10,8) label`,
		"rect (60,10)-(80,30) selected",
		`text "VIEW" (68,17) mode`,
	}, r.ops)
	assert.Equal(t, 1, r.presented)
}

func TestDrawHoverEdges(t *testing.T) {
	e := newEditor(t, 100, 50, box.Box{Rect: box.Rect{X: 10, Y: 10, W: 31, H: 21}})
	click(e, image.Pt(25, 20))
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 40, Y: 30})

	r := &recorder{}
	require.NoError(t, e.Draw(r))
	assert.Contains(t, r.ops, "line (10,30) (40,30) active_edge")
	assert.Contains(t, r.ops, "line (40,10) (40,30) active_edge")
	assert.NotContains(t, r.ops, "line (10,10) (40,10) active_edge")
}

func TestDrawEditOverlay(t *testing.T) {
	e := newEditor(t, 100, 50, box.Box{Rect: box.Rect{X: 10, Y: 10, W: 31, H: 21}, Label: "cat"})
	click(e, image.Pt(25, 20))
	typeKeys(e, KeyCtrlE, KeyLeft)

	r := &recorder{}
	require.NoError(t, e.Draw(r))

	// "ca|t" is 4 glyphs of 7x13: centered at x=(100-28)/2, baseline one line below (50-13)/2
	assert.Contains(t, r.ops, `text "ca|t" (36,31) message`)
	assert.Contains(t, r.ops, "line (36,34) (64,34) baseline")
	assert.Contains(t, r.ops, `text "EDIT" (68,17) mode`)
}

func TestDrawSkipsEmptyBoxes(t *testing.T) {
	e := newEditor(t, 100, 50, box.Box{Rect: box.Rect{X: 10, Y: 10, W: 0, H: 5}})
	r := &recorder{}
	require.NoError(t, e.Draw(r))
	for _, op := range r.ops {
		assert.NotContains(t, op, "rect ")
	}
}

type measuringRecorder struct {
	recorder
}

func (measuringRecorder) MeasureText(text string) image.Point {
	return image.Pt(len(text)*10, 20)
}

func TestDrawUsesTextMeasurer(t *testing.T) {
	e := newEditor(t, 100, 50)
	r := &measuringRecorder{}
	require.NoError(t, e.Draw(r))
	assert.Contains(t, r.ops, `text "VIEW" (56,24) mode`)
}
