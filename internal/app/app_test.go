package app

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/input"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/MeKo-Tech/boxlabel/internal/session"
	"github.com/MeKo-Tech/boxlabel/internal/testutil"
	"github.com/MeKo-Tech/boxlabel/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func twoImages(t *testing.T) *testutil.Workspace {
	t.Helper()
	return testutil.NewWorkspace(t,
		testutil.ImageSpec{Name: "a.png", Width: 100, Height: 50},
		testutil.ImageSpec{Name: "b.png", Width: 80, Height: 60},
	)
}

func newApp(t *testing.T, w *testutil.Workspace) *App {
	t.Helper()
	sess, err := session.NewManager(w.ListPath, session.WithLogger(quietLogger))
	require.NoError(t, err)
	return New(editor.New(editor.DefaultConfig()), sess, Options{
		Palette: render.DefaultPalette(),
		Logger:  quietLogger,
	})
}

func script(t *testing.T, text string) *input.Script {
	t.Helper()
	s, err := input.ParseScript(strings.NewReader(text))
	require.NoError(t, err)
	return s
}

func TestRunEndToEnd(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)
	r := render.NewRaster(render.DefaultPalette())

	err := a.Run(context.Background(), script(t, `
drag 10 10 40 30
key ctrl+e
type cat
key enter
key ctrl+n
key ctrl+p
`), r)
	require.NoError(t, err)

	assert.Equal(t, 0, a.CurrentIndex())
	assert.Equal(t, "a.png", a.Frame().Name)
	assert.Equal(t, []box.Box{{Rect: box.Rect{X: 10, Y: 10, W: 31, H: 21}, Label: "cat"}}, a.Editor().Boxes().Boxes())
	assert.Equal(t, "10\t10\t31\t21\tcat\n", w.ReadRecord(t, "a.png", 100, 50))
	assert.Equal(t, "", w.ReadRecord(t, "b.png", 80, 60))

	// initial frame plus one per event
	assert.Equal(t, 1+3+1+3+1+1+1, r.Presented())
	assert.Equal(t, image.Pt(100, 50), r.Frame().Bounds().Size())
}

func TestQuitSavesAndStops(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)
	src := script(t, "drag 5 5 30 20\nkey ctrl+q\ndrag 50 5 90 40\n")

	require.NoError(t, a.Run(context.Background(), src, render.NewRaster(render.DefaultPalette())))

	assert.Equal(t, "5\t5\t26\t16\t\n", w.ReadRecord(t, "a.png", 100, 50))
	assert.Len(t, src.Events(), 3, "events after quit are not consumed")
}

func TestExhaustedSourceSaves(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)

	require.NoError(t, a.Run(context.Background(), script(t, "drag 5 5 30 20\n"), render.NewRaster(render.DefaultPalette())))
	assert.Equal(t, "5\t5\t26\t16\t\n", w.ReadRecord(t, "a.png", 100, 50))
}

func TestCanceledContextSaves(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)
	require.NoError(t, a.Open())
	a.Dispatch(editor.PointerEvent{Kind: editor.PointerDown, X: 5, Y: 5})
	a.Dispatch(editor.PointerEvent{Kind: editor.PointerUp, X: 30, Y: 20})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.Run(ctx, input.NewChannel(make(chan editor.Event)), render.NewRaster(render.DefaultPalette()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "5\t5\t26\t16\t\n", w.ReadRecord(t, "a.png", 100, 50))
}

func TestSaveCommand(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)
	require.NoError(t, a.Open())

	// a click leaves nothing behind
	a.Dispatch(editor.PointerEvent{Kind: editor.PointerDown, X: 20, Y: 20})
	a.Dispatch(editor.PointerEvent{Kind: editor.PointerUp, X: 20, Y: 20})
	assert.False(t, a.Dispatch(editor.KeyEvent{Code: editor.KeyCtrlS}))

	assert.Equal(t, MsgSaved, a.Editor().Message())
	assert.Equal(t, "", w.ReadRecord(t, "a.png", 100, 50))
	assert.Zero(t, a.Editor().Boxes().Len())
}

func TestNoMoreImages(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)
	require.NoError(t, a.Open())

	a.Dispatch(editor.KeyEvent{Code: editor.KeyCtrlP})
	assert.Equal(t, MsgNoMoreImages, a.Editor().Message())
	assert.Equal(t, 0, a.CurrentIndex())

	a.Dispatch(editor.KeyEvent{Code: editor.KeyCtrlN})
	assert.Equal(t, 1, a.CurrentIndex())
	assert.Empty(t, a.Editor().Message())

	a.Dispatch(editor.KeyEvent{Code: editor.KeyCtrlN})
	assert.Equal(t, MsgNoMoreImages, a.Editor().Message())
	assert.Equal(t, 1, a.CurrentIndex())
	assert.Equal(t, "b.png", a.Frame().Name)
}

func TestSaveFailureBlocksAdvance(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)
	require.NoError(t, a.Open())
	a.Dispatch(editor.PointerEvent{Kind: editor.PointerDown, X: 5, Y: 5})
	a.Dispatch(editor.PointerEvent{Kind: editor.PointerUp, X: 30, Y: 20})

	blocker := w.RecordPath("a.png", 100, 50)
	require.NoError(t, os.MkdirAll(blocker, 0o750))

	a.Dispatch(editor.KeyEvent{Code: editor.KeyCtrlN})
	assert.True(t, strings.HasPrefix(a.Editor().Message(), "save failed"), a.Editor().Message())
	assert.Equal(t, 0, a.CurrentIndex())
	assert.Equal(t, 1, a.Editor().Boxes().Len(), "boxes kept for retry")

	var pe *session.PersistError
	assert.ErrorAs(t, a.Save(), &pe)

	require.NoError(t, os.Remove(blocker))
	a.Dispatch(editor.KeyEvent{Code: editor.KeyCtrlN})
	assert.Equal(t, 1, a.CurrentIndex())
	assert.Equal(t, "5\t5\t26\t16\t\n", w.ReadRecord(t, "a.png", 100, 50))
}

func TestExportCommand(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)
	require.NoError(t, a.Open())
	a.Dispatch(editor.PointerEvent{Kind: editor.PointerDown, X: 5, Y: 5})
	a.Dispatch(editor.PointerEvent{Kind: editor.PointerUp, X: 30, Y: 20})

	a.Dispatch(editor.KeyEvent{Code: editor.KeyCtrlX})
	assert.Equal(t, "exported a.png_100x50.jpg", a.Editor().Message())

	size, err := utils.ImageSize(filepath.Join(w.BoxDir(), "a.png_100x50.jpg"))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 50), size)
}

func TestHelpCommand(t *testing.T) {
	a := newApp(t, twoImages(t))
	require.NoError(t, a.Open())

	assert.False(t, a.Dispatch(editor.KeyEvent{Code: 'h'}))
	assert.Equal(t, editor.HelpText(), a.Editor().Message())
	assert.True(t, a.Dispatch(editor.KeyEvent{Code: editor.KeyCtrlQ}))
}

func TestOpenSkipsBrokenImages(t *testing.T) {
	w := testutil.NewWorkspace(t,
		testutil.ImageSpec{Name: "x.broken.png"},
		testutil.ImageSpec{Name: "missing.png"},
		testutil.ImageSpec{Name: "c.png", Width: 30, Height: 20},
	)
	a := newApp(t, w)
	require.NoError(t, a.Open())
	assert.Equal(t, 2, a.CurrentIndex())
	assert.Equal(t, image.Pt(30, 20), a.Editor().Size())
}

func TestRunWithNothingLoadable(t *testing.T) {
	w := testutil.NewWorkspace(t, testutil.ImageSpec{Name: "x.broken.png"})
	a := newApp(t, w)

	err := a.Run(context.Background(), input.NewScript(), render.NewRaster(render.DefaultPalette()))
	assert.ErrorIs(t, err, session.ErrNoMoreImages)
	assert.Equal(t, -1, a.CurrentIndex())
}

func TestRunPresentError(t *testing.T) {
	w := twoImages(t)
	a := newApp(t, w)
	boom := errors.New("window closed")
	calls := 0
	r := render.NewRaster(render.DefaultPalette(), render.WithPresenter(func(*image.RGBA) error {
		calls++
		if calls > 3 {
			return boom
		}
		return nil
	}))

	err := a.Run(context.Background(), script(t, "drag 5 5 30 20\n"), r)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "5\t5\t26\t16\t\n", w.ReadRecord(t, "a.png", 100, 50), "saved on the way out")
}
