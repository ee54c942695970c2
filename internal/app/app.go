// Package app drives an editor: it pulls events from an input source, feeds
// them to the editor, carries out the commands the editor returns against the
// session and redraws after every event.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/MeKo-Tech/boxlabel/internal/session"
)

// Status messages shown in the overlay.
const (
	MsgSaved        = "saved"
	MsgNoMoreImages = "no more images"
)

const defaultJPEGQuality = 90

// Options configures an App.
type Options struct {
	Palette     render.Palette
	JPEGQuality int
	Logger      *slog.Logger
}

// App owns the editor and the session of one annotation run. Everything
// except CurrentIndex must be called from the goroutine running Run.
type App struct {
	ed      *editor.Editor
	sess    *session.Manager
	palette render.Palette
	quality int
	logger  *slog.Logger

	frame   *session.Frame
	current atomic.Int64
}

// New creates an App. Call Open before dispatching events.
func New(ed *editor.Editor, sess *session.Manager, opts Options) *App {
	a := &App{
		ed:      ed,
		sess:    sess,
		palette: opts.Palette,
		quality: opts.JPEGQuality,
		logger:  opts.Logger,
	}
	if a.quality <= 0 {
		a.quality = defaultJPEGQuality
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.current.Store(-1)
	return a
}

// Editor returns the editor.
func (a *App) Editor() *editor.Editor { return a.ed }

// Session returns the session.
func (a *App) Session() *session.Manager { return a.sess }

// Frame returns the loaded frame, nil before Open.
func (a *App) Frame() *session.Frame { return a.frame }

// CurrentIndex returns the index of the loaded image or -1. Safe for
// concurrent use.
func (a *App) CurrentIndex() int { return int(a.current.Load()) }

// Open loads the first loadable image. It fails with session.ErrNoMoreImages
// when none of the listed images can be loaded.
func (a *App) Open() error {
	f, err := a.sess.Open()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	a.show(f)
	return nil
}

func (a *App) show(f *session.Frame) {
	a.frame = f
	a.current.Store(int64(f.Index))
	a.ed.Reset(f.Image, f.Boxes)
	imagesLoadedTotal.Inc()
	a.logger.Info("Image loaded",
		"index", f.Index,
		"image", f.Name,
		"width", f.Size.X,
		"height", f.Size.Y,
		"boxes", len(f.Boxes),
		"skipped_lines", f.Skipped)
}

// Run opens the session if needed, draws the first frame and then processes
// events until src is exhausted, ctx is done or the quit command arrives.
// The current image is saved on the way out.
func (a *App) Run(ctx context.Context, src editor.InputSource, r editor.Renderer) error {
	if a.frame == nil {
		if err := a.Open(); err != nil {
			return err
		}
	}
	if err := a.ed.Draw(r); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	for {
		ev, err := src.Next(ctx)
		if err != nil {
			saveErr := a.Save()
			if errors.Is(err, io.EOF) {
				return saveErr
			}
			return errors.Join(err, saveErr)
		}

		quit := a.Dispatch(ev)
		if err := a.ed.Draw(r); err != nil {
			return errors.Join(fmt.Errorf("draw: %w", err), a.Save())
		}
		if quit {
			a.logger.Info("Quit requested")
			return a.Save()
		}
	}
}

// Dispatch handles a single event and reports whether it requested quit.
func (a *App) Dispatch(ev editor.Event) bool {
	switch ev := ev.(type) {
	case editor.PointerEvent:
		eventsTotal.WithLabelValues("pointer").Inc()
		a.ed.HandlePointer(ev)
	case editor.KeyEvent:
		eventsTotal.WithLabelValues("key").Inc()
		return a.Execute(a.ed.HandleKey(ev))
	}
	return false
}

// Execute carries out cmd and reports whether it is the quit command.
func (a *App) Execute(cmd editor.Command) bool {
	if cmd == editor.CommandNone {
		return false
	}
	commandsTotal.WithLabelValues(cmd.String()).Inc()
	a.logger.Debug("Executing command", "command", cmd.String())

	switch cmd {
	case editor.CommandSave:
		if err := a.Save(); err == nil {
			a.ed.SetMessage(MsgSaved)
		}
	case editor.CommandNext:
		a.advance(1)
	case editor.CommandPrev:
		a.advance(-1)
	case editor.CommandExport:
		a.export()
	case editor.CommandHelp:
		help := editor.HelpText()
		a.logger.Info("Key bindings", "help", help)
		a.ed.SetMessage(help)
	case editor.CommandQuit:
		return true
	}
	return false
}

// Save writes the boxes of the current image. A failure is logged and shown
// in the overlay, and the boxes stay in memory for a retry.
func (a *App) Save() error {
	if err := a.sess.Save(a.ed.Boxes()); err != nil {
		savesTotal.WithLabelValues("error").Inc()
		a.logger.Error("Failed to save boxes", "error", err)
		a.ed.SetMessage("save failed: " + err.Error())
		return err
	}
	savesTotal.WithLabelValues("success").Inc()
	if path, ok := a.sess.CurrentBoxPath(); ok {
		a.logger.Info("Boxes saved", "path", path, "boxes", a.ed.Boxes().Len())
	}
	return nil
}

func (a *App) advance(dir int) {
	f, err := a.sess.Advance(dir, a.ed.Boxes())
	var pe *session.PersistError
	switch {
	case err == nil:
		savesTotal.WithLabelValues("success").Inc()
		a.show(f)
	case errors.Is(err, session.ErrNoMoreImages):
		// the current image was saved before the step failed
		savesTotal.WithLabelValues("success").Inc()
		a.logger.Info("No more images", "direction", dir)
		a.ed.SetMessage(MsgNoMoreImages)
	case errors.As(err, &pe):
		savesTotal.WithLabelValues("error").Inc()
		a.logger.Error("Failed to save boxes", "error", err)
		a.ed.SetMessage("save failed: " + err.Error())
	default:
		a.logger.Error("Failed to advance", "direction", dir, "error", err)
		a.ed.SetMessage(err.Error())
	}
}

func (a *App) export() {
	path, ok := a.sess.CurrentExportPath()
	if !ok {
		return
	}
	boxes := a.ed.Boxes().Boxes()
	if err := render.SaveAnnotated(path, a.ed.Image(), boxes, a.palette, a.quality); err != nil {
		a.logger.Error("Failed to export annotated image", "path", path, "error", err)
		a.ed.SetMessage("export failed: " + err.Error())
		return
	}
	a.logger.Info("Annotated image exported", "path", path, "boxes", len(boxes))
	a.ed.SetMessage("exported " + filepath.Base(path))
}
