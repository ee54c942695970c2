package cmd

import (
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/boxlabel/internal/app"
	"github.com/MeKo-Tech/boxlabel/internal/config"
	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/MeKo-Tech/boxlabel/internal/session"
	"github.com/spf13/cobra"
)

// openSession creates the session for an image list, honoring --box-dir.
func openSession(cmd *cobra.Command, cfg *config.Config, listPath string) (*session.Manager, error) {
	boxDir := cfg.Session.BoxDir
	if f := cmd.Flags().Lookup("box-dir"); f != nil && f.Changed {
		boxDir = f.Value.String()
	}
	return session.NewManager(listPath,
		session.WithBoxDir(boxDir),
		session.WithLogger(slog.Default()))
}

// newApp wires editor, session and palette from cfg.
func newApp(cmd *cobra.Command, cfg *config.Config, listPath string) (*app.App, render.Palette, error) {
	palette, err := cfg.Palette()
	if err != nil {
		return nil, render.Palette{}, fmt.Errorf("invalid render colors: %w", err)
	}
	sess, err := openSession(cmd, cfg, listPath)
	if err != nil {
		return nil, render.Palette{}, err
	}
	a := app.New(editor.New(cfg.ToEditorConfig()), sess, app.Options{
		Palette:     palette,
		JPEGQuality: cfg.Export.JPEGQuality,
		Logger:      slog.Default(),
	})
	return a, palette, nil
}

func addBoxDirFlag(cmd *cobra.Command) {
	cmd.Flags().String("box-dir", "", "box record directory (default: <image list dir>/box)")
}
