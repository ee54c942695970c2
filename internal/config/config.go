package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/geometry"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/MeKo-Tech/boxlabel/internal/utils"
)

// Frame modes of the WebSocket editor.
const (
	FrameModeOps = "ops"
	FrameModePNG = "png"
)

const defaultJPEGQuality = 90

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validFormats    = []string{"text", "json", "csv", "yaml"}
	validFrameModes = []string{FrameModeOps, FrameModePNG}
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	p := render.DefaultPalette()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Editor: EditorConfig{
			EdgeTolerance: geometry.DefaultEdgeTolerance,
			UnitSize:      editor.DefaultUnitSize,
		},
		Session: SessionConfig{},
		Render: RenderConfig{
			BoxColor:      utils.FormatHexColor(p.Box),
			SelectedColor: utils.FormatHexColor(p.Selected),
			EdgeColor:     utils.FormatHexColor(p.ActiveEdge),
			TextColor:     utils.FormatHexColor(p.Text),
		},
		Export: ExportConfig{
			Format:      "text",
			JPEGQuality: defaultJPEGQuality,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ShutdownTimeout: 10,
			FrameMode:       FrameModeOps,
			CORSOrigin:      "*",
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Export.Format != "" && !contains(validFormats, c.Export.Format) {
		return fmt.Errorf("invalid export format: %s (must be one of: %s)", c.Export.Format, strings.Join(validFormats, ", "))
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpeg quality: %d (must be between 1 and 100)", c.Export.JPEGQuality)
	}

	if c.Editor.EdgeTolerance < 0 {
		return fmt.Errorf("invalid edge tolerance: %d (must not be negative)", c.Editor.EdgeTolerance)
	}
	if c.Editor.UnitSize <= 0 {
		return fmt.Errorf("invalid unit size: %d (must be positive)", c.Editor.UnitSize)
	}

	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("invalid render colors: %w", err)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %d (must be positive)", c.Server.ShutdownTimeout)
	}
	if !contains(validFrameModes, c.Server.FrameMode) {
		return fmt.Errorf("invalid frame mode: %s (must be one of: %s)", c.Server.FrameMode, strings.Join(validFrameModes, ", "))
	}

	return nil
}

// ToEditorConfig converts to editor.Config.
func (c *Config) ToEditorConfig() editor.Config {
	return editor.Config{
		EdgeTolerance: c.Editor.EdgeTolerance,
		UnitSize:      c.Editor.UnitSize,
	}
}

// Palette parses the render colors.
func (c *Config) Palette() (render.Palette, error) {
	return render.PaletteFromHex(c.Render.BoxColor, c.Render.SelectedColor, c.Render.EdgeColor, c.Render.TextColor)
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
