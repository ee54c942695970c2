//nolint:lll
package config

// Config represents the complete configuration for boxlabel.
// It is loaded from configuration files, environment variables and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Annotation behavior
	Editor EditorConfig `mapstructure:"editor" yaml:"editor" json:"editor"`

	// Image list and box records
	Session SessionConfig `mapstructure:"session" yaml:"session" json:"session"`

	// Frame colors
	Render RenderConfig `mapstructure:"render" yaml:"render" json:"render"`

	// Summaries and annotated images
	Export ExportConfig `mapstructure:"export" yaml:"export" json:"export"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// EditorConfig contains the annotation state machine settings.
type EditorConfig struct {
	EdgeTolerance int `mapstructure:"edge_tolerance" yaml:"edge_tolerance" json:"edge_tolerance"`
	UnitSize      int `mapstructure:"unit_size" yaml:"unit_size" json:"unit_size"`
}

// SessionConfig contains session settings.
type SessionConfig struct {
	// BoxDir overrides <image list directory>/box when set.
	BoxDir string `mapstructure:"box_dir" yaml:"box_dir" json:"box_dir"`
}

// RenderConfig contains the colors of the raster renderer as #RRGGBB.
type RenderConfig struct {
	BoxColor      string `mapstructure:"box_color" yaml:"box_color" json:"box_color"`
	SelectedColor string `mapstructure:"selected_color" yaml:"selected_color" json:"selected_color"`
	EdgeColor     string `mapstructure:"edge_color" yaml:"edge_color" json:"edge_color"`
	TextColor     string `mapstructure:"text_color" yaml:"text_color" json:"text_color"`
}

// ExportConfig contains output settings.
type ExportConfig struct {
	Format      string `mapstructure:"format" yaml:"format" json:"format"`
	JPEGQuality int    `mapstructure:"jpeg_quality" yaml:"jpeg_quality" json:"jpeg_quality"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	FrameMode       string `mapstructure:"frame_mode" yaml:"frame_mode" json:"frame_mode"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
}
