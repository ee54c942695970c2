package cmd

import (
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/boxlabel/internal/export"
	"github.com/spf13/cobra"
)

// exportCmd writes annotated copies of the listed images.
var exportCmd = &cobra.Command{
	Use:   "export <image-list>",
	Short: "Write images with their boxes drawn in",
	Long: `Write <box dir>/<name>_<W>x<H>.jpg for every listed image that has a box
record, with the boxes and labels drawn in.

Examples:
  boxlabel export images.txt
  boxlabel export images.txt --include-empty --quality 80`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		quality := cfg.Export.JPEGQuality
		if cmd.Flags().Changed("quality") {
			quality, _ = cmd.Flags().GetInt("quality")
		}
		if quality < 1 || quality > 100 {
			return fmt.Errorf("invalid jpeg quality: %d (must be between 1 and 100)", quality)
		}
		includeEmpty, _ := cmd.Flags().GetBool("include-empty")

		palette, err := cfg.Palette()
		if err != nil {
			return fmt.Errorf("invalid render colors: %w", err)
		}
		sess, err := openSession(cmd, cfg, args[0])
		if err != nil {
			return err
		}

		written, err := export.ExportAll(sess, export.AnnotateOptions{
			Palette:      palette,
			JPEGQuality:  quality,
			IncludeEmpty: includeEmpty,
			Logger:       slog.Default(),
		})
		for _, path := range written {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d image(s) exported\n", len(written))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Bool("include-empty", false, "also export images without a box record")
	exportCmd.Flags().Int("quality", 90, "JPEG quality (1-100)")
	addBoxDirFlag(exportCmd)
}
