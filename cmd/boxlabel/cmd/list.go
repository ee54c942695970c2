package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/MeKo-Tech/boxlabel/internal/export"
	"github.com/spf13/cobra"
)

// listCmd prints the box record inventory of an image list.
var listCmd = &cobra.Command{
	Use:   "list <image-list>",
	Short: "Summarize the box records of an image list",
	Long: `Print one entry per listed image with its decoded size, the state of its
box record and the boxes it holds.

Examples:
  boxlabel list images.txt
  boxlabel list images.txt --format csv --output boxes.csv`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		format := cfg.Export.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		if format == "" {
			format = "text"
		}

		sess, err := openSession(cmd, cfg, args[0])
		if err != nil {
			return err
		}
		summaries := export.Collect(sess)

		var out io.Writer = cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.Create(path) //nolint:gosec // user-provided output path
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		return export.Format(out, summaries, format)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv, yaml)")
	listCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	addBoxDirFlag(listCmd)
}
