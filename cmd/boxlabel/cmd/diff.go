package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/boxlabel/internal/export"
	"github.com/spf13/cobra"
)

// diffCmd compares two box records.
var diffCmd = &cobra.Command{
	Use:   "diff <a.box> <b.box>",
	Short: "Show a unified diff of two box records",
	Long: `Compare two box records line by line after normalizing them: malformed
lines are dropped and boxes are written back in canonical form.

Examples:
  boxlabel diff box/a.png_100x50.box other/a.png_100x50.box
  boxlabel diff old.box new.box --context 1`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		contextLines, _ := cmd.Flags().GetInt("context")

		diff, err := export.DiffRecords(args[0], args[1], contextLines)
		if err != nil {
			return err
		}
		if diff == "" {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "records are identical")
			return nil
		}

		removed, added := export.CountChanges(diff)
		_, _ = fmt.Fprint(cmd.OutOrStdout(), diff)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d box(es) removed, %d added\n", removed, added)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().Int("context", export.DefaultDiffContext, "lines of context around changes")
}
