package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/boxlabel/internal/input"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/MeKo-Tech/boxlabel/internal/utils"
	"github.com/spf13/cobra"
)

// replayCmd drives the editor from a script without a display.
var replayCmd = &cobra.Command{
	Use:   "replay <image-list> <script>",
	Short: "Replay scripted input against an image list",
	Long: `Replay a script of pointer and key events against the editor and save
the boxes of the current image when the script ends.

Script directives, one per line:
  down X Y | move X Y | up X Y   pointer events in image coordinates
  drag X0 Y0 X1 Y1               down, move and up in one line
  key NAME...                    key presses: a, enter, esc, left, ctrl+e, ...
  type TEXT                      one key press per character
  # comment

Examples:
  boxlabel replay images.txt session.script
  boxlabel replay images.txt session.script --frame last.png`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		script, err := input.LoadScript(args[1])
		if err != nil {
			return err
		}

		a, palette, err := newApp(cmd, cfg, args[0])
		if err != nil {
			return err
		}

		r := render.NewRaster(palette)
		if err := a.Run(context.Background(), script, r); err != nil {
			return err
		}

		slog.Info("Replay finished",
			"events", script.Len(),
			"frames", r.Presented(),
			"image", a.Frame().Name,
			"boxes", a.Editor().Boxes().Len())

		if frame, _ := cmd.Flags().GetString("frame"); frame != "" {
			if err := utils.SaveImage(frame, r.Frame(), cfg.Export.JPEGQuality); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d box(es)\n", a.Frame().Name, a.Editor().Boxes().Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("frame", "", "write the last frame to this image file")
	addBoxDirFlag(replayCmd)
}
