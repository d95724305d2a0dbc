package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/engine"
	"github.com/user/gosec-posture/pkg/report"
)

var showCmd = &cobra.Command{
	Use:   "show [narrative.md | -]",
	Short: "Render a narrative, or a saved snapshot as one, in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshotPath, _ := cmd.Flags().GetString("snapshot")
		style, _ := cmd.Flags().GetString("style")
		raw, _ := cmd.Flags().GetBool("raw")

		var md string
		if len(args) == 1 {
			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			md = text
		} else {
			snap, err := report.LoadSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			md = snap.Narrative
			if md == "" {
				md, err = engine.RenderNarrative(engine.NarrativeDocument{
					Summary: fmt.Sprintf("Posture score %d/100 (%s, %s). Snapshot %s taken %s.",
						snap.Score, snap.Variant, snap.Source, snap.ID, snap.CreatedAt.Format("2006-01-02")),
					Findings: snap.Findings,
				})
				if err != nil {
					return err
				}
			}
		}

		out := cmd.OutOrStdout()
		if raw {
			fmt.Fprint(out, md)
			return nil
		}
		rendered, err := report.RenderMarkdown(md, style, 100)
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().String("snapshot", report.DefaultSnapshotPath, "Snapshot to render when no file is given")
	showCmd.Flags().String("style", "dark", "Glamour style (dark, light, dracula, notty)")
	showCmd.Flags().Bool("raw", false, "Print markdown without terminal rendering")

	rootCmd.AddCommand(showCmd)
}
