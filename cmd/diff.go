package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/engine"
	"github.com/user/gosec-posture/pkg/report"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the current assessment with a saved snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetString("answers")
		variant, _ := cmd.Flags().GetString("variant")
		narrativePath, _ := cmd.Flags().GetString("narrative")
		snapshotPath, _ := cmd.Flags().GetString("snapshot")

		if (answers == "") == (narrativePath == "") {
			return fmt.Errorf("exactly one of --answers or --narrative is required")
		}

		prev, err := report.LoadSnapshot(snapshotPath)
		if err != nil {
			return fmt.Errorf("loading baseline snapshot %q (run 'assess --save' first): %w", snapshotPath, err)
		}

		a, err := newAssessment()
		if err != nil {
			return err
		}

		var current engine.Summary
		if answers != "" {
			run, err := a.run(answers, variant)
			if err != nil {
				return err
			}
			current = run.summary
		} else {
			text, err := readInput(narrativePath)
			if err != nil {
				return err
			}
			current = a.policy.Summarize(engine.NewParser(engine.WithParserLogger(logger)).Parse(text))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Snapshot Comparison (vs %s, %s):\n", snapshotPath, prev.CreatedAt.Format("2006-01-02 15:04"))
		report.NewPrinter(out).PrintDiff(engine.CompareFindings(prev.Findings, current.Findings), prev.Score, current.Score)
		return nil
	},
}

func init() {
	diffCmd.Flags().StringP("answers", "a", "", "Answers file for the current assessment")
	diffCmd.Flags().StringP("variant", "v", string(engine.VariantDeveloper), "Audit subject for --answers")
	diffCmd.Flags().StringP("narrative", "n", "", "Narrative markdown for the current assessment")
	diffCmd.Flags().String("snapshot", report.DefaultSnapshotPath, "Snapshot file to compare against")

	rootCmd.AddCommand(diffCmd)
}
