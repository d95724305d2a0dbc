package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/engine"
	"github.com/user/gosec-posture/pkg/report"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score questionnaire answers against the control catalog",
	Example: `  gosec-posture assess --answers answers.yaml --variant developer
  gosec-posture assess -a answers.yaml -v organization --chart --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetString("answers")
		variant, _ := cmd.Flags().GetString("variant")
		asJSON, _ := cmd.Flags().GetBool("json")
		showControls, _ := cmd.Flags().GetBool("controls")
		showChart, _ := cmd.Flags().GetBool("chart")
		save, _ := cmd.Flags().GetBool("save")
		snapshotPath, _ := cmd.Flags().GetString("snapshot")

		a, err := newAssessment()
		if err != nil {
			return err
		}
		run, err := a.run(answers, variant)
		if err != nil {
			return err
		}
		baseline, summary := run.baseline, run.summary

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, struct {
				engine.Summary
				Controls        []engine.ControlResult `json:"controls"`
				CriticalMissing int                    `json:"critical_missing"`
				CriticalTotal   int                    `json:"critical_total"`
			}{summary, baseline.Controls, baseline.CriticalMissing, baseline.CriticalTotal})
		}

		p := report.NewPrinter(out)
		p.PrintSummary(summary)
		if showControls {
			p.PrintControls(baseline.Controls)
		}
		if showChart {
			fmt.Fprintln(out)
			fmt.Fprintln(out, report.RenderRiskChart(summary.Totals, 60, 20))
		}

		if save {
			snap := report.NewSnapshot(summary, engine.ScoreFromBaseline)
			if err := snap.Save(snapshotPath); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			p.PrintSuccess(fmt.Sprintf("Snapshot %s saved to %s", snap.ID, snapshotPath))
		}
		return nil
	},
}

func init() {
	assessCmd.Flags().StringP("answers", "a", "", "Answers file (YAML or JSON, question -> label(s))")
	assessCmd.Flags().StringP("variant", "v", string(engine.VariantDeveloper), "Audit subject (developer, organization)")
	assessCmd.Flags().Bool("json", false, "Print the result as JSON")
	assessCmd.Flags().Bool("controls", false, "List every applicable control and its status")
	assessCmd.Flags().Bool("chart", false, "Draw a severity bar chart")
	assessCmd.Flags().Bool("save", false, "Save the result as a snapshot for later diffs")
	assessCmd.Flags().String("snapshot", report.DefaultSnapshotPath, "Snapshot file")
	_ = assessCmd.MarkFlagRequired("answers")

	rootCmd.AddCommand(assessCmd)
}
