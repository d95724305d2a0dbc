package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/engine"
	"github.com/user/gosec-posture/pkg/report"
)

var parseCmd = &cobra.Command{
	Use:   "parse <narrative.md | ->",
	Short: "Recover findings and a score from a markdown risk narrative",
	Long: `Parse a narrative report (## Critical / ## High / ## Medium / ## Low
sections with tagged bullets) back into findings, then aggregate and score them.
When --answers is also given, the structured baseline score is preferred and
any drift between the two is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetString("answers")
		variant, _ := cmd.Flags().GetString("variant")
		asJSON, _ := cmd.Flags().GetBool("json")
		dedupe, _ := cmd.Flags().GetBool("dedupe")
		showChart, _ := cmd.Flags().GetBool("chart")
		save, _ := cmd.Flags().GetBool("save")
		snapshotPath, _ := cmd.Flags().GetString("snapshot")

		text, err := readInput(args[0])
		if err != nil {
			return err
		}

		a, err := newAssessment()
		if err != nil {
			return err
		}

		findings := engine.NewParser(engine.WithParserLogger(logger)).Parse(text)
		if dedupe {
			findings = engine.DedupeFindings(findings)
		}
		summary := a.policy.Summarize(findings)

		var base *engine.Summary
		if answers != "" {
			run, err := a.run(answers, variant)
			if err != nil {
				return err
			}
			base = &run.summary
			summary.Variant = run.summary.Variant
		}
		resolution := engine.ResolveScore(a.policy, base, findings)

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, struct {
				engine.Summary
				Resolution engine.ScoreResolution `json:"resolution"`
			}{summary, resolution})
		}

		p := report.NewPrinter(out)
		p.PrintSummary(summary)
		p.PrintResolution(resolution)
		if showChart {
			fmt.Fprintln(out)
			fmt.Fprintln(out, report.RenderRiskChart(summary.Totals, 60, 20))
		}

		if save {
			snap := report.NewSnapshot(summary, engine.ScoreFromNarrative)
			snap.Narrative = text
			if err := snap.Save(snapshotPath); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			p.PrintSuccess(fmt.Sprintf("Snapshot %s saved to %s", snap.ID, snapshotPath))
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringP("answers", "a", "", "Optional answers file to compare against")
	parseCmd.Flags().StringP("variant", "v", string(engine.VariantDeveloper), "Audit subject for --answers")
	parseCmd.Flags().Bool("json", false, "Print the result as JSON")
	parseCmd.Flags().Bool("dedupe", false, "Drop repeated findings (same severity and text)")
	parseCmd.Flags().Bool("chart", false, "Draw a severity bar chart")
	parseCmd.Flags().Bool("save", false, "Save the result as a snapshot for later diffs")
	parseCmd.Flags().String("snapshot", report.DefaultSnapshotPath, "Snapshot file")

	rootCmd.AddCommand(parseCmd)
}
