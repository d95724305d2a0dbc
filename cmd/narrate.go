package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/engine"
	"github.com/user/gosec-posture/pkg/narrator"
	"github.com/user/gosec-posture/pkg/report"
)

var narrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "Ask the configured LLM for a narrative risk report",
	Long: `Build the baseline from the answers, send it to the configured provider,
then parse the returned narrative back into findings. The structured baseline
score is kept and any drift from the narrative is reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetString("answers")
		variant, _ := cmd.Flags().GetString("variant")
		outPath, _ := cmd.Flags().GetString("out")
		style, _ := cmd.Flags().GetString("style")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		attempts, _ := cmd.Flags().GetInt("attempts")
		promptOnly, _ := cmd.Flags().GetBool("prompt-only")

		a, err := newAssessment()
		if err != nil {
			return err
		}
		run, err := a.run(answers, variant)
		if err != nil {
			return err
		}
		req := narrator.Request{Variant: run.baseline.Variant, Responses: run.responses, Baseline: run.baseline}

		out := cmd.OutOrStdout()
		if promptOnly {
			prompt, err := narrator.BuildPrompt(a.catalog, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, narrator.GetSystemPrompt())
			fmt.Fprintln(out, prompt)
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		provider, err := newProvider(ctx, a.cfg)
		if err != nil {
			return fmt.Errorf("creating AI provider: %w", err)
		}
		defer closeProvider(provider)

		fmt.Fprintf(cmd.ErrOrStderr(), "Requesting narrative from %s (model: %s)...\n", a.cfg.SelectedProvider, a.cfg.SelectedModel)
		n := narrator.NewNarrator(provider,
			narrator.WithCatalog(a.catalog),
			narrator.WithMaxAttempts(attempts),
			narrator.WithLogger(logger))
		res, err := n.Narrate(ctx, req)
		if err != nil {
			return err
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(res.Narrative), 0644); err != nil {
				return err
			}
		}

		rendered, err := report.RenderMarkdown(res.Narrative, style, 100)
		if err != nil {
			logger.Warn("markdown rendering failed, printing raw narrative", "error", err)
			rendered = res.Narrative
		}
		fmt.Fprintln(out, rendered)

		p := report.NewPrinter(out)
		p.PrintResolution(engine.ResolveScore(a.policy, &run.summary, res.Findings))
		if outPath != "" {
			p.PrintSuccess("Narrative written to " + outPath)
		}
		return nil
	},
}

func init() {
	narrateCmd.Flags().StringP("answers", "a", "", "Answers file (YAML or JSON)")
	narrateCmd.Flags().StringP("variant", "v", string(engine.VariantDeveloper), "Audit subject (developer, organization)")
	narrateCmd.Flags().StringP("out", "o", "", "Also write the raw narrative markdown to this file")
	narrateCmd.Flags().String("style", "dark", "Glamour style for terminal rendering")
	narrateCmd.Flags().Duration("timeout", 2*time.Minute, "Overall timeout for the LLM call")
	narrateCmd.Flags().Int("attempts", 2, "Attempts before accepting a narrative without findings")
	narrateCmd.Flags().Bool("prompt-only", false, "Print the prompt instead of calling the provider")
	_ = narrateCmd.MarkFlagRequired("answers")

	rootCmd.AddCommand(narrateCmd)
}
