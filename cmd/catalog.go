package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/engine"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the controls evaluated for a variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		variantName, _ := cmd.Flags().GetString("variant")
		asYAML, _ := cmd.Flags().GetBool("yaml")

		a, err := newAssessment()
		if err != nil {
			return err
		}
		variant, err := engine.ParseVariant(strings.ToLower(variantName))
		if err != nil {
			return err
		}
		controls, err := a.catalog.Controls(variant)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(map[string]any{
				"name":     a.catalog.Name(),
				"controls": controls,
			})
		}

		fmt.Fprintf(out, "%s (%s): %d controls\n\n", a.catalog.Name(), variant, len(controls))
		critical := 0
		for i, c := range controls {
			mark := " "
			if c.CriticalWeight {
				mark = "*"
				critical++
			}
			fmt.Fprintf(out, "%2d. %s [%-8s] %s\n", i+1, mark, c.DefaultSeverity, c.Question)
		}
		fmt.Fprintf(out, "\n* critical control (%d of %d). Missing %.0f%% or more raises the red flag.\n",
			critical, len(controls), a.policy.RedFlagThreshold*100)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringP("variant", "v", string(engine.VariantDeveloper), "Audit subject (developer, organization)")
	catalogCmd.Flags().Bool("yaml", false, "Print the controls as a catalog YAML document")

	rootCmd.AddCommand(catalogCmd)
}
