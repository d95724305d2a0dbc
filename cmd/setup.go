package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/narrator"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		prompt := func(label string) string {
			fmt.Fprint(out, label)
			scanner.Scan()
			return strings.TrimSpace(scanner.Text())
		}

		fmt.Fprintln(out, "Welcome to GoSec-Posture Setup Wizard")
		fmt.Fprintln(out, "-------------------------------------")

		// 1. Select Provider
		fmt.Fprintln(out, "Step 1: Choose the AI provider used for narrative reports")
		fmt.Fprintln(out, "1. Gemini (Google)")
		fmt.Fprintln(out, "2. OpenAI")
		fmt.Fprintln(out, "3. Ollama (local)")

		var provider string
		switch strings.ToLower(prompt("Enter number or name > ")) {
		case "1", "gemini":
			provider = "gemini"
		case "2", "openai":
			provider = "openai"
		case "3", "ollama":
			provider = "ollama"
		default:
			return fmt.Errorf("invalid choice")
		}

		// 2. Credentials
		pc := narrator.ProviderConfig{Name: provider}
		if provider == "ollama" {
			fmt.Fprintf(out, "\nStep 2: Ollama server URL (blank for http://localhost:11434)\n")
			pc.BaseURL = prompt("> ")
		} else {
			fmt.Fprintf(out, "\nStep 2: Enter API Key for %s\n", provider)
			pc.APIKey = prompt("> ")
		}
		if err := pc.Validate(); err != nil {
			return err
		}

		// 3. Fetch Models
		fmt.Fprintln(out, "\nStep 3: Validating and fetching available models...")
		ctx := context.Background()
		tempProvider, err := narrator.NewProvider(ctx, pc)
		if err != nil {
			return fmt.Errorf("initializing provider: %w", err)
		}
		defer closeProvider(tempProvider)

		models, err := tempProvider.ListModels(ctx)
		var selectedModel string
		if err != nil || len(models) == 0 {
			fmt.Fprintf(out, "Warning: Could not fetch models: %v\n", err)
			selectedModel = prompt("Enter model name manually > ")
		} else {
			fmt.Fprintf(out, "Successfully retrieved %d models.\n", len(models))
			for i, m := range models {
				fmt.Fprintf(out, "%d. %s\n", i+1, m)
			}
			selIdx, err := strconv.Atoi(prompt("Select Model (number) > "))
			if err != nil || selIdx < 1 || selIdx > len(models) {
				fmt.Fprintln(out, "Invalid selection. Using first available model.")
				selectedModel = models[0]
			} else {
				selectedModel = models[selIdx-1]
			}
		}

		// 4. Save Configuration
		fmt.Fprintln(out, "\nStep 4: Saving Configuration...")
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		cfg.SelectedProvider = provider
		cfg.SelectedModel = selectedModel
		if pc.APIKey != "" {
			cfg.SetAPIKey(provider, pc.APIKey)
		}
		if pc.BaseURL != "" {
			cfg.SetBaseURL(provider, pc.BaseURL)
		}

		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintln(out, "-------------------------------------")
		fmt.Fprintln(out, "Setup Complete!")
		fmt.Fprintf(out, "Provider: %s\n", provider)
		fmt.Fprintf(out, "Model:    %s\n", selectedModel)
		fmt.Fprintln(out, "You can now run 'gosec-posture narrate --answers answers.yaml'")
		return nil
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
