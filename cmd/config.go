package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/engine"
	"github.com/user/gosec-posture/pkg/narrator"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (providers, models, keys, scoring)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key <provider> <key>",
	Short: "Manually set API key for a provider",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := strings.ToLower(args[0])

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		cfg.SetAPIKey(provider, args[1])
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key saved for provider: %s\n", provider)
		return nil
	},
}

var setURLCmd = &cobra.Command{
	Use:   "set-url <provider> <url>",
	Short: "Set the server URL for a self-hosted provider (ollama)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := strings.ToLower(args[0])

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		cfg.SetBaseURL(provider, args[1])
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "URL saved for provider: %s\n", provider)
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Manually set the active provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if provider != "" {
			cfg.SelectedProvider = strings.ToLower(provider)
		}
		if model != "" {
			cfg.SelectedModel = model
		}

		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
		return nil
	},
}

var setCatalogCmd = &cobra.Command{
	Use:   "set-catalog <path>",
	Short: "Use a custom control catalog file (empty string restores the built-in one)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		cfg.CatalogPath = args[0]
		cat, err := cfg.Catalog()
		if err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog set to %s\n", cat.Name())
		return nil
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Fetching models for %s...\n", cfg.SelectedProvider)
		ctx := context.Background()
		p, err := newProvider(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initializing provider: %w", err)
		}
		defer closeProvider(p)

		models, err := p.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("fetching models: %w", err)
		}

		fmt.Fprintf(out, "\nAvailable Models (%s):\n", cfg.SelectedProvider)
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration and effective scoring policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		policy, err := cfg.ScoringPolicy()
		if err != nil {
			return err
		}

		keys := make(map[string]string, len(cfg.Providers))
		for name, p := range cfg.Providers {
			keys[name] = maskKey(p.APIKey)
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(struct {
			Provider string               `yaml:"provider"`
			Model    string               `yaml:"model"`
			Keys     map[string]string    `yaml:"api_keys,omitempty"`
			Catalog  string               `yaml:"catalog"`
			Policy   engine.ScoringPolicy `yaml:"scoring"`
		}{cfg.SelectedProvider, cfg.SelectedModel, keys, catalogLabel(cfg.CatalogPath), policy})
	},
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func catalogLabel(path string) string {
	if path == "" {
		return engine.DefaultCatalog().Name() + " (built-in)"
	}
	return path
}

func init() {
	setModelCmd.Flags().StringP("provider", "p", "", "Provider ("+strings.Join(narrator.Providers, ", ")+")")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setURLCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(setCatalogCmd)
	configCmd.AddCommand(listModelsCmd)
	configCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(configCmd)
}
