package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/gosec-posture/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "gosec-posture",
	Short: "Deterministic security posture scoring",
	Long: `GoSec-Posture turns answers to a security control questionnaire into
findings, risk totals and a 0-100 posture score. It can also ask an LLM for a
narrative risk report and parse that report back into the same findings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if DebugMode {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

var (
	DebugMode  bool
	ConfigPath string

	logger = slog.Default()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig reads --config if given, else ~/.gosec-posture/config.yaml
func loadConfig() (*config.Config, error) {
	if ConfigPath != "" {
		return config.LoadConfigFrom(ConfigPath)
	}
	return config.LoadConfig()
}

func saveConfig(cfg *config.Config) error {
	if ConfigPath != "" {
		return config.SaveConfigTo(cfg, ConfigPath)
	}
	return config.SaveConfig(cfg)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&ConfigPath, "config", "", "Config file (default ~/.gosec-posture/config.yaml)")
}
