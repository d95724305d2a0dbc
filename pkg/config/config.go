package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/gosec-posture/pkg/engine"
	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// ScoringConfig overrides parts of engine.DefaultScoringPolicy
type ScoringConfig struct {
	RedFlagThreshold      float64            `yaml:"red_flag_threshold,omitempty"`
	SeverityWeights       map[string]float64 `yaml:"severity_weights,omitempty"`
	MitigationMultipliers map[string]float64 `yaml:"mitigation_multipliers,omitempty"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`
	CatalogPath      string                    `yaml:"catalog_path,omitempty"`
	Scoring          ScoringConfig             `yaml:"scoring,omitempty"`
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".gosec-posture")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists yet
func Default() *Config {
	return &Config{
		SelectedProvider: "gemini",
		SelectedModel:    "gemini-1.5-flash",
		Providers:        make(map[string]ProviderConfig),
	}
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads the config at path, returning defaults if it does not exist.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigTo(cfg, path)
}

// SaveConfigTo writes cfg to path.
func SaveConfigTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}

func (c *Config) SetBaseURL(provider, url string) {
	p := c.Providers[provider]
	p.BaseURL = url
	c.Providers[provider] = p
}

func (c *Config) GetBaseURL(provider string) string {
	return c.Providers[provider].BaseURL
}

// ScoringPolicy merges the configured overrides over the default policy and validates the result.
func (c *Config) ScoringPolicy() (engine.ScoringPolicy, error) {
	override := engine.ScoringPolicy{
		RedFlagThreshold:      c.Scoring.RedFlagThreshold,
		SeverityWeights:       make(map[engine.Severity]float64),
		MitigationMultipliers: make(map[engine.Mitigation]float64),
	}
	for k, v := range c.Scoring.SeverityWeights {
		sev, ok := engine.LookupSeverity(k)
		if !ok {
			return engine.ScoringPolicy{}, fmt.Errorf("%w: unknown severity %q in severity_weights", engine.ErrInvalidPolicy, k)
		}
		override.SeverityWeights[sev] = v
	}
	for k, v := range c.Scoring.MitigationMultipliers {
		m, ok := engine.LookupMitigation(k)
		if !ok {
			return engine.ScoringPolicy{}, fmt.Errorf("%w: unknown mitigation %q in mitigation_multipliers", engine.ErrInvalidPolicy, k)
		}
		override.MitigationMultipliers[m] = v
	}

	policy := engine.DefaultScoringPolicy().Merge(override)
	if err := policy.Validate(); err != nil {
		return engine.ScoringPolicy{}, err
	}
	return policy, nil
}

// Catalog returns the configured catalog, or the embedded default when no path is set.
func (c *Config) Catalog() (*engine.Catalog, error) {
	if c.CatalogPath == "" {
		return engine.DefaultCatalog(), nil
	}
	return LoadCatalog(c.CatalogPath)
}
