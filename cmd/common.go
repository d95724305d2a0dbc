package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/user/gosec-posture/pkg/config"
	"github.com/user/gosec-posture/pkg/engine"
	"github.com/user/gosec-posture/pkg/narrator"
)

// environment fallbacks when no key is stored in the config file
var apiKeyEnv = map[string]string{
	"gemini": "GOOGLE_API_KEY",
	"openai": "OPENAI_API_KEY",
}

// assessment bundles the config-derived pieces every scoring command needs
type assessment struct {
	cfg     *config.Config
	catalog *engine.Catalog
	policy  engine.ScoringPolicy
	builder *engine.Builder
}

func newAssessment() (*assessment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.ScoringPolicy()
	if err != nil {
		return nil, err
	}
	logger.Debug("assessment configured",
		"catalog", catalog.Name(),
		"red_flag_threshold", policy.RedFlagThreshold)

	return &assessment{
		cfg:     cfg,
		catalog: catalog,
		policy:  policy,
		builder: engine.NewBuilder(catalog, engine.WithPolicy(policy), engine.WithLogger(logger)),
	}, nil
}

// baselineRun is one answers file built and scored against the catalog
type baselineRun struct {
	responses engine.ResponseSet
	baseline  *engine.Baseline
	summary   engine.Summary
}

func (a *assessment) run(answersPath, variantName string) (*baselineRun, error) {
	variant, err := engine.ParseVariant(strings.ToLower(variantName))
	if err != nil {
		return nil, err
	}
	responses, err := config.LoadResponses(answersPath)
	if err != nil {
		return nil, err
	}
	b, err := a.builder.Build(responses, variant)
	if err != nil {
		return nil, err
	}
	return &baselineRun{responses: responses, baseline: b, summary: a.policy.SummarizeBaseline(b)}, nil
}

// readInput reads a file, or stdin when path is "-"
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func newProvider(ctx context.Context, cfg *config.Config) (narrator.LLMProvider, error) {
	name := cfg.SelectedProvider
	if name == "" {
		name = "gemini"
	}
	apiKey := cfg.GetAPIKey(name)
	if apiKey == "" {
		if env, ok := apiKeyEnv[name]; ok {
			apiKey = os.Getenv(env)
		}
	}
	return narrator.NewProvider(ctx, narrator.ProviderConfig{
		Name:    name,
		APIKey:  apiKey,
		Model:   cfg.SelectedModel,
		BaseURL: cfg.GetBaseURL(name),
	})
}

func closeProvider(p narrator.LLMProvider) {
	if closer, ok := p.(interface{ Close() }); ok {
		closer.Close()
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
