package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/gosec-posture/pkg/engine"
)

func TestLoadConfigFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.SelectedProvider)
	assert.NotNil(t, cfg.Providers)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.SelectedProvider = "openai"
	cfg.SelectedModel = "gpt-4o-mini"
	cfg.SetAPIKey("openai", "sk-test")
	cfg.Scoring.RedFlagThreshold = 0.9
	require.NoError(t, SaveConfigTo(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", loaded.SelectedProvider)
	assert.Equal(t, "gpt-4o-mini", loaded.SelectedModel)
	assert.Equal(t, "sk-test", loaded.GetAPIKey("openai"))
	assert.Equal(t, 0.9, loaded.Scoring.RedFlagThreshold)
}

func TestConfig_ScoringPolicy(t *testing.T) {
	cfg := Default()
	policy, err := cfg.ScoringPolicy()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultScoringPolicy(), policy)

	cfg.Scoring = ScoringConfig{
		RedFlagThreshold:      0.6,
		SeverityWeights:       map[string]float64{"critical": 50},
		MitigationMultipliers: map[string]float64{"Partial": 0.25},
	}
	policy, err = cfg.ScoringPolicy()
	require.NoError(t, err)
	assert.Equal(t, 0.6, policy.RedFlagThreshold)
	assert.Equal(t, 50.0, policy.SeverityWeights[engine.SeverityCritical])
	assert.Equal(t, 0.25, policy.MitigationMultipliers[engine.MitigationPartial])

	cfg.Scoring = ScoringConfig{SeverityWeights: map[string]float64{"severe": 10}}
	_, err = cfg.ScoringPolicy()
	assert.ErrorIs(t, err, engine.ErrInvalidPolicy)

	cfg.Scoring = ScoringConfig{MitigationMultipliers: map[string]float64{"full": 2}}
	_, err = cfg.ScoringPolicy()
	assert.ErrorIs(t, err, engine.ErrInvalidPolicy)
}

func TestConfig_Catalog(t *testing.T) {
	cfg := Default()
	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Same(t, engine.DefaultCatalog(), cat)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: small
controls:
  - question: Is MFA on?
    severity: Critical
    critical_weight: true
`), 0600))

	cfg.CatalogPath = path
	cat, err = cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "small", cat.Name())

	require.NoError(t, os.WriteFile(path, []byte("controls:\n  - question: Q\n    severity: Severe\n"), 0600))
	_, err = cfg.Catalog()
	assert.ErrorIs(t, err, engine.ErrInvalidCatalog)
}

func TestParseResponses(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		responses, err := ParseResponses([]byte(`
"Do you have an incident response plan?": ["Yes", "No"]
"Is MFA on?": "No"
"Empty?":
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Yes", "No"}, responses["Do you have an incident response plan?"])
		assert.Equal(t, []string{"No"}, responses["Is MFA on?"])
		v, ok := responses["Empty?"]
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("json", func(t *testing.T) {
		responses, err := ParseResponses([]byte(`{"Q1": ["Not applicable (N/A)"], "Q2": "Yes"}`))
		require.NoError(t, err)
		assert.Equal(t, engine.ResponseSet{
			"Q1": {"Not applicable (N/A)"},
			"Q2": {"Yes"},
		}, responses)
	})

	t.Run("nested mapping rejected", func(t *testing.T) {
		_, err := ParseResponses([]byte("Q1:\n  nested: true\n"))
		assert.Error(t, err)
	})
}

func TestLoadResponses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Q1: [Yes]\n"), 0600))

	responses, err := LoadResponses(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes"}, responses["Q1"])

	_, err = LoadResponses(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
