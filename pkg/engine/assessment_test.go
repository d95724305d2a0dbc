package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeFindings(t *testing.T) {
	findings := []Finding{
		{Text: "Missing MFA", Severity: SeverityCritical, Mitigation: MitigationNone},
		{Text: "missing   mfa", Severity: SeverityCritical, Mitigation: MitigationPartial},
		{Text: "Missing MFA", Severity: SeverityHigh, Mitigation: MitigationNone},
		{Text: "No backups", Severity: SeverityHigh, Mitigation: MitigationNone},
	}

	out := DedupeFindings(findings)
	require.Len(t, out, 3)
	assert.Equal(t, findings[0], out[0])
	assert.Equal(t, findings[2], out[1])
	assert.Equal(t, findings[3], out[2])
}

func TestCompareFindings(t *testing.T) {
	baseline := []Finding{
		{Text: "Finding 1", Severity: SeverityMedium},
		{Text: "Finding 2", Severity: SeverityMedium},
	}
	current := []Finding{
		{Text: "Finding 1", Severity: SeverityMedium},
		{Text: "Finding 3", Severity: SeverityHigh},
	}

	diff := CompareFindings(baseline, current)

	require.Len(t, diff.Unchanged, 1)
	assert.Equal(t, "Finding 1", diff.Unchanged[0].Text)
	require.Len(t, diff.New, 1)
	assert.Equal(t, "Finding 3", diff.New[0].Text)
	require.Len(t, diff.Resolved, 1)
	assert.Equal(t, "Finding 2", diff.Resolved[0].Text)
}

func TestCompareFindings_SeverityChangeIsNew(t *testing.T) {
	diff := CompareFindings(
		[]Finding{{Text: "gap", Severity: SeverityLow}},
		[]Finding{{Text: "gap", Severity: SeverityHigh}},
	)
	assert.Len(t, diff.New, 1)
	assert.Len(t, diff.Resolved, 1)
	assert.Empty(t, diff.Unchanged)
}

func TestResolveScore(t *testing.T) {
	policy := DefaultScoringPolicy()
	narrative := []Finding{
		{Text: "a", Severity: SeverityCritical, Mitigation: MitigationNone},
		{Text: "b", Severity: SeverityLow, Mitigation: MitigationNone},
	}

	t.Run("narrative fallback", func(t *testing.T) {
		res := ResolveScore(policy, nil, narrative)
		assert.Equal(t, ScoreFromNarrative, res.Source)
		assert.Equal(t, 55, res.Score)
		assert.Nil(t, res.BaselineScore)
		require.NotNil(t, res.NarrativeScore)
		assert.Equal(t, 55, *res.NarrativeScore)
	})

	t.Run("baseline preferred", func(t *testing.T) {
		base := policy.Summarize(narrative[:1])
		res := ResolveScore(policy, &base, narrative)
		assert.Equal(t, ScoreFromBaseline, res.Source)
		assert.Equal(t, 60, res.Score)
		assert.Equal(t, 1, res.FindingDrift)
		assert.Equal(t, -5, res.ScoreDrift)
		assert.False(t, res.Consistent)
	})

	t.Run("consistent", func(t *testing.T) {
		base := policy.Summarize(narrative)
		res := ResolveScore(policy, &base, narrative)
		assert.True(t, res.Consistent)
		assert.Equal(t, 55, res.Score)
	})

	t.Run("nothing at all", func(t *testing.T) {
		res := ResolveScore(policy, nil, nil)
		assert.Equal(t, 100, res.Score)
	})
}
