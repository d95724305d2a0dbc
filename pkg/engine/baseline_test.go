package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	qIncident = "Do you have an incident response plan?"
	qMFA      = "Is multi-factor authentication enforced on all accounts?"
	qSecrets  = "Are secrets and credentials kept out of source control?"
	qDeps     = "Are dependencies scanned for known vulnerabilities?"
	qBackups  = "Are backups taken regularly and tested by restoring them?"
	qKeys     = "Are administrative API keys rotated on a defined schedule?"
	qLogs     = "Are build and deployment logs retained for later audit?"
)

func build(t *testing.T, responses ResponseSet, variant Variant) *Baseline {
	t.Helper()
	b, err := NewBuilder(nil).Build(responses, variant)
	require.NoError(t, err)
	return b
}

func TestBuild_AffirmativeOnly(t *testing.T) {
	out := build(t, ResponseSet{qIncident: {"Yes"}}, VariantDeveloper)
	assert.Empty(t, out.Findings)

	out = build(t, ResponseSet{qIncident: {"Yes", "Yes"}}, VariantDeveloper)
	assert.Empty(t, out.Findings)
}

func TestBuild_NegativeOnly(t *testing.T) {
	out := build(t, ResponseSet{qIncident: {"No"}}, VariantDeveloper)

	require.Len(t, out.Findings, 1)
	f := out.Findings[0]
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.Equal(t, MitigationNone, f.Mitigation)
	assert.Nil(t, f.Likelihood)
	assert.True(t, strings.HasPrefix(f.Text, "control missing:"))
	assert.Contains(t, f.Text, qIncident)
	assert.False(t, out.RedFlag)
}

func TestBuild_FreeTextIsNegative(t *testing.T) {
	out := build(t, ResponseSet{qLogs: {"Sometimes"}}, VariantDeveloper)

	require.Len(t, out.Findings, 1)
	assert.Equal(t, SeverityLow, out.Findings[0].Severity)
	assert.Contains(t, out.Findings[0].Text, "control missing")
}

func TestBuild_SentinelsAreCaseSensitive(t *testing.T) {
	out := build(t, ResponseSet{qIncident: {"yes"}}, VariantDeveloper)

	require.Len(t, out.Findings, 1)
	assert.Equal(t, MitigationNone, out.Findings[0].Mitigation)
}

func TestBuild_Contradiction(t *testing.T) {
	out := build(t, ResponseSet{qIncident: {"Yes", "No"}}, VariantDeveloper)

	require.Len(t, out.Findings, 1)
	f := out.Findings[0]
	assert.Equal(t, MitigationPartial, f.Mitigation)
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.Contains(t, f.Text, "conflicting answers detected")
	assert.Equal(t, StatusPartial, out.Controls[0].Status)
}

func TestBuild_NotApplicable(t *testing.T) {
	out := build(t, ResponseSet{qIncident: {"Not applicable (N/A)"}}, VariantDeveloper)

	assert.Empty(t, out.Findings)
	assert.Equal(t, StatusExcluded, out.Controls[0].Status)
	assert.Equal(t, 5, out.CriticalTotal)
	assert.Zero(t, out.CriticalMissing)
}

func TestBuild_NotApplicableWithAnswers(t *testing.T) {
	out := build(t, ResponseSet{
		qIncident: {"Yes", "Not applicable (N/A)"},
		qMFA:      {"No", "Not applicable (N/A)"},
	}, VariantDeveloper)

	require.Len(t, out.Findings, 1)
	assert.Equal(t, StatusSatisfied, out.Controls[0].Status)
	assert.Equal(t, StatusMissing, out.Controls[1].Status)
}

func TestBuild_AbsentAndEmptyAnswers(t *testing.T) {
	out := build(t, ResponseSet{qIncident: {}, qMFA: {"  "}}, VariantDeveloper)

	assert.Empty(t, out.Findings)
	for _, c := range out.Controls {
		assert.Equal(t, StatusUnanswered, c.Status, c.Control.Question)
	}
}

func TestBuild_VariantScoping(t *testing.T) {
	responses := ResponseSet{qKeys: {"No"}}

	dev := build(t, responses, VariantDeveloper)
	assert.Empty(t, dev.Findings)

	org := build(t, responses, VariantOrganization)
	require.Len(t, org.Findings, 1)
	assert.Equal(t, SeverityHigh, org.Findings[0].Severity)
}

func TestBuild_UnknownVariant(t *testing.T) {
	_, err := NewBuilder(nil).Build(ResponseSet{qIncident: {"No"}}, Variant("enterprise"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestBuild_RedFlag(t *testing.T) {
	critical := []string{qIncident, qMFA, qSecrets, qDeps, qBackups}

	tests := []struct {
		name    string
		missing int
		want    bool
	}{
		{"none missing", 0, false},
		{"three of five", 3, false},
		{"four of five", 4, true},
		{"five of five", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := ResponseSet{}
			for i, q := range critical {
				if i < tt.missing {
					responses[q] = []string{"No"}
				} else {
					responses[q] = []string{"Yes"}
				}
			}

			out := build(t, responses, VariantDeveloper)
			assert.Equal(t, tt.want, out.RedFlag)
			assert.Equal(t, tt.missing, out.CriticalMissing)
			assert.Equal(t, 5, out.CriticalTotal)

			var flagged int
			for _, f := range out.Findings {
				if strings.Contains(f.Text, "Widespread absence of baseline controls") {
					flagged++
				}
			}
			if tt.want {
				assert.Equal(t, 1, flagged)
				last := out.Findings[len(out.Findings)-1]
				assert.Contains(t, last.Text, "Widespread absence of baseline controls")
				assert.Equal(t, SeverityCritical, last.Severity)
				assert.Equal(t, MitigationNone, last.Mitigation)
				assert.Len(t, out.Findings, tt.missing+1)
			} else {
				assert.Zero(t, flagged)
				assert.Len(t, out.Findings, tt.missing)
			}
		})
	}
}

func TestBuild_RedFlagCountsNotApplicable(t *testing.T) {
	out := build(t, ResponseSet{
		qIncident: {"No"},
		qMFA:      {"Not applicable (N/A)"},
		qSecrets:  {"Not applicable (N/A)"},
		qDeps:     {"Not applicable (N/A)"},
		qBackups:  {"Not applicable (N/A)"},
	}, VariantDeveloper)

	assert.False(t, out.RedFlag)
	assert.Equal(t, 1, out.CriticalMissing)
	assert.Equal(t, 5, out.CriticalTotal)
	require.Len(t, out.Findings, 1)
	assert.Contains(t, out.Findings[0].Text, qIncident)
}

func TestBuild_BlankAndPaddedLabels(t *testing.T) {
	out := build(t, ResponseSet{qIncident: {""}}, VariantDeveloper)
	require.Len(t, out.Findings, 1)
	assert.Equal(t, MissingMarker+" "+qIncident, out.Findings[0].Text)
	assert.Equal(t, StatusMissing, out.Controls[0].Status)

	out = build(t, ResponseSet{qIncident: {" Yes "}}, VariantDeveloper)
	require.Len(t, out.Findings, 1)
	assert.Equal(t, StatusMissing, out.Controls[0].Status)

	out = build(t, ResponseSet{qIncident: {}}, VariantDeveloper)
	assert.Empty(t, out.Findings)
	assert.Equal(t, StatusUnanswered, out.Controls[0].Status)
}

func TestBuild_RedFlagIgnoresContradictions(t *testing.T) {
	out := build(t, ResponseSet{
		qIncident: {"Yes", "No"},
		qMFA:      {"Yes", "No"},
		qSecrets:  {"Yes", "No"},
		qDeps:     {"Yes", "No"},
		qBackups:  {"Yes", "No"},
	}, VariantDeveloper)

	assert.False(t, out.RedFlag)
	assert.Len(t, out.Findings, 5)
}

func TestBuild_CustomThreshold(t *testing.T) {
	b := NewBuilder(nil, WithRedFlagThreshold(1.0))
	out, err := b.Build(ResponseSet{
		qIncident: {"No"}, qMFA: {"No"}, qSecrets: {"No"}, qDeps: {"No"},
	}, VariantDeveloper)
	require.NoError(t, err)
	assert.False(t, out.RedFlag)
}

func TestBuild_Order(t *testing.T) {
	out := build(t, ResponseSet{
		qBackups:  {"No"},
		qIncident: {"No"},
		qLogs:     {"No"},
		qSecrets:  {"No"},
	}, VariantDeveloper)

	require.Len(t, out.Findings, 4)
	assert.Contains(t, out.Findings[0].Text, qIncident)
	assert.Contains(t, out.Findings[1].Text, qSecrets)
	assert.Contains(t, out.Findings[2].Text, qBackups)
	assert.Contains(t, out.Findings[3].Text, qLogs)
}

func TestBuild_Deterministic(t *testing.T) {
	responses := ResponseSet{
		qIncident: {"No"}, qMFA: {"No"}, qSecrets: {"No"},
		qDeps: {"No"}, qBackups: {"No"}, qLogs: {"Yes", "No"},
	}
	b := NewBuilder(nil)

	first, err := b.Build(responses, VariantOrganization)
	require.NoError(t, err)
	second, err := b.Build(responses, VariantOrganization)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_CustomSentinels(t *testing.T) {
	cat, err := NewCatalog("custom", []Control{
		{Question: "Q1", DefaultSeverity: SeverityHigh, CriticalWeight: true},
	})
	require.NoError(t, err)

	b := NewBuilder(cat, WithSentinels(Sentinels{Affirmative: "Oui", Negative: "Non", NotApplicable: "S.O."}))

	out, err := b.Build(ResponseSet{"Q1": {"Oui"}}, VariantDeveloper)
	require.NoError(t, err)
	assert.Empty(t, out.Findings)

	out, err = b.Build(ResponseSet{"Q1": {"S.O."}}, VariantDeveloper)
	require.NoError(t, err)
	assert.Empty(t, out.Findings)
	assert.Zero(t, out.CriticalMissing)

	out, err = b.Build(ResponseSet{"Q1": {"Yes"}}, VariantDeveloper)
	require.NoError(t, err)
	require.Len(t, out.Findings, 2, "single critical control missing trips the flag")
	assert.Contains(t, out.Findings[1].Text, WidespreadAbsence)
}

func TestSentinelsClassify(t *testing.T) {
	s := DefaultSentinels()

	tests := []struct {
		label string
		kind  AnswerKind
	}{
		{"Yes", AnswerAffirmative},
		{" Yes ", AnswerNegative},
		{"No", AnswerNegative},
		{"Not applicable (N/A)", AnswerExcluded},
		{"N/A", AnswerNegative},
		{"YES", AnswerNegative},
		{"", AnswerNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, s.Classify(tt.label), "%q", tt.label)
	}
}
