package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityPolicy(t *testing.T) {
	tests := []struct {
		raw  string
		want Severity
		ok   bool
	}{
		{"Critical", SeverityCritical, true},
		{"critical", SeverityCritical, true},
		{" HIGH ", SeverityHigh, true},
		{"medium", SeverityMedium, true},
		{"Low", SeverityLow, true},
		{"", SeverityMedium, false},
		{"severe", SeverityMedium, false},
		{"info", SeverityMedium, false},
	}
	for _, tt := range tests {
		got, ok := LookupSeverity(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		if ok {
			assert.Equal(t, tt.want, got, tt.raw)
		}
		assert.Equal(t, tt.want, NormalizeSeverity(tt.raw), tt.raw)
	}
}

func TestMitigationPolicy(t *testing.T) {
	assert.Equal(t, MitigationPartial, NormalizeMitigation("Partial"))
	assert.Equal(t, MitigationFull, NormalizeMitigation("FULL"))
	assert.Equal(t, MitigationNone, NormalizeMitigation(""))
	assert.Equal(t, MitigationNone, NormalizeMitigation("mostly"))

	_, ok := LookupMitigation("mostly")
	assert.False(t, ok)
}

func TestLikelihoodPolicy(t *testing.T) {
	for _, raw := range []string{"very likely", "Very Likely", "very_likely", "very-likely", "  very   likely "} {
		l, ok := LookupLikelihood(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, LikelihoodVeryLikely, l, raw)
	}
	_, ok := LookupLikelihood("sometimes")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	assert.True(t, SeverityHigh.Valid())
	assert.False(t, Severity("high").Valid())
	assert.True(t, MitigationPartial.Valid())
	assert.False(t, Mitigation("Partial").Valid())
}

func TestFinding_DisplayText(t *testing.T) {
	assert.Equal(t, "Not in place: Do you have an incident response plan?",
		Finding{Text: "control missing: Do you have an incident response plan?"}.DisplayText())
	assert.Equal(t, "Inconsistent answers: Is MFA enforced?",
		Finding{Text: "conflicting answers detected: Is MFA enforced?"}.DisplayText())
	assert.Equal(t, "Something else", Finding{Text: "Something else"}.DisplayText())
}
