package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	assert.Equal(t, "baseline", cat.Name())
	assert.Same(t, cat, DefaultCatalog())

	for _, v := range Variants {
		controls, err := cat.Controls(v)
		require.NoError(t, err)
		require.NotEmpty(t, controls)

		var critical int
		for _, c := range controls {
			assert.True(t, c.DefaultSeverity.Valid(), c.Question)
			if c.CriticalWeight {
				critical++
			}
		}
		assert.GreaterOrEqual(t, critical, 5, "variant %s", v)
	}

	dev, _ := cat.Controls(VariantDeveloper)
	org, _ := cat.Controls(VariantOrganization)
	assert.Equal(t, qIncident, dev[0].Question)

	_, devHasKeys := findControl(dev, qKeys)
	_, orgHasKeys := findControl(org, qKeys)
	assert.False(t, devHasKeys)
	assert.True(t, orgHasKeys)
}

func findControl(controls []Control, q string) (Control, bool) {
	for _, c := range controls {
		if c.Question == q {
			return c, true
		}
	}
	return Control{}, false
}

func TestCatalog_UnknownVariant(t *testing.T) {
	_, err := DefaultCatalog().Controls("Developer")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = ParseVariant("enterprise")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	v, err := ParseVariant("organization")
	require.NoError(t, err)
	assert.Equal(t, VariantOrganization, v)
}

func TestCatalog_Immutable(t *testing.T) {
	src := []Control{{Question: "Q1", DefaultSeverity: SeverityHigh, Variants: []Variant{VariantDeveloper}}}
	cat, err := NewCatalog("t", src)
	require.NoError(t, err)

	src[0].Question = "changed"
	src[0].Variants[0] = VariantOrganization

	controls, err := cat.Controls(VariantDeveloper)
	require.NoError(t, err)
	require.Len(t, controls, 1)
	assert.Equal(t, "Q1", controls[0].Question)

	controls[0].Variants[0] = VariantOrganization
	again, _ := cat.Controls(VariantDeveloper)
	require.Len(t, again, 1)
	assert.Equal(t, VariantDeveloper, again[0].Variants[0])
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name     string
		controls []Control
	}{
		{"empty question", []Control{{Question: " ", DefaultSeverity: SeverityLow}}},
		{"duplicate", []Control{{Question: "Q", DefaultSeverity: SeverityLow}, {Question: "Q", DefaultSeverity: SeverityHigh}}},
		{"bad severity", []Control{{Question: "Q", DefaultSeverity: "Severe"}}},
		{"bad variant", []Control{{Question: "Q", DefaultSeverity: SeverityLow, Variants: []Variant{"team"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog("t", tt.controls)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
name: custom
controls:
  - question: Do you lock your screen?
    severity: low
  - question: Do you rotate admin keys?
    severity: HIGH
    critical_weight: true
    variants: [organization]
`)
	cat, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, "custom", cat.Name())

	dev, err := cat.Controls(VariantDeveloper)
	require.NoError(t, err)
	require.Len(t, dev, 1)
	assert.Equal(t, SeverityLow, dev[0].DefaultSeverity)

	ctrl, ok := cat.Lookup("Do you rotate admin keys?")
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, ctrl.DefaultSeverity)
	assert.True(t, ctrl.CriticalWeight)

	_, err = ParseCatalog([]byte("controls: []"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = ParseCatalog([]byte("controls: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
