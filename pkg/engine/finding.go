package engine

import (
	"strings"
)

// Severity is the impact classification of a finding
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Likelihood is the optional probability tag carried by narrative findings
type Likelihood string

const (
	LikelihoodVeryLikely Likelihood = "very likely"
	LikelihoodLikely     Likelihood = "likely"
	LikelihoodPossible   Likelihood = "possible"
	LikelihoodUnlikely   Likelihood = "unlikely"
	LikelihoodRare       Likelihood = "rare"
)

// Mitigation is how completely a finding has been addressed
type Mitigation string

const (
	MitigationNone    Mitigation = "none"
	MitigationPartial Mitigation = "partial"
	MitigationFull    Mitigation = "full"
)

// Mitigations lists every mitigation bucket from least to most mitigated.
var Mitigations = []Mitigation{MitigationNone, MitigationPartial, MitigationFull}

// Text markers relied upon by narrative generation and UI copy.
const (
	MissingMarker     = "control missing:"
	ConflictMarker    = "conflicting answers detected"
	WidespreadAbsence = "Widespread absence of baseline controls"
)

// Finding represents one identified gap, from the baseline builder or a parsed narrative
type Finding struct {
	Text       string      `json:"text" yaml:"text"`
	Severity   Severity    `json:"severity" yaml:"severity"`
	Likelihood *Likelihood `json:"likelihood" yaml:"likelihood,omitempty"`
	Mitigation Mitigation  `json:"mitigation" yaml:"mitigation"`
}

// DisplayText relabels the builder's fixed markers into end-user copy.
func (f Finding) DisplayText() string {
	switch {
	case strings.HasPrefix(f.Text, MissingMarker):
		return "Not in place: " + strings.TrimSpace(strings.TrimPrefix(f.Text, MissingMarker))
	case strings.HasPrefix(f.Text, ConflictMarker+":"):
		return "Inconsistent answers: " + strings.TrimSpace(strings.TrimPrefix(f.Text, ConflictMarker+":"))
	default:
		return f.Text
	}
}

// LikelihoodPtr is a convenience for building findings with a likelihood tag.
func LikelihoodPtr(l Likelihood) *Likelihood {
	return &l
}

// tagPolicy is a lookup from normalized raw text to a value, with the value
// used when the lookup misses.
type tagPolicy[T ~string] struct {
	values   map[string]T
	fallback T
}

func newTagPolicy[T ~string](fallback T, values ...T) tagPolicy[T] {
	p := tagPolicy[T]{values: make(map[string]T, len(values)), fallback: fallback}
	for _, v := range values {
		p.values[normalizeTag(string(v))] = v
	}
	return p
}

// lookup reports whether raw names a known value.
func (p tagPolicy[T]) lookup(raw string) (T, bool) {
	v, ok := p.values[normalizeTag(raw)]
	return v, ok
}

// normalize returns the known value for raw or the fallback.
func (p tagPolicy[T]) normalize(raw string) T {
	if v, ok := p.lookup(raw); ok {
		return v
	}
	return p.fallback
}

// normalizeTag lowercases, maps '_' and '-' to spaces and collapses whitespace,
// so "Very_Likely" and "very   likely" resolve the same way.
func normalizeTag(raw string) string {
	s := strings.ToLower(raw)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

var (
	severityPolicy   = newTagPolicy(SeverityMedium, Severities...)
	mitigationPolicy = newTagPolicy(MitigationNone, Mitigations...)
	likelihoodPolicy = newTagPolicy[Likelihood]("",
		LikelihoodVeryLikely, LikelihoodLikely, LikelihoodPossible, LikelihoodUnlikely, LikelihoodRare)
)

// LookupSeverity resolves raw case-insensitively; ok is false for unknown values.
func LookupSeverity(raw string) (Severity, bool) { return severityPolicy.lookup(raw) }

// NormalizeSeverity resolves raw, defaulting to Medium.
func NormalizeSeverity(raw string) Severity { return severityPolicy.normalize(raw) }

// LookupMitigation resolves raw case-insensitively; ok is false for unknown values.
func LookupMitigation(raw string) (Mitigation, bool) { return mitigationPolicy.lookup(raw) }

// NormalizeMitigation resolves raw, defaulting to none.
func NormalizeMitigation(raw string) Mitigation { return mitigationPolicy.normalize(raw) }

// LookupLikelihood resolves raw case-insensitively; ok is false for unknown values.
func LookupLikelihood(raw string) (Likelihood, bool) { return likelihoodPolicy.lookup(raw) }

// Valid reports whether s is one of the four severities.
func (s Severity) Valid() bool {
	v, ok := severityPolicy.values[normalizeTag(string(s))]
	return ok && v == s
}

// Valid reports whether m is one of the three mitigation levels.
func (m Mitigation) Valid() bool {
	v, ok := mitigationPolicy.values[normalizeTag(string(m))]
	return ok && v == m
}
