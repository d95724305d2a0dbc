package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPolicy is returned when a scoring policy fails validation.
var ErrInvalidPolicy = errors.New("invalid scoring policy")

// MitigationBreakdown counts findings of one severity per mitigation bucket
type MitigationBreakdown struct {
	None    int `json:"none" yaml:"none"`
	Partial int `json:"partial" yaml:"partial"`
	Full    int `json:"full" yaml:"full"`
}

// SeverityTotal is the count for one severity plus its mitigation breakdown
type SeverityTotal struct {
	Count      int                 `json:"count" yaml:"count"`
	Mitigation MitigationBreakdown `json:"mitigation" yaml:"mitigation"`
}

// Get returns the count for one mitigation bucket.
func (t SeverityTotal) Get(m Mitigation) int {
	switch m {
	case MitigationPartial:
		return t.Mitigation.Partial
	case MitigationFull:
		return t.Mitigation.Full
	default:
		return t.Mitigation.None
	}
}

// RiskTotals aggregates findings by severity and mitigation
type RiskTotals struct {
	Critical SeverityTotal `json:"Critical" yaml:"Critical"`
	High     SeverityTotal `json:"High" yaml:"High"`
	Medium   SeverityTotal `json:"Medium" yaml:"Medium"`
	Low      SeverityTotal `json:"Low" yaml:"Low"`
}

func (r *RiskTotals) bucket(s Severity) *SeverityTotal {
	switch s {
	case SeverityCritical:
		return &r.Critical
	case SeverityHigh:
		return &r.High
	case SeverityLow:
		return &r.Low
	default:
		return &r.Medium
	}
}

// Get returns the total for one severity.
func (r RiskTotals) Get(s Severity) SeverityTotal {
	return *r.bucket(s)
}

// Count returns the number of findings across all severities.
func (r RiskTotals) Count() int {
	return r.Critical.Count + r.High.Count + r.Medium.Count + r.Low.Count
}

func (r *RiskTotals) add(s Severity, m Mitigation) {
	b := r.bucket(s)
	b.Count++
	switch m {
	case MitigationPartial:
		b.Mitigation.Partial++
	case MitigationFull:
		b.Mitigation.Full++
	default:
		b.Mitigation.None++
	}
}

// ComputeRiskTotals tallies one increment per finding. Findings are not
// deduplicated; out-of-vocabulary values fall back to Medium / none.
func ComputeRiskTotals(findings []Finding) RiskTotals {
	var totals RiskTotals
	for _, f := range findings {
		totals.add(NormalizeSeverity(string(f.Severity)), NormalizeMitigation(string(f.Mitigation)))
	}
	return totals
}

// ScoringPolicy holds the deduction constants behind the posture score
type ScoringPolicy struct {
	SeverityWeights       map[Severity]float64   `yaml:"severity_weights" json:"severity_weights"`
	MitigationMultipliers map[Mitigation]float64 `yaml:"mitigation_multipliers" json:"mitigation_multipliers"`
	RedFlagThreshold      float64                `yaml:"red_flag_threshold" json:"red_flag_threshold"`
}

// DefaultScoringPolicy returns the 40/20/10/5 weights with 1 / 0.5 / 0 multipliers.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		SeverityWeights: map[Severity]float64{
			SeverityCritical: 40,
			SeverityHigh:     20,
			SeverityMedium:   10,
			SeverityLow:      5,
		},
		MitigationMultipliers: map[Mitigation]float64{
			MitigationNone:    1.0,
			MitigationPartial: 0.5,
			MitigationFull:    0.0,
		},
		RedFlagThreshold: DefaultRedFlagThreshold,
	}
}

// Merge returns p with every key set in override replacing p's value.
// Keys are matched case-insensitively; unknown keys are carried through
// unchanged so that Validate rejects them.
func (p ScoringPolicy) Merge(override ScoringPolicy) ScoringPolicy {
	out := ScoringPolicy{
		SeverityWeights:       make(map[Severity]float64, len(Severities)),
		MitigationMultipliers: make(map[Mitigation]float64, len(Mitigations)),
		RedFlagThreshold:      p.RedFlagThreshold,
	}
	for k, v := range p.SeverityWeights {
		out.SeverityWeights[k] = v
	}
	for k, v := range p.MitigationMultipliers {
		out.MitigationMultipliers[k] = v
	}
	for k, v := range override.SeverityWeights {
		if sev, ok := LookupSeverity(string(k)); ok {
			k = sev
		}
		out.SeverityWeights[k] = v
	}
	for k, v := range override.MitigationMultipliers {
		if m, ok := LookupMitigation(string(k)); ok {
			k = m
		}
		out.MitigationMultipliers[k] = v
	}
	if override.RedFlagThreshold != 0 {
		out.RedFlagThreshold = override.RedFlagThreshold
	}
	return out
}

// Validate checks that the policy keeps the score monotone: weights are
// non-negative and multipliers never increase from none to full.
func (p ScoringPolicy) Validate() error {
	for s := range p.SeverityWeights {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown severity %q", ErrInvalidPolicy, s)
		}
	}
	for m := range p.MitigationMultipliers {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown mitigation %q", ErrInvalidPolicy, m)
		}
	}
	for _, s := range Severities {
		w, ok := p.SeverityWeights[s]
		if !ok {
			return fmt.Errorf("%w: missing weight for %s", ErrInvalidPolicy, s)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight %v for %s", ErrInvalidPolicy, w, s)
		}
	}
	prev := math.Inf(1)
	for _, m := range Mitigations {
		mult, ok := p.MitigationMultipliers[m]
		if !ok {
			return fmt.Errorf("%w: missing multiplier for %s", ErrInvalidPolicy, m)
		}
		if mult < 0 || mult > 1 {
			return fmt.Errorf("%w: multiplier %v for %s outside [0,1]", ErrInvalidPolicy, mult, m)
		}
		if mult > prev {
			return fmt.Errorf("%w: multiplier for %s exceeds the less mitigated bucket", ErrInvalidPolicy, m)
		}
		prev = mult
	}
	if p.RedFlagThreshold <= 0 || p.RedFlagThreshold > 1 {
		return fmt.Errorf("%w: red flag threshold %v outside (0,1]", ErrInvalidPolicy, p.RedFlagThreshold)
	}
	return nil
}

// Deduction returns the raw points removed from 100 for totals.
func (p ScoringPolicy) Deduction(totals RiskTotals) float64 {
	var sum float64
	for _, s := range Severities {
		t := totals.Get(s)
		for _, m := range Mitigations {
			sum += float64(t.Get(m)) * p.SeverityWeights[s] * p.MitigationMultipliers[m]
		}
	}
	return sum
}

// PosturePercent rounds 100 minus the deduction and clamps it to [0,100].
func (p ScoringPolicy) PosturePercent(totals RiskTotals) int {
	score := math.Round(100 - p.Deduction(totals))
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return int(score)
}

// PosturePercent scores totals with DefaultScoringPolicy.
func PosturePercent(totals RiskTotals) int {
	return DefaultScoringPolicy().PosturePercent(totals)
}

// Summary is the combined Builder -> Aggregator -> Scorer result
type Summary struct {
	Variant  Variant    `json:"variant"`
	Findings []Finding  `json:"findings"`
	Totals   RiskTotals `json:"totals"`
	Score    int        `json:"score"`
	RedFlag  bool       `json:"red_flag"`
}

// Summarize aggregates and scores an existing finding list.
func (p ScoringPolicy) Summarize(findings []Finding) Summary {
	totals := ComputeRiskTotals(findings)
	return Summary{
		Findings: findings,
		Totals:   totals,
		Score:    p.PosturePercent(totals),
	}
}

// SummarizeBaseline scores a built baseline. The red flag is copied from the
// baseline, so it reflects the Builder's threshold rather than
// p.RedFlagThreshold; build with WithPolicy(p) to keep the two aligned.
func (p ScoringPolicy) SummarizeBaseline(b *Baseline) Summary {
	s := p.Summarize(b.Findings)
	s.Variant = b.Variant
	s.RedFlag = b.RedFlag
	return s
}

// SummarizeBaseline builds baseline findings for responses and scores them.
func SummarizeBaseline(b *Builder, policy ScoringPolicy, responses ResponseSet, variant Variant) (Summary, error) {
	baseline, err := b.Build(responses, variant)
	if err != nil {
		return Summary{}, err
	}
	return policy.SummarizeBaseline(baseline), nil
}
