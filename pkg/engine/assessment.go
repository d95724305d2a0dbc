package engine

import (
	"strings"
)

// findingKey identifies a finding for dedup and comparison: same severity and
// the same text ignoring case and spacing.
func findingKey(f Finding) string {
	return string(NormalizeSeverity(string(f.Severity))) + "|" + strings.ToLower(strings.Join(strings.Fields(f.Text), " "))
}

// DedupeFindings drops repeated findings, keeping the first occurrence and
// the original order. Aggregation never dedups on its own; callers that
// want it run this first.
func DedupeFindings(findings []Finding) []Finding {
	seen := make(map[string]bool, len(findings))
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		k := findingKey(f)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// FindingDiff is the outcome of comparing two assessments
type FindingDiff struct {
	New       []Finding `json:"new"`
	Resolved  []Finding `json:"resolved"`
	Unchanged []Finding `json:"unchanged"`
}

// CompareFindings classifies current findings against a baseline set.
// New and Unchanged follow current's order, Resolved follows baseline's.
func CompareFindings(baseline, current []Finding) FindingDiff {
	diff := FindingDiff{New: []Finding{}, Resolved: []Finding{}, Unchanged: []Finding{}}

	before := make(map[string]bool, len(baseline))
	for _, f := range baseline {
		before[findingKey(f)] = true
	}
	after := make(map[string]bool, len(current))

	for _, f := range DedupeFindings(current) {
		k := findingKey(f)
		after[k] = true
		if before[k] {
			diff.Unchanged = append(diff.Unchanged, f)
		} else {
			diff.New = append(diff.New, f)
		}
	}

	for _, f := range DedupeFindings(baseline) {
		if !after[findingKey(f)] {
			diff.Resolved = append(diff.Resolved, f)
		}
	}
	return diff
}

// ScoreSource names where a resolved score came from
type ScoreSource string

const (
	ScoreFromBaseline  ScoreSource = "baseline"
	ScoreFromNarrative ScoreSource = "narrative"
)

// ScoreResolution reconciles the structured and narrative-derived scores
type ScoreResolution struct {
	Score  int         `json:"score"`
	Source ScoreSource `json:"source"`

	BaselineScore  *int `json:"baseline_score,omitempty"`
	NarrativeScore *int `json:"narrative_score,omitempty"`

	// Positive when the narrative reports more findings than the baseline
	FindingDrift int  `json:"finding_drift"`
	ScoreDrift   int  `json:"score_drift"`
	Consistent   bool `json:"consistent"`
}

// ResolveScore prefers the structured baseline score and falls back to the
// score recomputed from narrative findings when baseline is nil. When both
// are present the drift between them is reported. Both nil resolves to a
// narrative score of 100 (no findings).
func ResolveScore(policy ScoringPolicy, baseline *Summary, narrative []Finding) ScoreResolution {
	narr := policy.Summarize(narrative)
	narrScore := narr.Score

	if baseline == nil {
		return ScoreResolution{
			Score:          narrScore,
			Source:         ScoreFromNarrative,
			NarrativeScore: &narrScore,
			Consistent:     true,
		}
	}

	baseScore := baseline.Score
	res := ScoreResolution{
		Score:          baseScore,
		Source:         ScoreFromBaseline,
		BaselineScore:  &baseScore,
		NarrativeScore: &narrScore,
		FindingDrift:   narr.Totals.Count() - baseline.Totals.Count(),
		ScoreDrift:     narrScore - baseScore,
	}
	res.Consistent = res.FindingDrift == 0 && res.ScoreDrift == 0
	return res
}
