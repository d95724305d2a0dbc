package engine

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
)

// DefaultRedFlagThreshold is the share of the variant's critical-weighted
// controls that must be missing before the widespread-absence finding is raised.
const DefaultRedFlagThreshold = 0.8

// ControlResult records how one catalog control was classified
type ControlResult struct {
	Control Control       `json:"control"`
	Status  ControlStatus `json:"status"`
	Answers []string      `json:"answers,omitempty"`
}

// Baseline is the output of a single Build call
type Baseline struct {
	Variant  Variant         `json:"variant"`
	Findings []Finding       `json:"findings"`
	Controls []ControlResult `json:"controls"`

	// Red-flag tally. CriticalTotal counts every critical-weighted control in the
	// variant, including ones answered not applicable.
	CriticalMissing int  `json:"critical_missing"`
	CriticalTotal   int  `json:"critical_total"`
	RedFlag         bool `json:"red_flag"`
}

// Builder turns a ResponseSet into baseline findings against a catalog.
// A Builder is immutable after construction and safe for concurrent use.
type Builder struct {
	catalog   *Catalog
	sentinels Sentinels
	threshold float64
	logger    *slog.Logger
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithSentinels overrides the yes / no / not-applicable labels.
func WithSentinels(s Sentinels) BuilderOption {
	return func(b *Builder) { b.sentinels = s }
}

// WithRedFlagThreshold sets the missing share (0 < t <= 1) that trips the red flag.
// Out-of-range values are ignored.
func WithRedFlagThreshold(t float64) BuilderOption {
	return func(b *Builder) {
		if t > 0 && t <= 1 {
			b.threshold = t
		}
	}
}

// WithPolicy takes the red-flag threshold from a scoring policy.
func WithPolicy(p ScoringPolicy) BuilderOption {
	return WithRedFlagThreshold(p.RedFlagThreshold)
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a builder over catalog; a nil catalog means DefaultCatalog.
func NewBuilder(catalog *Catalog, opts ...BuilderOption) *Builder {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	b := &Builder{
		catalog:   catalog,
		sentinels: DefaultSentinels(),
		threshold: DefaultRedFlagThreshold,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Catalog returns the catalog the builder evaluates against
func (b *Builder) Catalog() *Catalog {
	return b.catalog
}

// Build classifies every applicable control and emits findings in catalog
// order, with the widespread-absence finding (if any) last.
func (b *Builder) Build(responses ResponseSet, variant Variant) (*Baseline, error) {
	controls, err := b.catalog.Controls(variant)
	if err != nil {
		return nil, fmt.Errorf("build baseline: %w", err)
	}

	out := &Baseline{
		Variant:  variant,
		Findings: []Finding{},
		Controls: make([]ControlResult, 0, len(controls)),
	}

	for _, ctrl := range controls {
		answers, present := responses[ctrl.Question]
		status := b.sentinels.tally(answers).status()

		out.Controls = append(out.Controls, ControlResult{
			Control: ctrl,
			Status:  status,
			Answers: slices.Clone(answers),
		})

		if ctrl.CriticalWeight {
			out.CriticalTotal++
			if status == StatusMissing {
				out.CriticalMissing++
			}
		}

		switch status {
		case StatusMissing:
			out.Findings = append(out.Findings, Finding{
				Text:       MissingMarker + " " + ctrl.Question,
				Severity:   ctrl.DefaultSeverity,
				Mitigation: MitigationNone,
			})
		case StatusPartial:
			out.Findings = append(out.Findings, Finding{
				Text:       ConflictMarker + ": " + ctrl.Question,
				Severity:   ctrl.DefaultSeverity,
				Mitigation: MitigationPartial,
			})
		case StatusUnanswered:
			if present {
				b.logger.Debug("control answered with an empty label list", "question", ctrl.Question)
			}
		}
	}

	if b.redFlag(out.CriticalMissing, out.CriticalTotal) {
		out.RedFlag = true
		out.Findings = append(out.Findings, Finding{
			Text: fmt.Sprintf("%s: %d of %d critical controls are missing, so there is no meaningful security baseline in place",
				WidespreadAbsence, out.CriticalMissing, out.CriticalTotal),
			Severity:   SeverityCritical,
			Mitigation: MitigationNone,
		})
		b.logger.Debug("widespread absence red flag raised",
			"variant", variant, "missing", out.CriticalMissing, "total", out.CriticalTotal)
	}

	b.warnUnknownQuestions(responses)
	return out, nil
}

func (b *Builder) redFlag(missing, total int) bool {
	if missing == 0 || total == 0 {
		return false
	}
	return float64(missing)/float64(total) >= b.threshold
}

// warnUnknownQuestions logs answers that do not match any catalog question.
func (b *Builder) warnUnknownQuestions(responses ResponseSet) {
	for q := range responses {
		if _, ok := b.catalog.Lookup(q); !ok {
			b.logger.Debug("answer for unknown question ignored", "question", q)
		}
	}
}
