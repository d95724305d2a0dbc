package engine

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// NarrativeGrammarVersion identifies the heading and tag vocabulary below.
// Generators producing narrative text must conform to this version.
const NarrativeGrammarVersion = "1"

// NarrativeHeadings are the section words recognised in severity headings.
var NarrativeHeadings = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Narrative tag keys, written inline as "[likelihood: likely]".
const (
	TagLikelihood = "likelihood"
	TagMitigation = "mitigation"
)

// Parser extracts findings from narrative markdown.
// It is stateless between calls and safe for concurrent use.
type Parser struct {
	headingPattern  *regexp.Regexp
	severityPattern *regexp.Regexp
	bulletPattern   *regexp.Regexp
	tagPattern      *regexp.Regexp
	fencePattern    *regexp.Regexp

	logger *slog.Logger
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithParserLogger sets the logger used for debug output.
func WithParserLogger(l *slog.Logger) ParserOption {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser creates a narrative parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		// Any ATX heading; the title is checked separately
		headingPattern: regexp.MustCompile(`^#{1,6}\s*(.*?)\s*#*$`),

		// Optional decorative glyphs and a list number ("1.", "2)"), then the
		// severity word as a whole word. "High-risk" counts, "High-level summary" does not.
		severityPattern: regexp.MustCompile(`(?i)^[^\pL\pN]*(?:\d+[.)]?[^\pL\pN]*)?(critical|high|medium|low)(?:$|[^\pL\pN-]|-(?:risk|severity|priority)\b)`),

		// "- item", "* item", "+ item", "• item", "1. item", "1) item"
		bulletPattern: regexp.MustCompile(`^(?:[-*+•]|\d+[.)])\s+(.*)$`),

		// "[likelihood: likely]" or "[mitigation: partial]"
		tagPattern: regexp.MustCompile(`(?i)\[\s*(likelihood|mitigation)\s*:\s*([^\]]*?)\s*\]`),

		fencePattern: regexp.MustCompile("^(```|~~~)"),

		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts one finding per bullet inside a severity section.
// Malformed input never fails; worst case the result is empty.
func (p *Parser) Parse(narrative string) []Finding {
	findings := []Finding{}

	var current Severity
	inFence := false

	for _, raw := range strings.Split(narrative, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

		if p.fencePattern.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence || line == "" {
			continue
		}

		if m := p.headingPattern.FindStringSubmatch(line); m != nil {
			current = p.headingSeverity(m[1])
			continue
		}

		m := p.bulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if current == "" {
			p.logger.Debug("bullet outside a severity section dropped", "line", line)
			continue
		}

		if f, ok := p.parseBullet(m[1], current); ok {
			findings = append(findings, f)
		}
	}

	return findings
}

// headingSeverity returns the severity a heading title introduces, or ""
// for any other heading (summary, recommendations, ...).
func (p *Parser) headingSeverity(title string) Severity {
	m := p.severityPattern.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	sev, _ := LookupSeverity(m[1])
	return sev
}

// parseBullet strips inline tags from a bullet body and builds the finding.
func (p *Parser) parseBullet(body string, sev Severity) (Finding, bool) {
	f := Finding{Severity: sev, Mitigation: MitigationNone}

	for _, tag := range p.tagPattern.FindAllStringSubmatch(body, -1) {
		key, value := strings.ToLower(tag[1]), tag[2]
		switch key {
		case TagLikelihood:
			if l, ok := LookupLikelihood(value); ok {
				f.Likelihood = &l
			} else {
				p.logger.Debug("unrecognized likelihood tag ignored", "value", value)
			}
		case TagMitigation:
			if m, ok := LookupMitigation(value); ok {
				f.Mitigation = m
			} else {
				p.logger.Debug("unrecognized mitigation tag ignored", "value", value)
			}
		}
	}

	text := p.tagPattern.ReplaceAllString(body, "")
	f.Text = cleanFindingText(text)
	if f.Text == "" {
		return Finding{}, false
	}
	return f, true
}

// cleanFindingText collapses whitespace and trims emphasis markers and
// separator punctuation from both ends.
func cleanFindingText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " \t*_`-–—:;,|")
}

// DefaultParser is the shared parser instance.
var DefaultParser = NewParser()

// ParseFindings uses the default parser to extract findings from narrative.
func ParseFindings(narrative string) []Finding {
	return DefaultParser.Parse(narrative)
}
