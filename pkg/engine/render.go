package engine

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// NarrativeDocument is the input to RenderNarrative
type NarrativeDocument struct {
	Title    string
	Summary  string
	Findings []Finding
}

type narrativeSection struct {
	Severity Severity
	Bullets  []string
}

const narrativeTemplate = `# {{ .Title }}
{{ if .Summary }}
## Summary

{{ .Summary }}
{{ end }}{{ range .Sections }}
## {{ .Severity }}
{{ if .Bullets }}{{ range .Bullets }}
- {{ . }}{{ end }}
{{ else }}
No findings at this severity.
{{ end }}{{ end }}`

var narrativeTmpl = template.Must(template.New("narrative").Parse(narrativeTemplate))

// RenderNarrative writes findings as markdown in the narrative grammar: one
// section per severity, one bullet per finding with its tags inline.
// Parsing the output with ParseFindings yields the same findings.
func RenderNarrative(doc NarrativeDocument) (string, error) {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = "Security Posture Report"
	}

	sections := make([]narrativeSection, 0, len(Severities))
	for _, sev := range Severities {
		sec := narrativeSection{Severity: sev}
		for _, f := range doc.Findings {
			if NormalizeSeverity(string(f.Severity)) == sev {
				sec.Bullets = append(sec.Bullets, renderBullet(f))
			}
		}
		sections = append(sections, sec)
	}

	var buf bytes.Buffer
	err := narrativeTmpl.Execute(&buf, map[string]any{
		"Title":    title,
		"Summary":  strings.TrimSpace(doc.Summary),
		"Sections": sections,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute narrative template: %w", err)
	}
	return buf.String(), nil
}

func renderBullet(f Finding) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(strings.Fields(f.Text), " "))
	if f.Likelihood != nil {
		fmt.Fprintf(&sb, " [%s: %s]", TagLikelihood, *f.Likelihood)
	}
	fmt.Fprintf(&sb, " [%s: %s]", TagMitigation, NormalizeMitigation(string(f.Mitigation)))
	return sb.String()
}
