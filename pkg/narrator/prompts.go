package narrator

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/user/gosec-posture/pkg/engine"
)

//go:embed prompts/system_prompt.md
var systemPrompt string

//go:embed prompts/assessment.tmpl
var assessmentTemplate string

var assessmentTmpl = template.Must(template.New("assessment").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(assessmentTemplate))

const formatReminder = "Your report could not be read. Rewrite it using only the headings " +
	"## Critical, ## High, ## Medium and ## Low, with one bullet per finding and a " +
	"[mitigation: none|partial|full] tag on every bullet."

// GetSystemPrompt returns the system prompt describing the narrative grammar
func GetSystemPrompt() string {
	return systemPrompt
}

type promptControl struct {
	Question string
	Severity engine.Severity
	Critical bool
	Answers  []string
}

type promptData struct {
	Variant  engine.Variant
	Grammar  string
	Controls []promptControl
	Findings []engine.Finding
	RedFlag  bool
}

// BuildPrompt renders the user prompt for one assessment.
func BuildPrompt(catalog *engine.Catalog, req Request) (string, error) {
	if catalog == nil {
		catalog = engine.DefaultCatalog()
	}
	controls, err := catalog.Controls(req.Variant)
	if err != nil {
		return "", err
	}

	data := promptData{
		Variant: req.Variant,
		Grammar: engine.NarrativeGrammarVersion,
	}
	for _, c := range controls {
		answers := req.Responses[c.Question]
		if len(answers) == 0 {
			answers = []string{"(unanswered)"}
		}
		data.Controls = append(data.Controls, promptControl{
			Question: c.Question,
			Severity: c.DefaultSeverity,
			Critical: c.CriticalWeight,
			Answers:  answers,
		})
	}
	if req.Baseline != nil {
		data.Findings = req.Baseline.Findings
		data.RedFlag = req.Baseline.RedFlag
	}

	var sb strings.Builder
	if err := assessmentTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return sb.String(), nil
}
