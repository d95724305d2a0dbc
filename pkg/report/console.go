package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/user/gosec-posture/pkg/engine"
)

var (
	success    = color.New(color.FgGreen, color.Bold).SprintfFunc()
	info       = color.New(color.FgCyan, color.Bold).SprintfFunc()
	warning    = color.New(color.FgYellow, color.Bold).SprintfFunc()
	errorColor = color.New(color.FgRed, color.Bold).SprintfFunc()

	criticalColor = color.New(color.BgRed, color.FgWhite, color.Bold).SprintfFunc()
	highColor     = color.New(color.FgRed, color.Bold).SprintfFunc()
	mediumColor   = color.New(color.FgYellow, color.Bold).SprintfFunc()
	lowColor      = color.New(color.FgBlue, color.Bold).SprintfFunc()
)

const (
	CheckEmoji   = "✅"
	CrossEmoji   = "❌"
	WarningEmoji = "⚠️"
	ChartEmoji   = "📊"
	ShieldEmoji  = "🛡️"
	FlagEmoji    = "🚩"
)

// ColorForSeverity returns the colour function for a severity level
func ColorForSeverity(s engine.Severity) func(string, ...interface{}) string {
	switch s {
	case engine.SeverityCritical:
		return criticalColor
	case engine.SeverityHigh:
		return highColor
	case engine.SeverityMedium:
		return mediumColor
	case engine.SeverityLow:
		return lowColor
	default:
		return info
	}
}

// ColorForScore bands the posture score green / yellow / red
func ColorForScore(score int) func(string, ...interface{}) string {
	switch {
	case score >= 80:
		return success
	case score >= 50:
		return warning
	default:
		return errorColor
	}
}

// Printer writes human-readable assessment output
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintFinding prints a single finding with its tags
func (p *Printer) PrintFinding(f engine.Finding) {
	sev := ColorForSeverity(f.Severity)
	fmt.Fprintf(p.w, "  %s %s", sev("%-8s", f.Severity), f.DisplayText())
	if f.Likelihood != nil {
		fmt.Fprintf(p.w, " (likelihood: %s)", *f.Likelihood)
	}
	fmt.Fprintf(p.w, " [mitigation: %s]\n", f.Mitigation)
}

// PrintSummary prints the score, red flag and severity breakdown
func (p *Printer) PrintSummary(s engine.Summary) {
	fmt.Fprintf(p.w, "\n%s Security Posture %s\n", ShieldEmoji, info("%s", s.Variant))
	fmt.Fprintf(p.w, "%s Score: %s\n", ChartEmoji, ColorForScore(s.Score)("%d/100", s.Score))
	if s.RedFlag {
		fmt.Fprintf(p.w, "%s %s\n", FlagEmoji, errorColor("No meaningful security baseline: most critical controls are missing"))
	}

	fmt.Fprintf(p.w, `
Severity Breakdown (none / partial / full):
%s Critical: %d (%d / %d / %d)
%s High:     %d (%d / %d / %d)
%s Medium:   %d (%d / %d / %d)
%s Low:      %d (%d / %d / %d)
`,
		criticalColor("■"), s.Totals.Critical.Count, s.Totals.Critical.Mitigation.None, s.Totals.Critical.Mitigation.Partial, s.Totals.Critical.Mitigation.Full,
		highColor("■"), s.Totals.High.Count, s.Totals.High.Mitigation.None, s.Totals.High.Mitigation.Partial, s.Totals.High.Mitigation.Full,
		mediumColor("■"), s.Totals.Medium.Count, s.Totals.Medium.Mitigation.None, s.Totals.Medium.Mitigation.Partial, s.Totals.Medium.Mitigation.Full,
		lowColor("■"), s.Totals.Low.Count, s.Totals.Low.Mitigation.None, s.Totals.Low.Mitigation.Partial, s.Totals.Low.Mitigation.Full)

	if len(s.Findings) == 0 {
		fmt.Fprintf(p.w, "\n%s %s\n", CheckEmoji, success("No findings"))
		return
	}
	fmt.Fprintf(p.w, "\nFindings (%d):\n", len(s.Findings))
	for _, f := range s.Findings {
		p.PrintFinding(f)
	}
}

// PrintControls lists each applicable control and how it was answered
func (p *Printer) PrintControls(results []engine.ControlResult) {
	fmt.Fprintln(p.w, "\nControls:")
	for _, r := range results {
		var mark string
		switch r.Status {
		case engine.StatusSatisfied:
			mark = success("✓")
		case engine.StatusMissing:
			mark = errorColor("✗")
		case engine.StatusPartial:
			mark = warning("~")
		default:
			mark = info("-")
		}
		fmt.Fprintf(p.w, "  %s %-10s %s\n", mark, r.Status, r.Control.Question)
	}
}

// PrintDiff prints new, resolved and unchanged findings against a saved snapshot
func (p *Printer) PrintDiff(diff engine.FindingDiff, prev, cur int) {
	fmt.Fprintf(p.w, "Score: %d -> %d (%+d)\n", prev, cur, cur-prev)
	fmt.Fprintln(p.w, "--------------------------------------------------")

	fmt.Fprintf(p.w, "%s %d\n", errorColor("NEW RISKS:"), len(diff.New))
	for _, f := range diff.New {
		fmt.Fprintf(p.w, "  [+] [%s] %s\n", f.Severity, f.DisplayText())
	}
	fmt.Fprintf(p.w, "%s %d\n", success("RESOLVED:"), len(diff.Resolved))
	for _, f := range diff.Resolved {
		fmt.Fprintf(p.w, "  [-] [%s] %s\n", f.Severity, f.DisplayText())
	}
	fmt.Fprintf(p.w, "%s %d\n", info("UNCHANGED:"), len(diff.Unchanged))
	for i, f := range diff.Unchanged {
		if i == 10 {
			fmt.Fprintf(p.w, "  ... and %d more.\n", len(diff.Unchanged)-10)
			break
		}
		fmt.Fprintf(p.w, "  [=] [%s] %s\n", f.Severity, f.DisplayText())
	}
}

// PrintResolution explains which score was chosen when both sources exist
func (p *Printer) PrintResolution(r engine.ScoreResolution) {
	fmt.Fprintf(p.w, "%s Score %s from %s\n", ChartEmoji, ColorForScore(r.Score)("%d/100", r.Score), r.Source)
	if r.BaselineScore != nil && r.NarrativeScore != nil && !r.Consistent {
		fmt.Fprintf(p.w, "%s %s\n", WarningEmoji, warning("baseline %d vs narrative %d (%+d findings)",
			*r.BaselineScore, *r.NarrativeScore, r.FindingDrift))
	}
}

func (p *Printer) PrintError(message string, err error) {
	fmt.Fprintf(p.w, "%s %s: %v\n", CrossEmoji, errorColor(message), err)
}

func (p *Printer) PrintSuccess(message string) {
	fmt.Fprintf(p.w, "%s %s\n", CheckEmoji, success(message))
}
