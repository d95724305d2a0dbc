package report

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/gosec-posture/pkg/engine"
)

var (
	PrimaryColor = lipgloss.Color("#7D56F4")
	SubtleColor  = lipgloss.Color("#626262")

	severityColors = map[engine.Severity]lipgloss.Color{
		engine.SeverityCritical: lipgloss.Color("#9B0000"),
		engine.SeverityHigh:     lipgloss.Color("#FF5F56"),
		engine.SeverityMedium:   lipgloss.Color("#FFCC00"),
		engine.SeverityLow:      lipgloss.Color("#04B575"),
	}
)

// RenderRiskChart draws one stacked bar per severity, split by mitigation.
func RenderRiskChart(totals engine.RiskTotals, width, height int) string {
	if totals.Count() == 0 {
		return "No findings to chart"
	}
	if width < 20 {
		width = 20
	}
	if height < 10 {
		height = 10
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(PrimaryColor).
		Padding(0, 1).
		Render("Findings by Severity")
	b.WriteString(title)
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-4,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(6),
		barchart.WithBarGap(2),
	)

	var items []barchart.BarData
	for _, sev := range engine.Severities {
		t := totals.Get(sev)
		fg := severityColors[sev]
		var values []barchart.BarValue
		for _, m := range engine.Mitigations {
			n := t.Get(m)
			if n == 0 {
				continue
			}
			style := lipgloss.NewStyle().Foreground(fg)
			if m != engine.MitigationNone {
				style = style.Faint(true)
			}
			values = append(values, barchart.BarValue{
				Name:  string(m),
				Value: float64(n),
				Style: style,
			})
		}
		if len(values) == 0 {
			values = append(values, barchart.BarValue{Name: string(engine.MitigationNone), Style: lipgloss.NewStyle().Foreground(fg)})
		}
		items = append(items, barchart.BarData{
			Label:  string(sev),
			Values: values,
		})
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	// Legend
	for _, sev := range engine.Severities {
		t := totals.Get(sev)
		marker := lipgloss.NewStyle().Foreground(severityColors[sev]).Render("█")
		b.WriteString(fmt.Sprintf("%s %-8s %d (none %d, partial %d, full %d)\n",
			marker, sev, t.Count, t.Mitigation.None, t.Mitigation.Partial, t.Mitigation.Full))
	}

	footer := lipgloss.NewStyle().Foreground(SubtleColor).Render("partial and full mitigations are drawn faint")
	b.WriteString(footer)

	return b.String()
}
