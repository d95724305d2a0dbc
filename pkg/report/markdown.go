package report

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders a narrative for the terminal. style is a glamour
// style name such as "dark", "light", "dracula" or "notty".
func RenderMarkdown(md, style string, width int) (string, error) {
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
