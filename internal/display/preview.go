package display

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders template content as styled terminal markdown.
// Falls back to the raw content when rendering fails, so a preview is
// always shown.
func RenderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Summarize formats the one-line status shown under a catalogue listing.
func Summarize(sourceLabel string, freshness string, count int) string {
	return descStyle.Render(fmt.Sprintf("%d templates · %s · %s", count, sourceLabel, freshness))
}
