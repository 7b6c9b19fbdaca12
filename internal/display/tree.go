// Package display renders catalogue trees and template previews for the
// terminal.
package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quarry-dev/quarry/internal/models"
)

var (
	dirStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "39"})
	leafStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "252"})
	descStyle = lipgloss.NewStyle().Faint(true)
)

// RenderTree renders the assembled hierarchy with box-drawing connectors.
func RenderTree(nodes []models.Node) string {
	var b strings.Builder
	renderNodes(&b, nodes, "")
	return b.String()
}

func renderNodes(b *strings.Builder, nodes []models.Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		switch node := n.(type) {
		case *models.Dir:
			b.WriteString(prefix + connector + dirStyle.Render(node.Name+"/") + "\n")
			renderNodes(b, node.Children, childPrefix)
		case *models.Leaf:
			line := prefix + connector + leafStyle.Render(node.Name)
			if node.Template.Description != "" {
				line += "  " + descStyle.Render(node.Template.Description)
			}
			b.WriteString(line + "\n")
		}
	}
}
