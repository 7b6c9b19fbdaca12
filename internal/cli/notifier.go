package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "203"})
)

// stderrNotifier surfaces catalogue outcomes on stderr so stdout stays
// clean for pipeable output.
type stderrNotifier struct{}

func (stderrNotifier) Info(message string) {
	fmt.Fprintln(os.Stderr, infoStyle.Render(message))
}

func (stderrNotifier) Error(message string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(message))
}
