package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles used across the reports
type Styles struct {
	Header  lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Win     lipgloss.Style
	Loss    lipgloss.Style
	Push    lipgloss.Style
	Point   lipgloss.Style
	Muted   lipgloss.Style
	Box     lipgloss.Style
}

// NewStyles builds the report styles on a renderer, so colour follows the
// renderer's output rather than the process terminal.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		Section: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Label: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")),
		Win: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Loss: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Push: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")),
		Point: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
	}
}
